// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"unicode/utf8"

	"github.com/xyzsd/fluent-go/ast"
	"github.com/xyzsd/fluent-go/internal/bytesx"
)

// cursor is the lexical stream cursor FTL entries are parsed against. It
// owns the padded byte buffer, a current byte position, and the Accelerator
// chosen for the whole parse (spec 4.1, 4.2). There is no rune decoding in
// the hot path: FTL's grammar is ASCII-delimited, so the cursor only ever
// decodes UTF-8 on demand, for text slice contents and string literals.
type cursor struct {
	src    []byte // logical source, length == length (not padded)
	padded []byte // src plus trailing 0xFF pad, for bytesx
	length int
	pos    int
	acc    bytesx.Accelerator
}

func newCursor(src []byte, acc bytesx.Accelerator) *cursor {
	return &cursor{
		src:    src,
		padded: bytesx.Pad(src),
		length: len(src),
		acc:    acc,
	}
}

func (c *cursor) Position() int { return c.pos }

func (c *cursor) SetPosition(i int) { c.pos = i }

func (c *cursor) HasRemaining() bool { return c.pos < c.length }

// At returns the byte at the cursor's current position, or bytesx.EOFByte
// if the cursor is at or past the end of input.
func (c *cursor) At() byte { return c.AtOffset(0) }

// AtOffset returns the byte at pos+i, or bytesx.EOFByte if that is out of
// range.
func (c *cursor) AtOffset(i int) byte {
	p := c.pos + i
	if p < 0 || p >= c.length {
		return bytesx.EOFByte
	}
	return c.src[p]
}

func (c *cursor) Inc(k int) { c.pos += k }
func (c *cursor) Dec(k int) { c.pos -= k }

func (c *cursor) IsCurrentChar(b byte) bool { return c.HasRemaining() && c.src[c.pos] == b }
func (c *cursor) IsNextChar(b byte) bool    { return c.AtOffset(1) == b }

// line returns the 1-based source line of the cursor's current position,
// for error reporting; 0 if the cursor is at EOF (spec 4.1, 6).
func (c *cursor) line() int { return bytesx.PositionToLine(c.src, c.pos) }

func (c *cursor) span(from int) ast.Span { return ast.NewSpan(from, c.pos) }

// expectChar consumes b at the current position or raises E0003.
func (c *cursor) expectChar(b byte) error {
	if c.IsCurrentChar(b) {
		c.Inc(1)
		return nil
	}
	return newError(E0003, c.line(), c.span(c.pos), describeByte(b, false)+" got "+describeByte(c.At(), !c.HasRemaining()))
}

// takeCharIf consumes b at the current position if present, reporting
// whether it did.
func (c *cursor) takeCharIf(b byte) bool {
	if c.IsCurrentChar(b) {
		c.Inc(1)
		return true
	}
	return false
}

// skipBlankInline advances over a run of ASCII spaces, returning how many
// were skipped.
func (c *cursor) skipBlankInline() int {
	start := c.pos
	c.pos = c.acc.SkipBlankInline(c.padded, c.pos)
	return c.pos - start
}

// isEOL reports whether the cursor sits on a line terminator (or EOF).
func (c *cursor) isEOL() bool {
	return !c.HasRemaining() || c.At() == '\n' || (c.At() == '\r' && c.AtOffset(1) == '\n')
}

// skipEOL consumes a single line terminator (LF or CRLF), reporting whether
// one was present.
func (c *cursor) skipEOL() bool {
	if c.IsCurrentChar('\n') {
		c.Inc(1)
		return true
	}
	if c.IsCurrentChar('\r') && c.IsNextChar('\n') {
		c.Inc(2)
		return true
	}
	return false
}

// skipToEOL advances to (but not past) the next line terminator or EOF.
func (c *cursor) skipToEOL() {
	c.pos = c.acc.NextLF(c.padded, c.pos)
	if c.pos > c.length {
		c.pos = c.length
	}
	if c.pos < c.length && c.pos > 0 && c.src[c.pos-1] == '\r' {
		c.pos--
	}
}

// skipBlankBlock advances over zero or more blank lines (a line consisting
// only of inline blanks, terminated by EOL or EOF), returning the number of
// lines skipped. Used between entries and around comment runs (spec 4.3,
// 4.5).
func (c *cursor) skipBlankBlock() int {
	count := 0
	for {
		save := c.pos
		c.skipBlankInline()
		if c.isEOL() {
			if !c.skipEOL() {
				// EOF right after inline blanks: still counts as the block
				// having consumed trailing whitespace, but there's no line
				// terminator to account for.
				if c.pos != save {
					count++
				}
				break
			}
			count++
			continue
		}
		c.pos = save
		break
	}
	return count
}

// skipBlankBlockNLC is skipBlankBlock without the line count, followed by
// the inline blanks that open the next non-blank line, so the cursor ends
// on the first non-blank byte (as the blank-tolerant grammar positions
// inside placeables, call arguments and select expressions need).
func (c *cursor) skipBlankBlockNLC() {
	c.skipBlankBlock()
	c.skipBlankInline()
}

// skipToNextEntryStart recovers from a parse error by advancing to the
// first byte that plausibly starts a new entry: the beginning of any later
// line whose first byte is '#', '-', or a valid identifier-start letter
// (spec 4.5 error recovery).
func (c *cursor) skipToNextEntryStart() {
	for c.HasRemaining() {
		c.skipToEOL()
		if !c.skipEOL() {
			c.pos = c.length
			return
		}
		if !c.HasRemaining() {
			return
		}
		b := c.At()
		if b == '#' || b == '-' || bytesx.IsAlpha(b) {
			return
		}
	}
}

// substring decodes src[a:b] as a UTF-8 string.
func (c *cursor) substring(a, b int) string { return string(c.src[a:b]) }

// getUnicodeEscape consumes n (4 or 6) hex digits following a \u or \U
// escape and returns the decoded rune, raising E0026 on malformed input.
func (c *cursor) getUnicodeEscape(n int) (rune, error) {
	start := c.pos
	if c.pos+n > c.length {
		c.pos = c.length
		return 0, newError(E0026, c.line(), c.span(start), "incomplete escape")
	}
	var v rune
	for i := 0; i < n; i++ {
		b := c.src[c.pos+i]
		if !bytesx.IsHex(b) {
			return 0, newError(E0026, c.line(), c.span(start), describeByte(b, false))
		}
		v = v<<4 | hexVal(b)
	}
	c.pos += n
	if !utf8.ValidRune(v) {
		return 0, newError(E0026, c.line(), c.span(start), "invalid code point")
	}
	return v, nil
}

func hexVal(b byte) rune {
	switch {
	case b >= '0' && b <= '9':
		return rune(b - '0')
	case b >= 'a' && b <= 'f':
		return rune(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return rune(b-'A') + 10
	}
	return 0
}

// getTextSlice scans from the cursor's current position to the next text
// slice terminator (LF, CRLF, '{', '}', or EOF), per spec 4.4. It does not
// advance past the terminator itself (callers decide whether to consume
// it); a stray '}' -- one without a matching, already-open placeable --
// is the caller's responsibility to reject with E0027.
func (c *cursor) getTextSlice() (start, end int, term bytesx.Terminator) {
	start = c.pos
	end, term = c.acc.NextTextSliceTerminator(c.padded, c.pos)
	if end > c.length {
		end = c.length
	}
	c.pos = end
	return start, end, term
}

// identifierEnd returns the end offset of the identifier starting at the
// cursor's current position (spec 4.1), without consuming it.
func (c *cursor) identifierEnd() int {
	return c.acc.IdentifierEnd(c.padded, c.pos)
}
