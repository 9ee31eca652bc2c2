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
	"strings"

	"github.com/xyzsd/fluent-go/ast"
	"github.com/xyzsd/fluent-go/internal/bytesx"
)

// piece is one fragment of a single source line within a pattern: either a
// run of literal text or a placeable.
type piece struct {
	isText bool
	text   string
	ph     ast.Placeable
}

// patternLine is one physical line's contribution to a pattern, before
// dedent. indent is the number of leading blank bytes already stripped from
// pieces (0 for a first line that starts on the same line as '=').
type patternLine struct {
	indent int
	pieces []piece
}

// parsePattern parses a Message/Term/Attribute value starting at the
// cursor's current position (immediately after the required inline blank
// following '='), per spec 4.4. It returns (nil, nil) if there is no
// pattern at all -- an empty value, immediately followed by EOL/EOF/the
// start of the next construct.
func parsePattern(c *cursor) (*ast.Pattern, error) {
	start := c.Position()
	var lines []patternLine
	var pendingBlankLines int

	if !c.isEOL() {
		first, err := parseLinePieces(c)
		if err != nil {
			return nil, err
		}
		if len(first) > 0 {
			lines = append(lines, patternLine{indent: 0, pieces: first})
		}
	}

	for {
		save := c.Position()
		if !c.skipEOL() {
			break
		}
		indent := c.skipBlankInline()

		if c.isEOL() {
			// Blank line: deferred until we know whether a further content
			// line follows (trailing blank lines are dropped).
			pendingBlankLines++
			continue
		}

		if bytesx.IsLineStart(c.At()) || (indent == 0 && (bytesx.IsAlpha(c.At()) || c.At() == '-' || c.At() == '#')) {
			// Not a continuation: next construct (attribute, variant, or
			// closing brace of an enclosing placeable, at any indent; or an
			// unindented new entry) starts here. Rewind to just before this
			// EOL so the caller re-reads it.
			c.SetPosition(save)
			break
		}
		if indent == 0 {
			// Unindented, non-special content directly abutting a pattern
			// line is still not a valid continuation (spec 4.4): only
			// indented lines continue a multi-line pattern.
			c.SetPosition(save)
			break
		}

		for ; pendingBlankLines > 0; pendingBlankLines-- {
			lines = append(lines, patternLine{indent: 0, pieces: nil})
		}

		ps, err := parseLinePieces(c)
		if err != nil {
			return nil, err
		}
		lines = append(lines, patternLine{indent: indent, pieces: ps})
	}

	if len(lines) == 0 {
		return nil, nil
	}
	return buildPattern(start, c.Position(), lines), nil
}

// parseLinePieces parses text/placeable pieces from the cursor's current
// position up to (not including) the next EOL or EOF.
func parseLinePieces(c *cursor) ([]piece, error) {
	var out []piece
	for {
		if c.isEOL() {
			return out, nil
		}
		if c.IsCurrentChar('{') {
			ph, err := parsePlaceable(c)
			if err != nil {
				return nil, err
			}
			out = append(out, piece{ph: ph})
			continue
		}
		start, end, term := c.getTextSlice()
		if end > start {
			out = append(out, piece{isText: true, text: c.substring(start, end)})
		}
		switch term {
		case bytesx.TermCloseBrace:
			return nil, newError(E0027, c.line(), c.span(c.Position()), "'}'")
		case bytesx.TermOpenBrace:
			// getTextSlice stops just before '{'; loop back to handle it.
			continue
		case bytesx.TermLF, bytesx.TermCRLF, bytesx.TermEOF:
			return out, nil
		}
	}
}

// buildPattern computes the common indent across indented lines, strips
// it, joins lines with '\n', merges adjacent text runs, and trims trailing
// whitespace from a final text element.
func buildPattern(from, to int, lines []patternLine) *ast.Pattern {
	commonIndent := -1
	for i, l := range lines {
		if i == 0 && l.indent == 0 {
			continue // first line on the same line as '=' carries no indent
		}
		if isBlankLine(l) {
			continue
		}
		if commonIndent == -1 || l.indent < commonIndent {
			commonIndent = l.indent
		}
	}
	if commonIndent == -1 {
		commonIndent = 0
	}

	var elements []ast.PatternElement
	var textBuf strings.Builder
	flush := func() {
		if textBuf.Len() > 0 {
			elements = append(elements, ast.TextElement{Span: ast.NewSpan(from, to), Value: textBuf.String()})
			textBuf.Reset()
		}
	}

	for i, l := range lines {
		if i > 0 {
			textBuf.WriteByte('\n')
		}
		// Each indented line already had its full leading run of blank
		// bytes stripped before parseLinePieces ran; re-insert whatever
		// part of that indent exceeds the shallowest indented line's,
		// since only the common portion is dedented away (spec 4.4).
		if !isBlankLine(l) && l.indent > commonIndent {
			textBuf.WriteString(strings.Repeat(" ", l.indent-commonIndent))
		}
		for _, p := range l.pieces {
			if p.isText {
				textBuf.WriteString(p.text)
				continue
			}
			flush()
			elements = append(elements, p.ph)
		}
	}
	flush()

	// A pattern always holds at least one element: lines that produced no
	// pieces yield a single empty TextElement. (Trailing blank lines never
	// reach this point; parsePattern's pendingBlankLines logic drops them.)
	if len(elements) == 0 {
		elements = append(elements, ast.TextElement{Span: ast.NewSpan(from, to), Value: ""})
	}

	// The pattern's last text holder has its trailing whitespace stripped
	// (spec 4.4): plain spaces, LF, and a CR immediately preceding an LF.
	if last, ok := elements[len(elements)-1].(ast.TextElement); ok {
		last.Value = strings.TrimRight(last.Value, " \n")
		elements[len(elements)-1] = last
	}

	return &ast.Pattern{Elements: elements}
}

func isBlankLine(l patternLine) bool {
	return len(l.pieces) == 0
}
