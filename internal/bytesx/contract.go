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

// Package bytesx implements the byte-stream scanning primitives the FTL
// parser is built on (spec 4.1): a handful of hot loops -- find the next
// line feed, skip runs of blank bytes, find where an identifier ends, find
// where a text slice terminates -- each exposed in three forms (scalar,
// SWAR, and a wider "SIMD-style" lane scan) behind one Accelerator
// contract, so the parser can be written once against the interface and
// still benefit from whichever implementation the runtime picks.
//
// All positions are byte offsets into a borrowed slice; all scanning
// primitives are total over [pos, len(seq)) and return either the matching
// index or len(seq) as an EOF sentinel, mirroring the teacher's rune-reader
// EOF convention in protocompile/parser/lexer.go.
package bytesx

// Terminator tags why NextTextSliceTerminator stopped scanning.
type Terminator int

const (
	TermEOF Terminator = iota
	TermLF
	TermCRLF
	TermOpenBrace
	TermCloseBrace
)

// EOFByte is reserved as an "EOF" sentinel in error reporting; it must
// never appear in valid UTF-8 input, so scanners never need to special-case
// a real byte value colliding with the sentinel (spec 4.1).
const EOFByte byte = 0xFF

// Accelerator is the shared contract implemented by the scalar, SWAR, and
// simd variants. Every method scans seq[start:] and returns an index in
// [start, len(seq)]; len(seq) signals "not found" (EOF-equivalent).
type Accelerator interface {
	// Name identifies the implementation, for diagnostics and tests.
	Name() string

	// NextLF returns the index of the next '\n' at or after start.
	NextLF(seq []byte, start int) int

	// SkipBlankInline returns the index at or after start of the first byte
	// that is not an ASCII space (0x20).
	SkipBlankInline(seq []byte, start int) int

	// SkipBlank returns the index at or after start of the first byte not
	// part of a run of {space, '\n', or a paired "\r\n"}. An unpaired '\r'
	// is not skipped.
	SkipBlank(seq []byte, start int) int

	// IsBlank reports whether seq[start:end] consists only of bytes that
	// SkipBlank would skip.
	IsBlank(seq []byte, start, end int) bool

	// IdentifierEnd returns the index of the first byte after start that is
	// not in [A-Za-z0-9_-], provided seq[start] is [A-Za-z]; otherwise it
	// returns start unchanged.
	IdentifierEnd(seq []byte, start int) int

	// NextTextSliceTerminator finds the first of {LF, CRLF, '{', '}'} or
	// EOF at or after start, returning its position and which terminator it
	// is. The returned position is the index of the terminator's first
	// byte (or len(seq) for EOF).
	NextTextSliceTerminator(seq []byte, start int) (int, Terminator)
}

// Choice selects which Accelerator implementation to construct.
type Choice int

const (
	// Auto picks SIMD if the runtime supports it, else SWAR, else scalar.
	Auto Choice = iota
	Scalar
	SWAR
	SIMD
)

// Select returns the Accelerator for the requested Choice. Selecting SIMD
// on a runtime without vector support transparently degrades to SWAR, per
// spec 6 ("SIMD transparently degrades to Scalar if vector support is
// unavailable" -- here SWAR is the intermediate fallback rung, itself
// falling back further to Scalar only if SWAR's padding precondition can't
// be met, which in this pure-Go implementation is never, since padding is
// applied by Pad below).
//
// Selection is meant to be a process-wide policy decided once at
// construction time; parsers should not mix implementations mid-parse
// (spec 9).
func Select(c Choice) Accelerator {
	switch c {
	case Scalar:
		return scalarAccelerator{}
	case SWAR:
		return swarAccelerator{}
	case SIMD:
		if simdSupported() {
			return simdAccelerator{}
		}
		return swarAccelerator{}
	default: // Auto
		if simdSupported() {
			return simdAccelerator{}
		}
		return swarAccelerator{}
	}
}

// Pad appends the 8 trailing 0xFF bytes the SWAR (and simd, which reuses
// the same lane trick at a wider stride) implementations require so that a
// lane read never runs off the end of the backing array. Scalar does not
// require padding. Callers that will use SWAR or SIMD must pad once, up
// front, over the whole input -- not per call.
func Pad(src []byte) []byte {
	out := make([]byte, len(src)+8)
	copy(out, src)
	for i := len(src); i < len(out); i++ {
		out[i] = EOFByte
	}
	return out
}

// ASCII classifiers (spec 4.1), branch-minimized.

func IsAlpha(b byte) bool {
	return (b|0x20)-'a' <= 'z'-'a'
}

func IsLower(b byte) bool { return b >= 'a' && b <= 'z' }

func IsDigit(b byte) bool { return b-'0' <= 9 }

func IsHex(b byte) bool {
	return IsDigit(b) || (b|0x20)-'a' <= 'f'-'a'
}

func IsIDPart(b byte) bool {
	return IsAlpha(b) || IsDigit(b) || b == '_' || b == '-'
}

func IsLineStart(b byte) bool {
	switch b {
	case '}', '.', '[', '*':
		return true
	default:
		return false
	}
}
