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

package ast

// ParseError is implemented by parser.Error; declared here (rather than
// imported from the parser package) so ast.Resource can reference parse
// errors without ast depending on parser -- parser depends on ast, not the
// other way around.
type ParseError interface {
	error
	Code() string
	Line() int // 1-based; 0 denotes EOF (spec 4.1, 6)
}

// Junk is an unparseable byte range recovered by the top-level parser in
// extended mode (spec 3, 4.5). The range is kept as raw offsets so that
// callers who don't need the text never pay for a UTF-8 decode.
type Junk struct {
	Span
	source []byte
}

// NewJunk constructs a Junk node over source[from:to]. source must be the
// same slice the Resource was parsed from.
func NewJunk(source []byte, from, to int) Junk {
	return Junk{Span: NewSpan(from, to), source: source}
}

// Text lazily decodes the junk byte range as a string.
func (j Junk) Text() string {
	return string(j.source[j.Start():j.End()])
}

// Resource is the immutable result of parsing one FTL source buffer: an
// ordered list of entries, an ordered list of parse errors, and (extended
// mode only) an ordered list of recovered Junk ranges (spec 3).
type Resource struct {
	Entries []Entry
	Errors  []ParseError
	Junk    []Junk
}

// Messages returns every Message entry, in source order.
func (r Resource) Messages() []Message {
	var out []Message
	for _, e := range r.Entries {
		if m, ok := e.(Message); ok {
			out = append(out, m)
		}
	}
	return out
}

// Terms returns every Term entry, in source order.
func (r Resource) Terms() []Term {
	var out []Term
	for _, e := range r.Entries {
		if t, ok := e.(Term); ok {
			out = append(out, t)
		}
	}
	return out
}
