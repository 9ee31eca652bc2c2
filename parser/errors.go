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
	"fmt"

	"github.com/xyzsd/fluent-go/ast"
)

// Code is one of the stable E00NN parse-error codes from spec 6. The code
// is part of this package's contract with consumers: it does not change
// even if a message template's wording does.
type Code string

const (
	E0001 Code = "E0001" // Generic
	E0003 Code = "E0003" // expected character
	E0004 Code = "E0004" // expected identifier / expected EOL
	E0005 Code = "E0005" // message has no pattern or attributes
	E0006 Code = "E0006" // term missing pattern
	E0008 Code = "E0008" // lowercase function name
	E0010 Code = "E0010" // select expression has no default variant
	E0011 Code = "E0011" // select expression has no variants
	E0012 Code = "E0012" // attribute missing pattern
	E0013 Code = "E0013" // unexpected EOF in variant key
	E0015 Code = "E0015" // select expression has multiple default variants
	E0016 Code = "E0016" // message reference used as selector
	E0017 Code = "E0017" // term without attribute used as selector
	E0018 Code = "E0018" // message-attribute reference used as selector
	E0019 Code = "E0019" // term attribute used as placeable
	E0020 Code = "E0020" // newline in string literal
	E0021 Code = "E0021" // positional argument follows named argument
	E0022 Code = "E0022" // duplicate named argument
	E0025 Code = "E0025" // invalid escape sequence
	E0026 Code = "E0026" // invalid unicode escape
	E0027 Code = "E0027" // unexpected '}' in text slice
	E0028 Code = "E0028" // unexpected character starting an expression
	E0029 Code = "E0029" // bare placeable used as selector
	E0030 Code = "E0030" // number literal overflow
	E0031 Code = "E0031" // positional argument in term reference
	E0032 Code = "E0032" // literal required for named argument value
)

var templates = map[Code]string{
	E0001: "generic parse error: %s",
	E0003: "expected token %s",
	E0004: "expected %s",
	E0005: "expected message to have a value or attributes: %s",
	E0006: "expected term to have a value: %s",
	E0008: "function name must be all uppercase: %s",
	E0010: "expected default variant (marked with '*'): %s",
	E0011: "expected at least one variant: %s",
	E0012: "expected attribute to have a value: %s",
	E0013: "expected variant key: %s",
	E0015: "multiple default variants: %s",
	E0016: "message reference cannot be used as selector: %s",
	E0017: "term reference without attribute cannot be used as selector: %s",
	E0018: "message attribute cannot be used as selector: %s",
	E0019: "term attributes are not allowed in placeables: %s",
	E0020: "newline encountered in string literal: %s",
	E0021: "positional argument follows named argument: %s",
	E0022: "named argument %s is already defined",
	E0025: "invalid escape sequence: %s",
	E0026: "invalid unicode escape sequence: %s",
	E0027: "expected a character other than %s",
	E0028: "expected an inline expression: %s",
	E0029: "placeable cannot be used as selector: %s",
	E0030: "number literal is too large: %s",
	E0031: "term references cannot have positional arguments: %s",
	E0032: "expected a literal for named argument value: %s",
}

// Error is an FTL parse error: a stable code, a formatted message, the
// 1-based source line (0 denotes EOF, per spec 4.1/6), and the byte range
// that triggered it. It implements ast.ParseError.
type Error struct {
	code Code
	line int
	arg  string
	span ast.Span
}

func newError(code Code, line int, span ast.Span, arg string) *Error {
	return &Error{code: code, line: line, arg: arg, span: span}
}

func (e *Error) Error() string {
	tmpl, ok := templates[e.code]
	if !ok {
		tmpl = "%s"
	}
	return fmt.Sprintf("%s: "+tmpl, e.code, e.arg)
}

func (e *Error) Code() string { return string(e.code) }
func (e *Error) Line() int    { return e.line }
func (e *Error) Span() ast.Span { return e.span }

var _ ast.ParseError = (*Error)(nil)

// describeByte renders a byte for use in an error's %s slot: printable
// ASCII is quoted as-is, the EOF sentinel renders as "EOF", and everything
// else renders as a hex escape.
func describeByte(b byte, isEOF bool) string {
	if isEOF {
		return "EOF"
	}
	if b >= 0x20 && b < 0x7f {
		return fmt.Sprintf("%q", rune(b))
	}
	return fmt.Sprintf("0x%02X", b)
}
