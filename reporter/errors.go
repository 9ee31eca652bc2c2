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

// Package reporter carries position-tagged errors for bundle construction:
// duplicate message/term names need to report back which AST node is at
// fault, not just an error string. Message resolution errors (unknown
// references, cyclic expansion, missing arguments) use the resolver
// package's own error types instead.
package reporter

import (
	"errors"
	"fmt"

	"github.com/xyzsd/fluent-go/ast"
)

// ErrInvalidResource is returned by Bundle construction when one or more
// entries could not be added, mirroring the all-errors-collected,
// sentinel-at-the-end shape of a compilation step.
var ErrInvalidResource = errors.New("fluent: resource contains invalid entries")

// ErrorWithPos is an error tied to a position in an FTL source.
type ErrorWithPos interface {
	error
	// GetPosition returns the span that caused the underlying error.
	GetPosition() ast.Span
	// Unwrap returns the underlying error.
	Unwrap() error
}

// Error creates a new ErrorWithPos from the given error and span.
func Error(span ast.Span, err error) ErrorWithPos {
	return errorWithSpan{span: span, underlying: err}
}

// Errorf creates a new ErrorWithPos whose underlying error is created using
// the given message format and arguments (via fmt.Errorf).
func Errorf(span ast.Span, format string, args ...interface{}) ErrorWithPos {
	return errorWithSpan{span: span, underlying: fmt.Errorf(format, args...)}
}

type errorWithSpan struct {
	underlying error
	span       ast.Span
}

func (e errorWithSpan) Error() string {
	return fmt.Sprintf("[%d:%d]: %v", e.span.Start(), e.span.End(), e.underlying)
}

func (e errorWithSpan) GetPosition() ast.Span { return e.span }

func (e errorWithSpan) Unwrap() error { return e.underlying }

var _ ErrorWithPos = errorWithSpan{}

// AlreadyDefinedError is reported when a Bundle.AddResource call tries to
// insert a Message or Term whose name already occupies a slot in the
// bundle's symbol table (spec 5, "last write wins" is an explicit opt-in;
// by default a collision is an error).
type AlreadyDefinedError struct {
	isTerm             bool
	Name               string
	PreviousDefinition ast.Span
}

// AlreadyDefinedMessage reports a duplicate Message name.
func AlreadyDefinedMessage(name string, previous ast.Span) AlreadyDefinedError {
	return AlreadyDefinedError{Name: name, PreviousDefinition: previous}
}

// AlreadyDefinedTerm reports a duplicate Term name.
func AlreadyDefinedTerm(name string, previous ast.Span) AlreadyDefinedError {
	return AlreadyDefinedError{isTerm: true, Name: name, PreviousDefinition: previous}
}

func (e AlreadyDefinedError) Error() string {
	kind := "message"
	if e.isTerm {
		kind = "term"
	}
	return fmt.Sprintf("%s %q already defined at [%d:%d]", kind, e.Name, e.PreviousDefinition.Start(), e.PreviousDefinition.End())
}
