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

package fluent

import (
	"fmt"

	"github.com/xyzsd/fluent-go/ast"
)

// ErrorContext is what a format call's logger receives when resolution
// produced one or more non-fatal exceptions (spec 6, 7): which message
// (and attribute, if any) was being rendered, under which locale, and the
// exceptions themselves, in discovery order.
type ErrorContext struct {
	MessageID   string
	AttributeID string
	Locale      string
	Exceptions  []error
}

// Diagnostics is a typed accessor over both of spec 7's error channels --
// a Resource's parse errors and however many format calls' resolution
// exceptions -- sharing one rendering. spec.md keeps the two channels
// separate by design; this is purely a convenience for callers (tests
// among them) that want to inspect both uniformly.
type Diagnostics struct {
	ParseErrors []ast.ParseError
	Resolutions []ErrorContext
}

// NewDiagnostics seeds a Diagnostics with r's parse errors.
func NewDiagnostics(r *ast.Resource) *Diagnostics {
	return &Diagnostics{ParseErrors: r.Errors}
}

// Logger returns a BuilderOption-compatible consumer that appends every
// ErrorContext it receives, so a Diagnostics can double as a Bundle's
// WithLogger sink across many format calls.
func (d *Diagnostics) Logger() func(ErrorContext) {
	return func(ec ErrorContext) { d.Resolutions = append(d.Resolutions, ec) }
}

// HasErrors reports whether either channel is non-empty.
func (d *Diagnostics) HasErrors() bool {
	return len(d.ParseErrors) > 0 || len(d.Resolutions) > 0
}

// Render flattens both channels into human-readable lines, parse errors
// first, in their respective discovery order.
func (d *Diagnostics) Render() []string {
	out := make([]string, 0, len(d.ParseErrors)+len(d.Resolutions))
	for _, e := range d.ParseErrors {
		out = append(out, fmt.Sprintf("%s: %s", e.Code(), e.Error()))
	}
	for _, ec := range d.Resolutions {
		for _, err := range ec.Exceptions {
			out = append(out, fmt.Sprintf("%s: %v", ec.MessageID, err))
		}
	}
	return out
}
