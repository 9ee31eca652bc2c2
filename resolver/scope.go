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

// Package resolver implements the stateless resolution procedures (spec
// 4.10) over an ast.Pattern/ast.Expression and a per-call Scope (spec
// 4.11). It depends on ast, value, and registry, but never on the fluent
// package -- fluent.Bundle instead satisfies the resolver.Bundle interface
// structurally, so the dependency runs one way only.
package resolver

import (
	"fmt"
	"strings"

	"github.com/xyzsd/fluent-go/ast"
	"github.com/xyzsd/fluent-go/registry"
	"github.com/xyzsd/fluent-go/value"
)

// DefaultMaxPlaceables is the spec 5 hard limit on placeable expansions
// per top-level format call, absent an overriding bundle configuration.
const DefaultMaxPlaceables = 100

// Bundle is the minimal view of a fluent.Bundle the resolver needs: message
// and term lookup, the registry, the function cache, the active locale,
// and whether bidi isolation is enabled.
type Bundle interface {
	Message(name string) (ast.Message, bool)
	Term(name string) (ast.Term, bool)
	Registry() *registry.Registry
	Cache() registry.Cache
	Locale() string
	UseIsolation() bool
}

// Scope is created fresh for each Bundle.Format call (spec 4.11) and is
// never shared across goroutines.
type Scope struct {
	Bundle         Bundle
	args           map[string][]value.FluentValue
	defaultOptions map[string]registry.Options
	maxPlaceables  int

	exceptions     []error
	visited        []string
	placeableCount int
	localParams    map[string][]value.FluentValue
}

// NewScope constructs a Scope for one format call. defaultOptions is the
// bundle's WithFunctionOptions table; maxPlaceables <= 0 uses
// DefaultMaxPlaceables.
func NewScope(bundle Bundle, args map[string][]value.FluentValue, defaultOptions map[string]registry.Options, maxPlaceables int) *Scope {
	if maxPlaceables <= 0 {
		maxPlaceables = DefaultMaxPlaceables
	}
	return &Scope{
		Bundle:         bundle,
		args:           args,
		defaultOptions: defaultOptions,
		maxPlaceables:  maxPlaceables,
	}
}

// Options returns the registered default options for a function name (the
// empty map if none were configured).
func (s *Scope) Options(name string) registry.Options {
	if o, ok := s.defaultOptions[name]; ok {
		return o
	}
	return registry.Options{}
}

// OptionsOver merges a call site's options over a function's defaults,
// with over's entries winning (spec 4.10's FunctionReference rule).
func (s *Scope) OptionsOver(name string, over registry.Options) registry.Options {
	return s.Options(name).Merge(over)
}

// Lookup resolves a variable by name: the call's argument map first, then
// the current term-local named parameters (spec 4.11).
func (s *Scope) Lookup(name string) ([]value.FluentValue, bool) {
	if v, ok := s.args[name]; ok {
		return v, true
	}
	if v, ok := s.localParams[name]; ok {
		return v, true
	}
	return nil, false
}

// SetLocalParams installs a term's named call arguments as scope
// term-locals, replacing any previous set (term references do not nest
// their callers' locals -- spec 4.10's TermReference rule).
func (s *Scope) SetLocalParams(args map[string][]value.FluentValue) (restore func()) {
	prev := s.localParams
	s.localParams = args
	return func() { s.localParams = prev }
}

// IncrementAndCheckPlaceables increments the per-call placeable counter and
// reports whether it is still within MAX_PLACEABLES.
func (s *Scope) IncrementAndCheckPlaceables() bool {
	s.placeableCount++
	return s.placeableCount <= s.maxPlaceables
}

// AddException records a non-fatal resolution error (spec 7); it never
// aborts the enclosing format call.
func (s *Scope) AddException(err error) {
	s.exceptions = append(s.exceptions, err)
}

// Exceptions returns every exception recorded during this format call, in
// discovery order.
func (s *Scope) Exceptions() []error { return s.exceptions }

var _ registry.Scope = (*Scope)(nil)

// track pushes key onto the visited-pattern stack for the duration of fn,
// guarding against cyclic reference (spec 4.10, "Cycle detection"). If key
// is already on the stack, fn is not called, a CyclicError is recorded, and
// an inline error-marker value is returned in place of fn's result.
func (s *Scope) track(key string, fn func() []value.FluentValue) []value.FluentValue {
	for _, k := range s.visited {
		if k == key {
			s.AddException(CyclicError{Key: key})
			return []value.FluentValue{value.FluentError{Value: fmt.Sprintf("Cyclic dependency: %s", displayKey(key))}}
		}
	}
	s.visited = append(s.visited, key)
	defer func() { s.visited = s.visited[:len(s.visited)-1] }()
	return fn()
}

// displayKey strips track's internal "message:"/"term:" kind prefix for the
// inline cyclic-dependency marker, which names only the message/term (and
// attribute, if any) per spec convention.
func displayKey(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[i+1:]
	}
	return key
}
