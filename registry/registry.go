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

// Package registry implements the immutable, locale-independent function
// registry (spec 4.8) and its function cache (spec 4.9). A Registry is
// built once via Builder and never mutated afterward, so it is safe for
// unrestricted concurrent reads the same way an ast.Resource is.
package registry

import (
	"fmt"
	"reflect"

	"github.com/xyzsd/fluent-go/ast"
	"github.com/xyzsd/fluent-go/value"
)

// Scope is the minimal view of a resolver scope a Function needs: a place
// to record a non-fatal error without aborting the whole format call. The
// concrete type is resolver.Scope; this package only depends on the shape,
// not on the resolver package, to avoid an import cycle (resolver depends
// on registry, not the other way around).
type Scope interface {
	AddException(err error)
}

// Options is a function's merged call-site/default option map (spec 4.8,
// 4.11): `name: Literal` arguments converted to FluentValue.
type Options map[string]value.FluentValue

// Merge returns a new Options with over's entries taking precedence over o's.
func (o Options) Merge(over Options) Options {
	out := make(Options, len(o)+len(over))
	for k, v := range o {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Function is the marker interface every registered function instance
// implements; concrete functions additionally implement any subset of
// Transform, Formatter, Selector, TerminalReducer, checked via type
// assertion at the resolver call site (spec 4.8).
type Function interface {
	// CanCache reports whether the function cache may reuse this instance
	// across calls sharing the same (factory, options) key.
	CanCache() bool
}

// Transform is implemented by functions usable in a FunctionReference.
type Transform interface {
	Apply(args []value.FluentValue, opts Options, scope Scope) ([]value.FluentValue, error)
}

// Formatter is implemented by functions that can render a value implicitly
// (e.g. inside a placeable) without an explicit function call.
type Formatter interface {
	Format(v value.FluentValue, opts Options, scope Scope) (value.FluentValue, error)
}

// Selector is implemented by functions usable as a SelectExpression's
// implicit or explicit selector; it picks (and returns) one of variants
// directly rather than just a key, since matching a key back to its
// variant is the caller's problem either way.
type Selector interface {
	Select(args []value.FluentValue, opts Options, variants []ast.Variant, def ast.Variant, scope Scope) ast.Variant
}

// TerminalReducer is implemented by the one function that collapses a
// multi-value list (e.g. from a list-valued argument) to a single string.
type TerminalReducer interface {
	Reduce(values []value.FluentValue, opts Options, scope Scope) (string, error)
}

// Factory builds a Function for a given locale and call/default options.
// The Function that New returns reports through CanCache whether it can be
// cached (spec 4.8's "factory contract"): a cacheable function must be safe
// to reuse concurrently across calls.
type Factory struct {
	Name string
	New  func(locale string, opts Options) (Function, error)
}

type subtypeEntry struct {
	assignableFrom func(reflect.Type) bool
	factory        Factory
}

// Registry is an immutable collection of function factories: the three
// required implicit factories (number, temporal, list reducer), zero or
// more named explicit functions, and zero or more custom implicit
// formatters indexed by exact host type and by subtype predicate (spec
// 4.8).
type Registry struct {
	numberFactory   Factory
	temporalFactory Factory
	listFactory     Factory
	functions       map[string]Factory
	customExact     map[reflect.Type]Factory
	customSubtype   []subtypeEntry
}

func (r *Registry) NumberFactory() Factory   { return r.numberFactory }
func (r *Registry) TemporalFactory() Factory { return r.temporalFactory }
func (r *Registry) ListFactory() Factory     { return r.listFactory }

// Function looks up an explicit named function factory.
func (r *Registry) Function(name string) (Factory, bool) {
	f, ok := r.functions[name]
	return f, ok
}

// CustomFor resolves a custom implicit formatter factory for t: first the
// exact-type map, then the subtype list in registration order, first
// match wins (Open Question: "registered.IsAssignableFrom(probe)" -- an
// entry registered earlier shadows every later entry whose predicate also
// accepts the same probe type).
func (r *Registry) CustomFor(t reflect.Type) (Factory, bool) {
	if f, ok := r.customExact[t]; ok {
		return f, true
	}
	for _, e := range r.customSubtype {
		if e.assignableFrom(t) {
			return e.factory, true
		}
	}
	return Factory{}, false
}

// HasCustoms reports whether any custom implicit formatter is registered,
// by either index (Open Question resolution: either index non-empty).
func (r *Registry) HasCustoms() bool {
	return len(r.customExact) > 0 || len(r.customSubtype) > 0
}

// Builder constructs a Registry. The zero value is ready to use.
type Builder struct {
	numberFactory   *Factory
	temporalFactory *Factory
	listFactory     *Factory
	functions       map[string]Factory
	customExact     map[reflect.Type]Factory
	customSubtype   []subtypeEntry
}

func NewBuilder() *Builder {
	return &Builder{
		functions:   map[string]Factory{},
		customExact: map[reflect.Type]Factory{},
	}
}

func (b *Builder) WithNumberFactory(f Factory) *Builder {
	b.numberFactory = &f
	return b
}

func (b *Builder) WithTemporalFactory(f Factory) *Builder {
	b.temporalFactory = &f
	return b
}

func (b *Builder) WithListFactory(f Factory) *Builder {
	b.listFactory = &f
	return b
}

// WithFunction registers an explicit named function factory. Names must be
// globally unique within the registry (spec 4.8).
func (b *Builder) WithFunction(name string, f Factory) error {
	if _, exists := b.functions[name]; exists {
		return fmt.Errorf("registry: function %q already registered", name)
	}
	b.functions[name] = f
	return nil
}

// WithCustomFormatter registers an exact-type custom implicit formatter.
func (b *Builder) WithCustomFormatter(t reflect.Type, f Factory) *Builder {
	b.customExact[t] = f
	return b
}

// WithCustomFormatterSubtype registers a subtype-matched custom implicit
// formatter; assignableFrom reports whether a probed type should use f.
// Registration order is match-priority order: register base types after
// the derived types that should shadow them, since the first match wins.
func (b *Builder) WithCustomFormatterSubtype(assignableFrom func(reflect.Type) bool, f Factory) *Builder {
	b.customSubtype = append(b.customSubtype, subtypeEntry{assignableFrom: assignableFrom, factory: f})
	return b
}

// Build validates that exactly one of each required implicit factory was
// supplied and returns the immutable Registry.
func (b *Builder) Build() (*Registry, error) {
	if b.numberFactory == nil {
		return nil, fmt.Errorf("registry: number factory is required")
	}
	if b.temporalFactory == nil {
		return nil, fmt.Errorf("registry: temporal factory is required")
	}
	if b.listFactory == nil {
		return nil, fmt.Errorf("registry: list reducer factory is required")
	}
	return &Registry{
		numberFactory:   *b.numberFactory,
		temporalFactory: *b.temporalFactory,
		listFactory:     *b.listFactory,
		functions:       copyFunctions(b.functions),
		customExact:     copyExact(b.customExact),
		customSubtype:   append([]subtypeEntry(nil), b.customSubtype...),
	}, nil
}

func copyFunctions(m map[string]Factory) map[string]Factory {
	out := make(map[string]Factory, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyExact(m map[reflect.Type]Factory) map[reflect.Type]Factory {
	out := make(map[reflect.Type]Factory, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
