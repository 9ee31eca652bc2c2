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
	"errors"
	"fmt"
	"log/slog"

	art "github.com/plar/go-adaptive-radix-tree"

	"github.com/xyzsd/fluent-go/ast"
	"github.com/xyzsd/fluent-go/reporter"
	"github.com/xyzsd/fluent-go/registry"
	"github.com/xyzsd/fluent-go/resolver"
)

// BuilderOption configures a Builder at construction time, generalizing
// the teacher's options.InterpreterOption func(*interpreter) pattern.
type BuilderOption func(*Builder)

// WithLocale sets the bundle's locale tag (passed through verbatim to
// function factories; this package does no locale validation).
func WithLocale(locale string) BuilderOption {
	return func(b *Builder) { b.locale = locale }
}

// WithRegistry overrides the default registry.Default().
func WithRegistry(r *registry.Registry) BuilderOption {
	return func(b *Builder) { b.registry = r }
}

// WithCache overrides the default bounded registry.LRUCache.
func WithCache(c registry.Cache) BuilderOption {
	return func(b *Builder) { b.cache = c }
}

// WithIsolation enables or disables bidi isolation marks (spec 4.6, 6).
func WithIsolation(enabled bool) BuilderOption {
	return func(b *Builder) { b.isolation = enabled }
}

// WithFunctionOptions registers default call options for a named function,
// merged under any options supplied at the call site (spec 4.10, 4.11).
// Validated against the registry at Build time; an unknown name is a
// configuration-time error, not a panic.
func WithFunctionOptions(name string, opts registry.Options) BuilderOption {
	return func(b *Builder) { b.functionOptions[name] = opts }
}

// WithLogger installs the consumer that every format call's non-fatal
// resolution exceptions are routed to (spec 6, 7). The default logs via
// slog.Default() at Warn level, matching the teacher's direct use of
// log/slog rather than a third-party logging library.
func WithLogger(consumer func(ErrorContext)) BuilderOption {
	return func(b *Builder) { b.logger = consumer }
}

// withMaxPlaceables overrides resolver.DefaultMaxPlaceables for bundles
// built from this Builder. Unexported: spec 6's public API enumeration
// has no withMaxPlaceables, but the constant should not be unconditionally
// hardwired either (tests construct bundles through this file, not the
// public surface, to exercise the limit).
func withMaxPlaceables(n int) BuilderOption {
	return func(b *Builder) { b.maxPlaceables = n }
}

// Builder accumulates Message/Term entries and configuration before
// producing an immutable Bundle (spec 6). The zero value is not usable;
// construct with NewBuilder.
type Builder struct {
	locale          string
	registry        *registry.Registry
	cache           registry.Cache
	isolation       bool
	maxPlaceables   int
	functionOptions map[string]registry.Options
	logger          func(ErrorContext)

	messages art.Tree
	terms    art.Tree
}

// NewBuilder constructs a Builder with the registry.Default() registry, a
// default-capacity LRUCache, isolation disabled, and a slog-backed logger,
// then applies opts in order.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		registry:        registry.Default(),
		cache:           registry.NewLRUCache(0),
		functionOptions: map[string]registry.Options{},
		messages:        art.New(),
		terms:           art.New(),
	}
	b.logger = func(ec ErrorContext) { defaultLog(ec) }
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddResource merges r's Message and Term entries into the builder. A name
// already occupying a slot is rejected and reported, but the rest of r is
// still added (spec 6's "error-accumulated" rejection, not an all-or-
// nothing abort).
func (b *Builder) AddResource(r *ast.Resource) error {
	var errs []error
	for _, m := range r.Messages() {
		if prev, found := b.messages.Search(art.Key(m.Name.Name)); found {
			errs = append(errs, reporter.AlreadyDefinedMessage(m.Name.Name, prev.(ast.Message).Span))
			continue
		}
		b.messages.Insert(art.Key(m.Name.Name), m)
	}
	for _, t := range r.Terms() {
		if prev, found := b.terms.Search(art.Key(t.Name.Name)); found {
			errs = append(errs, reporter.AlreadyDefinedTerm(t.Name.Name, prev.(ast.Term).Span))
			continue
		}
		b.terms.Insert(art.Key(t.Name.Name), t)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", reporter.ErrInvalidResource, errors.Join(errs...))
	}
	return nil
}

// AddResourceOverriding merges r's Message and Term entries into the
// builder, silently overwriting any existing entry of the same name and
// kind (spec 6's explicit opt-in to "last write wins").
func (b *Builder) AddResourceOverriding(r *ast.Resource) {
	for _, m := range r.Messages() {
		b.messages.Insert(art.Key(m.Name.Name), m)
	}
	for _, t := range r.Terms() {
		b.terms.Insert(art.Key(t.Name.Name), t)
	}
}

// Build validates the accumulated function options against the registry
// and returns the immutable Bundle.
func (b *Builder) Build() (*Bundle, error) {
	for name := range b.functionOptions {
		if _, ok := b.registry.Function(name); ok {
			continue
		}
		if name == b.registry.NumberFactory().Name || name == b.registry.TemporalFactory().Name || name == b.registry.ListFactory().Name {
			continue
		}
		return nil, fmt.Errorf("fluent: withFunctionOptions: unknown function %q", name)
	}
	maxPlaceables := b.maxPlaceables
	if maxPlaceables <= 0 {
		maxPlaceables = resolver.DefaultMaxPlaceables
	}
	return &Bundle{
		locale:          b.locale,
		registry:        b.registry,
		cache:           b.cache,
		isolation:       b.isolation,
		maxPlaceables:   maxPlaceables,
		functionOptions: b.functionOptions,
		logger:          b.logger,
		messages:        b.messages,
		terms:           b.terms,
	}, nil
}

func defaultLog(ec ErrorContext) {
	attrs := make([]any, 0, 4+2*len(ec.Exceptions))
	attrs = append(attrs, "messageId", ec.MessageID, "locale", ec.Locale)
	if ec.AttributeID != "" {
		attrs = append(attrs, "attributeId", ec.AttributeID)
	}
	for i, err := range ec.Exceptions {
		attrs = append(attrs, fmt.Sprintf("exception%d", i), err.Error())
	}
	slog.Default().Warn("fluent: resolution produced exceptions", attrs...)
}

var _ resolver.Bundle = (*Bundle)(nil)
