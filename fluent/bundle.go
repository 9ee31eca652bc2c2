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

// Package fluent is the public entry point: Bundle ties a locale, a
// function Registry, a function Cache, and a symbol table of Message and
// Term entries together, and exposes the format API (spec 4.11, 6).
// Everything in ast, internal/bytesx, parser, value, registry, and
// resolver is machinery consumed through this package.
package fluent

import (
	art "github.com/plar/go-adaptive-radix-tree"

	"github.com/xyzsd/fluent-go/ast"
	"github.com/xyzsd/fluent-go/registry"
)

// Bundle is an immutable collection of Message and Term entries for one
// locale, plus the Registry and Cache a format call resolves against.
// Safe for unrestricted concurrent reads once Build returns it (spec 5);
// there is no mutation API.
type Bundle struct {
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

// Message looks up a Message entry by name.
func (b *Bundle) Message(name string) (ast.Message, bool) {
	v, found := b.messages.Search(art.Key(name))
	if !found {
		return ast.Message{}, false
	}
	return v.(ast.Message), true
}

// Term looks up a Term entry by name.
func (b *Bundle) Term(name string) (ast.Term, bool) {
	v, found := b.terms.Search(art.Key(name))
	if !found {
		return ast.Term{}, false
	}
	return v.(ast.Term), true
}

// Messages returns every Message in the bundle, in ascending key order.
func (b *Bundle) Messages() []ast.Message {
	out := make([]ast.Message, 0, b.messages.Size())
	b.messages.ForEach(func(n art.Node) bool {
		out = append(out, n.Value().(ast.Message))
		return true
	})
	return out
}

// Terms returns every Term in the bundle, in ascending key order.
func (b *Bundle) Terms() []ast.Term {
	out := make([]ast.Term, 0, b.terms.Size())
	b.terms.ForEach(func(n art.Node) bool {
		out = append(out, n.Value().(ast.Term))
		return true
	})
	return out
}

// Locale returns the bundle's configured locale tag.
func (b *Bundle) Locale() string { return b.locale }

// UseIsolation reports whether bidi isolation marks bracket placeables
// that need them (spec 4.6, 6).
func (b *Bundle) UseIsolation() bool { return b.isolation }

// Registry returns the bundle's function registry.
func (b *Bundle) Registry() *registry.Registry { return b.registry }

// Cache returns the bundle's function cache.
func (b *Bundle) Cache() registry.Cache { return b.cache }
