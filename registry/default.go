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

package registry

import (
	"strings"
	"time"

	"github.com/xyzsd/fluent-go/ast"
	"github.com/xyzsd/fluent-go/value"
)

// Default builds the minimal registry spec.md's own non-goals require to
// exist but leave unimplemented in full (§1, §6): concrete NUMBER/DATETIME
// functions and CLDR-correct pluralization are explicitly out of scope.
// This wires deliberately minimal stand-ins -- exact English one/other
// pluralization, RFC3339 temporal rendering, comma-joined list reduction --
// so the registry and resolver are independently testable without
// overstepping that non-goal. Embedders that need real CLDR behavior
// supply their own factories via Builder instead.
func Default() *Registry {
	b := NewBuilder().
		WithNumberFactory(Factory{Name: "NUMBER", New: newNumberFunction}).
		WithTemporalFactory(Factory{Name: "DATETIME", New: newTemporalFunction}).
		WithListFactory(Factory{Name: "__LIST__", New: newListFunction})
	r, err := b.Build()
	if err != nil {
		// The three factories above are always present; Build can only
		// fail when one is missing.
		panic("registry: default registry failed to build: " + err.Error())
	}
	return r
}

type numberFunction struct{}

func newNumberFunction(string, Options) (Function, error) { return numberFunction{}, nil }

func (numberFunction) CanCache() bool { return true }

func (numberFunction) Format(v value.FluentValue, opts Options, scope Scope) (value.FluentValue, error) {
	n, ok := v.(value.FluentNumber)
	if !ok {
		return value.FluentString{Value: v.String()}, nil
	}
	return value.FluentString{Value: n.String()}, nil
}

// englishPluralCategory is a deliberately non-CLDR approximation: 1 is
// "one", everything else is "other".
func englishPluralCategory(n float64) string {
	if n == 1 {
		return "one"
	}
	return "other"
}

func (numberFunction) Select(args []value.FluentValue, opts Options, variants []ast.Variant, def ast.Variant, scope Scope) ast.Variant {
	if len(args) != 1 {
		return def
	}
	n, ok := args[0].(value.FluentNumber)
	if !ok {
		return def
	}
	fv := n.Float64()
	for _, v := range variants {
		if lit, ok := v.Key.(ast.NumberLiteral); ok && lit.AsFloat64() == fv {
			return v
		}
	}
	category := englishPluralCategory(fv)
	for _, v := range variants {
		if id, ok := v.Key.(ast.Identifier); ok && id.Name == category {
			return v
		}
	}
	return def
}

var (
	_ Formatter = numberFunction{}
	_ Selector  = numberFunction{}
)

type temporalFunction struct{}

func newTemporalFunction(string, Options) (Function, error) { return temporalFunction{}, nil }

func (temporalFunction) CanCache() bool { return true }

func (temporalFunction) Format(v value.FluentValue, opts Options, scope Scope) (value.FluentValue, error) {
	t, ok := v.(value.FluentTemporal)
	if !ok {
		return value.FluentString{Value: v.String()}, nil
	}
	return value.FluentString{Value: t.Value.Format(time.RFC3339)}, nil
}

var _ Formatter = temporalFunction{}

type listFunction struct{}

func newListFunction(string, Options) (Function, error) { return listFunction{}, nil }

func (listFunction) CanCache() bool { return true }

func (listFunction) Reduce(values []value.FluentValue, opts Options, scope Scope) (string, error) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", "), nil
}

var _ TerminalReducer = listFunction{}
