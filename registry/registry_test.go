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
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyzsd/fluent-go/ast"
	"github.com/xyzsd/fluent-go/value"
)

type fakeScope struct{ errs []error }

func (s *fakeScope) AddException(err error) { s.errs = append(s.errs, err) }

func TestBuilder_RequiresAllThreeImplicitFactories(t *testing.T) {
	_, err := NewBuilder().Build()
	assert.Error(t, err)

	_, err = NewBuilder().
		WithNumberFactory(Factory{Name: "NUMBER", New: func(string, Options) (Function, error) { return nil, nil }}).
		Build()
	assert.Error(t, err)
}

func TestBuilder_DuplicateFunctionNameRejected(t *testing.T) {
	b := NewBuilder()
	fn := Factory{Name: "UPPER", New: func(string, Options) (Function, error) { return nil, nil }}
	require.NoError(t, b.WithFunction("UPPER", fn))
	assert.Error(t, b.WithFunction("UPPER", fn))
}

func TestDefault_HasRequiredFactories(t *testing.T) {
	r := Default()
	assert.Equal(t, "NUMBER", r.NumberFactory().Name)
	assert.Equal(t, "DATETIME", r.TemporalFactory().Name)
	assert.NotEmpty(t, r.ListFactory().Name)
	assert.False(t, r.HasCustoms())
}

func TestRegistry_CustomFor_ExactThenSubtype(t *testing.T) {
	type base struct{}
	type derived struct{ base }

	exactFactory := Factory{Name: "exact"}
	subFactory := Factory{Name: "sub"}

	b := NewBuilder().
		WithNumberFactory(Factory{Name: "NUMBER", New: newStubNumber}).
		WithTemporalFactory(Factory{Name: "DATETIME", New: newStubNumber}).
		WithListFactory(Factory{Name: "LIST", New: newStubNumber}).
		WithCustomFormatter(reflect.TypeOf(base{}), exactFactory).
		WithCustomFormatterSubtype(func(t reflect.Type) bool {
			return t.Name() == "derived"
		}, subFactory)
	r, err := b.Build()
	require.NoError(t, err)
	require.True(t, r.HasCustoms())

	f, ok := r.CustomFor(reflect.TypeOf(base{}))
	require.True(t, ok)
	assert.Equal(t, "exact", f.Name)

	f, ok = r.CustomFor(reflect.TypeOf(derived{}))
	require.True(t, ok)
	assert.Equal(t, "sub", f.Name)
}

func newStubNumber(string, Options) (Function, error) { return stubFn{}, nil }

type stubFn struct{}

func (stubFn) CanCache() bool { return true }

func TestDefaultNumberFunction_SelectsPluralCategory(t *testing.T) {
	r := Default()
	fn, err := r.NumberFactory().New("en", Options{})
	require.NoError(t, err)
	selector := fn.(Selector)

	variants := []ast.Variant{
		{Key: ast.NewIdentifier("one", 0, 0), Value: ast.Pattern{Elements: []ast.PatternElement{ast.TextElement{Value: "one"}}}},
		{Key: ast.NewIdentifier("other", 0, 0), Value: ast.Pattern{Elements: []ast.PatternElement{ast.TextElement{Value: "other"}}}, Default: true},
	}

	scope := &fakeScope{}
	got := selector.Select([]value.FluentValue{value.NewIntNumber(1)}, Options{}, variants, variants[1], scope)
	assert.Equal(t, "one", got.Key.(ast.Identifier).Name)

	got = selector.Select([]value.FluentValue{value.NewIntNumber(5)}, Options{}, variants, variants[1], scope)
	assert.Equal(t, "other", got.Key.(ast.Identifier).Name)
}

func TestDefaultListFunction_Reduce(t *testing.T) {
	r := Default()
	fn, err := r.ListFactory().New("en", Options{})
	require.NoError(t, err)
	reducer := fn.(TerminalReducer)

	scope := &fakeScope{}
	out, err := reducer.Reduce([]value.FluentValue{value.FluentString{Value: "a"}, value.FluentString{Value: "b"}}, Options{}, scope)
	require.NoError(t, err)
	assert.Equal(t, "a, b", out)
}

func TestOptions_Merge(t *testing.T) {
	base := Options{"x": value.FluentString{Value: "base"}}
	over := Options{"x": value.FluentString{Value: "over"}, "y": value.FluentString{Value: "y"}}
	merged := base.Merge(over)
	assert.Equal(t, value.FluentString{Value: "over"}, merged["x"])
	assert.Equal(t, value.FluentString{Value: "y"}, merged["y"])
	assert.Equal(t, value.FluentString{Value: "base"}, base["x"]) // base untouched
}
