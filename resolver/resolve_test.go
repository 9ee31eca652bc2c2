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

package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyzsd/fluent-go/ast"
	"github.com/xyzsd/fluent-go/internal/bytesx"
	"github.com/xyzsd/fluent-go/parser"
	"github.com/xyzsd/fluent-go/registry"
	"github.com/xyzsd/fluent-go/value"
)

// fakeBundle is a minimal resolver.Bundle backed by a parsed resource, used
// to exercise resolution without depending on the fluent package (which
// itself depends on resolver -- a real Bundle is tested over in fluent).
type fakeBundle struct {
	messages  map[string]ast.Message
	terms     map[string]ast.Term
	reg       *registry.Registry
	cache     registry.Cache
	locale    string
	isolation bool
}

func newFakeBundle(t *testing.T, src string) *fakeBundle {
	t.Helper()
	r := parser.Parse([]byte(src), parser.ModeDefault, bytesx.Auto)
	require.Empty(t, r.Errors)
	b := &fakeBundle{
		messages: map[string]ast.Message{},
		terms:    map[string]ast.Term{},
		reg:      registry.Default(),
		cache:    registry.NoOpCache{},
		locale:   "en",
	}
	for _, m := range r.Messages() {
		b.messages[m.Name.Name] = m
	}
	for _, term := range r.Terms() {
		b.terms[term.Name.Name] = term
	}
	return b
}

func (b *fakeBundle) Message(name string) (ast.Message, bool) { m, ok := b.messages[name]; return m, ok }
func (b *fakeBundle) Term(name string) (ast.Term, bool)        { t, ok := b.terms[name]; return t, ok }
func (b *fakeBundle) Registry() *registry.Registry             { return b.reg }
func (b *fakeBundle) Cache() registry.Cache                    { return b.cache }
func (b *fakeBundle) Locale() string                           { return b.locale }
func (b *fakeBundle) UseIsolation() bool                       { return b.isolation }

func formatMessage(t *testing.T, b *fakeBundle, id string, args map[string]interface{}) (string, *Scope) {
	t.Helper()
	msg, ok := b.Message(id)
	require.True(t, ok)
	scope := NewScope(b, value.OfArguments(args), nil, 0)
	return FormatPattern(msg.Pattern, scope), scope
}

func TestResolve_PlainText(t *testing.T) {
	b := newFakeBundle(t, "hello = Hi there!\n")
	out, scope := formatMessage(t, b, "hello", nil)
	assert.Equal(t, "Hi there!", out)
	assert.Empty(t, scope.Exceptions())
}

func TestResolve_VariableReference(t *testing.T) {
	b := newFakeBundle(t, "greet = Hello, { $name }!\n")
	out, scope := formatMessage(t, b, "greet", map[string]interface{}{"name": "Ana"})
	assert.Equal(t, "Hello, Ana!", out)
	assert.Empty(t, scope.Exceptions())
}

func TestResolve_UnknownVariableRecordsReferenceError(t *testing.T) {
	b := newFakeBundle(t, "greet = Hello, { $name }!\n")
	out, scope := formatMessage(t, b, "greet", nil)
	assert.Contains(t, out, "$name")
	require.Len(t, scope.Exceptions(), 1)
	_, ok := scope.Exceptions()[0].(ReferenceError)
	assert.True(t, ok)
}

func TestResolve_TermReference(t *testing.T) {
	b := newFakeBundle(t, "-brand = Fluent\nabout = About { -brand }.\n")
	out, scope := formatMessage(t, b, "about", nil)
	assert.Equal(t, "About Fluent.", out)
	assert.Empty(t, scope.Exceptions())
}

func TestResolve_MessageReferenceWithAttribute(t *testing.T) {
	b := newFakeBundle(t, "login =\n    .title = Log in\nhelp = See: { login.title }\n")
	out, scope := formatMessage(t, b, "help", nil)
	assert.Equal(t, "See: Log in", out)
	assert.Empty(t, scope.Exceptions())
}

func TestResolve_CyclicTermReferenceIsCaught(t *testing.T) {
	b := newFakeBundle(t, "-a = { -b }\n-b = { -a }\nmsg = { -a }\n")
	out, scope := formatMessage(t, b, "msg", nil)
	found := false
	for _, e := range scope.Exceptions() {
		if _, ok := e.(CyclicError); ok {
			found = true
		}
	}
	assert.True(t, found)
	assert.Contains(t, out, "Cyclic dependency:")
}

func TestResolve_SelectExpression_Implicit(t *testing.T) {
	src := "emails =\n    { $count ->\n        [one] One new email\n       *[other] { $count } new emails\n    }\n"
	b := newFakeBundle(t, src)

	out, _ := formatMessage(t, b, "emails", map[string]interface{}{"count": 1})
	assert.Equal(t, "One new email", out)

	out, _ = formatMessage(t, b, "emails", map[string]interface{}{"count": 5})
	assert.Equal(t, "5 new emails", out)
}

func TestResolve_TooManyPlaceablesStopsExpansion(t *testing.T) {
	b := newFakeBundle(t, "msg = { $x }{ $x }{ $x }\n")
	scope := NewScope(b, value.OfArguments(map[string]interface{}{"x": "a"}), nil, 2)
	msg, _ := b.Message("msg")
	out := FormatPattern(msg.Pattern, scope)
	assert.Contains(t, out, "too many placeables")
	require.Len(t, scope.Exceptions(), 1)
	_, ok := scope.Exceptions()[0].(TooManyPlaceablesError)
	assert.True(t, ok)
}

func TestResolve_UnknownFunctionRecordsFunctionError(t *testing.T) {
	b := newFakeBundle(t, "msg = { MISSING($x) }\n")
	out, scope := formatMessage(t, b, "msg", map[string]interface{}{"x": "y"})
	assert.Contains(t, out, "MISSING")
	require.Len(t, scope.Exceptions(), 1)
	_, ok := scope.Exceptions()[0].(FunctionError)
	assert.True(t, ok)
}

func TestResolve_IsolationMarksWrapTermReferenceInMultiElementPattern(t *testing.T) {
	b := newFakeBundle(t, "-brand = Fluent\nabout = About { -brand } today\n")
	b.isolation = true
	out, _ := formatMessage(t, b, "about", nil)
	assert.Contains(t, out, "⁨Fluent⁩")
}

func TestResolve_NoIsolationWhenDisabled(t *testing.T) {
	b := newFakeBundle(t, "-brand = Fluent\nabout = About { -brand } today\n")
	out, _ := formatMessage(t, b, "about", nil)
	assert.NotContains(t, out, "⁨")
	assert.Equal(t, "About Fluent today", out)
}
