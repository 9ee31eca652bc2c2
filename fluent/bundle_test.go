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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/xyzsd/fluent-go/ast"
	"github.com/xyzsd/fluent-go/internal/bytesx"
	"github.com/xyzsd/fluent-go/parser"
	"github.com/xyzsd/fluent-go/reporter"
)

func mustParse(t *testing.T, src string) *ast.Resource {
	t.Helper()
	r := parser.Parse([]byte(src), parser.ModeDefault, bytesx.Auto)
	require.Empty(t, r.Errors)
	return r
}

func TestBuilder_AddResource_BuildsBundle(t *testing.T) {
	r := mustParse(t, "hello = Hi, { $name }!\n")
	b := NewBuilder(WithLocale("en"))
	require.NoError(t, b.AddResource(r))
	bundle, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "en", bundle.Locale())

	out := bundle.Format("hello", map[string]interface{}{"name": "Ana"})
	assert.Equal(t, "Hi, Ana!", out)
}

func TestBuilder_AddResource_DuplicateNamesAreAccumulatedNotFatal(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddResource(mustParse(t, "a = first\nb = second\n")))

	err := b.AddResource(mustParse(t, "a = duplicate\nc = third\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, reporter.ErrInvalidResource))

	bundle, err := b.Build()
	require.NoError(t, err)
	// "c" was still inserted even though "a" collided.
	assert.Equal(t, "second", bundle.Format("b", nil))
	assert.Equal(t, "third", bundle.Format("c", nil))
	// "a" keeps its first definition; the duplicate is rejected, not applied.
	assert.Equal(t, "first", bundle.Format("a", nil))
}

func TestBuilder_AddResourceOverriding_LastWriteWins(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddResource(mustParse(t, "a = first\n")))
	b.AddResourceOverriding(mustParse(t, "a = second\n"))

	bundle, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "second", bundle.Format("a", nil))
}

func TestBuilder_Build_RejectsUnknownFunctionOptionName(t *testing.T) {
	_, err := NewBuilder(WithFunctionOptions("NOPE", nil)).Build()
	assert.Error(t, err)
}

func TestBundle_Format_MissingMessageProducesMarkerAndLogsException(t *testing.T) {
	var logged []ErrorContext
	b := NewBuilder(WithLogger(func(ec ErrorContext) { logged = append(logged, ec) }))
	bundle, err := b.Build()
	require.NoError(t, err)

	out := bundle.Format("missing", nil)
	assert.Equal(t, "{missing}", out)
	require.Len(t, logged, 1)
	assert.Equal(t, "missing", logged[0].MessageID)
	require.Len(t, logged[0].Exceptions, 1)
}

func TestBundle_Format_MessageWithNoPatternProducesDiagnosticMarker(t *testing.T) {
	r := mustParse(t, "confirmMessage =\n    .title = Confirm\n")
	b := NewBuilder()
	require.NoError(t, b.AddResource(r))
	bundle, err := b.Build()
	require.NoError(t, err)

	out := bundle.Format("confirmMessage", nil)
	assert.Equal(t, "{No pattern specified for message: 'confirmMessage'}", out)
}

func TestBundle_FormatAttribute(t *testing.T) {
	r := mustParse(t, "login =\n    .title = Log in\n")
	b := NewBuilder()
	require.NoError(t, b.AddResource(r))
	bundle, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "Log in", bundle.FormatAttribute("login", "title", nil))
}

func TestBundle_PatternFormat(t *testing.T) {
	r := mustParse(t, "hello = Hi, { $name }!\n")
	b := NewBuilder()
	require.NoError(t, b.AddResource(r))
	bundle, err := b.Build()
	require.NoError(t, err)

	msg, ok := bundle.Message("hello")
	require.True(t, ok)
	assert.Equal(t, "Hi, Ana!", bundle.PatternFormat(msg.Pattern, map[string]interface{}{"name": "Ana"}))
}

func TestRequest_OrElseVariants(t *testing.T) {
	r := mustParse(t, "hello = Hi, { $name }!\n")
	b := NewBuilder()
	require.NoError(t, b.AddResource(r))
	bundle, err := b.Build()
	require.NoError(t, err)

	out := bundle.NewRequest("hello").Argument("name", "Ana").OrElse("fallback")
	assert.Equal(t, "Hi, Ana!", out)

	out = bundle.NewRequest("nope").OrElse("fallback")
	assert.Equal(t, "fallback", out)

	got := bundle.NewRequest("nope").OrElseGet(func() string { return "computed" })
	assert.Equal(t, "computed", got)

	_, err = bundle.NewRequest("nope").OrElseThrow(func() error { return errors.New("boom") })
	assert.Error(t, err)

	s, err := bundle.NewRequest("hello").Argument("name", "Ana").OrElseThrow(func() error { return errors.New("boom") })
	require.NoError(t, err)
	assert.Equal(t, "Hi, Ana!", s)
}

func TestRequest_AttributeNotFoundUsesFallback(t *testing.T) {
	r := mustParse(t, "login = Login\n")
	b := NewBuilder()
	require.NoError(t, b.AddResource(r))
	bundle, err := b.Build()
	require.NoError(t, err)

	out := bundle.NewRequest("login").Attribute("title").OrElse("fallback")
	assert.Equal(t, "fallback", out)
}

func TestDiagnostics_Logger_AccumulatesResolutions(t *testing.T) {
	r := mustParse(t, "hello = Hi, { $name }!\n")
	diag := NewDiagnostics(r)

	b := NewBuilder(WithLogger(diag.Logger()))
	require.NoError(t, b.AddResource(r))
	bundle, err := b.Build()
	require.NoError(t, err)

	bundle.Format("hello", nil) // missing $name -> one exception
	require.True(t, diag.HasErrors())
	require.Len(t, diag.Resolutions, 1)

	want := []string{"hello: unknown variable: name"}
	if diff := cmp.Diff(want, diag.Render()); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

// TestBundle_FormatIsSafeForConcurrentReads exercises the "no mutation API"
// guarantee a built Bundle makes (spec 5): many goroutines formatting the
// same bundle concurrently, each with its own NewScope, must never race.
func TestBundle_FormatIsSafeForConcurrentReads(t *testing.T) {
	r := mustParse(t, "greet = Hello, { $name }! You have { $count } messages.\n")
	b := NewBuilder()
	require.NoError(t, b.AddResource(r))
	bundle, err := b.Build()
	require.NoError(t, err)

	var g errgroup.Group
	for i := 0; i < 50; i++ {
		n := i
		g.Go(func() error {
			out := bundle.Format("greet", map[string]interface{}{"name": "Ana", "count": n})
			if out == "" {
				return errors.New("unexpected empty format result")
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
