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
	"fmt"
	"reflect"
	"strings"

	"github.com/xyzsd/fluent-go/ast"
	"github.com/xyzsd/fluent-go/registry"
	"github.com/xyzsd/fluent-go/value"
)

// bidi isolation marks (spec 4.6, 4.10).
const (
	fsi = '⁨'
	pdi = '⁩'
)

// FormatPattern resolves p and reduces the result down to a single string,
// the operation Bundle.Format/PatternFormat build on. ResolvePattern's
// single-element fast path can return a non-string value (e.g. a bare
// `{$var}` pattern); FormatPattern always finishes the job.
func FormatPattern(p *ast.Pattern, scope *Scope) string {
	return reduceValues(ResolvePattern(p, scope), scope)
}

// ResolvePattern evaluates p to its final string representation (spec
// 4.10). A single-element pattern is returned directly without going
// through string-builder accumulation or isolation, since isolation only
// brackets a placeable sitting among other elements.
func ResolvePattern(p *ast.Pattern, scope *Scope) []value.FluentValue {
	if len(p.Elements) == 1 {
		return resolveElement(p.Elements[0], scope)
	}

	isolate := scope.Bundle.UseIsolation()
	var sb strings.Builder
	for _, el := range p.Elements {
		switch e := el.(type) {
		case ast.TextElement:
			sb.WriteString(e.Value)
		case ast.Placeable:
			if !scope.IncrementAndCheckPlaceables() {
				scope.AddException(TooManyPlaceablesError{Max: scope.maxPlaceables})
				sb.WriteString("{too many placeables}")
				return []value.FluentValue{value.FluentString{Value: sb.String()}}
			}
			vals := ResolveExpression(e.Expr, scope)
			rendered := reduceValues(vals, scope)
			if isolate && e.NeedsIsolation() {
				sb.WriteRune(fsi)
				sb.WriteString(rendered)
				sb.WriteRune(pdi)
			} else {
				sb.WriteString(rendered)
			}
		}
	}
	return []value.FluentValue{value.FluentString{Value: sb.String()}}
}

// resolveElement resolves a single pattern element on ResolvePattern's
// fast path: a lone TextElement becomes a FluentString, a lone Placeable
// resolves its expression directly and returns the raw (unreduced) value.
func resolveElement(el ast.PatternElement, scope *Scope) []value.FluentValue {
	switch e := el.(type) {
	case ast.TextElement:
		return []value.FluentValue{value.FluentString{Value: e.Value}}
	case ast.Placeable:
		if !scope.IncrementAndCheckPlaceables() {
			scope.AddException(TooManyPlaceablesError{Max: scope.maxPlaceables})
			return []value.FluentValue{value.FluentError{Value: "too many placeables"}}
		}
		return ResolveExpression(e.Expr, scope)
	default:
		return nil
	}
}

// ResolveExpression evaluates a single expression to its value list (spec
// 4.10). Most expression kinds resolve to exactly one value; a
// VariableReference bound to a host-supplied collection (spec 4.7's
// FluentValue.ofCollection) may resolve to many.
func ResolveExpression(e ast.Expression, scope *Scope) []value.FluentValue {
	switch ex := e.(type) {
	case ast.StringLiteral:
		return []value.FluentValue{value.FluentString{Value: ex.Value}}
	case ast.NumberLiteral:
		return []value.FluentValue{numberFromLiteral(ex)}
	case ast.Placeable:
		return ResolveExpression(ex.Expr, scope)
	case ast.VariableReference:
		return resolveVariableReference(ex, scope)
	case ast.MessageReference:
		return resolveMessageReference(ex, scope)
	case ast.TermReference:
		return resolveTermReference(ex, scope)
	case ast.FunctionReference:
		return resolveFunctionReference(ex, scope)
	case ast.SelectExpression:
		return resolveSelectExpression(ex, scope)
	default:
		return []value.FluentValue{value.FluentError{Value: "unknown expression"}}
	}
}

func numberFromLiteral(n ast.NumberLiteral) value.FluentNumber {
	switch n.Kind {
	case ast.NumberInt:
		i, _ := n.Int64()
		return value.NewIntNumber(i)
	case ast.NumberBig:
		b, _ := n.Big()
		return value.NewBigNumber(b)
	default:
		f, ok := n.Float64()
		if !ok {
			f = n.AsFloat64()
		}
		return value.NewFloatNumber(f)
	}
}

func errMarker(text string) []value.FluentValue {
	return []value.FluentValue{value.FluentError{Value: text}}
}

func resolveVariableReference(v ast.VariableReference, scope *Scope) []value.FluentValue {
	vals, ok := scope.Lookup(v.Name.Name)
	if !ok {
		scope.AddException(ReferenceError{Kind: "variable", Name: v.Name.Name})
		return errMarker("$" + v.Name.Name)
	}
	return vals
}

func resolveMessageReference(m ast.MessageReference, scope *Scope) []value.FluentValue {
	msg, ok := scope.Bundle.Message(m.Name.Name)
	if !ok {
		scope.AddException(ReferenceError{Kind: "message", Name: m.Name.Name})
		return errMarker(m.Name.Name)
	}
	if m.Attribute == nil {
		if msg.Pattern == nil {
			scope.AddException(ReferenceError{Kind: "value", Name: m.Name.Name})
			return errMarker(m.Name.Name)
		}
		key := "message:" + m.Name.Name
		pattern := msg.Pattern
		return scope.track(key, func() []value.FluentValue { return ResolvePattern(pattern, scope) })
	}
	attr, ok := msg.Attr(m.Attribute.Name)
	if !ok {
		scope.AddException(ReferenceError{Kind: "attribute", Name: m.Name.Name + "." + m.Attribute.Name})
		return errMarker(m.Name.Name + "." + m.Attribute.Name)
	}
	key := "message:" + m.Name.Name + "." + m.Attribute.Name
	return scope.track(key, func() []value.FluentValue { return ResolvePattern(&attr.Value, scope) })
}

func resolveTermReference(t ast.TermReference, scope *Scope) []value.FluentValue {
	term, ok := scope.Bundle.Term(t.Name.Name)
	if !ok {
		scope.AddException(ReferenceError{Kind: "term", Name: t.Name.Name})
		return errMarker("-" + t.Name.Name)
	}

	locals := map[string][]value.FluentValue{}
	if t.CallArgs != nil {
		for _, na := range t.CallArgs.Named {
			locals[na.Name.Name] = ResolveExpression(na.Value, scope)
		}
	}
	restore := scope.SetLocalParams(locals)
	defer restore()

	pattern := &term.Pattern
	key := "term:" + t.Name.Name
	if t.Attribute != nil {
		attr, ok := term.Attr(t.Attribute.Name)
		if !ok {
			scope.AddException(ReferenceError{Kind: "attribute", Name: t.Name.Name + "." + t.Attribute.Name})
			return errMarker("-" + t.Name.Name + "." + t.Attribute.Name)
		}
		pattern = &attr.Value
		key += "." + t.Attribute.Name
	}
	return scope.track(key, func() []value.FluentValue { return ResolvePattern(pattern, scope) })
}

func resolveFunctionReference(f ast.FunctionReference, scope *Scope) []value.FluentValue {
	factory, ok := scope.Bundle.Registry().Function(f.Name.Name)
	if !ok {
		scope.AddException(FunctionError{Name: f.Name.Name})
		return errMarker(fmt.Sprintf("%s()", f.Name.Name))
	}
	args, opts := evalCallArguments(f.CallArgs, scope)
	opts = scope.OptionsOver(f.Name.Name, opts)

	fn, err := scope.Bundle.Cache().GetFunction(factory, scope.Bundle.Locale(), opts)
	if err != nil {
		scope.AddException(FunctionError{Name: f.Name.Name, Err: err})
		return errMarker(fmt.Sprintf("%s(): %v", f.Name.Name, err))
	}
	tr, ok := fn.(registry.Transform)
	if !ok {
		scope.AddException(FunctionError{Name: f.Name.Name, Err: fmt.Errorf("not callable as a function")})
		return errMarker(fmt.Sprintf("%s()", f.Name.Name))
	}
	out, err := tr.Apply(args, opts, scope)
	if err != nil {
		scope.AddException(FunctionError{Name: f.Name.Name, Err: err})
		return errMarker(fmt.Sprintf("%s(): %v", f.Name.Name, err))
	}
	return out
}

// evalCallArguments resolves a CallArguments' positional expressions
// (flattened, since each may itself resolve to several values) and named
// literal arguments into a registry.Options map (spec 4.5, 4.10).
func evalCallArguments(call ast.CallArguments, scope *Scope) ([]value.FluentValue, registry.Options) {
	args := make([]value.FluentValue, 0, len(call.Positional))
	for _, pe := range call.Positional {
		args = append(args, ResolveExpression(pe, scope)...)
	}
	opts := make(registry.Options, len(call.Named))
	for _, na := range call.Named {
		vs := ResolveExpression(na.Value, scope)
		if len(vs) > 0 {
			opts[na.Name.Name] = vs[0]
		}
	}
	return args, opts
}

func resolveSelectExpression(sel ast.SelectExpression, scope *Scope) []value.FluentValue {
	if fnRef, ok := sel.Selector.(ast.FunctionReference); ok {
		variant := resolveExplicitSelector(fnRef, sel, scope)
		return ResolvePattern(&variant.Value, scope)
	}
	vals := ResolveExpression(sel.Selector, scope)
	variant := implicitSelect(vals, sel, scope)
	return ResolvePattern(&variant.Value, scope)
}

func resolveExplicitSelector(fnRef ast.FunctionReference, sel ast.SelectExpression, scope *Scope) ast.Variant {
	factory, ok := scope.Bundle.Registry().Function(fnRef.Name.Name)
	if !ok {
		scope.AddException(FunctionError{Name: fnRef.Name.Name})
		return sel.DefaultVariant()
	}
	args, opts := evalCallArguments(fnRef.CallArgs, scope)
	opts = scope.OptionsOver(fnRef.Name.Name, opts)

	fn, err := scope.Bundle.Cache().GetFunction(factory, scope.Bundle.Locale(), opts)
	if err != nil {
		scope.AddException(FunctionError{Name: fnRef.Name.Name, Err: err})
		return sel.DefaultVariant()
	}
	if selector, ok := fn.(registry.Selector); ok {
		return selector.Select(args, opts, sel.Variants, sel.DefaultVariant(), scope)
	}
	if tr, ok := fn.(registry.Transform); ok {
		out, err := tr.Apply(args, opts, scope)
		if err != nil {
			scope.AddException(FunctionError{Name: fnRef.Name.Name, Err: err})
			return sel.DefaultVariant()
		}
		return implicitSelect(out, sel, scope)
	}
	scope.AddException(FunctionError{Name: fnRef.Name.Name, Err: fmt.Errorf("not usable as a selector")})
	return sel.DefaultVariant()
}

// implicitSelect matches a resolved value against sel's variants without an
// explicit function call (spec 4.8's "implicit selection"): strings match
// textually; numbers, temporals and custom values defer to their registered
// factory's Selector when one exists (otherwise a number takes the default
// variant, and a temporal or custom value matches its text form); errors,
// other values and selector lists not of length one fall back to the
// default variant.
func implicitSelect(vals []value.FluentValue, sel ast.SelectExpression, scope *Scope) ast.Variant {
	if len(vals) != 1 {
		scope.AddException(FunctionError{Name: "<select>", Err: fmt.Errorf("expected exactly one selector value, got %d", len(vals))})
		return sel.DefaultVariant()
	}

	switch v := vals[0].(type) {
	case value.FluentString:
		return sel.MatchOrDefault(v.Value)
	case value.FluentError:
		return sel.DefaultVariant()
	case value.FluentNumber:
		if variant, ok := selectViaFactory(scope.Bundle.Registry().NumberFactory(), []value.FluentValue{v}, sel, scope); ok {
			return variant
		}
		return sel.DefaultVariant()
	case value.FluentTemporal:
		if variant, ok := selectViaFactory(scope.Bundle.Registry().TemporalFactory(), []value.FluentValue{v}, sel, scope); ok {
			return variant
		}
		return sel.MatchOrDefault(v.String())
	case value.FluentCustom:
		if factory, ok := scope.Bundle.Registry().CustomFor(reflect.TypeOf(v.Value)); ok {
			if variant, ok := selectViaFactory(factory, []value.FluentValue{v}, sel, scope); ok {
				return variant
			}
		}
		return sel.MatchOrDefault(v.String())
	default:
		return sel.DefaultVariant()
	}
}

func selectViaFactory(factory registry.Factory, args []value.FluentValue, sel ast.SelectExpression, scope *Scope) (ast.Variant, bool) {
	opts := scope.Options(factory.Name)
	fn, err := scope.Bundle.Cache().GetFunction(factory, scope.Bundle.Locale(), opts)
	if err != nil {
		scope.AddException(FunctionError{Name: factory.Name, Err: err})
		return ast.Variant{}, false
	}
	selector, ok := fn.(registry.Selector)
	if !ok {
		return ast.Variant{}, false
	}
	return selector.Select(args, opts, sel.Variants, sel.DefaultVariant(), scope), true
}

// reduceValues collapses a resolved value list into the string a
// placeable renders as (spec 4.8's "implicit reduction"). A single
// FluentString bypasses formatting entirely; a single non-string value is
// formatted directly; everything else goes through the registry's list
// reducer factory.
func reduceValues(vals []value.FluentValue, scope *Scope) string {
	if len(vals) == 1 {
		if s, ok := vals[0].(value.FluentString); ok {
			return s.Value
		}
		return formatValue(vals[0], scope)
	}
	factory := scope.Bundle.Registry().ListFactory()
	opts := scope.Options(factory.Name)
	fn, err := scope.Bundle.Cache().GetFunction(factory, scope.Bundle.Locale(), opts)
	if err != nil {
		scope.AddException(FunctionError{Name: factory.Name, Err: err})
		return fmt.Sprintf("{%s(): %v}", factory.Name, err)
	}
	reducer, ok := fn.(registry.TerminalReducer)
	if !ok {
		return joinFallback(vals)
	}
	s, err := reducer.Reduce(vals, opts, scope)
	if err != nil {
		scope.AddException(FunctionError{Name: factory.Name, Err: err})
		return fmt.Sprintf("{%s(): %v}", factory.Name, err)
	}
	return s
}

func joinFallback(vals []value.FluentValue) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// formatValue implicitly formats one value for interpolation (spec 4.8):
// strings and inert errors pass through, numbers and temporals defer to
// their required factory, and custom host values defer to a matching
// registered formatter or fall back to FluentValue.String.
func formatValue(v value.FluentValue, scope *Scope) string {
	switch t := v.(type) {
	case value.FluentString:
		return t.Value
	case value.FluentError:
		return "{" + t.Value + "}"
	case value.FluentNumber:
		return formatViaFactory(scope.Bundle.Registry().NumberFactory(), v, scope)
	case value.FluentTemporal:
		return formatViaFactory(scope.Bundle.Registry().TemporalFactory(), v, scope)
	case value.FluentCustom:
		if factory, ok := scope.Bundle.Registry().CustomFor(reflect.TypeOf(t.Value)); ok {
			return formatViaFactory(factory, v, scope)
		}
		return t.String()
	default:
		return v.String()
	}
}

func formatViaFactory(factory registry.Factory, v value.FluentValue, scope *Scope) string {
	opts := scope.Options(factory.Name)
	fn, err := scope.Bundle.Cache().GetFunction(factory, scope.Bundle.Locale(), opts)
	if err != nil {
		scope.AddException(FunctionError{Name: factory.Name, Err: err})
		return fmt.Sprintf("{%v}", err)
	}
	formatter, ok := fn.(registry.Formatter)
	if !ok {
		return v.String()
	}
	out, err := formatter.Format(v, opts, scope)
	if err != nil {
		scope.AddException(FunctionError{Name: factory.Name, Err: err})
		return fmt.Sprintf("{%s(): %v}", factory.Name, err)
	}
	return out.String()
}
