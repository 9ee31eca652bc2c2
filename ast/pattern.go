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

package ast

// PatternElement is one element of a Pattern: either literal text or a
// placeable. Sealed via the unexported patternElement marker method.
type PatternElement interface {
	Node
	patternElement()
}

// TextElement is a run of literal pattern text. It never contains '{';
// placeables are always factored out into their own Placeable element.
type TextElement struct {
	Span
	Value string
}

func (TextElement) patternElement() {}

// Placeable is a `{ ... }` interpolation embedded in a Pattern.
type Placeable struct {
	Span
	Expr Expression
}

func (Placeable) patternElement() {}
func (Placeable) expression()     {}

// NeedsIsolation reports whether this placeable's inner expression is a
// message or term reference (or a select expression selecting on one),
// the case in which bidi isolation marks should bracket the rendered
// value (spec 4.6, 4.10).
func (p Placeable) NeedsIsolation() bool {
	return exprNeedsIsolation(p.Expr)
}

func exprNeedsIsolation(e Expression) bool {
	switch v := e.(type) {
	case MessageReference:
		return true
	case TermReference:
		return true
	case SelectExpression:
		return exprNeedsIsolation(v.Selector)
	default:
		return false
	}
}

// Pattern is a non-empty, already-dedented sequence of pattern elements
// (spec 3, 4.4). Construction happens only through the parser's pattern
// stage; there is no public mutation API.
type Pattern struct {
	Elements []PatternElement
}

// Start/End satisfy Node in terms of the first/last element.
func (p Pattern) Start() int { return p.Elements[0].Start() }
func (p Pattern) End() int   { return p.Elements[len(p.Elements)-1].End() }

// Equal reports whether two patterns are structurally identical (element
// kinds, text, and expression shape -- not source spans). Used by the
// parser's accelerator-equivalence test and available to embedders
// doing incremental re-parse diffing (SPEC_FULL 5).
func (p Pattern) Equal(o Pattern) bool {
	if len(p.Elements) != len(o.Elements) {
		return false
	}
	for i := range p.Elements {
		if !patternElementEqual(p.Elements[i], o.Elements[i]) {
			return false
		}
	}
	return true
}

func patternElementEqual(a, b PatternElement) bool {
	switch av := a.(type) {
	case TextElement:
		bv, ok := b.(TextElement)
		return ok && av.Value == bv.Value
	case Placeable:
		bv, ok := b.(Placeable)
		return ok && expressionEqual(av.Expr, bv.Expr)
	default:
		return false
	}
}
