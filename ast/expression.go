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

// Expression is the sealed sum type of all FTL expressions (spec 3):
// StringLiteral | NumberLiteral | Placeable | FunctionReference |
// MessageReference | TermReference | VariableReference | SelectExpression.
type Expression interface {
	Node
	expression()
}

// VariableReference is `$name`.
type VariableReference struct {
	Span
	Name Identifier
}

func (VariableReference) expression() {}

// MessageReference is `name` or `name.attr`, referencing a Message.
type MessageReference struct {
	Span
	Name      Identifier
	Attribute *Identifier // nil if no attribute
}

func (MessageReference) expression() {}

// TermReference is `-name`, `-name.attr`, or `-name(args)`, referencing a
// Term. CallArgs is nil unless the reference supplies named arguments
// (spec 4.5: term references carry only named arguments, no positional).
type TermReference struct {
	Span
	Name      Identifier
	Attribute *Identifier
	CallArgs  *CallArguments
}

func (TermReference) expression() {}

// FunctionReference is `NAME(args)`. Name must satisfy ValidFunctionName.
type FunctionReference struct {
	Span
	Name     Identifier
	CallArgs CallArguments
}

func (FunctionReference) expression() {}

// NamedArgument is `name: Literal` inside a CallArguments list. The value
// is restricted to a Literal (StringLiteral or NumberLiteral) per spec 4.5.
type NamedArgument struct {
	Span
	Name  Identifier
	Value Literal
}

// Literal is the sealed sum type of literal-only expressions, used where
// the grammar restricts a position to StringLiteral|NumberLiteral (named
// call arguments, variant keys).
type Literal interface {
	Expression
	literalNode()
}

// VariantKey is the sealed sum type for a Variant's key: Identifier or
// NumberLiteral (spec 3). Identifier does not implement Expression, so
// this is a separate marker rather than reusing Literal.
type VariantKey interface {
	Node
	variantKey()
}

func (Identifier) variantKey() {}

// CallArguments is the parenthesized argument list of a function or term
// reference: ordered positional expressions followed by ordered, uniquely
// named arguments (spec 4.5 -- positionals may never follow named args).
type CallArguments struct {
	Span
	Positional []Expression
	Named      []NamedArgument
}

// Variant is one branch of a SelectExpression. Exactly one Variant in a
// given SelectExpression has Default set (enforced by the parser, not by
// this type).
type Variant struct {
	Key     VariantKey
	Value   Pattern
	Default bool
}

// SelectExpression is `{ selector -> *[default] ... [key] ... }`.
type SelectExpression struct {
	Span
	Selector Expression
	Variants []Variant
}

func (SelectExpression) expression() {}

// DefaultVariant returns the select expression's default variant. Parser
// invariants guarantee exactly one exists (spec 4.5, E0010/E0011/E0015).
func (s SelectExpression) DefaultVariant() Variant {
	for _, v := range s.Variants {
		if v.Default {
			return v
		}
	}
	panic("ast: select expression has no default variant")
}

// MatchOrDefault maps a textual variant key to the first variant whose key
// renders to an identical string, falling back to the default variant
// (spec 4.6).
func (s SelectExpression) MatchOrDefault(text string) Variant {
	for _, v := range s.Variants {
		if variantKeyText(v.Key) == text {
			return v
		}
	}
	return s.DefaultVariant()
}

func variantKeyText(k VariantKey) string {
	switch v := k.(type) {
	case Identifier:
		return v.Name
	case NumberLiteral:
		return v.Raw
	default:
		return ""
	}
}

func expressionEqual(a, b Expression) bool {
	switch av := a.(type) {
	case StringLiteral:
		bv, ok := b.(StringLiteral)
		return ok && av.Value == bv.Value
	case NumberLiteral:
		bv, ok := b.(NumberLiteral)
		return ok && av.Raw == bv.Raw
	case Placeable:
		bv, ok := b.(Placeable)
		return ok && expressionEqual(av.Expr, bv.Expr)
	case VariableReference:
		bv, ok := b.(VariableReference)
		return ok && av.Name.Name == bv.Name.Name
	case MessageReference:
		bv, ok := b.(MessageReference)
		return ok && av.Name.Name == bv.Name.Name && attrEqual(av.Attribute, bv.Attribute)
	case TermReference:
		bv, ok := b.(TermReference)
		return ok && av.Name.Name == bv.Name.Name && attrEqual(av.Attribute, bv.Attribute)
	case FunctionReference:
		bv, ok := b.(FunctionReference)
		return ok && av.Name.Name == bv.Name.Name
	case SelectExpression:
		bv, ok := b.(SelectExpression)
		if !ok || !expressionEqual(av.Selector, bv.Selector) || len(av.Variants) != len(bv.Variants) {
			return false
		}
		for i := range av.Variants {
			if variantKeyText(av.Variants[i].Key) != variantKeyText(bv.Variants[i].Key) {
				return false
			}
			if !av.Variants[i].Value.Equal(bv.Variants[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func attrEqual(a, b *Identifier) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return a.Name == b.Name
}
