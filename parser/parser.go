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

// Package parser turns FTL (Fluent Translation List) source bytes into an
// ast.Resource (spec 3, 4). The grammar is simple enough to parse by
// straightforward recursive descent directly against a cursor over the
// source bytes -- there is no separate lexer/token stream and no generated
// grammar, unlike the protobuf IDL this package's layout is descended from.
package parser

import (
	"strings"

	"github.com/xyzsd/fluent-go/ast"
	"github.com/xyzsd/fluent-go/internal/bytesx"
)

// Mode selects how comments and unparseable input are handled.
type Mode int

const (
	// ModeDefault discards comments and recovers silently from junk,
	// producing only Message and Term entries. This is the mode a runtime
	// embedding the library for end-user message resolution wants: it
	// never needs comment text and Errors/Junk are typically just logged.
	ModeDefault Mode = iota

	// ModeExtended retains Comment entries (including attaching a leading
	// comment to the following Message/Term when separated by at most one
	// blank line) and records recovered ranges as ast.Junk. Tooling that
	// round-trips or lints FTL sources wants this mode.
	ModeExtended
)

// Parse parses data as one FTL resource. impl selects the byte-scanning
// Accelerator (spec 4.1, 6); pass bytesx.Auto unless a specific
// implementation must be forced (e.g. for testing or benchmarking).
func Parse(data []byte, mode Mode, impl bytesx.Choice) *ast.Resource {
	c := newCursor(data, bytesx.Select(impl))
	return parseResource(c, mode)
}

func parseResource(c *cursor, mode Mode) *ast.Resource {
	res := &ast.Resource{}
	c.skipBlankBlockNLC()

	for c.HasRemaining() {
		start := c.Position()
		var pending *ast.Comment

		if mode == ModeExtended && c.IsCurrentChar('#') {
			com, err := parseComment(c)
			if err != nil {
				recordJunk(res, c, start, mode)
				continue
			}
			blanks := c.skipBlankBlock()
			if c.HasRemaining() && blanks <= 1 && startsMessageOrTerm(c) {
				pending = &com
			} else {
				res.Entries = append(res.Entries, com)
				continue
			}
		} else if mode == ModeDefault && c.IsCurrentChar('#') {
			if _, err := parseComment(c); err != nil {
				recordJunk(res, c, start, mode)
				continue
			}
			c.skipBlankBlockNLC()
			continue
		}

		if !c.HasRemaining() {
			break
		}

		entry, err := parseEntry(c, pending)
		if err != nil {
			res.Errors = append(res.Errors, err.(ast.ParseError))
			recordJunk(res, c, start, mode)
			continue
		}
		res.Entries = append(res.Entries, entry)
		c.skipBlankBlockNLC()
	}
	return res
}

func startsMessageOrTerm(c *cursor) bool {
	return bytesx.IsAlpha(c.At()) || c.At() == '-'
}

func recordJunk(res *ast.Resource, c *cursor, start int, mode Mode) {
	c.skipToNextEntryStart()
	if mode == ModeExtended {
		res.Junk = append(res.Junk, ast.NewJunk(c.src, start, c.Position()))
	}
	c.skipBlankBlockNLC()
}

// parseEntry parses one Message or Term entry (a Comment entry is handled
// by parseResource before this is called).
func parseEntry(c *cursor, comment *ast.Comment) (ast.Entry, error) {
	if c.IsCurrentChar('-') {
		c.Inc(1)
		return parseTerm(c, comment)
	}
	return parseMessage(c, comment)
}

func parseMessage(c *cursor, comment *ast.Comment) (ast.Entry, error) {
	start := c.Position()
	id, err := parseIdentifier(c)
	if err != nil {
		return nil, err
	}
	c.skipBlankInline()
	if err := c.expectChar('='); err != nil {
		return nil, err
	}
	c.skipBlankInline()
	pattern, err := parsePattern(c)
	if err != nil {
		return nil, err
	}
	attrs, err := parseAttributes(c)
	if err != nil {
		return nil, err
	}
	if pattern == nil && len(attrs) == 0 {
		return nil, newError(E0005, c.line(), c.span(start), id.Name)
	}
	return ast.Message{
		Span:       c.span(start),
		Name:       id,
		Pattern:    pattern,
		Attributes: attrs,
		Comment:    comment,
	}, nil
}

func parseTerm(c *cursor, comment *ast.Comment) (ast.Entry, error) {
	start := c.Position()
	id, err := parseIdentifier(c)
	if err != nil {
		return nil, err
	}
	c.skipBlankInline()
	if err := c.expectChar('='); err != nil {
		return nil, err
	}
	c.skipBlankInline()
	pattern, err := parsePattern(c)
	if err != nil {
		return nil, err
	}
	if pattern == nil {
		return nil, newError(E0006, c.line(), c.span(start), id.Name)
	}
	attrs, err := parseAttributes(c)
	if err != nil {
		return nil, err
	}
	return ast.Term{
		Span:       c.span(start),
		Name:       id,
		Pattern:    *pattern,
		Attributes: attrs,
		Comment:    comment,
	}, nil
}

func parseAttributes(c *cursor) ([]ast.Attribute, error) {
	var attrs []ast.Attribute
	for {
		save := c.Position()
		c.skipBlankBlockNLC()
		if !c.IsCurrentChar('.') {
			c.SetPosition(save)
			return attrs, nil
		}
		c.Inc(1)
		start := c.Position() - 1
		id, err := parseIdentifier(c)
		if err != nil {
			return nil, err
		}
		c.skipBlankInline()
		if err := c.expectChar('='); err != nil {
			return nil, err
		}
		c.skipBlankInline()
		pattern, err := parsePattern(c)
		if err != nil {
			return nil, err
		}
		if pattern == nil {
			return nil, newError(E0012, c.line(), c.span(start), id.Name)
		}
		attrs = append(attrs, ast.Attribute{Span: c.span(start), Name: id, Value: *pattern})
	}
}

func parseIdentifier(c *cursor) (ast.Identifier, error) {
	start := c.Position()
	if !bytesx.IsAlpha(c.At()) {
		return ast.Identifier{}, newError(E0004, c.line(), c.span(start), "identifier")
	}
	end := c.identifierEnd()
	name := c.substring(start, end)
	c.SetPosition(end)
	return ast.NewIdentifier(name, start, end), nil
}

// parsePlaceable parses `{ InlineExpression | SelectExpression }`.
func parsePlaceable(c *cursor) (ast.Placeable, error) {
	start := c.Position()
	if err := c.expectChar('{'); err != nil {
		return ast.Placeable{}, err
	}
	c.skipBlankBlockNLC()

	expr, err := parseInlineExpression(c)
	if err != nil {
		return ast.Placeable{}, err
	}

	c.skipBlankBlockNLC()
	if c.IsCurrentChar('-') && c.IsNextChar('>') {
		c.Inc(2)
		sel, serr := parseSelectExpression(c, expr, start)
		if serr != nil {
			return ast.Placeable{}, serr
		}
		expr = sel
	}

	c.skipBlankBlockNLC()
	if err := c.expectChar('}'); err != nil {
		return ast.Placeable{}, err
	}
	return ast.Placeable{Span: c.span(start), Expr: expr}, nil
}

func parseSelectExpression(c *cursor, selector ast.Expression, from int) (ast.SelectExpression, error) {
	switch sel := selector.(type) {
	case ast.MessageReference:
		if sel.Attribute == nil {
			return ast.SelectExpression{}, newError(E0016, c.line(), c.span(c.Position()), sel.Name.Name)
		}
		return ast.SelectExpression{}, newError(E0018, c.line(), c.span(c.Position()), sel.Name.Name)
	case ast.TermReference:
		if sel.Attribute == nil {
			return ast.SelectExpression{}, newError(E0017, c.line(), c.span(c.Position()), sel.Name.Name)
		}
	case ast.Placeable:
		return ast.SelectExpression{}, newError(E0029, c.line(), c.span(c.Position()), "placeable")
	}

	var variants []ast.Variant
	defaultCount := 0
	for {
		c.skipBlankBlockNLC()
		if !(c.IsCurrentChar('*') || c.IsCurrentChar('[')) {
			break
		}
		v, err := parseVariant(c)
		if err != nil {
			return ast.SelectExpression{}, err
		}
		if v.Default {
			defaultCount++
		}
		variants = append(variants, v)
	}

	if len(variants) == 0 {
		return ast.SelectExpression{}, newError(E0011, c.line(), c.span(from), "")
	}
	if defaultCount == 0 {
		return ast.SelectExpression{}, newError(E0010, c.line(), c.span(from), "")
	}
	if defaultCount > 1 {
		return ast.SelectExpression{}, newError(E0015, c.line(), c.span(from), "")
	}

	return ast.SelectExpression{Span: c.span(from), Selector: selector, Variants: variants}, nil
}

func parseVariant(c *cursor) (ast.Variant, error) {
	isDefault := c.takeCharIf('*')
	if err := c.expectChar('['); err != nil {
		return ast.Variant{}, err
	}
	c.skipBlankInline()
	key, err := parseVariantKey(c)
	if err != nil {
		return ast.Variant{}, err
	}
	c.skipBlankInline()
	if err := c.expectChar(']'); err != nil {
		return ast.Variant{}, err
	}
	c.skipBlankInline()
	pattern, err := parsePattern(c)
	if err != nil {
		return ast.Variant{}, err
	}
	if pattern == nil {
		return ast.Variant{}, newError(E0013, c.line(), c.span(c.Position()), "")
	}
	return ast.Variant{Key: key, Value: *pattern, Default: isDefault}, nil
}

func parseVariantKey(c *cursor) (ast.VariantKey, error) {
	if !c.HasRemaining() {
		return nil, newError(E0013, c.line(), c.span(c.Position()), "EOF")
	}
	if bytesx.IsDigit(c.At()) || c.At() == '-' {
		n, err := parseNumberLiteral(c)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	return parseIdentifier(c)
}

// parseInlineExpression parses one of: StringLiteral, NumberLiteral,
// VariableReference, TermReference, FunctionReference, MessageReference, or
// a nested Placeable (spec 4.5).
func parseInlineExpression(c *cursor) (ast.Expression, error) {
	start := c.Position()
	switch {
	case c.IsCurrentChar('"'):
		return parseStringLiteral(c)
	case bytesx.IsDigit(c.At()) || c.At() == '-' && bytesx.IsDigit(c.AtOffset(1)):
		return parseNumberLiteral(c)
	case c.IsCurrentChar('$'):
		c.Inc(1)
		id, err := parseIdentifier(c)
		if err != nil {
			return nil, err
		}
		return ast.VariableReference{Span: c.span(start), Name: id}, nil
	case c.IsCurrentChar('-'):
		c.Inc(1)
		id, err := parseIdentifier(c)
		if err != nil {
			return nil, err
		}
		var attr *ast.Identifier
		if c.IsCurrentChar('.') {
			c.Inc(1)
			a, aerr := parseIdentifier(c)
			if aerr != nil {
				return nil, aerr
			}
			attr = &a
		}
		var args *ast.CallArguments
		if c.IsCurrentChar('(') {
			ca, cerr := parseCallArguments(c)
			if cerr != nil {
				return nil, cerr
			}
			if len(ca.Positional) > 0 {
				return nil, newError(E0031, c.line(), c.span(start), id.Name)
			}
			args = &ca
		}
		return ast.TermReference{Span: c.span(start), Name: id, Attribute: attr, CallArgs: args}, nil
	case c.IsCurrentChar('{'):
		ph, err := parsePlaceable(c)
		if err != nil {
			return nil, err
		}
		return ph, nil
	case bytesx.IsAlpha(c.At()):
		end := c.identifierEnd()
		name := c.substring(start, end)
		c.SetPosition(end)

		if c.IsCurrentChar('(') {
			if !ast.ValidFunctionName(name) {
				return nil, newError(E0008, c.line(), c.span(start), name)
			}
			ca, err := parseCallArguments(c)
			if err != nil {
				return nil, err
			}
			return ast.FunctionReference{Span: c.span(start), Name: ast.NewIdentifier(name, start, end), CallArgs: ca}, nil
		}
		var attr *ast.Identifier
		if c.IsCurrentChar('.') {
			c.Inc(1)
			a, aerr := parseIdentifier(c)
			if aerr != nil {
				return nil, aerr
			}
			attr = &a
		}
		return ast.MessageReference{Span: c.span(start), Name: ast.NewIdentifier(name, start, end), Attribute: attr}, nil
	default:
		return nil, newError(E0028, c.line(), c.span(start), describeByte(c.At(), !c.HasRemaining()))
	}
}

func parseCallArguments(c *cursor) (ast.CallArguments, error) {
	start := c.Position()
	if err := c.expectChar('('); err != nil {
		return ast.CallArguments{}, err
	}
	c.skipBlankBlockNLC()

	var positional []ast.Expression
	var named []ast.NamedArgument
	seenNamed := map[string]bool{}

	for !c.IsCurrentChar(')') {
		if !c.HasRemaining() {
			return ast.CallArguments{}, newError(E0004, c.line(), c.span(c.Position()), "')'")
		}

		argStart := c.Position()
		matchedNamed := false
		// A named argument looks like Identifier ':' Literal; anything else
		// at this position is a positional InlineExpression. Peek by
		// attempting an identifier parse without committing on failure.
		if bytesx.IsAlpha(c.At()) {
			nameStart := c.Position()
			end := c.identifierEnd()
			c.SetPosition(end)
			blankSave := c.Position()
			c.skipBlankBlockNLC()
			if c.IsCurrentChar(':') {
				c.Inc(1)
				c.skipBlankBlockNLC()
				name := ast.NewIdentifier(c.substring(nameStart, end), nameStart, end)
				if seenNamed[name.Name] {
					return ast.CallArguments{}, newError(E0022, c.line(), c.span(argStart), name.Name)
				}
				seenNamed[name.Name] = true
				lit, err := parseCallArgumentLiteral(c)
				if err != nil {
					return ast.CallArguments{}, err
				}
				named = append(named, ast.NamedArgument{Span: c.span(argStart), Name: name, Value: lit})
				matchedNamed = true
			} else {
				c.SetPosition(blankSave)
			}
		}

		if !matchedNamed {
			if len(named) > 0 {
				return ast.CallArguments{}, newError(E0021, c.line(), c.span(argStart), "")
			}
			expr, err := parseInlineExpression(c)
			if err != nil {
				return ast.CallArguments{}, err
			}
			positional = append(positional, expr)
		}

		c.skipBlankBlockNLC()
		if c.takeCharIf(',') {
			c.skipBlankBlockNLC()
			continue
		}
		break
	}

	if err := c.expectChar(')'); err != nil {
		return ast.CallArguments{}, err
	}
	return ast.CallArguments{Span: c.span(start), Positional: positional, Named: named}, nil
}

func parseCallArgumentLiteral(c *cursor) (ast.Literal, error) {
	expr, err := parseInlineExpression(c)
	if err != nil {
		return nil, err
	}
	lit, ok := expr.(ast.Literal)
	if !ok {
		return nil, newError(E0032, c.line(), c.span(c.Position()), "")
	}
	return lit, nil
}

func parseStringLiteral(c *cursor) (ast.StringLiteral, error) {
	start := c.Position()
	if err := c.expectChar('"'); err != nil {
		return ast.StringLiteral{}, err
	}
	var sb strings.Builder
	for {
		if !c.HasRemaining() {
			return ast.StringLiteral{}, newError(E0020, c.line(), c.span(start), "EOF")
		}
		b := c.At()
		switch b {
		case '"':
			c.Inc(1)
			return ast.StringLiteral{Span: c.span(start), Value: sb.String()}, nil
		case '\n', '\r':
			return ast.StringLiteral{}, newError(E0020, c.line(), c.span(start), "")
		case '\\':
			c.Inc(1)
			if err := parseStringEscape(c, &sb); err != nil {
				return ast.StringLiteral{}, err
			}
		default:
			textStart := c.Position()
			for c.HasRemaining() && c.At() != '"' && c.At() != '\\' && c.At() != '\n' && c.At() != '\r' {
				c.Inc(1)
			}
			sb.WriteString(c.substring(textStart, c.Position()))
		}
	}
}

func parseStringEscape(c *cursor, sb *strings.Builder) error {
	if !c.HasRemaining() {
		return newError(E0025, c.line(), c.span(c.Position()), "EOF")
	}
	switch c.At() {
	case '\\':
		c.Inc(1)
		sb.WriteByte('\\')
		return nil
	case '"':
		c.Inc(1)
		sb.WriteByte('"')
		return nil
	case 'u':
		c.Inc(1)
		r, err := c.getUnicodeEscape(4)
		if err != nil {
			return err
		}
		sb.WriteRune(r)
		return nil
	case 'U':
		c.Inc(1)
		r, err := c.getUnicodeEscape(6)
		if err != nil {
			return err
		}
		sb.WriteRune(r)
		return nil
	default:
		return newError(E0025, c.line(), c.span(c.Position()), describeByte(c.At(), false))
	}
}

func parseNumberLiteral(c *cursor) (ast.NumberLiteral, error) {
	start := c.Position()
	if c.IsCurrentChar('-') {
		c.Inc(1)
	}
	for bytesx.IsDigit(c.At()) {
		c.Inc(1)
	}
	if c.IsCurrentChar('.') && bytesx.IsDigit(c.AtOffset(1)) {
		c.Inc(1)
		for bytesx.IsDigit(c.At()) {
			c.Inc(1)
		}
	}
	raw := c.substring(start, c.Position())
	n, ok := ast.ParseNumberLiteral(raw, start, c.Position())
	if !ok {
		return ast.NumberLiteral{}, newError(E0030, c.line(), c.span(start), raw)
	}
	return n, nil
}
