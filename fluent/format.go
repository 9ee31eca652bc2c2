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
	"fmt"

	"github.com/xyzsd/fluent-go/ast"
	"github.com/xyzsd/fluent-go/resolver"
	"github.com/xyzsd/fluent-go/value"
)

// Format resolves message id against args and renders it to a string.
// Resolution never panics or returns an error: a missing message,
// attribute, or sub-expression is replaced by an inline error marker and
// recorded as an exception routed to the bundle's logger (spec 6, 7).
func (b *Bundle) Format(id string, args map[string]interface{}) string {
	return b.doFormat(id, "", args)
}

// FormatAttribute resolves message id's attribute attr against args.
func (b *Bundle) FormatAttribute(id, attr string, args map[string]interface{}) string {
	return b.doFormat(id, attr, args)
}

// PatternFormat resolves an arbitrary pattern (not necessarily one stored
// under a message/term name in this bundle) against args, using this
// bundle's registry, cache, locale, and isolation setting.
func (b *Bundle) PatternFormat(p *ast.Pattern, args map[string]interface{}) string {
	scope := resolver.NewScope(b, value.OfArguments(args), b.functionOptions, b.maxPlaceables)
	result := resolver.FormatPattern(p, scope)
	b.report("", "", scope.Exceptions())
	return result
}

func (b *Bundle) doFormat(id, attr string, args map[string]interface{}) string {
	scope := resolver.NewScope(b, value.OfArguments(args), b.functionOptions, b.maxPlaceables)

	var result string
	msg, ok := b.Message(id)
	switch {
	case !ok:
		scope.AddException(resolver.ReferenceError{Kind: "message", Name: id})
		result = fmt.Sprintf("{%s}", id)
	case attr == "":
		if msg.Pattern == nil {
			scope.AddException(resolver.ReferenceError{Kind: "value", Name: id})
			result = fmt.Sprintf("{No pattern specified for message: '%s'}", id)
		} else {
			result = resolver.FormatPattern(msg.Pattern, scope)
		}
	default:
		a, ok := msg.Attr(attr)
		if !ok {
			scope.AddException(resolver.ReferenceError{Kind: "attribute", Name: id + "." + attr})
			result = fmt.Sprintf("{%s.%s}", id, attr)
		} else {
			result = resolver.FormatPattern(&a.Value, scope)
		}
	}

	b.report(id, attr, scope.Exceptions())
	return result
}

func (b *Bundle) report(id, attr string, exceptions []error) {
	if len(exceptions) == 0 || b.logger == nil {
		return
	}
	b.logger(ErrorContext{
		MessageID:   id,
		AttributeID: attr,
		Locale:      b.locale,
		Exceptions:  exceptions,
	})
}

// Request is the fluent builder variant of the format API (spec 6): chain
// Attribute/Argument/Arguments to configure the call, then terminate with
// Format or one of the OrElse* fallback variants.
type Request struct {
	bundle *Bundle
	id     string
	attr   string
	args   map[string]interface{}
}

// NewRequest starts a Request for message id.
func (b *Bundle) NewRequest(id string) *Request {
	return &Request{bundle: b, id: id, args: map[string]interface{}{}}
}

// Attribute selects an attribute of the message instead of its value.
func (r *Request) Attribute(name string) *Request {
	r.attr = name
	return r
}

// Argument binds a single named argument.
func (r *Request) Argument(name string, v interface{}) *Request {
	r.args[name] = v
	return r
}

// Arguments merges m into the request's argument map.
func (r *Request) Arguments(m map[string]interface{}) *Request {
	for k, v := range m {
		r.args[k] = v
	}
	return r
}

// Format resolves and renders the request, exactly like Bundle.Format.
func (r *Request) Format() string {
	return r.bundle.doFormat(r.id, r.attr, r.args)
}

// found reports whether the requested message exists and has a value (or,
// when an attribute is requested, whether that attribute exists), independent of whether any placeable inside it fails to
// resolve -- the distinction OrElse/OrElseGet/OrElseThrow need to decide
// between "no such message" and "message resolved, imperfectly."
func (r *Request) found() bool {
	msg, ok := r.bundle.Message(r.id)
	if !ok {
		return false
	}
	if r.attr == "" {
		return msg.Pattern != nil
	}
	_, ok = msg.Attr(r.attr)
	return ok
}

// OrElse returns fallback in place of rendering when the message (or
// attribute) doesn't exist at all.
func (r *Request) OrElse(fallback string) string {
	if !r.found() {
		return fallback
	}
	return r.Format()
}

// OrElseGet lazily produces a fallback, for when computing it isn't free.
func (r *Request) OrElseGet(supplier func() string) string {
	if !r.found() {
		return supplier()
	}
	return r.Format()
}

// OrElseThrow returns supplier() as an error in place of rendering when
// the message (or attribute) doesn't exist.
func (r *Request) OrElseThrow(supplier func() error) (string, error) {
	if !r.found() {
		return "", supplier()
	}
	return r.Format(), nil
}
