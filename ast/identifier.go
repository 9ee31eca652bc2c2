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

// Identifier is a validated FTL identifier: [A-Za-z][A-Za-z0-9_-]*.
//
// Unlike protocompile's Identifier (a type alias over protoreflect.Name for
// possibly-qualified names), FTL identifiers are never qualified -- dots
// only ever separate a message/term name from an attribute name, which this
// package models as two separate Identifiers rather than one compound name.
type Identifier struct {
	Span
	Name string
}

// NewIdentifier constructs an Identifier node. The caller is responsible for
// validating Name against the grammar; use ValidIdentifier to check.
func NewIdentifier(name string, from, to int) Identifier {
	return Identifier{Span: NewSpan(from, to), Name: name}
}

// ValidIdentifier reports whether s matches [A-Za-z][A-Za-z0-9_-]*.
func ValidIdentifier(s string) bool {
	if len(s) == 0 {
		return false
	}
	c := s[0]
	if !((c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' || c == '-' {
			continue
		}
		return false
	}
	return true
}

// ValidFunctionName reports whether s matches the FunctionReference name
// grammar (spec 4.5): all-uppercase letters plus '-', '_', and digits, with
// an uppercase first character.
func ValidFunctionName(s string) bool {
	if len(s) == 0 {
		return false
	}
	if s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}
