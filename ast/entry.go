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

// Entry is the sealed sum type of top-level FTL entries: Message | Term |
// Comment (spec 3).
type Entry interface {
	Node
	entry()
}

// Attribute is a named sub-pattern attached to a Message or Term, e.g.
// `.ok = OK!`.
type Attribute struct {
	Span
	Name  Identifier
	Value Pattern
}

// CommentLevel distinguishes the three `#`/`##`/`###` comment levels
// (spec 3, 4.3).
type CommentLevel int

const (
	CommentRegular CommentLevel = iota + 1
	CommentGroup
	CommentResource
)

// Comment is a contiguous run of same-level comment lines, joined with '\n'
// (spec 4.3). It is itself a top-level Entry in extended parse mode, and
// may additionally be attached as a Message/Term's leading comment.
type Comment struct {
	Span
	Level CommentLevel
	Text  string
}

func (Comment) entry() {}

// Message is a consumer-facing, named entry. Invariant: Pattern != nil ||
// len(Attributes) > 0 (spec 3; enforced by the parser as E0005).
type Message struct {
	Span
	Name       Identifier
	Pattern    *Pattern
	Attributes []Attribute
	Comment    *Comment // leading comment, extended mode only
}

func (Message) entry() {}

// Term is a localization-private entry (`-name = ...`). Pattern is
// required (E0006).
type Term struct {
	Span
	Name       Identifier
	Pattern    Pattern
	Attributes []Attribute
	Comment    *Comment
}

func (Term) entry() {}

// Attr looks up a Message's or Term's attribute by name.
func (m Message) Attr(name string) (Attribute, bool) {
	for _, a := range m.Attributes {
		if a.Name.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

func (t Term) Attr(name string) (Attribute, bool) {
	for _, a := range t.Attributes {
		if a.Name.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}
