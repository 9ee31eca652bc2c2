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

// Package ast defines the abstract syntax tree produced by parsing an FTL
// (Fluent Translation List) resource. Nodes are plain, immutable Go values;
// there is no mutation API. Variant node kinds (Entry, Expression,
// PatternElement, Literal) are modeled as sealed interfaces: each has an
// unexported marker method so that only types declared in this package can
// implement it, giving callers an exhaustive switch instead of a fragile
// type hierarchy.
package ast

// Node is implemented by every AST node that is backed by a contiguous
// range of source bytes. Start and End are byte offsets into the original
// source, with End exclusive, i.e. the node's text is source[Start():End()].
type Node interface {
	Start() int
	End() int
}

// Span is a concrete, reusable implementation of Node embedded by AST
// nodes that don't need to compute their range from children.
type Span struct {
	from, to int
}

// NewSpan returns a Span over [from, to). Panics if to < from.
func NewSpan(from, to int) Span {
	if to < from {
		panic("ast: invalid span")
	}
	return Span{from: from, to: to}
}

func (s Span) Start() int { return s.from }
func (s Span) End() int   { return s.to }

// union returns the smallest span covering both a and b.
func union(a, b Node) Span {
	start := a.Start()
	if b.Start() < start {
		start = b.Start()
	}
	end := a.End()
	if b.End() > end {
		end = b.End()
	}
	return Span{from: start, to: end}
}
