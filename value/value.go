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

// Package value is the runtime value model a resolved FTL pattern produces
// and consumes (spec 4.7): a small sealed set of kinds, modeled the same
// way as ast's sum types -- an unexported marker method restricting who can
// implement FluentValue.
package value

import (
	"fmt"
	"time"
)

// FluentValue is the sealed sum type of resolver runtime values:
// FluentString | FluentError | FluentNumber | FluentTemporal | FluentCustom.
type FluentValue interface {
	fluentValue()
	// String renders the value as it would appear in formatted output.
	String() string
}

// FluentString wraps a plain string value.
type FluentString struct {
	Value string
}

func (FluentString) fluentValue()    {}
func (s FluentString) String() string { return s.Value }

// FluentError is an inert marker carrying a human-readable description of a
// resolution failure. It participates in formatting like any other value
// (so a pattern with a failing sub-expression still produces output) but
// implicit selection always routes it to the default variant.
type FluentError struct {
	Value string
}

func (FluentError) fluentValue()    {}
func (e FluentError) String() string { return e.Value }

// FluentTemporal wraps a point in time.
type FluentTemporal struct {
	Value time.Time
}

func (FluentTemporal) fluentValue()    {}
func (t FluentTemporal) String() string { return t.Value.Format(time.RFC3339) }

// FluentCustom wraps an opaque host value neither string, number, nor
// temporal -- formatted via a registry custom formatter, or String.valueOf
// equivalent fallback (fmt.Sprint) if none matches.
type FluentCustom struct {
	Value interface{}
}

func (FluentCustom) fluentValue() {}
func (c FluentCustom) String() string {
	if s, ok := c.Value.(interface{ String() string }); ok {
		return s.String()
	}
	return fmt.Sprint(c.Value)
}
