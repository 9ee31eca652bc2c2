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

import "fmt"

// ReferenceError reports an unknown message, term, attribute, variable, or
// function, or a message with no value (spec 7).
type ReferenceError struct {
	Kind string // "message" | "term" | "attribute" | "variable" | "function" | "value"
	Name string
}

func (e ReferenceError) Error() string {
	return fmt.Sprintf("unknown %s: %s", e.Kind, e.Name)
}

// CyclicError reports an attempted re-entry into an in-progress pattern.
type CyclicError struct {
	Key string
}

func (e CyclicError) Error() string {
	return fmt.Sprintf("cyclic reference detected: %s", e.Key)
}

// TooManyPlaceablesError reports that a single format call exceeded
// MAX_PLACEABLES expansions.
type TooManyPlaceablesError struct {
	Max int
}

func (e TooManyPlaceablesError) Error() string {
	return fmt.Sprintf("too many placeables expanded (max %d)", e.Max)
}

// FunctionError wraps a function implementation's own error, or the
// "unknown function" case, with the function's name (spec 7: rendered
// inline as "{NAME(): message}").
type FunctionError struct {
	Name string
	Err  error
}

func (e FunctionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unknown function: %s", e.Name)
	}
	return fmt.Sprintf("%s(): %v", e.Name, e.Err)
}

func (e FunctionError) Unwrap() error { return e.Err }
