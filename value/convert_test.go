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

package value

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfCollection_Passthrough(t *testing.T) {
	got := OfCollection(FluentString{Value: "x"})
	require.Len(t, got, 1)
	assert.Equal(t, FluentString{Value: "x"}, got[0])
}

func TestOfCollection_ScalarDispatch(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want FluentValue
	}{
		{"string", "hi", FluentString{Value: "hi"}},
		{"int", 7, NewIntNumber(7)},
		{"int64", int64(9), NewIntNumber(9)},
		{"float64", 3.5, NewFloatNumber(3.5)},
		{"bytes", []byte("abc"), FluentString{Value: "abc"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := OfCollection(tc.in)
			require.Len(t, got, 1)
			assert.Equal(t, tc.want, got[0])
		})
	}
}

func TestOfCollection_Time(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	got := OfCollection(now)
	require.Len(t, got, 1)
	temporal, ok := got[0].(FluentTemporal)
	require.True(t, ok)
	assert.True(t, temporal.Value.Equal(now))
}

func TestOfCollection_Sequence(t *testing.T) {
	got := OfCollection([]int{1, 2, 3})
	require.Len(t, got, 3)
	assert.Equal(t, NewIntNumber(1), got[0])
	assert.Equal(t, NewIntNumber(3), got[2])
}

func TestOfCollection_NestedSequenceRejected(t *testing.T) {
	got := OfCollection([][]int{{1, 2}, {3, 4}})
	require.Len(t, got, 1)
	_, ok := got[0].(FluentError)
	assert.True(t, ok)
}

func TestOfCollection_Nil(t *testing.T) {
	got := OfCollection(nil)
	require.Len(t, got, 1)
	_, ok := got[0].(FluentError)
	assert.True(t, ok)
}

func TestOfCollection_CustomFallback(t *testing.T) {
	type widget struct{ ID int }
	got := OfCollection(widget{ID: 1})
	require.Len(t, got, 1)
	custom, ok := got[0].(FluentCustom)
	require.True(t, ok)
	assert.Equal(t, widget{ID: 1}, custom.Value)
}

func TestOfArguments(t *testing.T) {
	out := OfArguments(map[string]interface{}{
		"name":  "Bob",
		"count": 3,
	})
	require.Len(t, out["name"], 1)
	assert.Equal(t, FluentString{Value: "Bob"}, out["name"][0])
	require.Len(t, out["count"], 1)
	assert.Equal(t, NewIntNumber(3), out["count"][0])
}

func TestFluentNumber_String(t *testing.T) {
	assert.Equal(t, "42", NewIntNumber(42).String())
	assert.Equal(t, "3.5", NewFloatNumber(3.5).String())
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "x", Describe([]FluentValue{FluentString{Value: "x"}}))
	assert.NotEmpty(t, Describe([]FluentValue{NewIntNumber(1), NewIntNumber(2)}))
}
