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
	"fmt"
	"math/big"
	"reflect"
	"time"
)

// OfCollection converts a user-supplied Go argument into the resolver's
// native representation: a list of FluentValue (spec 4.7). A FluentValue
// argument passes through unchanged; a slice or array is mapped
// element-wise (a nested slice/array raises, becoming a single FluentError
// result); anything else is wrapped by type dispatch (string, number,
// time.Time, or opaque custom).
func OfCollection(v interface{}) []FluentValue {
	if v == nil {
		return []FluentValue{FluentError{Value: "argument is nil"}}
	}
	if fv, ok := v.(FluentValue); ok {
		return []FluentValue{fv}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			// []byte is treated as a string, not a sequence.
			break
		}
		out := make([]FluentValue, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i).Interface()
			ev := reflect.ValueOf(elem)
			if ev.IsValid() && (ev.Kind() == reflect.Slice || ev.Kind() == reflect.Array) {
				return []FluentValue{FluentError{Value: "nested sequence is not a valid argument"}}
			}
			out = append(out, ofScalar(elem))
		}
		return out
	}
	return []FluentValue{ofScalar(v)}
}

func ofScalar(v interface{}) FluentValue {
	if fv, ok := v.(FluentValue); ok {
		return fv
	}
	switch t := v.(type) {
	case string:
		return FluentString{Value: t}
	case []byte:
		return FluentString{Value: string(t)}
	case int:
		return NewIntNumber(int64(t))
	case int8:
		return NewIntNumber(int64(t))
	case int16:
		return NewIntNumber(int64(t))
	case int32:
		return NewIntNumber(int64(t))
	case int64:
		return NewIntNumber(t)
	case uint:
		return NewIntNumber(int64(t))
	case uint8:
		return NewIntNumber(int64(t))
	case uint16:
		return NewIntNumber(int64(t))
	case uint32:
		return NewIntNumber(int64(t))
	case uint64:
		return NewIntNumber(int64(t))
	case float32:
		return NewFloatNumber(float64(t))
	case float64:
		return NewFloatNumber(t)
	case *big.Float:
		return NewBigNumber(t)
	case *big.Int:
		return NewBigNumber(new(big.Float).SetInt(t))
	case time.Time:
		return FluentTemporal{Value: t}
	case *time.Time:
		return FluentTemporal{Value: *t}
	default:
		return FluentCustom{Value: v}
	}
}

// OfArguments converts a plain map[string]any argument map (the public
// Bundle.Format surface) into the resolver's map[string][]FluentValue.
func OfArguments(args map[string]interface{}) map[string][]FluentValue {
	out := make(map[string][]FluentValue, len(args))
	for k, v := range args {
		out[k] = OfCollection(v)
	}
	return out
}

// Describe renders a FluentValue list for diagnostics (e.g. an unresolved
// function-argument dump); not used on any formatting hot path.
func Describe(vs []FluentValue) string {
	if len(vs) == 1 {
		return vs[0].String()
	}
	return fmt.Sprintf("%v", vs)
}
