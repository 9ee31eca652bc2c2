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
	"math/big"
	"strconv"
)

// NumberKind records which Go representation a FluentNumber holds, the
// same narrowest-fit rule ast.NumberLiteral uses for source literals (spec
// 4.7): integer-wide, floating-wide, or arbitrary-precision.
type NumberKind int

const (
	NumberInt NumberKind = iota
	NumberFloat
	NumberBig
)

// FluentNumber wraps a numeric value at the narrowest representation that
// can hold it exactly.
type FluentNumber struct {
	Kind NumberKind
	I    int64
	F    float64
	B    *big.Float
}

func (FluentNumber) fluentValue() {}

func (n FluentNumber) String() string {
	switch n.Kind {
	case NumberInt:
		return strconv.FormatInt(n.I, 10)
	case NumberFloat:
		return strconv.FormatFloat(n.F, 'f', -1, 64)
	case NumberBig:
		return n.B.Text('f', -1)
	}
	return ""
}

// Float64 widens the number to float64 regardless of Kind, for plural
// selection and other approximate-compare use sites.
func (n FluentNumber) Float64() float64 {
	switch n.Kind {
	case NumberInt:
		return float64(n.I)
	case NumberFloat:
		return n.F
	case NumberBig:
		f, _ := n.B.Float64()
		return f
	}
	return 0
}

// NewIntNumber constructs an integer-kind FluentNumber.
func NewIntNumber(i int64) FluentNumber { return FluentNumber{Kind: NumberInt, I: i} }

// NewFloatNumber constructs a float-kind FluentNumber.
func NewFloatNumber(f float64) FluentNumber { return FluentNumber{Kind: NumberFloat, F: f} }

// NewBigNumber constructs a big.Float-kind FluentNumber.
func NewBigNumber(b *big.Float) FluentNumber { return FluentNumber{Kind: NumberBig, B: b} }
