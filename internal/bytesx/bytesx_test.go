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

package bytesx

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allAccelerators() map[string]Accelerator {
	return map[string]Accelerator{
		"scalar": scalarAccelerator{},
		"swar":   swarAccelerator{},
		"simd":   simdAccelerator{},
	}
}

func padded(s string) []byte {
	return Pad([]byte(s))[:len(s)]
}

func TestAcceleratorEquivalence_NextLF(t *testing.T) {
	inputs := []string{
		"",
		"no newline here",
		"\n",
		"a\nb\nc\n",
		"\n\n\n\n\n\n\n\n\n\n",
		"aaaaaaaa\naaaaaaaa",
		"\r\n\r\n",
	}
	accs := allAccelerators()
	for _, in := range inputs {
		seq := padded(in)
		want := accs["scalar"].NextLF(seq, 0)
		for name, acc := range accs {
			got := acc.NextLF(seq, 0)
			assert.Equalf(t, want, got, "NextLF(%q) mismatch for %s", in, name)
		}
	}
}

func TestAcceleratorEquivalence_SkipBlank(t *testing.T) {
	inputs := []string{
		"",
		"     x",
		"\n\n\n\nx",
		"  \n  \n  x",
		"\r\nx",
		"\rx",       // unpaired CR: must NOT be skipped
		"        \r", // all-spaces then unpaired trailing CR
		"                x", // exactly two lanes of spaces
	}
	accs := allAccelerators()
	for _, in := range inputs {
		seq := padded(in)
		want := accs["scalar"].SkipBlank(seq, 0)
		for name, acc := range accs {
			got := acc.SkipBlank(seq, 0)
			assert.Equalf(t, want, got, "SkipBlank(%q) mismatch for %s", in, name)
		}
	}
}

func TestAcceleratorEquivalence_SkipBlankInline(t *testing.T) {
	inputs := []string{"", "   x", "        x", "x", "            "}
	accs := allAccelerators()
	for _, in := range inputs {
		seq := padded(in)
		want := accs["scalar"].SkipBlankInline(seq, 0)
		for name, acc := range accs {
			got := acc.SkipBlankInline(seq, 0)
			assert.Equalf(t, want, got, "SkipBlankInline(%q) mismatch for %s", in, name)
		}
	}
}

func TestAcceleratorEquivalence_IdentifierEnd(t *testing.T) {
	inputs := []string{"", "foo", "foo-bar_baz ", "f", "123abc", "averylongidentifier1234567890"}
	accs := allAccelerators()
	for _, in := range inputs {
		seq := padded(in)
		want := accs["scalar"].IdentifierEnd(seq, 0)
		for name, acc := range accs {
			got := acc.IdentifierEnd(seq, 0)
			assert.Equalf(t, want, got, "IdentifierEnd(%q) mismatch for %s", in, name)
		}
	}
}

func TestAcceleratorEquivalence_NextTextSliceTerminator(t *testing.T) {
	inputs := []string{"", "hello", "hello{world}", "hello\nworld", "hello\r\nworld", "aaaaaaaaaaaaaaaa}"}
	accs := allAccelerators()
	for _, in := range inputs {
		seq := padded(in)
		wantPos, wantTerm := accs["scalar"].NextTextSliceTerminator(seq, 0)
		for name, acc := range accs {
			gotPos, gotTerm := acc.NextTextSliceTerminator(seq, 0)
			assert.Equalf(t, wantPos, gotPos, "pos mismatch for %s on %q", name, in)
			assert.Equalf(t, wantTerm, gotTerm, "terminator mismatch for %s on %q", name, in)
		}
	}
}

// TestAcceleratorEquivalence_Random fuzzes all five primitives with random
// bytes and adversarial (all-spaces, all-LF, interleaved CR) inputs, per
// the "Accelerator equivalence" testable property in spec 8.
func TestAcceleratorEquivalence_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	accs := allAccelerators()
	alphabets := [][]byte{
		[]byte(" \n\r{}"),
		[]byte("abcXYZ019-_ \n"),
		[]byte(" "),
		[]byte("\n"),
		[]byte("\r\n"),
	}
	for trial := 0; trial < 500; trial++ {
		alphabet := alphabets[rng.Intn(len(alphabets))]
		n := rng.Intn(64)
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = alphabet[rng.Intn(len(alphabet))]
		}
		seq := Pad(buf)[:n]
		start := 0
		if n > 0 {
			start = rng.Intn(n)
		}

		wantLF := accs["scalar"].NextLF(seq, start)
		wantBlank := accs["scalar"].SkipBlank(seq, start)
		wantBlankInline := accs["scalar"].SkipBlankInline(seq, start)
		wantIdent := accs["scalar"].IdentifierEnd(seq, start)
		wantPos, wantTerm := accs["scalar"].NextTextSliceTerminator(seq, start)

		for name, acc := range accs {
			require.Equalf(t, wantLF, acc.NextLF(seq, start), "trial %d NextLF %s", trial, name)
			require.Equalf(t, wantBlank, acc.SkipBlank(seq, start), "trial %d SkipBlank %s", trial, name)
			require.Equalf(t, wantBlankInline, acc.SkipBlankInline(seq, start), "trial %d SkipBlankInline %s", trial, name)
			require.Equalf(t, wantIdent, acc.IdentifierEnd(seq, start), "trial %d IdentifierEnd %s", trial, name)
			gotPos, gotTerm := acc.NextTextSliceTerminator(seq, start)
			require.Equalf(t, wantPos, gotPos, "trial %d terminator pos %s", trial, name)
			require.Equalf(t, wantTerm, gotTerm, "trial %d terminator tag %s", trial, name)
		}
	}
}

func FuzzAcceleratorEquivalence(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("   \n\r\n  hello {world} \n"))
	f.Add([]byte("\r\r\r\r"))
	f.Add([]byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))
	f.Fuzz(func(t *testing.T, data []byte) {
		seq := Pad(data)[:len(data)]
		scalar := scalarAccelerator{}
		for _, acc := range []Accelerator{swarAccelerator{}, simdAccelerator{}} {
			if got := acc.NextLF(seq, 0); got != scalar.NextLF(seq, 0) {
				t.Fatalf("%s NextLF mismatch", acc.Name())
			}
			if got := acc.SkipBlank(seq, 0); got != scalar.SkipBlank(seq, 0) {
				t.Fatalf("%s SkipBlank mismatch", acc.Name())
			}
			if got := acc.SkipBlankInline(seq, 0); got != scalar.SkipBlankInline(seq, 0) {
				t.Fatalf("%s SkipBlankInline mismatch", acc.Name())
			}
			if got := acc.IdentifierEnd(seq, 0); got != scalar.IdentifierEnd(seq, 0) {
				t.Fatalf("%s IdentifierEnd mismatch", acc.Name())
			}
		}
	})
}

func TestPositionToLine(t *testing.T) {
	data := []byte("a\nbb\nccc")
	assert.Equal(t, 1, PositionToLine(data, 0))
	assert.Equal(t, 1, PositionToLine(data, 1))
	assert.Equal(t, 2, PositionToLine(data, 2))
	assert.Equal(t, 3, PositionToLine(data, 5))
	assert.Equal(t, 0, PositionToLine(data, len(data)))
	assert.Equal(t, 0, PositionToLine(data, -1))
}

func TestSelect(t *testing.T) {
	require.Equal(t, "scalar", Select(Scalar).Name())
	require.Equal(t, "swar", Select(SWAR).Name())
	got := Select(Auto).Name()
	require.Contains(t, []string{"swar", "simd"}, got)
}
