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
	"encoding/binary"
	"math/bits"
)

// swarAccelerator scans 8 bytes at a time ("SIMD within a register") using
// the classic bit-trick for detecting a zero byte in a word:
//
//	haszero(v) = (v - 0x0101...01) & ^v & 0x8080...80 != 0
//
// applied to v XOR broadcast(target) to test for byte equality. Each lane
// is first tested as a whole (cheap); only a lane that actually contains
// the byte(s) of interest is rescanned byte-by-byte to pinpoint the exact
// index. This requires the 8-byte 0xFF trailing pad (spec 4.1, 9): pad
// bytes never equal any byte this package searches for, so a lane read
// that runs past the logical end of seq can never produce a false match,
// and every returned index is still clamped to len(seq) defensively.
//
// seq must have been built via Pad (or otherwise have at least 8 bytes of
// addressable capacity beyond len(seq)); lane reads use seq[:cap(seq)] to
// reach that capacity without extending the slice's reported length.
type swarAccelerator struct{}

func (swarAccelerator) Name() string { return "swar" }

const (
	loBits = 0x0101010101010101
	hiBits = 0x8080808080808080
)

func hasZeroByte(v uint64) bool {
	return (v-loBits)&^v&hiBits != 0
}

// firstZeroByteIndex returns the byte index (0-7, little-endian) of the
// first zero byte in v. Caller must have already confirmed hasZeroByte(v).
func firstZeroByteIndex(v uint64) int {
	masked := (v - loBits) & ^v & hiBits
	return bits.TrailingZeros64(masked) / 8
}

func loadLane(seq []byte, i int) uint64 {
	full := seq[:cap(seq)]
	return binary.LittleEndian.Uint64(full[i : i+8])
}

func broadcast(b byte) uint64 {
	return loBits * uint64(b)
}

func (swarAccelerator) NextLF(seq []byte, start int) int {
	needle := broadcast('\n')
	i := start
	for i+8 <= len(seq) {
		v := loadLane(seq, i) ^ needle
		if hasZeroByte(v) {
			return i + firstZeroByteIndex(v)
		}
		i += 8
	}
	return scalarAccelerator{}.NextLF(seq, i)
}

func (swarAccelerator) SkipBlankInline(seq []byte, start int) int {
	needle := broadcast(' ')
	i := start
	for i+8 <= len(seq) {
		v := loadLane(seq, i) ^ needle
		if v != 0 {
			// lane isn't entirely spaces; pinpoint within it
			return scalarAccelerator{}.SkipBlankInline(seq[:i+8], i)
		}
		i += 8
	}
	return scalarAccelerator{}.SkipBlankInline(seq, i)
}

func (swarAccelerator) SkipBlank(seq []byte, start int) int {
	i := start
	for i+8 <= len(seq) {
		v := loadLane(seq, i)
		if laneAllSpaceOrLF(v) {
			i += 8
			continue
		}
		// lane has a non-{space,LF} byte (possibly '\r'); hand off the
		// rest to scalar, which implements the \r\n pairing rule exactly
		// and can't straddle a lane boundary incorrectly.
		return scalarAccelerator{}.SkipBlank(seq, i)
	}
	return scalarAccelerator{}.SkipBlank(seq, i)
}

// laneAllSpaceOrLF reports whether every byte in v is 0x20 or 0x0A, using
// the same zero-byte trick against each candidate value, combined with OR.
func laneAllSpaceOrLF(v uint64) bool {
	isSpace := v ^ broadcast(' ')
	isLF := v ^ broadcast('\n')
	// a byte lane is "space or LF" everywhere iff, for every byte position,
	// at least one of isSpace/isLF has a zero byte there.
	return bytewiseOr(zeroMask(isSpace), zeroMask(isLF)) == hiBits
}

// zeroMask returns, for each byte of v, 0x80 if that byte is zero, else 0.
func zeroMask(v uint64) uint64 {
	const lo7 = 0x7F7F7F7F7F7F7F7F
	return ^(((v & lo7) + lo7) | v | lo7)
}

func bytewiseOr(a, b uint64) uint64 { return a | b }

func (a swarAccelerator) IsBlank(seq []byte, start, end int) bool {
	return a.SkipBlank(seq[:end], start) == end
}

func (swarAccelerator) IdentifierEnd(seq []byte, start int) int {
	if start >= len(seq) || !IsAlpha(seq[start]) {
		return start
	}
	i := start + 1
	for i+8 <= len(seq) {
		v := loadLane(seq, i)
		if laneAllIDPart(v) {
			i += 8
			continue
		}
		return scalarAccelerator{}.IdentifierEnd(seq[:i+8], start)
	}
	return scalarAccelerator{}.IdentifierEnd(seq, start)
}

// laneAllIDPart reports whether every byte in v is in [A-Za-z0-9_-]. There
// is no single-instruction trick for a 6-way class test, so this checks
// each byte; it is still only invoked once per 8 bytes rather than once
// per byte, the same "test the lane, confirm the byte" shape as the rest
// of this file.
func laneAllIDPart(v uint64) bool {
	for shift := 0; shift < 64; shift += 8 {
		b := byte(v >> shift)
		if !IsIDPart(b) {
			return false
		}
	}
	return true
}

func (swarAccelerator) NextTextSliceTerminator(seq []byte, start int) (int, Terminator) {
	i := start
	for i+8 <= len(seq) {
		v := loadLane(seq, i)
		if laneHasAnyTerminator(v) {
			return scalarAccelerator{}.NextTextSliceTerminator(seq, i)
		}
		i += 8
	}
	return scalarAccelerator{}.NextTextSliceTerminator(seq, i)
}

func laneHasAnyTerminator(v uint64) bool {
	return hasZeroByte(v^broadcast('\n')) ||
		hasZeroByte(v^broadcast('\r')) ||
		hasZeroByte(v^broadcast('{')) ||
		hasZeroByte(v^broadcast('}'))
}
