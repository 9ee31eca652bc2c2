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

import "runtime"

// simdAccelerator processes two 8-byte SWAR lanes (16 bytes) per step, the
// widest lane size this pure-Go implementation can move with simple
// integer ops. A platform with a real vector unit (amd64, arm64) would use
// cgo/assembly intrinsics -- e.g. golang.org/x/sys/cpu feature detection
// feeding into AVX2/NEON byte-compare-and-movemask sequences -- for an
// actual hardware vector width; this package's simdAccelerator stands in
// for that contract without the assembly, doubling SWAR's stride and
// delegating tail handling to the SWAR implementation, so callers never
// see a difference beyond throughput.
//
// Same precondition as SWAR: seq must carry an 8-byte 0xFF pad reachable
// via seq[:cap(seq)] (16 bytes of true slack would be stricter, but since
// each 16-byte step internally re-uses the SWAR per-8-byte zero-byte test,
// 8 bytes of pad remains sufficient).
type simdAccelerator struct{}

func (simdAccelerator) Name() string { return "simd" }

func simdSupported() bool {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return true
	default:
		return false
	}
}

func (simdAccelerator) NextLF(seq []byte, start int) int {
	needle := broadcast('\n')
	i := start
	for i+16 <= len(seq) {
		v0 := loadLane(seq, i) ^ needle
		v1 := loadLane(seq, i+8) ^ needle
		if hasZeroByte(v0) {
			return i + firstZeroByteIndex(v0)
		}
		if hasZeroByte(v1) {
			return i + 8 + firstZeroByteIndex(v1)
		}
		i += 16
	}
	return swarAccelerator{}.NextLF(seq, i)
}

func (simdAccelerator) SkipBlankInline(seq []byte, start int) int {
	needle := broadcast(' ')
	i := start
	for i+16 <= len(seq) {
		v0 := loadLane(seq, i) ^ needle
		v1 := loadLane(seq, i+8) ^ needle
		if v0 != 0 || v1 != 0 {
			return swarAccelerator{}.SkipBlankInline(seq, i)
		}
		i += 16
	}
	return swarAccelerator{}.SkipBlankInline(seq, i)
}

func (simdAccelerator) SkipBlank(seq []byte, start int) int {
	i := start
	for i+16 <= len(seq) {
		v0 := loadLane(seq, i)
		v1 := loadLane(seq, i+8)
		if laneAllSpaceOrLF(v0) && laneAllSpaceOrLF(v1) {
			i += 16
			continue
		}
		return swarAccelerator{}.SkipBlank(seq, i)
	}
	return swarAccelerator{}.SkipBlank(seq, i)
}

func (a simdAccelerator) IsBlank(seq []byte, start, end int) bool {
	return a.SkipBlank(seq[:end], start) == end
}

func (simdAccelerator) IdentifierEnd(seq []byte, start int) int {
	if start >= len(seq) || !IsAlpha(seq[start]) {
		return start
	}
	i := start + 1
	for i+16 <= len(seq) {
		v0 := loadLane(seq, i)
		v1 := loadLane(seq, i+8)
		if laneAllIDPart(v0) && laneAllIDPart(v1) {
			i += 16
			continue
		}
		return swarAccelerator{}.IdentifierEnd(seq, start)
	}
	return swarAccelerator{}.IdentifierEnd(seq, start)
}

func (simdAccelerator) NextTextSliceTerminator(seq []byte, start int) (int, Terminator) {
	i := start
	for i+16 <= len(seq) {
		v0 := loadLane(seq, i)
		v1 := loadLane(seq, i+8)
		if laneHasAnyTerminator(v0) || laneHasAnyTerminator(v1) {
			return swarAccelerator{}.NextTextSliceTerminator(seq, i)
		}
		i += 16
	}
	return swarAccelerator{}.NextTextSliceTerminator(seq, i)
}
