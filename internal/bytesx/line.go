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

// PositionToLine returns the 1-based line number containing byte offset p
// in data, or 0 if p is out of range (including p == len(data), which
// denotes EOF per spec 4.1). Used only for diagnostics -- the parser
// itself never branches on line number.
func PositionToLine(data []byte, p int) int {
	if p < 0 || p >= len(data) {
		return 0
	}
	line := 1
	for i := 0; i < p; i++ {
		if data[i] == '\n' {
			line++
		}
	}
	return line
}
