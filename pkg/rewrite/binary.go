// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rewrite

import (
	"bytes"
	"os"
)

// sniffBlockSize is the read block size for binary detection.
const sniffBlockSize = 1024

// IsBinary reports whether the file at path contains a NUL byte, reading
// in fixed-size blocks until EOF. Unreadable files are reported as text
// (fail open) so the rewriter attempts them and surfaces the error there.
func IsBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, sniffBlockSize)
	for {
		n, err := f.Read(buf)
		if n > 0 && bytes.IndexByte(buf[:n], 0) >= 0 {
			return true
		}
		if err != nil {
			return false
		}
	}
}
