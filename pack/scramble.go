// SPDX-License-Identifier: GPL-2.0-or-later

package pack

import (
	"math/bits"
)

// The payload is stored scrambled. This keeps casual viewers from reading
// the files, it is not encryption.

func scramble(b []byte, key byte) {
	for i, c := range b {
		b[i] = bits.RotateLeft8(c^key, 3)
	}
}

func unscramble(b []byte, key byte) {
	for i, c := range b {
		b[i] = bits.RotateLeft8(c, -3) ^ key
	}
}
