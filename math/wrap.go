// SPDX-License-Identifier: GPL-2.0-or-later

package math

// Wrap returns v modulo n in [0,n). n must be positive.
func Wrap(v, n int) int {
	r := v % n
	if r < 0 {
		r += n
	}
	return r
}

// Abs returns the absolute value of v.
func Abs[K Number](v K) K {
	if v < 0 {
		return -v
	}
	return v
}
