// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	"testing"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		v, n, want int
	}{
		{0, 4, 0},
		{3, 4, 3},
		{4, 4, 0},
		{9, 4, 1},
		{-1, 4, 3},
		{-4, 4, 0},
		{-9, 4, 3},
	}
	for _, test := range tests {
		if got := Wrap(test.v, test.n); got != test.want {
			t.Errorf("Wrap(%d,%d) = %d, want %d", test.v, test.n, got, test.want)
		}
	}
}

func TestAbs(t *testing.T) {
	if v := Abs(-3); v != 3 {
		t.Errorf("Abs(-3) = %v", v)
	}
	if v := Abs(float32(2.5)); v != 2.5 {
		t.Errorf("Abs(2.5) = %v", v)
	}
}
