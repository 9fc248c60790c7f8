// SPDX-License-Identifier: GPL-2.0-or-later

package font

import (
	"testing"

	"stmengine/pixel"
)

func glyphPixels(r rune) int {
	a := Atlas()
	cx, cy := Cell(r)
	n := 0
	for y := 0; y < CellHeight; y++ {
		for x := 0; x < CellWidth; x++ {
			if a.GetPixel(cx+x, cy+y).R > 0 {
				n++
			}
		}
	}
	return n
}

func TestAtlas(t *testing.T) {
	a := Atlas()
	if a != Atlas() {
		t.Errorf("Atlas is rebuilt")
	}
	if a.Width() != Columns*CellWidth || a.Height() != 6*CellHeight {
		t.Errorf("atlas size = %dx%d", a.Width(), a.Height())
	}
	if n := glyphPixels(' '); n != 0 {
		t.Errorf("space has %d pixels", n)
	}
	for _, r := range "A~0#" {
		if n := glyphPixels(r); n == 0 {
			t.Errorf("%q has no pixels", r)
		}
	}
	for _, p := range a.Data() {
		if p != pixel.Blank && p != pixel.White {
			t.Fatalf("atlas pixel %v", p)
		}
	}
}

func TestCell(t *testing.T) {
	tests := []struct {
		r    rune
		x, y int
	}{
		{' ', 0, 0},
		{'!', 7, 0},
		{'0', 0, 13},
		{'~', 14 * 7, 5 * 13},
	}
	for _, test := range tests {
		if x, y := Cell(test.r); x != test.x || y != test.y {
			t.Errorf("Cell(%q) = %d,%d, want %d,%d", test.r, x, y, test.x, test.y)
		}
	}
}

func TestSupported(t *testing.T) {
	for _, r := range []rune{'\n', '\t', 0x7f, 'é', '€'} {
		if Supported(r) {
			t.Errorf("Supported(%q) = true", r)
		}
	}
	if !Supported('a') {
		t.Errorf("Supported('a') = false")
	}
}

func TestFold(t *testing.T) {
	tests := map[string]string{
		"abc":      "abc",
		"Café":     "Cafe",
		"Ångström": "Angstrom",
		"a\nb":     "a\nb",
		"€":        "€",
	}
	for in, want := range tests {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}
