// SPDX-License-Identifier: GPL-2.0-or-later

// Package font builds the fixed cell font atlas used for text drawing.
package font

import (
	"sync"
	"unicode"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"stmengine/pixel"
	"stmengine/sprite"
)

const (
	// CellWidth and CellHeight are the size of one glyph cell in the atlas.
	CellWidth  = 7
	CellHeight = 13
	// Columns is the number of cells per atlas row.
	Columns = 16

	first = ' '
	last  = '~'
	count = int(last-first) + 1
)

var (
	atlasOnce sync.Once
	atlas     *sprite.Sprite
)

// Atlas returns the shared atlas. It is built on first use and must be
// treated as read only.
func Atlas() *sprite.Sprite {
	atlasOnce.Do(func() {
		atlas = NewAtlas()
	})
	return atlas
}

// NewAtlas renders the printable ASCII range of basicfont.Face7x13 into a
// sprite. Set pixels are opaque white, everything else is blank.
func NewAtlas() *sprite.Sprite {
	face := basicfont.Face7x13
	rows := (count + Columns - 1) / Columns
	s := sprite.New(Columns*CellWidth, rows*CellHeight)
	for i := range s.Data() {
		s.Data()[i] = pixel.Blank
	}
	for r := rune(first); r <= last; r++ {
		idx, ok := maskIndex(face, r)
		if !ok {
			continue
		}
		cx, cy := Cell(r)
		for y := 0; y < face.Height; y++ {
			for x := 0; x < face.Width; x++ {
				if _, _, _, a := face.Mask.At(x, idx*face.Height+y).RGBA(); a > 0 {
					s.SetPixel(cx+x, cy+y, pixel.White)
				}
			}
		}
	}
	return s
}

func maskIndex(f *basicfont.Face, r rune) (int, bool) {
	for _, rr := range f.Ranges {
		if rr.Low <= r && r < rr.High {
			return int(r-rr.Low) + rr.Offset, true
		}
	}
	return 0, false
}

// Supported reports whether r has a glyph in the atlas.
func Supported(r rune) bool {
	return r >= first && r <= last
}

// Cell returns the top left corner of the glyph cell for r. The result is
// only meaningful if Supported(r).
func Cell(r rune) (x, y int) {
	i := int(r - first)
	return (i % Columns) * CellWidth, (i / Columns) * CellHeight
}

// Fold maps text onto the atlas character set: accents are stripped so that
// "é" draws as "e". Runes without an ASCII base are kept and later skipped
// by the text drawing.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	r, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return r
}
