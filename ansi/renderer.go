// SPDX-License-Identifier: GPL-2.0-or-later

package ansi

import (
	"strings"

	"stmengine/pixel"
	"stmengine/sprite"
)

// Renderer is a double buffered diff renderer. Only cells that changed
// since the previous frame are written.
type Renderer struct {
	width, height int
	current       [][]Cell
	next          [][]Cell
	firstFrame    bool
}

// NewRenderer returns a renderer for a terminal of cols x rows cells.
func NewRenderer(cols, rows int) *Renderer {
	r := &Renderer{}
	r.Resize(cols, rows)
	return r
}

// Resize adjusts the renderer to a new terminal size. The next frame is
// written completely.
func (r *Renderer) Resize(cols, rows int) {
	r.width = max(cols, 0)
	r.height = max(rows, 0)
	r.current = r.makeBuffer()
	r.next = r.makeBuffer()
	r.firstFrame = true
}

func (r *Renderer) Size() (cols, rows int) {
	return r.width, r.height
}

// PixelSize returns the size of a sprite that fills the terminal.
func (r *Renderer) PixelSize() (w, h int) {
	return r.width, r.height * 2
}

func (r *Renderer) makeBuffer() [][]Cell {
	buf := make([][]Cell, r.height)
	for y := range buf {
		buf[y] = make([]Cell, r.width)
	}
	return buf
}

// Render returns the output that turns the previous frame into s. Pixel
// (x,y) of s ends up in column x and row y/2. Parts of s outside of the
// terminal are dropped, terminal cells outside of s are black.
func (r *Renderer) Render(s *sprite.Sprite) string {
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			r.next[y][x] = Cell{
				Top:    opaque(s, x, 2*y),
				Bottom: opaque(s, x, 2*y+1),
			}
		}
	}

	var sb strings.Builder
	sb.Grow(16384)

	lastRow, lastCol := -1, -1
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			nc := r.next[y][x]
			if r.firstFrame || nc != r.current[y][x] {
				// Only emit cursor position if not consecutive
				if y != lastRow || x != lastCol {
					sb.WriteString(MoveTo(y+1, x+1))
				}
				WriteCell(&sb, nc)
				lastRow = y
				lastCol = x + 1
			}
		}
	}
	if sb.Len() > 0 {
		sb.WriteString(Reset)
	}

	r.current, r.next = r.next, r.current
	r.firstFrame = false
	return sb.String()
}

func opaque(s *sprite.Sprite, x, y int) pixel.Pixel {
	if x >= s.Width() || y >= s.Height() {
		return pixel.Black
	}
	p := s.GetPixel(x, y)
	p.A = 255
	return p
}
