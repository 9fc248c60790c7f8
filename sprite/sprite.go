// SPDX-License-Identifier: GPL-2.0-or-later

// Package sprite implements the owned pixel buffers everything is drawn into
// and sampled from.
package sprite

import (
	"image"

	"github.com/chewxy/math32"

	simage "stmengine/image"
	emath "stmengine/math"
	"stmengine/pixel"
)

// Mode controls how coordinates outside of the sprite are resolved.
type Mode int

const (
	// NORMAL returns pixel.Blank for coordinates outside the sprite.
	NORMAL Mode = iota
	// PERIODIC wraps coordinates into the sprite.
	PERIODIC
)

// Sprite is a width*height buffer of pixels, row major, origin top left.
type Sprite struct {
	width  int
	height int
	data   []pixel.Pixel
	mode   Mode
}

// New returns a sprite of the given size filled with opaque black.
// Negative sizes are treated as 0.
func New(w, h int) *Sprite {
	s := &Sprite{}
	s.Resize(w, h)
	return s
}

func (s *Sprite) Width() int {
	return s.width
}

func (s *Sprite) Height() int {
	return s.height
}

// Data returns the pixel buffer. It is shared with the sprite.
func (s *Sprite) Data() []pixel.Pixel {
	return s.data
}

// Resize reallocates the buffer. All pixels are reset to opaque black.
func (s *Sprite) Resize(w, h int) {
	w = max(w, 0)
	h = max(h, 0)
	s.width = w
	s.height = h
	s.data = make([]pixel.Pixel, w*h)
	def := pixel.Default()
	for i := range s.data {
		s.data[i] = def
	}
}

func (s *Sprite) SetSampleMode(m Mode) {
	s.mode = m
}

func (s *Sprite) SampleMode() Mode {
	return s.mode
}

// GetPixel never fails. Outside of the sprite it returns pixel.Blank in
// NORMAL mode and wraps the coordinates in PERIODIC mode.
func (s *Sprite) GetPixel(x, y int) pixel.Pixel {
	if x >= 0 && x < s.width && y >= 0 && y < s.height {
		return s.data[y*s.width+x]
	}
	if s.mode == PERIODIC && s.width > 0 && s.height > 0 {
		return s.data[emath.Wrap(y, s.height)*s.width+emath.Wrap(x, s.width)]
	}
	return pixel.Blank
}

// SetPixel returns false and leaves the sprite untouched if (x,y) is outside.
func (s *Sprite) SetPixel(x, y int, p pixel.Pixel) bool {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return false
	}
	s.data[y*s.width+x] = p
	return true
}

// Sample returns the pixel at the normalized position (u,v). The position is
// clamped into the sprite regardless of the sample mode.
func (s *Sprite) Sample(u, v float32) pixel.Pixel {
	if s.width == 0 || s.height == 0 {
		return pixel.Blank
	}
	sx := emath.Clamp(0, int(math32.Floor(u*float32(s.width))), s.width-1)
	sy := emath.Clamp(0, int(math32.Floor(v*float32(s.height))), s.height-1)
	return s.GetPixel(sx, sy)
}

// SampleBL returns the bilinear interpolation of the 4 pixels around the
// normalized position (u,v). Pixel (x,y) sits at (x/width,y/height) so a
// grid position returns exactly what Sample returns.
func (s *Sprite) SampleBL(u, v float32) pixel.Pixel {
	if s.width == 0 || s.height == 0 {
		return pixel.Blank
	}
	tx := u * float32(s.width)
	ty := v * float32(s.height)
	fx := math32.Floor(tx)
	fy := math32.Floor(ty)
	ur := tx - fx
	vr := ty - fy
	x0, y0 := int(fx), int(fy)
	x1, y1 := x0+1, y0+1
	if s.mode == NORMAL {
		x0 = emath.Clamp(0, x0, s.width-1)
		x1 = emath.Clamp(0, x1, s.width-1)
		y0 = emath.Clamp(0, y0, s.height-1)
		y1 = emath.Clamp(0, y1, s.height-1)
	}
	p1 := s.GetPixel(x0, y0)
	p2 := s.GetPixel(x1, y0)
	p3 := s.GetPixel(x0, y1)
	p4 := s.GetPixel(x1, y1)
	mix := func(a, b, c, d uint8) uint8 {
		top := float32(a)*(1-ur) + float32(b)*ur
		bottom := float32(c)*(1-ur) + float32(d)*ur
		return uint8(emath.Clamp(0, math32.Floor(top*(1-vr)+bottom*vr+0.5), 255))
	}
	return pixel.RGBA(
		mix(p1.R, p2.R, p3.R, p4.R),
		mix(p1.G, p2.G, p3.G, p4.G),
		mix(p1.B, p2.B, p3.B, p4.B),
		mix(p1.A, p2.A, p3.A, p4.A))
}

// Clone returns a deep copy.
func (s *Sprite) Clone() *Sprite {
	c := *s
	c.data = append([]pixel.Pixel(nil), s.data...)
	return &c
}

// Image returns a copy of the sprite as image.
func (s *Sprite) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, s.width, s.height))
	for i, p := range s.data {
		copy(img.Pix[i*4:], []uint8{p.R, p.G, p.B, p.A})
	}
	return img
}

// FromImage copies i into a new sprite.
func FromImage(i image.Image) *Sprite {
	n := simage.NRGBA(i)
	b := n.Bounds()
	s := New(b.Dx(), b.Dy())
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			c := n.NRGBAAt(x, y)
			s.data[y*s.width+x] = pixel.RGBA(c.R, c.G, c.B, c.A)
		}
	}
	return s
}

// Resampled returns a new sprite of size w x h using nearest neighbour
// scaling. The sample mode is kept.
func (s *Sprite) Resampled(w, h int) *Sprite {
	if w <= 0 || h <= 0 || s.width == 0 || s.height == 0 {
		r := New(w, h)
		r.mode = s.mode
		return r
	}
	r := FromImage(simage.Resize(s.Image(), w, h))
	r.mode = s.mode
	return r
}
