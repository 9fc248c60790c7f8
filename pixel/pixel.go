// SPDX-License-Identifier: GPL-2.0-or-later

// Package pixel holds the 8bit RGBA colour value every sprite is made of.
package pixel

import (
	"fmt"
	"image/color"
)

// Pixel is a non-premultiplied 8bit RGBA colour. The field order matches the
// packed form returned by N: r is the lowest byte, a the highest.
type Pixel struct {
	R, G, B, A uint8
}

// Mode selects how a drawn pixel is combined with the pixel already present.
type Mode int

const (
	// NORMAL overwrites the destination and ignores alpha.
	NORMAL Mode = iota
	// MASK overwrites the destination only for fully opaque sources.
	MASK
	// ALPHA composites source over destination using the source alpha.
	ALPHA
	// CUSTOM delegates to a user supplied function.
	CUSTOM
)

func (m Mode) String() string {
	switch m {
	case NORMAL:
		return "NORMAL"
	case MASK:
		return "MASK"
	case ALPHA:
		return "ALPHA"
	case CUSTOM:
		return "CUSTOM"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

var (
	Grey         = New(192, 192, 192)
	DarkGrey     = New(128, 128, 128)
	VeryDarkGrey = New(64, 64, 64)
	Red          = New(255, 0, 0)
	DarkRed      = New(128, 0, 0)
	Yellow       = New(255, 255, 0)
	Green        = New(0, 255, 0)
	DarkGreen    = New(0, 128, 0)
	Cyan         = New(0, 255, 255)
	Blue         = New(0, 0, 255)
	DarkBlue     = New(0, 0, 128)
	Magenta      = New(255, 0, 255)
	White        = New(255, 255, 255)
	Black        = New(0, 0, 0)
	// Blank is fully transparent black. It is what out of range reads return.
	Blank = RGBA(0, 0, 0, 0)
)

// Default returns opaque black, the value of a freshly allocated sprite.
func Default() Pixel {
	return Pixel{A: 255}
}

// New returns an opaque pixel.
func New(r, g, b uint8) Pixel {
	return Pixel{R: r, G: g, B: b, A: 255}
}

func RGBA(r, g, b, a uint8) Pixel {
	return Pixel{R: r, G: g, B: b, A: a}
}

// FromN unpacks a 32bit value, r from the lowest byte.
func FromN(n uint32) Pixel {
	return Pixel{
		R: uint8(n),
		G: uint8(n >> 8),
		B: uint8(n >> 16),
		A: uint8(n >> 24),
	}
}

// N returns the packed 32bit form.
func (p Pixel) N() uint32 {
	return uint32(p.R) | uint32(p.G)<<8 | uint32(p.B)<<16 | uint32(p.A)<<24
}

// Equal compares the packed forms.
func (p Pixel) Equal(o Pixel) bool {
	return p.N() == o.N()
}

func (p Pixel) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", p.R, p.G, p.B, p.A)
}

var _ color.Color = Pixel{}

// RGBA implements color.Color.
func (p Pixel) RGBA() (r, g, b, a uint32) {
	a = uint32(p.A)
	a |= a << 8
	r = uint32(p.R)
	r |= r << 8
	r = r * a / 0xffff
	g = uint32(p.G)
	g |= g << 8
	g = g * a / 0xffff
	b = uint32(p.B)
	b |= b << 8
	b = b * a / 0xffff
	return
}
