// SPDX-License-Identifier: GPL-2.0-or-later

// Package raster draws into sprites. All state that influences drawing
// (target, blend mode, blend factor, sub-pixel offset) lives in a Context
// which is owned by exactly one goroutine at a time.
package raster

import (
	emath "stmengine/math"
	"stmengine/pixel"
	"stmengine/sprite"
)

// BlendFunc computes the pixel to store at (x,y) when src is drawn on top
// of dst. It is used in pixel.CUSTOM mode.
type BlendFunc func(x, y int, src, dst pixel.Pixel) pixel.Pixel

type Context struct {
	screen *sprite.Sprite
	target *sprite.Sprite
	mode   pixel.Mode
	custom BlendFunc
	// blend is the blend factor scaled to 0..255
	blend     uint32
	blendF    float32
	subPixelX float32
	subPixelY float32
}

// NewContext returns a context drawing into screen in NORMAL mode with a
// blend factor of 1.
func NewContext(screen *sprite.Sprite) *Context {
	c := &Context{
		screen: screen,
		target: screen,
	}
	c.SetPixelBlend(1)
	return c
}

// SetScreen replaces the primary screen. If the screen was the current
// draw target the new screen becomes the target.
func (c *Context) SetScreen(s *sprite.Sprite) {
	if c.target == c.screen {
		c.target = s
	}
	c.screen = s
}

func (c *Context) Screen() *sprite.Sprite {
	return c.screen
}

// SetDrawTarget selects the sprite to draw into. nil selects the screen.
func (c *Context) SetDrawTarget(s *sprite.Sprite) {
	if s == nil {
		s = c.screen
	}
	c.target = s
}

func (c *Context) DrawTarget() *sprite.Sprite {
	return c.target
}

func (c *Context) DrawTargetWidth() int {
	if c.target == nil {
		return 0
	}
	return c.target.Width()
}

func (c *Context) DrawTargetHeight() int {
	if c.target == nil {
		return 0
	}
	return c.target.Height()
}

// SetPixelMode selects a built-in blend mode. Selecting pixel.CUSTOM keeps
// the function set by SetCustomPixelMode.
func (c *Context) SetPixelMode(m pixel.Mode) {
	c.mode = m
}

// SetCustomPixelMode switches to pixel.CUSTOM using f.
func (c *Context) SetCustomPixelMode(f BlendFunc) {
	c.custom = f
	c.mode = pixel.CUSTOM
}

func (c *Context) PixelMode() pixel.Mode {
	return c.mode
}

// SetPixelBlend sets the factor used to fade drawn pixels into the target.
// It is clamped to [0,1].
func (c *Context) SetPixelBlend(f float32) {
	f = emath.Clamp(0, f, 1)
	c.blendF = f
	c.blend = uint32(f*255 + 0.5)
}

func (c *Context) PixelBlend() float32 {
	return c.blendF
}

// SetSubPixelOffset shifts the texel lookups of the sampled sprite draws.
// The offset is given in source pixels.
func (c *Context) SetSubPixelOffset(ox, oy float32) {
	c.subPixelX = ox
	c.subPixelY = oy
}

// mix returns (s*a + d*(255-a)) / 255 rounded to nearest.
func mix(s, d uint8, a uint32) uint8 {
	return uint8((uint32(s)*a + uint32(d)*(255-a) + 127) / 255)
}

func lerp(dst, src pixel.Pixel, a uint32) pixel.Pixel {
	return pixel.RGBA(
		mix(src.R, dst.R, a),
		mix(src.G, dst.G, a),
		mix(src.B, dst.B, a),
		mix(src.A, dst.A, a))
}

// Draw stores p at (x,y) of the draw target through the active blend mode.
// It returns false if nothing was written because (x,y) is outside of the
// target or the mode rejected the pixel.
func (c *Context) Draw(x, y int, p pixel.Pixel) bool {
	t := c.target
	if t == nil || x < 0 || y < 0 || x >= t.Width() || y >= t.Height() {
		return false
	}
	var out pixel.Pixel
	switch c.mode {
	case pixel.MASK:
		if p.A != 255 {
			return false
		}
		out = p
	case pixel.ALPHA:
		dst := t.GetPixel(x, y)
		a := uint32(p.A) * c.blend / 255
		return t.SetPixel(x, y, pixel.RGBA(mix(p.R, dst.R, a), mix(p.G, dst.G, a), mix(p.B, dst.B, a), 255))
	case pixel.CUSTOM:
		if c.custom == nil {
			out = p
			break
		}
		out = c.custom(x, y, p, t.GetPixel(x, y))
	default:
		out = p
	}
	if c.blend < 255 {
		out = lerp(t.GetPixel(x, y), out, c.blend)
	}
	return t.SetPixel(x, y, out)
}

// Clear overwrites every pixel of the draw target with p, ignoring the blend
// mode and factor.
func (c *Context) Clear(p pixel.Pixel) {
	if c.target == nil {
		return
	}
	d := c.target.Data()
	for i := range d {
		d[i] = p
	}
}
