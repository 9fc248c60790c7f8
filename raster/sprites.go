// SPDX-License-Identifier: GPL-2.0-or-later

package raster

import (
	"stmengine/font"
	"stmengine/pixel"
	"stmengine/sprite"
)

// DrawSprite blits s with its top left corner at (x,y). Every source pixel
// becomes a scale x scale block.
func (c *Context) DrawSprite(x, y int, s *sprite.Sprite, scale int) {
	if s == nil {
		return
	}
	c.DrawPartialSprite(x, y, s, 0, 0, s.Width(), s.Height(), scale)
}

// DrawPartialSprite blits the area (ox,oy) to (ox+w,oy+h) of s. Source
// pixels outside of s are read with s's sample mode.
func (c *Context) DrawPartialSprite(x, y int, s *sprite.Sprite, ox, oy, w, h, scale int) {
	if s == nil || w <= 0 || h <= 0 {
		return
	}
	scale = max(scale, 1)
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			p := s.GetPixel(ox+i, oy+j)
			if scale == 1 {
				c.Draw(x+i, y+j, p)
				continue
			}
			for js := 0; js < scale; js++ {
				for is := 0; is < scale; is++ {
					c.Draw(x+i*scale+is, y+j*scale+js, p)
				}
			}
		}
	}
}

func (c *Context) drawSampled(x, y, w, h int, s *sprite.Sprite, sample func(u, v float32) pixel.Pixel) {
	if s == nil || w <= 0 || h <= 0 || s.Width() == 0 || s.Height() == 0 {
		return
	}
	ou := c.subPixelX / float32(s.Width())
	ov := c.subPixelY / float32(s.Height())
	for j := 0; j < h; j++ {
		v := float32(j)/float32(h) + ov
		for i := 0; i < w; i++ {
			u := float32(i)/float32(w) + ou
			c.Draw(x+i, y+j, sample(u, v))
		}
	}
}

// DrawSampledSprite stretches s over the w x h area at (x,y) using nearest
// neighbour sampling.
func (c *Context) DrawSampledSprite(x, y, w, h int, s *sprite.Sprite) {
	if s == nil {
		return
	}
	c.drawSampled(x, y, w, h, s, s.Sample)
}

// DrawSampledSpriteBL is DrawSampledSprite with bilinear sampling.
func (c *Context) DrawSampledSpriteBL(x, y, w, h int, s *sprite.Sprite) {
	if s == nil {
		return
	}
	c.drawSampled(x, y, w, h, s, s.SampleBL)
}

// FontAtlas returns the sprite text is drawn from.
func (c *Context) FontAtlas() *sprite.Sprite {
	return font.Atlas()
}

// StringSize returns the size of the area DrawString covers for text.
func StringSize(text string, scale int) (w, h int) {
	scale = max(scale, 1)
	cols, lines := 0, 1
	for _, r := range font.Fold(text) {
		if r == '\n' {
			lines++
			cols = 0
			continue
		}
		cols++
		w = max(w, cols)
	}
	return w * font.CellWidth * scale, lines * font.CellHeight * scale
}

// DrawString draws text starting at (x,y). A newline moves back to x and
// down one line. Runes without glyph advance the cursor without drawing.
// Unless a custom blend function is active, text uses MASK for opaque and
// ALPHA for translucent colours.
func (c *Context) DrawString(x, y int, text string, col pixel.Pixel, scale int) {
	scale = max(scale, 1)
	m := c.mode
	if m != pixel.CUSTOM {
		if col.A != 255 {
			c.mode = pixel.ALPHA
		} else {
			c.mode = pixel.MASK
		}
	}
	defer func() { c.mode = m }()

	atlas := font.Atlas()
	sx, sy := 0, 0
	for _, r := range font.Fold(text) {
		if r == '\n' {
			sx = 0
			sy += font.CellHeight * scale
			continue
		}
		if font.Supported(r) {
			ox, oy := font.Cell(r)
			for j := 0; j < font.CellHeight; j++ {
				for i := 0; i < font.CellWidth; i++ {
					if atlas.GetPixel(ox+i, oy+j).R == 0 {
						continue
					}
					for js := 0; js < scale; js++ {
						for is := 0; is < scale; is++ {
							c.Draw(x+sx+i*scale+is, y+sy+j*scale+js, col)
						}
					}
				}
			}
		}
		sx += font.CellWidth * scale
	}
}
