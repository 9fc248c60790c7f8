// SPDX-License-Identifier: GPL-2.0-or-later

package raster

import (
	"math"
	"sort"

	emath "stmengine/math"
	"stmengine/pixel"
)

// SolidPattern draws every pixel of a line.
const SolidPattern = 0xFFFFFFFF

// DrawLine draws a solid line from (x1,y1) to (x2,y2), both end points
// included.
func (c *Context) DrawLine(x1, y1, x2, y2 int, p pixel.Pixel) {
	c.DrawPatternLine(x1, y1, x2, y2, p, SolidPattern)
}

// DrawPatternLine draws a line using pattern as a stipple. The pattern is
// rotated left by one bit per step and the pixel is drawn if the lowest bit
// is set after the rotation.
func (c *Context) DrawPatternLine(x1, y1, x2, y2 int, p pixel.Pixel, pattern uint32) {
	rol := func() bool {
		pattern = pattern<<1 | pattern>>31
		return pattern&1 != 0
	}
	dx := x2 - x1
	dy := y2 - y1
	if dx == 0 {
		if y2 < y1 {
			y1, y2 = y2, y1
		}
		for y := y1; y <= y2; y++ {
			if rol() {
				c.Draw(x1, y, p)
			}
		}
		return
	}
	if dy == 0 {
		if x2 < x1 {
			x1, x2 = x2, x1
		}
		for x := x1; x <= x2; x++ {
			if rol() {
				c.Draw(x, y1, p)
			}
		}
		return
	}

	dx1 := emath.Abs(dx)
	dy1 := emath.Abs(dy)
	px := 2*dy1 - dx1
	py := 2*dx1 - dy1
	same := (dx < 0) == (dy < 0)
	if dy1 <= dx1 {
		x, y, xe := x1, y1, x2
		if dx < 0 {
			x, y, xe = x2, y2, x1
		}
		if rol() {
			c.Draw(x, y, p)
		}
		for x < xe {
			x++
			if px < 0 {
				px += 2 * dy1
			} else {
				if same {
					y++
				} else {
					y--
				}
				px += 2 * (dy1 - dx1)
			}
			if rol() {
				c.Draw(x, y, p)
			}
		}
		return
	}
	x, y, ye := x1, y1, y2
	if dy < 0 {
		x, y, ye = x2, y2, y1
	}
	if rol() {
		c.Draw(x, y, p)
	}
	for y < ye {
		y++
		if py <= 0 {
			py += 2 * dx1
		} else {
			if same {
				x++
			} else {
				x--
			}
			py += 2 * (dx1 - dy1)
		}
		if rol() {
			c.Draw(x, y, p)
		}
	}
}

// Octant masks for DrawCircle. Octants are numbered clockwise starting at
// the top.
const (
	OctantAll = 0xFF
)

func (c *Context) circleVisible(x, y, r int) bool {
	return r >= 0 && x >= -r && y >= -r && x-c.DrawTargetWidth() <= r && y-c.DrawTargetHeight() <= r
}

// DrawCircle draws the outline of a circle. Only the octants selected by
// mask are drawn, bit 0 being the octant clockwise of 12 o'clock.
func (c *Context) DrawCircle(x, y, radius int, p pixel.Pixel, mask uint8) {
	if !c.circleVisible(x, y, radius) {
		return
	}
	if radius == 0 {
		c.Draw(x, y, p)
		return
	}
	x0, y0 := 0, radius
	d := 3 - 2*radius
	for y0 >= x0 {
		if mask&0x01 != 0 {
			c.Draw(x+x0, y-y0, p)
		}
		if mask&0x04 != 0 {
			c.Draw(x+y0, y+x0, p)
		}
		if mask&0x10 != 0 {
			c.Draw(x-x0, y+y0, p)
		}
		if mask&0x40 != 0 {
			c.Draw(x-y0, y-x0, p)
		}
		if x0 != 0 && x0 != y0 {
			if mask&0x02 != 0 {
				c.Draw(x+y0, y-x0, p)
			}
			if mask&0x08 != 0 {
				c.Draw(x+x0, y+y0, p)
			}
			if mask&0x20 != 0 {
				c.Draw(x-y0, y+x0, p)
			}
			if mask&0x80 != 0 {
				c.Draw(x-x0, y-y0, p)
			}
		}
		if d < 0 {
			d += 4*x0 + 6
			x0++
		} else {
			d += 4*(x0-y0) + 10
			x0++
			y0--
		}
	}
}

// FillCircle fills a circle with horizontal spans. Every pixel is drawn
// exactly once.
func (c *Context) FillCircle(x, y, radius int, p pixel.Pixel) {
	if !c.circleVisible(x, y, radius) {
		return
	}
	if radius == 0 {
		c.Draw(x, y, p)
		return
	}
	span := func(sx, ex, y int) {
		for x := sx; x <= ex; x++ {
			c.Draw(x, y, p)
		}
	}
	x0, y0 := 0, radius
	d := 3 - 2*radius
	for y0 >= x0 {
		span(x-y0, x+y0, y-x0)
		if x0 > 0 {
			span(x-y0, x+y0, y+x0)
		}
		if d < 0 {
			d += 4*x0 + 6
			x0++
		} else {
			if x0 != y0 {
				span(x-x0, x+x0, y-y0)
				span(x-x0, x+x0, y+y0)
			}
			d += 4*(x0-y0) + 10
			x0++
			y0--
		}
	}
}

// DrawRect draws the outline of the area FillRect(x, y, w, h) covers.
func (c *Context) DrawRect(x, y, w, h int, p pixel.Pixel) {
	if w <= 0 || h <= 0 {
		return
	}
	x2 := x + w - 1
	y2 := y + h - 1
	c.DrawLine(x, y, x2, y, p)
	if h > 1 {
		c.DrawLine(x, y2, x2, y2, p)
	}
	if h > 2 {
		c.DrawLine(x, y+1, x, y2-1, p)
		if w > 1 {
			c.DrawLine(x2, y+1, x2, y2-1, p)
		}
	}
}

// FillRect fills [x,x+w) x [y,y+h) clipped to the draw target.
func (c *Context) FillRect(x, y, w, h int, p pixel.Pixel) {
	if w <= 0 || h <= 0 {
		return
	}
	x2 := emath.Clamp(0, x+w, c.DrawTargetWidth())
	y2 := emath.Clamp(0, y+h, c.DrawTargetHeight())
	x = emath.Clamp(0, x, c.DrawTargetWidth())
	y = emath.Clamp(0, y, c.DrawTargetHeight())
	for j := y; j < y2; j++ {
		for i := x; i < x2; i++ {
			c.Draw(i, j, p)
		}
	}
}

// DrawTriangle draws the three edges of a triangle.
func (c *Context) DrawTriangle(x1, y1, x2, y2, x3, y3 int, p pixel.Pixel) {
	c.DrawLine(x1, y1, x2, y2, p)
	c.DrawLine(x2, y2, x3, y3, p)
	c.DrawLine(x3, y3, x1, y1, p)
}

type point struct {
	x, y float64
}

// edgeX returns the x of the edge a-b at height y. a must be the upper end.
func edgeX(a, b point, y float64) float64 {
	return a.x + (y-a.y)*(b.x-a.x)/(b.y-a.y)
}

// FillTriangle fills the pixels whose centre lies inside the triangle.
// Centres on a left or top edge belong to the triangle, centres on a right
// or bottom edge do not, so triangles sharing an edge never draw a pixel
// twice and never leave a gap.
func (c *Context) FillTriangle(x1, y1, x2, y2, x3, y3 int, p pixel.Pixel) {
	v := [3]point{
		{float64(x1), float64(y1)},
		{float64(x2), float64(y2)},
		{float64(x3), float64(y3)},
	}
	sort.SliceStable(v[:], func(i, j int) bool { return v[i].y < v[j].y })
	if v[0].y == v[2].y {
		return
	}
	ys := max(int(math.Ceil(v[0].y-0.5)), 0)
	ye := min(int(math.Ceil(v[2].y-0.5)), c.DrawTargetHeight())
	w := c.DrawTargetWidth()
	for y := ys; y < ye; y++ {
		yc := float64(y) + 0.5
		xa := edgeX(v[0], v[2], yc)
		var xb float64
		if yc < v[1].y {
			xb = edgeX(v[0], v[1], yc)
		} else {
			xb = edgeX(v[1], v[2], yc)
		}
		if xb < xa {
			xa, xb = xb, xa
		}
		xs := max(int(math.Ceil(xa-0.5)), 0)
		xe := min(int(math.Ceil(xb-0.5)), w)
		for x := xs; x < xe; x++ {
			c.Draw(x, y, p)
		}
	}
}
