// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"github.com/chewxy/math32"
)

// Vec2 is a 2D vector in screen space.
type Vec2 struct {
	X, Y float32
}

// Vi2d is an integer 2D vector, used for pixel positions.
type Vi2d struct {
	X, Y int
}

// Length returns the length of the vector
func (v Vec2) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Length2 returns the squared length of the vector
func (v Vec2) Length2() float32 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns the vector scaled to length 1. The zero vector stays zero.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Perp returns the vector rotated by 90 degree.
func (v Vec2) Perp() Vec2 {
	return Vec2{-v.Y, v.X}
}

// Scale returns the vector multiplied by the skalar s
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Floor returns the integer position containing v.
func (v Vec2) Floor() Vi2d {
	return Vi2d{int(math32.Floor(v.X)), int(math32.Floor(v.Y))}
}

// Add returns a + b
func Add(a, b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns a - b
func Sub(a, b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

func Dot(a, b Vec2) float32 {
	return a.X*b.X + a.Y*b.Y
}

// Cross returns the z component of the 3D cross product.
func Cross(a, b Vec2) float32 {
	return a.X*b.Y - a.Y*b.X
}

// Lerp returns a + (b-a)*f
func Lerp(a, b Vec2, f float32) Vec2 {
	return Vec2{a.X + (b.X-a.X)*f, a.Y + (b.Y-a.Y)*f}
}

func (v Vi2d) Add(o Vi2d) Vi2d {
	return Vi2d{v.X + o.X, v.Y + o.Y}
}

func (v Vi2d) Sub(o Vi2d) Vi2d {
	return Vi2d{v.X - o.X, v.Y - o.Y}
}

func (v Vi2d) Vec2() Vec2 {
	return Vec2{float32(v.X), float32(v.Y)}
}
