// SPDX-License-Identifier: GPL-2.0-or-later

package glh

import (
	"github.com/go-gl/gl/v4.6-core/gl"
)

// Matrix is a row major 4x4 matrix.
type Matrix struct {
	m [16]float32
}

func Identity() *Matrix {
	return &Matrix{
		m: [16]float32{
			1, 0, 0, 0, // 0 - 3
			0, 1, 0, 0, // 4 - 7
			0, 0, 1, 0, // 8 - 11
			0, 0, 0, 1, // 12 - 15
		},
	}
}

// Ortho returns the projection mapping the box [l,r]x[b,t]x[n,f] onto clip
// space, like glOrtho.
func Ortho(l, r, b, t, n, f float32) *Matrix {
	return &Matrix{
		m: [16]float32{
			2 / (r - l), 0, 0, -(r + l) / (r - l),
			0, 2 / (t - b), 0, -(t + b) / (t - b),
			0, 0, -2 / (f - n), -(f + n) / (f - n),
			0, 0, 0, 1,
		},
	}
}

func (m *Matrix) Copy() *Matrix {
	nm := &Matrix{}
	copy(nm.m[:], m.m[:])
	return nm
}

func (m *Matrix) SetAsUniform(id int32) {
	// we use row major order, so transpose must be set to true
	// as opengl uses column major order
	gl.UniformMatrix4fv(id, 1, true, &m.m[0])
}

func (m *Matrix) Translate(x, y, z float32) {
	// 1, 0, 0, x
	// 0, 1, 0, y
	// 0, 0, 1, z
	// 0, 0, 0, 1
	// compute m*t
	n := [16]float32{
		m.m[0], m.m[1], m.m[2], x*m.m[0] + y*m.m[1] + z*m.m[2] + m.m[3],
		m.m[4], m.m[5], m.m[6], x*m.m[4] + y*m.m[5] + z*m.m[6] + m.m[7],
		m.m[8], m.m[9], m.m[10], x*m.m[8] + y*m.m[9] + z*m.m[10] + m.m[11],
		m.m[12], m.m[13], m.m[14], x*m.m[12] + y*m.m[13] + z*m.m[14] + m.m[15],
	}
	m.m = n
}

func (m *Matrix) Scale(x, y, z float32) {
	// x, 0, 0, 0
	// 0, y, 0, 0
	// 0, 0, z, 0
	// 0, 0, 0, 1
	// compute m*t
	n := [16]float32{
		x * m.m[0], y * m.m[1], z * m.m[2], m.m[3],
		x * m.m[4], y * m.m[5], z * m.m[6], m.m[7],
		x * m.m[8], y * m.m[9], z * m.m[10], m.m[11],
		x * m.m[12], y * m.m[13], z * m.m[14], m.m[15],
	}
	m.m = n
}

// Apply transforms the point (x,y,z,1).
func (m *Matrix) Apply(x, y, z float32) (float32, float32, float32) {
	w := m.m[12]*x + m.m[13]*y + m.m[14]*z + m.m[15]
	return (m.m[0]*x + m.m[1]*y + m.m[2]*z + m.m[3]) / w,
		(m.m[4]*x + m.m[5]*y + m.m[6]*z + m.m[7]) / w,
		(m.m[8]*x + m.m[9]*y + m.m[10]*z + m.m[11]) / w
}

// QuadTransform maps the unit square onto the window rectangle x,y,w,h of a
// winW x winH window, with y growing downwards.
func QuadTransform(x, y, w, h, winW, winH int) *Matrix {
	m := Ortho(0, float32(winW), float32(winH), 0, -1, 1)
	m.Translate(float32(x), float32(y), 0)
	m.Scale(float32(w), float32(h), 1)
	return m
}
