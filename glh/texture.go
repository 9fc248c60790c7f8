// SPDX-License-Identifier: GPL-2.0-or-later

package glh

import (
	"runtime"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gopxl/mainthread/v2"

	"stmengine/sprite"
)

type TexID uint32

// Texture2D is a RGBA texture sized after the sprite last uploaded to it.
type Texture2D struct {
	id     uint32
	width  int
	height int
}

func deleteTexture(id uint32) {
	mainthread.CallNonBlock(func() {
		gl.DeleteTextures(1, &id)
	})
}

// NewTexture2D creates a texture with nearest filtering and clamped edges.
func NewTexture2D() *Texture2D {
	t := &Texture2D{}
	gl.GenTextures(1, &t.id)
	runtime.AddCleanup(t, deleteTexture, t.id)
	t.Bind()
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return t
}

func (t *Texture2D) ID() TexID {
	return TexID(t.id)
}

func (t *Texture2D) Bind() {
	gl.BindTexture(gl.TEXTURE_2D, t.id)
}

func (t *Texture2D) Size() (int, int) {
	return t.width, t.height
}

// Upload copies the pixels of s into the texture. The storage is only
// reallocated if the size of s changed since the last upload.
func (t *Texture2D) Upload(s *sprite.Sprite) {
	t.Bind()
	w, h := s.Width(), s.Height()
	if w == 0 || h == 0 {
		return
	}
	data := gl.Ptr(&s.Data()[0])
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	if w != t.width || h != t.height {
		t.width, t.height = w, h
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, data)
		return
	}
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, data)
}
