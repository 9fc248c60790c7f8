// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"

	"github.com/chewxy/math32"

	"stmengine/conlog"
	"stmengine/engine"
	"stmengine/filesystem"
	"stmengine/keycode"
	"stmengine/math/vec"
	"stmengine/pixel"
	"stmengine/raster"
	"stmengine/sprite"
)

var logoNames = []string{"logo.spr", "logo.png"}

// demo shows off the rasterizer. It is used for the window and for every
// ssh session.
type demo struct {
	files *filesystem.NameSpace
	logo  *sprite.Sprite
	time  float32
	ball  vec.Vec2
	vel   vec.Vec2
	mode  pixel.Mode
	blend float32
}

func newDemo(files *filesystem.NameSpace) *demo {
	return &demo{
		files: files,
		vel:   vec.Vec2{X: 40, Y: 31},
		blend: 1,
	}
}

// checker is used when no logo file can be found.
func checker() *sprite.Sprite {
	s := sprite.New(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if (x/4+y/4)%2 == 0 {
				s.SetPixel(x, y, pixel.Magenta)
			} else {
				s.SetPixel(x, y, pixel.RGBA(0, 255, 255, 128))
			}
		}
	}
	s.SetSampleMode(sprite.PERIODIC)
	return s
}

func (d *demo) OnUserCreate(e *engine.Engine) error {
	if d.files != nil {
		e.SetFiles(d.files)
		for _, n := range logoNames {
			s, err := e.LoadSprite(n)
			if err == nil {
				d.logo = s
				break
			}
			conlog.DPrintf("No logo: %v\n", err)
		}
	}
	if d.logo == nil {
		d.logo = checker()
	}
	d.ball = vec.Vec2{X: float32(e.ScreenWidth()) / 2, Y: float32(e.ScreenHeight()) / 2}
	return nil
}

func (d *demo) handleInput(e *engine.Engine, elapsed float32) {
	if e.Key(keycode.SPACE).Pressed {
		d.mode = (d.mode + 1) % pixel.CUSTOM
	}
	if e.Key(keycode.UP).Held {
		d.blend = min(d.blend+elapsed, 1)
	}
	if e.Key(keycode.DOWN).Held {
		d.blend = max(d.blend-elapsed, 0)
	}
}

func (d *demo) moveBall(e *engine.Engine, elapsed float32, r float32) {
	d.ball = vec.Add(d.ball, d.vel.Scale(elapsed))
	w, h := float32(e.ScreenWidth()), float32(e.ScreenHeight())
	if d.ball.X < r || d.ball.X > w-r {
		d.vel.X = -d.vel.X
		d.ball.X = min(max(d.ball.X, r), w-r)
	}
	if d.ball.Y < r || d.ball.Y > h-r {
		d.vel.Y = -d.vel.Y
		d.ball.Y = min(max(d.ball.Y, r), h-r)
	}
}

func (d *demo) OnUserUpdate(e *engine.Engine, elapsed float32) bool {
	if e.Key(keycode.ESCAPE).Pressed {
		return false
	}
	d.time += elapsed
	d.handleInput(e, elapsed)

	r := e.Raster()
	w, h := e.ScreenWidth(), e.ScreenHeight()
	r.SetPixelMode(pixel.NORMAL)
	r.SetPixelBlend(1)
	r.Clear(pixel.VeryDarkGrey)

	// stippled grid, the pattern scrolls with time
	pattern := uint32(0xF0F0F0F0) << (uint(d.time*8) % 8)
	for x := 0; x < w; x += 16 {
		r.DrawPatternLine(x, 0, x, h-1, pixel.DarkGrey, pattern)
	}
	for y := 0; y < h; y += 16 {
		r.DrawPatternLine(0, y, w-1, y, pixel.DarkGrey, pattern)
	}

	// spinning triangle
	cx, cy := float32(w)/4, float32(h)/2
	size := float32(min(w, h)) / 4
	var px, py [3]int
	for i := range 3 {
		s, c := math32.Sincos(d.time + float32(i)*2*math32.Pi/3)
		px[i] = int(cx + c*size)
		py[i] = int(cy + s*size)
	}
	r.FillTriangle(px[0], py[0], px[1], py[1], px[2], py[2], pixel.DarkBlue)
	r.DrawTriangle(px[0], py[0], px[1], py[1], px[2], py[2], pixel.Cyan)

	// logo, stretched with a pulse
	scale := 1.5 + math32.Sin(d.time*2)/2
	lw := int(float32(d.logo.Width()) * scale * 2)
	lh := int(float32(d.logo.Height()) * scale * 2)
	r.SetPixelMode(d.mode)
	r.SetPixelBlend(d.blend)
	r.SetSubPixelOffset(d.time, 0)
	r.DrawSampledSpriteBL(w*3/4-lw/2, h/2-lh/2, lw, lh, d.logo)
	r.SetSubPixelOffset(0, 0)
	r.SetPixelBlend(1)
	r.SetPixelMode(pixel.NORMAL)

	radius := float32(min(w, h)) / 12
	d.moveBall(e, elapsed, radius)
	r.FillCircle(int(d.ball.X), int(d.ball.Y), int(radius), pixel.DarkRed)
	r.DrawCircle(int(d.ball.X), int(d.ball.Y), int(radius), pixel.Yellow, raster.OctantAll)

	mx, my := e.MouseX(), e.MouseY()
	if e.Mouse(0).Held {
		r.FillRect(mx-2, my-2, 5, 5, pixel.Green)
	}
	r.DrawRect(mx-3, my-3, 7, 7, pixel.White)

	r.DrawString(2, 2, fmt.Sprintf("FPS %d", e.FPS()), pixel.White, 1)
	r.DrawString(2, h-14, fmt.Sprintf("%v %.2f", d.mode, d.blend), pixel.RGBA(255, 255, 255, 160), 1)
	return true
}

func (d *demo) OnUserDestroy(e *engine.Engine) bool {
	return true
}
