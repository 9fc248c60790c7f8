// SPDX-License-Identifier: GPL-2.0-or-later

// Package window presents the engine screen in an SDL window through OpenGL.
// All SDL and GL calls are dispatched to the main thread.
package window

import (
	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gopxl/mainthread/v2"
	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"

	"stmengine/conlog"
	"stmengine/engine"
	"stmengine/glh"
	"stmengine/input"
	"stmengine/sprite"
)

const (
	vertexSource = `
#version 410
in vec2 position;
out vec2 Texcoord;
uniform mat4 transform;

void main() {
	Texcoord = position;
	gl_Position = transform * vec4(position, 0.0, 1.0);
}
`
	fragmentSource = `
#version 410
in vec2 Texcoord;
out vec4 frag_color;
uniform sampler2D tex;

void main() {
	frag_color = texture(tex, Texcoord);
}
`
)

var (
	quadVertices = []float32{
		0, 0, // Top-left
		1, 0, // Top-right
		1, 1, // Bottom-right
		0, 1, // Bottom-left
	}
	quadElements = []uint32{
		0, 1, 2,
		2, 3, 0,
	}
)

// Platform is an engine.Platform backed by an SDL window. It must be used
// from a goroutine started inside mainthread.Run.
type Platform struct {
	cfg       engine.Config
	window    *sdl.Window
	context   sdl.GLContext
	prog      *glh.Program
	vao       *glh.VertexArray
	vbo       *glh.Buffer
	ebo       *glh.Buffer
	tex       *glh.Texture2D
	transform int32
}

func New() *Platform {
	return &Platform{}
}

func (p *Platform) Open(cfg engine.Config) error {
	p.cfg = cfg
	return mainthread.CallErr(p.open)
}

func (p *Platform) open() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return errors.Wrap(err, "init sdl")
	}
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if p.cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	w := int32(p.cfg.ScreenWidth * p.cfg.PixelWidth)
	h := int32(p.cfg.ScreenHeight * p.cfg.PixelHeight)
	win, err := sdl.CreateWindow(p.cfg.AppName, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, w, h, flags)
	if err != nil {
		sdl.Quit()
		return errors.Wrap(err, "create window")
	}
	p.window = win
	p.context, err = win.GLCreateContext()
	if err != nil {
		p.shutdown()
		return errors.Wrap(err, "create GL context")
	}
	if err := gl.Init(); err != nil {
		p.shutdown()
		return errors.Wrap(err, "init gl")
	}
	interval := 0
	if p.cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		conlog.Printf("Could not set swap interval: %v\n", err)
	}
	conlog.DPrintf("GL %s\n", gl.GoStr(gl.GetString(gl.VERSION)))

	p.prog, err = glh.NewProgram(vertexSource, fragmentSource)
	if err != nil {
		p.shutdown()
		return err
	}
	p.transform = p.prog.GetUniformLocation("transform")
	position := p.prog.GetAttribLocation("position")

	p.vao = glh.NewVertexArray()
	p.vao.Bind()
	p.vbo = glh.NewBuffer(glh.ArrayBuffer)
	p.vbo.Bind()
	p.vbo.SetData(4*len(quadVertices), glh.Ptr(quadVertices))
	glh.VertexAttrib(position, 2, 2*4, 0)
	p.ebo = glh.NewBuffer(glh.ElementArrayBuffer)
	p.ebo.Bind()
	p.ebo.SetData(4*len(quadElements), glh.Ptr(quadElements))

	p.tex = glh.NewTexture2D()
	return nil
}

func (p *Platform) shutdown() {
	if p.context != nil {
		sdl.GLDeleteContext(p.context)
		p.context = nil
	}
	if p.window != nil {
		p.window.Destroy()
		p.window = nil
	}
	sdl.Quit()
}

func (p *Platform) Close() error {
	mainthread.Call(func() {
		p.prog, p.vao, p.vbo, p.ebo, p.tex = nil, nil, nil, nil, nil
		p.shutdown()
	})
	return nil
}

// SetTitle implements engine.Titler.
func (p *Platform) SetTitle(title string) {
	mainthread.CallNonBlock(func() {
		if p.window != nil {
			p.window.SetTitle(title)
		}
	})
}

func (p *Platform) PollEvents(s *input.State) bool {
	running := true
	mainthread.Call(func() {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if e.Repeat != 0 {
					continue
				}
				if k, ok := scancodes[e.Keysym.Scancode]; ok {
					s.SetKey(k, e.State == sdl.PRESSED)
				}
			case *sdl.MouseButtonEvent:
				if b, ok := mouseButton(e.Button); ok {
					s.SetMouseButton(b, e.State == sdl.PRESSED)
				}
			case *sdl.MouseMotionEvent:
				s.SetMousePos(p.mouseToScreen(e.X, e.Y))
			case *sdl.MouseWheelEvent:
				s.AddMouseWheel(int(e.Y))
			case *sdl.WindowEvent:
				p.handleWindowEvent(s, e)
			}
		}
	})
	return running
}

func (p *Platform) handleWindowEvent(s *input.State, e *sdl.WindowEvent) {
	switch e.Event {
	case sdl.WINDOWEVENT_FOCUS_GAINED:
		s.SetKeyFocus(true)
	case sdl.WINDOWEVENT_FOCUS_LOST:
		s.SetKeyFocus(false)
		// no key up events arrive while unfocused
		s.ReleaseAll()
	case sdl.WINDOWEVENT_ENTER:
		s.SetMouseFocus(true)
	case sdl.WINDOWEVENT_LEAVE:
		s.SetMouseFocus(false)
	}
}

// mouseToScreen maps window coordinates, which differ from drawable pixels
// on high dpi displays, to a screen pixel.
func (p *Platform) mouseToScreen(x, y int32) (int, int) {
	ww, wh := p.window.GetSize()
	dw, dh := p.window.GLGetDrawableSize()
	if ww <= 0 || wh <= 0 {
		return 0, 0
	}
	mx := int(x) * int(dw) / int(ww)
	my := int(y) * int(dh) / int(wh)
	return engine.MouseToScreen(mx, my, int(dw), int(dh), p.cfg)
}

func (p *Platform) Present(s *sprite.Sprite) error {
	return mainthread.CallErr(func() error {
		if p.window == nil {
			return errors.New("window not open")
		}
		// the game may have resized the screen
		p.cfg.ScreenWidth, p.cfg.ScreenHeight = s.Width(), s.Height()

		dw, dh := p.window.GLGetDrawableSize()
		gl.Viewport(0, 0, dw, dh)
		gl.ClearColor(0, 0, 0, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		x, y, w, h := engine.Viewport(int(dw), int(dh), p.cfg)
		p.prog.Use()
		glh.QuadTransform(x, y, w, h, int(dw), int(dh)).SetAsUniform(p.transform)
		gl.ActiveTexture(gl.TEXTURE0)
		p.tex.Upload(s)
		p.vao.Bind()
		gl.DrawElements(gl.TRIANGLES, 6, gl.UNSIGNED_INT, gl.PtrOffset(0))
		p.window.GLSwap()
		return nil
	})
}
