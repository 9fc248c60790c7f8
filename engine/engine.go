// SPDX-License-Identifier: GPL-2.0-or-later

// Package engine drives a Game: it owns the screen sprite and the raster
// context and runs the frame loop against a Platform.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"stmengine/conlog"
	"stmengine/filesystem"
	"stmengine/gametime"
	"stmengine/input"
	"stmengine/keycode"
	"stmengine/raster"
	"stmengine/sprite"
)

// Game is implemented by applications.
type Game interface {
	// OnUserCreate is called once before the first frame. Returning an
	// error stops the engine.
	OnUserCreate(e *Engine) error
	// OnUserUpdate is called every frame with the seconds since the last
	// frame. Returning false asks the engine to stop.
	OnUserUpdate(e *Engine, elapsed float32) bool
	// OnUserDestroy is called when the engine is about to stop. Returning
	// false keeps the engine running, unless the context is done.
	OnUserDestroy(e *Engine) bool
}

// GameFuncs adapts plain functions to Game. Nil functions do nothing.
type GameFuncs struct {
	Create  func(e *Engine) error
	Update  func(e *Engine, elapsed float32) bool
	Destroy func(e *Engine) bool
}

func (g GameFuncs) OnUserCreate(e *Engine) error {
	if g.Create == nil {
		return nil
	}
	return g.Create(e)
}

func (g GameFuncs) OnUserUpdate(e *Engine, elapsed float32) bool {
	if g.Update == nil {
		return true
	}
	return g.Update(e, elapsed)
}

func (g GameFuncs) OnUserDestroy(e *Engine) bool {
	if g.Destroy == nil {
		return true
	}
	return g.Destroy(e)
}

// Config describes the screen an engine is constructed with.
type Config struct {
	AppName      string
	ScreenWidth  int
	ScreenHeight int
	PixelWidth   int
	PixelHeight  int
	Fullscreen   bool
	VSync        bool
	// MaxFPS limits the frame rate, 0 is unlimited.
	MaxFPS float64
}

// Platform presents frames and delivers input. The engine calls all methods
// from the goroutine running Start.
type Platform interface {
	Open(cfg Config) error
	// PollEvents feeds pending events into s. It returns false if the user
	// asked to quit.
	PollEvents(s *input.State) bool
	Present(screen *sprite.Sprite) error
	Close() error
}

// Titler is implemented by platforms able to show the frame rate.
type Titler interface {
	SetTitle(title string)
}

type Engine struct {
	game     Game
	platform Platform
	cfg      Config
	screen   *sprite.Sprite
	raster   *raster.Context
	input    input.State
	clock    *gametime.GameTime
	files    *filesystem.NameSpace
	fps      int
	// now is the clock source, nil is time.Now
	now func() time.Time
}

func New(g Game, p Platform) *Engine {
	return &Engine{
		game:     g,
		platform: p,
	}
}

// Construct validates cfg and allocates the screen.
func (e *Engine) Construct(cfg Config) error {
	if cfg.ScreenWidth <= 0 || cfg.ScreenHeight <= 0 || cfg.PixelWidth <= 0 || cfg.PixelHeight <= 0 {
		return errors.Errorf("invalid screen %dx%d with pixel %dx%d",
			cfg.ScreenWidth, cfg.ScreenHeight, cfg.PixelWidth, cfg.PixelHeight)
	}
	if cfg.AppName == "" {
		cfg.AppName = "Default"
	}
	e.cfg = cfg
	e.screen = sprite.New(cfg.ScreenWidth, cfg.ScreenHeight)
	e.raster = raster.NewContext(e.screen)
	return nil
}

// Start runs the frame loop until the game or the platform asks to stop
// and OnUserDestroy agrees, or until ctx is done.
func (e *Engine) Start(ctx context.Context) error {
	if e.screen == nil {
		return errors.New("engine not constructed")
	}
	if err := e.platform.Open(e.cfg); err != nil {
		return errors.Wrap(err, "open platform")
	}
	defer func() {
		if err := e.platform.Close(); err != nil {
			conlog.Printf("close platform: %v\n", err)
		}
	}()
	if err := e.game.OnUserCreate(e); err != nil {
		return errors.Wrap(err, "create")
	}
	conlog.DPrintf("%s started with %dx%d\n", e.cfg.AppName, e.cfg.ScreenWidth, e.cfg.ScreenHeight)

	e.clock = gametime.New(e.now)
	e.clock.SetMaxFPS(e.cfg.MaxFPS)
	for {
		select {
		case <-ctx.Done():
			e.game.OnUserDestroy(e)
			return ctx.Err()
		default:
		}
		if !e.platform.PollEvents(&e.input) {
			if e.game.OnUserDestroy(e) {
				return nil
			}
		}
		if !e.clock.UpdateTime() {
			time.Sleep(e.clock.Wait())
			continue
		}
		e.input.Update()
		if !e.game.OnUserUpdate(e, float32(e.clock.FrameTime())) {
			if e.game.OnUserDestroy(e) {
				return nil
			}
		}
		if err := e.platform.Present(e.screen); err != nil {
			return errors.Wrap(err, "present")
		}
		if e.clock.FPSUpdated() {
			e.fps = e.clock.FPS()
			if t, ok := e.platform.(Titler); ok {
				t.SetTitle(fmt.Sprintf("%s - FPS: %d", e.cfg.AppName, e.fps))
			}
		}
	}
}

func (e *Engine) AppName() string {
	return e.cfg.AppName
}

func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) ScreenWidth() int {
	return e.screen.Width()
}

func (e *Engine) ScreenHeight() int {
	return e.screen.Height()
}

func (e *Engine) Screen() *sprite.Sprite {
	return e.screen
}

// SetScreenSize replaces the screen by a new one of size w x h. If the
// screen was the draw target the new screen becomes the target.
func (e *Engine) SetScreenSize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	e.cfg.ScreenWidth = w
	e.cfg.ScreenHeight = h
	e.screen = sprite.New(w, h)
	e.raster.SetScreen(e.screen)
}

// Raster returns the context all drawing goes through.
func (e *Engine) Raster() *raster.Context {
	return e.raster
}

// FPS returns the frame rate of the last second.
func (e *Engine) FPS() int {
	return e.fps
}

func (e *Engine) Key(k keycode.Key) input.HWButton {
	return e.input.Key(k)
}

func (e *Engine) Mouse(b int) input.HWButton {
	return e.input.Mouse(b)
}

func (e *Engine) MouseX() int {
	return e.input.MouseX()
}

func (e *Engine) MouseY() int {
	return e.input.MouseY()
}

func (e *Engine) MouseWheel() int {
	return e.input.MouseWheel()
}

// IsFocused reports whether the platform has keyboard focus.
func (e *Engine) IsFocused() bool {
	return e.input.KeyFocus()
}

// SetFiles sets the name space LoadSprite reads from.
func (e *Engine) SetFiles(ns *filesystem.NameSpace) {
	e.files = ns
}

// LoadSprite reads a .spr or image file from the engine's name space.
func (e *Engine) LoadSprite(name string) (*sprite.Sprite, error) {
	if e.files == nil {
		return nil, errors.Errorf("load sprite %s: no files bound", name)
	}
	f, err := e.files.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "load sprite")
	}
	defer f.Close()
	return sprite.Read(name, f)
}
