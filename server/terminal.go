// SPDX-License-Identifier: GPL-2.0-or-later

package server

import (
	"io"
	"sync"

	"github.com/pkg/errors"

	"stmengine/ansi"
	"stmengine/engine"
	"stmengine/input"
	"stmengine/keycode"
	"stmengine/sprite"
)

// Terminal is an engine.Platform drawing into a truecolor terminal. Every
// screen pixel is half a character cell.
//
// Terminals only report key presses. A pressed key is released again on the
// following poll unless the terminal repeated it in between.
type Terminal struct {
	rw io.ReadWriter

	mutex    sync.Mutex
	renderer *ansi.Renderer

	keys    chan keycode.Key
	done    chan struct{}
	held    []keycode.Key
	focused bool
}

// NewTerminal returns a platform for a terminal of cols x rows cells
// connected through rw.
func NewTerminal(rw io.ReadWriter, cols, rows int) *Terminal {
	return &Terminal{
		rw:       rw,
		renderer: ansi.NewRenderer(cols, rows),
		keys:     make(chan keycode.Key, 64),
		done:     make(chan struct{}),
	}
}

// Resize may be called from any goroutine.
func (t *Terminal) Resize(cols, rows int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.renderer.Resize(cols, rows)
}

// PixelSize returns the size of the screen that fills the terminal.
func (t *Terminal) PixelSize() (int, int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.renderer.PixelSize()
}

func (t *Terminal) Open(cfg engine.Config) error {
	_, err := io.WriteString(t.rw, ansi.EnableAltScreen()+ansi.HideCursor()+ansi.ClearScreen()+ansi.SetTitle(cfg.AppName))
	if err != nil {
		return errors.Wrap(err, "setup terminal")
	}
	go t.read()
	return nil
}

func (t *Terminal) read() {
	defer close(t.done)
	buf := make([]byte, 64)
	for {
		n, err := t.rw.Read(buf)
		keys, quit := parseInput(buf[:n])
		for _, k := range keys {
			select {
			case t.keys <- k:
			default:
			}
		}
		if quit || err != nil {
			return
		}
	}
}

func (t *Terminal) PollEvents(s *input.State) bool {
	select {
	case <-t.done:
		return false
	default:
	}
	if !t.focused {
		t.focused = true
		s.SetKeyFocus(true)
	}
	for _, k := range t.held {
		s.SetKey(k, false)
	}
	t.held = t.held[:0]
	for {
		select {
		case k := <-t.keys:
			s.SetKey(k, true)
			t.held = append(t.held, k)
		default:
			return true
		}
	}
}

func (t *Terminal) Present(s *sprite.Sprite) error {
	t.mutex.Lock()
	out := t.renderer.Render(s)
	t.mutex.Unlock()
	if out == "" {
		return nil
	}
	if _, err := io.WriteString(t.rw, out); err != nil {
		return errors.Wrap(err, "present")
	}
	return nil
}

// SetTitle implements engine.Titler.
func (t *Terminal) SetTitle(title string) {
	io.WriteString(t.rw, ansi.SetTitle(title))
}

func (t *Terminal) Close() error {
	_, err := io.WriteString(t.rw, ansi.Reset+ansi.ShowCursor()+ansi.DisableAltScreen())
	return err
}
