// SPDX-License-Identifier: GPL-2.0-or-later

// package input handles button event tracking
package input

import (
	"sync"

	"stmengine/keycode"
)

// HWButton is the state of a key or mouse button for the current frame.
type HWButton struct {
	// Pressed is set during the frame the button went down.
	Pressed bool
	// Released is set during the frame the button went up.
	Released bool
	// Held is set for all frames between pressed and released.
	Held bool
}

// MouseButtons is the number of tracked mouse buttons.
const MouseButtons = 5

// State collects raw events from a platform and turns them into per frame
// button states. Event setters may be called from any goroutine, the
// queries are meant for the frame loop.
type State struct {
	mutex sync.Mutex

	keyNew [keycode.Count]bool
	keyOld [keycode.Count]bool
	keys   [keycode.Count]HWButton

	mouseNew [MouseButtons]bool
	mouseOld [MouseButtons]bool
	mouse    [MouseButtons]HWButton

	mouseX, mouseY           int
	mouseXCache, mouseYCache int
	wheel, wheelCache        int

	keyFocus   bool
	mouseFocus bool
}

// SetKey records the raw state of k.
func (s *State) SetKey(k keycode.Key, down bool) {
	if k <= keycode.NONE || k >= keycode.Count {
		return
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.keyNew[k] = down
}

// SetMouseButton records the raw state of mouse button b.
func (s *State) SetMouseButton(b int, down bool) {
	if b < 0 || b >= MouseButtons {
		return
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.mouseNew[b] = down
}

// SetMousePos records the mouse position in screen pixels.
func (s *State) SetMousePos(x, y int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.mouseXCache = x
	s.mouseYCache = y
}

// AddMouseWheel accumulates wheel movement until the next Update.
func (s *State) AddMouseWheel(delta int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.wheelCache += delta
}

func (s *State) SetKeyFocus(b bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.keyFocus = b
}

func (s *State) SetMouseFocus(b bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.mouseFocus = b
}

func update(b *HWButton, n bool, o *bool) {
	b.Pressed = false
	b.Released = false
	if n != *o {
		if n {
			b.Pressed = !b.Held
			b.Held = true
		} else {
			b.Released = true
			b.Held = false
		}
	}
	*o = n
}

// Update starts a new frame. Pressed and Released are only set for the
// frame directly after the change.
func (s *State) Update() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for i := range s.keys {
		update(&s.keys[i], s.keyNew[i], &s.keyOld[i])
	}
	for i := range s.mouse {
		update(&s.mouse[i], s.mouseNew[i], &s.mouseOld[i])
	}
	s.mouseX = s.mouseXCache
	s.mouseY = s.mouseYCache
	s.wheel = s.wheelCache
	s.wheelCache = 0
}

// ReleaseAll marks every key and button as up, e.g. after focus loss.
func (s *State) ReleaseAll() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.keyNew = [keycode.Count]bool{}
	s.mouseNew = [MouseButtons]bool{}
}

func (s *State) Key(k keycode.Key) HWButton {
	if k < 0 || k >= keycode.Count {
		return HWButton{}
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.keys[k]
}

func (s *State) Mouse(b int) HWButton {
	if b < 0 || b >= MouseButtons {
		return HWButton{}
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.mouse[b]
}

func (s *State) MouseX() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.mouseX
}

func (s *State) MouseY() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.mouseY
}

// MouseWheel returns the wheel movement of the last frame.
func (s *State) MouseWheel() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.wheel
}

func (s *State) KeyFocus() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.keyFocus
}

func (s *State) MouseFocus() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.mouseFocus
}
