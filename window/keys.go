// SPDX-License-Identifier: GPL-2.0-or-later

package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"stmengine/keycode"
)

var scancodes = map[sdl.Scancode]keycode.Key{
	sdl.SCANCODE_F1:  keycode.F1,
	sdl.SCANCODE_F2:  keycode.F2,
	sdl.SCANCODE_F3:  keycode.F3,
	sdl.SCANCODE_F4:  keycode.F4,
	sdl.SCANCODE_F5:  keycode.F5,
	sdl.SCANCODE_F6:  keycode.F6,
	sdl.SCANCODE_F7:  keycode.F7,
	sdl.SCANCODE_F8:  keycode.F8,
	sdl.SCANCODE_F9:  keycode.F9,
	sdl.SCANCODE_F10: keycode.F10,
	sdl.SCANCODE_F11: keycode.F11,
	sdl.SCANCODE_F12: keycode.F12,

	sdl.SCANCODE_UP:    keycode.UP,
	sdl.SCANCODE_DOWN:  keycode.DOWN,
	sdl.SCANCODE_LEFT:  keycode.LEFT,
	sdl.SCANCODE_RIGHT: keycode.RIGHT,

	sdl.SCANCODE_SPACE:      keycode.SPACE,
	sdl.SCANCODE_TAB:        keycode.TAB,
	sdl.SCANCODE_LSHIFT:     keycode.SHIFT,
	sdl.SCANCODE_RSHIFT:     keycode.SHIFT,
	sdl.SCANCODE_LCTRL:      keycode.CTRL,
	sdl.SCANCODE_RCTRL:      keycode.CTRL,
	sdl.SCANCODE_INSERT:     keycode.INS,
	sdl.SCANCODE_DELETE:     keycode.DEL,
	sdl.SCANCODE_HOME:       keycode.HOME,
	sdl.SCANCODE_END:        keycode.END,
	sdl.SCANCODE_PAGEUP:     keycode.PGUP,
	sdl.SCANCODE_PAGEDOWN:   keycode.PGDN,
	sdl.SCANCODE_BACKSPACE:  keycode.BACK,
	sdl.SCANCODE_ESCAPE:     keycode.ESCAPE,
	sdl.SCANCODE_RETURN:     keycode.ENTER,
	sdl.SCANCODE_RETURN2:    keycode.ENTER,
	sdl.SCANCODE_KP_ENTER:   keycode.RETURN,
	sdl.SCANCODE_PAUSE:      keycode.PAUSE,
	sdl.SCANCODE_SCROLLLOCK: keycode.SCROLL,

	sdl.SCANCODE_KP_MULTIPLY: keycode.NP_MUL,
	sdl.SCANCODE_KP_DIVIDE:   keycode.NP_DIV,
	sdl.SCANCODE_KP_PLUS:     keycode.NP_ADD,
	sdl.SCANCODE_KP_MINUS:    keycode.NP_SUB,
	sdl.SCANCODE_KP_PERIOD:   keycode.NP_DECIMAL,
}

func init() {
	for i := 0; i < 26; i++ {
		scancodes[sdl.SCANCODE_A+sdl.Scancode(i)] = keycode.A + keycode.Key(i)
	}
	// SDL orders the digit rows 1..9,0
	for i := 0; i < 9; i++ {
		scancodes[sdl.SCANCODE_1+sdl.Scancode(i)] = keycode.K1 + keycode.Key(i)
		scancodes[sdl.SCANCODE_KP_1+sdl.Scancode(i)] = keycode.NP1 + keycode.Key(i)
	}
	scancodes[sdl.SCANCODE_0] = keycode.K0
	scancodes[sdl.SCANCODE_KP_0] = keycode.NP0
}

// mouseButton maps SDL buttons to the engine's button index.
func mouseButton(b uint8) (int, bool) {
	switch b {
	case sdl.BUTTON_LEFT:
		return 0, true
	case sdl.BUTTON_RIGHT:
		return 1, true
	case sdl.BUTTON_MIDDLE:
		return 2, true
	case sdl.BUTTON_X1:
		return 3, true
	case sdl.BUTTON_X2:
		return 4, true
	}
	return 0, false
}
