// SPDX-License-Identifier: GPL-2.0-or-later

package server

import (
	"unicode/utf8"

	"stmengine/keycode"
)

const ctrlC = 3

// csiTilde maps the parameter of ESC [ n ~ sequences.
var csiTilde = map[int]keycode.Key{
	1:  keycode.HOME,
	2:  keycode.INS,
	3:  keycode.DEL,
	4:  keycode.END,
	5:  keycode.PGUP,
	6:  keycode.PGDN,
	7:  keycode.HOME,
	8:  keycode.END,
	15: keycode.F5,
	17: keycode.F6,
	18: keycode.F7,
	19: keycode.F8,
	20: keycode.F9,
	21: keycode.F10,
	23: keycode.F11,
	24: keycode.F12,
}

// csiFinal maps the final byte of ESC [ X and ESC O X sequences.
var csiFinal = map[byte]keycode.Key{
	'A': keycode.UP,
	'B': keycode.DOWN,
	'C': keycode.RIGHT,
	'D': keycode.LEFT,
	'H': keycode.HOME,
	'F': keycode.END,
	'P': keycode.F1,
	'Q': keycode.F2,
	'R': keycode.F3,
	'S': keycode.F4,
}

// parseInput converts raw terminal bytes into key presses. quit is true if
// Ctrl-C was typed, keys after it are dropped.
func parseInput(data []byte) (keys []keycode.Key, quit bool) {
	i := 0
	for i < len(data) {
		if data[i] == 0x1b && i+1 < len(data) && (data[i+1] == '[' || data[i+1] == 'O') {
			k, n := parseEscape(data[i:])
			if k != keycode.NONE {
				keys = append(keys, k)
			}
			i += n
			continue
		}
		r, size := utf8.DecodeRune(data[i:])
		if r == ctrlC {
			return keys, true
		}
		if k := keycode.FromRune(r); k != keycode.NONE {
			keys = append(keys, k)
		}
		i += size
	}
	return keys, false
}

// parseEscape decodes one escape sequence starting at data[0]. It returns
// the key, NONE for unknown sequences, and the number of bytes consumed.
func parseEscape(data []byte) (keycode.Key, int) {
	j := 2
	param, nparam := 0, 0
	for j < len(data) && (data[j] >= '0' && data[j] <= '9' || data[j] == ';') {
		if data[j] == ';' {
			nparam++
		} else if nparam == 0 {
			param = param*10 + int(data[j]-'0')
		}
		j++
	}
	if j == len(data) {
		// truncated, treat the escape as a plain key press
		return keycode.ESCAPE, 1
	}
	final := data[j]
	if final == '~' {
		return csiTilde[param], j + 1
	}
	return csiFinal[final], j + 1
}
