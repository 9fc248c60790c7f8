// SPDX-License-Identifier: GPL-2.0-or-later

package keycode

import (
	"fmt"
	"strings"
)

// Key identifies a physical key independent of the platform.
type Key int

const (
	NONE Key = iota
	A
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z
	K0
	K1
	K2
	K3
	K4
	K5
	K6
	K7
	K8
	K9
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	UP
	DOWN
	LEFT
	RIGHT
	SPACE
	TAB
	SHIFT
	CTRL
	INS
	DEL
	HOME
	END
	PGUP
	PGDN
	BACK
	ESCAPE
	RETURN
	ENTER
	PAUSE
	SCROLL
	NP0
	NP1
	NP2
	NP3
	NP4
	NP5
	NP6
	NP7
	NP8
	NP9
	NP_MUL
	NP_DIV
	NP_ADD
	NP_SUB
	NP_DECIMAL

	// Count is the number of keys, usable as array size.
	Count
)

var (
	s2k = map[string]Key{
		"NONE": NONE,

		"UP":    UP,
		"DOWN":  DOWN,
		"LEFT":  LEFT,
		"RIGHT": RIGHT,

		"SPACE":  SPACE,
		"TAB":    TAB,
		"SHIFT":  SHIFT,
		"CTRL":   CTRL,
		"INS":    INS,
		"DEL":    DEL,
		"HOME":   HOME,
		"END":    END,
		"PGUP":   PGUP,
		"PGDN":   PGDN,
		"BACK":   BACK,
		"ESCAPE": ESCAPE,
		"RETURN": RETURN,
		"ENTER":  ENTER,
		"PAUSE":  PAUSE,
		"SCROLL": SCROLL,

		"NP_MUL":     NP_MUL,
		"NP_DIV":     NP_DIV,
		"NP_ADD":     NP_ADD,
		"NP_SUB":     NP_SUB,
		"NP_DECIMAL": NP_DECIMAL,
	}
	k2s = reverseMap(s2k)
)

func init() {
	for k := A; k <= Z; k++ {
		s2k[string(rune('A'+k-A))] = k
	}
	for k := K0; k <= K9; k++ {
		s2k[string(rune('0'+k-K0))] = k
	}
	for k := F1; k <= F12; k++ {
		s2k[fmt.Sprintf("F%d", k-F1+1)] = k
	}
	for k := NP0; k <= NP9; k++ {
		s2k[fmt.Sprintf("NP%d", k-NP0)] = k
	}
	k2s = reverseMap(s2k)
}

func reverseMap(m map[string]Key) map[Key]string {
	r := make(map[Key]string)
	for k, v := range m {
		r[v] = k
	}
	return r
}

func (k Key) String() string {
	s, ok := k2s[k]
	if ok {
		return s
	}
	return "<UNKNOWN KEY>"
}

// Parse returns the key named s, ignoring case. Unknown names return NONE
// and false.
func Parse(s string) (Key, bool) {
	k, ok := s2k[strings.ToUpper(s)]
	return k, ok
}

// FromRune maps a character as typed on a terminal to the key producing it.
// Upper case letters map to the same key as lower case ones.
func FromRune(r rune) Key {
	switch {
	case r >= 'a' && r <= 'z':
		return A + Key(r-'a')
	case r >= 'A' && r <= 'Z':
		return A + Key(r-'A')
	case r >= '0' && r <= '9':
		return K0 + Key(r-'0')
	}
	switch r {
	case ' ':
		return SPACE
	case '\t':
		return TAB
	case '\r', '\n':
		return ENTER
	case 0x7f, 0x08:
		return BACK
	case 0x1b:
		return ESCAPE
	case '*':
		return NP_MUL
	case '/':
		return NP_DIV
	case '+':
		return NP_ADD
	case '-':
		return NP_SUB
	case '.':
		return NP_DECIMAL
	}
	return NONE
}
