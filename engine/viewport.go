// SPDX-License-Identifier: GPL-2.0-or-later

package engine

import (
	emath "stmengine/math"
)

// Viewport returns the area of a winW x winH window the screen is shown in.
// The screen keeps its aspect ratio (including the pixel aspect) and is
// centred, the remaining borders stay black.
func Viewport(winW, winH int, cfg Config) (x, y, w, h int) {
	ww := float32(cfg.ScreenWidth * cfg.PixelWidth)
	wh := float32(cfg.ScreenHeight * cfg.PixelHeight)
	if ww <= 0 || wh <= 0 || winW <= 0 || winH <= 0 {
		return 0, 0, max(winW, 0), max(winH, 0)
	}
	aspect := ww / wh
	w = winW
	h = int(float32(w) / aspect)
	if h > winH {
		h = winH
		w = int(float32(h) * aspect)
	}
	x = (winW - w) / 2
	y = (winH - h) / 2
	return x, y, w, h
}

// MouseToScreen maps a window position to a screen pixel. The result is
// clamped into the screen.
func MouseToScreen(mx, my, winW, winH int, cfg Config) (int, int) {
	vx, vy, vw, vh := Viewport(winW, winH, cfg)
	if vw <= 0 || vh <= 0 {
		return 0, 0
	}
	sx := int(float32(mx-vx) / float32(vw) * float32(cfg.ScreenWidth))
	sy := int(float32(my-vy) / float32(vh) * float32(cfg.ScreenHeight))
	return emath.Clamp(0, sx, cfg.ScreenWidth-1), emath.Clamp(0, sy, cfg.ScreenHeight-1)
}
