// SPDX-License-Identifier: GPL-2.0-or-later

package gametime

import (
	"time"

	"stmengine/math"
)

// GameTime measures frame times.
type GameTime struct {
	now        func() time.Time
	startTime  time.Time
	time       float64
	oldTime    float64
	frameTime  float64
	frameCount int
	maxFPS     float64

	fpsTimer float64
	fpsCount int
	fps      int
	// fpsNew is set for the frame that completed a second
	fpsNew bool
}

// New returns a clock reading now. A nil now uses time.Now.
func New(now func() time.Time) *GameTime {
	if now == nil {
		now = time.Now
	}
	return &GameTime{
		now:       now,
		startTime: now(),
	}
}

// SetMaxFPS limits the frame rate. Values <= 0 disable the limit, other
// values are clamped to [10,1000].
func (h *GameTime) SetMaxFPS(fps float64) {
	if fps <= 0 {
		h.maxFPS = 0
		return
	}
	h.maxFPS = math.Clamp(10.0, fps, 1000.0)
}

func (h *GameTime) Time() float64      { return h.time }
func (h *GameTime) OldTime() float64   { return h.oldTime }
func (h *GameTime) FrameTime() float64 { return h.frameTime }
func (h *GameTime) FrameCount() int    { return h.frameCount }

// FPS returns the number of frames of the last full second.
func (h *GameTime) FPS() int { return h.fps }

// FPSUpdated reports whether the current frame completed a second and FPS
// changed to that second's count.
func (h *GameTime) FPSUpdated() bool { return h.fpsNew }

// Wait returns how long to sleep before the next frame may start.
func (h *GameTime) Wait() time.Duration {
	if h.maxFPS == 0 {
		return 0
	}
	t := h.now().Sub(h.startTime).Seconds()
	d := 1/h.maxFPS - (t - h.oldTime)
	if d <= 0 {
		return 0
	}
	return time.Duration(d * float64(time.Second))
}

// UpdateTime starts a new frame.
// Returns false if it would exceed max fps
func (h *GameTime) UpdateTime() bool {
	h.time = h.now().Sub(h.startTime).Seconds()
	if h.maxFPS > 0 && h.time-h.oldTime < 1/h.maxFPS {
		return false
	}
	h.frameTime = h.time - h.oldTime
	h.oldTime = h.time
	h.frameCount++

	h.fpsTimer += h.frameTime
	h.fpsCount++
	h.fpsNew = h.fpsTimer >= 1
	if h.fpsNew {
		h.fpsTimer -= 1
		h.fps = h.fpsCount
		h.fpsCount = 0
	}
	return true
}
