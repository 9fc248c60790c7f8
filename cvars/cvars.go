// SPDX-License-Identifier: GPL-2.0-or-later

package cvars

import (
	"stmengine/conlog"
	"stmengine/cvar"
)

var (
	Developer         *cvar.Cvar
	HostMaxFps        *cvar.Cvar
	PackKey           *cvar.Cvar
	ServerMaxSessions *cvar.Cvar
	VideoFullscreen   *cvar.Cvar
	VideoHeight       *cvar.Cvar
	VideoPixelHeight  *cvar.Cvar
	VideoPixelWidth   *cvar.Cvar
	VideoVSync        *cvar.Cvar
	VideoWidth        *cvar.Cvar
)

func init() {
	Developer = cvar.MustRegister("developer", "0", cvar.NONE)
	Developer.SetCallback(func(cv *cvar.Cvar) {
		conlog.SetDeveloper(cv.Bool())
	})
	HostMaxFps = cvar.MustRegister("host_maxfps", "72", cvar.ARCHIVE)
	// 0x5A
	PackKey = cvar.MustRegister("pack_key", "90", cvar.ARCHIVE)
	ServerMaxSessions = cvar.MustRegister("sv_maxsessions", "8", cvar.ARCHIVE)
	VideoFullscreen = cvar.MustRegister("vid_fullscreen", "0", cvar.ARCHIVE)
	VideoHeight = cvar.MustRegister("vid_height", "240", cvar.ARCHIVE)
	VideoPixelHeight = cvar.MustRegister("vid_pixelheight", "4", cvar.ARCHIVE)
	VideoPixelWidth = cvar.MustRegister("vid_pixelwidth", "4", cvar.ARCHIVE)
	VideoVSync = cvar.MustRegister("vid_vsync", "0", cvar.ARCHIVE)
	VideoWidth = cvar.MustRegister("vid_width", "256", cvar.ARCHIVE)
}

// PackKeyByte returns pack_key as byte, the key used to scramble resource
// packs.
func PackKeyByte() byte {
	return byte(int(PackKey.Value()))
}
