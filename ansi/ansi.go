// SPDX-License-Identifier: GPL-2.0-or-later

// Package ansi presents sprites on truecolor terminals. Every terminal cell
// shows two pixels stacked on top of each other using the upper half block.
package ansi

import (
	"fmt"
	"strconv"
	"strings"

	"stmengine/pixel"
)

const (
	ESC   = "\x1b"
	CSI   = ESC + "["
	Reset = CSI + "0m"

	// HalfBlock is drawn with the upper pixel as foreground and the lower
	// pixel as background colour.
	HalfBlock = '▀'
)

// MoveTo positions the cursor at row, col (1-based).
func MoveTo(row, col int) string {
	return fmt.Sprintf("%s%d;%dH", CSI, row, col)
}

func ClearScreen() string {
	return CSI + "2J"
}

func HideCursor() string {
	return CSI + "?25l"
}

func ShowCursor() string {
	return CSI + "?25h"
}

// EnableAltScreen switches to the alternate screen buffer.
func EnableAltScreen() string {
	return CSI + "?1049h"
}

// DisableAltScreen switches back from the alternate screen buffer.
func DisableAltScreen() string {
	return CSI + "?1049l"
}

// SetTitle sets the terminal window title.
func SetTitle(s string) string {
	return ESC + "]0;" + s + "\a"
}

// Cell is one terminal cell: the pixel in the upper and in the lower half.
type Cell struct {
	Top, Bottom pixel.Pixel
}

// WriteCell writes the full SGR sequence and the half block for c. The
// alpha channel is ignored.
func WriteCell(sb *strings.Builder, c Cell) {
	sb.WriteString("\x1b[0;38;2;")
	writeRGB(sb, c.Top)
	sb.WriteString(";48;2;")
	writeRGB(sb, c.Bottom)
	sb.WriteByte('m')
	sb.WriteRune(HalfBlock)
}

func writeRGB(sb *strings.Builder, p pixel.Pixel) {
	sb.WriteString(strconv.Itoa(int(p.R)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(p.G)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(p.B)))
}
