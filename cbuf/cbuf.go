// SPDX-License-Identifier: GPL-2.0-or-later

// Package cbuf buffers command text and executes it one line at a time.
// Lines end at a newline or at a ';' outside of quotes.
package cbuf

import (
	"github.com/pkg/errors"

	"stmengine/cmd"
)

// Efunc tries to execute a. It returns false if it does not know the
// command.
type Efunc func(c *CommandBuffer, a cmd.Arguments) (bool, error)

type CommandBuffer struct {
	buf       string
	executors []Efunc
}

// SetCommandExecutors sets the executors tried in order for every line.
func (c *CommandBuffer) SetCommandExecutors(e []Efunc) {
	c.executors = e
}

// AddText appends text after everything already buffered.
func (c *CommandBuffer) AddText(text string) {
	c.buf = c.buf + text
}

// InsertText puts text in front of everything already buffered, so it runs
// next.
func (c *CommandBuffer) InsertText(text string) {
	c.buf = text + "\n" + c.buf
}

// Len returns the number of buffered bytes.
func (c *CommandBuffer) Len() int {
	return len(c.buf)
}

// Clear drops all buffered text.
func (c *CommandBuffer) Clear() {
	c.buf = ""
}

// nextLine removes the first line from the buffer.
func (c *CommandBuffer) nextLine() string {
	i := 0
	quote := false
LineLoop:
	for i = 0; i < len(c.buf); i++ {
		switch c.buf[i] {
		case '"':
			quote = !quote
		case ';':
			if !quote {
				break LineLoop
			}
		case '\n':
			break LineLoop
		}
	}
	// do not put ';' or '\n' in line
	line := c.buf[:i]
	// but remove this char as well
	if i < len(c.buf) {
		i++
	}
	c.buf = c.buf[i:]
	return line
}

// Execute runs buffered lines until the buffer is empty. On error the
// failing line is dropped and the rest stays buffered.
func (c *CommandBuffer) Execute() error {
	for len(c.buf) != 0 {
		if err := c.execute(c.nextLine()); err != nil {
			return err
		}
	}
	return nil
}

func (c *CommandBuffer) execute(line string) error {
	a := cmd.Parse(line)
	args := a.Args()
	if len(args) == 0 {
		return nil // no tokens
	}
	for _, e := range c.executors {
		if ok, err := e(c, a); err != nil {
			return errors.Wrapf(err, "%s", args[0])
		} else if ok {
			return nil
		}
	}
	return errors.Errorf("unknown command %q", args[0].String())
}
