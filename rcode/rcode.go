// SPDX-License-Identifier: GPL-2.0-or-later

// Package rcode maps errors of file touching operations to the engine's
// small result taxonomy.
package rcode

import (
	"errors"
	"io/fs"
)

type Code int

const (
	FAIL    Code = 0
	OK      Code = 1
	NO_FILE Code = -1
)

func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case NO_FILE:
		return "NO_FILE"
	default:
		return "FAIL"
	}
}

// Of returns OK for a nil error, NO_FILE for anything wrapping
// fs.ErrNotExist and FAIL otherwise.
func Of(err error) Code {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, fs.ErrNotExist):
		return NO_FILE
	default:
		return FAIL
	}
}
