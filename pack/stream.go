// SPDX-License-Identifier: GPL-2.0-or-later

package pack

import (
	"io"

	"github.com/pkg/errors"
)

// ErrCleared is returned by streams whose pack was cleared or reloaded.
var ErrCleared = errors.New("pack was cleared")

// Stream is a read only view of one file inside a pack. It stays valid
// until the pack is cleared or reloaded.
type Stream struct {
	p     *ResourcePack
	gen   uint64
	start int64
	size  int64
	off   int64
}

func (s *Stream) data() ([]byte, error) {
	if s.p.gen != s.gen {
		return nil, ErrCleared
	}
	return s.p.payload[s.start : s.start+s.size], nil
}

// Size returns the size of the file.
func (s *Stream) Size() int64 {
	return s.size
}

// Len returns the number of unread bytes.
func (s *Stream) Len() int {
	if s.off >= s.size {
		return 0
	}
	return int(s.size - s.off)
}

func (s *Stream) Read(b []byte) (int, error) {
	d, err := s.data()
	if err != nil {
		return 0, err
	}
	if s.off >= s.size {
		return 0, io.EOF
	}
	n := copy(b, d[s.off:])
	s.off += int64(n)
	return n, nil
}

func (s *Stream) ReadAt(b []byte, off int64) (int, error) {
	d, err := s.data()
	if err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, errors.New("pack.Stream.ReadAt: negative offset")
	}
	if off >= s.size {
		return 0, io.EOF
	}
	n := copy(b, d[off:])
	if n < len(b) {
		return n, io.EOF
	}
	return n, nil
}

func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = s.off + offset
	case io.SeekEnd:
		abs = s.size + offset
	default:
		return 0, errors.New("pack.Stream.Seek: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("pack.Stream.Seek: negative position")
	}
	s.off = abs
	return abs, nil
}

// Bytes returns a copy of the whole file, independent of the read position.
func (s *Stream) Bytes() ([]byte, error) {
	d, err := s.data()
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), d...), nil
}
