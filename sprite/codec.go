// SPDX-License-Identifier: GPL-2.0-or-later

package sprite

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	simage "stmengine/image"
	"stmengine/pack"
	"stmengine/pixel"
)

// SprExt is the extension of files in the sprite format.
const SprExt = ".spr"

// maxDimension bounds width and height read from files. Anything larger is
// treated as a broken header.
const maxDimension = 1 << 14

// chunkPixels is the number of pixels Decode reads at a time.
const chunkPixels = 1 << 14

// The .spr layout is little endian:
//
//	[width int32][height int32][width*height pixels as r,g,b,a bytes]

type sprHeader struct {
	Width  int32
	Height int32
}

// Decode reads a sprite in .spr format.
func Decode(r io.Reader) (*Sprite, error) {
	var h sprHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrap(err, "invalid spr header")
	}
	if h.Width < 0 || h.Height < 0 || h.Width > maxDimension || h.Height > maxDimension {
		return nil, errors.Errorf("invalid spr size %dx%d", h.Width, h.Height)
	}
	n := int(h.Width) * int(h.Height)
	if l, ok := r.(interface{ Len() int }); ok && l.Len() < 4*n {
		return nil, errors.Errorf("not enough pixels: %d bytes for %dx%d", l.Len(), h.Width, h.Height)
	}
	// The buffer grows with the bytes actually read, a header alone does not
	// allocate the full image.
	data := make([]pixel.Pixel, 0, min(n, chunkPixels))
	buf := make([]byte, 4*min(n, chunkPixels))
	for len(data) < n {
		b := buf[:4*min(n-len(data), chunkPixels)]
		if _, err := io.ReadFull(r, b); err != nil {
			return nil, errors.Wrap(err, "not enough pixels")
		}
		for i := 0; i < len(b); i += 4 {
			data = append(data, pixel.RGBA(b[i], b[i+1], b[i+2], b[i+3]))
		}
	}
	return &Sprite{width: int(h.Width), height: int(h.Height), data: data}, nil
}

// Encode writes the sprite in .spr format.
func (s *Sprite) Encode(w io.Writer) error {
	h := sprHeader{Width: int32(s.width), Height: int32(s.height)}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	buf := make([]byte, 4*len(s.data))
	for i, p := range s.data {
		buf[i*4] = p.R
		buf[i*4+1] = p.G
		buf[i*4+2] = p.B
		buf[i*4+3] = p.A
	}
	_, err := w.Write(buf)
	return err
}

// open returns name from p or, if p is nil, from disk.
func open(name string, p *pack.ResourcePack) (io.Reader, func(), error) {
	if p != nil {
		s, err := p.GetStreamBuffer(name)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return bufio.NewReader(f), func() { f.Close() }, nil
}

func (s *Sprite) replace(n *Sprite) {
	s.width = n.width
	s.height = n.height
	s.data = n.data
}

// LoadFromSprFile loads a .spr file from disk or, if p is not nil, from the
// resource pack. On error the sprite is unchanged.
func (s *Sprite) LoadFromSprFile(name string, p *pack.ResourcePack) error {
	r, done, err := open(name, p)
	if err != nil {
		return errors.Wrapf(err, "load sprite %s", name)
	}
	defer done()
	n, err := Decode(r)
	if err != nil {
		return errors.Wrapf(err, "load sprite %s", name)
	}
	s.replace(n)
	return nil
}

// SaveToSprFile stores the sprite as .spr file.
func (s *Sprite) SaveToSprFile(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Errorf("create sprite %s: %v", name, err)
	}
	w := bufio.NewWriter(f)
	if err := s.Encode(w); err != nil {
		f.Close()
		return errors.Wrapf(err, "write sprite %s", name)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "write sprite %s", name)
	}
	return f.Close()
}

// LoadFromFile loads any supported image format from disk or, if p is not
// nil, from the resource pack. On error the sprite is unchanged.
func (s *Sprite) LoadFromFile(name string, p *pack.ResourcePack) error {
	r, done, err := open(name, p)
	if err != nil {
		return errors.Wrapf(err, "load image %s", name)
	}
	defer done()
	n, err := Read(name, r)
	if err != nil {
		return err
	}
	s.replace(n)
	return nil
}

// Read decodes r as .spr or as image depending on the extension of name.
func Read(name string, r io.Reader) (*Sprite, error) {
	if strings.HasSuffix(strings.ToLower(name), SprExt) {
		n, err := Decode(r)
		if err != nil {
			return nil, errors.Wrapf(err, "load sprite %s", name)
		}
		return n, nil
	}
	i, err := simage.Load(name, r)
	if err != nil {
		return nil, err
	}
	return FromImage(i), nil
}

// Load returns a new sprite read from disk or from p, see Read.
func Load(name string, p *pack.ResourcePack) (*Sprite, error) {
	r, done, err := open(name, p)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", name)
	}
	defer done()
	return Read(name, r)
}
