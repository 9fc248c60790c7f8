// SPDX-License-Identifier: GPL-2.0-or-later

// Package image decodes the common image formats into NRGBA buffers. It is
// the collaborator behind loading sprites from ordinary image files.
package image

import (
	"bufio"
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Load decodes the image in r. name is only used to detect formats without
// a magic number (tga) and for error messages.
func Load(name string, r io.Reader) (*image.NRGBA, error) {
	if strings.EqualFold(ext(name), ".tga") {
		i, err := loadTGA(r)
		if err != nil {
			return nil, errors.Wrapf(err, "decode %s", name)
		}
		return i, nil
	}
	i, _, err := image.Decode(bufio.NewReader(r))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", name)
	}
	return NRGBA(i), nil
}

// LoadFile decodes the image file name.
func LoadFile(name string) (*image.NRGBA, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "open image")
	}
	defer f.Close()
	return Load(name, f)
}

// NRGBA returns i as *image.NRGBA with bounds starting at (0,0). The result
// may share memory with i.
func NRGBA(i image.Image) *image.NRGBA {
	if n, ok := i.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := i.Bounds()
	n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(n, n.Rect, i, b.Min, draw.Src)
	return n
}

// Write encodes i as png.
func Write(w io.Writer, i image.Image) error {
	return png.Encode(w, i)
}

// WriteFile stores i as png file.
func WriteFile(name string, i image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Errorf("create %s: %v", name, err)
	}
	if err := png.Encode(f, i); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", name)
	}
	return f.Close()
}

// Resize scales i to exactly w x h using nearest neighbour sampling, which
// keeps pixel art crisp.
func Resize(i image.Image, w, h int) *image.NRGBA {
	return imaging.Resize(i, w, h, imaging.NearestNeighbor)
}

// Fit scales i down to fit into w x h keeping the aspect ratio.
func Fit(i image.Image, w, h int) *image.NRGBA {
	return imaging.Fit(i, w, h, imaging.NearestNeighbor)
}

func ext(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 && !strings.ContainsAny(name[i:], `/\`) {
		return name[i:]
	}
	return ""
}

type tgaHeader struct {
	IDLength       uint8
	ColormapType   uint8
	ImageType      uint8
	ColormapIndex  uint16
	ColormapLength uint16
	ColormapSize   uint8
	XOrigin        uint16
	YOrigin        uint16
	Width          uint16
	Height         uint16
	PixelSize      uint8
	Attributes     uint8
}

const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
	// tgaTopLeft marks images stored top row first.
	tgaTopLeft = 0x20
)

func loadTGA(r io.Reader) (*image.NRGBA, error) {
	var header tgaHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, errors.Wrap(err, "invalid tga header")
	}
	if header.ImageType != tgaTrueColor && header.ImageType != tgaTrueColorRLE {
		return nil, errors.Errorf("tga is not a type 2 or type 10 but %d", header.ImageType)
	}
	if header.ColormapType != 0 || (header.PixelSize != 32 && header.PixelSize != 24) {
		return nil, errors.Errorf("tga is not 24bit or 32bit")
	}

	width, height := int(header.Width), int(header.Height)
	nrgba := image.NewNRGBA(image.Rect(0, 0, width, height))

	if header.IDLength != 0 {
		// skip Image ID
		if _, err := io.CopyN(io.Discard, r, int64(header.IDLength)); err != nil {
			return nil, errors.Wrap(err, "tga image id")
		}
	}
	// ColormapType is 0 so no color map data. Next is image data.

	bpp := int(header.PixelSize) / 8
	src := make([]byte, width*height*bpp)
	if header.ImageType == tgaTrueColor {
		if _, err := io.ReadFull(r, src); err != nil {
			return nil, errors.Wrap(err, "not enough pixels")
		}
	} else if err := readTGARLE(r, src, bpp); err != nil {
		return nil, err
	}

	for y := 0; y < height; y++ {
		row := y
		if header.Attributes&tgaTopLeft == 0 {
			row = height - 1 - y
		}
		for x := 0; x < width; x++ {
			s := src[(row*width+x)*bpp:]
			c := color.NRGBA{R: s[2], G: s[1], B: s[0], A: 255}
			if bpp == 4 {
				c.A = s[3]
			}
			nrgba.SetNRGBA(x, y, c)
		}
	}
	return nrgba, nil
}

func readTGARLE(r io.Reader, dst []byte, bpp int) error {
	var head [1]byte
	px := make([]byte, bpp)
	for len(dst) > 0 {
		if _, err := io.ReadFull(r, head[:]); err != nil {
			return errors.Wrap(err, "tga rle packet")
		}
		n := int(head[0]&0x7f+1) * bpp
		if n > len(dst) {
			return errors.New("tga rle packet overruns image")
		}
		if head[0]&0x80 != 0 {
			if _, err := io.ReadFull(r, px); err != nil {
				return errors.Wrap(err, "tga rle pixel")
			}
			for i := 0; i < n; i += bpp {
				copy(dst[i:], px)
			}
		} else if _, err := io.ReadFull(r, dst[:n]); err != nil {
			return errors.Wrap(err, "tga raw packet")
		}
		dst = dst[n:]
	}
	return nil
}
