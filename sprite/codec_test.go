// SPDX-License-Identifier: GPL-2.0-or-later

package sprite

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	simage "stmengine/image"
	"stmengine/pack"
	"stmengine/pixel"
	"stmengine/rcode"
)

func equalSprites(t *testing.T, got, want *Sprite) {
	t.Helper()
	if got.Width() != want.Width() || got.Height() != want.Height() {
		t.Fatalf("size = %dx%d, want %dx%d", got.Width(), got.Height(), want.Width(), want.Height())
	}
	for i := range want.Data() {
		if got.Data()[i] != want.Data()[i] {
			t.Errorf("pixel %d = %v, want %v", i, got.Data()[i], want.Data()[i])
		}
	}
}

func TestSprFileRoundTrip(t *testing.T) {
	name := filepath.Join(t.TempDir(), "a.spr")
	s := testSprite(6, 5)
	s.SetPixel(1, 1, pixel.RGBA(9, 8, 7, 6))
	if err := s.SaveToSprFile(name); err != nil {
		t.Fatalf("SaveToSprFile: %v", err)
	}
	st, err := os.Stat(name)
	if err != nil {
		t.Fatal(err)
	}
	if st.Size() != 8+6*5*4 {
		t.Errorf("file size = %d, want %d", st.Size(), 8+6*5*4)
	}
	l := New(1, 1)
	if err := l.LoadFromSprFile(name, nil); err != nil {
		t.Fatalf("LoadFromSprFile: %v", err)
	}
	equalSprites(t, l, s)
}

func TestSprHeaderLayout(t *testing.T) {
	var buf bytes.Buffer
	s := New(2, 1)
	s.SetPixel(0, 0, pixel.RGBA(1, 2, 3, 4))
	if err := s.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	want := []byte{2, 0, 0, 0, 1, 0, 0, 0, 1, 2, 3, 4, 0, 0, 0, 255}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("Encode = %v, want %v", buf.Bytes(), want)
	}
}

func TestSprFromPack(t *testing.T) {
	var buf bytes.Buffer
	s := testSprite(3, 3)
	if err := s.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	p := pack.New()
	if err := p.AddBytes("gfx/a.spr", buf.Bytes()); err != nil {
		t.Fatal(err)
	}
	l := New(0, 0)
	if err := l.LoadFromSprFile("gfx/a.spr", p); err != nil {
		t.Fatalf("LoadFromSprFile: %v", err)
	}
	equalSprites(t, l, s)
}

func TestSprMissing(t *testing.T) {
	s := testSprite(2, 2)
	before := s.Clone()
	err := s.LoadFromSprFile(filepath.Join(t.TempDir(), "none.spr"), nil)
	if got := rcode.Of(err); got != rcode.NO_FILE {
		t.Errorf("LoadFromSprFile(missing) = %v, want NO_FILE", got)
	}
	equalSprites(t, s, before)

	err = s.LoadFromSprFile("none.spr", pack.New())
	if got := rcode.Of(err); got != rcode.NO_FILE {
		t.Errorf("LoadFromSprFile(missing in pack) = %v, want NO_FILE", got)
	}
	equalSprites(t, s, before)
}

func TestSprMalformed(t *testing.T) {
	header := func(w, h int32) []byte {
		var b bytes.Buffer
		binary.Write(&b, binary.LittleEndian, [2]int32{w, h})
		return b.Bytes()
	}
	tests := map[string][]byte{
		"empty":     {},
		"short":     {1, 0},
		"negative":  header(-1, 2),
		"huge":      header(1<<20, 1),
		"truncated": append(header(2, 2), 1, 2, 3, 4),
	}
	dir := t.TempDir()
	for n, data := range tests {
		name := filepath.Join(dir, n+".spr")
		if err := os.WriteFile(name, data, 0644); err != nil {
			t.Fatal(err)
		}
		s := testSprite(2, 1)
		before := s.Clone()
		err := s.LoadFromSprFile(name, nil)
		if got := rcode.Of(err); got != rcode.FAIL {
			t.Errorf("%s: LoadFromSprFile = %v, want FAIL", n, got)
		}
		equalSprites(t, s, before)
	}
}

func TestDecodeLyingHeader(t *testing.T) {
	var hdr bytes.Buffer
	binary.Write(&hdr, binary.LittleEndian, [2]int32{maxDimension, maxDimension})
	readers := map[string]func() io.Reader{
		// bytes.Reader reports its length up front
		"sized": func() io.Reader { return bytes.NewReader(hdr.Bytes()) },
		// MultiReader hides it, the pixels are read in chunks
		"stream": func() io.Reader { return io.MultiReader(bytes.NewReader(hdr.Bytes())) },
	}
	for n, r := range readers {
		var before, after runtime.MemStats
		runtime.GC()
		runtime.ReadMemStats(&before)
		_, err := Decode(r())
		runtime.ReadMemStats(&after)
		if err == nil {
			t.Errorf("%s: Decode succeeded", n)
		}
		if a := after.TotalAlloc - before.TotalAlloc; a > 8<<20 {
			t.Errorf("%s: Decode allocated %d bytes for an 8 byte input", n, a)
		}
	}
}

func TestDecodeChunks(t *testing.T) {
	// more pixels than one chunk, not a multiple of it
	s := testSprite(300, 70)
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(io.MultiReader(&buf))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	equalSprites(t, got, s)
}

func TestSaveSprFailure(t *testing.T) {
	err := New(1, 1).SaveToSprFile(filepath.Join(t.TempDir(), "missing", "a.spr"))
	if got := rcode.Of(err); got != rcode.FAIL {
		t.Errorf("SaveToSprFile = %v, want FAIL", got)
	}
}

func TestLoadFromFilePNG(t *testing.T) {
	s := testSprite(4, 2)
	var buf bytes.Buffer
	if err := simage.Write(&buf, s.Image()); err != nil {
		t.Fatal(err)
	}
	p := pack.New()
	if err := p.AddBytes("a.png", buf.Bytes()); err != nil {
		t.Fatal(err)
	}
	l := New(0, 0)
	if err := l.LoadFromFile("a.png", p); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	equalSprites(t, l, s)

	n, err := Load("a.png", p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	equalSprites(t, n, s)
}
