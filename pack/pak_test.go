// SPDX-License-Identifier: GPL-2.0-or-later

package pack

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"stmengine/rcode"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("could not write %s: %v", p, err)
	}
	return p
}

func TestPackRoundTrip(t *testing.T) {
	dir := t.TempDir()
	f1 := writeFile(t, dir, "doc1.txt", "this is the first doc\r\n")
	f2 := writeFile(t, dir, "doc2.bin", string([]byte{0, 1, 2, 0xff, 0x5a, 0xa5}))
	pakFile := filepath.Join(dir, "test.pak")

	p := New()
	if err := p.AddToPack(f1); err != nil {
		t.Fatalf("AddToPack(%s): %v", f1, err)
	}
	if err := p.AddToPack(f2); err != nil {
		t.Fatalf("AddToPack(%s): %v", f2, err)
	}
	if err := p.SavePack(pakFile); err != nil {
		t.Fatalf("SavePack: %v", err)
	}
	if p.String() != pakFile {
		t.Errorf("pack String error: want %v got %v", pakFile, p.String())
	}
	p.ClearPack()
	if p.Len() != 0 {
		t.Fatalf("Len() after ClearPack = %d", p.Len())
	}
	if err := p.LoadPack(pakFile); err != nil {
		t.Fatalf("LoadPack: %v", err)
	}
	if got := p.Names(); len(got) != 2 || got[0] != f1 || got[1] != f2 {
		t.Errorf("Names() = %v, want [%s %s]", got, f1, f2)
	}
	for _, f := range []string{f1, f2} {
		want, _ := os.ReadFile(f)
		s, err := p.GetStreamBuffer(f)
		if err != nil {
			t.Fatalf("GetStreamBuffer(%s): %v", f, err)
		}
		got, err := io.ReadAll(s)
		if err != nil {
			t.Fatalf("Could not read %s: %v", f, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("%s contents is %q, want %q", f, got, want)
		}
	}
	e1, _ := p.Entry(f1)
	e2, _ := p.Entry(f2)
	if e1.ID != 0 || e2.ID != 1 {
		t.Errorf("ids = %d,%d, want 0,1", e1.ID, e2.ID)
	}
	if e2.Offset != e1.Offset+e1.Size {
		t.Errorf("offsets not contiguous: %+v %+v", e1, e2)
	}
	st, err := os.Stat(pakFile)
	if err != nil {
		t.Fatal(err)
	}
	if int64(e2.Offset+e2.Size) != st.Size() {
		t.Errorf("last entry ends at %d, file size %d", e2.Offset+e2.Size, st.Size())
	}
}

func TestHeaderLayout(t *testing.T) {
	p := New()
	if err := p.AddBytes("a", []byte("xy")); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	b := buf.Bytes()
	if len(b) != 4+4+1+12+2 {
		t.Fatalf("pack size = %d", len(b))
	}
	le := binary.LittleEndian
	if c := le.Uint32(b[0:]); c != 1 {
		t.Errorf("entry count = %d", c)
	}
	if l := le.Uint32(b[4:]); l != 1 {
		t.Errorf("name length = %d", l)
	}
	if b[8] != 'a' {
		t.Errorf("name = %q", b[8])
	}
	if id := le.Uint32(b[9:]); id != 0 {
		t.Errorf("id = %d", id)
	}
	if off := le.Uint32(b[13:]); off != 21 {
		t.Errorf("offset = %d, want 21", off)
	}
	if size := le.Uint32(b[17:]); size != 2 {
		t.Errorf("size = %d", size)
	}
	payload := append([]byte(nil), b[21:]...)
	if string(payload) == "xy" {
		t.Errorf("payload is stored unscrambled")
	}
	unscramble(payload, DefaultKey)
	if string(payload) != "xy" {
		t.Errorf("unscrambled payload = %q", payload)
	}
}

func TestEmptyEntriesKeepOrder(t *testing.T) {
	files := []struct{ name, data string }{
		{"a", ""},
		{"b", "xyz"},
		{"c", ""},
		{"d", "q"},
		{"e", ""},
	}
	want := []string{"a", "b", "c", "d", "e"}
	// map iteration order varies between runs, repeat to catch it
	for range 50 {
		p := New()
		for _, f := range files {
			if err := p.AddBytes(f.name, []byte(f.data)); err != nil {
				t.Fatal(err)
			}
		}
		if got := p.Names(); !slices.Equal(got, want) {
			t.Fatalf("Names() = %v, want %v", got, want)
		}
		var buf bytes.Buffer
		if _, err := p.WriteTo(&buf); err != nil {
			t.Fatal(err)
		}
		l := New()
		if err := l.Load(&buf); err != nil {
			t.Fatalf("Load: %v", err)
		}
		if got := l.Names(); !slices.Equal(got, want) {
			t.Fatalf("Names() after Load = %v, want %v", got, want)
		}
		for i, f := range files {
			e, _ := l.Entry(f.name)
			if e.ID != uint32(i) {
				t.Errorf("%s: id = %d, want %d", f.name, e.ID, i)
			}
			if got, err := l.ReadFile(f.name); err != nil || string(got) != f.data {
				t.Errorf("%s = %q, %v, want %q", f.name, got, err, f.data)
			}
		}
	}
}

// gappyPack returns a pack file whose ids are not sequential and whose
// payload has an unused byte between its two files.
func gappyPack() []byte {
	var b bytes.Buffer
	le := binary.LittleEndian
	put := func(v uint32) { binary.Write(&b, le, v) }
	hs := uint32(4 + 2*(entryHeaderSize+1))
	put(2)
	put(1)
	b.WriteString("x")
	put(5)
	put(hs)
	put(2)
	put(1)
	b.WriteString("y")
	put(2)
	put(hs + 3)
	put(1)
	payload := []byte("ab-c")
	scramble(payload, DefaultKey)
	b.Write(payload)
	return b.Bytes()
}

func TestAddAfterLoad(t *testing.T) {
	p := New()
	if err := p.Load(bytes.NewReader(gappyPack())); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, _ := p.ReadFile("y"); string(got) != "c" {
		t.Errorf("y = %q, want c", got)
	}
	if err := p.AddBytes("z", []byte("zz")); err != nil {
		t.Fatal(err)
	}
	ids := map[string]uint32{"x": 5, "y": 2, "z": 6}
	for n, id := range ids {
		if e, _ := p.Entry(n); e.ID != id {
			t.Errorf("%s: id = %d, want %d", n, e.ID, id)
		}
	}
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	saved := buf.Bytes()
	// Entry reports the offsets WriteTo used
	for _, n := range p.Names() {
		e, _ := p.Entry(n)
		if int(e.Offset+e.Size) > len(saved) {
			t.Fatalf("%s: %+v outside of %d bytes", n, e, len(saved))
		}
		got := append([]byte(nil), saved[e.Offset:e.Offset+e.Size]...)
		unscramble(got, DefaultKey)
		want, _ := p.ReadFile(n)
		if !bytes.Equal(got, want) {
			t.Errorf("%s at %d = %q, want %q", n, e.Offset, got, want)
		}
	}
	l := New()
	if err := l.Load(bytes.NewReader(saved)); err != nil {
		t.Fatalf("Load of saved pack: %v", err)
	}
	if got := l.Names(); !slices.Equal(got, []string{"x", "y", "z"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestScrambleReversible(t *testing.T) {
	for _, key := range []byte{0, DefaultKey, 0xff} {
		b := make([]byte, 256)
		for i := range b {
			b[i] = byte(i)
		}
		scramble(b, key)
		unscramble(b, key)
		for i := range b {
			if b[i] != byte(i) {
				t.Fatalf("key %#x: byte %d became %d", key, i, b[i])
			}
		}
	}
}

func TestLoadMissingPack(t *testing.T) {
	p := New()
	if err := p.AddBytes("keep", []byte("1")); err != nil {
		t.Fatal(err)
	}
	err := p.LoadPack(filepath.Join(t.TempDir(), "missing.pak"))
	if c := rcode.Of(err); c != rcode.NO_FILE {
		t.Errorf("LoadPack(missing) = %v (%v), want NO_FILE", c, err)
	}
	if p.Len() != 0 {
		t.Errorf("catalog not empty after failed load: %v", p.Names())
	}
}

func TestLoadMalformedPack(t *testing.T) {
	dir := t.TempDir()
	tests := map[string][]byte{
		"empty":     {},
		"count":     {0xff, 0xff, 0xff, 0x7f},
		"truncated": {1, 0, 0, 0, 3, 0, 0, 0, 'a'},
		"range":     {1, 0, 0, 0, 1, 0, 0, 0, 'a', 0, 0, 0, 0, 21, 0, 0, 0, 9, 0, 0, 0},
		"overlap":   {1, 0, 0, 0, 1, 0, 0, 0, 'a', 0, 0, 0, 0, 2, 0, 0, 0, 1, 0, 0, 0},
	}
	for name, data := range tests {
		f := filepath.Join(dir, name+".pak")
		if err := os.WriteFile(f, data, 0644); err != nil {
			t.Fatal(err)
		}
		p := New()
		p.AddBytes("old", []byte("old"))
		err := p.LoadPack(f)
		if c := rcode.Of(err); c != rcode.FAIL {
			t.Errorf("%s: LoadPack = %v (%v), want FAIL", name, c, err)
		}
		if p.Len() != 0 {
			t.Errorf("%s: catalog not empty after failed load", name)
		}
	}
}

func TestSavePackFailure(t *testing.T) {
	p := New()
	p.AddBytes("a", []byte("a"))
	err := p.SavePack(filepath.Join(t.TempDir(), "no", "such", "dir.pak"))
	if c := rcode.Of(err); c != rcode.FAIL {
		t.Errorf("SavePack into missing dir = %v (%v), want FAIL", c, err)
	}
}

func TestAddMissingFile(t *testing.T) {
	p := New()
	err := p.AddToPack(filepath.Join(t.TempDir(), "nope.png"))
	if c := rcode.Of(err); c != rcode.NO_FILE {
		t.Errorf("AddToPack(missing) = %v, want NO_FILE", c)
	}
	if p.Len() != 0 {
		t.Errorf("Len() = %d", p.Len())
	}
}

func TestAddDuplicate(t *testing.T) {
	p := New()
	if err := p.AddBytes("a", []byte("1")); err != nil {
		t.Fatal(err)
	}
	if err := p.AddBytes("a", []byte("2")); err == nil {
		t.Errorf("adding a twice succeeded")
	}
	b, _ := p.ReadFile("a")
	if string(b) != "1" {
		t.Errorf("a = %q", b)
	}
}

func TestAddAll(t *testing.T) {
	dir := t.TempDir()
	var names []string
	for _, n := range []string{"c", "a", "b", "d"} {
		names = append(names, writeFile(t, dir, n, "content "+n))
	}
	p := New()
	if err := p.AddAll(context.Background(), names...); err != nil {
		t.Fatalf("AddAll: %v", err)
	}
	got := p.Names()
	for i := range names {
		if got[i] != names[i] {
			t.Fatalf("Names() = %v, want %v", got, names)
		}
	}

	q := New()
	err := q.AddAll(context.Background(), names[0], filepath.Join(dir, "missing"))
	if err == nil {
		t.Fatalf("AddAll with missing file succeeded")
	}
	if q.Len() != 0 {
		t.Errorf("AddAll failure added %v", q.Names())
	}
}

func TestStreamMissing(t *testing.T) {
	p := New()
	_, err := p.GetStreamBuffer("nothing")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("GetStreamBuffer(nothing) = %v", err)
	}
	if _, err := p.Open("nothing"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open(nothing) = %v", err)
	}
}

func TestStreamInvalidatedByClear(t *testing.T) {
	p := New()
	p.AddBytes("a", []byte("abc"))
	s, err := p.GetStreamBuffer("a")
	if err != nil {
		t.Fatal(err)
	}
	p.ClearPack()
	p.ClearPack()
	if _, err := s.Read(make([]byte, 1)); !errors.Is(err, ErrCleared) {
		t.Errorf("Read after ClearPack = %v, want ErrCleared", err)
	}
}

func TestStreamSeek(t *testing.T) {
	p := New()
	p.AddBytes("x", []byte("0123456789"))
	p.AddBytes("y", []byte("abcdef"))
	s, _ := p.GetStreamBuffer("y")
	if s.Size() != 6 || s.Len() != 6 {
		t.Fatalf("Size() = %d Len() = %d", s.Size(), s.Len())
	}
	if _, err := s.Seek(-2, io.SeekEnd); err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(s)
	if string(b) != "ef" {
		t.Errorf("read after seek = %q", b)
	}
	r := make([]byte, 3)
	n, err := s.ReadAt(r, 1)
	if n != 3 || err != nil || string(r) != "bcd" {
		t.Errorf("ReadAt = %d %v %q", n, err, r)
	}
	sr, _ := p.Open("x")
	all, _ := io.ReadAll(sr)
	if string(all) != "0123456789" {
		t.Errorf("Open(x) = %q", all)
	}
}

func TestKeyedPack(t *testing.T) {
	var buf bytes.Buffer
	p := New(WithKey(0x13))
	p.AddBytes("k", []byte("keyed"))
	if _, err := p.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	q := New(WithKey(0x13))
	if err := q.Load(&buf); err != nil {
		t.Fatal(err)
	}
	b, _ := q.ReadFile("k")
	if string(b) != "keyed" {
		t.Errorf("k = %q", b)
	}
}
