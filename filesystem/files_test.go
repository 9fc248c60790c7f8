// SPDX-License-Identifier: GPL-2.0-or-later

package filesystem

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"stmengine/pack"
)

func setupDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"doc1.txt":     "this is the first doc\r\n",
		"doc5.txt":     "only on disk",
		"sub/doc6.txt": "nested",
	} {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	p := pack.New()
	p.AddBytes("doc1.txt", []byte("this is the first doc 2. version\r\n"))
	p.AddBytes("doc2.txt", []byte("this is the second doc 2. version"))
	if err := p.SavePack(filepath.Join(dir, "pak0.stm")); err != nil {
		t.Fatal(err)
	}
	return dir
}

func readAll(t *testing.T, ns *NameSpace, name string) string {
	t.Helper()
	f, err := ns.Open(name)
	if err != nil {
		t.Fatalf("No file %s: %v", name, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("Could not read file: %v", err)
	}
	return string(b)
}

func TestPackFileSystem(t *testing.T) {
	p := pack.New()
	p.AddBytes("doc1.txt", []byte("this is the first doc\r\n"))
	pfs := Pack(p)
	f, err := pfs.Open("doc1.txt")
	if err != nil {
		t.Fatalf("Could not open doc1: %v", err)
	}
	b, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("Could not read file: %v", err)
	}
	if string(b) != "this is the first doc\r\n" {
		t.Errorf("contents: %v", string(b))
	}
	fi, err := pfs.Stat("doc1.txt")
	if err != nil || fi.Size() != int64(len(b)) {
		t.Errorf("Stat = %v, %v", fi, err)
	}
}

func TestFilesystemOrder(t *testing.T) {
	var ns NameSpace
	if _, err := UseDir(&ns, setupDir(t)); err != nil {
		t.Fatal(err)
	}
	if got := readAll(t, &ns, "doc1.txt"); got != "this is the first doc 2. version\r\n" {
		t.Errorf("contents: %q", got)
	}
	if got := readAll(t, &ns, "/doc2.txt"); got != "this is the second doc 2. version" {
		t.Errorf("contents: %q", got)
	}
	if got := readAll(t, &ns, "doc5.txt"); got != "only on disk" {
		t.Errorf("contents: %q", got)
	}
	if got := readAll(t, &ns, "sub/../sub/doc6.txt"); got != "nested" {
		t.Errorf("contents: %q", got)
	}
	if s := ns.Sources(); len(s) != 2 {
		t.Errorf("Sources() = %v", s)
	}
}

func TestFilesystemMissing(t *testing.T) {
	var ns NameSpace
	ns.Bind(OS(t.TempDir()), BindReplace)
	if _, err := ns.Open("missing.spr"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open(missing) = %v", err)
	}
	if _, err := ns.Stat("missing.spr"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Stat(missing) = %v", err)
	}
}

func TestExt(t *testing.T) {
	tests := []struct {
		in, ext, stripped string
	}{
		{"gfx/ball.spr", ".spr", "gfx/ball"},
		{"gfx.d/ball", "", "gfx.d/ball"},
		{"a.b.png", ".png", "a.b"},
	}
	for _, test := range tests {
		if got := Ext(test.in); got != test.ext {
			t.Errorf("Ext(%q) = %q, want %q", test.in, got, test.ext)
		}
		if got := StripExt(test.in); got != test.stripped {
			t.Errorf("StripExt(%q) = %q, want %q", test.in, got, test.stripped)
		}
	}
}
