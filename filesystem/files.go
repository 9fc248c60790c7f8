// SPDX-License-Identifier: GPL-2.0-or-later

package filesystem

import (
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"stmengine/pack"
)

type File interface {
	io.ReadSeeker
	io.ReaderAt
	io.Closer
}

// FileSystem is one source of files inside a NameSpace.
type FileSystem interface {
	Open(name string) (File, error)
	Stat(name string) (fs.FileInfo, error)
	String() string
}

type BindMode int

const (
	// BindReplace drops all sources bound before.
	BindReplace BindMode = iota
	// BindBefore makes the new source shadow the existing ones.
	BindBefore
	// BindAfter makes the new source a fallback.
	BindAfter
)

// NameSpace is a union of file systems. Lookups walk the sources in order
// and return the first hit.
type NameSpace struct {
	mutex   sync.RWMutex
	sources []FileSystem
}

func (ns *NameSpace) Bind(f FileSystem, mode BindMode) {
	ns.mutex.Lock()
	defer ns.mutex.Unlock()
	switch mode {
	case BindReplace:
		ns.sources = []FileSystem{f}
	case BindBefore:
		ns.sources = append([]FileSystem{f}, ns.sources...)
	default:
		ns.sources = append(ns.sources, f)
	}
}

// Sources returns the bound sources in lookup order.
func (ns *NameSpace) Sources() []string {
	ns.mutex.RLock()
	defer ns.mutex.RUnlock()
	r := make([]string, 0, len(ns.sources))
	for _, s := range ns.sources {
		r = append(r, s.String())
	}
	return r
}

func clean(name string) string {
	// inside the name space there is no 'root'. all files are relative to '.'
	return strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(name)), "/")
}

func (ns *NameSpace) Open(name string) (File, error) {
	ns.mutex.RLock()
	defer ns.mutex.RUnlock()
	n := clean(name)
	for _, s := range ns.sources {
		f, err := s.Open(n)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func (ns *NameSpace) Stat(name string) (fs.FileInfo, error) {
	ns.mutex.RLock()
	defer ns.mutex.RUnlock()
	n := clean(name)
	for _, s := range ns.sources {
		fi, err := s.Stat(n)
		if err == nil {
			return fi, nil
		}
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

func (ns *NameSpace) ReadFile(name string) ([]byte, error) {
	file, err := ns.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

type osFileSystem struct {
	root string
}

// OS returns a FileSystem reading below the directory root.
func OS(root string) FileSystem {
	return osFileSystem{root}
}

func (o osFileSystem) Open(name string) (File, error) {
	f, err := os.Open(filepath.Join(o.root, filepath.FromSlash(name)))
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.IsDir() {
		f.Close()
		return nil, errors.Errorf("%s is a directory", name)
	}
	return f, nil
}

func (o osFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(filepath.Join(o.root, filepath.FromSlash(name)))
}

func (o osFileSystem) String() string {
	return "os(" + o.root + ")"
}

type packFileSystem struct {
	p *pack.ResourcePack
}

// Pack returns a FileSystem serving the entries of p.
func Pack(p *pack.ResourcePack) FileSystem {
	return packFileSystem{p}
}

type closer struct {
	*io.SectionReader
}

func (*closer) Close() error {
	return nil
}

type fileInfo struct {
	name string // base name of the file
	size int64  // length in bytes for regular files; system-dependent for others
}

func (f *fileInfo) Name() string {
	return f.name
}
func (f *fileInfo) Size() int64 {
	return f.size
}
func (f *fileInfo) Mode() fs.FileMode {
	return 0444
}
func (f *fileInfo) ModTime() time.Time {
	return time.Time{}
}
func (f *fileInfo) IsDir() bool {
	return false
}
func (f *fileInfo) Sys() any {
	return nil
}

func (p packFileSystem) Open(name string) (File, error) {
	f, err := p.p.Open(name)
	if err != nil {
		return nil, err
	}
	return &closer{f}, nil
}

func (p packFileSystem) Stat(name string) (fs.FileInfo, error) {
	e, ok := p.p.Entry(name)
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return &fileInfo{
		name: path.Base(name),
		size: int64(e.Size),
	}, nil
}

func (p packFileSystem) String() string {
	return "pack(" + p.p.String() + ")"
}

// UseDir binds dir and, shadowing it, every *.stm pack inside dir in
// lexical order, so later packs win. opts are applied to every pack.
func UseDir(ns *NameSpace, dir string, opts ...pack.Option) ([]*pack.ResourcePack, error) {
	ns.Bind(OS(dir), BindReplace)
	matches, err := filepath.Glob(filepath.Join(dir, "*.stm"))
	if err != nil {
		return nil, err
	}
	var packs []*pack.ResourcePack
	for _, m := range matches {
		p := pack.New(opts...)
		if err := p.LoadPack(m); err != nil {
			return packs, errors.Wrapf(err, "bind %s", m)
		}
		ns.Bind(Pack(p), BindBefore)
		packs = append(packs, p)
	}
	return packs, nil
}

func isSep(c uint8) bool {
	return c == '/' || c == '\\'
}

func Ext(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

func StripExt(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return path
}
