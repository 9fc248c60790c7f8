// SPDX-License-Identifier: GPL-2.0-or-later

package pack

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"io/fs"
	"math"
	"os"
	"runtime"
	"slices"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultKey is the scramble key used when no other key is configured.
	DefaultKey = 0x5A
	// maxNameLength bounds names on load; a longer name means a broken header.
	maxNameLength = 4096
	// entryHeaderSize is nameLength, id, offset and size without the name.
	entryHeaderSize = 4 * 4
)

// Entry is the catalog record of one file inside a pack.
type Entry struct {
	ID     uint32
	Offset uint32 // absolute position in the pack file
	Size   uint32
}

type packFile struct {
	id    uint32
	start int // position inside the payload
	size  int
}

// ResourcePack bundles named files into a single archive. All payload bytes
// live in one buffer owned by the pack, files only reference ranges of it.
type ResourcePack struct {
	files map[string]*packFile
	// order is the catalog order, the order files were added or loaded in.
	order []string
	// nextID is the id the next added file gets, one above the largest id.
	nextID uint64
	// payload holds the plain (unscrambled) contents of all files.
	payload []byte
	key     byte
	// gen is bumped whenever ranges into payload become invalid.
	gen  uint64
	name string
}

type Option func(*ResourcePack)

// WithKey sets the scramble key applied to the payload on disk.
func WithKey(k byte) Option {
	return func(p *ResourcePack) {
		p.key = k
	}
}

func New(opts ...Option) *ResourcePack {
	p := &ResourcePack{
		files: make(map[string]*packFile),
		key:   DefaultKey,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *ResourcePack) String() string {
	return p.name
}

// Len returns the number of files in the catalog.
func (p *ResourcePack) Len() int {
	return len(p.files)
}

// Names returns the catalog in the order the files were added.
func (p *ResourcePack) Names() []string {
	return slices.Clone(p.order)
}

// Entry returns the catalog record of name. The offset is the one the file
// has (or will have) in the saved pack.
func (p *ResourcePack) Entry(name string) (Entry, bool) {
	q, ok := p.files[name]
	if !ok {
		return Entry{}, false
	}
	return Entry{
		ID:     q.id,
		Offset: uint32(p.layout()[name]),
		Size:   uint32(q.size),
	}, true
}

// layout returns the absolute file offsets WriteTo stores: files follow
// the header back to back in catalog order.
func (p *ResourcePack) layout() map[string]int {
	offsets := make(map[string]int, len(p.order))
	offset := headerSize(p.files)
	for _, n := range p.order {
		offsets[n] = offset
		offset += p.files[n].size
	}
	return offsets
}

func headerSize(files map[string]*packFile) int {
	s := 4
	for n := range files {
		s += entryHeaderSize + len(n)
	}
	return s
}

// AddToPack reads the file name and appends it to the catalog under the same
// name.
func (p *ResourcePack) AddToPack(name string) error {
	if err := p.checkName(name); err != nil {
		return err
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrapf(err, "add %s to pack", name)
	}
	return p.add(name, data)
}

// AddBytes appends data under name.
func (p *ResourcePack) AddBytes(name string, data []byte) error {
	if err := p.checkName(name); err != nil {
		return err
	}
	return p.add(name, data)
}

// AddAll reads all files concurrently and appends them in argument order.
// Either all files are added or none.
func (p *ResourcePack) AddAll(ctx context.Context, names ...string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if err := p.checkName(n); err != nil {
			return err
		}
		if seen[n] {
			return errors.Errorf("%s listed twice", n)
		}
		seen[n] = true
	}
	contents := make([][]byte, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, n := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(n)
			if err != nil {
				return errors.Wrapf(err, "add %s to pack", n)
			}
			contents[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, n := range names {
		if err := p.add(n, contents[i]); err != nil {
			return err
		}
	}
	return nil
}

func (p *ResourcePack) checkName(name string) error {
	if name == "" {
		return errors.New("empty file name")
	}
	if len(name) > maxNameLength {
		return errors.Errorf("file name too long: %d bytes", len(name))
	}
	if _, ok := p.files[name]; ok {
		return errors.Errorf("%s is already in the pack", name)
	}
	return nil
}

func (p *ResourcePack) add(name string, data []byte) error {
	if uint64(headerSize(p.files)+entryHeaderSize+len(name)+len(p.payload)+len(data)) > math.MaxUint32 {
		return errors.Errorf("pack would exceed 4GiB adding %s", name)
	}
	if p.nextID > math.MaxUint32 {
		return errors.Errorf("no entry id left for %s", name)
	}
	p.files[name] = &packFile{
		id:    uint32(p.nextID),
		start: len(p.payload),
		size:  len(data),
	}
	p.order = append(p.order, name)
	p.nextID++
	p.payload = append(p.payload, data...)
	return nil
}

// SavePack writes the catalog followed by the scrambled payload.
func (p *ResourcePack) SavePack(name string) error {
	f, err := os.Create(name)
	if err != nil {
		// not being able to create the output is a failure, not a missing file.
		return errors.Errorf("create pack %s: %v", name, err)
	}
	w := bufio.NewWriter(f)
	if _, err := p.WriteTo(w); err != nil {
		f.Close()
		return errors.Wrapf(err, "write pack %s", name)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "write pack %s", name)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close pack %s", name)
	}
	p.name = name
	return nil
}

// WriteTo writes the pack in its on disk format. Files are stored
// contiguously in catalog order.
func (p *ResourcePack) WriteTo(w io.Writer) (int64, error) {
	names := p.order
	offsets := p.layout()
	var n int64
	put := func(v uint32) error {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		c, err := w.Write(b[:])
		n += int64(c)
		return err
	}
	if err := put(uint32(len(names))); err != nil {
		return n, err
	}
	for _, name := range names {
		q := p.files[name]
		if err := put(uint32(len(name))); err != nil {
			return n, err
		}
		c, err := io.WriteString(w, name)
		n += int64(c)
		if err != nil {
			return n, err
		}
		for _, v := range []int{int(q.id), offsets[name], q.size} {
			if err := put(uint32(v)); err != nil {
				return n, err
			}
		}
	}
	buf := make([]byte, 32*1024)
	for _, name := range names {
		q := p.files[name]
		data := p.payload[q.start : q.start+q.size]
		for len(data) > 0 {
			c := copy(buf, data)
			scramble(buf[:c], p.key)
			wc, err := w.Write(buf[:c])
			n += int64(wc)
			if err != nil {
				return n, err
			}
			data = data[c:]
		}
	}
	return n, nil
}

// LoadPack replaces the contents of the pack with the pack file name. On
// failure the pack is left empty.
func (p *ResourcePack) LoadPack(name string) error {
	data, err := os.ReadFile(name)
	if err != nil {
		p.ClearPack()
		return errors.Wrapf(err, "load pack %s", name)
	}
	if err := p.load(data); err != nil {
		p.ClearPack()
		return errors.Wrapf(err, "load pack %s", name)
	}
	p.name = name
	return nil
}

// Load reads a pack from r, see LoadPack.
func (p *ResourcePack) Load(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		p.ClearPack()
		return errors.Wrap(err, "load pack")
	}
	if err := p.load(data); err != nil {
		p.ClearPack()
		return errors.Wrap(err, "load pack")
	}
	p.name = ""
	return nil
}

func (p *ResourcePack) load(data []byte) error {
	r := reader{data: data}
	count, err := r.u32()
	if err != nil {
		return err
	}
	if uint64(count)*entryHeaderSize > uint64(len(data)) {
		return errors.Errorf("entry count %d does not fit into %d bytes", count, len(data))
	}
	type rec struct {
		name             string
		id, offset, size uint32
	}
	recs := make([]rec, 0, count)
	files := make(map[string]*packFile, count)
	for i := uint32(0); i < count; i++ {
		l, err := r.u32()
		if err != nil {
			return err
		}
		if l == 0 || l > maxNameLength {
			return errors.Errorf("entry %d: bad name length %d", i, l)
		}
		nb, err := r.bytes(int(l))
		if err != nil {
			return err
		}
		var e rec
		e.name = string(nb)
		if _, ok := files[e.name]; ok {
			return errors.Errorf("files in pack are not unique: %s", e.name)
		}
		if e.id, err = r.u32(); err != nil {
			return err
		}
		if e.offset, err = r.u32(); err != nil {
			return err
		}
		if e.size, err = r.u32(); err != nil {
			return err
		}
		files[e.name] = nil
		recs = append(recs, e)
	}
	hs := r.pos
	end := uint64(hs)
	order := make([]string, 0, len(recs))
	var nextID uint64
	for _, e := range recs {
		if uint64(e.offset) < end {
			return errors.Errorf("%s: offset %d overlaps previous data", e.name, e.offset)
		}
		end = uint64(e.offset) + uint64(e.size)
		if end > uint64(len(data)) {
			return errors.Errorf("%s: range %d+%d exceeds pack size %d", e.name, e.offset, e.size, len(data))
		}
		files[e.name] = &packFile{
			id:    e.id,
			start: int(e.offset) - hs,
			size:  int(e.size),
		}
		order = append(order, e.name)
		nextID = max(nextID, uint64(e.id)+1)
	}
	payload := data[hs:]
	unscramble(payload, p.key)

	p.gen++
	p.files = files
	p.order = order
	p.nextID = nextID
	p.payload = payload
	return nil
}

// ClearPack drops the catalog and the payload. Streams handed out before
// stop working.
func (p *ResourcePack) ClearPack() {
	p.gen++
	p.files = make(map[string]*packFile)
	p.order = nil
	p.nextID = 0
	p.payload = nil
	p.name = ""
}

// GetStreamBuffer returns a reader positioned at the start of name.
func (p *ResourcePack) GetStreamBuffer(name string) (*Stream, error) {
	q, ok := p.files[name]
	if !ok {
		return nil, errors.Wrapf(fs.ErrNotExist, "%s not in pack", name)
	}
	return &Stream{
		p:     p,
		gen:   p.gen,
		start: int64(q.start),
		size:  int64(q.size),
	}, nil
}

// Open returns a io.SectionReader or an error wrapping fs.ErrNotExist if the
// pack has no entry with the provided name.
func (p *ResourcePack) Open(name string) (*io.SectionReader, error) {
	s, err := p.GetStreamBuffer(name)
	if err != nil {
		return nil, err
	}
	return io.NewSectionReader(s, 0, s.size), nil
}

// ReadFile returns a copy of the contents of name.
func (p *ResourcePack) ReadFile(name string) ([]byte, error) {
	s, err := p.GetStreamBuffer(name)
	if err != nil {
		return nil, err
	}
	return s.Bytes()
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || len(r.data)-r.pos < n {
		return nil, errors.Errorf("header truncated at %d", r.pos)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) u32() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}
