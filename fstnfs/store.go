package fstnfs

import (
	"os"
	"sync"
	"time"
)

const (
	// RootIno is the inode of the root directory. It exists for the whole
	// lifetime of a Store.
	RootIno uint64 = 1

	helloIno  uint64 = 2
	firstFree uint64 = 3

	// AttrValidity is the attribute cache duration handed to the kernel
	// with every attribute record.
	AttrValidity = 3 * time.Second
)

// Fixed attribute fields. The store keeps no per-entry metadata beyond the
// entry contents, so ownership, link count and timestamps are constant.
const (
	attrUID   uint32 = 1000
	attrGID   uint32 = 100
	attrNlink uint32 = 2
)

// Kind tags the two entry variants.
type Kind int

const (
	KindDirectory Kind = iota
	KindFile
)

// entry is the closed set of filesystem object variants. Exactly two types
// implement it: directory and file.
type entry interface {
	kind() Kind
	size() uint64
	perm() os.FileMode
}

// directory maps child names to inodes. The mapping holds non-owning
// references: the Store owns every entry, directories only index into it.
type directory struct {
	children map[string]uint64
}

func (*directory) kind() Kind        { return KindDirectory }
func (*directory) size() uint64      { return 0 }
func (*directory) perm() os.FileMode { return os.ModeDir | 0o700 }

// file owns a growable byte buffer.
type file struct {
	data []byte
}

func (*file) kind() Kind        { return KindFile }
func (f *file) size() uint64    { return uint64(len(f.data)) }
func (*file) perm() os.FileMode { return 0o600 }

// Record is the attribute record derived from an entry. It is never stored;
// every accessor rebuilds it from the entry under the store lock, so repeated
// calls without an intervening mutation return identical records.
type Record struct {
	Ino   uint64
	Size  uint64
	Mode  os.FileMode
	Kind  Kind
	Nlink uint32
	UID   uint32
	GID   uint32
}

// Dirent is one directory listing entry.
type Dirent struct {
	Ino  uint64
	Name string
	Kind Kind
}

// Store is the inode table. It owns every entry, assigns inodes from a
// monotonically increasing counter, and guards all access with a single
// mutex so each call's read-modify-write sequence is atomic.
//
// A Store is constructed once at mount time and passed into every call;
// there is no package-global state.
type Store struct {
	mu      sync.Mutex
	nextIno uint64
	entries map[uint64]entry
}

// NewStore returns a store seeded with the bootstrap tree: inode 1 is the
// root directory containing hello.txt, inode 2.
func NewStore() *Store {
	return &Store{
		nextIno: firstFree,
		entries: map[uint64]entry{
			RootIno:  &directory{children: map[string]uint64{"hello.txt": helloIno}},
			helloIno: &file{data: []byte("Hello world")},
		},
	}
}

func record(ino uint64, e entry) Record {
	return Record{
		Ino:   ino,
		Size:  e.size(),
		Mode:  e.perm(),
		Kind:  e.kind(),
		Nlink: attrNlink,
		UID:   attrUID,
		GID:   attrGID,
	}
}

// ResolveChild resolves name inside the directory parent and returns the
// child's attribute record. It fails with ErrNotFound if parent is unknown
// or the name is absent, and ErrNotADirectory if parent is a file.
func (s *Store) ResolveChild(parent uint64, name string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := s.dir(parent)
	if err != nil {
		return Record{}, err
	}
	ino, ok := dir.children[name]
	if !ok {
		return Record{}, ErrNotFound
	}
	child, ok := s.entries[ino]
	if !ok {
		// The directory names an inode the store does not hold. Report
		// the broken link instead of skipping it.
		return Record{}, ErrNotFound
	}
	return record(ino, child), nil
}

// Attributes returns the attribute record for ino.
func (s *Store) Attributes(ino uint64) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[ino]
	if !ok {
		return Record{}, ErrNotFound
	}
	return record(ino, e), nil
}

// ReadAt returns up to size bytes of the file ino starting at offset. Reads
// that start at or beyond the end of the buffer return an empty slice.
func (s *Store) ReadAt(ino uint64, offset int64, size int) ([]byte, error) {
	if offset < 0 {
		return nil, ErrInvalidOffset
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.file(ino)
	if err != nil {
		return nil, err
	}
	if offset >= int64(len(f.data)) {
		return nil, nil
	}
	n := len(f.data) - int(offset)
	if size < n {
		n = size
	}
	out := make([]byte, n)
	copy(out, f.data[offset:])
	return out, nil
}

// WriteAt copies data into the file ino at offset, growing the buffer and
// zero-filling any gap between the old end and offset. It returns the number
// of bytes written. Writes to a missing or non-file target fail; they never
// report false success.
func (s *Store) WriteAt(ino uint64, offset int64, data []byte) (int, error) {
	if offset < 0 {
		return 0, ErrInvalidOffset
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.file(ino)
	if err != nil {
		return 0, err
	}
	end := int(offset) + len(data)
	if end > len(f.data) {
		grown := make([]byte, end)
		copy(grown, f.data)
		f.data = grown
	}
	copy(f.data[offset:], data)
	return len(data), nil
}

// Truncate drops all bytes of the file ino at or beyond size and returns the
// entry's attribute record. Sizes beyond the current length leave the buffer
// untouched. Directories are returned unmodified; only an unknown inode is
// an error.
func (s *Store) Truncate(ino uint64, size uint64) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[ino]
	if !ok {
		return Record{}, ErrNotFound
	}
	if f, ok := e.(*file); ok && size < uint64(len(f.data)) {
		f.data = f.data[:size]
	}
	return record(ino, e), nil
}

// CreateChild allocates the next inode, registers an empty entry of the
// given kind, and links it into parent under name. An existing name is
// overwritten. The new entry's attribute record is returned.
func (s *Store) CreateChild(parent uint64, name string, kind Kind) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := s.dir(parent)
	if err != nil {
		return Record{}, err
	}

	ino := s.nextIno
	s.nextIno++

	var e entry
	switch kind {
	case KindDirectory:
		e = &directory{children: make(map[string]uint64)}
	default:
		e = &file{}
	}
	s.entries[ino] = e
	dir.children[name] = ino
	return record(ino, e), nil
}

// Children lists the directory ino from start onward. The iteration order is
// unspecified and may differ between calls. If any child inode named by the
// directory is missing from the store the whole listing fails with
// ErrNotFound.
func (s *Store) Children(ino uint64, start int) ([]Dirent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := s.dir(ino)
	if err != nil {
		return nil, err
	}

	var ents []Dirent
	i := 0
	for name, child := range dir.children {
		// A broken link aborts the listing even when the start index
		// would skip past it.
		e, ok := s.entries[child]
		if !ok {
			return nil, ErrNotFound
		}
		if i < start {
			i++
			continue
		}
		i++
		ents = append(ents, Dirent{Ino: child, Name: name, Kind: e.kind()})
	}
	return ents, nil
}

// dir returns the directory entry for ino. Callers hold s.mu.
func (s *Store) dir(ino uint64) (*directory, error) {
	e, ok := s.entries[ino]
	if !ok {
		return nil, ErrNotFound
	}
	d, ok := e.(*directory)
	if !ok {
		return nil, ErrNotADirectory
	}
	return d, nil
}

// file returns the file entry for ino. Callers hold s.mu.
func (s *Store) file(ino uint64) (*file, error) {
	e, ok := s.entries[ino]
	if !ok {
		return nil, ErrNotFound
	}
	f, ok := e.(*file)
	if !ok {
		return nil, ErrNotAFile
	}
	return f, nil
}
