package fstnfs

import (
	"context"
	"errors"
	"syscall"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
)

// FS implements the fstn FUSE filesystem on top of a Store. Every kernel
// call maps to exactly one Store call; the nodes themselves carry no state
// beyond the inode they name.
type FS struct {
	store *Store
}

// New wraps a store for serving through bazil.org/fuse.
func New(store *Store) *FS {
	return &FS{store: store}
}

// Store exposes the underlying entry store.
func (f *FS) Store() *Store {
	return f.store
}

// Root returns the root directory node.
func (f *FS) Root() (fs.Node, error) {
	return &Dir{store: f.store, ino: RootIno}, nil
}

// errno translates store errors into the errno surfaced to the kernel.
func errno(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return syscall.ENOENT
	case errors.Is(err, ErrNotAFile):
		return syscall.EISDIR
	case errors.Is(err, ErrNotADirectory):
		return syscall.ENOTDIR
	case errors.Is(err, ErrInvalidOffset):
		return syscall.EINVAL
	}
	return err
}

// fillAttr copies an attribute record into a FUSE attribute reply. All
// timestamps are pinned to the epoch and the record stays valid for
// AttrValidity on the kernel side.
func fillAttr(rec Record, a *fuse.Attr) {
	epoch := time.Unix(0, 0)

	a.Valid = AttrValidity
	a.Inode = rec.Ino
	a.Size = rec.Size
	a.Mode = rec.Mode
	a.Nlink = rec.Nlink
	a.Uid = rec.UID
	a.Gid = rec.GID
	a.Atime = epoch
	a.Mtime = epoch
	a.Ctime = epoch
}

func nodeFor(store *Store, rec Record) fs.Node {
	if rec.Kind == KindDirectory {
		return &Dir{store: store, ino: rec.Ino}
	}
	return &File{store: store, ino: rec.Ino}
}

// Dir implements both Node and Handle for directories.
type Dir struct {
	store *Store
	ino   uint64
}

// Attr returns directory attributes.
func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	rec, err := d.store.Attributes(d.ino)
	if err != nil {
		return errno(err)
	}
	fillAttr(rec, a)
	return nil
}

// Lookup resolves a child name to a node.
func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	rec, err := d.store.ResolveChild(d.ino, name)
	if err != nil {
		return nil, errno(err)
	}
	return nodeFor(d.store, rec), nil
}

// ReadDirAll lists directory contents. A child named by the directory but
// missing from the store aborts the whole listing.
func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	ents, err := d.store.Children(d.ino, 0)
	if err != nil {
		return nil, errno(err)
	}

	dirents := make([]fuse.Dirent, 0, len(ents))
	for _, ent := range ents {
		typ := fuse.DT_File
		if ent.Kind == KindDirectory {
			typ = fuse.DT_Dir
		}
		dirents = append(dirents, fuse.Dirent{
			Inode: ent.Ino,
			Name:  ent.Name,
			Type:  typ,
		})
	}
	return dirents, nil
}

// Create creates a new empty file in this directory.
func (d *Dir) Create(ctx context.Context, req *fuse.CreateRequest, resp *fuse.CreateResponse) (fs.Node, fs.Handle, error) {
	rec, err := d.store.CreateChild(d.ino, req.Name, KindFile)
	if err != nil {
		return nil, nil, errno(err)
	}

	file := &File{store: d.store, ino: rec.Ino}
	fillAttr(rec, &resp.Attr)
	return file, file, nil
}

// Mkdir creates a new empty directory in this directory.
func (d *Dir) Mkdir(ctx context.Context, req *fuse.MkdirRequest) (fs.Node, error) {
	rec, err := d.store.CreateChild(d.ino, req.Name, KindDirectory)
	if err != nil {
		return nil, errno(err)
	}
	return &Dir{store: d.store, ino: rec.Ino}, nil
}

// Setattr replies with current attributes. Size changes do not apply to
// directories, so any requested size is ignored.
func (d *Dir) Setattr(ctx context.Context, req *fuse.SetattrRequest, resp *fuse.SetattrResponse) error {
	rec, err := d.store.Attributes(d.ino)
	if err != nil {
		return errno(err)
	}
	fillAttr(rec, &resp.Attr)
	return nil
}

// File implements both Node and Handle for files.
type File struct {
	store *Store
	ino   uint64
}

// Attr returns file attributes.
func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	rec, err := f.store.Attributes(f.ino)
	if err != nil {
		return errno(err)
	}
	fillAttr(rec, a)
	return nil
}

// Read reads a span of the file buffer.
func (f *File) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	data, err := f.store.ReadAt(f.ino, req.Offset, req.Size)
	if err != nil {
		return errno(err)
	}
	resp.Data = data
	return nil
}

// Write writes data at the requested offset, growing the buffer as needed.
func (f *File) Write(ctx context.Context, req *fuse.WriteRequest, resp *fuse.WriteResponse) error {
	n, err := f.store.WriteAt(f.ino, req.Offset, req.Data)
	if err != nil {
		return errno(err)
	}
	resp.Size = n
	return nil
}

// Setattr truncates the file when a size is given and replies with the
// resulting attributes.
func (f *File) Setattr(ctx context.Context, req *fuse.SetattrRequest, resp *fuse.SetattrResponse) error {
	var (
		rec Record
		err error
	)
	if req.Valid.Size() {
		rec, err = f.store.Truncate(f.ino, req.Size)
	} else {
		rec, err = f.store.Attributes(f.ino)
	}
	if err != nil {
		return errno(err)
	}
	fillAttr(rec, &resp.Attr)
	return nil
}
