// Package fstnfs implements the fstn in-memory filesystem.
//
// The filesystem is a memory-resident inode table served to the kernel over
// FUSE. A Store owns every filesystem object: directories are name-to-inode
// mappings and files are growable byte buffers, both reachable only through
// the store. The FUSE node types in this package translate kernel calls
// (lookup, getattr, readdir, read, write, setattr, create, mkdir) into store
// primitives and shape the replies.
//
// The store starts out with a root directory holding a single hello.txt and
// grows monotonically from there; nothing is ever deleted and nothing
// survives the process. A single mutex serializes every call, so concurrent
// kernel workers never interleave mutations of a directory mapping or a file
// buffer.
package fstnfs
