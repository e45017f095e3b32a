package fstnfs

import "errors"

// Sentinel errors for package fstnfs.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// ErrNotFound reports an inode that does not exist in the store, or a
	// directory entry that names one.
	ErrNotFound = errors.New("entry not found")

	// ErrNotAFile reports a file operation aimed at a directory.
	ErrNotAFile = errors.New("entry is not a file")

	// ErrNotADirectory reports a directory operation aimed at a file.
	ErrNotADirectory = errors.New("entry is not a directory")

	// ErrInvalidOffset reports a negative read or write offset.
	ErrInvalidOffset = errors.New("offset out of range")
)
