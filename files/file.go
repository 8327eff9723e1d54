// Package files describes the payloads that are embedded into, and extracted
// from, PNG images: readable files with a known size, and ordered
// directories of named files.
package files

import (
	"errors"
	"io"
	"os"
)

var (
	ErrNotReader = errors.New("file isn't a regular file")

	ErrNotSupported = errors.New("operation not supported")
)

// Node is a common interface for files and directories.
type Node interface {
	io.Closer

	// Size returns size of this file. For a directory it is the total size
	// of all files in it.
	Size() (int64, error)
}

// File is a readable payload.
//
// Seek is only supported when the underlying reader can seek; otherwise it
// returns ErrNotSupported.
type File interface {
	Node

	io.Reader
	io.Seeker
}

// DirEntry exposes a directory entry: its name and the node behind it.
type DirEntry interface {
	// Name returns the entry name. It is the name the payload is stored
	// under inside the image.
	Name() string

	// Node returns the file referenced by this entry.
	Node() Node
}

// DirIterator is an iterator over directory entries.
// Iteration order is the order the entries were added in.
//
// Note:
// - Each Node returned by the iterator must be closed by the caller.
// - Call Err after Next returns false to tell an error from the end.
type DirIterator interface {
	DirEntry

	// Next advances the iterator to the next entry. It returns false when
	// there are no more entries or an error occurred.
	Next() bool

	// Err returns the error, if any, that ended iteration.
	Err() error
}

// Directory is an ordered collection of named files.
type Directory interface {
	Node

	// Entries returns a fresh iterator over the directory.
	Entries() DirIterator
}

// FileInfo exposes information on files in local filesystem.
type FileInfo interface {
	Node

	// AbsPath returns full/real file path.
	AbsPath() string

	// Stat returns os.Stat of this file, may be nil for some files.
	Stat() os.FileInfo
}
