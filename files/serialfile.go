package files

import (
	"fmt"
	"os"
	"path/filepath"
)

// NewSerialFile opens the regular file at path. Symlinks are followed.
func NewSerialFile(path string) (File, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !stat.Mode().IsRegular() {
		if stat.IsDir() {
			return nil, fmt.Errorf("%s: %w", path, ErrNotReader)
		}
		return nil, fmt.Errorf("unrecognized file type for %s: %s", path, stat.Mode().String())
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rf, err := NewReaderPathFile(path, file, stat)
	if err != nil {
		file.Close()
		return nil, err
	}
	return rf, nil
}

// serialDirectory implements Directory over a list of paths on the OS
// filesystem. Each entry is named after the base name of its path.
// No more than one file is opened per call to Next, and only when it is
// reached.
type serialDirectory struct {
	paths []string
}

type serialIterator struct {
	paths []string

	curName string
	curFile Node

	err error
}

var (
	_ Directory   = (*serialDirectory)(nil)
	_ DirIterator = (*serialIterator)(nil)
)

// NewSerialDirectory returns a Directory of the regular files at paths, in
// the given order. Nothing is opened until iteration reaches an entry.
func NewSerialDirectory(paths []string) Directory {
	return &serialDirectory{paths: paths}
}

func (d *serialDirectory) Entries() DirIterator {
	return &serialIterator{paths: d.paths}
}

func (d *serialDirectory) Close() error {
	return nil
}

func (d *serialDirectory) Size() (int64, error) {
	var du int64
	for _, p := range d.paths {
		fi, err := os.Stat(p)
		if err != nil {
			return 0, err
		}
		du += fi.Size()
	}
	return du, nil
}

func (it *serialIterator) Name() string {
	return it.curName
}

func (it *serialIterator) Node() Node {
	return it.curFile
}

func (it *serialIterator) Next() bool {
	if it.err != nil || len(it.paths) == 0 {
		return false
	}

	p := it.paths[0]
	it.paths = it.paths[1:]

	f, err := NewSerialFile(p)
	if err != nil {
		it.err = err
		return false
	}

	it.curName = filepath.Base(p)
	it.curFile = f
	return true
}

func (it *serialIterator) Err() error {
	return it.err
}
