package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	ErrInvalidDirectoryEntry = errors.New("invalid directory entry name")
	ErrPathExistsOverwrite   = errors.New("path already exists and overwriting is not allowed")
)

// WriteTo writes the given node to the local filesystem at fpath. It never
// replaces an existing path.
func WriteTo(nd Node, fpath string) error {
	if _, err := os.Lstat(fpath); err == nil {
		return ErrPathExistsOverwrite
	} else if !os.IsNotExist(err) {
		return err
	}
	switch nd := nd.(type) {
	case File:
		return writeFile(fpath, nd)
	case Directory:
		if err := os.Mkdir(fpath, 0o777); err != nil {
			return err
		}

		entries := nd.Entries()
		for entries.Next() {
			name := entries.Name()
			if err := ValidatePathComponent(name); err != nil {
				return ErrInvalidDirectoryEntry
			}
			child := filepath.Join(fpath, name)
			if err := WriteTo(entries.Node(), child); err != nil {
				return err
			}
		}
		return entries.Err()
	default:
		return fmt.Errorf("file type %T at %q is not supported", nd, fpath)
	}
}

func writeFile(fpath string, f File) error {
	out, err := os.OpenFile(fpath, os.O_EXCL|os.O_CREATE|os.O_WRONLY, 0o666)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// DirSink writes named payloads as files directly inside Root.
type DirSink struct {
	Root string
	// Overwrite replaces files that already exist in Root.
	Overwrite bool
}

// WriteFile writes f to Root/name. The name must be a single path
// component.
func (s DirSink) WriteFile(name string, f File) error {
	if err := ValidatePathComponent(name); err != nil {
		return err
	}
	fpath := filepath.Join(s.Root, name)
	if s.Overwrite {
		if err := os.Remove(fpath); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return WriteTo(f, fpath)
}
