package stash

import (
	"errors"
	"fmt"
)

var (
	ErrFileNotFound  = errors.New("file not found in image")
	ErrNameCollision = errors.New("file is already embedded in image")
)

// FileError reports which embedded file an operation failed on.
type FileError struct {
	Name string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%q: %s", e.Name, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
