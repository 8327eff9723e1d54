package files

import (
	"fmt"
	"strings"
)

// ValidatePathComponent returns an error if name can't be used as a single
// path component when writing a file to the local filesystem. Names that
// would escape the destination directory are always rejected.
func ValidatePathComponent(name string) error {
	switch name {
	case "", ".", "..":
		return fmt.Errorf("%w: %q", ErrInvalidDirectoryEntry, name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: path components cannot contain separators: %q", ErrInvalidDirectoryEntry, name)
	}
	if strings.Contains(name, "\x00") {
		return fmt.Errorf("%w: path components cannot contain null: %q", ErrInvalidDirectoryEntry, name)
	}
	return validatePlatformComponent(name)
}
