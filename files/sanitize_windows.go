package files

import (
	"fmt"
	"strings"
)

// NOTE: `/` and `\` are rejected by ValidatePathComponent already.
const reservedRunes = `<>:"|?*`

// https://msdn.microsoft.com/en-us/library/windows/desktop/aa365247(v=vs.85).aspx
var reservedNames = [...]string{
	"CON", "PRN", "AUX", "NUL", "COM1", "COM2",
	"COM3", "COM4", "COM5", "COM6", "COM7", "COM8",
	"COM9", "LPT1", "LPT2", "LPT3", "LPT4", "LPT5",
	"LPT6", "LPT7", "LPT8", "LPT9",
}

func validatePlatformComponent(component string) error {
	for _, suffix := range [...]string{
		".", // MSDN: Do not end a file or directory
		" ", // name with a space or a period.
	} {
		if strings.HasSuffix(component, suffix) {
			return fmt.Errorf("%w: path components cannot end with '%s': %q",
				ErrInvalidDirectoryEntry, suffix, component)
		}
	}
	if strings.ContainsAny(component, reservedRunes) {
		return fmt.Errorf("%w: path components cannot contain any of %q: %q",
			ErrInvalidDirectoryEntry, reservedRunes, component)
	}
	base := strings.ToUpper(component)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	for _, r := range reservedNames {
		if base == r {
			return fmt.Errorf("%w: path component is a reserved name: %q",
				ErrInvalidDirectoryEntry, component)
		}
	}
	return nil
}
