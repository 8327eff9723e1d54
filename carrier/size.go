package carrier

import (
	"strconv"
	"strings"

	"github.com/alecthomas/units"

	"github.com/ipfs/go-pngfiles/png"
)

const (
	// DefaultFragmentSize is the payload size of every fragment but the last.
	DefaultFragmentSize = int(units.MiB)

	// MaxFragmentSize keeps a fragment plus its framing under the PNG chunk
	// length ceiling.
	MaxFragmentSize = png.MaxChunkLength - MaxHeaderSize
)

// ParseSize parses a fragment size. It accepts "" or "default", a plain byte
// count such as "65536", or a unit suffixed value such as "64KiB" or "1MB".
func ParseSize(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "default" {
		return DefaultFragmentSize, nil
	}

	var size int64
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		size = n
	} else {
		n, err := units.ParseStrictBytes(s)
		if err != nil {
			return 0, err
		}
		size = n
	}

	if size <= 0 {
		return 0, ErrSize
	} else if size > MaxFragmentSize {
		return 0, ErrSizeMax
	}
	return int(size), nil
}

func checkFragmentSize(size int) error {
	if size <= 0 {
		return ErrSize
	} else if size > MaxFragmentSize {
		return ErrSizeMax
	}
	return nil
}
