package carrier

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedCarrier  = errors.New("malformed carrier chunk")
	ErrIncompleteFile    = errors.New("incomplete file")
	ErrDuplicateFragment = errors.New("duplicate fragment")
	ErrSizeMismatch      = errors.New("payload size does not match declared size")
	ErrInvalidName       = errors.New("invalid file name")
	ErrTooManyFragments  = errors.New("payload needs more fragments than a carrier can index")

	ErrSize    = errors.New("fragment size must be greater than 0")
	ErrSizeMax = fmt.Errorf("fragment size may not exceed %d bytes", MaxFragmentSize)
)

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedCarrier, fmt.Sprintf(format, args...))
}
