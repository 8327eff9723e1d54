package png

import (
	"errors"
	"fmt"
)

var (
	ErrNotPNG         = errors.New("not a PNG datastream")
	ErrTruncatedChunk = errors.New("truncated chunk")
	ErrUnexpectedEOF  = errors.New("datastream ended before IEND")
	ErrCRCMismatch    = errors.New("chunk CRC mismatch")
	ErrChunkOrder     = errors.New("first chunk is not IHDR")
	ErrChunkTooLarge  = fmt.Errorf("chunk length exceeds %d bytes", MaxChunkLength)
	ErrInvalidType    = errors.New("chunk type is not four ASCII letters")
	ErrNoChunk        = errors.New("no chunk pending: call Next first")
)

// ChunkError records which chunk an error was detected on.
// Offset is the position of the chunk's length field, or -1 when unknown.
type ChunkError struct {
	Type   Type
	Offset int64
	Err    error
}

func (e *ChunkError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("chunk %q: %s", string(e.Type), e.Err)
	}
	return fmt.Sprintf("chunk %q at offset %d: %s", string(e.Type), e.Offset, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}

type crcError struct {
	stored   uint32
	computed uint32
}

func (e *crcError) Error() string {
	return fmt.Sprintf("%s (stored %08x, computed %08x)", ErrCRCMismatch, e.stored, e.computed)
}

func (e *crcError) Unwrap() error {
	return ErrCRCMismatch
}
