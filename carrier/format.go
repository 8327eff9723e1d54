// Package carrier defines how an embedded file is framed into one or more
// private PNG chunks.
//
// Every carrier chunk has type ChunkType and data laid out as
//
//	version  : 1 byte
//	name_len : uvarint
//	name     : name_len bytes
//	index    : uvarint
//	total    : uvarint
//	fragment : the rest of the chunk
//
// A file's payload is the concatenation of its fragments in index order.
package carrier

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/ipfs/go-pngfiles/png"
)

// ChunkType is the private ancillary, safe-to-copy chunk type that holds
// embedded file fragments.
//
//	f : ancillary    (lowercase)
//	i : private      (lowercase)
//	L : reserved = 0 (uppercase)
//	e : safe-to-copy (lowercase)
const ChunkType png.Type = "fiLe"

const (
	// Version is the framing version written into every carrier chunk.
	Version = 1

	// MaxNameLength bounds the length of an embedded file name in bytes.
	MaxNameLength = 4096

	// MaxHeaderSize is the largest framing overhead a carrier chunk can have.
	MaxHeaderSize = 1 + binary.MaxVarintLen16 + MaxNameLength + 2*binary.MaxVarintLen32
)

// Fragment is one parsed carrier chunk.
type Fragment struct {
	Name  string
	Index uint32
	Total uint32
	Data  []byte
}

// ValidateName reports whether name can be stored in a carrier chunk.
func ValidateName(name string) error {
	switch {
	case name == "":
		return ErrInvalidName
	case len(name) > MaxNameLength:
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrInvalidName, len(name), MaxNameLength)
	case !utf8.ValidString(name):
		return fmt.Errorf("%w: %q is not UTF-8", ErrInvalidName, name)
	}
	return nil
}

// HeaderSize returns the framing overhead of a fragment.
func HeaderSize(name string, index, total uint32) int {
	return 1 + uvarintSize(uint64(len(name))) + len(name) + uvarintSize(uint64(index)) + uvarintSize(uint64(total))
}

// Encode returns the carrier chunk data for f.
func Encode(f Fragment) ([]byte, error) {
	if err := ValidateName(f.Name); err != nil {
		return nil, err
	}
	if f.Total == 0 || f.Index >= f.Total {
		return nil, malformed("fragment %d of %d", f.Index, f.Total)
	}
	hs := HeaderSize(f.Name, f.Index, f.Total)
	if int64(hs)+int64(len(f.Data)) > png.MaxChunkLength {
		return nil, png.ErrChunkTooLarge
	}
	buf := make([]byte, hs+len(f.Data))
	n := putHeader(buf, f.Name, f.Index, f.Total)
	copy(buf[n:], f.Data)
	return buf, nil
}

// Parse decodes carrier chunk data. The returned fragment's Data aliases
// data.
func Parse(data []byte) (Fragment, error) {
	if len(data) == 0 {
		return Fragment{}, malformed("empty chunk")
	}
	if data[0] != Version {
		return Fragment{}, malformed("unsupported version %d", data[0])
	}
	p := data[1:]

	nameLen, n := binary.Uvarint(p)
	if n <= 0 {
		return Fragment{}, malformed("bad name length")
	}
	p = p[n:]
	if nameLen == 0 || nameLen > MaxNameLength {
		return Fragment{}, malformed("name length %d out of range", nameLen)
	}
	if nameLen > uint64(len(p)) {
		return Fragment{}, malformed("name length %d exceeds remaining %d bytes", nameLen, len(p))
	}
	name := string(p[:nameLen])
	p = p[nameLen:]

	index, n := binary.Uvarint(p)
	if n <= 0 {
		return Fragment{}, malformed("bad fragment index for %q", name)
	}
	p = p[n:]
	total, n := binary.Uvarint(p)
	if n <= 0 {
		return Fragment{}, malformed("bad fragment total for %q", name)
	}
	p = p[n:]

	if total == 0 || total > math.MaxUint32 || index >= total {
		return Fragment{}, malformed("fragment %d of %d for %q", index, total, name)
	}

	return Fragment{
		Name:  name,
		Index: uint32(index),
		Total: uint32(total),
		Data:  p,
	}, nil
}

func putHeader(buf []byte, name string, index, total uint32) int {
	buf[0] = Version
	n := 1
	n += binary.PutUvarint(buf[n:], uint64(len(name)))
	n += copy(buf[n:], name)
	n += binary.PutUvarint(buf[n:], uint64(index))
	n += binary.PutUvarint(buf[n:], uint64(total))
	return n
}

func uvarintSize(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}
