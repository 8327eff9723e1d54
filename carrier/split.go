package carrier

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
)

// Fragments returns how many fragments a payload of size bytes is split
// into. An empty payload still takes one fragment.
func Fragments(size int64, maxFragmentSize int) int64 {
	if size <= 0 {
		return 1
	}
	m := int64(maxFragmentSize)
	return (size + m - 1) / m
}

// Splitter turns a payload of known size into carrier chunk data, one
// fragment at a time. Only the fragment being produced is held in memory.
type Splitter struct {
	name string
	r    io.Reader
	size int64
	max  int

	total uint32
	index uint32
	read  int64
}

// NewSplitter returns a Splitter for the payload read from r, which must
// yield exactly size bytes.
func NewSplitter(name string, r io.Reader, size int64, maxFragmentSize int) (*Splitter, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := checkFragmentSize(maxFragmentSize); err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrSizeMismatch, size)
	}
	total := Fragments(size, maxFragmentSize)
	if total > math.MaxUint32 {
		return nil, ErrTooManyFragments
	}
	return &Splitter{
		name:  name,
		r:     r,
		size:  size,
		max:   maxFragmentSize,
		total: uint32(total),
	}, nil
}

// Total returns the number of fragments the payload is split into.
func (s *Splitter) Total() uint32 {
	return s.total
}

// NextBytes returns the carrier chunk data of the next fragment, or io.EOF
// once all fragments have been produced.
func (s *Splitter) NextBytes() ([]byte, error) {
	if s.index >= s.total {
		return nil, io.EOF
	}

	n := s.size - s.read
	if n > int64(s.max) {
		n = int64(s.max)
	}
	hs := HeaderSize(s.name, s.index, s.total)
	buf := make([]byte, hs+int(n))
	putHeader(buf, s.name, s.index, s.total)
	if _, err := io.ReadFull(s.r, buf[hs:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: %q is shorter than %d bytes", ErrSizeMismatch, s.name, s.size)
		}
		return nil, err
	}
	s.read += n
	s.index++

	if s.index == s.total {
		var extra [1]byte
		_, err := io.ReadFull(s.r, extra[:])
		switch {
		case err == nil:
			return nil, fmt.Errorf("%w: %q is longer than %d bytes", ErrSizeMismatch, s.name, s.size)
		case !errors.Is(err, io.EOF):
			return nil, err
		}
	}
	return buf, nil
}

// Split is the in-memory form of Splitter: it returns the carrier chunk
// data for every fragment of payload, in index order.
func Split(name string, payload []byte, maxFragmentSize int) ([][]byte, error) {
	s, err := NewSplitter(name, bytes.NewReader(payload), int64(len(payload)), maxFragmentSize)
	if err != nil {
		return nil, err
	}
	blobs := make([][]byte, 0, s.Total())
	for {
		b, err := s.NextBytes()
		if err == io.EOF {
			return blobs, nil
		}
		if err != nil {
			return nil, err
		}
		blobs = append(blobs, b)
	}
}
