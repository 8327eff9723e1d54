package io

import (
	"bufio"
	"io"
)

var (
	_ Skipper = (*seekingSkipper)(nil)
	_ Skipper = (*discardingSkipper)(nil)
)

type (
	// Skipper is a forward-only reader that can advance past bytes without
	// handing them to the caller.
	Skipper interface {
		io.Reader
		// Skip advances n bytes and returns how many were passed over.
		Skip(n int64) (int64, error)
	}

	seekingSkipper struct {
		io.ReadSeeker
	}

	discardingSkipper struct {
		*bufio.Reader
	}
)

// ToSkipper adapts r into a Skipper. Readers that can really seek skip with
// a relative Seek; everything else is buffered and skips by discarding.
func ToSkipper(r io.Reader) Skipper {
	if s, ok := r.(Skipper); ok {
		return s
	}
	if rs, ok := r.(io.ReadSeeker); ok {
		// *os.File satisfies io.Seeker even when it is a pipe.
		if _, err := rs.Seek(0, io.SeekCurrent); err == nil {
			return &seekingSkipper{rs}
		}
	}
	return &discardingSkipper{bufio.NewReader(r)}
}

// Skip seeks past n bytes. The last skipped byte is read back so that a
// source ending early reports io.ErrUnexpectedEOF, as discarding would.
func (s *seekingSkipper) Skip(n int64) (int64, error) {
	if n <= 0 {
		return 0, nil
	}
	if _, err := s.Seek(n-1, io.SeekCurrent); err != nil {
		return 0, err
	}
	var last [1]byte
	if _, err := io.ReadFull(s.ReadSeeker, last[:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, err
	}
	return n, nil
}

func (d *discardingSkipper) Skip(n int64) (int64, error) {
	return io.CopyN(io.Discard, d.Reader, n)
}
