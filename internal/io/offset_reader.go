package io

import (
	"errors"
	"io"
)

var (
	_ io.ReadSeeker = (*OffsetReadSeeker)(nil)
	_ io.ReaderAt   = (*OffsetReadSeeker)(nil)

	errWhence = errors.New("offset reader: unsupported whence")
	errOffset = errors.New("offset reader: negative position")
)

// OffsetReadSeeker implements Read, Seek and ReadAt on a section of an
// underlying io.ReaderAt that starts at a base offset.
// Unlike io.SectionReader it does not need the number of readable bytes up
// front; reads stop with io.EOF when r reaches its end. For the same reason
// io.SeekEnd is not supported.
type OffsetReadSeeker struct {
	r    io.ReaderAt
	base int64
	off  int64
}

// NewOffsetReadSeeker returns an OffsetReadSeeker that reads from r
// starting at offset off.
func NewOffsetReadSeeker(r io.ReaderAt, off int64) *OffsetReadSeeker {
	return &OffsetReadSeeker{r, off, off}
}

func (o *OffsetReadSeeker) Read(p []byte) (n int, err error) {
	// Some ReaderAts, such as mmap.ReaderAt, reject offsets past their end
	// instead of returning io.EOF.
	if l, ok := o.r.(interface{ Len() int }); ok && o.off >= int64(l.Len()) {
		return 0, io.EOF
	}
	n, err = o.r.ReadAt(p, o.off)
	o.off += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return
}

func (o *OffsetReadSeeker) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, io.EOF
	}
	off += o.base
	return o.r.ReadAt(p, off)
}

func (o *OffsetReadSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = o.base + offset
	case io.SeekCurrent:
		abs = o.off + offset
	default:
		return 0, errWhence
	}
	if abs < o.base {
		return 0, errOffset
	}
	o.off = abs
	return o.off - o.base, nil
}

// Offset returns the absolute position in the underlying io.ReaderAt.
func (o *OffsetReadSeeker) Offset() int64 {
	return o.off
}
