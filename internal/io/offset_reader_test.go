package io

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOffsetReadSeeker(t *testing.T) {
	under := bytes.NewReader([]byte("headerPAYLOAD"))
	o := NewOffsetReadSeeker(under, 6)

	buf := make([]byte, 3)
	_, err := io.ReadFull(o, buf)
	require.NoError(t, err)
	require.Equal(t, "PAY", string(buf))
	require.EqualValues(t, 9, o.Offset())

	pos, err := o.Seek(2, io.SeekCurrent)
	require.NoError(t, err)
	require.EqualValues(t, 5, pos)

	rest, err := io.ReadAll(o)
	require.NoError(t, err)
	require.Equal(t, "AD", string(rest))

	pos, err = o.Seek(0, io.SeekStart)
	require.NoError(t, err)
	require.EqualValues(t, 0, pos)

	n, err := o.ReadAt(buf, 1)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, "AYL", string(buf))

	_, err = o.Seek(-1, io.SeekStart)
	require.Error(t, err)
	_, err = o.Seek(0, io.SeekEnd)
	require.Error(t, err)
}

// strictReaderAt fails on offsets past its end, like mmap.ReaderAt.
type strictReaderAt []byte

func (s strictReaderAt) Len() int { return len(s) }

func (s strictReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off > int64(len(s)) {
		return 0, errors.New("invalid ReadAt offset")
	}
	n := copy(p, s[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func TestOffsetReadSeekerPastEnd(t *testing.T) {
	o := NewOffsetReadSeeker(strictReaderAt("abc"), 0)
	_, err := o.Seek(10, io.SeekStart)
	require.NoError(t, err)

	n, err := o.Read(make([]byte, 4))
	require.Equal(t, 0, n)
	require.Equal(t, io.EOF, err)
}
