package io

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToSkipper(t *testing.T) {
	data := []byte("0123456789")
	tests := []struct {
		name     string
		r        io.Reader
		wantSeek bool
	}{
		{
			name:     "ReadSeeker",
			r:        bytes.NewReader(data),
			wantSeek: true,
		},
		{
			name: "PlainReader",
			r:    io.MultiReader(bytes.NewReader(data)),
		},
		{
			name: "BrokenSeeker",
			r:    brokenSeeker{bytes.NewReader(data)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ToSkipper(tt.r)
			_, isSeek := s.(*seekingSkipper)
			require.Equal(t, tt.wantSeek, isSeek)

			n, err := s.Skip(3)
			require.NoError(t, err)
			require.EqualValues(t, 3, n)

			buf := make([]byte, 4)
			_, err = io.ReadFull(s, buf)
			require.NoError(t, err)
			require.Equal(t, "3456", string(buf))
		})
	}
}

func TestDiscardingSkipperShort(t *testing.T) {
	s := ToSkipper(io.MultiReader(bytes.NewReader([]byte("abc"))))
	n, err := s.Skip(10)
	require.ErrorIs(t, err, io.EOF)
	require.EqualValues(t, 3, n)
}

func TestSeekingSkipperPastEnd(t *testing.T) {
	tests := []struct {
		name    string
		skip    int64
		wantErr error
	}{
		{name: "Exact", skip: 5},
		{name: "OneOver", skip: 6, wantErr: io.ErrUnexpectedEOF},
		{name: "FarOver", skip: 1 << 20, wantErr: io.ErrUnexpectedEOF},
		{name: "Zero", skip: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ToSkipper(bytes.NewReader([]byte("abcde")))
			n, err := s.Skip(tt.skip)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.skip, n)
		})
	}
}

func TestSeekingSkipperOffsetReader(t *testing.T) {
	s := ToSkipper(NewOffsetReadSeeker(strictReaderAt("abcdef"), 2))
	n, err := s.Skip(4)
	require.NoError(t, err)
	require.EqualValues(t, 4, n)

	s = ToSkipper(NewOffsetReadSeeker(strictReaderAt("abcdef"), 2))
	_, err = s.Skip(5)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestToSkipperKeepsSkipper(t *testing.T) {
	s := ToSkipper(io.MultiReader(bytes.NewReader(nil)))
	require.Same(t, s, ToSkipper(s))
}

type brokenSeeker struct {
	io.Reader
}

func (brokenSeeker) Seek(int64, int) (int64, error) {
	return 0, io.ErrNoProgress
}
