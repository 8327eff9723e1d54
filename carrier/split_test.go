package carrier

import (
	"bytes"
	"io"
	"testing"

	"github.com/ipfs/go-test/random"
	"github.com/stretchr/testify/require"
)

func TestSplitFragmentIntegrity(t *testing.T) {
	tests := []struct {
		size, max int
		want      int
	}{
		{size: 0, max: 16, want: 1},
		{size: 1, max: 16, want: 1},
		{size: 16, max: 16, want: 1},
		{size: 17, max: 16, want: 2},
		{size: 1000, max: 7, want: 143},
		{size: 4096, max: 1024, want: 4},
	}
	for _, tt := range tests {
		payload := random.Bytes(tt.size)
		blobs, err := Split("file.bin", payload, tt.max)
		require.NoError(t, err)
		require.Len(t, blobs, tt.want)
		require.EqualValues(t, tt.want, Fragments(int64(tt.size), tt.max))

		var joined []byte
		for i, b := range blobs {
			f, err := Parse(b)
			require.NoError(t, err)
			require.Equal(t, "file.bin", f.Name)
			require.EqualValues(t, i, f.Index)
			require.EqualValues(t, tt.want, f.Total)
			require.LessOrEqual(t, len(f.Data), tt.max)
			if i < len(blobs)-1 {
				require.Len(t, f.Data, tt.max)
			}
			joined = append(joined, f.Data...)
		}
		require.Equal(t, len(payload), len(joined))
		require.True(t, bytes.Equal(payload, joined))
	}
}

func TestSplitterSizeMismatch(t *testing.T) {
	t.Run("Short", func(t *testing.T) {
		s, err := NewSplitter("a", bytes.NewReader([]byte("abcd")), 5, 4)
		require.NoError(t, err)
		_, err = s.NextBytes()
		require.NoError(t, err)
		_, err = s.NextBytes()
		require.ErrorIs(t, err, ErrSizeMismatch)
	})
	t.Run("Long", func(t *testing.T) {
		s, err := NewSplitter("a", bytes.NewReader([]byte("abcdef")), 5, 4)
		require.NoError(t, err)
		_, err = s.NextBytes()
		require.NoError(t, err)
		_, err = s.NextBytes()
		require.ErrorIs(t, err, ErrSizeMismatch)
	})
	t.Run("Exact", func(t *testing.T) {
		s, err := NewSplitter("a", bytes.NewReader([]byte("abcde")), 5, 4)
		require.NoError(t, err)
		require.EqualValues(t, 2, s.Total())
		for i := 0; i < 2; i++ {
			_, err = s.NextBytes()
			require.NoError(t, err)
		}
		_, err = s.NextBytes()
		require.Equal(t, io.EOF, err)
	})
}

func TestNewSplitterRejects(t *testing.T) {
	_, err := NewSplitter("a", bytes.NewReader(nil), 0, 0)
	require.ErrorIs(t, err, ErrSize)
	_, err = NewSplitter("a", bytes.NewReader(nil), 0, MaxFragmentSize+1)
	require.ErrorIs(t, err, ErrSizeMax)
	_, err = NewSplitter("", bytes.NewReader(nil), 0, 16)
	require.ErrorIs(t, err, ErrInvalidName)
	_, err = NewSplitter("a", bytes.NewReader(nil), -1, 16)
	require.ErrorIs(t, err, ErrSizeMismatch)
}
