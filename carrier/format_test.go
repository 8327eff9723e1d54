package carrier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkTypeBits(t *testing.T) {
	require.True(t, ChunkType.Valid())
	require.True(t, ChunkType.IsAncillary())
	require.True(t, ChunkType.IsPrivate())
	require.False(t, ChunkType.IsReserved())
	require.True(t, ChunkType.IsSafeToCopy())
}

func TestEncodeParse(t *testing.T) {
	f := Fragment{Name: "secret.txt", Index: 2, Total: 3, Data: []byte("hello")}
	data, err := Encode(f)
	require.NoError(t, err)
	require.Len(t, data, HeaderSize(f.Name, f.Index, f.Total)+len(f.Data))

	got, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, f, got)
}

func TestEncodeRejects(t *testing.T) {
	for name, f := range map[string]Fragment{
		"EmptyName":  {Total: 1},
		"LongName":   {Name: strings.Repeat("a", MaxNameLength+1), Total: 1},
		"NotUTF8":    {Name: "\xff", Total: 1},
		"ZeroTotal":  {Name: "a"},
		"IndexRange": {Name: "a", Index: 1, Total: 1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Encode(f)
			require.Error(t, err)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	valid, err := Encode(Fragment{Name: "abc", Index: 0, Total: 1, Data: []byte("x")})
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{name: "Empty", data: nil},
		{name: "Version", data: append([]byte{2}, valid[1:]...)},
		{name: "NoNameLength", data: []byte{Version}},
		{name: "ZeroNameLength", data: []byte{Version, 0, 0, 1}},
		{name: "NameLengthTooLong", data: []byte{Version, 10, 'a', 'b'}},
		{name: "NoIndex", data: []byte{Version, 1, 'a'}},
		{name: "NoTotal", data: []byte{Version, 1, 'a', 0}},
		{name: "ZeroTotal", data: []byte{Version, 1, 'a', 0, 0}},
		{name: "IndexOutOfTotal", data: []byte{Version, 1, 'a', 3, 3}},
		{name: "TruncatedVarint", data: []byte{Version, 1, 'a', 0x80}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			require.ErrorIs(t, err, ErrMalformedCarrier)
		})
	}
}

func TestParseEmptyFragment(t *testing.T) {
	f, err := Parse([]byte{Version, 1, 'a', 0, 1})
	require.NoError(t, err)
	require.Equal(t, "a", f.Name)
	require.Empty(t, f.Data)
}
