package png_test

import (
	"bytes"
	"image"
	"image/color"
	stdpng "image/png"
	"io"
	"runtime"
	"testing"

	"github.com/ipfs/go-pngfiles/png"
	"github.com/stretchr/testify/require"
)

// requireMinimalPNG encodes a small image with the standard library. The
// result holds IHDR, IDAT and IEND.
func requireMinimalPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 2, color.NRGBA{R: 0xff, A: 0xff})
	var buf bytes.Buffer
	require.NoError(t, stdpng.Encode(&buf, img))
	return buf.Bytes()
}

func requireBuild(t *testing.T, chunks ...png.Chunk) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.WriteSignature(&buf))
	for _, c := range chunks {
		_, err := c.WriteTo(&buf)
		require.NoError(t, err)
	}
	return buf.Bytes()
}

// readers returns the two flavours of source the walker distinguishes.
func readers(b []byte) map[string]func() io.Reader {
	return map[string]func() io.Reader{
		"Seekable": func() io.Reader { return bytes.NewReader(b) },
		"Stream":   func() io.Reader { return io.MultiReader(bytes.NewReader(b)) },
	}
}

func TestWalkerHeaders(t *testing.T) {
	src := requireBuild(t,
		png.Chunk{Type: png.IHDR, Data: make([]byte, 13)},
		png.Chunk{Type: "tEXt", Data: []byte("k\x00v")},
		png.Chunk{Type: png.IDAT, Data: []byte{1, 2, 3, 4, 5}},
		png.Chunk{Type: png.IEND},
	)
	for name, open := range readers(src) {
		t.Run(name, func(t *testing.T) {
			w, err := png.NewWalker(open())
			require.NoError(t, err)

			var got []png.Header
			for {
				h, err := w.Next()
				if err == io.EOF {
					break
				}
				require.NoError(t, err)
				got = append(got, h)
			}
			require.Equal(t, []png.Header{
				{Type: png.IHDR, Length: 13, Offset: 8},
				{Type: "tEXt", Length: 3, Offset: 33},
				{Type: png.IDAT, Length: 5, Offset: 48},
				{Type: png.IEND, Length: 0, Offset: 65},
			}, got)
			require.EqualValues(t, len(src), w.Offset())

			_, err = w.Next()
			require.Equal(t, io.EOF, err)
		})
	}
}

func TestWalkerNotPNG(t *testing.T) {
	for name, in := range map[string][]byte{
		"Empty":     nil,
		"Short":     png.Signature[:5],
		"WrongByte": append([]byte{0x88}, png.Signature[1:]...),
		"GIF":       []byte("GIF89a\x00\x00\x00\x00"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := png.NewWalker(bytes.NewReader(in))
			require.ErrorIs(t, err, png.ErrNotPNG)
		})
	}
}

func TestWalkerUnexpectedEOF(t *testing.T) {
	src := requireMinimalPNG(t)
	// Drop IEND entirely.
	src = src[:len(src)-12]
	for name, open := range readers(src) {
		t.Run(name, func(t *testing.T) {
			w, err := png.NewWalker(open())
			require.NoError(t, err)
			for {
				_, err = w.Next()
				if err != nil {
					break
				}
			}
			require.ErrorIs(t, err, png.ErrUnexpectedEOF)
		})
	}
}

func TestWalkerChunkOrder(t *testing.T) {
	src := requireBuild(t, png.Chunk{Type: png.IEND})
	w, err := png.NewWalker(bytes.NewReader(src))
	require.NoError(t, err)
	_, err = w.Next()
	require.ErrorIs(t, err, png.ErrChunkOrder)
}

func TestWalkerSkipIgnoresCRC(t *testing.T) {
	src := requireBuild(t,
		png.Chunk{Type: png.IHDR, Data: make([]byte, 13)},
		png.Chunk{Type: png.IDAT, Data: []byte("pixels")},
		png.Chunk{Type: png.IEND},
	)
	// Corrupt one byte of the IDAT data.
	src[8+25+8] ^= 0xff

	for name, open := range readers(src) {
		t.Run(name, func(t *testing.T) {
			w, err := png.NewWalker(open())
			require.NoError(t, err)
			for {
				_, err := w.Next()
				if err == io.EOF {
					break
				}
				require.NoError(t, err)
				require.NoError(t, w.Skip())
			}
		})
	}

	t.Run("ReadDataDetects", func(t *testing.T) {
		w, err := png.NewWalker(bytes.NewReader(src))
		require.NoError(t, err)
		_, err = w.Next()
		require.NoError(t, err)
		h, err := w.Next()
		require.NoError(t, err)
		require.Equal(t, png.IDAT, h.Type)
		_, err = w.ReadData()
		require.ErrorIs(t, err, png.ErrCRCMismatch)
	})
}

func TestWalkerCopyIsByteIdentical(t *testing.T) {
	src := requireMinimalPNG(t)
	for name, open := range readers(src) {
		t.Run(name, func(t *testing.T) {
			w, err := png.NewWalker(open())
			require.NoError(t, err)

			var out bytes.Buffer
			require.NoError(t, png.WriteSignature(&out))
			for {
				_, err := w.Next()
				if err == io.EOF {
					break
				}
				require.NoError(t, err)
				require.NoError(t, w.Copy(&out))
			}
			require.Equal(t, src, out.Bytes())
		})
	}
}

func TestWalkerReadData(t *testing.T) {
	src := requireBuild(t,
		png.Chunk{Type: png.IHDR, Data: make([]byte, 13)},
		png.Chunk{Type: "zzZz", Data: []byte("hello")},
		png.Chunk{Type: png.IEND},
	)
	w, err := png.NewWalker(io.MultiReader(bytes.NewReader(src)))
	require.NoError(t, err)

	// IHDR is left alone; Next skips it implicitly.
	_, err = w.Next()
	require.NoError(t, err)
	h, err := w.Next()
	require.NoError(t, err)
	require.Equal(t, png.Type("zzZz"), h.Type)

	data, err := w.ReadData()
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))

	_, err = w.ReadData()
	require.ErrorIs(t, err, png.ErrNoChunk)
	require.ErrorIs(t, w.Skip(), png.ErrNoChunk)
	require.ErrorIs(t, w.Copy(io.Discard), png.ErrNoChunk)
}

func TestWalkerTruncatedData(t *testing.T) {
	src := requireMinimalPNG(t)
	// Cut in the middle of IDAT.
	src = src[:8+25+10]

	w, err := png.NewWalker(io.MultiReader(bytes.NewReader(src)))
	require.NoError(t, err)
	_, err = w.Next()
	require.NoError(t, err)
	require.NoError(t, w.Copy(io.Discard))
	_, err = w.Next()
	require.NoError(t, err)
	require.ErrorIs(t, w.Copy(io.Discard), png.ErrTruncatedChunk)
}

func TestWalkerSkipTruncated(t *testing.T) {
	full := requireMinimalPNG(t)
	idat := 8 + 25 + 8
	tests := map[string][]byte{
		"IENDWithoutCRC":  full[:len(full)-4],
		"IENDMissingByte": full[:len(full)-1],
		"MidIDAT":         full[:idat+2],
	}
	for name, src := range tests {
		for kind, open := range readers(src) {
			t.Run(name+"/"+kind, func(t *testing.T) {
				w, err := png.NewWalker(open())
				require.NoError(t, err)
				for {
					_, err = w.Next()
					if err != nil {
						break
					}
				}
				require.ErrorIs(t, err, png.ErrTruncatedChunk)
			})
		}
	}
}

func TestWalkerHugeDeclaredLength(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, png.WriteSignature(&src))
	_, err := png.Chunk{Type: png.IHDR, Data: make([]byte, 13)}.WriteTo(&src)
	require.NoError(t, err)
	// A carrier chunk header declaring the largest legal length, followed by
	// a few bytes only.
	src.Write([]byte{0x7f, 0xff, 0xff, 0xff, 'f', 'i', 'L', 'e', 1, 2, 3})

	for name, open := range readers(src.Bytes()) {
		t.Run(name, func(t *testing.T) {
			w, err := png.NewWalker(open())
			require.NoError(t, err)
			_, err = w.Next()
			require.NoError(t, err)
			h, err := w.Next()
			require.NoError(t, err)
			require.EqualValues(t, png.MaxChunkLength, h.Length)

			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			_, err = w.ReadData()
			runtime.ReadMemStats(&after)
			require.ErrorIs(t, err, png.ErrTruncatedChunk)
			require.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
		})
	}
}

func TestWalkerStopsAtIEND(t *testing.T) {
	src := append(requireMinimalPNG(t), []byte("trailing garbage")...)
	w, err := png.NewWalker(bytes.NewReader(src))
	require.NoError(t, err)
	var last png.Header
	for {
		h, err := w.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		last = h
	}
	require.Equal(t, png.IEND, last.Type)
	require.EqualValues(t, len(src)-len("trailing garbage"), w.Offset())
}
