package png

import (
	"encoding/binary"
	"io"

	internalio "github.com/ipfs/go-pngfiles/internal/io"
)

// Header describes a chunk whose data has not been consumed yet.
type Header struct {
	Type   Type
	Length uint32
	// Offset is the position of the chunk's length field in the datastream.
	Offset int64
}

// Size returns the encoded size of the chunk, including length, type and CRC.
func (h Header) Size() int64 {
	return chunkOverhead + int64(h.Length)
}

// Walker iterates over the chunks of a PNG datastream, front to back.
//
// Next returns the header of the following chunk. Its data is then consumed
// by exactly one of Skip, ReadData or Copy; if the caller does none of them,
// the next call to Next skips it. Only ReadData looks at the CRC.
//
// Iteration ends with io.EOF once IEND has been consumed. Bytes after IEND
// are never read.
type Walker struct {
	r      internalio.Skipper
	offset int64

	cur     Header
	pending bool
	started bool
	done    bool
}

// NewWalker reads and checks the PNG signature from r and returns a Walker
// positioned before the first chunk.
//
// If r can seek, skipped chunk data is seeked over. Otherwise r is buffered
// and skipped data is read and discarded.
func NewWalker(r io.Reader) (*Walker, error) {
	w := &Walker{r: internalio.ToSkipper(r)}

	var sig [SignatureSize]byte
	if _, err := io.ReadFull(w.r, sig[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrNotPNG
		}
		return nil, err
	}
	if sig != Signature {
		return nil, ErrNotPNG
	}
	w.offset = SignatureSize
	return w, nil
}

// Next advances to the next chunk and returns its header.
func (w *Walker) Next() (Header, error) {
	if w.pending {
		if err := w.Skip(); err != nil {
			return Header{}, err
		}
	}
	if w.done {
		return Header{}, io.EOF
	}

	var hdr [headerSize]byte
	if _, err := io.ReadFull(w.r, hdr[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Header{}, ErrUnexpectedEOF
		}
		return Header{}, err
	}
	h, err := parseHeader(hdr, w.offset)
	if err != nil {
		return Header{}, err
	}
	w.offset += headerSize

	if !w.started {
		if h.Type != IHDR {
			return Header{}, &ChunkError{Type: h.Type, Offset: h.Offset, Err: ErrChunkOrder}
		}
		w.started = true
	}

	w.cur = h
	w.pending = true
	return h, nil
}

// Skip advances past the current chunk's data and CRC without reading or
// checksumming them.
func (w *Walker) Skip() error {
	if !w.pending {
		return ErrNoChunk
	}
	want := int64(w.cur.Length) + 4
	n, err := w.r.Skip(want)
	w.offset += n
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return &ChunkError{Type: w.cur.Type, Offset: w.cur.Offset, Err: ErrTruncatedChunk}
		}
		return err
	}
	w.consumed()
	return nil
}

// ReadData loads the current chunk's data and verifies its CRC.
// The returned slice is owned by the caller.
func (w *Walker) ReadData() ([]byte, error) {
	if !w.pending {
		return nil, ErrNoChunk
	}
	data, err := readData(w.r, w.cur)
	if err != nil {
		return nil, err
	}
	w.offset += int64(w.cur.Length) + 4
	w.consumed()
	return data, nil
}

// Copy writes the current chunk to dst exactly as it appears in the source:
// length, type, data and the stored CRC. The data is streamed through a
// fixed size buffer and its CRC is not checked.
func (w *Walker) Copy(dst io.Writer) error {
	if !w.pending {
		return ErrNoChunk
	}
	var hdr [headerSize]byte
	binary.BigEndian.PutUint32(hdr[:4], w.cur.Length)
	copy(hdr[4:], w.cur.Type)
	if _, err := dst.Write(hdr[:]); err != nil {
		return err
	}

	want := int64(w.cur.Length) + 4
	n, err := io.CopyN(dst, w.r, want)
	w.offset += n
	if err != nil {
		if err == io.EOF {
			return &ChunkError{Type: w.cur.Type, Offset: w.cur.Offset, Err: ErrTruncatedChunk}
		}
		return err
	}
	w.consumed()
	return nil
}

// Offset returns the number of bytes consumed from the datastream so far.
func (w *Walker) Offset() int64 {
	return w.offset
}

func (w *Walker) consumed() {
	w.pending = false
	if w.cur.Type == IEND {
		w.done = true
	}
}
