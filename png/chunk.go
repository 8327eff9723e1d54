// Package png reads and writes the chunk layer of a PNG datastream.
//
// It never decodes image data. A Walker hands out chunk headers one at a
// time and lets the caller decide, per chunk, whether the data is skipped,
// copied through untouched or loaded and checksummed.
//
// Refer to the PNG specification for the chunk layout:
// https://www.w3.org/TR/png/#5Chunk-layout
package png

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"
)

const (
	// SignatureSize is the length of the PNG file signature.
	SignatureSize = 8

	// MaxChunkLength is the largest data length a chunk may declare.
	MaxChunkLength = 1<<31 - 1

	// length (4) + type (4) + crc (4)
	chunkOverhead = 12
	headerSize    = 8

	// Chunks up to this length are read into a buffer of the declared size.
	// Longer ones grow their buffer as data arrives.
	preallocLimit = 64 << 10
)

// Signature is the fixed prefix of every PNG datastream.
var Signature = [SignatureSize]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// WriteSignature writes the PNG signature to w. Every datastream written by
// this module starts with it.
func WriteSignature(w io.Writer) error {
	_, err := w.Write(Signature[:])
	return err
}

// Type is a four letter chunk type code.
type Type string

const (
	IHDR Type = "IHDR"
	PLTE Type = "PLTE"
	IDAT Type = "IDAT"
	IEND Type = "IEND"
)

// Valid reports whether t is four ASCII letters.
func (t Type) Valid() bool {
	if len(t) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		c := t[i]
		if !('A' <= c && c <= 'Z' || 'a' <= c && c <= 'z') {
			return false
		}
	}
	return true
}

// The property bits are bit 5 (lowercase) of each byte of the type code.
func (t Type) bit(i int) bool {
	return len(t) == 4 && t[i]&0x20 != 0
}

// IsAncillary reports whether decoders may ignore a chunk of this type.
func (t Type) IsAncillary() bool { return t.bit(0) }

// IsPrivate reports whether the type is outside the public registry.
func (t Type) IsPrivate() bool { return t.bit(1) }

// IsReserved reports whether the reserved bit is set, which makes the type
// non-conformant.
func (t Type) IsReserved() bool { return t.bit(2) }

// IsSafeToCopy reports whether editors may copy an unknown chunk of this
// type even after modifying critical chunks.
func (t Type) IsSafeToCopy() bool { return t.bit(3) }

func (t Type) String() string {
	return string(t)
}

// Chunk is a fully materialized chunk. The CRC is not part of it; it is
// verified on read and recomputed on every write.
type Chunk struct {
	Type Type
	Data []byte
}

// Size returns the encoded size of c, including length, type and CRC.
func (c Chunk) Size() int64 {
	return chunkOverhead + int64(len(c.Data))
}

// WriteTo writes c with a freshly computed CRC.
func (c Chunk) WriteTo(w io.Writer) (int64, error) {
	if err := WriteChunk(w, c.Type, c.Data); err != nil {
		return 0, err
	}
	return c.Size(), nil
}

// Checksum returns the CRC-32 of t followed by data, as stored in the last
// four bytes of a chunk.
func Checksum(t Type, data []byte) uint32 {
	var tb [4]byte
	copy(tb[:], t)
	return crc32.Update(crc32.ChecksumIEEE(tb[:]), crc32.IEEETable, data)
}

// WriteChunk writes one chunk of type t. The CRC is always computed from t
// and data; there is no way to supply one.
func WriteChunk(w io.Writer, t Type, data []byte) error {
	if !t.Valid() {
		return &ChunkError{Type: t, Offset: -1, Err: ErrInvalidType}
	}
	if int64(len(data)) > MaxChunkLength {
		return &ChunkError{Type: t, Offset: -1, Err: ErrChunkTooLarge}
	}

	var hdr [headerSize]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(len(data)))
	copy(hdr[4:], t)
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}

	var crc [4]byte
	binary.BigEndian.PutUint32(crc[:], Checksum(t, data))
	_, err := w.Write(crc[:])
	return err
}

// ReadChunk reads one complete chunk from r and verifies its CRC.
// It returns io.EOF only if r is exhausted before the first byte.
func ReadChunk(r io.Reader) (Chunk, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return Chunk{}, ErrTruncatedChunk
		}
		return Chunk{}, err
	}
	h, err := parseHeader(hdr, -1)
	if err != nil {
		return Chunk{}, err
	}
	data, err := readData(r, h)
	if err != nil {
		return Chunk{}, err
	}
	return Chunk{Type: h.Type, Data: data}, nil
}

func parseHeader(hdr [headerSize]byte, offset int64) (Header, error) {
	h := Header{
		Type:   Type(hdr[4:]),
		Length: binary.BigEndian.Uint32(hdr[:4]),
		Offset: offset,
	}
	if h.Length > MaxChunkLength {
		return h, &ChunkError{Type: h.Type, Offset: offset, Err: ErrChunkTooLarge}
	}
	if !h.Type.Valid() {
		return h, &ChunkError{Type: h.Type, Offset: offset, Err: ErrInvalidType}
	}
	return h, nil
}

// readData reads the data and CRC described by h and checks them. Memory
// grows with the bytes actually read, so a short datastream declaring a huge
// chunk fails without allocating the declared length.
func readData(r io.Reader, h Header) ([]byte, error) {
	want := int64(h.Length) + 4
	var buf []byte
	if want <= preallocLimit {
		buf = make([]byte, want)
		if _, err := io.ReadFull(r, buf); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, &ChunkError{Type: h.Type, Offset: h.Offset, Err: ErrTruncatedChunk}
			}
			return nil, err
		}
	} else {
		var b bytes.Buffer
		n, err := io.CopyN(&b, r, want)
		if n < want {
			if err == nil || err == io.EOF {
				return nil, &ChunkError{Type: h.Type, Offset: h.Offset, Err: ErrTruncatedChunk}
			}
			return nil, err
		}
		buf = b.Bytes()
	}

	data, stored := buf[:h.Length:h.Length], binary.BigEndian.Uint32(buf[h.Length:])
	if sum := Checksum(h.Type, data); sum != stored {
		return nil, &ChunkError{Type: h.Type, Offset: h.Offset, Err: &crcError{stored: stored, computed: sum}}
	}
	return data, nil
}
