// Package stash embeds files into PNG images, and lists, extracts and
// removes them again.
//
// Files are stored in carrier chunks (see package carrier) placed right
// before IEND. Every other chunk is passed through untouched, and chunks that
// don't belong to a requested file are never held in memory.
//
// Operations are synchronous and read their source exactly once, front to
// back. The context is checked between chunks.
package stash

import (
	"context"

	logging "github.com/ipfs/go-log/v2"

	"github.com/ipfs/go-pngfiles/carrier"
	"github.com/ipfs/go-pngfiles/png"
)

var log = logging.Logger("pngfiles/stash")

const (
	opEncode = "encode"
	opDecode = "decode"
	opRemove = "remove"
	opList   = "list"
)

// readCarrier loads and parses the current carrier chunk. Errors carry the
// chunk's position.
func readCarrier(w *png.Walker, h png.Header) ([]byte, carrier.Fragment, error) {
	data, err := w.ReadData()
	if err != nil {
		return nil, carrier.Fragment{}, err
	}
	f, err := carrier.Parse(data)
	if err != nil {
		return nil, carrier.Fragment{}, &png.ChunkError{Type: h.Type, Offset: h.Offset, Err: err}
	}
	return data, f, nil
}

// next returns the next chunk header, or io.EOF after IEND. It fails with
// ctx.Err once ctx is done.
func next(ctx context.Context, w *png.Walker) (png.Header, error) {
	if err := ctx.Err(); err != nil {
		return png.Header{}, err
	}
	return w.Next()
}

// dedupe returns names without repeats, keeping the first occurrence, and
// the matching set.
func dedupe(names []string) ([]string, map[string]struct{}) {
	set := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := set[n]; ok {
			continue
		}
		set[n] = struct{}{}
		out = append(out, n)
	}
	return out, set
}

