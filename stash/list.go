package stash

import (
	"context"
	"io"
	"time"

	"github.com/ipfs/go-pngfiles/carrier"
	"github.com/ipfs/go-pngfiles/png"
)

// Entry describes an embedded file found by List.
type Entry struct {
	Name string
	// Size is the number of payload bytes present, summed over fragments.
	Size int64
	// Fragments is the number of distinct fragments present.
	Fragments uint32
	// Total is the number of fragments the file was split into.
	Total uint32
}

// Complete reports whether every fragment of the file is present.
func (e Entry) Complete() bool {
	return e.Fragments == e.Total
}

// List returns the files embedded in the PNG image read from src, in the
// order their first fragment appears. Fragment payloads are checked against
// their CRC but not kept.
//
// Fragments that repeat an index, or disagree on the total, fail with the
// same errors Decode would return for them.
func List(ctx context.Context, src io.Reader, opts ...Option) (_ []Entry, err error) {
	o := ApplyOptions(opts...)
	ctx, span := startSpan(ctx, "List")
	defer func(begin time.Time) {
		o.Metrics.observe(opList, err, begin)
		endSpan(span, err)
	}(time.Now())

	w, err := png.NewWalker(src)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	byName := make(map[string]int)
	seen := make(map[string]map[uint32]struct{})
	for {
		h, err := next(ctx, w)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if h.Type != carrier.ChunkType {
			if err := w.Skip(); err != nil {
				return nil, err
			}
			o.Metrics.chunk(opList, actionSkip)
			continue
		}

		_, f, err := readCarrier(w, h)
		if err != nil {
			return nil, err
		}
		o.Metrics.chunk(opList, actionRead)

		i, ok := byName[f.Name]
		if !ok {
			i = len(entries)
			byName[f.Name] = i
			entries = append(entries, Entry{Name: f.Name, Total: f.Total})
			seen[f.Name] = make(map[uint32]struct{})
		}
		e := &entries[i]
		if f.Total != e.Total {
			return nil, &png.ChunkError{Type: h.Type, Offset: h.Offset, Err: &FileError{Name: f.Name, Err: carrier.ErrMalformedCarrier}}
		}
		if _, dup := seen[f.Name][f.Index]; dup {
			return nil, &png.ChunkError{Type: h.Type, Offset: h.Offset, Err: &FileError{Name: f.Name, Err: carrier.ErrDuplicateFragment}}
		}
		seen[f.Name][f.Index] = struct{}{}
		e.Fragments++
		e.Size += int64(len(f.Data))
	}
	log.Debugw("listed", "files", len(entries), "bytes", w.Offset())
	return entries, nil
}
