package stash

import (
	"context"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ipfs/go-pngfiles/carrier"
	"github.com/ipfs/go-pngfiles/files"
	"github.com/ipfs/go-pngfiles/png"
)

// Sink receives the files extracted by DecodeTo.
type Sink interface {
	WriteFile(name string, f files.File) error
}

var _ Sink = files.DirSink{}

// Decode extracts the named files from the PNG image read from src.
//
// Only carrier chunks are read; every other chunk is skipped without being
// loaded or checksummed. Fragments of files that were not asked for are
// dropped as soon as their CRC has been checked.
//
// After the whole image has been read, names are checked in order: the
// first one with no fragments fails with ErrFileNotFound, and the first one
// with missing fragments fails with carrier.ErrIncompleteFile. Either way no
// files are returned. Repeated names are only extracted once.
func Decode(ctx context.Context, src io.Reader, names []string, opts ...Option) (_ map[string][]byte, err error) {
	o := ApplyOptions(opts...)
	ctx, span := startSpan(ctx, "Decode", trace.WithAttributes(attribute.StringSlice("names", names)))
	defer func(begin time.Time) {
		o.Metrics.observe(opDecode, err, begin)
		endSpan(span, err)
	}(time.Now())

	order, want := dedupe(names)

	w, err := png.NewWalker(src)
	if err != nil {
		return nil, err
	}

	r := carrier.NewReassembler()
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
			o.Metrics.chunk(opDecode, actionSkip)
			continue
		}

		_, f, err := readCarrier(w, h)
		if err != nil {
			return nil, err
		}
		if _, ok := want[f.Name]; !ok {
			o.Metrics.chunk(opDecode, actionDrop)
			log.Debugw("dropping fragment", "name", f.Name, "index", f.Index, "offset", h.Offset)
			continue
		}
		if err := r.Add(f); err != nil {
			return nil, &png.ChunkError{Type: h.Type, Offset: h.Offset, Err: err}
		}
		o.Metrics.chunk(opDecode, actionRead)
	}

	for _, name := range order {
		if !r.Has(name) {
			return nil, &FileError{Name: name, Err: ErrFileNotFound}
		}
		if !r.Complete(name) {
			_, err := r.Assemble(name)
			return nil, &FileError{Name: name, Err: err}
		}
	}

	out := make(map[string][]byte, len(order))
	for _, name := range order {
		b, err := r.Assemble(name)
		if err != nil {
			return nil, &FileError{Name: name, Err: err}
		}
		out[name] = b
		o.Metrics.bytes(opDecode, int64(len(b)))
	}
	log.Debugw("decoded", "files", len(out), "bytes", w.Offset())
	return out, nil
}

// DecodeTo extracts the named files like Decode does, then hands each one to
// sink in the order they were named. It stops at the first error sink
// returns.
func DecodeTo(ctx context.Context, src io.Reader, names []string, sink Sink, opts ...Option) error {
	found, err := Decode(ctx, src, names, opts...)
	if err != nil {
		return err
	}
	order, _ := dedupe(names)
	for _, name := range order {
		if err := sink.WriteFile(name, files.NewBytesFile(found[name])); err != nil {
			return &FileError{Name: name, Err: err}
		}
	}
	return nil
}

