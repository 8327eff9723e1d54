package stash

import (
	"context"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ipfs/go-pngfiles/carrier"
	"github.com/ipfs/go-pngfiles/png"
)

// Remove copies the PNG image read from src to dst, leaving out every
// carrier chunk of the named files. All other chunks, other carriers
// included, are written out byte for byte and in order.
//
// If a name matched no chunk, Remove fails with ErrFileNotFound after the
// whole image has been copied; the first such name is reported. dst must not
// share storage with src.
func Remove(ctx context.Context, src io.Reader, names []string, dst io.Writer, opts ...Option) (err error) {
	o := ApplyOptions(opts...)
	ctx, span := startSpan(ctx, "Remove", trace.WithAttributes(attribute.StringSlice("names", names)))
	defer func(begin time.Time) {
		o.Metrics.observe(opRemove, err, begin)
		endSpan(span, err)
	}(time.Now())

	order, drop := dedupe(names)
	matched := make(map[string]int, len(order))

	w, err := png.NewWalker(src)
	if err != nil {
		return err
	}
	if err := png.WriteSignature(dst); err != nil {
		return err
	}
	for {
		h, err := next(ctx, w)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if h.Type != carrier.ChunkType {
			if err := w.Copy(dst); err != nil {
				return err
			}
			o.Metrics.chunk(opRemove, actionCopy)
			continue
		}

		data, f, err := readCarrier(w, h)
		if err != nil {
			return err
		}
		if _, ok := drop[f.Name]; ok {
			matched[f.Name]++
			o.Metrics.chunk(opRemove, actionDrop)
			log.Debugw("removing fragment", "name", f.Name, "index", f.Index, "offset", h.Offset)
			continue
		}
		// The CRC was just verified, so the rewritten chunk is identical.
		if err := png.WriteChunk(dst, h.Type, data); err != nil {
			return err
		}
		o.Metrics.chunk(opRemove, actionRead)
	}

	for _, name := range order {
		if matched[name] == 0 {
			return &FileError{Name: name, Err: ErrFileNotFound}
		}
	}
	log.Debugw("removed", "files", len(order), "bytes", w.Offset())
	return nil
}
