package stash

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"

	"github.com/ipfs/go-pngfiles/carrier"
	"github.com/ipfs/go-pngfiles/files"
	"github.com/ipfs/go-pngfiles/png"
)

// Encode copies the PNG image read from src to dst and embeds every file of
// dir into it, in iteration order. Each entry is stored under its entry name.
//
// Chunks of src are written out unchanged and in order. The new carrier
// chunks go right before IEND, after any carriers src already had.
//
// Encode fails with ErrNameCollision if src already holds a file named like
// one of the entries, or if dir has two entries of the same name. Nothing is
// overwritten; remove the file first.
//
// On failure dst holds partial output that must be discarded. The nodes of
// dir, and dir itself, are closed before Encode returns.
func Encode(ctx context.Context, src io.Reader, dir files.Directory, dst io.Writer, opts ...Option) (err error) {
	o := ApplyOptions(opts...)
	ctx, span := startSpan(ctx, "Encode", trace.WithAttributes(attribute.Int("fragmentSize", o.FragmentSize)))
	defer func(begin time.Time) {
		o.Metrics.observe(opEncode, err, begin)
		endSpan(span, err)
	}(time.Now())
	defer func() {
		err = multierr.Append(err, dir.Close())
	}()

	w, err := png.NewWalker(src)
	if err != nil {
		return err
	}
	if err := png.WriteSignature(dst); err != nil {
		return err
	}

	existing := make(map[string]struct{})
	for {
		h, err := next(ctx, w)
		if err != nil {
			// IEND ends the loop below, so io.EOF can't show up here.
			return err
		}

		switch h.Type {
		case png.IEND:
			n, err := embed(ctx, o, dir, existing, dst)
			if err != nil {
				return err
			}
			if err := w.Copy(dst); err != nil {
				return err
			}
			o.Metrics.chunk(opEncode, actionCopy)
			log.Debugw("encoded", "files", n, "existing", len(existing), "bytes", w.Offset())
			return nil
		case carrier.ChunkType:
			data, f, err := readCarrier(w, h)
			if err != nil {
				return err
			}
			existing[f.Name] = struct{}{}
			// The CRC was just verified, so the rewritten chunk is identical.
			if err := png.WriteChunk(dst, h.Type, data); err != nil {
				return err
			}
			o.Metrics.chunk(opEncode, actionRead)
		default:
			if err := w.Copy(dst); err != nil {
				return err
			}
			o.Metrics.chunk(opEncode, actionCopy)
		}
	}
}

// embed writes the carrier chunks of every entry of dir to dst and returns
// how many files it wrote.
func embed(ctx context.Context, o Options, dir files.Directory, existing map[string]struct{}, dst io.Writer) (int, error) {
	seen := make(map[string]struct{})
	it := dir.Entries()
	var n int
	for it.Next() {
		name := it.Name()
		nd := it.Node()

		err := func() (err error) {
			defer func() {
				err = multierr.Append(err, nd.Close())
			}()
			if _, ok := existing[name]; ok {
				return ErrNameCollision
			}
			if _, ok := seen[name]; ok {
				return fmt.Errorf("%w: requested twice", ErrNameCollision)
			}
			seen[name] = struct{}{}

			f := files.ToFile(nd)
			if f == nil {
				return files.ErrNotReader
			}
			return embedFile(ctx, o, name, f, dst)
		}()
		if err != nil {
			return n, &FileError{Name: name, Err: err}
		}
		n++
	}
	return n, it.Err()
}

func embedFile(ctx context.Context, o Options, name string, f files.File, dst io.Writer) error {
	var r io.Reader = f
	size, err := f.Size()
	if errors.Is(err, files.ErrNotSupported) {
		buf, err := io.ReadAll(f)
		if err != nil {
			return err
		}
		r, size = bytes.NewReader(buf), int64(len(buf))
	} else if err != nil {
		return err
	}

	s, err := carrier.NewSplitter(name, r, size, o.FragmentSize)
	if err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := s.NextBytes()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := png.WriteChunk(dst, carrier.ChunkType, data); err != nil {
			return err
		}
		o.Metrics.chunk(opEncode, actionWrite)
	}
	o.Metrics.bytes(opEncode, size)
	var path string
	if fi, ok := f.(files.FileInfo); ok {
		path = fi.AbsPath()
	}
	log.Debugw("embedded file", "name", name, "path", path, "size", size, "fragments", s.Total())
	return nil
}
