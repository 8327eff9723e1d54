package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"golang.org/x/exp/mmap"

	internalio "github.com/ipfs/go-pngfiles/internal/io"
)

const stdio = "-"

// openInput opens the --input image. The returned closer must be called once
// the image has been read.
func openInput(c *cli.Context) (io.Reader, io.Closer, error) {
	path := c.String("input")
	if path == stdio {
		if c.Bool("mmap") {
			return nil, nil, errors.New("--mmap needs a file, not stdin")
		}
		rc := io.NopCloser(c.App.Reader)
		return rc, rc, nil
	}

	if c.Bool("mmap") {
		r, err := mmap.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return internalio.NewOffsetReadSeeker(r, 0), r, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

// outputPath returns where a rewritten image goes: --output if set,
// otherwise the input itself.
func outputPath(c *cli.Context) (string, error) {
	if out := c.String("output"); out != "" {
		return out, nil
	}
	if in := c.String("input"); in != stdio {
		return in, nil
	}
	return stdio, nil
}

// writeImage calls write with a destination for path. Files are written to a
// temporary file next to path, which replaces path only if write and every
// close succeed. The input is closed before the rename.
func writeImage(c *cli.Context, path string, input io.Closer, write func(io.Writer) error) (err error) {
	if path == stdio {
		return multierr.Combine(write(c.App.Writer), input.Close())
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return multierr.Combine(err, input.Close())
	}
	defer func() {
		if err == nil {
			return
		}
		if rerr := os.Remove(tmp.Name()); rerr != nil && !os.IsNotExist(rerr) {
			log.Warnw("failed to remove temporary file", "path", tmp.Name(), "err", rerr)
		}
	}()

	err = write(tmp)
	err = multierr.Combine(err, tmp.Close(), input.Close())
	if err != nil {
		return err
	}

	if st, serr := os.Stat(path); serr == nil {
		if err := os.Chmod(tmp.Name(), st.Mode().Perm()); err != nil {
			return err
		}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	log.Debugw("wrote image", "path", path)
	return nil
}
