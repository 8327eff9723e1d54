package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/ipfs/go-pngfiles/files"
	"github.com/ipfs/go-pngfiles/stash"
)

// DecodeImage extracts the named files from the input image into the
// --output directory.
func DecodeImage(c *cli.Context) (err error) {
	names, err := fileNames(c)
	if err != nil {
		return err
	}

	outDir := c.String("output")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	src, closer, err := openInput(c)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, closer.Close())
	}()

	sink := files.DirSink{Root: outDir, Overwrite: c.Bool("force")}
	if err := stash.DecodeTo(c.Context, src, names, sink); err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintf(c.App.ErrWriter, "extracted %s\n", filepath.Join(outDir, name))
	}
	return nil
}

// fileNames returns the embedded file names given on the command line.
// Paths are reduced to their base name, the name they were encoded under.
// Repeated names are kept once, at their first position.
func fileNames(c *cli.Context) ([]string, error) {
	if !c.Args().Present() {
		return nil, errors.New("no file names given")
	}
	names := make([]string, 0, c.Args().Len())
	seen := make(map[string]struct{}, c.Args().Len())
	for _, a := range c.Args().Slice() {
		name := filepath.Base(a)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}
