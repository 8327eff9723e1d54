package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/ipfs/go-pngfiles/carrier"
	"github.com/ipfs/go-pngfiles/files"
	"github.com/ipfs/go-pngfiles/stash"
)

// EncodeImage embeds the files named on the command line into the input
// image. Each file is stored under its base name.
func EncodeImage(c *cli.Context) error {
	if !c.Args().Present() {
		return errors.New("no files to encode")
	}
	size, err := carrier.ParseSize(c.String("fragment-size"))
	if err != nil {
		return fmt.Errorf("--fragment-size: %w", err)
	}
	out, err := outputPath(c)
	if err != nil {
		return err
	}

	dir := files.NewSerialDirectory(c.Args().Slice())
	src, closer, err := openInput(c)
	if err != nil {
		return err
	}
	err = writeImage(c, out, closer, func(w io.Writer) error {
		return stash.Encode(c.Context, src, dir, w, stash.WithFragmentSize(size))
	})
	if err != nil {
		return err
	}
	for _, p := range c.Args().Slice() {
		log.Infow("encoded file", "name", filepath.Base(p), "image", out)
	}
	return nil
}
