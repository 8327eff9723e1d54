package main

import (
	"io"

	"github.com/urfave/cli/v2"

	"github.com/ipfs/go-pngfiles/stash"
)

// RemoveFiles removes the named files from the input image. The image is
// rewritten in place unless --output is given.
func RemoveFiles(c *cli.Context) error {
	names, err := fileNames(c)
	if err != nil {
		return err
	}
	out, err := outputPath(c)
	if err != nil {
		return err
	}

	src, closer, err := openInput(c)
	if err != nil {
		return err
	}
	return writeImage(c, out, closer, func(w io.Writer) error {
		return stash.Remove(c.Context, src, names, w)
	})
}
