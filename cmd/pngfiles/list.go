package main

import (
	"bytes"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multicodec"
	"github.com/multiformats/go-multihash"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/ipfs/go-pngfiles/stash"
)

var rawPrefix = cid.Prefix{
	Version:  1,
	Codec:    uint64(multicodec.Raw),
	MhType:   multihash.SHA2_256,
	MhLength: -1,
}

// ListFiles prints the files embedded in the input image, one per line.
func ListFiles(c *cli.Context) (err error) {
	src, closer, err := openInput(c)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, closer.Close())
	}()

	var cids map[string]cid.Cid
	var entries []stash.Entry
	if c.Bool("cid") {
		entries, cids, err = listWithCids(c, src)
	} else {
		entries, err = stash.List(c.Context, src)
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 8, 2, ' ', 0)
	for _, e := range entries {
		state := fmt.Sprintf("%d/%d", e.Fragments, e.Total)
		if !e.Complete() {
			state += " incomplete"
		}
		line := fmt.Sprintf("%s\t%s\t%s", e.Name, humanize.Bytes(uint64(e.Size)), state)
		if c.Bool("cid") {
			if id, ok := cids[e.Name]; ok {
				line += "\t" + id.String()
			} else {
				line += "\t-"
			}
		}
		fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}

// listWithCids lists the image, then reads it a second time to hash every
// complete file. Inputs that can't seek are buffered in memory first.
func listWithCids(c *cli.Context, src io.Reader) ([]stash.Entry, map[string]cid.Cid, error) {
	rs, ok := src.(io.ReadSeeker)
	if ok {
		if _, err := rs.Seek(0, io.SeekCurrent); err != nil {
			ok = false
		}
	}
	if !ok {
		b, err := io.ReadAll(src)
		if err != nil {
			return nil, nil, err
		}
		rs = bytes.NewReader(b)
	}
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, nil, err
	}

	entries, err := stash.List(c.Context, rs)
	if err != nil {
		return nil, nil, err
	}
	var names []string
	for _, e := range entries {
		if e.Complete() {
			names = append(names, e.Name)
		}
	}
	cids := make(map[string]cid.Cid, len(names))
	if len(names) == 0 {
		return entries, cids, nil
	}

	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, nil, err
	}
	found, err := stash.Decode(c.Context, rs, names)
	if err != nil {
		return nil, nil, err
	}
	for name, data := range found {
		id, err := rawPrefix.Sum(data)
		if err != nil {
			return nil, nil, err
		}
		cids[name] = id
	}
	return entries, cids, nil
}
