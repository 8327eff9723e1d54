package main

import (
	"fmt"
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"
)

var log = logging.Logger("pngfiles")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	inputFlag := &cli.StringFlag{
		Name:      "input",
		Aliases:   []string{"i"},
		Usage:     "The PNG image to read, or - for stdin",
		Required:  true,
		TakesFile: true,
	}
	mmapFlag := &cli.BoolFlag{
		Name:    "mmap",
		Usage:   "Memory map the input instead of reading it",
		EnvVars: []string{"PNGFILES_MMAP"},
	}

	return &cli.App{
		Name:  "pngfiles",
		Usage: "Embed files in PNG images, and list, extract or remove them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level for all subsystems (debug, info, warn, error)",
				Value:   "error",
				EnvVars: []string{"PNGFILES_LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			return logging.SetLogLevel("*", c.String("log-level"))
		},
		Commands: []*cli.Command{
			{
				Name:      "encode",
				Aliases:   []string{"e"},
				Usage:     "Embed files into an image",
				ArgsUsage: "FILE...",
				Action:    EncodeImage,
				Flags: []cli.Flag{
					inputFlag,
					mmapFlag,
					&cli.StringFlag{
						Name:      "output",
						Aliases:   []string{"o"},
						Usage:     "Where to write the new image, or - for stdout. Defaults to rewriting the input",
						TakesFile: true,
					},
					&cli.StringFlag{
						Name:    "fragment-size",
						Usage:   "Largest payload stored in a single chunk, such as 64KiB or 1MiB",
						Value:   "default",
						EnvVars: []string{"PNGFILES_FRAGMENT_SIZE"},
					},
				},
			},
			{
				Name:      "decode",
				Aliases:   []string{"d"},
				Usage:     "Extract embedded files from an image",
				ArgsUsage: "NAME...",
				Action:    DecodeImage,
				Flags: []cli.Flag{
					inputFlag,
					mmapFlag,
					&cli.StringFlag{
						Name:      "output",
						Aliases:   []string{"o"},
						Usage:     "The directory to write extracted files to",
						Value:     ".",
						TakesFile: true,
					},
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Overwrite files that already exist in the output directory",
					},
				},
			},
			{
				Name:      "remove",
				Aliases:   []string{"r"},
				Usage:     "Remove embedded files from an image",
				ArgsUsage: "NAME...",
				Action:    RemoveFiles,
				Flags: []cli.Flag{
					inputFlag,
					mmapFlag,
					&cli.StringFlag{
						Name:      "output",
						Aliases:   []string{"o"},
						Usage:     "Where to write the new image, or - for stdout. Defaults to rewriting the input",
						TakesFile: true,
					},
				},
			},
			{
				Name:    "list",
				Aliases: []string{"l", "ls"},
				Usage:   "List the files embedded in an image",
				Action:  ListFiles,
				Flags: []cli.Flag{
					inputFlag,
					mmapFlag,
					&cli.BoolFlag{
						Name:  "cid",
						Usage: "Print a CIDv1 (raw, sha2-256) of every complete file",
					},
				},
			},
		},
	}
}
