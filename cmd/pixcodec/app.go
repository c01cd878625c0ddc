package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/codecs"
	"github.com/dargueta/pixcodec/codecs/bzip2"
	"github.com/dargueta/pixcodec/codecs/rpza"
	"github.com/dargueta/pixcodec/codecs/zlib"
	"github.com/dargueta/pixcodec/utilities/compression"
	"github.com/gocarina/gocsv"
	"github.com/urfave/cli/v2"
)

func codecFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "codec",
		Aliases:  []string{"c"},
		Usage:    "codec to use, one of: " + strings.Join(codecs.Names(), ", "),
		Required: true,
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "pixcodec",
		Usage: "Compress and decompress legacy image and video codec payloads",
		Commands: []*cli.Command{
			{
				Name:      "compress",
				Usage:     "Compress a file",
				ArgsUsage: "INPUT_FILE  OUTPUT_FILE",
				Flags: []cli.Flag{
					codecFlag(),
					&cli.IntFlag{
						Name:  "level",
						Usage: "compression level for bzip2, zlib, and deflate",
					},
				},
				Action: compressFile,
			},
			{
				Name:      "decompress",
				Usage:     "Decompress a file",
				ArgsUsage: "INPUT_FILE  OUTPUT_FILE",
				Flags: []cli.Flag{
					codecFlag(),
					&cli.IntFlag{Name: "width", Usage: "frame width in pixels"},
					&cli.IntFlag{Name: "height", Usage: "frame height in pixels"},
					&cli.IntFlag{Name: "bpp", Usage: "bits per pixel of the decoded frame"},
					&cli.StringFlag{
						Name:  "previous",
						Usage: "file holding the previous decoded frame",
					},
				},
				Action: decompressFile,
			},
			{
				Name:      "inspect",
				Usage:     "Print a CSV report of the blocks in a BZip2 file",
				ArgsUsage: "INPUT_FILE",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "strict",
						Usage: "exit with an error if any checksum doesn't match",
					},
				},
				Action: inspectBZip2,
			},
			{
				Name:   "list",
				Usage:  "List the available codecs",
				Action: listCodecs,
			},
		},
	}
}

func requireArgs(context *cli.Context, count int) error {
	if context.Args().Len() != count {
		return cli.Exit(
			fmt.Sprintf(
				"%s: expected %d arguments, got %d",
				context.Command.Name,
				count,
				context.Args().Len(),
			),
			1,
		)
	}
	return nil
}

// lookupCodec returns the codec named by the --codec flag, configured from the
// other flags it understands.
func lookupCodec(context *cli.Context) (pixcodec.Codec, error) {
	codec, err := codecs.Lookup(context.String("codec"))
	if err != nil {
		return nil, err
	}

	logger := log.New(context.App.ErrWriter, "warning: ", 0)
	level := context.Int("level")
	switch c := codec.(type) {
	case *bzip2.Codec:
		c.Logger = logger
		c.Level = level
	case *rpza.Codec:
		c.Logger = logger
	case *zlib.Codec:
		if context.IsSet("level") {
			c.Level = level
		}
	case *zlib.DeflateCodec:
		if context.IsSet("level") {
			c.Level = level
		}
	}
	return codec, nil
}

func frameOptions(context *cli.Context) (pixcodec.Options, error) {
	if !codecs.NeedsFrameOptions(context.String("codec")) {
		return pixcodec.NoOptions{}, nil
	}

	opts := pixcodec.FrameOptions{
		Width:        context.Int("width"),
		Height:       context.Int("height"),
		BitsPerPixel: context.Int("bpp"),
	}
	if path := context.String("previous"); path != "" {
		previous, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		opts.PreviousFrame = previous
	}
	return opts, nil
}

// runStream opens the input and output files named on the command line and
// pipes one through the other with `process`.
func runStream(
	context *cli.Context,
	process func(input *os.File, output *os.File) (int64, error),
) error {
	if err := requireArgs(context, 2); err != nil {
		return err
	}

	input, err := os.Open(context.Args().Get(0))
	if err != nil {
		return err
	}
	defer input.Close()

	output, err := os.Create(context.Args().Get(1))
	if err != nil {
		return err
	}
	defer output.Close()

	written, err := process(input, output)
	if err != nil {
		return err
	}
	fmt.Fprintf(context.App.Writer, "Wrote %d bytes to %s\n", written, context.Args().Get(1))
	return nil
}

func compressFile(context *cli.Context) error {
	codec, err := lookupCodec(context)
	if err != nil {
		return err
	}
	return runStream(context, func(input *os.File, output *os.File) (int64, error) {
		return compression.CompressStream(codec, pixcodec.NoOptions{}, input, output)
	})
}

func decompressFile(context *cli.Context) error {
	codec, err := lookupCodec(context)
	if err != nil {
		return err
	}
	opts, err := frameOptions(context)
	if err != nil {
		return err
	}
	return runStream(context, func(input *os.File, output *os.File) (int64, error) {
		return compression.DecompressStream(codec, opts, input, output)
	})
}

// blockRecord is one row of the inspect report.
type blockRecord struct {
	Stream      int    `csv:"stream"`
	Block       int    `csv:"block"`
	Size        int    `csv:"size"`
	StoredCRC   string `csv:"stored_crc"`
	ComputedCRC string `csv:"computed_crc"`
	Randomised  bool   `csv:"randomised"`
	OK          bool   `csv:"ok"`
}

func inspectBZip2(context *cli.Context) error {
	if err := requireArgs(context, 1); err != nil {
		return err
	}
	data, err := os.ReadFile(context.Args().Get(0))
	if err != nil {
		return err
	}

	result, err := bzip2.NewDecoder().DecodeAll(data)
	if err != nil {
		return err
	}

	records := make([]blockRecord, 0, len(result.Blocks))
	for _, block := range result.Blocks {
		records = append(records, blockRecord{
			Stream:      block.Stream,
			Block:       block.Index,
			Size:        block.Size,
			StoredCRC:   fmt.Sprintf("0x%08x", block.StoredCRC),
			ComputedCRC: fmt.Sprintf("0x%08x", block.ComputedCRC),
			Randomised:  block.Randomised,
			OK:          block.CRCValid(),
		})
	}
	if err := gocsv.Marshal(records, context.App.Writer); err != nil {
		return err
	}

	if result.CRCErrors != nil {
		for _, crcErr := range result.CRCErrors.Errors {
			fmt.Fprintf(context.App.ErrWriter, "%s\n", crcErr)
		}
		if context.Bool("strict") {
			return cli.Exit("checksum errors found", 2)
		}
	}
	return nil
}

func listCodecs(context *cli.Context) error {
	for _, name := range codecs.Names() {
		kind := "stream"
		if codecs.NeedsFrameOptions(name) {
			kind = "frame"
		}
		fmt.Fprintf(context.App.Writer, "%-10s %s\n", name, kind)
	}
	return nil
}
