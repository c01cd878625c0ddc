// Package bzip2 decodes BZip2 streams and reports per-block checksums.
//
// Decoding follows the format's stages in reverse: Huffman decoding with up to
// six coding groups picked by selectors every 50 symbols, the zero-run and
// move-to-front transforms, the inverse Burrows-Wheeler transform, the
// derandomisation of blocks written with the (long obsolete) randomised flag,
// and the initial run-length stage. Concatenated streams decode as one.
//
// A checksum mismatch isn't fatal. [Decoder.DecodeAll] collects mismatches in
// its result, and [Codec.Decompress] logs them.
package bzip2

import (
	"log"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/utilities/bytebuf"
	dsbzip2 "github.com/dsnet/compress/bzip2"
)

// Codec decompresses BZip2 data. Compression is handed to
// github.com/dsnet/compress/bzip2.
type Codec struct {
	// Level is the block size level (1-9) used when compressing. Zero picks
	// the default.
	Level int
	// Logger receives checksum mismatches found while decompressing. Nil
	// discards them.
	Logger *log.Logger
}

func New() *Codec {
	return &Codec{}
}

func (c *Codec) Compress(data []byte, opts pixcodec.Options) ([]byte, error) {
	if err := pixcodec.CheckNoOptions(opts); err != nil {
		return nil, err
	}
	if c.Level < 0 || c.Level > 9 {
		return nil, pixcodec.Errorf(pixcodec.ErrInvalidOptions, "invalid BZip2 level %d", c.Level)
	}

	out := bytebuf.New(len(data)/2 + 64)
	writer, err := dsbzip2.NewWriter(out, &dsbzip2.WriterConfig{Level: c.Level})
	if err != nil {
		return nil, pixcodec.ErrInvalidOptions.Wrap(err)
	}
	if _, err := writer.Write(data); err != nil {
		return nil, pixcodec.ErrCorrupt.Wrap(err)
	}
	if err := writer.Close(); err != nil {
		return nil, pixcodec.ErrCorrupt.Wrap(err)
	}
	return out.ToBytes(), nil
}

// Decompress decodes every stream in `data`. Checksum mismatches are logged
// and otherwise ignored; use [Decoder.DecodeAll] to act on them.
func (c *Codec) Decompress(data []byte, opts pixcodec.Options) ([]byte, error) {
	if err := pixcodec.CheckNoOptions(opts); err != nil {
		return nil, err
	}

	result, err := NewDecoder().DecodeAll(data)
	if err != nil {
		return nil, err
	}
	if result.CRCErrors != nil && c.Logger != nil {
		for _, crcErr := range result.CRCErrors.Errors {
			c.Logger.Printf("bzip2: %s", crcErr)
		}
	}
	return result.Data, nil
}
