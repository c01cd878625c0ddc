// Package zlib provides the ZLIB (RFC 1950) and raw deflate (RFC 1951) codecs
// used by TIFF's Adobe Deflate compression, on top of
// github.com/klauspost/compress.
package zlib

import (
	"bytes"
	"errors"
	"io"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/utilities/bytebuf"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

// Codec reads and writes ZLIB-wrapped deflate data.
type Codec struct {
	// Level is a compression level from github.com/klauspost/compress/flate,
	// -2 (Huffman only) through 9.
	Level int
}

// New returns a ZLIB codec using the default compression level.
func New() *Codec {
	return &Codec{Level: flate.DefaultCompression}
}

func (c *Codec) Compress(data []byte, opts pixcodec.Options) ([]byte, error) {
	if err := pixcodec.CheckNoOptions(opts); err != nil {
		return nil, err
	}
	return compress(data, func(w io.Writer) (io.WriteCloser, error) {
		return zlib.NewWriterLevel(w, c.Level)
	})
}

func (c *Codec) Decompress(data []byte, opts pixcodec.Options) ([]byte, error) {
	if err := pixcodec.CheckNoOptions(opts); err != nil {
		return nil, err
	}
	reader, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, translateError(err)
	}
	return decompress(reader, len(data))
}

// DeflateCodec reads and writes raw deflate data with no header or checksum.
type DeflateCodec struct {
	Level int
}

// NewDeflate returns a raw deflate codec using the default compression level.
func NewDeflate() *DeflateCodec {
	return &DeflateCodec{Level: flate.DefaultCompression}
}

func (c *DeflateCodec) Compress(data []byte, opts pixcodec.Options) ([]byte, error) {
	if err := pixcodec.CheckNoOptions(opts); err != nil {
		return nil, err
	}
	return compress(data, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, c.Level)
	})
}

func (c *DeflateCodec) Decompress(data []byte, opts pixcodec.Options) ([]byte, error) {
	if err := pixcodec.CheckNoOptions(opts); err != nil {
		return nil, err
	}
	return decompress(flate.NewReader(bytes.NewReader(data)), len(data))
}

func compress(data []byte, newWriter func(io.Writer) (io.WriteCloser, error)) ([]byte, error) {
	out := bytebuf.New(len(data)/2 + 64)
	writer, err := newWriter(out)
	if err != nil {
		return nil, pixcodec.ErrInvalidOptions.Wrap(err)
	}
	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return out.ToBytes(), nil
}

func decompress(reader io.ReadCloser, sizeHint int) ([]byte, error) {
	defer reader.Close()

	out := bytebuf.New(sizeHint * 3)
	if _, err := io.Copy(out, reader); err != nil {
		return nil, translateError(err)
	}
	return out.ToBytes(), nil
}

// translateError maps the decompressors' errors onto the codec error kinds.
func translateError(err error) error {
	var corrupt flate.CorruptInputError
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return pixcodec.ErrTruncated.Wrap(err)
	case errors.Is(err, zlib.ErrHeader),
		errors.Is(err, zlib.ErrChecksum),
		errors.Is(err, zlib.ErrDictionary),
		errors.As(err, &corrupt):
		return pixcodec.ErrCorrupt.Wrap(err)
	default:
		return err
	}
}
