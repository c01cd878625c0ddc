package compression

import (
	"bytes"
	"io"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/utilities/bytebuf"
)

// CompressStream reads all of `input`, compresses it with `codec`, and writes
// the result to `output`.
//
// The returned int64 gives the number of bytes written to the output stream. If
// an error occurred, the value is undefined and should not be used.
func CompressStream(
	codec pixcodec.Codec, opts pixcodec.Options, input io.Reader, output io.Writer,
) (int64, error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return 0, err
	}

	compressed, err := codec.Compress(data, opts)
	if err != nil {
		return 0, err
	}
	return io.Copy(output, bytes.NewReader(compressed))
}

// DecompressStream reads all of `input`, decompresses it with `codec`, and
// writes the result to `output`.
//
// The returned int64 gives the number of bytes written to the output (i.e. the
// decompressed size). If an error occurred, the value is undefined and should
// not be used.
func DecompressStream(
	codec pixcodec.Codec, opts pixcodec.Options, input io.Reader, output io.Writer,
) (int64, error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return 0, err
	}

	decompressed, err := codec.Decompress(data, opts)
	if err != nil {
		return 0, err
	}
	return io.Copy(output, bytes.NewReader(decompressed))
}

// DecompressToBytes is a convenience function wrapping [DecompressStream]. It
// functions identically, except it returns the decompressed data in a new byte
// slice instead of writing to an [io.Writer].
func DecompressToBytes(
	codec pixcodec.Codec, opts pixcodec.Options, input io.Reader,
) ([]byte, error) {
	buffer := bytebuf.New(0)
	_, err := DecompressStream(codec, opts, input, buffer)
	if err != nil {
		return nil, err
	}
	return buffer.ToBytes(), nil
}
