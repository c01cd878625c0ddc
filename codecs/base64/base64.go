// Package base64 is a codec for standard, padded Base64.
package base64

import (
	"bytes"
	"encoding/base64"

	"github.com/dargueta/pixcodec"
)

// Codec encodes with the standard alphabet and padding. Decoding skips
// whitespace, so line-wrapped text (MIME, PEM, XML) decodes as-is.
type Codec struct{}

func New() Codec {
	return Codec{}
}

func (Codec) Compress(data []byte, opts pixcodec.Options) ([]byte, error) {
	if err := pixcodec.CheckNoOptions(opts); err != nil {
		return nil, err
	}
	out := make([]byte, base64.StdEncoding.EncodedLen(len(data)))
	base64.StdEncoding.Encode(out, data)
	return out, nil
}

func (Codec) Decompress(data []byte, opts pixcodec.Options) ([]byte, error) {
	if err := pixcodec.CheckNoOptions(opts); err != nil {
		return nil, err
	}

	text := bytes.Map(
		func(r rune) rune {
			switch r {
			case ' ', '\t', '\r', '\n':
				return -1
			}
			return r
		},
		data,
	)
	if len(text)%4 != 0 {
		return nil, pixcodec.Errorf(
			pixcodec.ErrTruncated,
			"%d Base64 characters isn't a multiple of 4",
			len(text),
		)
	}

	out := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(out, text)
	if err != nil {
		return nil, pixcodec.ErrCorrupt.Wrap(err)
	}
	return out[:n], nil
}
