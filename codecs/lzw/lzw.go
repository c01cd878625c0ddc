// Package lzw implements the TIFF 6.0 flavor of LZW.
//
// Codes start at 9 bits and are packed MSB-first. Code 256 (CLEAR) resets the
// dictionary and 257 (EOI) ends the stream. The code width grows to 10, 11,
// and 12 bits one code earlier than strictly necessary ("early change"), which
// is what TIFF writers have always done.
package lzw

import (
	"github.com/dargueta/pixcodec"
)

// Codec is stateless; the dictionary is rebuilt for every call.
type Codec struct{}

// New returns an LZW codec.
func New() Codec {
	return Codec{}
}

// Compress encodes `data` starting with a CLEAR code and ending with EOI.
func (Codec) Compress(data []byte, opts pixcodec.Options) ([]byte, error) {
	if err := pixcodec.CheckNoOptions(opts); err != nil {
		return nil, err
	}
	return newEncoder().encode(data), nil
}

// Decompress decodes a TIFF LZW strip. The leading CLEAR code is optional.
// A stream that ends before EOI fails with [pixcodec.ErrTruncated].
func (Codec) Decompress(data []byte, opts pixcodec.Options) ([]byte, error) {
	if err := pixcodec.CheckNoOptions(opts); err != nil {
		return nil, err
	}
	return newDecoder(data).decode(len(data) * 2)
}
