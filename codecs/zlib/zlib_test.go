package zlib_test

import (
	"bytes"
	"testing"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/codecs/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// "hello, world\n" compressed by zlib.compress() at the default level.
var helloZlib = []byte{
	0x78, 0x9c, 0xcb, 0x48, 0xcd, 0xc9, 0xc9, 0xd7, 0x51, 0x28, 0xcf, 0x2f,
	0xca, 0x49, 0xe1, 0x02, 0x00, 0x21, 0xe7, 0x04, 0x93,
}

func TestDecompressKnownStream(t *testing.T) {
	out, err := zlib.New().Decompress(helloZlib, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello, world\n", string(out))

	// The raw deflate data sits between the two-byte header and the checksum.
	out, err = zlib.NewDeflate().Decompress(helloZlib[2:len(helloZlib)-4], nil)
	require.NoError(t, err)
	assert.Equal(t, "hello, world\n", string(out))
}

func TestRoundTrip(t *testing.T) {
	input := bytes.Repeat([]byte("scanline 0123456789 "), 2000)
	codecs := map[string]pixcodec.Codec{
		"zlib":          zlib.New(),
		"zlib stored":   &zlib.Codec{Level: 0},
		"deflate":       zlib.NewDeflate(),
		"deflate best":  &zlib.DeflateCodec{Level: 9},
		"deflate empty": zlib.NewDeflate(),
	}

	for name, codec := range codecs {
		t.Run(name, func(t *testing.T) {
			data := input
			if name == "deflate empty" {
				data = []byte{}
			}
			packed, err := codec.Compress(data, nil)
			require.NoError(t, err)
			unpacked, err := codec.Decompress(packed, pixcodec.NoOptions{})
			require.NoError(t, err)
			assert.Equal(t, data, unpacked)
		})
	}
}

func TestErrors(t *testing.T) {
	codec := zlib.New()

	_, err := codec.Decompress(helloZlib[:10], nil)
	assert.ErrorIs(t, err, pixcodec.ErrTruncated)

	_, err = codec.Decompress([]byte{}, nil)
	assert.ErrorIs(t, err, pixcodec.ErrTruncated)

	_, err = codec.Decompress([]byte{0x78, 0x9d, 0x00}, nil)
	assert.ErrorIs(t, err, pixcodec.ErrCorrupt, "bad header check bits")

	corrupt := append([]byte{}, helloZlib...)
	corrupt[len(corrupt)-1] ^= 0xFF
	_, err = codec.Decompress(corrupt, nil)
	assert.ErrorIs(t, err, pixcodec.ErrCorrupt, "bad checksum")

	_, err = (&zlib.Codec{Level: 42}).Compress([]byte{1}, nil)
	assert.ErrorIs(t, err, pixcodec.ErrInvalidOptions)

	_, err = codec.Compress([]byte{1}, pixcodec.FrameOptions{})
	assert.ErrorIs(t, err, pixcodec.ErrInvalidOptions)
}
