package msrle_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/codecs/msrle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frameOpts(width, height int, previous []byte) pixcodec.FrameOptions {
	return pixcodec.FrameOptions{
		Width:         width,
		Height:        height,
		BitsPerPixel:  8,
		PreviousFrame: previous,
	}
}

func TestDecodeBottomUp(t *testing.T) {
	stream := []byte{
		4, 7, // bottom row: four 7s
		0, 0, // end of line
		0, 3, 1, 2, 3, 0, // absolute run of three, padded
		1, 9,
		0, 1, // end of bitmap
		0xFF, 0xFF, // ignored
	}
	out, err := msrle.New().Decompress(stream, frameOpts(4, 2, nil))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 9, 7, 7, 7, 7}, out)
}

func TestDecodeDeltaKeepsPreviousFrame(t *testing.T) {
	previous := bytes.Repeat([]byte{5}, 9)
	stream := []byte{0, 2, 1, 1, 1, 8, 0, 1}

	out, err := msrle.New().Decompress(stream, frameOpts(3, 3, previous))
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 5, 5, 5, 8, 5, 5, 5, 5}, out)
	assert.Equal(t, bytes.Repeat([]byte{5}, 9), previous, "previous frame was modified")
}

func TestDecodeWithoutEndOfBitmap(t *testing.T) {
	out, err := msrle.New().Decompress([]byte{2, 4}, frameOpts(2, 2, nil))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 4, 4}, out)

	out, err = msrle.New().Decompress(nil, frameOpts(2, 1, []byte{6, 6}))
	require.NoError(t, err)
	assert.Equal(t, []byte{6, 6}, out, "empty stream means no change")
}

func TestDecodeOutOfFrame(t *testing.T) {
	tests := map[string][]byte{
		"run past right edge":      {5, 1},
		"absolute past right edge": {0, 5, 1, 2, 3, 4, 5, 0},
		"past top row":             {1, 1, 0, 0, 1, 2, 0, 0, 1, 3, 0, 0, 1, 4},
		"delta past top":           {0, 2, 0, 9, 1, 1},
	}
	for name, stream := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := msrle.New().Decompress(stream, frameOpts(4, 3, nil))
			assert.ErrorIs(t, err, pixcodec.ErrCorrupt)
		})
	}
}

func TestDecodeTruncated(t *testing.T) {
	tests := map[string][]byte{
		"half opcode":    {3},
		"short absolute": {0, 5, 1, 2},
		"short delta":    {0, 2, 1},
	}
	for name, stream := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := msrle.New().Decompress(stream, frameOpts(8, 8, nil))
			assert.ErrorIs(t, err, pixcodec.ErrTruncated)
		})
	}
}

func TestOptionsChecked(t *testing.T) {
	codec := msrle.New()
	_, err := codec.Decompress([]byte{0, 1}, pixcodec.NoOptions{})
	assert.ErrorIs(t, err, pixcodec.ErrInvalidOptions)

	opts := frameOpts(2, 2, nil)
	opts.BitsPerPixel = 4
	_, err = codec.Decompress([]byte{0, 1}, opts)
	assert.ErrorIs(t, err, pixcodec.ErrUnsupported)

	_, err = codec.Decompress([]byte{0, 1}, frameOpts(2, 2, make([]byte, 3)))
	assert.ErrorIs(t, err, pixcodec.ErrInvalidOptions)

	_, err = codec.Compress(make([]byte, 5), frameOpts(2, 2, nil))
	assert.ErrorIs(t, err, pixcodec.ErrInvalidOptions)
}

func TestEncodeKnownOutput(t *testing.T) {
	frame := []byte{
		1, 2, 3, 3,
		9, 9, 9, 4,
	}
	encoded, err := msrle.New().Compress(frame, frameOpts(4, 2, nil))
	require.NoError(t, err)
	assert.Equal(
		t,
		[]byte{
			3, 9, 1, 4, 0, 0,
			1, 1, 1, 2, 2, 3, 0, 1,
		},
		encoded,
	)
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	sizes := [][2]int{{1, 1}, {3, 2}, {16, 16}, {300, 7}, {33, 40}}

	for _, size := range sizes {
		width, height := size[0], size[1]
		frame := make([]byte, width*height)
		for i := 0; i < len(frame); {
			value := byte(rng.Intn(6))
			runLength := rng.Intn(12) + 1
			for j := 0; j < runLength && i < len(frame); j++ {
				frame[i] = value
				if rng.Intn(4) == 0 {
					frame[i] = byte(rng.Intn(256))
				}
				i++
			}
		}

		codec := msrle.New()
		encoded, err := codec.Compress(frame, frameOpts(width, height, nil))
		require.NoError(t, err)

		decoded, err := codec.Decompress(encoded, frameOpts(width, height, nil))
		require.NoErrorf(t, err, "%dx%d", width, height)
		assert.Equalf(t, frame, decoded, "%dx%d", width, height)
	}
}

func TestHugeDimensionsRejected(t *testing.T) {
	huge := frameOpts(1<<32, 1<<32, nil)

	out, err := msrle.New().Decompress([]byte{0, 1}, huge)
	assert.ErrorIs(t, err, pixcodec.ErrInvalidOptions)
	assert.Nil(t, out)

	_, err = msrle.New().Compress([]byte{}, huge)
	assert.ErrorIs(t, err, pixcodec.ErrInvalidOptions)
}

func TestAbsoluteRunPadding(t *testing.T) {
	out, err := msrle.New().Decompress([]byte{0, 3, 1, 2, 3, 0, 1, 4}, frameOpts(4, 1, nil))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, out, "pad byte after an odd run is skipped")

	out, err = msrle.New().Decompress([]byte{0, 3, 1, 2, 3}, frameOpts(3, 1, nil))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, out, "missing final pad byte is tolerated")
}
