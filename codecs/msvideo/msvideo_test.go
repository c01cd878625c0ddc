package msvideo_test

import (
	"bytes"
	"testing"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/codecs/msvideo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opts(width, height, bpp int, previous []byte) pixcodec.FrameOptions {
	return pixcodec.FrameOptions{
		Width:         width,
		Height:        height,
		BitsPerPixel:  bpp,
		PreviousFrame: previous,
	}
}

func decode(t *testing.T, data []byte, frameOpts pixcodec.FrameOptions) []byte {
	out, err := msvideo.New().Decompress(data, frameOpts)
	require.NoError(t, err)
	return out
}

// pixel16 returns the little-endian 16-bit pixel at (x, y).
func pixel16(frame []byte, width, x, y int) uint16 {
	offset := (y*width + x) * 2
	return uint16(frame[offset]) | uint16(frame[offset+1])<<8
}

func TestSolidBlock16(t *testing.T) {
	out := decode(t, []byte{0x1F, 0x80}, opts(4, 4, 16, nil))
	assert.Equal(t, bytes.Repeat([]byte{0x1F, 0x00}, 16), out, "bit 15 should be dropped")
}

func TestTwoColorBlock16(t *testing.T) {
	// Flags 0x000F set the four pixels of the block's bottom row.
	out := decode(t, []byte{0x0F, 0x00, 0x00, 0x7C, 0x1F, 0x00}, opts(4, 4, 16, nil))

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			expected := uint16(0x001F)
			if y == 3 {
				expected = 0x7C00
			}
			assert.Equalf(t, expected, pixel16(out, 4, x, y), "pixel (%d, %d)", x, y)
		}
	}
}

func TestEightColorBlock16(t *testing.T) {
	data := []byte{
		0x00, 0x00, // no flags set: every pixel takes the second color of its pair
		0x00, 0x80, 0x01, 0x00, // bottom-left pair, 8-color mode
		0x02, 0x00, 0x03, 0x00, // bottom-right
		0x04, 0x00, 0x05, 0x00, // top-left
		0x06, 0x00, 0x07, 0x00, // top-right
	}
	out := decode(t, data, opts(4, 4, 16, nil))

	assert.EqualValues(t, 5, pixel16(out, 4, 0, 0))
	assert.EqualValues(t, 5, pixel16(out, 4, 1, 1))
	assert.EqualValues(t, 7, pixel16(out, 4, 3, 0))
	assert.EqualValues(t, 7, pixel16(out, 4, 2, 1))
	assert.EqualValues(t, 1, pixel16(out, 4, 0, 3))
	assert.EqualValues(t, 1, pixel16(out, 4, 1, 2))
	assert.EqualValues(t, 3, pixel16(out, 4, 3, 3))
	assert.EqualValues(t, 3, pixel16(out, 4, 2, 2))
}

func TestBlockOrderIsBottomUp(t *testing.T) {
	data := []byte{1, 0x80, 2, 0x80, 3, 0x80, 4, 0x80}
	out := decode(t, data, opts(8, 8, 8, nil))

	top := append(bytes.Repeat([]byte{3}, 4), bytes.Repeat([]byte{4}, 4)...)
	bottom := append(bytes.Repeat([]byte{1}, 4), bytes.Repeat([]byte{2}, 4)...)
	expected := append(bytes.Repeat(top, 4), bytes.Repeat(bottom, 4)...)
	assert.Equal(t, expected, out)
}

func TestEightBitPatterns(t *testing.T) {
	t.Run("two colors", func(t *testing.T) {
		out := decode(t, []byte{0x01, 0x00, 9, 3}, opts(4, 4, 8, nil))
		expected := bytes.Repeat([]byte{3}, 16)
		expected[12] = 9 // bottom-left pixel
		assert.Equal(t, expected, out)
	})

	t.Run("eight colors", func(t *testing.T) {
		// Flags 0x9000: only bits 12 and 15 (top row, x = 0 and x = 3) are set.
		out := decode(t, []byte{0x00, 0x90, 10, 11, 12, 13, 14, 15, 16, 17}, opts(4, 4, 8, nil))
		expected := []byte{
			14, 15, 17, 16,
			15, 15, 17, 17,
			11, 11, 13, 13,
			11, 11, 13, 13,
		}
		assert.Equal(t, expected, out)
	})
}

func TestOutput24Bit(t *testing.T) {
	out := decode(t, []byte{0x00, 0xFC}, opts(4, 4, 24, nil))
	assert.Equal(t, bytes.Repeat([]byte{255, 0, 0}, 16), out)
}

func TestSkipCopiesPreviousFrame(t *testing.T) {
	previous := make([]byte, 8*4*2)
	for i := range previous {
		previous[i] = byte(i)
	}
	original := append([]byte{}, previous...)

	out := decode(t, []byte{0x01, 0x84, 0xE0, 0x83}, opts(8, 4, 16, previous))
	for y := 0; y < 4; y++ {
		row := out[y*16 : (y+1)*16]
		assert.Equal(t, original[y*16:y*16+8], row[:8], "skipped block changed")
		assert.Equal(t, bytes.Repeat([]byte{0xE0, 0x03}, 4), row[8:])
	}
	assert.Equal(t, original, previous, "previous frame was modified")
}

func TestAllSkipsReturnsPreviousFrame(t *testing.T) {
	previous := bytes.Repeat([]byte{0x5A}, 8*8)
	out := decode(t, []byte{0x04, 0x84}, opts(8, 8, 8, previous))
	assert.Equal(t, previous, out)

	out = decode(t, []byte{0x04, 0x84}, opts(8, 8, 8, nil))
	assert.Equal(t, make([]byte, 64), out, "no previous frame means zeros")
}

func TestPartialBlocksAreClipped(t *testing.T) {
	data := []byte{1, 0x80, 2, 0x80, 3, 0x80, 4, 0x80}
	out := decode(t, data, opts(5, 5, 8, nil))

	assert.EqualValues(t, 3, out[0], "top-left pixel")
	assert.EqualValues(t, 4, out[4], "top-right pixel")
	assert.EqualValues(t, 1, out[4*5], "bottom-left pixel")
	assert.EqualValues(t, 2, out[4*5+4], "bottom-right pixel")
}

func TestStreamEndingEarly(t *testing.T) {
	previous := bytes.Repeat([]byte{7}, 64)
	out := decode(t, []byte{0x01, 0x80}, opts(8, 8, 8, previous))
	assert.Equal(t, bytes.Repeat([]byte{1}, 4), out[32:36])
	assert.Equal(t, bytes.Repeat([]byte{7}, 4), out[36:40])
	assert.Equal(t, bytes.Repeat([]byte{7}, 32), out[:32])
}

func TestErrors(t *testing.T) {
	codec := msvideo.New()

	_, err := codec.Decompress([]byte{0x01}, opts(4, 4, 16, nil))
	assert.ErrorIs(t, err, pixcodec.ErrTruncated, "half an opcode")

	_, err = codec.Decompress([]byte{0x01, 0x00, 0x00}, opts(4, 4, 16, nil))
	assert.ErrorIs(t, err, pixcodec.ErrTruncated, "missing colors")

	_, err = codec.Decompress([]byte{0x00, 0x00, 0x00, 0x80, 0x00, 0x00}, opts(4, 4, 16, nil))
	assert.ErrorIs(t, err, pixcodec.ErrTruncated, "missing 8-color quadrants")

	_, err = codec.Decompress([]byte{0x00, 0x80}, opts(4, 4, 32, nil))
	assert.ErrorIs(t, err, pixcodec.ErrUnsupported)

	_, err = codec.Decompress([]byte{0x00, 0x80}, nil)
	assert.ErrorIs(t, err, pixcodec.ErrInvalidOptions)

	_, err = codec.Compress([]byte{0x00}, opts(4, 4, 16, nil))
	assert.ErrorIs(t, err, pixcodec.ErrUnsupported)
}

func TestHugeDimensionsRejected(t *testing.T) {
	for _, bpp := range []int{8, 16, 24} {
		out, err := msvideo.New().Decompress([]byte{0x00, 0x80}, opts(1<<31, 1<<31, bpp, nil))
		assert.ErrorIsf(t, err, pixcodec.ErrInvalidOptions, "%d bpp", bpp)
		assert.Nil(t, out)
	}
}
