package pixcodec_test

import (
	"bytes"
	"testing"

	"github.com/dargueta/pixcodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoCodec returns its input unchanged and records what it was called with.
type echoCodec struct {
	lastInput []byte
}

func (c *echoCodec) Compress(data []byte, opts pixcodec.Options) ([]byte, error) {
	c.lastInput = data
	return data, nil
}

func (c *echoCodec) Decompress(data []byte, opts pixcodec.Options) ([]byte, error) {
	c.lastInput = data
	return data, nil
}

// rowCountingCodec implements RowCodec and returns one byte per row.
type rowCountingCodec struct {
	echoCodec
}

func (c *rowCountingCodec) CompressRows(rows [][]byte, opts pixcodec.Options) ([]byte, error) {
	return []byte{byte(len(rows))}, nil
}

func (c *rowCountingCodec) DecompressRows(rows [][]byte, opts pixcodec.Options) ([]byte, error) {
	return []byte{byte(len(rows))}, nil
}

func TestConcatRows(t *testing.T) {
	rows := [][]byte{{1, 2}, {}, {3}, {4, 5, 6}}
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, pixcodec.ConcatRows(rows))
	assert.Empty(t, pixcodec.ConcatRows(nil))
}

func TestRowsDefaultToConcatenation(t *testing.T) {
	codec := &echoCodec{}
	rows := [][]byte{{9, 8}, {7}}

	out, err := pixcodec.DecompressRows(codec, rows, pixcodec.NoOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 8, 7}, out)
	assert.Equal(t, []byte{9, 8, 7}, codec.lastInput)

	out, err = pixcodec.CompressRows(codec, rows, pixcodec.NoOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 8, 7}, out)
}

func TestRowsPreferRowCodec(t *testing.T) {
	codec := &rowCountingCodec{}
	rows := [][]byte{{1}, {2}, {3}}

	out, err := pixcodec.DecompressRows(codec, rows, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{3}, out)
	assert.Nil(t, codec.lastInput, "1D method should not have been called")

	out, err = pixcodec.CompressRows(codec, rows, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{3}, out)
}

func TestAsFrameOptions(t *testing.T) {
	want := pixcodec.FrameOptions{Width: 4, Height: 2, BitsPerPixel: 8}

	got, err := pixcodec.AsFrameOptions(want)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = pixcodec.AsFrameOptions(&want)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = pixcodec.AsFrameOptions(pixcodec.NoOptions{})
	assert.ErrorIs(t, err, pixcodec.ErrInvalidOptions)

	_, err = pixcodec.AsFrameOptions(nil)
	assert.ErrorIs(t, err, pixcodec.ErrInvalidOptions)

	var nilPtr *pixcodec.FrameOptions
	_, err = pixcodec.AsFrameOptions(nilPtr)
	assert.ErrorIs(t, err, pixcodec.ErrInvalidOptions)
}

func TestCheckNoOptions(t *testing.T) {
	assert.NoError(t, pixcodec.CheckNoOptions(nil))
	assert.NoError(t, pixcodec.CheckNoOptions(pixcodec.NoOptions{}))
	assert.NoError(t, pixcodec.CheckNoOptions(&pixcodec.NoOptions{}))
	assert.ErrorIs(
		t,
		pixcodec.CheckNoOptions(pixcodec.FrameOptions{Width: 1, Height: 1}),
		pixcodec.ErrInvalidOptions,
	)
}

func TestFrameOptionsValidate(t *testing.T) {
	opts := pixcodec.FrameOptions{Width: 4, Height: 4, BitsPerPixel: 8}
	assert.NoError(t, opts.Validate(16))

	opts.PreviousFrame = bytes.Repeat([]byte{1}, 16)
	assert.NoError(t, opts.Validate(16))
	assert.ErrorIs(t, opts.Validate(32), pixcodec.ErrInvalidOptions)

	opts.Width = 0
	assert.ErrorIs(t, opts.Validate(0), pixcodec.ErrInvalidOptions)
}
