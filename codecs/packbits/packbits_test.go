package packbits_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/codecs/packbits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type packBitsTestCase struct {
	Name     string
	Packed   []byte
	Unpacked []byte
}

func TestDecompress(t *testing.T) {
	tests := []packBitsTestCase{
		{"empty", []byte{}, []byte{}},
		{
			// Example from Apple Technical Note TN1023.
			"technote",
			[]byte{
				0xFE, 0xAA, 0x02, 0x80, 0x00, 0x2A, 0xFD, 0xAA, 0x03, 0x80, 0x00,
				0x2A, 0x22, 0xF7, 0xAA,
			},
			[]byte{
				0xAA, 0xAA, 0xAA, 0x80, 0x00, 0x2A, 0xAA, 0xAA, 0xAA, 0xAA, 0x80,
				0x00, 0x2A, 0x22, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA,
				0xAA, 0xAA,
			},
		},
		{"no-op", []byte{0x80, 0x00, 0x05, 0x80}, []byte{0x05}},
		{"only no-ops", []byte{0x80, 0x80}, []byte{}},
		{"max repeat", []byte{0x81, 0x11}, bytes.Repeat([]byte{0x11}, 128)},
		{"max literal", append([]byte{0x7F}, bytes.Repeat([]byte{3}, 128)...), bytes.Repeat([]byte{3}, 128)},
	}

	codec := packbits.New()
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			output, err := codec.Decompress(test.Packed, pixcodec.NoOptions{})
			require.NoError(t, err)
			assert.Equal(t, test.Unpacked, output)
		})
	}
}

func TestDecompressTruncated(t *testing.T) {
	tests := []packBitsTestCase{
		{"missing repeat byte", []byte{0x05, 1, 2, 3, 4, 5, 6, 0xFE}, nil},
		{"short literal", []byte{0x03, 1, 2}, nil},
		{"literal control at end", []byte{0x00}, nil},
	}

	codec := packbits.New()
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			output, err := codec.Decompress(test.Packed, nil)
			assert.ErrorIs(t, err, pixcodec.ErrTruncated)
			assert.Nil(t, output)
		})
	}
}

func TestCompress(t *testing.T) {
	tests := []packBitsTestCase{
		{Name: "empty", Unpacked: []byte{}, Packed: []byte{}},
		{Name: "single", Unpacked: []byte{0x42}, Packed: []byte{0x00, 0x42}},
		{Name: "pair stays literal", Unpacked: []byte{1, 1, 2}, Packed: []byte{0x02, 1, 1, 2}},
		{Name: "run of three", Unpacked: []byte{7, 7, 7}, Packed: []byte{0xFE, 7}},
		{
			Name:     "literal then run",
			Unpacked: []byte{1, 2, 9, 9, 9, 9, 3},
			Packed:   []byte{0x01, 1, 2, 0xFD, 9, 0x00, 3},
		},
		{
			Name:     "long run splits",
			Unpacked: bytes.Repeat([]byte{0xEE}, 130),
			Packed:   []byte{0x81, 0xEE, 0x01, 0xEE, 0xEE},
		},
	}

	codec := packbits.New()
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			output, err := codec.Compress(test.Unpacked, nil)
			require.NoError(t, err)
			assert.Equal(t, test.Packed, output)
		})
	}
}

func TestCompressLongLiteralSplits(t *testing.T) {
	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i)
	}

	codec := packbits.New()
	packed, err := codec.Compress(data, nil)
	require.NoError(t, err)
	assert.Equal(t, 300+3, len(packed), "expected three literal packets")
	assert.EqualValues(t, 0x7F, packed[0])
	assert.EqualValues(t, 0x7F, packed[129])
	assert.EqualValues(t, 300-256-1, packed[258])
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	mixed := make([]byte, 0, 10000)
	for len(mixed) < 10000 {
		value := byte(rng.Intn(4))
		mixed = append(mixed, bytes.Repeat([]byte{value}, rng.Intn(200)+1)...)
	}
	random := make([]byte, 4000)
	rng.Read(random)

	codec := packbits.New()
	for name, data := range map[string][]byte{"mixed": mixed, "random": random} {
		t.Run(name, func(t *testing.T) {
			packed, err := codec.Compress(data, nil)
			require.NoError(t, err)
			unpacked, err := codec.Decompress(packed, nil)
			require.NoError(t, err)
			assert.Equal(t, data, unpacked)
		})
	}
}

func TestRejectsFrameOptions(t *testing.T) {
	_, err := packbits.New().Decompress([]byte{0}, pixcodec.FrameOptions{Width: 1, Height: 1})
	assert.ErrorIs(t, err, pixcodec.ErrInvalidOptions)
}

func TestRowsDoNotShareRuns(t *testing.T) {
	rows := [][]byte{
		{0xAA, 0xAA, 0xAA, 0x01},
		{0x01, 0xAA, 0xAA, 0xAA},
	}
	codec := packbits.New()

	packed, err := pixcodec.CompressRows(codec, rows, nil)
	require.NoError(t, err)
	assert.Equal(
		t,
		[]byte{0xFE, 0xAA, 0x00, 0x01, 0x00, 0x01, 0xFE, 0xAA},
		packed,
	)

	// Concatenated, the two 0x01 bytes would merge into one literal packet.
	joined, err := codec.Compress(pixcodec.ConcatRows(rows), nil)
	require.NoError(t, err)
	assert.NotEqual(t, packed, joined)

	unpacked, err := pixcodec.DecompressRows(
		codec, [][]byte{packed[:4], packed[4:]}, pixcodec.NoOptions{})
	require.NoError(t, err)
	assert.Equal(t, pixcodec.ConcatRows(rows), unpacked)

	_, err = pixcodec.DecompressRows(codec, [][]byte{{0x02, 0x01}}, nil)
	assert.ErrorIs(t, err, pixcodec.ErrTruncated)
}
