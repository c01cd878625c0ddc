package testing_test

import (
	"io"
	"testing"

	"github.com/dargueta/pixcodec/codecs/packbits"
	pctest "github.com/dargueta/pixcodec/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFixture(t *testing.T) {
	stream := pctest.LoadFixture(t, packbits.New(), nil, "sample.packbits", 9)

	_, err := stream.Seek(2, io.SeekStart)
	require.NoError(t, err)
	rest, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, "CCCCCCD", string(rest))
}

func TestReadFixture(t *testing.T) {
	assert.Equal(
		t,
		[]byte{0x01, 0x41, 0x42, 0xFB, 0x43, 0x00, 0x44},
		pctest.ReadFixture(t, "sample.packbits"),
	)
}
