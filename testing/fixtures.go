// Package testing holds helpers shared by the codec tests.
package testing

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/utilities/compression"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// ReadFixture returns the contents of `name` in the calling package's testdata
// directory. The test fails immediately if the file can't be read or is empty.
func ReadFixture(t *testing.T, name string) []byte {
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	require.Greater(t, len(data), 0, "fixture %q is empty", name)
	return data
}

// LoadFixture decompresses a fixture with `codec` and returns a stream to
// access the decompressed data.
//
//   - Writes to the stream do not affect the fixture file.
//   - While the stream can be written to, its size is fixed to `expectedSize`.
//     Attempting to write past the end of this buffer will trigger an error.
func LoadFixture(
	t *testing.T,
	codec pixcodec.Codec,
	opts pixcodec.Options,
	name string,
	expectedSize int,
) io.ReadWriteSeeker {
	compressed := ReadFixture(t, name)

	data, err := compression.DecompressToBytes(codec, opts, bytes.NewReader(compressed))
	require.NoError(t, err)
	require.Equal(t, expectedSize, len(data), "decompressed fixture is wrong size")
	return bytesextra.NewReadWriteSeeker(data)
}
