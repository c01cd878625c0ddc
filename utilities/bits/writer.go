package bits

import (
	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/utilities/bytebuf"
	"github.com/icza/bitio"
)

// Writer packs bit fields MSB-first into a growable buffer.
type Writer struct {
	buf      *bytebuf.Buffer
	out      *bitio.Writer
	bitCount int
	finished bool
}

// NewWriter creates an empty writer.
func NewWriter() *Writer {
	buf := bytebuf.New(0)
	return &Writer{
		buf: buf,
		// bytebuf.Buffer is an io.ByteWriter, so bitio writes straight into it.
		out: bitio.NewWriter(buf),
	}
}

// WriteBits appends the low `numBits` bits of `value`, most significant bit
// first. Higher bits of `value` are ignored.
//
// Calling this after [Writer.Bytes] panics.
func (w *Writer) WriteBits(value uint32, numBits int) {
	if w.finished {
		panic("bits: WriteBits called after Bytes")
	}
	if numBits < 0 || numBits > MaxBits {
		panic(pixcodec.Errorf(pixcodec.ErrInvalidOptions, "can't write %d bits at once", numBits))
	}
	if numBits == 0 {
		return
	}

	field := uint64(value) & (uint64(1)<<uint(numBits) - 1)
	// The sink is an in-memory buffer, which never fails.
	_ = w.out.WriteBits(field, uint8(numBits))
	w.bitCount += numBits
}

// BitsWritten returns the number of bits written so far, not counting padding.
func (w *Writer) BitsWritten() int {
	return w.bitCount
}

// Bytes pads the final partial byte with zero bits and returns the packed
// output. The writer is finished afterwards; calling Bytes again returns the
// same contents.
func (w *Writer) Bytes() []byte {
	if !w.finished {
		_ = w.out.Close()
		w.finished = true
	}
	return w.buf.ToBytes()
}
