package bits

import (
	"bytes"

	"github.com/dargueta/pixcodec"
	"github.com/icza/bitio"
)

// EOF is returned by [Reader.GetBits] once the input is exhausted.
const EOF = -1

// MaxBits is the widest field a single read or write can handle.
const MaxBits = 32

// Reader reads MSB-first bit fields from a byte slice.
//
// Once a read runs past the end of the input the reader enters a sticky EOF
// state: every later read returns [EOF] (or [pixcodec.ErrTruncated] from the
// error-returning methods) without touching the input again.
type Reader struct {
	in        *bitio.Reader
	totalBits int
	position  int
	eof       bool
}

// NewReader creates a reader positioned at the first bit of `data`. The slice
// is only read, never modified.
func NewReader(data []byte) *Reader {
	return &Reader{
		in:        bitio.NewReader(bytes.NewReader(data)),
		totalBits: len(data) * 8,
	}
}

// GetBits reads an `n`-bit field, 0 <= n <= 32, and returns it as a
// non-negative integer, or [EOF] if fewer than `n` bits remain. A failed read
// consumes the rest of the input.
func (r *Reader) GetBits(n int) int {
	if n < 0 || n > MaxBits {
		panic(pixcodec.Errorf(pixcodec.ErrInvalidOptions, "can't read %d bits at once", n))
	}
	if r.eof {
		return EOF
	}
	if n == 0 {
		// bitio returns stale cache contents for a zero-width read.
		return 0
	}
	if r.position+n > r.totalBits {
		r.eof = true
		r.position = r.totalBits
		return EOF
	}

	value, err := r.in.ReadBits(uint8(n))
	if err != nil {
		r.eof = true
		r.position = r.totalBits
		return EOF
	}
	r.position += n
	return int(value)
}

// ReadBits is like [Reader.GetBits] but reports running out of input as an
// error wrapping [pixcodec.ErrTruncated].
func (r *Reader) ReadBits(n int) (uint32, error) {
	start := r.position
	value := r.GetBits(n)
	if value == EOF {
		return 0, pixcodec.Errorf(
			pixcodec.ErrTruncated,
			"needed %d bits at bit offset %d, only %d available",
			n,
			start,
			r.totalBits-start,
		)
	}
	return uint32(value), nil
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() (bool, error) {
	value, err := r.ReadBits(1)
	return value == 1, err
}

// ReadByte reads eight bits. The stream doesn't have to be byte-aligned.
func (r *Reader) ReadByte() (byte, error) {
	value, err := r.ReadBits(8)
	return byte(value), err
}

// SkipBits discards `n` bits. Skipping past the end of the input puts the
// reader into the EOF state, same as reading would.
func (r *Reader) SkipBits(n int) {
	for n > 0 && !r.eof {
		chunk := n
		if chunk > MaxBits {
			chunk = MaxBits
		}
		r.GetBits(chunk)
		n -= chunk
	}
}

// Align skips to the next byte boundary and returns the number of bits skipped.
func (r *Reader) Align() int {
	if r.eof {
		return 0
	}
	skipped := int(r.in.Align())
	r.position += skipped
	return skipped
}

// BitPosition returns the number of bits consumed so far.
func (r *Reader) BitPosition() int {
	return r.position
}

// BytePosition returns the index of the byte holding the next unread bit.
func (r *Reader) BytePosition() int {
	return r.position / 8
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int {
	return r.totalBits - r.position
}

// EOF reports whether a read has run past the end of the input.
func (r *Reader) EOF() bool {
	return r.eof
}
