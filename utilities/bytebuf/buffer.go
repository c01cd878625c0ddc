// Package bytebuf provides the growable output buffer the decoders write into.
package bytebuf

const defaultCapacity = 64

// Buffer is an append-only byte buffer. Capacity doubles whenever an append
// doesn't fit.
//
// The zero value is an empty buffer ready to use.
type Buffer struct {
	data []byte
}

// New creates a buffer with room for at least `capacity` bytes before it has to
// grow. A non-positive capacity picks a small default.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Buffer{data: make([]byte, 0, capacity)}
}

// reserve makes sure there's room for `extra` more bytes.
func (b *Buffer) reserve(extra int) {
	needed := len(b.data) + extra
	if needed <= cap(b.data) {
		return
	}

	newCap := cap(b.data) * 2
	if newCap < defaultCapacity {
		newCap = defaultCapacity
	}
	for newCap < needed {
		newCap *= 2
	}

	grown := make([]byte, len(b.data), newCap)
	copy(grown, b.data)
	b.data = grown
}

// Write appends `p` to the buffer. It never fails; the signature lets Buffer
// stand in for an [io.Writer].
func (b *Buffer) Write(p []byte) (int, error) {
	b.Append(p)
	return len(p), nil
}

// WriteByte appends a single byte. It never fails.
func (b *Buffer) WriteByte(c byte) error {
	b.reserve(1)
	b.data = append(b.data, c)
	return nil
}

// Append appends `p` to the buffer.
func (b *Buffer) Append(p []byte) {
	b.reserve(len(p))
	b.data = append(b.data, p...)
}

// AppendRepeat appends `count` copies of `c`. A non-positive count does nothing.
func (b *Buffer) AppendRepeat(c byte, count int) {
	if count <= 0 {
		return
	}
	b.reserve(count)
	start := len(b.data)
	b.data = b.data[:start+count]
	for i := start; i < len(b.data); i++ {
		b.data[i] = c
	}
}

// Len returns the number of bytes written so far.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Bytes returns the buffer's contents without copying. The slice is only valid
// until the next write.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// ToBytes returns a copy of exactly the bytes written so far.
func (b *Buffer) ToBytes() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Reset empties the buffer but keeps its capacity.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
}
