package common

import (
	"encoding/binary"

	"github.com/dargueta/pixcodec"
)

// Cursor is a bounds-checked forward reader over a byte slice. Every read that
// would run past the end fails with [pixcodec.ErrTruncated] and leaves the
// position unchanged.
type Cursor struct {
	data []byte
	pos  int
}

func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Pos returns the offset of the next unread byte.
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// AtEnd reports whether every byte has been consumed.
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.data)
}

// Limit truncates the readable region to the first `n` bytes of the input. A
// limit past the end of the input is ignored.
func (c *Cursor) Limit(n int) {
	if n < len(c.data) && n >= c.pos {
		c.data = c.data[:n]
	}
}

func (c *Cursor) need(n int) error {
	if n < 0 || c.pos+n > len(c.data) {
		return pixcodec.Errorf(
			pixcodec.ErrTruncated,
			"needed %d bytes at offset %d, only %d left",
			n,
			c.pos,
			len(c.data)-c.pos,
		)
	}
	return nil
}

// Skip advances past `n` bytes.
func (c *Cursor) Skip(n int) error {
	if err := c.need(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

// Next returns the next `n` bytes. The returned slice aliases the input and
// must not be modified.
func (c *Cursor) Next(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	chunk := c.data[c.pos : c.pos+n]
	c.pos += n
	return chunk, nil
}

func (c *Cursor) ReadByte() (byte, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	value := c.data[c.pos]
	c.pos++
	return value, nil
}

// PeekByte returns the next byte without consuming it.
func (c *Cursor) PeekByte() (byte, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	return c.data[c.pos], nil
}

func (c *Cursor) ReadInt8() (int8, error) {
	value, err := c.ReadByte()
	return int8(value), err
}

func (c *Cursor) ReadBE16() (uint16, error) {
	chunk, err := c.Next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(chunk), nil
}

func (c *Cursor) ReadLE16() (uint16, error) {
	chunk, err := c.Next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(chunk), nil
}

// ReadBE24 reads a 24-bit big-endian unsigned integer.
func (c *Cursor) ReadBE24() (uint32, error) {
	chunk, err := c.Next(3)
	if err != nil {
		return 0, err
	}
	return uint32(chunk[0])<<16 | uint32(chunk[1])<<8 | uint32(chunk[2]), nil
}

func (c *Cursor) ReadBE32() (uint32, error) {
	chunk, err := c.Next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(chunk), nil
}
