// Package packbits implements Apple's PackBits run-length encoding, as used by
// TIFF compression type 32773 and MacPaint.
//
// Each packet begins with a signed control byte n:
//
//   - 0 to 127: copy the next n+1 bytes literally.
//   - -127 to -1: repeat the next byte 1-n times.
//   - -128: no-op.
package packbits

import (
	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/codecs/common"
	"github.com/dargueta/pixcodec/utilities/bytebuf"
	"github.com/dargueta/pixcodec/utilities/compression"
)

const (
	maxPacketLength = 128
	// Runs shorter than this are cheaper to store as part of a literal packet.
	minRepeatLength = 3
	noOpControl     = -128
)

type Codec struct{}

func New() Codec {
	return Codec{}
}

func (Codec) Decompress(data []byte, opts pixcodec.Options) (out []byte, err error) {
	if err := pixcodec.CheckNoOptions(opts); err != nil {
		return nil, err
	}
	defer common.RecoverCorrupt(&out, &err)

	cursor := common.NewCursor(data)
	buf := bytebuf.New(len(data) * 2)

	for !cursor.AtEnd() {
		control, _ := cursor.ReadInt8()
		switch {
		case control >= 0:
			literal, err := cursor.Next(int(control) + 1)
			if err != nil {
				return nil, err
			}
			buf.Append(literal)
		case control == noOpControl:
			continue
		default:
			value, err := cursor.ReadByte()
			if err != nil {
				return nil, err
			}
			buf.AppendRepeat(value, 1-int(control))
		}
	}
	return buf.ToBytes(), nil
}

// Compress encodes runs of three or more identical bytes as repeat packets and
// everything else as literal packets. The encoder never emits no-op packets.
func (Codec) Compress(data []byte, opts pixcodec.Options) ([]byte, error) {
	if err := pixcodec.CheckNoOptions(opts); err != nil {
		return nil, err
	}

	buf := bytebuf.New(len(data) + len(data)/maxPacketLength + 1)
	literal := make([]byte, 0, maxPacketLength)

	flushLiteral := func() {
		if len(literal) == 0 {
			return
		}
		buf.WriteByte(byte(len(literal) - 1))
		buf.Append(literal)
		literal = literal[:0]
	}

	for _, run := range compression.GroupRuns(data, maxPacketLength) {
		if run.RunLength >= minRepeatLength {
			flushLiteral()
			buf.WriteByte(byte(int8(1 - run.RunLength)))
			buf.WriteByte(run.Byte)
			continue
		}

		for i := 0; i < run.RunLength; i++ {
			literal = append(literal, run.Byte)
			if len(literal) == maxPacketLength {
				flushLiteral()
			}
		}
	}
	flushLiteral()
	return buf.ToBytes(), nil
}

// CompressRows encodes each row on its own, so no packet crosses a row
// boundary. TIFF requires this for PackBits strips.
func (c Codec) CompressRows(rows [][]byte, opts pixcodec.Options) ([]byte, error) {
	if err := pixcodec.CheckNoOptions(opts); err != nil {
		return nil, err
	}

	buf := bytebuf.New(0)
	for _, row := range rows {
		packed, err := c.Compress(row, opts)
		if err != nil {
			return nil, err
		}
		buf.Append(packed)
	}
	return buf.ToBytes(), nil
}

// DecompressRows decodes each row's packets separately and concatenates the
// results.
func (c Codec) DecompressRows(rows [][]byte, opts pixcodec.Options) ([]byte, error) {
	if err := pixcodec.CheckNoOptions(opts); err != nil {
		return nil, err
	}

	buf := bytebuf.New(0)
	for _, row := range rows {
		unpacked, err := c.Decompress(row, opts)
		if err != nil {
			return nil, err
		}
		buf.Append(unpacked)
	}
	return buf.ToBytes(), nil
}
