package lzw

import (
	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/utilities/bits"
	"github.com/dargueta/pixcodec/utilities/bytebuf"
)

type decoder struct {
	in    *bits.Reader
	table *stringTable
	width int

	// Counters exposed to tests.
	clears   int
	maxWidth int
}

func newDecoder(data []byte) *decoder {
	return &decoder{
		in:       bits.NewReader(data),
		table:    newStringTable(),
		width:    minCodeWidth,
		maxWidth: minCodeWidth,
	}
}

func (d *decoder) decode(sizeHint int) ([]byte, error) {
	out := bytebuf.New(sizeHint)
	previous := noCode

	for {
		bitOffset := d.in.BitPosition()
		code := d.in.GetBits(d.width)
		if code == bits.EOF {
			return nil, pixcodec.Errorf(
				pixcodec.ErrTruncated,
				"stream ended at bit %d without an end-of-information code",
				bitOffset,
			)
		}

		switch {
		case code == clearCode:
			d.table.reset()
			d.width = minCodeWidth
			d.clears++
			previous = noCode
			continue
		case code == eoiCode:
			return out.ToBytes(), nil
		case previous == noCode:
			if code > 0xff {
				return nil, pixcodec.Errorf(
					pixcodec.ErrCorrupt,
					"code %d at bit %d follows a reset; expected a single byte",
					code,
					bitOffset,
				)
			}
			out.WriteByte(byte(code))
			previous = code
			continue
		case code > d.table.nextCode:
			return nil, pixcodec.Errorf(
				pixcodec.ErrCorrupt,
				"code %d at bit %d is past the next free code %d",
				code,
				bitOffset,
				d.table.nextCode,
			)
		}

		var firstByte byte
		if code < d.table.nextCode {
			expanded := d.table.expand(code)
			firstByte = expanded[0]
			out.Append(expanded)
		} else {
			// The code is the one about to be defined: previous string plus its
			// own first byte.
			firstByte = d.table.first[previous]
			out.Append(d.table.expand(previous))
			out.WriteByte(firstByte)
		}

		d.table.add(previous, firstByte)
		previous = code

		if d.table.nextCode+1 >= 1<<d.width && d.width < maxCodeWidth {
			d.width++
			if d.width > d.maxWidth {
				d.maxWidth = d.width
			}
		}
	}
}
