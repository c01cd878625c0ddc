// Package msvideo decodes Microsoft Video 1 ('CRAM', 'MSVC') frames.
//
// The image is split into 4x4 blocks, sent bottom block row first and left to
// right within a row. Each block starts with a two-byte opcode (a, b):
//
//   - 0x84 <= b <= 0x87: skip ((b-0x84)<<8)+a blocks, counting this one.
//   - b < 0x80: pattern block. The 16 bits b:a pick one of two colors per
//     pixel, least significant bit first from the block's bottom-left pixel.
//     In 8-color mode each 2x2 quadrant has its own pair of colors.
//   - anything else: the whole block is one color.
//
// 16-bit streams carry RGB555 colors. A pattern block whose first color has
// bit 15 set is in 8-color mode. 8-bit streams carry palette indices, and use
// 8-color mode when b >= 0x90.
package msvideo

import (
	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/codecs/common"
)

const (
	blockSize       = 4
	skipOpcodeMask  = 0xFC
	skipOpcode      = 0x84
	patternLimit    = 0x80
	eightColor8Bit  = 0x90
	eightColor16Bit = 0x8000
	color555Mask    = 0x7FFF
)

// Codec decodes MS Video 1 frames.
//
// Depending on FrameOptions.BitsPerPixel the output is:
//
//   - 8: one palette index per pixel, from an 8-bit stream.
//   - 16: little-endian RGB555, from a 16-bit stream.
//   - 24: R, G, B expanded to 8 bits per channel, from a 16-bit stream.
type Codec struct{}

func New() Codec {
	return Codec{}
}

func (Codec) Compress(data []byte, opts pixcodec.Options) ([]byte, error) {
	return nil, pixcodec.ErrUnsupported.WithMessage("MS Video 1 is decode-only")
}

func (Codec) Decompress(data []byte, opts pixcodec.Options) (out []byte, err error) {
	defer common.RecoverCorrupt(&out, &err)

	frameOpts, err := pixcodec.AsFrameOptions(opts)
	if err != nil {
		return nil, err
	}

	var bytesPerPixel int
	switch frameOpts.BitsPerPixel {
	case 8:
		bytesPerPixel = 1
	case 16:
		bytesPerPixel = 2
	case 24:
		bytesPerPixel = 3
	default:
		return nil, pixcodec.Errorf(
			pixcodec.ErrUnsupported, "%d bits per pixel isn't supported", frameOpts.BitsPerPixel)
	}

	frame, err := common.NewFrame(frameOpts, bytesPerPixel)
	if err != nil {
		return nil, err
	}

	d := decoder{
		in:       common.NewCursor(data),
		frame:    frame,
		eightBit: bytesPerPixel == 1,
	}
	if err := d.run(); err != nil {
		return nil, err
	}
	return frame.Pixels, nil
}

type decoder struct {
	in       *common.Cursor
	frame    *common.Frame
	eightBit bool
	// colors holds the current block's colors already converted to the output
	// pixel format.
	colors [8][3]byte
}

func (d *decoder) run() error {
	blocksWide := (d.frame.Width + blockSize - 1) / blockSize
	blocksHigh := (d.frame.Height + blockSize - 1) / blockSize
	totalBlocks := blocksWide * blocksHigh

	skipBlocks := 0
	for block := 0; block < totalBlocks; block++ {
		if skipBlocks > 0 {
			skipBlocks--
			continue
		}
		if d.in.AtEnd() {
			return nil
		}

		opcode, err := d.in.Next(2)
		if err != nil {
			return err
		}
		a, b := opcode[0], opcode[1]
		left := (block % blocksWide) * blockSize
		row := (block / blocksWide) * blockSize

		switch {
		case b&skipOpcodeMask == skipOpcode:
			// The current block is the first one skipped.
			skipBlocks = int(b-skipOpcode)<<8 + int(a) - 1
		case b < patternLimit:
			err = d.patternBlock(left, row, uint16(b)<<8|uint16(a), false)
		case d.eightBit && b >= eightColor8Bit:
			err = d.patternBlock(left, row, uint16(b)<<8|uint16(a), true)
		default:
			d.solidBlock(left, row, uint16(b)<<8|uint16(a))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// setColor stores a stream color in slot `i`, converted to the output format.
func (d *decoder) setColor(i int, value uint16) {
	switch d.frame.BytesPerPixel {
	case 1:
		d.colors[i][0] = byte(value)
	case 2:
		value &= color555Mask
		d.colors[i][0] = byte(value)
		d.colors[i][1] = byte(value >> 8)
	default:
		r, g, b := common.Expand555(value)
		d.colors[i] = [3]byte{r, g, b}
	}
}

// readColors reads `count` colors from the stream into the color slots.
func (d *decoder) readColors(first, count int) error {
	for i := first; i < first+count; i++ {
		if d.eightBit {
			value, err := d.in.ReadByte()
			if err != nil {
				return err
			}
			d.setColor(i, uint16(value))
		} else {
			value, err := d.in.ReadLE16()
			if err != nil {
				return err
			}
			d.setColor(i, value)
		}
	}
	return nil
}

// put writes color slot `i` to pixel (px, py) of the block whose bottom-left
// corner is `left` pixels from the left and `row` pixels from the bottom. py
// counts up from the bottom of the block.
func (d *decoder) put(left, row, px, py, i int) {
	x := left + px
	y := d.frame.Height - 1 - (row + py)
	d.frame.ClipPixel(x, y, d.colors[i][:])
}

func (d *decoder) solidBlock(left, row int, value uint16) {
	if d.eightBit {
		// Only the low byte is the color.
		value &= 0xFF
	}
	d.setColor(0, value)
	for py := 0; py < blockSize; py++ {
		for px := 0; px < blockSize; px++ {
			d.put(left, row, px, py, 0)
		}
	}
}

func (d *decoder) patternBlock(left, row int, flags uint16, eightColor bool) error {
	if d.eightBit {
		count := 2
		if eightColor {
			count = 8
		}
		if err := d.readColors(0, count); err != nil {
			return err
		}
	} else {
		first, err := d.in.ReadLE16()
		if err != nil {
			return err
		}
		d.setColor(0, first)
		if err := d.readColors(1, 1); err != nil {
			return err
		}
		if first&eightColor16Bit != 0 {
			eightColor = true
			if err := d.readColors(2, 6); err != nil {
				return err
			}
		}
	}

	for py := 0; py < blockSize; py++ {
		for px := 0; px < blockSize; px++ {
			// A set flag bit picks the first color of the pair.
			index := int(flags&1) ^ 1
			if eightColor {
				index += (py&2)<<1 + (px & 2)
			}
			d.put(left, row, px, py, index)
			flags >>= 1
		}
	}
	return nil
}
