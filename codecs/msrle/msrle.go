// Package msrle implements Microsoft RLE8, the run-length encoding used by
// 8-bit BMP files and by the 'mrle' AVI codec.
//
// The stream describes the image bottom row first. Every opcode is two bytes
// (count, value). A non-zero count repeats `value` count times. A zero count
// is an escape selected by `value`:
//
//   - 0: end of line.
//   - 1: end of bitmap.
//   - 2: delta; the next two bytes move the cursor right and up.
//   - 3 to 255: absolute run of that many literal bytes, padded to an even
//     length.
package msrle

import (
	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/codecs/common"
)

const (
	escapeEndOfLine   = 0
	escapeEndOfBitmap = 1
	escapeDelta       = 2

	maxRunLength     = 255
	minAbsoluteRun   = 3
	supportedBitsPer = 8
)

type Codec struct{}

func New() Codec {
	return Codec{}
}

func frameOptions(opts pixcodec.Options) (pixcodec.FrameOptions, error) {
	frameOpts, err := pixcodec.AsFrameOptions(opts)
	if err != nil {
		return frameOpts, err
	}
	if frameOpts.BitsPerPixel != supportedBitsPer {
		return frameOpts, pixcodec.Errorf(
			pixcodec.ErrUnsupported,
			"only 8-bit RLE is supported, got %d bits per pixel",
			frameOpts.BitsPerPixel,
		)
	}
	return frameOpts, nil
}

// Decompress decodes one RLE8 frame into a top-down buffer of palette indices,
// one byte per pixel. Pixels the stream never touches keep the value from the
// previous frame, or zero. The stream may end between opcodes without an
// end-of-bitmap marker.
func (Codec) Decompress(data []byte, opts pixcodec.Options) (out []byte, err error) {
	defer common.RecoverCorrupt(&out, &err)

	frameOpts, err := frameOptions(opts)
	if err != nil {
		return nil, err
	}
	frame, err := common.NewFrame(frameOpts, 1)
	if err != nil {
		return nil, err
	}

	d := decoder{
		in:    common.NewCursor(data),
		frame: frame,
		line:  frame.Height - 1,
	}
	if err := d.run(); err != nil {
		return nil, err
	}
	return frame.Pixels, nil
}

type decoder struct {
	in    *common.Cursor
	frame *common.Frame
	x     int
	// line is the top-down row index of the cursor.
	line int
}

// span returns the slice of the current row covering `count` pixels from the
// cursor, or ErrCorrupt if any of them is outside the frame.
func (d *decoder) span(count int) ([]byte, error) {
	if d.line < 0 || d.line >= d.frame.Height || d.x < 0 || d.x+count > d.frame.Width {
		return nil, pixcodec.Errorf(
			pixcodec.ErrCorrupt,
			"run of %d pixels at (%d, %d) doesn't fit in the %dx%d frame",
			count,
			d.x,
			d.line,
			d.frame.Width,
			d.frame.Height,
		)
	}
	return d.frame.Row(d.line)[d.x : d.x+count], nil
}

func (d *decoder) run() error {
	for !d.in.AtEnd() {
		opcode, err := d.in.Next(2)
		if err != nil {
			return err
		}
		count, value := int(opcode[0]), opcode[1]

		if count > 0 {
			target, err := d.span(count)
			if err != nil {
				return err
			}
			for i := range target {
				target[i] = value
			}
			d.x += count
			continue
		}

		switch value {
		case escapeEndOfLine:
			d.x = 0
			d.line--
		case escapeEndOfBitmap:
			return nil
		case escapeDelta:
			delta, err := d.in.Next(2)
			if err != nil {
				return err
			}
			d.x += int(delta[0])
			d.line -= int(delta[1])
		default:
			length := int(value)
			literal, err := d.in.Next(length)
			if err != nil {
				return err
			}
			target, err := d.span(length)
			if err != nil {
				return err
			}
			copy(target, literal)
			d.x += length
			// Absolute runs are padded to a 16-bit boundary. Tolerate a
			// missing pad byte at the very end of the stream.
			if length&1 != 0 && !d.in.AtEnd() {
				if err := d.in.Skip(1); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
