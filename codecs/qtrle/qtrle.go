// Package qtrle decodes QuickTime Animation ('rle ') frames at 8, 16, 24, and
// 32 bits per pixel.
//
// A frame starts with a 32-bit chunk size and a 16-bit header. If bit 3 of the
// header is set, the frame only updates a band of rows: a 16-bit start line
// and a 16-bit line count follow, each trailed by two unused bytes. Rows
// outside the band keep the previous frame's contents.
//
// Each updated row begins with a skip byte, then a series of signed codes:
//
//   - 0: another skip byte follows.
//   - -1: end of row.
//   - less than -1: the next unit repeats -code times.
//   - greater than 0: code units follow literally.
//
// A unit is one pixel, except at 8 bits per pixel where it's four. Skips move
// the cursor right by (skip - 1) units.
package qtrle

import (
	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/codecs/common"
)

const (
	headerHasBand = 0x0008
	chunkSizeMask = 0x3FFFFFFF
	// Anything shorter than a chunk size and header can't change the frame.
	minFrameSize = 8

	codeSkip      = 0
	codeEndOfLine = -1
)

type pixelFormat struct {
	bytesPerPixel int
	unitSize      int
}

// formatForDepth returns the pixel layout for a bit depth, or false if the
// depth isn't one QuickTime RLE supports.
func formatForDepth(bitsPerPixel int) (pixelFormat, bool) {
	switch bitsPerPixel {
	case 8:
		return pixelFormat{bytesPerPixel: 1, unitSize: 4}, true
	case 16:
		return pixelFormat{bytesPerPixel: 2, unitSize: 2}, true
	case 24:
		return pixelFormat{bytesPerPixel: 3, unitSize: 3}, true
	case 32:
		return pixelFormat{bytesPerPixel: 4, unitSize: 4}, true
	}
	return pixelFormat{}, false
}

// Codec decodes QuickTime Animation frames. Output rows are top-down with
// 16-bit pixels kept big-endian, 24-bit pixels as R, G, B and 32-bit pixels as
// A, R, G, B.
type Codec struct{}

func New() Codec {
	return Codec{}
}

func (Codec) Compress(data []byte, opts pixcodec.Options) ([]byte, error) {
	return nil, pixcodec.ErrUnsupported.WithMessage("QuickTime RLE is decode-only")
}

func (Codec) Decompress(data []byte, opts pixcodec.Options) (out []byte, err error) {
	defer common.RecoverCorrupt(&out, &err)

	frameOpts, err := pixcodec.AsFrameOptions(opts)
	if err != nil {
		return nil, err
	}
	format, ok := formatForDepth(frameOpts.BitsPerPixel)
	if !ok {
		return nil, pixcodec.Errorf(
			pixcodec.ErrUnsupported, "%d bits per pixel isn't supported", frameOpts.BitsPerPixel)
	}
	frame, err := common.NewFrame(frameOpts, format.bytesPerPixel)
	if err != nil {
		return nil, err
	}
	if len(data) < minFrameSize {
		return frame.Pixels, nil
	}

	d := decoder{
		in:       common.NewCursor(data),
		frame:    frame,
		unitSize: format.unitSize,
	}
	if err := d.run(); err != nil {
		return nil, err
	}
	return frame.Pixels, nil
}

type decoder struct {
	in       *common.Cursor
	frame    *common.Frame
	unitSize int
	// pos is the byte offset into the frame where the next pixel goes.
	pos int
}

func (d *decoder) run() error {
	chunkSize, err := d.in.ReadBE32()
	if err != nil {
		return err
	}
	d.in.Limit(int(chunkSize & chunkSizeMask))

	header, err := d.in.ReadBE16()
	if err != nil {
		return err
	}

	startLine, numLines := 0, d.frame.Height
	if header&headerHasBand != 0 {
		band, err := d.in.Next(8)
		if err != nil {
			return err
		}
		startLine = int(band[0])<<8 | int(band[1])
		numLines = int(band[4])<<8 | int(band[5])
		if startLine+numLines > d.frame.Height {
			return pixcodec.Errorf(
				pixcodec.ErrCorrupt,
				"band of %d lines starting at %d doesn't fit in a frame %d lines tall",
				numLines,
				startLine,
				d.frame.Height,
			)
		}
	}

	rowStart := startLine * d.frame.Stride
	for line := 0; line < numLines; line++ {
		if d.in.AtEnd() {
			return nil
		}
		done, err := d.decodeRow(rowStart)
		if err != nil || done {
			return err
		}
		rowStart += d.frame.Stride
	}
	return nil
}

// decodeRow decodes one row starting at frame offset `rowStart`. It returns
// true if the input ran out cleanly between codes.
func (d *decoder) decodeRow(rowStart int) (bool, error) {
	skip, err := d.in.ReadByte()
	if err != nil {
		return false, err
	}
	d.pos = rowStart + (int(skip)-1)*d.unitSize

	for {
		if d.in.AtEnd() {
			return true, nil
		}
		code, _ := d.in.ReadInt8()

		switch {
		case code == codeEndOfLine:
			return false, nil
		case code == codeSkip:
			skip, err := d.in.ReadByte()
			if err != nil {
				return false, err
			}
			d.pos += (int(skip) - 1) * d.unitSize
		case code < 0:
			unit, err := d.in.Next(d.unitSize)
			if err != nil {
				return false, err
			}
			count := -int(code)
			target, err := d.target(count * d.unitSize)
			if err != nil {
				return false, err
			}
			for i := 0; i < count; i++ {
				copy(target[i*d.unitSize:], unit)
			}
		default:
			literal, err := d.in.Next(int(code) * d.unitSize)
			if err != nil {
				return false, err
			}
			target, err := d.target(len(literal))
			if err != nil {
				return false, err
			}
			copy(target, literal)
		}
	}
}

// target returns the next `size` bytes of the frame and advances past them.
func (d *decoder) target(size int) ([]byte, error) {
	if d.pos < 0 || d.pos+size > len(d.frame.Pixels) {
		return nil, pixcodec.Errorf(
			pixcodec.ErrCorrupt,
			"write of %d bytes at frame offset %d is outside the %d-byte frame",
			size,
			d.pos,
			len(d.frame.Pixels),
		)
	}
	chunk := d.frame.Pixels[d.pos : d.pos+size]
	d.pos += size
	return chunk, nil
}
