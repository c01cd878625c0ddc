package msrle

import (
	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/codecs/common"
	"github.com/dargueta/pixcodec/utilities/bytebuf"
	"github.com/dargueta/pixcodec/utilities/compression"
)

// Compress encodes a complete top-down frame of 8-bit palette indices. The
// previous frame in the options is ignored; every frame is encoded in full.
func (Codec) Compress(data []byte, opts pixcodec.Options) ([]byte, error) {
	frameOpts, err := frameOptions(opts)
	if err != nil {
		return nil, err
	}
	frameOpts.PreviousFrame = nil
	frame, err := common.NewFrame(frameOpts, 1)
	if err != nil {
		return nil, err
	}
	if len(data) != len(frame.Pixels) {
		return nil, pixcodec.Errorf(
			pixcodec.ErrInvalidOptions,
			"a %dx%d frame is %d bytes, got %d",
			frame.Width,
			frame.Height,
			len(frame.Pixels),
			len(data),
		)
	}
	copy(frame.Pixels, data)

	out := bytebuf.New(len(data) / 2)
	for line := frame.Height - 1; line >= 0; line-- {
		encodeRow(out, frame.Row(line))
		if line > 0 {
			out.Append([]byte{0, escapeEndOfLine})
		}
	}
	out.Append([]byte{0, escapeEndOfBitmap})
	return out.ToBytes(), nil
}

func encodeRow(out *bytebuf.Buffer, row []byte) {
	literal := make([]byte, 0, maxRunLength)

	flushLiteral := func() {
		if len(literal) >= minAbsoluteRun {
			out.Append([]byte{0, byte(len(literal))})
			out.Append(literal)
			if len(literal)&1 != 0 {
				out.WriteByte(0)
			}
		} else {
			// Absolute mode can't express fewer than three bytes.
			for _, value := range literal {
				out.Append([]byte{1, value})
			}
		}
		literal = literal[:0]
	}

	for _, run := range compression.GroupRuns(row, maxRunLength) {
		if run.RunLength > 1 {
			flushLiteral()
			out.Append([]byte{byte(run.RunLength), run.Byte})
			continue
		}
		literal = append(literal, run.Byte)
		if len(literal) == maxRunLength {
			flushLiteral()
		}
	}
	flushLiteral()
}
