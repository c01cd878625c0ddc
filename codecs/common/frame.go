package common

import (
	"github.com/dargueta/pixcodec"
)

// MaxFrameBytes bounds the size of a decoded frame. Dimensions come from
// container headers, so anything larger is rejected before allocating.
const MaxFrameBytes = 1 << 30

// Frame is the output canvas of a frame codec. It starts out as a copy of the
// previous frame (or zeros) so that regions the stream skips over keep their
// old contents.
type Frame struct {
	Pixels        []byte
	Width         int
	Height        int
	BytesPerPixel int
	Stride        int
}

// NewFrame validates `opts` and allocates a canvas for a frame with
// `bytesPerPixel` bytes per pixel, seeded from the previous frame if one was
// given. The caller's previous frame is never written to.
func NewFrame(opts pixcodec.FrameOptions, bytesPerPixel int) (*Frame, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, opts.Validate(0)
	}

	if bytesPerPixel <= 0 ||
		opts.Width > MaxFrameBytes/bytesPerPixel ||
		opts.Width*bytesPerPixel > MaxFrameBytes/opts.Height {
		return nil, pixcodec.Errorf(
			pixcodec.ErrInvalidOptions,
			"a %dx%d frame at %d bytes per pixel exceeds the %d-byte limit",
			opts.Width,
			opts.Height,
			bytesPerPixel,
			MaxFrameBytes,
		)
	}

	stride := opts.Width * bytesPerPixel
	size := stride * opts.Height
	if err := opts.Validate(size); err != nil {
		return nil, err
	}

	pixels := make([]byte, size)
	copy(pixels, opts.PreviousFrame)
	return &Frame{
		Pixels:        pixels,
		Width:         opts.Width,
		Height:        opts.Height,
		BytesPerPixel: bytesPerPixel,
		Stride:        stride,
	}, nil
}

// Contains reports whether (x, y) lies inside the frame.
func (f *Frame) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.Width && y < f.Height
}

// Offset returns the index of the first byte of pixel (x, y).
func (f *Frame) Offset(x, y int) int {
	return y*f.Stride + x*f.BytesPerPixel
}

// Row returns the bytes of row `y`. The slice aliases the frame.
func (f *Frame) Row(y int) []byte {
	start := y * f.Stride
	return f.Pixels[start : start+f.Stride]
}

// SetPixel writes one pixel's bytes, failing with [pixcodec.ErrCorrupt] if
// (x, y) is outside the frame.
func (f *Frame) SetPixel(x, y int, pixel []byte) error {
	if !f.Contains(x, y) {
		return pixcodec.Errorf(
			pixcodec.ErrCorrupt,
			"pixel (%d, %d) is outside the %dx%d frame",
			x,
			y,
			f.Width,
			f.Height,
		)
	}
	copy(f.Pixels[f.Offset(x, y):], pixel[:f.BytesPerPixel])
	return nil
}

// ClipPixel is like [Frame.SetPixel] but silently drops pixels outside the
// frame. Block codecs use it for the partial blocks along the right and
// bottom edges of frames whose dimensions aren't multiples of the block size.
func (f *Frame) ClipPixel(x, y int, pixel []byte) {
	if f.Contains(x, y) {
		copy(f.Pixels[f.Offset(x, y):], pixel[:f.BytesPerPixel])
	}
}
