package pixcodec

// Options is the closed set of per-codec parameter variants. Only this package
// can add variants; a codec that receives one it doesn't expect must return
// [ErrInvalidOptions].
type Options interface {
	isOptions()
}

// NoOptions is the variant for codecs that need no side-channel parameters:
// LZW, PackBits, BZip2, Base64, and ZLIB/deflate.
type NoOptions struct{}

func (NoOptions) isOptions() {}

// FrameOptions carries the parameters the frame codecs (Microsoft RLE,
// QuickTime RLE, Microsoft Video 1, Apple RPZA) need to decode one frame.
type FrameOptions struct {
	Width  int
	Height int
	// BitsPerPixel is the depth of the decoded frame. Which depths are valid
	// depends on the codec.
	BitsPerPixel int
	// PreviousFrame is the previously decoded frame, in the same layout this
	// frame will be decoded to. It's used to fill skipped regions and is never
	// modified. If nil, skipped regions are zero.
	PreviousFrame []byte
	// Interlaced is carried for callers that decode interlaced motion JPEG
	// fields; none of the codecs in this module change behavior on it.
	Interlaced bool
}

func (FrameOptions) isOptions() {}

// Validate checks the dimensions and, if present, that the previous frame is
// exactly `frameSize` bytes.
func (o FrameOptions) Validate(frameSize int) error {
	if o.Width <= 0 || o.Height <= 0 {
		return Errorf(
			ErrInvalidOptions, "frame dimensions must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.PreviousFrame != nil && len(o.PreviousFrame) != frameSize {
		return Errorf(
			ErrInvalidOptions,
			"previous frame is %d bytes, expected %d for a %dx%d frame at %d bpp",
			len(o.PreviousFrame),
			frameSize,
			o.Width,
			o.Height,
			o.BitsPerPixel,
		)
	}
	return nil
}

// AsFrameOptions returns `opts` as [FrameOptions], or [ErrInvalidOptions] if
// it's a different variant or nil.
func AsFrameOptions(opts Options) (FrameOptions, error) {
	switch o := opts.(type) {
	case FrameOptions:
		return o, nil
	case *FrameOptions:
		if o != nil {
			return *o, nil
		}
	}
	return FrameOptions{}, Errorf(ErrInvalidOptions, "expected FrameOptions, got %T", opts)
}

// CheckNoOptions returns [ErrInvalidOptions] unless `opts` is nil or
// [NoOptions].
func CheckNoOptions(opts Options) error {
	switch opts.(type) {
	case nil, NoOptions, *NoOptions:
		return nil
	}
	return Errorf(ErrInvalidOptions, "expected NoOptions, got %T", opts)
}
