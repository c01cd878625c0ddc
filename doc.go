// Package pixcodec defines the contract shared by the pixel-data codecs in this
// module.
//
// Image containers such as TIFF, AVI and QuickTime store their pixel data
// compressed with one of dozens of legacy schemes. Each scheme lives in its own
// package under codecs/ and implements [Codec]: the caller hands over a
// compressed byte slice and an [Options] value, and gets back a flat decoded
// buffer or a typed error.
//
// Options are a closed set of variants rather than an untyped bag. Codecs that
// need no parameters take [NoOptions]; the frame codecs take [FrameOptions],
// which carries the frame geometry and the previous frame for codecs that
// delta-code against it. Passing the wrong variant is reported as
// [ErrInvalidOptions].
//
// Decoded frames are always row-major and top-to-bottom. Codecs whose native
// layout is bottom-to-top (Microsoft RLE and Video 1) do the flip themselves.
package pixcodec
