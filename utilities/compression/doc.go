// Package compression provides the stream-level helpers shared by the codecs.
//
// [RunLengthGrouper] splits a byte stream into runs of identical bytes. Both
// run-length encoders in this module (PackBits and Microsoft RLE) sit on top of
// it; they differ only in how a run becomes bytes on the wire. For example, the
// bytes
//
//	W X X X X X Y Z Z
//
// are grouped as (W, 1) (X, 5) (Y, 1) (Z, 2), and PackBits then writes the
// five X bytes as one repeat packet and the rest as literal packets.
//
// [CompressStream] and [DecompressStream] adapt any [pixcodec.Codec] to
// [io.Reader] and [io.Writer] so command-line tools can pipe files through a
// codec without caring which one it is.
package compression
