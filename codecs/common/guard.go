package common

import (
	"runtime"

	"github.com/dargueta/pixcodec"
)

// RecoverCorrupt turns a runtime fault inside a decoder (an index out of
// range, say) into an error wrapping [pixcodec.ErrCorrupt]. Decoders defer it
// with a pointer to their named error result:
//
//	func (c Codec) Decompress(data []byte, opts pixcodec.Options) (out []byte, err error) {
//		defer common.RecoverCorrupt(&out, &err)
//		...
//	}
//
// Codec errors raised with panic are returned as-is. Anything else keeps
// panicking.
func RecoverCorrupt(out *[]byte, err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		*out = nil
		*err = pixcodec.ErrCorrupt.Wrap(ex)
	case pixcodec.CodecError:
		*out = nil
		*err = ex
	default:
		panic(ex)
	}
}
