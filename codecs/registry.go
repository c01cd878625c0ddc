// Package codecs maps codec names to implementations.
package codecs

import (
	"sort"
	"strings"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/codecs/base64"
	"github.com/dargueta/pixcodec/codecs/bzip2"
	"github.com/dargueta/pixcodec/codecs/lzw"
	"github.com/dargueta/pixcodec/codecs/msrle"
	"github.com/dargueta/pixcodec/codecs/msvideo"
	"github.com/dargueta/pixcodec/codecs/packbits"
	"github.com/dargueta/pixcodec/codecs/qtrle"
	"github.com/dargueta/pixcodec/codecs/rpza"
	"github.com/dargueta/pixcodec/codecs/zlib"
)

// Factory creates a codec with its default settings.
type Factory = func() pixcodec.Codec

type LUT map[string]Factory

// Registered holds every codec in this module by name.
var Registered = LUT{
	"base64":   func() pixcodec.Codec { return base64.New() },
	"bzip2":    func() pixcodec.Codec { return bzip2.New() },
	"deflate":  func() pixcodec.Codec { return zlib.NewDeflate() },
	"lzw":      func() pixcodec.Codec { return lzw.New() },
	"msrle":    func() pixcodec.Codec { return msrle.New() },
	"msvideo1": func() pixcodec.Codec { return msvideo.New() },
	"packbits": func() pixcodec.Codec { return packbits.New() },
	"qtrle":    func() pixcodec.Codec { return qtrle.New() },
	"rpza":     func() pixcodec.Codec { return rpza.New() },
	"zlib":     func() pixcodec.Codec { return zlib.New() },
}

// Lookup returns a new instance of the named codec. Names are case-insensitive.
func Lookup(name string) (pixcodec.Codec, error) {
	factory, ok := Registered[strings.ToLower(name)]
	if !ok {
		return nil, pixcodec.Errorf(pixcodec.ErrUnsupported, "no codec named %q", name)
	}
	return factory(), nil
}

// Names returns the registered codec names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Registered))
	for name := range Registered {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NeedsFrameOptions reports whether the named codec decodes whole frames and
// so needs [pixcodec.FrameOptions] rather than [pixcodec.NoOptions].
func NeedsFrameOptions(name string) bool {
	switch strings.ToLower(name) {
	case "msrle", "msvideo1", "qtrle", "rpza":
		return true
	}
	return false
}
