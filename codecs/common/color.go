package common

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Split555 returns the 5-bit red, green, and blue channels of a packed
// x1r5g5b5 color.
func Split555(c uint16) (r, g, b uint8) {
	return uint8(c>>10) & 0x1f, uint8(c>>5) & 0x1f, uint8(c) & 0x1f
}

// Join555 packs three 5-bit channels into an x1r5g5b5 color. Bits above the low
// five of each channel are dropped.
func Join555(r, g, b uint8) uint16 {
	return uint16(r&0x1f)<<10 | uint16(g&0x1f)<<5 | uint16(b&0x1f)
}

// Expand555 scales a packed 5-5-5 color to 8 bits per channel, mapping 0 to 0
// and 31 to 255.
func Expand555(c uint16) (r, g, b uint8) {
	r5, g5, b5 := Split555(c)
	color := colorful.Color{
		R: float64(r5) / 31.0,
		G: float64(g5) / 31.0,
		B: float64(b5) / 31.0,
	}
	return color.RGB255()
}
