// Package rpza decodes Apple Video ('rpza', "road pizza") frames.
//
// A frame is a one-byte marker (0xE1), a 24-bit chunk size, and a stream of
// opcodes covering 4x4 blocks left to right, top to bottom. The low five bits
// of most opcodes hold a block count minus one. By the top three bits:
//
//   - 100: skip blocks, keeping the previous frame.
//   - 101: fill blocks with one color.
//   - 110: two endpoint colors define a four-color ramp; each block then takes
//     four bytes of 2-bit indices into the ramp.
//   - 0xx: the opcode is the high byte of a color. If the byte after that
//     color has its top bit set, this is a single ramp block using that color
//     as the first endpoint. Otherwise it's a block of 16 explicit colors.
//
// Colors are big-endian RGB555.
package rpza

import (
	"log"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/codecs/common"
)

const (
	chunkMarker   = 0xE1
	chunkSizeMask = 0x00FFFFFF
	blockSize     = 4

	opcodeTypeMask  = 0xE0
	opcodeCountMask = 0x1F
	opcodeSkip      = 0x80
	opcodeSolid     = 0xA0
	opcodeRamp      = 0xC0
	// The two pseudo-opcodes below never appear on the wire; they're what an
	// opcode with its top bit clear turns into.
	opcodeSingleRamp = 0x20
	opcodeSixteen    = 0x00

	bitsPerPixel = 16
)

// Codec decodes RPZA frames into big-endian RGB555, two bytes per pixel.
type Codec struct {
	// Logger receives warnings about recoverable oddities in the stream, such
	// as a wrong chunk marker. Nil discards them.
	Logger *log.Logger
}

func New() *Codec {
	return &Codec{}
}

func (c *Codec) Compress(data []byte, opts pixcodec.Options) ([]byte, error) {
	return nil, pixcodec.ErrUnsupported.WithMessage("RPZA is decode-only")
}

func (c *Codec) Decompress(data []byte, opts pixcodec.Options) (out []byte, err error) {
	defer common.RecoverCorrupt(&out, &err)

	frameOpts, err := pixcodec.AsFrameOptions(opts)
	if err != nil {
		return nil, err
	}
	if frameOpts.BitsPerPixel != bitsPerPixel {
		return nil, pixcodec.Errorf(
			pixcodec.ErrUnsupported,
			"RPZA only decodes to 16 bits per pixel, got %d",
			frameOpts.BitsPerPixel,
		)
	}
	frame, err := common.NewFrame(frameOpts, 2)
	if err != nil {
		return nil, err
	}

	blocksWide := (frame.Width + blockSize - 1) / blockSize
	blocksHigh := (frame.Height + blockSize - 1) / blockSize
	d := decoder{
		in:          common.NewCursor(data),
		frame:       frame,
		blocksWide:  blocksWide,
		totalBlocks: blocksWide * blocksHigh,
		logger:      c.Logger,
	}
	if err := d.run(); err != nil {
		return nil, err
	}
	return frame.Pixels, nil
}

type decoder struct {
	in          *common.Cursor
	frame       *common.Frame
	blocksWide  int
	totalBlocks int
	block       int
	logger      *log.Logger
}

func (d *decoder) warnf(format string, args ...interface{}) {
	if d.logger != nil {
		d.logger.Printf(format, args...)
	}
}

func (d *decoder) run() error {
	marker, err := d.in.PeekByte()
	if err != nil {
		return err
	}
	if marker != chunkMarker {
		d.warnf("rpza: chunk starts with 0x%02x instead of 0x%02x", marker, chunkMarker)
	}

	header, err := d.in.ReadBE32()
	if err != nil {
		return err
	}
	chunkSize := int(header & chunkSizeMask)
	if chunkSize != d.in.Remaining()+4 {
		d.warnf(
			"rpza: chunk size %d doesn't match the %d bytes given",
			chunkSize,
			d.in.Remaining()+4,
		)
	}
	d.in.Limit(chunkSize)

	for !d.in.AtEnd() {
		done, err := d.decodeOpcode()
		if err != nil || done {
			return err
		}
	}
	return nil
}

// nextBlock returns the top-left corner of the next block, or false if every
// block in the frame has been decoded.
func (d *decoder) nextBlock() (x, y int, ok bool) {
	if d.block >= d.totalBlocks {
		return 0, 0, false
	}
	x = (d.block % d.blocksWide) * blockSize
	y = (d.block / d.blocksWide) * blockSize
	d.block++
	return x, y, true
}

// decodeOpcode decodes one opcode and its blocks. It returns true once the
// block cursor has run past the last block.
func (d *decoder) decodeOpcode() (bool, error) {
	opcode, _ := d.in.ReadByte()
	numBlocks := int(opcode&opcodeCountMask) + 1

	var colorA uint16
	if opcode&0x80 == 0 {
		low, err := d.in.ReadByte()
		if err != nil {
			return false, err
		}
		colorA = uint16(opcode)<<8 | uint16(low)

		next, err := d.in.PeekByte()
		if err == nil && next&0x80 != 0 {
			opcode = opcodeSingleRamp
			numBlocks = 1
		} else {
			opcode = opcodeSixteen
		}
	}

	switch opcode & opcodeTypeMask {
	case opcodeSkip:
		for i := 0; i < numBlocks; i++ {
			if _, _, ok := d.nextBlock(); !ok {
				return true, nil
			}
		}
		return false, nil

	case opcodeSolid:
		color, err := d.in.ReadBE16()
		if err != nil {
			return false, err
		}
		for i := 0; i < numBlocks; i++ {
			x, y, ok := d.nextBlock()
			if !ok {
				return true, nil
			}
			d.fillBlock(x, y, color)
		}
		return false, nil

	case opcodeRamp, opcodeSingleRamp:
		if opcode&opcodeTypeMask == opcodeRamp {
			var err error
			if colorA, err = d.in.ReadBE16(); err != nil {
				return false, err
			}
		}
		colorB, err := d.in.ReadBE16()
		if err != nil {
			return false, err
		}
		ramp := buildRamp(colorA, colorB)

		for i := 0; i < numBlocks; i++ {
			indices, err := d.in.Next(blockSize)
			if err != nil {
				return false, err
			}
			x, y, ok := d.nextBlock()
			if !ok {
				return true, nil
			}
			d.rampBlock(x, y, &ramp, indices)
		}
		return false, nil

	case opcodeSixteen:
		colors, err := d.in.Next(30)
		if err != nil {
			return false, err
		}
		x, y, ok := d.nextBlock()
		if !ok {
			return true, nil
		}
		d.sixteenColorBlock(x, y, colorA, colors)
		return false, nil

	default:
		return false, pixcodec.Errorf(
			pixcodec.ErrCorrupt,
			"unknown opcode 0x%02x at offset %d",
			opcode,
			d.in.Pos()-1,
		)
	}
}

// buildRamp interpolates the two middle colors between the endpoints, channel
// by channel, with 11/21 weights.
func buildRamp(colorA, colorB uint16) [4]uint16 {
	ra, ga, ba := common.Split555(colorA)
	rb, gb, bb := common.Split555(colorB)
	mix := func(a, b uint8) (uint8, uint8) {
		return uint8((11*uint16(a) + 21*uint16(b)) >> 5), uint8((21*uint16(a) + 11*uint16(b)) >> 5)
	}

	r1, r2 := mix(ra, rb)
	g1, g2 := mix(ga, gb)
	b1, b2 := mix(ba, bb)
	return [4]uint16{
		colorB,
		common.Join555(r1, g1, b1),
		common.Join555(r2, g2, b2),
		colorA,
	}
}

func (d *decoder) put(x, y int, color uint16) {
	d.frame.ClipPixel(x, y, []byte{byte(color >> 8), byte(color)})
}

func (d *decoder) fillBlock(left, top int, color uint16) {
	for py := 0; py < blockSize; py++ {
		for px := 0; px < blockSize; px++ {
			d.put(left+px, top+py, color)
		}
	}
}

func (d *decoder) rampBlock(left, top int, ramp *[4]uint16, indices []byte) {
	for py := 0; py < blockSize; py++ {
		row := indices[py]
		for px := 0; px < blockSize; px++ {
			index := (row >> (2 * (3 - px))) & 0x03
			d.put(left+px, top+py, ramp[index])
		}
	}
}

// sixteenColorBlock fills a block from `first` (the top-left pixel) and 15 more
// big-endian colors.
func (d *decoder) sixteenColorBlock(left, top int, first uint16, rest []byte) {
	d.put(left, top, first)
	for i := 1; i < blockSize*blockSize; i++ {
		color := uint16(rest[2*(i-1)])<<8 | uint16(rest[2*(i-1)+1])
		d.put(left+i%blockSize, top+i/blockSize, color)
	}
}
