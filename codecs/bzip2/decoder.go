package bzip2

import (
	"bytes"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/codecs/common"
	"github.com/dargueta/pixcodec/utilities/bits"
	"github.com/dargueta/pixcodec/utilities/bytebuf"
	"github.com/hashicorp/go-multierror"
)

const (
	streamMagic = "BZh"
	blockMagic  = 0x314159265359
	endMagic    = 0x177245385090

	// A level-n stream holds at most n*blockSizeUnit bytes per block before
	// the final run-length stage.
	blockSizeUnit = 100000

	minGroups    = 2
	maxGroups    = 6
	groupSize    = 50
	maxAlphaSize = 258
	// Encoders never write more selectors than this; extra ones are read and
	// discarded.
	maxSelectors = 18002

	runA = 0
	runB = 1
)

// BlockInfo describes one decoded block.
type BlockInfo struct {
	// Stream is the index of the stream holding the block when several
	// streams are concatenated.
	Stream int
	// Index is the block's position within its stream.
	Index       int
	StoredCRC   uint32
	ComputedCRC uint32
	// Size is the number of bytes the block decoded to.
	Size       int
	Randomised bool
}

// CRCValid reports whether the block's stored and computed checksums agree.
func (b BlockInfo) CRCValid() bool {
	return b.StoredCRC == b.ComputedCRC
}

// Result is everything [Decoder.DecodeAll] learned about its input.
type Result struct {
	Data []byte
	// Level is the block size digit of the first stream.
	Level   int
	Streams int
	Blocks  []BlockInfo
	// CRCErrors collects every checksum mismatch. Each one wraps
	// [pixcodec.ErrCorrupt]. It's nil when all checksums matched.
	CRCErrors *multierror.Error
}

// Decoder decodes BZip2 streams. It keeps its working arrays between calls, so
// decoding many streams with one Decoder avoids most allocations. A Decoder
// must not be used from more than one goroutine at a time.
type Decoder struct {
	in     *bits.Reader
	out    *bytebuf.Buffer
	result *Result

	inUse      bitmap.Bitmap
	symbols    [256]byte
	numInUse   int
	selectors  []uint8
	lengths    [maxGroups][maxAlphaSize]uint8
	tables     [maxGroups]huffmanTable
	numGroups  int
	byteCounts [256]int
	// block holds the block's bytes after undoing the move-to-front stage.
	// links holds the inverse BWT permutation. Both only grow.
	block []byte
	links []uint32
}

func NewDecoder() *Decoder {
	return &Decoder{
		inUse:     bitmap.New(256),
		selectors: make([]uint8, 0, maxSelectors),
	}
}

// DecodeAll decodes every stream in `data`. The leading "BZ" of the first
// stream is optional. Anything after the last stream that doesn't start with
// another "BZh" header is ignored.
//
// Checksum mismatches don't stop decoding; they're collected in
// [Result.CRCErrors].
func (d *Decoder) DecodeAll(data []byte) (*Result, error) {
	result := &Result{}
	decoded, err := d.decodeGuarded(data, result)
	if err != nil {
		return nil, err
	}
	result.Data = decoded
	return result, nil
}

func (d *Decoder) decodeGuarded(data []byte, result *Result) (out []byte, err error) {
	defer common.RecoverCorrupt(&out, &err)
	defer func() {
		d.in = nil
		d.out = nil
		d.result = nil
	}()

	d.in = bits.NewReader(data)
	d.out = bytebuf.New(len(data) * 4)
	d.result = result

	if bytes.HasPrefix(data, []byte("BZ")) {
		d.in.SkipBits(16)
	}
	for {
		if err := d.decodeStream(); err != nil {
			return nil, err
		}
		result.Streams++

		// Each stream is padded to a byte boundary.
		d.in.Align()
		if !bytes.HasPrefix(data[d.in.BytePosition():], []byte(streamMagic)) {
			break
		}
		d.in.SkipBits(16)
	}
	return d.out.ToBytes(), nil
}

func (d *Decoder) addCRCError(format string, args ...interface{}) {
	d.result.CRCErrors = multierror.Append(
		d.result.CRCErrors, pixcodec.Errorf(pixcodec.ErrCorrupt, format, args...))
}

func (d *Decoder) readBits(n int) (uint32, error) {
	return d.in.ReadBits(n)
}

func (d *Decoder) readBit() (bool, error) {
	return d.in.ReadBit()
}

// decodeStream decodes one stream, starting right after its "BZ" signature.
func (d *Decoder) decodeStream() error {
	signature, err := d.readBits(8)
	if err != nil {
		return err
	}
	if signature != 'h' {
		return pixcodec.Errorf(
			pixcodec.ErrCorrupt, "expected 'h' (Huffman) after the signature, got 0x%02x", signature)
	}
	levelDigit, err := d.readBits(8)
	if err != nil {
		return err
	}
	if levelDigit < '1' || levelDigit > '9' {
		return pixcodec.Errorf(pixcodec.ErrCorrupt, "invalid block size level 0x%02x", levelDigit)
	}
	level := int(levelDigit - '0')
	if d.result.Streams == 0 {
		d.result.Level = level
	}

	var combinedCRC uint32
	blockErrors := false
	for index := 0; ; index++ {
		high, err := d.readBits(24)
		if err != nil {
			return err
		}
		low, err := d.readBits(24)
		if err != nil {
			return err
		}

		magic := uint64(high)<<24 | uint64(low)
		switch magic {
		case endMagic:
			storedCRC, err := d.readBits(32)
			if err != nil {
				return err
			}
			// A bad block already made the stream checksum wrong; only report
			// a mismatch that the blocks don't explain.
			if storedCRC != combinedCRC && !blockErrors {
				d.addCRCError(
					"stream %d: stored CRC 0x%08x, computed 0x%08x",
					d.result.Streams,
					storedCRC,
					combinedCRC,
				)
			}
			return nil
		case blockMagic:
		default:
			return pixcodec.Errorf(
				pixcodec.ErrCorrupt,
				"bad block signature 0x%012x at bit offset %d",
				magic,
				d.in.BitPosition()-48,
			)
		}

		info, err := d.decodeBlock(level * blockSizeUnit)
		if err != nil {
			return err
		}
		info.Stream = d.result.Streams
		info.Index = index
		if !info.CRCValid() {
			blockErrors = true
			d.addCRCError(
				"stream %d block %d: stored CRC 0x%08x, computed 0x%08x",
				info.Stream,
				info.Index,
				info.StoredCRC,
				info.ComputedCRC,
			)
		}
		combinedCRC = combineCRC(combinedCRC, info.ComputedCRC)
		d.result.Blocks = append(d.result.Blocks, info)
	}
}

func (d *Decoder) decodeBlock(blockLimit int) (BlockInfo, error) {
	var info BlockInfo

	storedCRC, err := d.readBits(32)
	if err != nil {
		return info, err
	}
	info.StoredCRC = storedCRC

	if info.Randomised, err = d.readBit(); err != nil {
		return info, err
	}
	origin, err := d.readBits(24)
	if err != nil {
		return info, err
	}

	if err := d.readSymbolMap(); err != nil {
		return info, err
	}
	if err := d.readCodingTables(); err != nil {
		return info, err
	}
	length, err := d.readBlockSymbols(blockLimit)
	if err != nil {
		return info, err
	}
	if int(origin) >= length {
		return info, pixcodec.Errorf(
			pixcodec.ErrCorrupt,
			"BWT origin %d is outside the %d-byte block",
			origin,
			length,
		)
	}

	start := d.out.Len()
	info.ComputedCRC = d.writeBlock(length, int(origin), info.Randomised)
	info.Size = d.out.Len() - start
	return info, nil
}

// readSymbolMap reads which of the 256 byte values occur in the block.
func (d *Decoder) readSymbolMap() error {
	ranges, err := d.readBits(16)
	if err != nil {
		return err
	}

	for i := 0; i < 256; i++ {
		d.inUse.Set(i, false)
	}
	for i := 0; i < 16; i++ {
		if ranges&(0x8000>>i) == 0 {
			continue
		}
		used, err := d.readBits(16)
		if err != nil {
			return err
		}
		for j := 0; j < 16; j++ {
			if used&(0x8000>>j) != 0 {
				d.inUse.Set(i*16+j, true)
			}
		}
	}

	d.numInUse = 0
	for i := 0; i < 256; i++ {
		if d.inUse.Get(i) {
			d.symbols[d.numInUse] = byte(i)
			d.numInUse++
		}
	}
	if d.numInUse == 0 {
		return pixcodec.ErrCorrupt.WithMessage("block uses no byte values")
	}
	return nil
}

// readCodingTables reads the selector list and the code lengths of every
// coding group, then builds the group's Huffman table.
func (d *Decoder) readCodingTables() error {
	numGroups, err := d.readBits(3)
	if err != nil {
		return err
	}
	if numGroups < minGroups || numGroups > maxGroups {
		return pixcodec.Errorf(pixcodec.ErrCorrupt, "invalid number of coding groups %d", numGroups)
	}
	d.numGroups = int(numGroups)

	numSelectors, err := d.readBits(15)
	if err != nil {
		return err
	}
	if numSelectors == 0 {
		return pixcodec.ErrCorrupt.WithMessage("block has no selectors")
	}

	// Selectors are move-to-front coded, each index in unary.
	var order [maxGroups]uint8
	for i := range order {
		order[i] = uint8(i)
	}
	d.selectors = d.selectors[:0]
	for i := 0; i < int(numSelectors); i++ {
		index := 0
		for {
			bit, err := d.readBit()
			if err != nil {
				return err
			}
			if !bit {
				break
			}
			index++
			if index >= d.numGroups {
				return pixcodec.Errorf(
					pixcodec.ErrCorrupt, "selector %d refers to a nonexistent group", i)
			}
		}
		group := order[index]
		copy(order[1:index+1], order[:index])
		order[0] = group
		if i < maxSelectors {
			d.selectors = append(d.selectors, group)
		}
	}

	alphaSize := d.numInUse + 2
	for group := 0; group < d.numGroups; group++ {
		current, err := d.readBits(5)
		if err != nil {
			return err
		}
		length := int(current)
		for symbol := 0; symbol < alphaSize; symbol++ {
			for {
				if length < 1 || length > maxCodeLength {
					return pixcodec.Errorf(
						pixcodec.ErrCorrupt,
						"code length %d for symbol %d of group %d is out of range",
						length,
						symbol,
						group,
					)
				}
				more, err := d.readBit()
				if err != nil {
					return err
				}
				if !more {
					break
				}
				down, err := d.readBit()
				if err != nil {
					return err
				}
				if down {
					length--
				} else {
					length++
				}
			}
			d.lengths[group][symbol] = uint8(length)
		}
		d.tables[group].build(d.lengths[group][:alphaSize])
	}
	return nil
}

// readBlockSymbols decodes the Huffman-coded symbols of a block, undoing the
// zero-run coding and the move-to-front transform. It returns the number of
// bytes stored in d.block.
func (d *Decoder) readBlockSymbols(blockLimit int) (int, error) {
	if len(d.block) < blockLimit {
		d.block = make([]byte, blockLimit)
	}
	block := d.block[:blockLimit]
	d.byteCounts = [256]int{}

	var mtf [256]byte
	for i := range mtf {
		mtf[i] = byte(i)
	}

	endOfBlock := d.numInUse + 1
	selectorIndex := -1
	groupRemaining := 0
	nextSymbol := func() (int, error) {
		if groupRemaining == 0 {
			selectorIndex++
			if selectorIndex >= len(d.selectors) {
				return 0, pixcodec.ErrCorrupt.WithMessage("block ran past its last selector")
			}
			groupRemaining = groupSize
		}
		groupRemaining--
		return d.tables[d.selectors[selectorIndex]].decode(d.in)
	}

	length := 0
	symbol, err := nextSymbol()
	if err != nil {
		return 0, err
	}
	for symbol != endOfBlock {
		if symbol == runA || symbol == runB {
			// A run of zeros in the MTF output, its length written in
			// bijective base 2 with RUNA = 1 and RUNB = 2.
			run := 0
			weight := 1
			for symbol == runA || symbol == runB {
				run += weight << uint(symbol)
				weight <<= 1
				if run > blockLimit {
					return 0, pixcodec.Errorf(
						pixcodec.ErrCorrupt, "run is longer than the %d-byte block", blockLimit)
				}
				if symbol, err = nextSymbol(); err != nil {
					return 0, err
				}
			}

			value := d.symbols[mtf[0]]
			if length+run > blockLimit {
				return 0, pixcodec.Errorf(
					pixcodec.ErrCorrupt, "block decodes to more than %d bytes", blockLimit)
			}
			for i := length; i < length+run; i++ {
				block[i] = value
			}
			d.byteCounts[value] += run
			length += run
			continue
		}

		if length >= blockLimit {
			return 0, pixcodec.Errorf(
				pixcodec.ErrCorrupt, "block decodes to more than %d bytes", blockLimit)
		}
		position := symbol - 1
		seq := mtf[position]
		copy(mtf[1:position+1], mtf[:position])
		mtf[0] = seq

		value := d.symbols[seq]
		block[length] = value
		d.byteCounts[value]++
		length++

		if symbol, err = nextSymbol(); err != nil {
			return 0, err
		}
	}
	return length, nil
}

// writeBlock undoes the Burrows-Wheeler transform, the optional
// randomisation, and the initial run-length stage, appending the result to
// the output. It returns the CRC of the bytes it wrote.
func (d *Decoder) writeBlock(length, origin int, randomised bool) uint32 {
	if len(d.links) < length {
		d.links = make([]uint32, length)
	}
	links := d.links[:length]
	block := d.block[:length]

	var next [256]int
	sum := 0
	for value, count := range d.byteCounts {
		next[value] = sum
		sum += count
	}
	for i, value := range block {
		links[next[value]] = uint32(i)
		next[value]++
	}

	crc := newBlockCRC()
	var rand randomiser
	previous := -1
	repeats := 0
	position := links[origin]
	for i := 0; i < length; i++ {
		value := block[position]
		position = links[position]
		if randomised {
			value ^= rand.next()
		}

		// Four equal bytes in a row are followed by a count of extra copies.
		if repeats == 4 {
			d.out.AppendRepeat(byte(previous), int(value))
			crc.updateRepeat(byte(previous), int(value))
			previous = -1
			repeats = 0
			continue
		}
		if int(value) == previous {
			repeats++
		} else {
			previous = int(value)
			repeats = 1
		}
		_ = d.out.WriteByte(value)
		crc.update(value)
	}
	return crc.sum()
}
