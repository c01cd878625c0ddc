package bzip2

// BZip2 uses CRC-32 with the 0x04C11DB7 polynomial, but feeds bytes in most
// significant bit first with no reflection. hash/crc32 only implements the
// reflected form, so the table is built here.
const crcPolynomial = 0x04C11DB7

var crcTable [256]uint32

func init() {
	for i := range crcTable {
		c := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if c&0x80000000 != 0 {
				c = c<<1 ^ crcPolynomial
			} else {
				c <<= 1
			}
		}
		crcTable[i] = c
	}
}

// blockCRC is the running checksum of one block's decoded output.
type blockCRC uint32

func newBlockCRC() blockCRC {
	return blockCRC(0xFFFFFFFF)
}

func (c *blockCRC) update(b byte) {
	v := uint32(*c)
	*c = blockCRC(v<<8 ^ crcTable[byte(v>>24)^b])
}

func (c *blockCRC) updateRepeat(b byte, count int) {
	for ; count > 0; count-- {
		c.update(b)
	}
}

func (c blockCRC) sum() uint32 {
	return ^uint32(c)
}

// combineCRC folds a block checksum into the stream checksum.
func combineCRC(combined, block uint32) uint32 {
	return (combined<<1 | combined>>31) ^ block
}
