package bzip2

import (
	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/utilities/bits"
)

const (
	maxCodeLength = 20
	// The decoding arrays are indexed up to one past the longest code.
	tableLength = maxCodeLength + 2
)

// huffmanTable decodes one coding group's canonical Huffman code.
//
// Codes of each length are consecutive integers, so a code of length n is
// valid once it is no greater than limit[n], and it then selects
// perm[code-base[n]].
type huffmanTable struct {
	limit     [tableLength]int32
	base      [tableLength]int32
	perm      [maxAlphaSize]uint16
	minLength int
	maxLength int
	alphaSize int
}

// build prepares the table from the code length of every symbol. Lengths must
// already be in 1..maxCodeLength.
func (h *huffmanTable) build(lengths []uint8) {
	h.alphaSize = len(lengths)
	h.minLength = maxCodeLength
	h.maxLength = 0
	for _, length := range lengths {
		if int(length) > h.maxLength {
			h.maxLength = int(length)
		}
		if int(length) < h.minLength {
			h.minLength = int(length)
		}
	}

	pp := 0
	for length := h.minLength; length <= h.maxLength; length++ {
		for symbol, symbolLength := range lengths {
			if int(symbolLength) == length {
				h.perm[pp] = uint16(symbol)
				pp++
			}
		}
	}

	h.base = [tableLength]int32{}
	for _, length := range lengths {
		h.base[length+1]++
	}
	for i := 1; i < tableLength; i++ {
		h.base[i] += h.base[i-1]
	}

	h.limit = [tableLength]int32{}
	var vec int32
	for length := h.minLength; length <= h.maxLength; length++ {
		vec += h.base[length+1] - h.base[length]
		h.limit[length] = vec - 1
		vec <<= 1
	}
	for length := h.minLength + 1; length <= h.maxLength; length++ {
		h.base[length] = (h.limit[length-1]+1)<<1 - h.base[length]
	}
}

// decode reads one symbol.
func (h *huffmanTable) decode(in *bits.Reader) (int, error) {
	length := h.minLength
	code := in.GetBits(length)
	for code != bits.EOF && int32(code) > h.limit[length] {
		length++
		if length > h.maxLength {
			return 0, pixcodec.Errorf(
				pixcodec.ErrCorrupt,
				"no Huffman code matches at bit offset %d",
				in.BitPosition(),
			)
		}
		bit := in.GetBits(1)
		if bit == bits.EOF {
			code = bits.EOF
			break
		}
		code = code<<1 | bit
	}
	if code == bits.EOF {
		return 0, pixcodec.ErrTruncated.WithMessage("stream ended inside a Huffman code")
	}

	index := int32(code) - h.base[length]
	if index < 0 || int(index) >= h.alphaSize {
		return 0, pixcodec.Errorf(
			pixcodec.ErrCorrupt, "Huffman code %d of length %d is out of range", code, length)
	}
	return int(h.perm[index]), nil
}
