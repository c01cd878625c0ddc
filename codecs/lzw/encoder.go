package lzw

import (
	"github.com/dargueta/pixcodec/utilities/bits"
)

type encoder struct {
	out   *bits.Writer
	tree  *prefixTree
	width int
}

func newEncoder() *encoder {
	return &encoder{
		out:   bits.NewWriter(),
		tree:  newPrefixTree(),
		width: minCodeWidth,
	}
}

func (e *encoder) emit(code int) {
	e.out.WriteBits(uint32(code), e.width)
}

// define adds `prefix` + `c` to the dictionary, then either widens the code
// or, if the table is about to fill up, emits CLEAR and starts over.
func (e *encoder) define(prefix int, c byte) {
	nextCode := e.tree.insert(prefix, c)
	e.afterDefine(nextCode)
}

func (e *encoder) afterDefine(nextCode int) {
	if nextCode >= encoderResetCode {
		e.emit(clearCode)
		e.tree.reset()
		e.width = minCodeWidth
	} else if nextCode > (1<<e.width)-1 && e.width < maxCodeWidth {
		e.width++
	}
}

func (e *encoder) encode(data []byte) []byte {
	e.emit(clearCode)
	if len(data) == 0 {
		e.emit(eoiCode)
		return e.out.Bytes()
	}

	current := int(data[0])
	for _, c := range data[1:] {
		if next := e.tree.child(current, c); next != noCode {
			current = next
			continue
		}
		e.emit(current)
		e.define(current, c)
		current = int(c)
	}

	e.emit(current)
	// The decoder defines an entry for this last code too, which can push it
	// to the next code width before it reads EOI.
	e.tree.nextCode++
	e.afterDefine(e.tree.nextCode)
	e.emit(eoiCode)
	return e.out.Bytes()
}
