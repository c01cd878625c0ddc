package lzw

const (
	clearCode = 256
	eoiCode   = 257
	firstCode = 258

	minCodeWidth = 9
	maxCodeWidth = 12
	tableSize    = 1 << maxCodeWidth

	// The encoder resets once its next free code reaches this value, so the
	// live table never grows past 4094 entries.
	encoderResetCode = tableSize - 2

	noCode = -1
)

// prefixTree is the encoder's dictionary. Each entry is a (prefix code, byte)
// pair; children of an entry are kept in a singly linked sibling list.
type prefixTree struct {
	firstChild  [tableSize]int16
	nextSibling [tableSize]int16
	suffix      [tableSize]byte
	nextCode    int
}

func newPrefixTree() *prefixTree {
	tree := &prefixTree{}
	tree.reset()
	return tree
}

// reset drops every multi-byte entry, leaving the 256 single-byte roots.
func (t *prefixTree) reset() {
	for i := 0; i < 256; i++ {
		t.firstChild[i] = noCode
		t.suffix[i] = byte(i)
	}
	t.nextCode = firstCode
}

// child returns the code for the sequence `prefix` followed by `c`, or
// [noCode] if the sequence isn't in the dictionary.
func (t *prefixTree) child(prefix int, c byte) int {
	for code := t.firstChild[prefix]; code != noCode; code = t.nextSibling[code] {
		if t.suffix[code] == c {
			return int(code)
		}
	}
	return noCode
}

// insert adds `prefix` + `c` under the next free code and returns the new
// number of entries.
func (t *prefixTree) insert(prefix int, c byte) int {
	code := t.nextCode
	t.suffix[code] = c
	t.firstChild[code] = noCode
	t.nextSibling[code] = t.firstChild[prefix]
	t.firstChild[prefix] = int16(code)
	t.nextCode++
	return t.nextCode
}

// stringTable is the decoder's dictionary. Entries are stored as a prefix code
// plus a final byte, and expanded back to front.
type stringTable struct {
	prefix   [tableSize]int16
	suffix   [tableSize]byte
	first    [tableSize]byte
	length   [tableSize]int
	nextCode int
	scratch  [tableSize]byte
}

func newStringTable() *stringTable {
	table := &stringTable{}
	for i := 0; i < 256; i++ {
		table.prefix[i] = noCode
		table.suffix[i] = byte(i)
		table.first[i] = byte(i)
		table.length[i] = 1
	}
	table.nextCode = firstCode
	return table
}

func (t *stringTable) reset() {
	t.nextCode = firstCode
}

// add appends the string for `prefix` followed by `c`. Once the table is full
// it silently stops growing.
func (t *stringTable) add(prefix int, c byte) {
	if t.nextCode >= tableSize {
		return
	}
	code := t.nextCode
	t.prefix[code] = int16(prefix)
	t.suffix[code] = c
	t.first[code] = t.first[prefix]
	t.length[code] = t.length[prefix] + 1
	t.nextCode++
}

// expand returns the bytes for `code`. The slice is only valid until the next
// call.
func (t *stringTable) expand(code int) []byte {
	n := t.length[code]
	for i := n - 1; i >= 0; i-- {
		t.scratch[i] = t.suffix[code]
		code = int(t.prefix[code])
	}
	return t.scratch[:n]
}
