package pixcodec

// Codec is the interface every compression scheme in this module implements.
//
// Implementations must never read past the end of `data`. Running off the end
// is reported with [ErrTruncated], structurally invalid input with
// [ErrCorrupt]. A failed call leaves no state behind that affects later calls.
type Codec interface {
	// Compress encodes `data`. Decode-only codecs return [ErrUnsupported].
	Compress(data []byte, opts Options) ([]byte, error)
	// Decompress decodes `data` and returns a newly allocated buffer.
	Decompress(data []byte, opts Options) ([]byte, error)
}

// RowCodec is implemented by codecs for which row boundaries are meaningful.
// [CompressRows] and [DecompressRows] prefer these methods when available.
type RowCodec interface {
	Codec
	CompressRows(rows [][]byte, opts Options) ([]byte, error)
	DecompressRows(rows [][]byte, opts Options) ([]byte, error)
}

// CompressRows compresses a row-major array of rows. Unless the codec
// implements [RowCodec], the rows are concatenated and passed to Compress.
func CompressRows(codec Codec, rows [][]byte, opts Options) ([]byte, error) {
	if rc, ok := codec.(RowCodec); ok {
		return rc.CompressRows(rows, opts)
	}
	return codec.Compress(ConcatRows(rows), opts)
}

// DecompressRows is the decoding counterpart of [CompressRows].
func DecompressRows(codec Codec, rows [][]byte, opts Options) ([]byte, error) {
	if rc, ok := codec.(RowCodec); ok {
		return rc.DecompressRows(rows, opts)
	}
	return codec.Decompress(ConcatRows(rows), opts)
}

// ConcatRows joins rows into one contiguous slice.
func ConcatRows(rows [][]byte) []byte {
	total := 0
	for _, row := range rows {
		total += len(row)
	}

	joined := make([]byte, 0, total)
	for _, row := range rows {
		joined = append(joined, row...)
	}
	return joined
}
