package compression

import (
	"bufio"
	"bytes"
	"io"
)

// ByteRun represents a single run of a particular byte value.
type ByteRun struct {
	// Byte is the byte value for this run.
	Byte byte
	// RunLength gives the number of times the byte occurs in the run (not the
	// number of times it's repeated).
	//
	// A valid run will always have this be 1 or greater. A value less than 1
	// indicates either EOF was encountered, or an error occurred.
	RunLength int
}

// InvalidRLERun is returned alongside an error, including at end of input.
var InvalidRLERun = ByteRun{Byte: 0, RunLength: 0}

// RunLengthGrouper splits a byte stream into runs of identical bytes. The
// run-length encoders are built on top of it.
type RunLengthGrouper struct {
	rd        *bufio.Reader
	maxLength int
}

// NewRunLengthGrouper creates a grouper whose runs can be arbitrarily long.
func NewRunLengthGrouper(rd io.Reader) RunLengthGrouper {
	return RunLengthGrouper{rd: bufio.NewReader(rd)}
}

// NewLimitedRunLengthGrouper creates a grouper that ends a run once it reaches
// `maxLength` bytes, and starts a new one with the same byte.
func NewLimitedRunLengthGrouper(rd io.Reader, maxLength int) RunLengthGrouper {
	return RunLengthGrouper{rd: bufio.NewReader(rd), maxLength: maxLength}
}

// GetNextRun returns a [ByteRun] for the next byte or run of byte values in the
// stream.
func (grouper RunLengthGrouper) GetNextRun() (ByteRun, error) {
	firstByte, err := grouper.rd.ReadByte()
	// Bail if any error occurred, including EOF.
	if err != nil {
		return InvalidRLERun, err
	}

	var runLength int
	for runLength = 1; grouper.maxLength <= 0 || runLength < grouper.maxLength; runLength++ {
		currentByte, err := grouper.rd.ReadByte()
		if err != nil {
			if err == io.EOF {
				break
			}
			return InvalidRLERun, err
		}
		if currentByte != firstByte {
			// Hit a different byte, back up and return.
			grouper.rd.UnreadByte()
			break
		}
	}
	return ByteRun{Byte: firstByte, RunLength: runLength}, nil
}

// GroupRuns splits an in-memory buffer into runs.
func GroupRuns(data []byte, maxLength int) []ByteRun {
	grouper := NewLimitedRunLengthGrouper(bytes.NewReader(data), maxLength)
	var runs []ByteRun
	for {
		run, err := grouper.GetNextRun()
		if err != nil {
			// A bytes.Reader only ever fails with EOF.
			return runs
		}
		runs = append(runs, run)
	}
}
