package pixcodec

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

type CodecError interface {
	error
	WithMessage(message string) CodecError
	Wrap(err error) CodecError
}

type baseCodecError string

const rootError = baseCodecError("")

// ErrTruncated means the input ended before a complete symbol, run, or block
// could be read.
var ErrTruncated = rootError.WithMessage("Input truncated")

// ErrCorrupt means the input contained a structurally invalid value: a bad
// magic number, a code out of range, a checksum mismatch, and so on.
var ErrCorrupt = rootError.WithMessage("Input corrupted")

// ErrUnsupported is returned for operations a codec doesn't implement, such
// as compressing with a decode-only codec.
var ErrUnsupported = rootError.WithMessage("Operation not supported")

// ErrInvalidOptions means the caller passed the wrong options variant for a
// codec, or an inconsistent set of frame parameters.
var ErrInvalidOptions = rootError.WithMessage("Invalid options")

func (e baseCodecError) Error() string {
	return string(e)
}

func (e baseCodecError) WithMessage(message string) CodecError {
	return customCodecError{
		message:       message,
		originalError: e,
	}
}

func (e baseCodecError) Wrap(err error) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customCodecError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customCodecError) Error() string {
	return e.message
}

func (e customCodecError) WithMessage(message string) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customCodecError) Wrap(err error) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customCodecError) Unwrap() error {
	return e.originalError
}

// Errorf is shorthand for `base.WithMessage(fmt.Sprintf(format, args...))`.
func Errorf(base CodecError, format string, args ...interface{}) CodecError {
	return base.WithMessage(fmt.Sprintf(format, args...))
}
