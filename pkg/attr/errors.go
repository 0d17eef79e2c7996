package attr

import "errors"

// Sentinel errors. Codecs wrap them with %w so callers classify failures with errors.Is.
var (
	// Dispatch errors
	ErrUnsupportedType = errors.New("attr: unsupported attribute type")

	// Input shape errors
	ErrInvalidType     = errors.New("attr: invalid value type")
	ErrValueTooLong    = errors.New("attr: value too long")
	ErrInvalidEncoding = errors.New("attr: invalid encoding")

	// Address errors
	ErrInvalidAddress = errors.New("attr: invalid address")
	ErrInvalidPrefix  = errors.New("attr: invalid prefix")

	// Wire errors
	ErrMalformedInput = errors.New("attr: malformed input")
)
