package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a header.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrOddSize indicates a total size whose low bit would collide with the in-use flag.
	ErrOddSize = errors.New("format: odd block size")
)
