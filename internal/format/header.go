package format

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
)

// Block header layout (little-endian, offsets relative to the block start):
//
//	Offset  Size  Description
//	0x00    4     Size word. Bits 31..1: total block size (header + data),
//	              always even. Bit 0: in-use flag.
//	0x04    4     Explicit encoding only: previous sibling link (reserved).
//	0x08    4     Explicit encoding only: next sibling link (reserved).
//	hdr     ...   Data span, DataSize = total - header width.
//
// A size word of zero marks a virgin header: the end of the block chain.

// EncodeHeader packs a total size and in-use flag into a size word. total must
// already be even; the codec does not round.
func EncodeHeader(total uint32, used bool) uint32 {
	if used {
		return total | UsedFlag
	}
	return total & SizeMask
}

// DecodeHeader unpacks a size word.
func DecodeHeader(word uint32) (total uint32, used bool) {
	return word & SizeMask, word&UsedFlag != 0
}

// ReadHeader decodes the size word at off. ok is false when the word does not
// fit inside b; callers treat such a position as a virgin header.
func ReadHeader(b []byte, off int) (total uint32, used bool, ok bool) {
	word, ok := buf.U32LE(b, off)
	if !ok {
		return 0, false, false
	}
	total, used = DecodeHeader(word)
	return total, used, true
}

// WriteHeader encodes total and used into the size word at off.
func WriteHeader(b []byte, off int, total uint32, used bool) error {
	if total&UsedFlag != 0 {
		return fmt.Errorf("header at %d: %w (%d)", off, ErrOddSize, total)
	}
	if !buf.PutU32LE(b, off, EncodeHeader(total, used)) {
		return fmt.Errorf("header at %d: %w", off, ErrTruncated)
	}
	return nil
}

// SetUsed flips only the in-use flag of the size word at off.
func SetUsed(b []byte, off int, used bool) error {
	word, ok := buf.U32LE(b, off)
	if !ok {
		return fmt.Errorf("header at %d: %w", off, ErrTruncated)
	}
	total, _ := DecodeHeader(word)
	buf.PutU32LE(b, off, EncodeHeader(total, used))
	return nil
}

// ReadLink reads a reserved sibling link word at off.
func ReadLink(b []byte, off int) uint32 {
	v, _ := buf.U32LE(b, off)
	return v
}

// ClearLinks zeroes both reserved link words of the explicit header at off.
func ClearLinks(b []byte, off int) error {
	if !buf.Fits(len(b), off, ExplicitHeaderSize) {
		return fmt.Errorf("links at %d: %w", off, ErrTruncated)
	}
	buf.PutU32LE(b, off+ExplicitPrevLinkOffset, 0)
	buf.PutU32LE(b, off+ExplicitNextLinkOffset, 0)
	return nil
}
