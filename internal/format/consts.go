// Package format defines the in-buffer layout of heap blocks: header widths,
// the packed size word and its little-endian encoding. Higher-level packages
// walk and mutate blocks exclusively through these helpers so the byte layout
// lives in one place.
package format

const (
	// SizeWordSize is the width of the packed size word that starts every
	// block header, regardless of encoding.
	SizeWordSize = 4

	// ImplicitHeaderSize is the header width of the implicit encoding: the
	// size word only.
	ImplicitHeaderSize = SizeWordSize

	// ExplicitHeaderSize is the header width of the explicit encoding: the
	// size word followed by two reserved sibling-link words.
	ExplicitHeaderSize = SizeWordSize + 2*LinkSize

	// LinkSize is the width of one reserved sibling link in explicit headers.
	LinkSize = 4

	// ExplicitPrevLinkOffset is the offset of the previous-sibling link
	// relative to the block start.
	ExplicitPrevLinkOffset = SizeWordSize

	// ExplicitNextLinkOffset is the offset of the next-sibling link relative
	// to the block start.
	ExplicitNextLinkOffset = SizeWordSize + LinkSize

	// UsedFlag is the size-word bit marking a block as in use.
	UsedFlag = 1

	// SizeMask selects the total-size bits of a size word.
	SizeMask = ^uint32(UsedFlag)

	// DefaultRequest is the data size granted when a caller asks for zero
	// (or a negative number of) bytes.
	DefaultRequest = 2

	// MaxRangeSize is the largest managed range. Addresses and totals stay
	// within int32 so they convert losslessly on every platform.
	MaxRangeSize = 0x7FFFFFFF

	// MaxBlockSize is the largest (even) total size a block may have.
	MaxBlockSize = MaxRangeSize &^ UsedFlag
)
