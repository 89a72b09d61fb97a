package freelist

import "errors"

var (
	// ErrInsufficientCapacity indicates ByteOffset+ByteLength exceeds the buffer.
	ErrInsufficientCapacity = errors.New("freelist: insufficient capacity")

	// ErrAddressSpace indicates a managed range too large for 32-bit addresses.
	ErrAddressSpace = errors.New("freelist: managed range exceeds 32-bit address space")

	// ErrAlreadyInUse indicates an allocate or use of a block that is already in use.
	ErrAlreadyInUse = errors.New("freelist: block already in use")

	// ErrOutOfMemory indicates growth (or an advance) past the managed range.
	ErrOutOfMemory = errors.New("freelist: out of memory")

	// ErrEndOfList indicates an advance from the virgin tail of the chain.
	ErrEndOfList = errors.New("freelist: end of block list")

	// ErrNotInUse indicates a free of a block that is not in use.
	ErrNotInUse = errors.New("freelist: block not in use")

	// ErrInvalidAddress indicates an address that is not the data start of any block.
	ErrInvalidAddress = errors.New("freelist: invalid address")

	// ErrNotAllocated indicates data access on a block that is not in use.
	ErrNotAllocated = errors.New("freelist: block not allocated")

	// ErrTypeMismatch indicates a write source that is not a byte sequence.
	ErrTypeMismatch = errors.New("freelist: source is not a byte sequence")

	// ErrTooLarge indicates a write source longer than the block's data span.
	ErrTooLarge = errors.New("freelist: source larger than block")

	// ErrCorrupt indicates a chain that lands mid-block or runs past the managed range.
	ErrCorrupt = errors.New("freelist: corrupt block chain")
)
