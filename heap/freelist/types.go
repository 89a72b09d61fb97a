package freelist

import (
	"fmt"
	"strings"

	"github.com/joshuapare/heapkit/internal/format"
)

// Address is the data-start offset of a block, relative to the start of the
// managed range. It is the only handle callers hold.
type Address = uint32

// NoAddress is returned by Allocate when the managed range is exhausted.
// No block can start its data at offset 0 because every block has a header.
const NoAddress Address = 0

// Encoding selects the header layout of a free list.
type Encoding uint8

const (
	// Implicit headers carry the size word only.
	Implicit Encoding = iota

	// Explicit headers carry the size word plus two reserved sibling links.
	Explicit
)

// HeaderSize returns the header width in bytes.
func (e Encoding) HeaderSize() int {
	if e == Explicit {
		return format.ExplicitHeaderSize
	}
	return format.ImplicitHeaderSize
}

func (e Encoding) String() string {
	switch e {
	case Implicit:
		return "implicit"
	case Explicit:
		return "explicit"
	default:
		return fmt.Sprintf("Encoding(%d)", uint8(e))
	}
}

// ParseEncoding maps "implicit" or "explicit" (case-insensitive) to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "implicit":
		return Implicit, nil
	case "explicit":
		return Explicit, nil
	default:
		return 0, fmt.Errorf("freelist: unknown encoding %q", s)
	}
}

// Cursor is the block-level capability the allocator is built on: a mutable
// position in the managed range that names "the block under examination".
//
// Implementations:
//   - blockCursor: implicit encoding, 4-byte header
//   - explicitCursor: explicit encoding, 12-byte header with reserved links
type Cursor interface {
	// HeaderSize is the fixed header width of the encoding.
	HeaderSize() int

	// Offset is the header position of the current block.
	Offset() int

	// Size is the decoded total size, 0 for a virgin header.
	Size() int

	// Address is Offset()+HeaderSize().
	Address() Address

	// DataSize is Size()-HeaderSize(), 0 for a virgin header.
	DataSize() int

	// Allocated reports whether the current header describes a block.
	Allocated() bool

	// Used reports the in-use flag of the current header.
	Used() bool

	// Allocate writes a new in-use header for an n-byte (rounded up to even)
	// data span at the current offset.
	Allocate(n int) error

	// Use marks an existing free block in use and zero-fills its data.
	Use() error

	// Free clears the in-use flag. The size is untouched.
	Free() error

	// Next advances to the following block.
	Next() error

	// Reset moves back to the chain head.
	Reset()

	// FindAddress walks from the head to the block whose data starts at addr.
	FindAddress(addr Address) error

	// Data returns the data span of the current block, aliasing the buffer.
	Data() ([]byte, error)

	// Write copies p to the start of the current block's data span.
	Write(p []byte) error
}

// Block describes one block of the chain.
type Block struct {
	Offset   int     `json:"offset" yaml:"offset" cbor:"offset"`
	Address  Address `json:"address" yaml:"address" cbor:"address"`
	Size     int     `json:"size" yaml:"size" cbor:"size"`
	DataSize int     `json:"data_size" yaml:"data_size" cbor:"data_size"`
	Used     bool    `json:"used" yaml:"used" cbor:"used"`
}

// Stats summarises the chain.
type Stats struct {
	Blocks      int `json:"blocks" yaml:"blocks" cbor:"blocks"`
	UsedBlocks  int `json:"used_blocks" yaml:"used_blocks" cbor:"used_blocks"`
	FreeBlocks  int `json:"free_blocks" yaml:"free_blocks" cbor:"free_blocks"`
	UsedBytes   int `json:"used_bytes" yaml:"used_bytes" cbor:"used_bytes"`       // data bytes in used blocks
	FreeBytes   int `json:"free_bytes" yaml:"free_bytes" cbor:"free_bytes"`       // data bytes in free blocks
	HeaderBytes int `json:"header_bytes" yaml:"header_bytes" cbor:"header_bytes"` // bytes spent on headers
	LargestFree int `json:"largest_free" yaml:"largest_free" cbor:"largest_free"` // largest free data span
	Tail        int `json:"tail" yaml:"tail" cbor:"tail"`                         // offset of the virgin tail
	Remaining   int `json:"remaining" yaml:"remaining" cbor:"remaining"`          // bytes past the tail
}
