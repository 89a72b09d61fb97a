package heap

import (
	"github.com/joshuapare/heapkit/heap/freelist"
)

// Address is a data-start offset relative to the managed range.
type Address = freelist.Address

// NoAddress is returned by Allocate when the managed range is exhausted.
const NoAddress = freelist.NoAddress

// Encoding selects the block header layout.
type Encoding = freelist.Encoding

const (
	Implicit = freelist.Implicit
	Explicit = freelist.Explicit
)

// ParseEncoding maps "implicit" or "explicit" to an Encoding.
func ParseEncoding(s string) (Encoding, error) { return freelist.ParseEncoding(s) }

// Options configures a Heap. A nil *Options selects the defaults: the whole
// buffer, implicit headers, no logging and no dirty tracking.
type Options = freelist.Options

// Stats and Block are the inspection results of Stats and Layout.
type (
	Stats = freelist.Stats
	Block = freelist.Block
)

// Allocator is the allocation engine a Heap forwards to.
type Allocator interface {
	Buffer() []byte
	ByteOffset() int
	ByteLength() int
	Encoding() Encoding
	HeaderSize() int

	Allocate(n int) (Address, error)
	Free(addr Address) error
	Read(addr Address) ([]byte, error)
	Write(addr Address, p []byte) error
	Put(addr Address, v any) error

	Stats() (Stats, error)
	Layout() ([]Block, error)
	Verify() error
	Clear()
}

var _ Allocator = (*freelist.FreeList)(nil)

// Heap manages a fixed range of a caller-owned buffer.
type Heap struct {
	a Allocator
}

// New creates a Heap over buffer[ByteOffset:ByteOffset+ByteLength].
//
// It fails with ErrInsufficientCapacity when the range does not fit the
// buffer and with ErrAddressSpace when it is too large to address.
func New(buffer []byte, opts *Options) (*Heap, error) {
	fl, err := freelist.New(buffer, opts)
	if err != nil {
		return nil, err
	}
	return &Heap{a: fl}, nil
}

// Buffer returns the whole host buffer.
func (h *Heap) Buffer() []byte { return h.a.Buffer() }

// ByteOffset returns the start of the managed range inside Buffer().
func (h *Heap) ByteOffset() int { return h.a.ByteOffset() }

// ByteLength returns the size of the managed range.
func (h *Heap) ByteLength() int { return h.a.ByteLength() }

// Encoding returns the header encoding.
func (h *Heap) Encoding() Encoding { return h.a.Encoding() }

// HeaderSize returns the per-block header overhead in bytes.
func (h *Heap) HeaderSize() int { return h.a.HeaderSize() }

// Allocate returns the address of a zero-filled block with at least n data
// bytes, or NoAddress with a nil error when the range is exhausted.
func (h *Heap) Allocate(n int) (Address, error) { return h.a.Allocate(n) }

// Free releases the block at addr.
func (h *Heap) Free(addr Address) error { return h.a.Free(addr) }

// Read returns the data span of the block at addr. The slice aliases the
// buffer.
func (h *Heap) Read(addr Address) ([]byte, error) { return h.a.Read(addr) }

// Write copies p into the block at addr.
func (h *Heap) Write(addr Address, p []byte) error { return h.a.Write(addr, p) }

// Put writes a []byte, string or encoding.BinaryMarshaler into the block at
// addr.
func (h *Heap) Put(addr Address, v any) error { return h.a.Put(addr, v) }

// Stats summarises the block chain.
func (h *Heap) Stats() (Stats, error) { return h.a.Stats() }

// Layout lists every block in chain order.
func (h *Heap) Layout() ([]Block, error) { return h.a.Layout() }

// Verify walks the chain and reports the first inconsistency.
func (h *Heap) Verify() error { return h.a.Verify() }

// Clear zeroes the managed range, discarding every block.
func (h *Heap) Clear() { h.a.Clear() }
