// Package freelist provides a first-fit block allocator over a fixed byte
// range owned by the caller, such as the linear memory of a virtual machine.
//
// # Overview
//
// The managed range is carved into blocks. Each block starts with a header
// whose first word packs the block's total size and an in-use flag; the data
// span follows the header. Blocks are chained implicitly: the next block
// starts where the previous one ends, and a zero size word marks the end of
// the chain.
//
// # Header Layout
//
// The size word is a little-endian uint32. Bits 31..1 hold the total size
// (header + data), bit 0 the in-use flag. Totals are always even because data
// sizes are rounded up to an even number.
//
// Two encodings share that word:
//
//	Implicit:  [size|u]                       4-byte header
//	Explicit:  [size|u][prev link][next link] 12-byte header
//
// The explicit links are reserved: they are zeroed when a block is created
// and never followed by the allocator.
//
// # Addresses
//
// An Address is the offset of a block's data span relative to the start of
// the managed range. NoAddress (0) is never a valid data start and is the
// "nothing allocated" result of Allocate. Addresses are validated by walking
// the chain from its head until one lands exactly on the requested address.
//
// # Usage Example
//
//	fl, err := freelist.New(buffer, nil)
//	if err != nil {
//	    return err
//	}
//
//	addr, err := fl.Allocate(16)
//	if err != nil {
//	    return err
//	}
//	if addr == freelist.NoAddress {
//	    // managed range exhausted
//	}
//
//	_ = fl.Write(addr, []byte("hello"))
//	data, _ := fl.Read(addr) // 16 bytes, "hello" + zeros
//
//	_ = fl.Free(addr)
//
// # Allocation Strategy
//
//   - First-fit in creation order: the earliest free block whose data span is
//     large enough wins, even if much larger than requested
//   - No splitting of oversized blocks, no coalescing of neighbours
//   - Without a fit the chain grows at its tail; when the range is full,
//     Allocate returns NoAddress with a nil error
//
// # Thread Safety
//
// FreeList instances are not thread-safe. Callers must have exclusive access
// to the buffer for the allocator's lifetime.
package freelist
