// Package heap is the entry point of heapkit: a dynamic memory manager that
// runs inside a fixed, caller-owned byte buffer.
//
// # Overview
//
// A Heap hands out addresses of zero-filled data spans carved from the
// managed range of the buffer, and takes them back on Free. It never resizes
// the buffer and never allocates Go memory per block; everything it knows
// lives in block headers inside the range itself, so a buffer can be handed
// to another Heap (or another process that maps the same file) and the chain
// is adopted as-is.
//
// The allocator behind a Heap is the first-fit free list of package
// heap/freelist. The Heap adds nothing to its semantics; it pins the
// buffer metadata and is the type other packages (region, wasmheap,
// cmd/heapctl) pass around.
//
// # Usage
//
//	h, err := heap.New(make([]byte, 4096), nil)
//	if err != nil {
//	    return err
//	}
//	addr, err := h.Allocate(64)
//	if err != nil {
//	    return err
//	}
//	if addr == heap.NoAddress {
//	    // buffer exhausted
//	}
//	if err := h.Write(addr, payload); err != nil {
//	    return err
//	}
//
// Addresses are offsets from the start of the managed range; add
// ByteOffset() to index Buffer() directly.
//
// # Thread Safety
//
// A Heap is NOT safe for concurrent use.
package heap
