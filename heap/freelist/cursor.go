package freelist

import (
	"fmt"

	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// blockCursor walks the block chain of one managed range. It is the implicit
// encoding on its own and the shared core of the explicit one.
//
// NOT thread-safe.
type blockCursor struct {
	mem  []byte // managed range
	base int    // offset of mem inside the host buffer, for dirty ranges
	hdr  int
	off  int
	dt   dirty.DirtyTracker
}

func newBlockCursor(mem []byte, base, hdr int, dt dirty.DirtyTracker) *blockCursor {
	return &blockCursor{mem: mem, base: base, hdr: hdr, dt: dt}
}

func (c *blockCursor) HeaderSize() int { return c.hdr }

func (c *blockCursor) Offset() int { return c.off }

// Size reads the total size at the cursor. A header that does not fit in the
// managed range reads as virgin.
func (c *blockCursor) Size() int {
	total, _, ok := format.ReadHeader(c.mem, c.off)
	if !ok {
		return 0
	}
	return int(total)
}

func (c *blockCursor) Address() Address { return Address(c.off + c.hdr) }

func (c *blockCursor) DataSize() int {
	size := c.Size()
	if size == 0 {
		return 0
	}
	return size - c.hdr
}

func (c *blockCursor) Allocated() bool { return c.Size() > 0 }

func (c *blockCursor) Used() bool {
	_, used, _ := format.ReadHeader(c.mem, c.off)
	return used
}

// Allocate creates an in-use block of n data bytes at the cursor. n <= 0
// requests the default of two bytes.
//
// On a virgin header the data span is zero-filled and the header slot that
// follows the new block is cleared, so the chain always ends on a virgin
// header even when the host handed over a dirty buffer.
func (c *blockCursor) Allocate(n int) error {
	if c.Used() {
		return fmt.Errorf("allocate at %d: %w", c.off, ErrAlreadyInUse)
	}
	if n <= 0 {
		n = format.DefaultRequest
	}
	n = format.AlignEven(n)

	total := c.hdr + n
	if total > format.MaxBlockSize || !buf.Fits(len(c.mem), c.off, total) {
		return fmt.Errorf("allocate %d bytes at %d: %w", n, c.off, ErrOutOfMemory)
	}

	virgin := !c.Allocated()
	if err := format.WriteHeader(c.mem, c.off, uint32(total), true); err != nil {
		return err
	}
	clear(c.mem[c.off+c.hdr : c.off+total])
	c.mark(c.off, total)

	if virgin {
		next := c.off + total
		if buf.PutU32LE(c.mem, next, 0) {
			c.mark(next, format.SizeWordSize)
		}
	}
	return nil
}

func (c *blockCursor) Use() error {
	if c.Used() {
		return fmt.Errorf("use of block at %d: %w", c.off, ErrAlreadyInUse)
	}
	if !c.Allocated() {
		return fmt.Errorf("use of virgin header at %d: %w", c.off, ErrNotAllocated)
	}
	data, err := c.span()
	if err != nil {
		return err
	}
	if err := format.SetUsed(c.mem, c.off, true); err != nil {
		return err
	}
	clear(data)
	c.mark(c.off, c.Size())
	return nil
}

func (c *blockCursor) Free() error {
	if !c.Used() {
		return fmt.Errorf("free of block at %d: %w", c.off, ErrNotInUse)
	}
	if err := format.SetUsed(c.mem, c.off, false); err != nil {
		return err
	}
	c.mark(c.off, format.SizeWordSize)
	return nil
}

func (c *blockCursor) Next() error {
	size := c.Size()
	if size == 0 {
		return fmt.Errorf("advance from %d: %w", c.off, ErrEndOfList)
	}
	if !buf.Fits(len(c.mem), c.off, size) {
		return fmt.Errorf("advance from %d by %d: %w", c.off, size, ErrOutOfMemory)
	}
	c.off += size
	return nil
}

func (c *blockCursor) Reset() { c.off = 0 }

// FindAddress re-walks the chain from the head; addresses are never trusted
// without landing on them exactly.
func (c *blockCursor) FindAddress(addr Address) error {
	c.Reset()
	for c.Address() < addr && c.Allocated() {
		if err := c.Next(); err != nil {
			break
		}
	}
	if c.Address() != addr {
		return fmt.Errorf("address 0x%X: %w", addr, ErrInvalidAddress)
	}
	return nil
}

func (c *blockCursor) Data() ([]byte, error) {
	if !c.Used() {
		return nil, fmt.Errorf("data of block at %d: %w", c.off, ErrNotAllocated)
	}
	return c.span()
}

func (c *blockCursor) Write(p []byte) error {
	if !c.Used() {
		return fmt.Errorf("write to block at %d: %w", c.off, ErrNotAllocated)
	}
	if len(p) > c.DataSize() {
		return fmt.Errorf("write of %d bytes into %d: %w", len(p), c.DataSize(), ErrTooLarge)
	}
	data, err := c.span()
	if err != nil {
		return err
	}
	copy(data, p)
	c.mark(c.off+c.hdr, len(p))
	return nil
}

// span returns the data span of the current block. A size word describing a
// block past the range end means the chain is corrupt.
func (c *blockCursor) span() ([]byte, error) {
	size := c.Size()
	if size < c.hdr {
		return nil, fmt.Errorf("block at %d: size %d below header %d: %w", c.off, size, c.hdr, ErrCorrupt)
	}
	data, ok := buf.Slice(c.mem, c.off+c.hdr, size-c.hdr)
	if !ok {
		return nil, fmt.Errorf("block at %d: size %d runs past range end: %w", c.off, size, ErrCorrupt)
	}
	return data, nil
}

// mark reports a write of n bytes at off (relative to mem) to the tracker.
func (c *blockCursor) mark(off, n int) {
	if c.dt != nil {
		c.dt.Add(c.base+off, n)
	}
}

var _ Cursor = (*blockCursor)(nil)
