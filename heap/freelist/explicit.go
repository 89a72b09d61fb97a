package freelist

import (
	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/internal/format"
)

// explicitCursor is the explicit encoding: the same size word as the implicit
// encoding followed by previous/next sibling links. The allocator never
// follows the links; they are zeroed when a block is created so a later
// free-list threading starts from a known state.
type explicitCursor struct {
	*blockCursor
}

func newExplicitCursor(mem []byte, base int, dt dirty.DirtyTracker) *explicitCursor {
	return &explicitCursor{blockCursor: newBlockCursor(mem, base, format.ExplicitHeaderSize, dt)}
}

func (c *explicitCursor) Allocate(n int) error {
	if err := c.blockCursor.Allocate(n); err != nil {
		return err
	}
	// The header fits: Allocate validated off+hdr+n against the range.
	return format.ClearLinks(c.mem, c.off)
}

// Links returns the reserved sibling links of the current block.
func (c *explicitCursor) Links() (prev, next uint32) {
	if !c.Allocated() {
		return 0, 0
	}
	return format.ReadLink(c.mem, c.off+format.ExplicitPrevLinkOffset),
		format.ReadLink(c.mem, c.off+format.ExplicitNextLinkOffset)
}

var _ Cursor = (*explicitCursor)(nil)

// newCursor builds the cursor for an encoding over the managed range mem,
// which starts at base inside the host buffer.
func newCursor(enc Encoding, mem []byte, base int, dt dirty.DirtyTracker) Cursor {
	if enc == Explicit {
		return newExplicitCursor(mem, base, dt)
	}
	return newBlockCursor(mem, base, format.ImplicitHeaderSize, dt)
}
