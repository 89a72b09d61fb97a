package freelist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/internal/format"
)

// newTestList creates a free list over a fresh zeroed buffer of size bytes.
func newTestList(t testing.TB, size int, enc Encoding) (*FreeList, []byte) {
	t.Helper()
	buffer := make([]byte, size)
	fl, err := New(buffer, &Options{Encoding: enc})
	require.NoError(t, err)
	return fl, buffer
}

// mustAllocate allocates n bytes and fails the test on error or exhaustion.
func mustAllocate(t testing.TB, fl *FreeList, n int) Address {
	t.Helper()
	addr, err := fl.Allocate(n)
	require.NoError(t, err)
	require.NotEqual(t, NoAddress, addr, "allocation of %d bytes unexpectedly exhausted the range", n)
	return addr
}

// headerAt decodes the size word at off of the managed range.
func headerAt(t testing.TB, mem []byte, off int) (int, bool) {
	t.Helper()
	total, used, ok := format.ReadHeader(mem, off)
	require.True(t, ok, "header at %d outside buffer", off)
	return int(total), used
}

// recordingTracker keeps every dirty range in arrival order.
type recordingTracker struct {
	ranges []dirty.Range
}

func (r *recordingTracker) Add(off, length int) {
	r.ranges = append(r.ranges, dirty.Range{Off: int64(off), Len: int64(length)})
}

// countingCursor proves the allocator works through the Cursor interface only.
type countingCursor struct {
	Cursor
	nexts int
	finds int
}

func (c *countingCursor) Next() error {
	c.nexts++
	return c.Cursor.Next()
}

func (c *countingCursor) FindAddress(addr Address) error {
	c.finds++
	c.Reset()
	for c.Address() < addr && c.Allocated() {
		if err := c.Next(); err != nil {
			break
		}
	}
	if c.Address() != addr {
		return ErrInvalidAddress
	}
	return nil
}

type marshaler struct {
	payload []byte
	err     error
}

func (m marshaler) MarshalBinary() ([]byte, error) { return m.payload, m.err }
