package heap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/dirty"
)

func TestNew_Metadata(t *testing.T) {
	buffer := make([]byte, 64)
	h, err := New(buffer, &Options{ByteOffset: 8, ByteLength: 40, Encoding: Explicit})
	require.NoError(t, err)

	assert.Len(t, h.Buffer(), 64)
	assert.Equal(t, 8, h.ByteOffset())
	assert.Equal(t, 40, h.ByteLength())
	assert.Equal(t, Explicit, h.Encoding())
	assert.Equal(t, 12, h.HeaderSize())
}

func TestNew_Defaults(t *testing.T) {
	h, err := New(make([]byte, 25), nil)
	require.NoError(t, err)
	assert.Zero(t, h.ByteOffset())
	assert.Equal(t, 25, h.ByteLength())
	assert.Equal(t, Implicit, h.Encoding())
}

func TestNew_InsufficientCapacity(t *testing.T) {
	_, err := New(make([]byte, 16), &Options{ByteOffset: 8, ByteLength: 9})
	require.ErrorIs(t, err, ErrInsufficientCapacity)
}

func TestHeap_Scenario(t *testing.T) {
	h, err := New(make([]byte, 25), nil)
	require.NoError(t, err)

	for _, tc := range []struct {
		n    int
		want Address
	}{
		{4, 4},
		{6, 12},
		{2, 22},
		{18, NoAddress},
	} {
		got, err := h.Allocate(tc.n)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "Allocate(%d)", tc.n)
	}

	require.NoError(t, h.Free(4))
	got, err := h.Allocate(4)
	require.NoError(t, err)
	require.Equal(t, Address(4), got)
}

func TestHeap_ReadWritePut(t *testing.T) {
	h, err := New(make([]byte, 64), nil)
	require.NoError(t, err)

	addr, err := h.Allocate(8)
	require.NoError(t, err)

	require.NoError(t, h.Write(addr, []byte("abc")))
	require.NoError(t, h.Put(addr, "xy"))
	data, err := h.Read(addr)
	require.NoError(t, err)
	require.Equal(t, []byte("xyc\x00\x00\x00\x00\x00"), data)

	require.ErrorIs(t, h.Put(addr, 42), ErrTypeMismatch)
	require.ErrorIs(t, h.Write(addr, make([]byte, 9)), ErrTooLarge)

	require.NoError(t, h.Free(addr))
	_, err = h.Read(addr)
	require.ErrorIs(t, err, ErrNotAllocated)
	require.ErrorIs(t, h.Free(addr), ErrNotInUse)
	require.ErrorIs(t, h.Free(addr+2), ErrInvalidAddress)
}

func TestHeap_AddressesAreRangeRelative(t *testing.T) {
	buffer := make([]byte, 48)
	h, err := New(buffer, &Options{ByteOffset: 16, ByteLength: 32})
	require.NoError(t, err)

	addr, err := h.Allocate(4)
	require.NoError(t, err)
	require.Equal(t, Address(4), addr)

	require.NoError(t, h.Write(addr, []byte{0xAA, 0xBB}))
	at := h.ByteOffset() + int(addr)
	require.Equal(t, []byte{0xAA, 0xBB}, buffer[at:at+2])
}

func TestHeap_InspectAndClear(t *testing.T) {
	tracker := dirty.NewTracker(16)
	h, err := New(make([]byte, 64), &Options{Tracker: tracker})
	require.NoError(t, err)

	mustAlloc := func(n int) Address {
		addr, err := h.Allocate(n)
		require.NoError(t, err)
		return addr
	}
	mustAlloc(4)
	b := mustAlloc(10)
	require.NoError(t, h.Free(b))

	blocks, err := h.Layout()
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	require.False(t, blocks[1].Used)

	s, err := h.Stats()
	require.NoError(t, err)
	require.Equal(t, 1, s.UsedBlocks)
	require.Equal(t, 10, s.LargestFree)
	require.NoError(t, h.Verify())
	require.NotZero(t, tracker.Len())

	h.Clear()
	s, err = h.Stats()
	require.NoError(t, err)
	require.Zero(t, s.Blocks)
	require.Equal(t, 64, s.Remaining)
}

func TestHeap_CorruptChain(t *testing.T) {
	buffer := make([]byte, 32)
	h, err := New(buffer, nil)
	require.NoError(t, err)
	buffer[0] = 0x40 // size 64 in a 32-byte range

	err = h.Verify()
	require.True(t, errors.Is(err, ErrCorrupt), "got %v", err)
}
