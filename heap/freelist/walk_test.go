package freelist

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

func Test_Layout_ChainOrder(t *testing.T) {
	fl, _ := newTestList(t, 64, Implicit)
	a := mustAllocate(t, fl, 4)
	mustAllocate(t, fl, 6)
	require.NoError(t, fl.Free(a))

	blocks, err := fl.Layout()
	require.NoError(t, err)
	require.Equal(t, []Block{
		{Offset: 0, Address: 4, Size: 8, DataSize: 4, Used: false},
		{Offset: 8, Address: 12, Size: 10, DataSize: 6, Used: true},
	}, blocks)
}

func Test_Blocks_DoesNotMoveCursor(t *testing.T) {
	fl, _ := newTestList(t, 64, Implicit)
	mustAllocate(t, fl, 4)
	mustAllocate(t, fl, 4)
	require.NoError(t, fl.cursor.FindAddress(12))

	it := fl.Blocks()
	for {
		if _, err := it.Next(); errors.Is(err, io.EOF) {
			break
		}
	}
	require.Equal(t, 16, it.Offset())
	require.Equal(t, 8, fl.cursor.Offset())

	// Exhausted iterators stay exhausted.
	_, err := it.Next()
	require.ErrorIs(t, err, io.EOF)
}

func Test_Stats(t *testing.T) {
	fl, _ := newTestList(t, 100, Explicit)
	a := mustAllocate(t, fl, 10) // 22
	mustAllocate(t, fl, 4)       // 16
	c := mustAllocate(t, fl, 20) // 32
	require.NoError(t, fl.Free(a))
	require.NoError(t, fl.Free(c))

	s, err := fl.Stats()
	require.NoError(t, err)
	require.Equal(t, Stats{
		Blocks:      3,
		UsedBlocks:  1,
		FreeBlocks:  2,
		UsedBytes:   4,
		FreeBytes:   30,
		HeaderBytes: 36,
		LargestFree: 20,
		Tail:        70,
		Remaining:   30,
	}, s)
}

func Test_Stats_Empty(t *testing.T) {
	fl, _ := newTestList(t, 25, Implicit)
	s, err := fl.Stats()
	require.NoError(t, err)
	require.Equal(t, Stats{Remaining: 25}, s)
}

func Test_Verify_Corruption(t *testing.T) {
	tests := []struct {
		name  string
		setup func(mem []byte)
	}{
		{"size below header", func(mem []byte) {
			require.NoError(t, format.WriteHeader(mem, 0, 2, true))
		}},
		{"block past range end", func(mem []byte) {
			require.NoError(t, format.WriteHeader(mem, 0, 8, true))
			require.NoError(t, format.WriteHeader(mem, 8, 40, false))
		}},
		{"flagged virgin header", func(mem []byte) {
			require.NoError(t, format.WriteHeader(mem, 0, 0, true))
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fl, mem := newTestList(t, 32, Implicit)
			tc.setup(mem)
			require.ErrorIs(t, fl.Verify(), ErrCorrupt)
			_, err := fl.Stats()
			require.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func Test_Verify_FullRange(t *testing.T) {
	fl, _ := newTestList(t, 24, Implicit)
	for {
		addr, err := fl.Allocate(2)
		require.NoError(t, err)
		if addr == NoAddress {
			break
		}
	}
	require.NoError(t, fl.Verify())
	s, err := fl.Stats()
	require.NoError(t, err)
	require.Equal(t, 4, s.Blocks)
	require.Zero(t, s.Remaining)
}
