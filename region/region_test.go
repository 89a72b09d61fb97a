package region

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/dirty"
)

func TestNew_Anonymous(t *testing.T) {
	r, err := New(8192, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	require.Equal(t, 8192, r.Len())
	require.Empty(t, r.Path())
	for _, b := range r.Bytes() {
		require.Zero(t, b)
	}

	// Anonymous regions have nothing to write back.
	require.NoError(t, r.FlushRange(0, 4096))
	require.NoError(t, r.Flush(context.Background(), dirty.NewTracker(0)))
}

func TestNew_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := New(size, nil)
		require.ErrorIs(t, err, ErrSize)
	}
}

func TestMap_CreatesAndGrowsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heap.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))

	r, err := Map(path, 4096, nil)
	require.NoError(t, err)
	require.Equal(t, 4096, r.Len())
	require.Equal(t, []byte{1, 2, 3, 0}, r.Bytes()[:4])
	require.NoError(t, r.Close())

	st, err := os.Stat(path)
	require.NoError(t, err)
	require.EqualValues(t, 4096, st.Size())
}

func TestMap_FullSync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heap.bin")
	r, err := Map(path, 4096, &Options{FullSync: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	require.True(t, r.FullSync())

	tr := dirty.NewTracker(0)
	r.Bytes()[10] = 0x7F
	tr.Add(10, 1)
	require.NoError(t, r.Flush(context.Background(), tr))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.EqualValues(t, 0x7F, data[10])

	anon, err := New(4096, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = anon.Close() })
	require.False(t, anon.FullSync())
}

func TestMap_ZeroSizeUsesFileLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heap.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 100), 0o644))

	r, err := Map(path, 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	require.Equal(t, 100, r.Len())

	_, err = Map(filepath.Join(t.TempDir(), "empty.bin"), 0, nil)
	require.ErrorIs(t, err, ErrSize)
}

func TestMap_HeapSurvivesRemap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heap.bin")
	ctx := context.Background()

	r, err := Map(path, 4096, nil)
	require.NoError(t, err)

	tracker := dirty.NewTracker(0)
	h, err := heap.New(r.Bytes(), &heap.Options{Tracker: tracker})
	require.NoError(t, err)

	addr, err := h.Allocate(5)
	require.NoError(t, err)
	require.NoError(t, h.Put(addr, "hello"))
	require.NotZero(t, tracker.Len())

	require.NoError(t, r.Flush(ctx, tracker))
	require.Zero(t, tracker.Len())
	require.NoError(t, r.Close())

	r, err = Map(path, 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	h, err = heap.New(r.Bytes(), nil)
	require.NoError(t, err)
	data, err := h.Read(addr)
	require.NoError(t, err)
	require.Equal(t, []byte("hello\x00"), data)
}

func TestFlushRange_ClampsToRegion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heap.bin")
	r, err := Map(path, 100, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	r.Bytes()[99] = 7
	require.NoError(t, r.FlushRange(0, 1<<20))
	require.NoError(t, r.FlushRange(200, 10))
	require.NoError(t, r.FlushRange(0, 0))
}

func TestFlush_CancelledKeepsRanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heap.bin")
	r, err := Map(path, 4096, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	tracker := dirty.NewTracker(0)
	tracker.Add(0, 16)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, r.Flush(ctx, tracker), context.Canceled)
	require.Equal(t, 1, tracker.Len())
}

func TestClose_Twice(t *testing.T) {
	r, err := New(4096, nil)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	require.Nil(t, r.Bytes())
	require.ErrorIs(t, r.FlushRange(0, 1), ErrClosed)
	require.ErrorIs(t, r.Flush(context.Background(), dirty.NewTracker(0)), ErrClosed)
}
