package dirty

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingFlusher struct {
	got  []Range
	fail error
}

func (f *recordingFlusher) FlushRange(off, length int) error {
	if f.fail != nil {
		return f.fail
	}
	f.got = append(f.got, Range{Off: int64(off), Len: int64(length)})
	return nil
}

func Test_DirtyTracker_PageAlignment(t *testing.T) {
	tracker := NewTracker(4096)
	tracker.Add(100, 200)

	require.Equal(t, []Range{{Off: 0, Len: 4096}}, tracker.Ranges())
}

func Test_DirtyTracker_Coalesce(t *testing.T) {
	tests := []struct {
		name   string
		adds   [][2]int
		expect []Range
	}{
		{
			name:   "adjacent pages merge",
			adds:   [][2]int{{4096, 4096}, {8192, 4096}},
			expect: []Range{{Off: 4096, Len: 8192}},
		},
		{
			name:   "overlapping out of order",
			adds:   [][2]int{{9000, 10}, {4100, 5000}},
			expect: []Range{{Off: 4096, Len: 8192}},
		},
		{
			name:   "gap keeps ranges apart",
			adds:   [][2]int{{0, 4}, {3 * 4096, 4}},
			expect: []Range{{Off: 0, Len: 4096}, {Off: 3 * 4096, Len: 4096}},
		},
		{
			name:   "empty ranges ignored",
			adds:   [][2]int{{10, 0}, {20, -1}},
			expect: nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tracker := NewTracker(4096)
			for _, a := range tc.adds {
				tracker.Add(a[0], a[1])
			}
			require.Equal(t, tc.expect, tracker.Ranges())
		})
	}
}

func Test_DirtyTracker_FlushClears(t *testing.T) {
	tracker := NewTracker(64)
	tracker.Add(0, 4)
	tracker.Add(4, 10)
	tracker.Add(200, 2)

	f := &recordingFlusher{}
	require.NoError(t, tracker.Flush(context.Background(), f))
	require.Equal(t, []Range{{Off: 0, Len: 64}, {Off: 192, Len: 64}}, f.got)
	require.Zero(t, tracker.Len())

	// Nothing left to flush.
	f.got = nil
	require.NoError(t, tracker.Flush(context.Background(), f))
	require.Empty(t, f.got)
}

func Test_DirtyTracker_FlushKeepsRangesOnFailure(t *testing.T) {
	tracker := NewTracker(64)
	tracker.Add(0, 4)

	boom := errors.New("boom")
	require.ErrorIs(t, tracker.Flush(context.Background(), &recordingFlusher{fail: boom}), boom)
	require.Equal(t, 1, tracker.Len())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, tracker.Flush(ctx, &recordingFlusher{}), context.Canceled)
	require.Equal(t, 1, tracker.Len())
}

func Test_DirtyTracker_DefaultPageSize(t *testing.T) {
	tracker := NewTracker(0)
	tracker.Add(1, 1)
	ranges := tracker.Ranges()
	require.Len(t, ranges, 1)
	require.Zero(t, ranges[0].Off)
	require.Positive(t, ranges[0].Len)

	tracker.Reset()
	require.Nil(t, tracker.Ranges())
}
