package dirty

import (
	"context"
	"os"
	"sort"
)

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
	defaultRangeCapacity = 64
)

// Range is a dirty byte range (absolute buffer offsets).
type Range struct {
	Off int64
	Len int64
}

// End returns the first offset past the range.
func (r Range) End() int64 { return r.Off + r.Len }

// Tracker accumulates dirty ranges and flushes them page by page.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	ranges   []Range
	pageSize int64
}

// NewTracker creates a tracker coalescing at pageSize boundaries. A pageSize
// <= 0 selects the OS page size.
func NewTracker(pageSize int) *Tracker {
	if pageSize <= 0 {
		pageSize = os.Getpagesize()
	}
	return &Tracker{
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: int64(pageSize),
	}
}

// Add records a dirty range. Empty ranges are ignored.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	t.ranges = append(t.ranges, Range{
		Off: int64(off),
		Len: int64(length),
	})
}

// Len returns the number of raw, uncoalesced ranges.
func (t *Tracker) Len() int { return len(t.ranges) }

// Ranges returns the coalesced dirty ranges: page-aligned, sorted and merged.
func (t *Tracker) Ranges() []Range {
	return t.coalesce()
}

// Flush hands every coalesced range to f and clears the tracker.
//
// The context is checked between ranges. On cancellation or error the
// tracker keeps its ranges so the caller can retry.
func (t *Tracker) Flush(ctx context.Context, f Flusher) error {
	if len(t.ranges) == 0 {
		return nil
	}
	for _, r := range t.coalesce() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.FlushRange(int(r.Off), int(r.Len)); err != nil {
			return err
		}
	}
	t.ranges = t.ranges[:0]
	return nil
}

// Reset clears all tracked ranges.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// coalesce page-aligns all ranges, sorts them, and merges overlapping/adjacent ranges.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize
		end := r.End()
		if end%t.pageSize != 0 {
			end = ((end / t.pageSize) + 1) * t.pageSize
		}
		aligned[i] = Range{Off: start, Len: end - start}
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]
	for _, next := range aligned[1:] {
		if next.Off <= current.End() {
			current.Len = max(current.End(), next.End()) - current.Off
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}
