package dirty

// DirtyTracker is the minimal interface for tracking dirty (modified) byte ranges.
// Allocators report every header and data write through it; offsets are
// absolute within the host buffer, not relative to the managed range.
type DirtyTracker interface {
	// Add marks a byte range as dirty.
	Add(off, length int)
}

// Flusher persists or publishes a byte range of the host buffer.
// region.Region implements it with msync on unix.
type Flusher interface {
	FlushRange(off, length int) error
}
