// Package dirty tracks which byte ranges of a host buffer an allocator has
// modified, so hosts that share the buffer with someone else (a mapped file,
// a VM snapshotter) only publish what changed.
//
// # Usage
//
//	tracker := dirty.NewTracker(0)
//	fl, err := freelist.New(buffer, &freelist.Options{Tracker: tracker})
//	...
//	addr, _ := fl.Allocate(64)
//	_ = fl.Write(addr, payload)
//
//	// Publish the touched pages.
//	err = tracker.Flush(ctx, region)
//
// # Page-Level Granularity
//
// Ranges are recorded as given and coalesced lazily at flush time:
//   - Starts round down and ends round up to the tracker's page size
//   - Overlapping and adjacent pages merge into one range
//   - A 1-byte change marks the whole page dirty
//
// # Thread Safety
//
// Tracker is not thread-safe, matching the single-threaded allocator.
package dirty
