package freelist

import (
	"log/slog"

	"github.com/joshuapare/heapkit/heap/dirty"
)

// Options configures a FreeList. A nil *Options means DefaultOptions().
type Options struct {
	// ByteOffset is where the managed range starts inside the buffer.
	// Default: 0
	ByteOffset int

	// ByteLength is the size of the managed range. Zero selects len(buffer),
	// so a non-zero ByteOffset needs an explicit ByteLength. An empty range
	// cannot be requested this way; pass an empty buffer instead.
	// Default: len(buffer)
	ByteLength int

	// Encoding selects the header layout.
	// Default: Implicit
	Encoding Encoding

	// Logger receives debug records for growth, reuse and exhaustion.
	// Default: discard
	Logger *slog.Logger

	// Tracker, when set, receives the absolute buffer range of every write.
	// Default: nil
	Tracker dirty.DirtyTracker
}

// DefaultOptions returns options managing the whole buffer with implicit headers.
func DefaultOptions() *Options {
	return &Options{Encoding: Implicit}
}
