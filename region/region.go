package region

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/internal/logger"
)

var (
	// ErrClosed indicates use of a region after Close.
	ErrClosed = errors.New("region: closed")

	// ErrSize indicates a non-positive or unaddressable region size.
	ErrSize = errors.New("region: invalid size")
)

// Region is a fixed-size byte buffer owned by the OS rather than the Go heap.
//
// NOT thread-safe.
type Region struct {
	data     []byte
	f        *os.File // nil for anonymous regions
	path     string
	fullSync bool
	log      *slog.Logger
}

// Options configures a Region.
type Options struct {
	// Logger receives open/flush/close records.
	// Default: discard
	Logger *slog.Logger

	// FullSync requests F_FULLFSYNC instead of fsync on darwin.
	// Default: false
	FullSync bool
}

// Bytes returns the mapped memory. It is nil after Close.
func (r *Region) Bytes() []byte { return r.data }

// Len returns the region size in bytes.
func (r *Region) Len() int { return len(r.data) }

// FullSync reports whether Flush syncs with F_FULLFSYNC on darwin.
func (r *Region) FullSync() bool { return r.fullSync }

// Path returns the backing file path, or "" for an anonymous region.
func (r *Region) Path() string { return r.path }

// Flush writes every range recorded by t back to the backing file and
// syncs the file. Anonymous regions only drain the tracker.
func (r *Region) Flush(ctx context.Context, t *dirty.Tracker) error {
	if r.data == nil {
		return ErrClosed
	}
	n := t.Len()
	if err := t.Flush(ctx, r); err != nil {
		return fmt.Errorf("region: flush %s: %w", r.describe(), err)
	}
	if err := r.sync(); err != nil {
		return fmt.Errorf("region: sync %s: %w", r.describe(), err)
	}
	r.log.Debug("flushed region", slog.Int("ranges", n))
	return nil
}

// clamp limits [off, off+length) to the region. Page-aligned ranges from a
// tracker can run past the last page.
func (r *Region) clamp(off, length int) (int, int, bool) {
	if off < 0 || length <= 0 || off >= len(r.data) {
		return 0, 0, false
	}
	end := off + length
	if end > len(r.data) || end < off {
		end = len(r.data)
	}
	return off, end, true
}

func (r *Region) describe() string {
	if r.path == "" {
		return "anonymous"
	}
	return r.path
}

func newLogger(opts *Options, path string, size int) *slog.Logger {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	if path == "" {
		path = "anonymous"
	}
	return log.With(logger.Module("region"), slog.String("path", path), logger.Size(size))
}

var _ dirty.Flusher = (*Region)(nil)
