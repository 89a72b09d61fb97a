//go:build !linux && !darwin && !freebsd

package region

import (
	"fmt"
	"io"
	"os"
)

// New allocates size zeroed bytes on the Go heap.
func New(size int, opts *Options) (*Region, error) {
	if opts == nil {
		opts = &Options{}
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrSize, size)
	}
	return &Region{data: make([]byte, size), log: newLogger(opts, "", size)}, nil
}

// Map loads path into memory, creating it when missing and growing it with
// zeros to size bytes when shorter. Changes reach the file on Flush.
func Map(path string, size int, opts *Options) (*Region, error) {
	if opts == nil {
		opts = &Options{}
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: %d", ErrSize, size)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	cur := st.Size()
	if size == 0 {
		size = int(cur)
	}
	if size == 0 {
		f.Close()
		return nil, fmt.Errorf("%w: empty file %s", ErrSize, path)
	}
	if cur < int64(size) {
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, fmt.Errorf("region: grow %s to %d bytes: %w", path, size, err)
		}
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		f.Close()
		return nil, err
	}
	return &Region{data: data, f: f, path: path, fullSync: opts.FullSync, log: newLogger(opts, path, size)}, nil
}

// FlushRange writes [off, off+length) back to the file.
func (r *Region) FlushRange(off, length int) error {
	if r.data == nil {
		return ErrClosed
	}
	if r.f == nil {
		return nil
	}
	start, end, ok := r.clamp(off, length)
	if !ok {
		return nil
	}
	_, err := r.f.WriteAt(r.data[start:end], int64(start))
	return err
}

func (r *Region) sync() error {
	if r.f == nil {
		return nil
	}
	return r.f.Sync()
}

// Close releases the buffer and closes the backing file. Unflushed changes
// are lost.
func (r *Region) Close() error {
	r.data = nil
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}
