//go:build linux || darwin || freebsd

package region

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// New maps size bytes of anonymous, zero-filled, private memory.
func New(size int, opts *Options) (*Region, error) {
	if opts == nil {
		opts = &Options{}
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrSize, size)
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("region: anonymous mmap of %d bytes: %w", size, err)
	}
	r := &Region{data: data, log: newLogger(opts, "", size)}
	r.log.Debug("mapped region")
	return r, nil
}

// Map maps path read-write and shared. The file is created when missing and
// grown with zeros to size bytes when shorter; a size of 0 maps the file at
// its current length.
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
		_ = f.Close()
		return nil, err
	}

	cur := st.Size()
	if cur > int64(^uint(0)>>1) {
		_ = f.Close()
		return nil, fmt.Errorf("%w: file %s is %d bytes", ErrSize, path, cur)
	}
	if size == 0 {
		size = int(cur)
	}
	if size == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("%w: empty file %s", ErrSize, path)
	}
	if cur < int64(size) {
		if err := f.Truncate(int64(size)); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("region: grow %s to %d bytes: %w", path, size, err)
		}
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("region: mmap %s: %w", path, err)
	}

	r := &Region{
		data:     data,
		f:        f,
		path:     path,
		fullSync: opts.FullSync,
		log:      newLogger(opts, path, size),
	}
	r.log.Debug("mapped region")
	return r, nil
}

// FlushRange msyncs the pages covering [off, off+length). It is a no-op for
// anonymous regions.
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
	return msyncRange(r.data, start, end)
}

func (r *Region) sync() error {
	if r.f == nil {
		return nil
	}
	return fdatasync(int(r.f.Fd()), r.fullSync)
}

// Close unmaps the region and closes the backing file. Closing twice is a
// no-op.
func (r *Region) Close() error {
	var errs []error
	if r.data != nil {
		if err := unix.Munmap(r.data); err != nil && !errors.Is(err, unix.EINVAL) {
			errs = append(errs, fmt.Errorf("region: munmap: %w", err))
		}
		r.data = nil
	}
	if r.f != nil {
		if err := r.f.Close(); err != nil {
			errs = append(errs, err)
		}
		r.f = nil
	}
	r.log.Debug("closed region")
	return errors.Join(errs...)
}
