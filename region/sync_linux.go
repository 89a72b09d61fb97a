//go:build linux || freebsd

package region

import (
	"os"

	"golang.org/x/sys/unix"
)

// msyncRange syncs only the pages of [start, end). msync needs a
// page-aligned address, so start is rounded down.
func msyncRange(data []byte, start, end int) error {
	page := os.Getpagesize()
	start -= start % page
	return unix.Msync(data[start:end], unix.MS_SYNC)
}

// fdatasync ignores fullSync; fdatasync is durable enough on these kernels.
func fdatasync(fd int, _ bool) error {
	return unix.Fdatasync(fd)
}
