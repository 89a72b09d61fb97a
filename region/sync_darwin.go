//go:build darwin

package region

import (
	"golang.org/x/sys/unix"
)

// msyncRange syncs the whole mapping: darwin rejects msync on an address
// other than the one mmap returned. The kernel only writes dirty pages.
func msyncRange(data []byte, _, _ int) error {
	return unix.Msync(data, unix.MS_SYNC)
}

func fdatasync(fd int, fullSync bool) error {
	if fullSync {
		_, err := unix.FcntlInt(uintptr(fd), unix.F_FULLFSYNC, 0)
		return err
	}
	return unix.Fsync(fd)
}
