//go:build linux

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// Preallocate asks the filesystem to back [0, size) of fd with real data
// blocks. Errors are ignored as fallocate is not supported on all filesystems.
//
//nolint:gosec // G115: fd values are small non-negative integers
func Preallocate(fd *os.File, size int64) {
	//nolint:errcheck // fallocate is advisory; not supported on all filesystems
	unix.Fallocate(int(fd.Fd()), 0, 0, size)
}
