//go:build linux

package platform

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Inode flags from linux/fs.h.
const (
	fsImmutableFl = 0x00000010
	fsAppendFl    = 0x00000020
)

type linuxOps struct {
	run Runner
}

//nolint:ireturn // factory returns interface by design
func newHostOps(run Runner) Ops {
	return &linuxOps{run: run}
}

// ClearImmutableFlag clears the immutable and append-only inode flags with
// FS_IOC_SETFLAGS, falling back to chattr when the ioctl cannot be issued.
func (o *linuxOps) ClearImmutableFlag(ctx context.Context, path string) error {
	err := clearInodeFlags(path)
	if err == nil || errors.Is(err, errFlagsUnsupported) {
		return nil
	}
	if _, cerr := o.run(ctx, "chattr", "-i", "-a", path); cerr != nil {
		return fmt.Errorf("clear inode flags %s: %w (chattr: %v)", path, err, cerr)
	}
	return nil
}

// PurgeSnapshots is a no-op: Linux has no native local snapshot facility
// that can be enumerated portably.
func (o *linuxOps) PurgeSnapshots(context.Context) SnapshotPurgeResult {
	return skipSnapshots()
}

var errFlagsUnsupported = errors.New("inode flags not supported")

//nolint:gosec // G115: fd values are small non-negative integers
func clearInodeFlags(path string) error {
	f, err := os.OpenFile(path, os.O_RDONLY|unix.O_NOFOLLOW|unix.O_NONBLOCK, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	fd := int(f.Fd())
	flags, err := unix.IoctlGetUint32(fd, unix.FS_IOC_GETFLAGS)
	if err != nil {
		switch {
		case errors.Is(err, unix.ENOTTY), errors.Is(err, unix.EOPNOTSUPP),
			errors.Is(err, unix.ENOSYS), errors.Is(err, unix.EINVAL):
			return errFlagsUnsupported
		}
		return fmt.Errorf("FS_IOC_GETFLAGS: %w", err)
	}
	if flags&(fsImmutableFl|fsAppendFl) == 0 {
		return nil
	}
	cleared := int(flags &^ (fsImmutableFl | fsAppendFl))
	if err := unix.IoctlSetPointerInt(fd, unix.FS_IOC_SETFLAGS, cleared); err != nil {
		return fmt.Errorf("FS_IOC_SETFLAGS: %w", err)
	}
	return nil
}
