//go:build darwin

package platform

import (
	"context"
	"fmt"

	"golang.org/x/sys/unix"
)

// BSD file flags from sys/stat.h.
const (
	ufImmutable = 0x00000002
	ufAppend    = 0x00000004
)

type darwinOps struct {
	run Runner
}

//nolint:ireturn // factory returns interface by design
func newHostOps(run Runner) Ops {
	return &darwinOps{run: run}
}

// ClearImmutableFlag clears the user immutable and append flags with
// chflags(2), falling back to the chflags command.
func (o *darwinOps) ClearImmutableFlag(ctx context.Context, path string) error {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return fmt.Errorf("lstat %s: %w", path, err)
	}
	if st.Flags&(ufImmutable|ufAppend) == 0 {
		return nil
	}
	err := unix.Chflags(path, int(st.Flags&^(ufImmutable|ufAppend)))
	if err == nil {
		return nil
	}
	if _, cerr := o.run(ctx, "chflags", "nouchg,nouappnd", path); cerr != nil {
		return fmt.Errorf("chflags %s: %w (chflags: %v)", path, err, cerr)
	}
	return nil
}

// PurgeSnapshots deletes local Time Machine snapshots.
func (o *darwinOps) PurgeSnapshots(ctx context.Context) SnapshotPurgeResult {
	return purgeTimeMachine(ctx, o.run)
}
