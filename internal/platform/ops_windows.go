//go:build windows

package platform

import (
	"context"
	"fmt"

	"golang.org/x/sys/windows"
)

type windowsOps struct {
	run Runner
}

//nolint:ireturn // factory returns interface by design
func newHostOps(run Runner) Ops {
	return &windowsOps{run: run}
}

// ClearImmutableFlag resets read-only, archive, system, and hidden attributes,
// falling back to attrib.
func (o *windowsOps) ClearImmutableFlag(ctx context.Context, path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	err = windows.SetFileAttributes(p, windows.FILE_ATTRIBUTE_NORMAL)
	if err == nil {
		return nil
	}
	if _, cerr := o.run(ctx, "attrib", "-r", "-a", "-s", "-h", path); cerr != nil {
		return fmt.Errorf("set attributes %s: %w (attrib: %v)", path, err, cerr)
	}
	return nil
}

// PurgeSnapshots deletes all volume shadow copies.
func (o *windowsOps) PurgeSnapshots(ctx context.Context) SnapshotPurgeResult {
	return purgeShadowCopies(ctx, o.run)
}
