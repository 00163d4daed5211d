package platform

import (
	"context"
	"os/exec"
)

// Ops is the set of OS-specific capabilities the wipe engine depends on.
// Each supported operating system provides one implementation; see New.
type Ops interface {
	// ClearImmutableFlag removes immutable, append-only, read-only, and
	// similar attribute flags that would block writes to path. Callers
	// treat it as best-effort.
	ClearImmutableFlag(ctx context.Context, path string) error
	// PurgeSnapshots deletes local snapshots / shadow copies for all volumes.
	PurgeSnapshots(ctx context.Context) SnapshotPurgeResult
}

// SnapshotPurgeResult reports the outcome of a snapshot purge. A failed
// purge degrades the session but never blocks it.
type SnapshotPurgeResult struct {
	Message string
	Failed  int  // snapshots that could not be deleted
	Success bool
	Skipped bool // no native snapshot facility, or purge disabled
}

// Runner executes an external command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs the command with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	hideWindow(cmd)
	return cmd.Output()
}

// New returns the Ops implementation for the running operating system.
//
//nolint:ireturn // factory returns interface by design
func New() Ops {
	return newHostOps(ExecRunner)
}
