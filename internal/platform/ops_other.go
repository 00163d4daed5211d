//go:build !linux && !darwin && !windows

package platform

import "context"

type genericOps struct{}

//nolint:ireturn // factory returns interface by design
func newHostOps(Runner) Ops {
	return genericOps{}
}

// ClearImmutableFlag is a no-op where no flag-clearing facility is known.
func (genericOps) ClearImmutableFlag(context.Context, string) error { return nil }

// PurgeSnapshots reports success trivially; no native snapshotting is assumed.
func (genericOps) PurgeSnapshots(context.Context) SnapshotPurgeResult {
	return skipSnapshots()
}
