package engine

import (
	"context"
	"log/slog"
	"os"

	"github.com/bamsammich/wipe/internal/platform"
	"github.com/bamsammich/wipe/internal/retry"
)

// stripAttributes removes the protections that would block writing or
// unlinking path: immutable/append-only flags first, then the owner write
// bit. Failures are logged and otherwise ignored; the stages that follow
// surface the real error if the file stays protected.
func stripAttributes(ctx context.Context, ops platform.Ops, path string, p retry.Policy) {
	err := retry.Do(ctx, p, func() error {
		if ops != nil {
			if err := ops.ClearImmutableFlag(ctx, path); err != nil {
				return err
			}
		}
		return makeOwnerWritable(path)
	})
	if err != nil {
		slog.Debug("attribute strip incomplete", "path", path, "error", err)
	}
}

func makeOwnerWritable(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	perm := info.Mode().Perm()
	if perm&0o600 == 0o600 {
		return nil
	}
	return os.Chmod(path, perm|0o600)
}
