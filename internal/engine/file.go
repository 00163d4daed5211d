package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Outcome reports how a single target fared.
type Outcome struct {
	Err            error
	FinalPath      string // last name the file had before removal
	BytesProcessed int64  // file length covered by each overwrite pass
	BytesWritten   int64  // total bytes written across all stages
	Renames        int
	Kind           ErrorKind
	Success        bool
}

func failed(err error) Outcome {
	return Outcome{Err: err, Kind: KindOf(err)}
}

// WipeFile destroys a single regular file or symlink. Symlinks are unlinked
// without touching their target. Directories and special files are
// rejected without side effects; use WipeDirectory for trees.
func WipeFile(ctx context.Context, path string, opts Options) Outcome {
	t, err := Classify(path)
	if err != nil {
		return failed(err)
	}
	return wipeEntry(ctx, t, opts)
}

func wipeEntry(ctx context.Context, t Target, opts Options) Outcome {
	switch t.Kind {
	case Symlink:
		return unlinkSymlink(t.Path, opts)
	case File:
		out := wipeRegular(ctx, t.Path, opts)
		if out.Success {
			opts.stats().AddFilesWiped(1)
			opts.stats().AddBytesWiped(out.BytesProcessed)
		} else {
			opts.stats().AddFilesFailed(1)
		}
		return out
	default:
		opts.stats().AddFilesFailed(1)
		return failed(stageErr("classify", t.Path, fmt.Errorf("refusing to wipe %s", t.Kind)))
	}
}

func unlinkSymlink(path string, opts Options) Outcome {
	if err := os.Remove(path); err != nil {
		opts.stats().AddFilesFailed(1)
		return failed(stageErr("unlink", path, err))
	}
	opts.stats().AddSymlinksUnlinked(1)
	return Outcome{Success: true, FinalPath: path}
}

// wipeRegular runs the full destruction pipeline on a regular file:
// attribute strip, inflation, crypto-erase, overwrite passes and scrub.
// Any failure before the scrub leaves the file in place.
func wipeRegular(ctx context.Context, path string, opts Options) Outcome {
	if err := ctx.Err(); err != nil {
		return failed(err)
	}
	var out Outcome
	policy := opts.retryPolicy()

	stripAttributes(ctx, opts.Ops, path, policy)

	padded, err := inflate(path)
	if err != nil {
		return failed(err)
	}
	out.BytesWritten += padded
	opts.stats().AddBytesWritten(padded)

	if err := ctx.Err(); err != nil {
		return failed(err)
	}
	n, err := cryptoErase(ctx, path, opts.Limiter)
	out.BytesWritten += n
	opts.stats().AddBytesWritten(n)
	if err != nil {
		return failed(err)
	}

	n, err = overwrite(ctx, path, opts)
	out.BytesWritten += n
	if err != nil {
		return failed(err)
	}
	if info, err := os.Stat(path); err == nil {
		out.BytesProcessed = info.Size()
	}

	if err := ctx.Err(); err != nil {
		return failed(err)
	}
	res, err := scrubAndRemove(ctx, path, policy)
	out.FinalPath = res.FinalPath
	out.Renames = res.Renames
	if err != nil {
		out.Err = err
		out.Kind = KindOf(err)
		return out
	}

	out.Success = true
	if res.Renames == 0 {
		// Removed, but under its original name.
		out.Kind = KindRenameCollision
		out.Err = fmt.Errorf("%w: %s removed without rename", ErrRenameCollision, path)
	}
	slog.Debug("wiped", "path", path, "bytes", out.BytesProcessed, "renames", res.Renames)
	return out
}
