package engine

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"github.com/bamsammich/wipe/internal/event"
	"github.com/bamsammich/wipe/internal/retry"
)

// DirResult reports the outcome of a directory tree wipe.
type DirResult struct {
	Err    error // aggregated per-entry failures, nil if none
	Wiped  int   // files and symlinks destroyed
	Failed int
	// Removed reports whether the root directory is gone afterwards.
	Removed bool
}

// WipeDirectory destroys every file under path, deepest directories first,
// renames each subdirectory to a random name once its contents are gone and
// finally removes the whole tree. Symlinked directories are unlinked, never
// descended into. A failing entry does not stop the walk.
func WipeDirectory(ctx context.Context, path string, opts Options) DirResult {
	t, err := Classify(path)
	if err != nil {
		return DirResult{Err: err, Failed: 1}
	}
	if t.Kind != Directory {
		return DirResult{Err: stageErr("classify", path, errors.New("not a directory")), Failed: 1}
	}

	w := treeWiper{opts: opts}
	w.walk(ctx, path)

	// Best-effort sweep of whatever survived, including the renamed
	// subdirectories.
	if err := os.RemoveAll(path); err != nil {
		slog.Debug("remove tree", "path", path, "error", err)
	}
	_, statErr := os.Lstat(path)
	res := DirResult{
		Wiped:   w.wiped,
		Failed:  w.failed,
		Removed: errors.Is(statErr, fs.ErrNotExist),
		Err:     w.errs.ErrorOrNil(),
	}
	if res.Removed {
		opts.stats().AddDirsRemoved(1)
	}
	return res
}

type treeWiper struct {
	errs   *multierror.Error
	opts   Options
	wiped  int
	failed int
}

func (w *treeWiper) walk(ctx context.Context, dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.failed++
		w.errs = multierror.Append(w.errs, stageErr("read dir", dir, err))
		return
	}

	var subdirs []string
	for _, e := range entries {
		if e.IsDir() {
			subdirs = append(subdirs, filepath.Join(dir, e.Name()))
		}
	}
	for _, sub := range subdirs {
		if ctx.Err() != nil {
			return
		}
		w.walk(ctx, sub)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		t := Target{Path: filepath.Join(dir, e.Name()), Kind: kindOf(e.Type())}
		out := wipeEntry(ctx, t, w.opts)
		if out.Success {
			w.wiped++
			continue
		}
		w.failed++
		w.errs = multierror.Append(w.errs, out.Err)
	}

	// A single attempt per directory; the tree sweep removes it either way.
	once := retry.Policy{Attempts: 1}
	for _, sub := range subdirs {
		renamed, err := renameRandom(ctx, sub, dirPrefix, dirHexLen, once)
		if err != nil {
			slog.Debug("rename dir", "path", sub, "error", err)
			continue
		}
		w.opts.emit(event.Event{Type: event.DirRenamed, Path: sub, Label: filepath.Base(renamed)})
	}
}
