package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bamsammich/wipe/internal/retry"
)

const (
	renameRounds = 3
	filePrefix   = "wipe_"
	fileHexLen   = 12
	dirPrefix    = "rm_"
	dirHexLen    = 8
)

// scrubEpoch is 1980-01-01T00:00:00Z. Access and modification times are
// reset to it before removal so the final inode carries no trace of when the
// file was last used.
var scrubEpoch = time.Unix(315532800, 0)

// randomName returns prefix followed by n random lowercase hex digits.
// Replaced in tests to force collisions.
var randomName = func(prefix string, n int) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

// renameRandom moves from to a fresh random name in the same directory. It
// refuses to overwrite an existing entry, retrying with a new name under p.
func renameRandom(ctx context.Context, from, prefix string, n int, p retry.Policy) (string, error) {
	dir := filepath.Dir(from)
	var to string
	err := retry.Do(ctx, p, func() error {
		to = filepath.Join(dir, randomName(prefix, n))
		if _, err := os.Lstat(to); err == nil {
			return fmt.Errorf("%w: %s already exists", ErrRenameCollision, to)
		}
		err := os.Rename(from, to)
		if errors.Is(err, fs.ErrNotExist) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		return from, err
	}
	return to, nil
}

// scrubResult describes what happened to a file's name and metadata.
type scrubResult struct {
	FinalPath string
	Renames   int
}

// scrubAndRemove obscures path's name through a chain of random renames,
// resets its timestamps, truncates it and unlinks it. Only the final unlink
// is fatal; a rename chain that stops early leaves the file under its last
// successful name.
func scrubAndRemove(ctx context.Context, path string, p retry.Policy) (scrubResult, error) {
	res := scrubResult{FinalPath: path}
	for range renameRounds {
		next, err := renameRandom(ctx, res.FinalPath, filePrefix, fileHexLen, p)
		if err != nil {
			slog.Debug("rename chain stopped", "path", res.FinalPath, "renames", res.Renames, "error", err)
			break
		}
		res.FinalPath = next
		res.Renames++
	}

	if err := os.Chtimes(res.FinalPath, scrubEpoch, scrubEpoch); err != nil {
		slog.Debug("reset timestamps", "path", res.FinalPath, "error", err)
	}
	if err := os.Truncate(res.FinalPath, 0); err != nil {
		slog.Debug("truncate", "path", res.FinalPath, "error", err)
	}
	if err := os.Remove(res.FinalPath); err != nil {
		return res, stageErr("remove", res.FinalPath, err)
	}
	return res, nil
}
