package engine

import (
	"crypto/rand"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/bamsammich/wipe/internal/platform"
)

// minAllocation is the size small files are padded to so that they leave
// resident (in-inode/MFT) storage and occupy a real data block.
const minAllocation = 4096

// inflate pads a regular file shorter than minAllocation with random bytes,
// durably, and asks the filesystem to back the full length. Symlinks and
// files already at least minAllocation long are left alone.
func inflate(path string) (padded int64, err error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, stageErr("inflate", path, err)
	}
	if info.Mode()&fs.ModeSymlink != 0 || info.Size() >= minAllocation {
		return 0, nil
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return 0, stageErr("inflate", path, err)
	}
	defer f.Close()

	pad := make([]byte, minAllocation-info.Size())
	if _, err := rand.Read(pad); err != nil {
		return 0, stageErr("inflate", path, fmt.Errorf("random padding: %w", err))
	}
	if _, err := f.Write(pad); err != nil {
		return 0, stageErr("inflate", path, err)
	}
	platform.Preallocate(f, minAllocation)
	if err := f.Sync(); err != nil {
		return 0, stageErr("inflate", path, err)
	}
	slog.Debug("inflated", "path", path, "from", info.Size(), "to", minAllocation)
	return int64(len(pad)), nil
}
