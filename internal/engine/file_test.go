package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/wipe/internal/event"
	"github.com/bamsammich/wipe/internal/stats"
)

func TestWipeFile_SmallFileRandomMethod(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", []byte("0123456789"))
	events := make(chan event.Event, 32)
	collector := stats.NewCollector()
	ops := &fakeOps{}

	out := WipeFile(context.Background(), path, Options{
		Ops:    ops,
		Method: Random,
		Events: events,
		Stats:  collector,
	})
	require.True(t, out.Success, "%v", out.Err)
	assert.Equal(t, KindNone, out.Kind)
	assert.Equal(t, int64(minAllocation), out.BytesProcessed)
	assert.Equal(t, renameRounds, out.Renames)

	_, err := os.Lstat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, dirNames(t, dir), "no entry with the original or any intermediate name remains")
	assert.Equal(t, []string{path}, ops.cleared)

	passes := ofType(drain(events), event.PassCompleted)
	require.Len(t, passes, 3)
	for _, p := range passes {
		assert.Equal(t, int64(minAllocation), p.Size)
	}

	snap := collector.Snapshot()
	assert.Equal(t, int64(1), snap.FilesWiped)
	assert.Equal(t, int64(3), snap.PassesCompleted)
	assert.Equal(t, int64(minAllocation), snap.BytesWiped)
}

func TestWipeFile_Symlink(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "target.txt", []byte("do not touch"))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))
	collector := stats.NewCollector()

	out := WipeFile(context.Background(), link, Options{Stats: collector})
	require.True(t, out.Success)

	_, err := os.Lstat(link)
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("do not touch"), data)
	assert.Equal(t, int64(1), collector.Snapshot().SymlinksUnlinked)
}

func TestWipeFile_NonExistent(t *testing.T) {
	dir := t.TempDir()

	out := WipeFile(context.Background(), filepath.Join(dir, "missing.txt"), Options{})
	assert.False(t, out.Success)
	assert.Equal(t, KindIOFailure, out.Kind)
	require.Error(t, out.Err)
	assert.Empty(t, dirNames(t, dir), "no side effects")

	// Wiping the same path twice: the second call reports failure.
	path := writeFile(t, dir, "once.txt", []byte("x"))
	require.True(t, WipeFile(context.Background(), path, Options{}).Success)
	assert.False(t, WipeFile(context.Background(), path, Options{}).Success)
}

func TestWipeFile_RejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sub/keep.txt", []byte("x"))

	out := WipeFile(context.Background(), filepath.Join(dir, "sub"), Options{})
	assert.False(t, out.Success)
	assert.Equal(t, []string{"keep.txt"}, dirNames(t, filepath.Join(dir, "sub")))
}

func TestWipeFile_ReadOnlyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ro.txt", []byte("read only"))
	require.NoError(t, os.Chmod(path, 0o400))

	out := WipeFile(context.Background(), path, Options{Ops: &fakeOps{}})
	require.True(t, out.Success, "%v", out.Err)
	assert.Empty(t, dirNames(t, dir))
}

func TestWipeFile_RenameImpossibleStillRemoves(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "stuck.txt", []byte("x"))
	writeFile(t, dir, "wipe_aaaaaaaaaaaa", []byte("bystander"))

	orig := randomName
	randomName = func(string, int) string { return "wipe_aaaaaaaaaaaa" }
	t.Cleanup(func() { randomName = orig })

	out := WipeFile(context.Background(), path, Options{Retry: fastRetry})
	assert.True(t, out.Success)
	assert.Equal(t, KindRenameCollision, out.Kind)
	require.ErrorIs(t, out.Err, ErrRenameCollision)
	assert.Equal(t, []string{"wipe_aaaaaaaaaaaa"}, dirNames(t, dir))
}

func TestWipeFile_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "keep.txt", []byte("x"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := WipeFile(ctx, path, Options{Retry: fastRetry})
	assert.False(t, out.Success)
	_, err := os.Lstat(path)
	assert.NoError(t, err, "a cancelled wipe never reaches removal")
}
