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

func TestWipeDirectory_FilesAndEmptySubdir(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "photos")
	writeFile(t, root, "a.jpg", []byte("aaaa"))
	writeFile(t, root, "b.jpg", []byte("bbbb"))
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0o755))
	events := make(chan event.Event, 64)

	res := WipeDirectory(context.Background(), root, Options{Events: events})
	require.NoError(t, res.Err)
	assert.Equal(t, 2, res.Wiped)
	assert.Zero(t, res.Failed)
	assert.True(t, res.Removed)

	assert.Empty(t, dirNames(t, parent))

	renamed := ofType(drain(events), event.DirRenamed)
	require.Len(t, renamed, 1)
	assert.Equal(t, filepath.Join(root, "empty"), renamed[0].Path)
	assert.Regexp(t, `^rm_[0-9a-f]{8}$`, renamed[0].Label)
}

func TestWipeDirectory_Nested(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "tree")
	writeFile(t, root, "root.txt", []byte("root"))
	writeFile(t, root, "sub/mid.txt", []byte("mid"))
	writeFile(t, root, "sub/deep/leaf.txt", []byte("leaf"))
	events := make(chan event.Event, 256)
	collector := stats.NewCollector()

	res := WipeDirectory(context.Background(), root, Options{Events: events, Stats: collector})
	require.NoError(t, res.Err)
	assert.Equal(t, 3, res.Wiped)
	assert.True(t, res.Removed)

	// Deepest directory is renamed before its parent.
	renamed := ofType(drain(events), event.DirRenamed)
	require.Len(t, renamed, 2)
	assert.Equal(t, filepath.Join(root, "sub", "deep"), renamed[0].Path)
	assert.Equal(t, filepath.Join(root, "sub"), renamed[1].Path)

	snap := collector.Snapshot()
	assert.Equal(t, int64(3), snap.FilesWiped)
	assert.Equal(t, int64(1), snap.DirsRemoved)
}

func TestWipeDirectory_DoesNotFollowSymlinkedDir(t *testing.T) {
	parent := t.TempDir()
	outside := filepath.Join(parent, "outside")
	keep := writeFile(t, outside, "keep.txt", []byte("keep"))

	root := filepath.Join(parent, "root")
	writeFile(t, root, "f.txt", []byte("f"))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "link")))

	res := WipeDirectory(context.Background(), root, Options{})
	require.NoError(t, res.Err)
	assert.Equal(t, 2, res.Wiped, "the file and the unlinked symlink")
	assert.True(t, res.Removed)

	data, err := os.ReadFile(keep)
	require.NoError(t, err)
	assert.Equal(t, []byte("keep"), data)
}

func TestWipeDirectory_NotADirectory(t *testing.T) {
	path := writeFile(t, t.TempDir(), "f.txt", []byte("x"))

	res := WipeDirectory(context.Background(), path, Options{})
	require.Error(t, res.Err)
	assert.False(t, res.Removed)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestWipeDirectory_Empty(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "empty")
	require.NoError(t, os.Mkdir(root, 0o755))

	res := WipeDirectory(context.Background(), root, Options{})
	require.NoError(t, res.Err)
	assert.Zero(t, res.Wiped)
	assert.True(t, res.Removed)
}
