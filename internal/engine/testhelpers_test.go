package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bamsammich/wipe/internal/event"
	"github.com/bamsammich/wipe/internal/platform"
	"github.com/bamsammich/wipe/internal/retry"
)

// fastRetry keeps failure-path tests quick.
var fastRetry = retry.Policy{Attempts: 2, Delay: time.Millisecond}

// fakeOps records attribute clears and returns a canned purge result.
type fakeOps struct {
	cleared []string
	purge   platform.SnapshotPurgeResult
	purges  int
}

func (f *fakeOps) ClearImmutableFlag(_ context.Context, path string) error {
	f.cleared = append(f.cleared, path)
	return nil
}

func (f *fakeOps) PurgeSnapshots(context.Context) platform.SnapshotPurgeResult {
	f.purges++
	return f.purge
}

// writeFile creates dir/name with data and returns its path.
func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// dirNames lists the entry names directly under dir.
func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// drain closes ch and returns everything buffered in it.
func drain(ch chan event.Event) []event.Event {
	close(ch)
	var out []event.Event
	for e := range ch {
		out = append(out, e)
	}
	return out
}

func ofType(events []event.Event, typ event.Type) []event.Event {
	var out []event.Event
	for _, e := range events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}
