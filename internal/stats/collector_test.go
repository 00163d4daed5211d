package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector()
	const goroutines = 100
	const opsPerGoroutine = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			for range opsPerGoroutine {
				c.AddFilesWiped(1)
				c.AddFilesFailed(1)
				c.AddSymlinksUnlinked(1)
				c.AddBytesWiped(256)
				c.AddBytesWritten(512)
				c.AddPassesCompleted(1)
				c.AddDirsRemoved(1)
				c.AddTargetsDone(1)
			}
		}()
	}
	wg.Wait()

	s := c.Snapshot()
	expected := int64(goroutines * opsPerGoroutine)
	assert.Equal(t, expected, s.FilesWiped)
	assert.Equal(t, expected, s.FilesFailed)
	assert.Equal(t, expected, s.SymlinksUnlinked)
	assert.Equal(t, expected*256, s.BytesWiped)
	assert.Equal(t, expected*512, s.BytesWritten)
	assert.Equal(t, expected, s.PassesCompleted)
	assert.Equal(t, expected, s.DirsRemoved)
	assert.Equal(t, expected, s.TargetsDone)
}

func TestSnapshotString(t *testing.T) {
	s := Snapshot{
		FilesWiped:       8,
		FilesFailed:      1,
		SymlinksUnlinked: 2,
		BytesWiped:       4096,
		BytesWritten:     16384,
		PassesCompleted:  24,
		DirsRemoved:      3,
		TargetsTotal:     4,
		TargetsDone:      4,
	}
	expected := "targets=4/4 wiped=8 failed=1 symlinks=2 bytes=4096 written=16384 passes=24 dirs=3"
	assert.Equal(t, expected, s.String())
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{1073741824, "1.0 GiB"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			require.Equal(t, tt.expected, FormatBytes(tt.input))
		})
	}
}

func TestNewCollector(t *testing.T) {
	c := NewCollector()
	assert.False(t, c.startTime.IsZero())
	assert.InDelta(t, 0, c.Elapsed().Seconds(), 1)
}

func TestSetTargetsTotal(t *testing.T) {
	c := NewCollector()
	c.SetTargetsTotal(7)
	assert.Equal(t, int64(7), c.Snapshot().TargetsTotal)
}

func TestTickAndRollingSpeed(t *testing.T) {
	c := NewCollector()

	// Simulate 5 seconds of 1000 bytes/sec.
	for range 5 {
		c.AddBytesWritten(1000)
		c.Tick()
	}

	assert.InDelta(t, 1000.0, c.RollingSpeed(5), 0.01)
}

func TestRollingSpeedPartialWindow(t *testing.T) {
	c := NewCollector()

	c.AddBytesWritten(500)
	c.Tick()
	c.AddBytesWritten(500)
	c.Tick()

	// Ask for 10 but only have 2.
	assert.InDelta(t, 500.0, c.RollingSpeed(10), 0.01)
}

func TestRollingSpeedNoSamples(t *testing.T) {
	c := NewCollector()
	assert.Equal(t, 0.0, c.RollingSpeed(5))
}

func TestRingWraparound(t *testing.T) {
	c := NewCollector()

	for range ringSize + 10 {
		c.AddBytesWritten(100)
		c.Tick()
	}

	assert.Equal(t, ringSize, c.ringCount)
	assert.InDelta(t, 100.0, c.RollingSpeed(ringSize), 0.01)
}

func TestSnapshotIncludesElapsed(t *testing.T) {
	c := NewCollector()
	time.Sleep(10 * time.Millisecond)
	s := c.Snapshot()
	assert.Greater(t, s.Elapsed, time.Duration(0))
}

func TestSparklineData(t *testing.T) {
	c := NewCollector()
	assert.Empty(t, c.SparklineData(5))

	for _, n := range []int64{100, 200, 300} {
		c.AddBytesWritten(n)
		c.Tick()
	}

	assert.Equal(t, []float64{100, 200, 300}, c.SparklineData(5))
	assert.Equal(t, []float64{200, 300}, c.SparklineData(2))
}
