package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const ringSize = 60

// Reader exposes read-only access to collected statistics.
type Reader interface {
	Snapshot() Snapshot
}

// ReadTicker is a Reader that can also advance the throughput ring buffer.
type ReadTicker interface {
	Reader
	Tick()
	RollingSpeed(seconds int) float64
	SparklineData(n int) []float64
}

// Writer is the write side used by the wipe engine.
type Writer interface {
	AddFilesWiped(n int64)
	AddFilesFailed(n int64)
	AddSymlinksUnlinked(n int64)
	AddBytesWiped(n int64)
	AddBytesWritten(n int64)
	AddPassesCompleted(n int64)
	AddDirsRemoved(n int64)
	AddTargetsDone(n int64)
}

// Collector tracks wipe session statistics using lock-free atomic counters.
type Collector struct {
	filesWiped       atomic.Int64
	filesFailed      atomic.Int64
	symlinksUnlinked atomic.Int64
	bytesWiped       atomic.Int64
	bytesWritten     atomic.Int64
	passesCompleted  atomic.Int64
	dirsRemoved      atomic.Int64
	targetsTotal     atomic.Int64
	targetsDone      atomic.Int64
	startTime        time.Time

	// Ring buffer, written only by the presenter's Tick().
	mu         sync.Mutex
	throughput [ringSize]int64 // bytes written delta per second
	ringIdx    int
	ringCount  int // samples written, capped at ringSize
	lastBytes  int64
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// SetTargetsTotal records the number of targets in the session.
func (c *Collector) SetTargetsTotal(n int64) { c.targetsTotal.Store(n) }

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesWiped       int64
	FilesFailed      int64
	SymlinksUnlinked int64
	BytesWiped       int64
	BytesWritten     int64
	PassesCompleted  int64
	DirsRemoved      int64
	TargetsTotal     int64
	TargetsDone      int64
	Elapsed          time.Duration
}

func (c *Collector) AddFilesWiped(n int64)       { c.filesWiped.Add(n) }
func (c *Collector) AddFilesFailed(n int64)      { c.filesFailed.Add(n) }
func (c *Collector) AddSymlinksUnlinked(n int64) { c.symlinksUnlinked.Add(n) }
func (c *Collector) AddBytesWiped(n int64)       { c.bytesWiped.Add(n) }
func (c *Collector) AddBytesWritten(n int64)     { c.bytesWritten.Add(n) }
func (c *Collector) AddPassesCompleted(n int64)  { c.passesCompleted.Add(n) }
func (c *Collector) AddDirsRemoved(n int64)      { c.dirsRemoved.Add(n) }
func (c *Collector) AddTargetsDone(n int64)      { c.targetsDone.Add(n) }

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesWiped:       c.filesWiped.Load(),
		FilesFailed:      c.filesFailed.Load(),
		SymlinksUnlinked: c.symlinksUnlinked.Load(),
		BytesWiped:       c.bytesWiped.Load(),
		BytesWritten:     c.bytesWritten.Load(),
		PassesCompleted:  c.passesCompleted.Load(),
		DirsRemoved:      c.dirsRemoved.Load(),
		TargetsTotal:     c.targetsTotal.Load(),
		TargetsDone:      c.targetsDone.Load(),
		Elapsed:          c.Elapsed(),
	}
}

// Tick snapshots the bytes-written delta into the ring buffer. Called 1/sec by the presenter.
func (c *Collector) Tick() {
	current := c.bytesWritten.Load()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.throughput[c.ringIdx] = current - c.lastBytes
	c.lastBytes = current
	c.ringIdx = (c.ringIdx + 1) % ringSize
	if c.ringCount < ringSize {
		c.ringCount++
	}
}

// RollingSpeed returns average bytes/sec written over the last n seconds of samples.
func (c *Collector) RollingSpeed(seconds int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := min(seconds, c.ringCount)
	if count <= 0 {
		return 0
	}
	var sum int64
	for i := range count {
		idx := (c.ringIdx - 1 - i + ringSize) % ringSize
		sum += c.throughput[idx]
	}
	return float64(sum) / float64(count)
}

// SparklineData returns up to n throughput samples (bytes/sec), oldest first.
func (c *Collector) SparklineData(n int) []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := min(n, c.ringCount)
	out := make([]float64, count)
	for i := range count {
		idx := (c.ringIdx - count + i + ringSize) % ringSize
		out[i] = float64(c.throughput[idx])
	}
	return out
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"targets=%d/%d wiped=%d failed=%d symlinks=%d bytes=%d written=%d passes=%d dirs=%d",
		s.TargetsDone, s.TargetsTotal, s.FilesWiped, s.FilesFailed, s.SymlinksUnlinked,
		s.BytesWiped, s.BytesWritten, s.PassesCompleted, s.DirsRemoved,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
