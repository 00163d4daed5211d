package engine

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bamsammich/wipe/internal/event"
	"github.com/bamsammich/wipe/internal/platform"
	"github.com/bamsammich/wipe/internal/retry"
	"github.com/bamsammich/wipe/internal/stats"
)

// Options controls how a single file or directory target is destroyed.
type Options struct {
	// Ops provides attribute clearing. Nil skips the platform step and only
	// fixes permission bits.
	Ops     platform.Ops
	Policy  PolicyTable // nil means DefaultPolicy()
	Events  chan<- event.Event
	Stats   stats.Writer
	Limiter *rate.Limiter
	Retry   retry.Policy // zero means retry.Default
	Method  Method
	// Verify re-reads the final pass and compares digests.
	Verify bool

	// beforePass, when set, runs before each pass re-stats the file.
	beforePass func(path string, pass int)
}

func (o Options) patterns() []Pattern {
	if o.Policy == nil {
		return DefaultPolicy()[o.Method]
	}
	return o.Policy.Patterns(o.Method)
}

func (o Options) retryPolicy() retry.Policy {
	if o.Retry.Attempts <= 0 {
		return retry.Default
	}
	return o.Retry
}

func (o Options) stats() stats.Writer {
	if o.Stats == nil {
		return discardStats{}
	}
	return o.Stats
}

// emit sends a best-effort event: if the consumer is behind, it is dropped.
// Lifecycle events that must arrive go through Session.send instead.
func (o Options) emit(e event.Event) {
	if o.Events == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case o.Events <- e:
	default:
	}
}

type discardStats struct{}

func (discardStats) AddFilesWiped(int64)       {}
func (discardStats) AddFilesFailed(int64)      {}
func (discardStats) AddSymlinksUnlinked(int64) {}
func (discardStats) AddBytesWiped(int64)       {}
func (discardStats) AddBytesWritten(int64)     {}
func (discardStats) AddPassesCompleted(int64)  {}
func (discardStats) AddDirsRemoved(int64)      {}
func (discardStats) AddTargetsDone(int64)      {}
