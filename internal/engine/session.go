package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/time/rate"

	"github.com/bamsammich/wipe/internal/event"
	"github.com/bamsammich/wipe/internal/platform"
	"github.com/bamsammich/wipe/internal/stats"
)

// Config describes a wipe session.
type Config struct {
	Ops platform.Ops
	// Events receives the session's event stream. Lifecycle events are sent
	// blocking, so the consumer must drain the channel until Run returns.
	Events  chan<- event.Event
	Stats   *stats.Collector
	Policy  PolicyTable
	Limiter *rate.Limiter
	Method  Method
	Verify  bool
	// PurgeSnapshots deletes local snapshots/shadow copies before any target.
	PurgeSnapshots bool
	// DryRun classifies targets without touching them.
	DryRun bool
}

// TargetResult is the outcome of one top-level target.
type TargetResult struct {
	Err     error
	Path    string
	Kind    TargetKind
	ErrKind ErrorKind
	Bytes   int64 // bytes covered per pass (files only)
	Wiped   int   // entries destroyed (directories only)
	Failed  int   // entries that failed (directories only)
	Success bool
}

// Result is the outcome of a wipe session.
type Result struct {
	Err      error
	Snapshot platform.SnapshotPurgeResult
	Targets  []TargetResult
	Stats    stats.Snapshot
	// Degraded is set when the snapshot purge did not fully succeed.
	Degraded  bool
	Cancelled bool
}

// Succeeded returns the number of targets wiped successfully.
func (r Result) Succeeded() int {
	n := 0
	for _, t := range r.Targets {
		if t.Success {
			n++
		}
	}
	return n
}

// Session processes a list of targets sequentially. A Session is used for
// one run; construct a new one for every batch.
type Session struct {
	cfg       Config
	collector *stats.Collector
	degraded  bool
}

// NewSession creates a session for cfg.
func NewSession(cfg Config) *Session {
	c := cfg.Stats
	if c == nil {
		c = stats.NewCollector()
	}
	return &Session{cfg: cfg, collector: c}
}

// Run purges snapshots once, then destroys each path in order, emitting
// exactly one TargetCompleted or TargetFailed per processed path. It stops
// dispatching new targets once ctx is cancelled. Finished is always the
// last event.
func (s *Session) Run(ctx context.Context, paths []string) Result {
	var res Result
	var errs *multierror.Error
	total := len(paths)

	s.collector.SetTargetsTotal(int64(total))
	s.send(event.Event{Type: event.SessionStarted, Total: total})

	res.Snapshot = s.purgeSnapshots(ctx)
	if !res.Snapshot.Success {
		res.Degraded = true
		errs = multierror.Append(errs, fmt.Errorf("%w: %s", ErrSnapshotPartial, res.Snapshot.Message))
	}

	opts := s.options()
	for i, path := range paths {
		if ctx.Err() != nil {
			res.Cancelled = true
			break
		}
		tr := s.wipeTarget(ctx, opts, i+1, total, path)
		res.Targets = append(res.Targets, tr)
		if tr.Err != nil {
			errs = multierror.Append(errs, tr.Err)
		}
	}

	s.send(event.Event{Type: event.Finished, Total: total})
	res.Stats = s.collector.Snapshot()
	res.Err = errs.ErrorOrNil()
	return res
}

func (s *Session) options() Options {
	return Options{
		Ops:     s.cfg.Ops,
		Policy:  s.cfg.Policy,
		Events:  s.cfg.Events,
		Stats:   s.collector,
		Limiter: s.cfg.Limiter,
		Method:  s.cfg.Method,
		Verify:  s.cfg.Verify,
	}
}

func (s *Session) purgeSnapshots(ctx context.Context) platform.SnapshotPurgeResult {
	if !s.cfg.PurgeSnapshots || s.cfg.Ops == nil || s.cfg.DryRun {
		r := platform.SnapshotPurgeResult{Success: true, Skipped: true, Message: "snapshot purge disabled"}
		s.send(event.Event{Type: event.SnapshotPurged, Label: r.Message})
		return r
	}

	r := s.cfg.Ops.PurgeSnapshots(ctx)
	s.send(event.Event{Type: event.SnapshotPurged, Label: r.Message})
	if !r.Success {
		slog.Debug("snapshot purge incomplete", "message", r.Message, "failed", r.Failed)
		s.degrade(r.Message)
	}
	return r
}

// degrade reports reduced forensic protection. Only the first call emits.
func (s *Session) degrade(msg string) {
	if s.degraded {
		return
	}
	s.degraded = true
	s.send(event.Event{Type: event.SecurityDegraded, Label: msg})
}

func (s *Session) wipeTarget(ctx context.Context, opts Options, idx, total int, path string) TargetResult {
	name := filepath.Base(path)
	s.send(event.Event{Type: event.TargetStarted, Path: path, Label: name, Index: idx, Total: total})

	tr := TargetResult{Path: path}
	t, err := Classify(path)
	switch {
	case err != nil:
		tr.Err = err
	case s.cfg.DryRun:
		tr.Kind = t.Kind
		tr.Success = t.Kind != Other
		if !tr.Success {
			tr.Err = stageErr("classify", path, fmt.Errorf("refusing to wipe %s", t.Kind))
		}
	case t.Kind == Directory:
		tr.Kind = t.Kind
		d := WipeDirectory(ctx, path, opts)
		tr.Wiped, tr.Failed = d.Wiped, d.Failed
		tr.Err = d.Err
		if !d.Removed && tr.Err == nil {
			tr.Err = stageErr("remove", path, errors.New("directory still present"))
		}
		tr.Success = d.Removed && d.Failed == 0
	default:
		tr.Kind = t.Kind
		out := wipeEntry(ctx, t, opts)
		tr.Success = out.Success
		tr.Bytes = out.BytesProcessed
		if !out.Success {
			tr.Err = out.Err
		}
	}
	tr.ErrKind = KindOf(tr.Err)

	s.collector.AddTargetsDone(1)
	e := event.Event{
		Type:  event.TargetCompleted,
		Path:  path,
		Label: s.label(tr, name),
		Size:  tr.Bytes,
		Index: idx,
		Total: total,
	}
	if !tr.Success {
		e.Type = event.TargetFailed
		e.Error = tr.Err
	}
	s.send(e)
	return tr
}

func (s *Session) label(tr TargetResult, name string) string {
	switch {
	case s.cfg.DryRun && tr.Success:
		return fmt.Sprintf("would wipe %s %s", tr.Kind, name)
	case !tr.Success && tr.Kind == Directory:
		return fmt.Sprintf("%s: %d wiped, %d failed", name, tr.Wiped, tr.Failed)
	case !tr.Success:
		return fmt.Sprintf("%s: FAILED (%s)", name, tr.ErrKind)
	case tr.Kind == Directory:
		return fmt.Sprintf("%s: tree wiped (%d entries)", name, tr.Wiped)
	case tr.Kind == Symlink:
		return name + ": link removed"
	default:
		return name + ": wiped"
	}
}

// send delivers a lifecycle event, blocking until the consumer takes it.
func (s *Session) send(e event.Event) {
	if s.cfg.Events == nil {
		return
	}
	e.Timestamp = time.Now()
	s.cfg.Events <- e
}
