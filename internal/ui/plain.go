package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/bamsammich/wipe/internal/stats"
)

// plainPresenter outputs one line per finished target to stdout and
// periodic progress to stderr when not a TTY.
type plainPresenter struct {
	w       io.Writer
	errW    io.Writer
	stats   stats.ReadTicker
	root    string
	verbose bool
}

func (p *plainPresenter) Run(events <-chan Event) error {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-ticker.C:
			p.printProgress()
		}
	}
}

func (p *plainPresenter) handleEvent(ev Event) {
	path := StripRoot(p.root, ev.Path)
	switch ev.Type {
	case SnapshotPurged:
		fmt.Fprintf(p.w, "snapshots: %s\n", ev.Label)
	case SecurityDegraded:
		fmt.Fprintf(p.errW, "warning: security degraded: %s\n", ev.Label)
	case TargetStarted:
		if p.verbose {
			fmt.Fprintf(p.w, "[%d/%d] %s\n", ev.Index, ev.Total, path)
		}
	case PassCompleted:
		if p.verbose {
			fmt.Fprintf(p.w, "  %s  %s  %s\n", path, ev.Label, FormatBytes(ev.Size))
		}
	case DirRenamed:
		if p.verbose {
			fmt.Fprintf(p.w, "  %s  renamed to %s\n", path, ev.Label)
		}
	case TargetCompleted:
		fmt.Fprintf(p.w, "[%d/%d] %s\n", ev.Index, ev.Total, ev.Label)
	case TargetFailed:
		errMsg := "error"
		if ev.Error != nil {
			errMsg = ev.Error.Error()
		}
		fmt.Fprintf(p.w, "[%d/%d] %s  %s\n", ev.Index, ev.Total, ev.Label, errMsg)
	}
}

func (p *plainPresenter) printProgress() {
	snap := p.stats.Snapshot()
	avg := 0.0
	if snap.Elapsed.Seconds() > 0 {
		avg = float64(snap.BytesWritten) / snap.Elapsed.Seconds()
	}
	fmt.Fprintf(p.errW, "progress: %d/%d targets  %s files  %s written  %s\n",
		snap.TargetsDone, snap.TargetsTotal,
		FormatCount(snap.FilesWiped),
		FormatBytes(snap.BytesWritten),
		FormatRate(avg),
	)
}

func (p *plainPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}
