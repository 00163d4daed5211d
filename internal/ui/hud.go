package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/bamsammich/wipe/internal/stats"
)

// ANSI escape sequences.
const (
	ansiDim   = "\033[2m"
	ansiReset = "\033[0m"
)

// hudPresenter provides a TTY display with a scrolling feed of finished
// targets and a 2-line HUD that redraws in place.
type hudPresenter struct {
	w       io.Writer
	stats   stats.ReadTicker
	root    string // stripped from displayed paths
	width   int
	verbose bool

	// Internal state.
	hudDrawn     bool
	hudLineCount int // actual number of lines in the last HUD draw
	current      string
	passLabel    string
	lastHUDDraw  time.Time
}

const (
	sparklineWidth   = 20
	progressBarWidth = 20
	currentMaxLen    = 40
	passLabelWidth   = 26 // "pass 10/10 (random)" plus gaps
	hudMinInterval   = 50 * time.Millisecond // don't redraw faster than this
)

func (p *hudPresenter) Run(events <-chan Event) error {
	// Fire first tick quickly to seed the ring buffer with initial speed data,
	// then switch to 1s interval.
	secTicker := time.NewTicker(250 * time.Millisecond)
	defer secTicker.Stop()
	firstTickDone := false

	// Redraw ticker for long passes over large files.
	redrawTicker := time.NewTicker(100 * time.Millisecond)
	defer redrawTicker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				p.clearHUD()
				return nil
			}
			p.handleEvent(ev)
			p.maybeDrawHUD()

		case <-redrawTicker.C:
			p.drawHUD()

		case <-secTicker.C:
			p.stats.Tick()
			if !firstTickDone {
				firstTickDone = true
				secTicker.Reset(1 * time.Second)
			}
		}
	}
}

func (p *hudPresenter) handleEvent(ev Event) {
	switch ev.Type {
	case SnapshotPurged:
		p.feed("%s  snapshots: %s", styleMuted.Render("•"), ev.Label)

	case SecurityDegraded:
		p.feed("%s  %s", styleWarning.Render("!"),
			styleWarning.Render("security degraded: "+ev.Label))

	case TargetStarted:
		p.current = StripRoot(p.root, ev.Path)
		p.passLabel = ""

	case PassCompleted:
		p.passLabel = ev.Label
		if p.verbose {
			p.feed("   %s  %s", p.styledPath(ev.Path), styleMuted.Render(ev.Label))
		}

	case DirRenamed:
		if p.verbose {
			p.feed("   %s  %s", p.styledPath(ev.Path), styleMuted.Render("→ "+ev.Label))
		}

	case TargetCompleted:
		p.current = ""
		p.feed("%s  %s", styleIconDone.Render("✓"), ev.Label)

	case TargetFailed:
		p.current = ""
		errMsg := "error"
		if ev.Error != nil {
			errMsg = ev.Error.Error()
		}
		p.feed("%s  %s  %s", styleIconFailed.Render("✗"), ev.Label, styleError.Render(errMsg))
	}
}

// feed prints one scrolling line above the HUD.
func (p *hudPresenter) feed(format string, args ...any) {
	p.clearHUD()
	fmt.Fprintf(p.w, format+"\n", args...)
	p.drawHUD() // always redraw HUD after feed line
}

// maybeDrawHUD redraws the HUD if enough time has passed since the last draw.
func (p *hudPresenter) maybeDrawHUD() {
	if time.Since(p.lastHUDDraw) < hudMinInterval {
		return
	}
	p.drawHUD()
}

func (p *hudPresenter) drawHUD() {
	snap := p.stats.Snapshot()

	// Clear previous HUD if drawn.
	p.clearHUD()

	var pct float64
	if snap.TargetsTotal > 0 {
		pct = float64(snap.TargetsDone) / float64(snap.TargetsTotal)
	}
	speed := p.stats.RollingSpeed(10)

	// Line 1: throughput sparkline + speed + bytes written.
	spark := Sparkline(p.stats.SparklineData(sparklineWidth), sparklineWidth)
	fmt.Fprintf(p.w, "       %s   %s   %s written   %s passes\n",
		spark, FormatRate(speed), FormatBytes(snap.BytesWritten), FormatCount(snap.PassesCompleted))

	// Line 2: progress bar + targets + current target.
	bar := ProgressBar(pct, progressBarWidth)
	line := fmt.Sprintf(" %3.0f%%  %s   %d / %d targets", pct*100, bar, snap.TargetsDone, snap.TargetsTotal)
	if p.current != "" {
		line += "   " + truncPath(p.current, p.pathBudget(len(line)))
		if p.passLabel != "" {
			line += "  " + ansiDim + p.passLabel + ansiReset
		}
	}
	fmt.Fprintln(p.w, line)

	p.hudDrawn = true
	p.hudLineCount = 2
	p.lastHUDDraw = time.Now()
}

// pathBudget is the room left for the current target after used columns,
// leaving space for the pass label.
func (p *hudPresenter) pathBudget(used int) int {
	if p.width <= 0 {
		return currentMaxLen
	}
	return max(currentMaxLen, p.width-used-passLabelWidth)
}

func (p *hudPresenter) clearHUD() {
	if !p.hudDrawn {
		return
	}
	lines := p.hudLineCount
	if lines == 0 {
		lines = 2 // fallback
	}
	// Move cursor up N lines and clear to end of screen.
	fmt.Fprintf(p.w, "\033[%dA\033[J", lines)
	p.hudDrawn = false
}

func (p *hudPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}

// styledPath returns the path with the directory portion dimmed and the
// filename in normal weight, making the actual filename stand out.
func (p *hudPresenter) styledPath(path string) string {
	path = StripRoot(p.root, path)
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if dir == "." || dir == "" {
		return base
	}
	return fmt.Sprintf("%s%s/%s%s", ansiDim, dir, ansiReset, base)
}

// truncPath shortens a path to fit within maxLen characters.
func truncPath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[:maxLen]
	}
	return "..." + path[len(path)-maxLen+3:]
}

// StripRoot removes a root prefix from a path, returning a clean relative path.
// Exported for use by the plain presenter.
func StripRoot(root, path string) string {
	if root == "" {
		return path
	}
	// Ensure root ends with separator for clean stripping.
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	if strings.HasPrefix(path, root) {
		return path[len(root):]
	}
	return path
}
