package ui

import (
	"fmt"

	"github.com/bamsammich/wipe/internal/stats"
)

// CompletionSummary builds a final summary line from a snapshot.
// Format: done ✓  targets 3/3  files 12  links 1  written 48.0 MiB  avg 41 MB/s  time 3s  errors 0
func CompletionSummary(snap stats.Snapshot) string {
	avgSpeed := 0.0
	if snap.Elapsed.Seconds() > 0 {
		avgSpeed = float64(snap.BytesWritten) / snap.Elapsed.Seconds()
	}

	icon := "✓"
	if snap.FilesFailed > 0 || snap.TargetsDone < snap.TargetsTotal {
		icon = "✗"
	}

	base := fmt.Sprintf("done %s  targets %d/%d  files %s",
		icon, snap.TargetsDone, snap.TargetsTotal, FormatCount(snap.FilesWiped))
	if snap.SymlinksUnlinked > 0 {
		base += fmt.Sprintf("  links %s", FormatCount(snap.SymlinksUnlinked))
	}
	base += fmt.Sprintf("  written %s  avg %s  time %s  errors %d",
		FormatBytes(snap.BytesWritten),
		FormatRate(avgSpeed),
		FormatDuration(snap.Elapsed),
		snap.FilesFailed,
	)
	return base
}
