package platform

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var timeMachineSnapshot = regexp.MustCompile(`com\.apple\.TimeMachine\.(\S+)`)

// purgeTimeMachine lists local Time Machine snapshots on the boot volume and
// deletes each one by its date identifier.
func purgeTimeMachine(ctx context.Context, run Runner) SnapshotPurgeResult {
	out, err := run(ctx, "tmutil", "listlocalsnapshots", "/")
	if err != nil && len(out) == 0 {
		return SnapshotPurgeResult{Message: fmt.Sprintf("could not list local snapshots: %v", err)}
	}

	ids := parseTimeMachineSnapshots(string(out))
	if len(ids) == 0 {
		return SnapshotPurgeResult{Success: true, Message: "no local snapshots found"}
	}

	failed := 0
	for _, id := range ids {
		if _, err := run(ctx, "tmutil", "deletelocalsnapshots", id); err != nil {
			failed++
		}
	}
	if failed > 0 {
		return SnapshotPurgeResult{
			Failed:  failed,
			Message: fmt.Sprintf("failed to purge %d of %d local snapshots (need sudo)", failed, len(ids)),
		}
	}
	return SnapshotPurgeResult{
		Success: true,
		Message: fmt.Sprintf("purged %d local snapshots", len(ids)),
	}
}

// parseTimeMachineSnapshots extracts the date identifiers accepted by
// `tmutil deletelocalsnapshots` from `tmutil listlocalsnapshots` output.
func parseTimeMachineSnapshots(out string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, m := range timeMachineSnapshot.FindAllStringSubmatch(out, -1) {
		id := strings.TrimSuffix(m[1], ".local")
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// purgeShadowCopies deletes every volume shadow copy via vssadmin.
func purgeShadowCopies(ctx context.Context, run Runner) SnapshotPurgeResult {
	if _, err := run(ctx, "vssadmin", "Delete", "Shadows", "/All", "/Quiet"); err != nil {
		return SnapshotPurgeResult{Message: "shadow copy purge failed (admin rights likely missing)"}
	}
	return SnapshotPurgeResult{Success: true, Message: "shadow copies purged"}
}

// skipSnapshots is used where no native snapshot facility is assumed.
func skipSnapshots() SnapshotPurgeResult {
	return SnapshotPurgeResult{Success: true, Skipped: true, Message: "skipped (no native snapshots)"}
}
