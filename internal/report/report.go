// Package report renders a wipe session as a YAML document for audit trails.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bamsammich/wipe/internal/engine"
)

// Limitations is the forensic-limitations notice shown before destruction
// and carried in every report.
var Limitations = []string{
	"SSD/NVMe wear leveling and over-provisioning may keep copies of old blocks that no overwrite can reach.",
	"Copy-on-write and journaling filesystems (APFS, Btrfs, ZFS, ext4 data journaling) may retain earlier versions of the data.",
	"Backups, cloud sync, swap, hibernation files and application caches are outside the reach of a file wipe.",
	"Full-disk encryption is the only reliable protection for solid-state storage.",
}

// Report is the serialized form of a session.
type Report struct {
	Started     time.Time `yaml:"started"`
	Finished    time.Time `yaml:"finished"`
	Host        string    `yaml:"host,omitempty"`
	Method      string    `yaml:"method"`
	Passes      []string  `yaml:"passes"`
	Snapshots   Snapshots `yaml:"snapshots"`
	Targets     []Target  `yaml:"targets"`
	Totals      Totals    `yaml:"totals"`
	Limitations []string  `yaml:"limitations"`
	Verify      bool      `yaml:"verify"`
	DryRun      bool      `yaml:"dry_run,omitempty"`
	Cancelled   bool      `yaml:"cancelled,omitempty"`
}

// Snapshots records the outcome of the snapshot purge.
type Snapshots struct {
	Message  string `yaml:"message"`
	Failed   int    `yaml:"failed,omitempty"`
	Success  bool   `yaml:"success"`
	Skipped  bool   `yaml:"skipped,omitempty"`
	Degraded bool   `yaml:"degraded"`
}

// Target records one top-level target.
type Target struct {
	Path    string `yaml:"path"`
	Kind    string `yaml:"kind"`
	Error   string `yaml:"error,omitempty"`
	ErrKind string `yaml:"error_kind,omitempty"`
	Bytes   int64  `yaml:"bytes,omitempty"`
	Wiped   int    `yaml:"entries_wiped,omitempty"`
	Failed  int    `yaml:"entries_failed,omitempty"`
	Success bool   `yaml:"success"`
}

// Totals mirrors the session counters.
type Totals struct {
	Targets      int64  `yaml:"targets"`
	Succeeded    int    `yaml:"succeeded"`
	FilesWiped   int64  `yaml:"files_wiped"`
	FilesFailed  int64  `yaml:"files_failed"`
	Symlinks     int64  `yaml:"symlinks_unlinked"`
	BytesWiped   int64  `yaml:"bytes_wiped"`
	BytesWritten int64  `yaml:"bytes_written"`
	Passes       int64  `yaml:"passes"`
	Dirs         int64  `yaml:"dirs_removed"`
	Elapsed      string `yaml:"elapsed"`
}

// Meta carries the session settings that are not part of engine.Result.
type Meta struct {
	Started time.Time
	Method  engine.Method
	Passes  []engine.Pattern
	Verify  bool
	DryRun  bool
}

// New builds a Report from a finished session.
func New(meta Meta, res engine.Result) Report {
	host, _ := os.Hostname()
	r := Report{
		Started:  meta.Started.UTC().Truncate(time.Second),
		Finished: meta.Started.Add(res.Stats.Elapsed).UTC().Truncate(time.Second),
		Host:     host,
		Method:   meta.Method.String(),
		Verify:   meta.Verify,
		DryRun:   meta.DryRun,
		Snapshots: Snapshots{
			Message:  res.Snapshot.Message,
			Failed:   res.Snapshot.Failed,
			Success:  res.Snapshot.Success,
			Skipped:  res.Snapshot.Skipped,
			Degraded: res.Degraded,
		},
		Cancelled:   res.Cancelled,
		Limitations: Limitations,
		Totals: Totals{
			Targets:      res.Stats.TargetsTotal,
			Succeeded:    res.Succeeded(),
			FilesWiped:   res.Stats.FilesWiped,
			FilesFailed:  res.Stats.FilesFailed,
			Symlinks:     res.Stats.SymlinksUnlinked,
			BytesWiped:   res.Stats.BytesWiped,
			BytesWritten: res.Stats.BytesWritten,
			Passes:       res.Stats.PassesCompleted,
			Dirs:         res.Stats.DirsRemoved,
			Elapsed:      res.Stats.Elapsed.Round(time.Millisecond).String(),
		},
	}
	for _, p := range meta.Passes {
		r.Passes = append(r.Passes, p.String())
	}
	for _, t := range res.Targets {
		rt := Target{
			Path:    t.Path,
			Kind:    t.Kind.String(),
			Bytes:   t.Bytes,
			Wiped:   t.Wiped,
			Failed:  t.Failed,
			Success: t.Success,
		}
		if t.Err != nil {
			rt.Error = t.Err.Error()
			rt.ErrKind = t.ErrKind.String()
		}
		r.Targets = append(r.Targets, rt)
	}
	return r
}

// Write encodes r as YAML to w.
func (r Report) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

// WriteFile writes r to path, readable only by the owner.
func (r Report) WriteFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := r.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
