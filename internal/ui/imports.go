package ui

import "github.com/bamsammich/wipe/internal/event"

// Event is the engine event consumed by presenters.
type Event = event.Event

// Re-export event types for convenience.
const (
	SessionStarted   = event.SessionStarted
	SnapshotPurged   = event.SnapshotPurged
	SecurityDegraded = event.SecurityDegraded
	TargetStarted    = event.TargetStarted
	PassCompleted    = event.PassCompleted
	TargetCompleted  = event.TargetCompleted
	TargetFailed     = event.TargetFailed
	DirRenamed       = event.DirRenamed
	Finished         = event.Finished
)
