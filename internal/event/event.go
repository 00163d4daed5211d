package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	SessionStarted Type = iota + 1
	SnapshotPurged
	SecurityDegraded
	TargetStarted
	PassCompleted
	TargetCompleted
	TargetFailed
	DirRenamed
	Finished
)

var typeNames = [...]string{
	SessionStarted:   "SessionStarted",
	SnapshotPurged:   "SnapshotPurged",
	SecurityDegraded: "SecurityDegraded",
	TargetStarted:    "TargetStarted",
	PassCompleted:    "PassCompleted",
	TargetCompleted:  "TargetCompleted",
	TargetFailed:     "TargetFailed",
	DirRenamed:       "DirRenamed",
	Finished:         "Finished",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress or status event from a wipe session.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string // target path (or file inside a directory target)
	Label     string // human-readable status text
	Error     error
	Size      int64 // bytes processed (TargetCompleted) or pass length (PassCompleted)
	Index     int   // 1-based target index
	Total     int   // number of targets in the session
	Pass      int   // 1-based pass number (PassCompleted)
}

// IsProgress reports whether the event marks the end of one target.
// Exactly one progress event is emitted per target.
func (e Event) IsProgress() bool {
	return e.Type == TargetCompleted || e.Type == TargetFailed
}
