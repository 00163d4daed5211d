package engine

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrorKind classifies why a target (or the session) did not fully succeed.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindSafetyRejection
	KindPermissionDenied
	KindIOFailure
	KindRenameCollision
	KindSnapshotPartial
)

var kindNames = [...]string{
	KindNone:             "none",
	KindSafetyRejection:  "safety rejection",
	KindPermissionDenied: "permission denied",
	KindIOFailure:        "i/o failure",
	KindRenameCollision:  "rename collision",
	KindSnapshotPartial:  "snapshot purge partial",
}

func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Sentinel errors, one per kind. Stage errors match them with errors.Is.
var (
	ErrSafetyRejection  = errors.New("safety rejection")
	ErrPermissionDenied = errors.New("permission denied")
	ErrIOFailure        = errors.New("i/o failure")
	ErrRenameCollision  = errors.New("rename collision")
	ErrSnapshotPartial  = errors.New("snapshot purge partial")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindSafetyRejection:
		return ErrSafetyRejection
	case KindPermissionDenied:
		return ErrPermissionDenied
	case KindIOFailure:
		return ErrIOFailure
	case KindRenameCollision:
		return ErrRenameCollision
	case KindSnapshotPartial:
		return ErrSnapshotPartial
	default:
		return nil
	}
}

// StageError records which pipeline stage failed for which path.
type StageError struct {
	Err   error
	Stage string
	Path  string
	Kind  ErrorKind
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Is lets errors.Is match the sentinel for the error's kind.
func (e *StageError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// stageErr wraps err for stage/path, classifying permission problems
// separately from other I/O failures.
func stageErr(stage, path string, err error) error {
	if err == nil {
		return nil
	}
	kind := KindIOFailure
	if errors.Is(err, fs.ErrPermission) {
		kind = KindPermissionDenied
	}
	return &StageError{Stage: stage, Path: path, Kind: kind, Err: err}
}

// KindOf returns the ErrorKind carried by err. Unclassified non-nil errors
// are I/O failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	for k := KindSafetyRejection; k <= KindSnapshotPartial; k++ {
		if errors.Is(err, k.sentinel()) {
			return k
		}
	}
	if errors.Is(err, fs.ErrPermission) {
		return KindPermissionDenied
	}
	return KindIOFailure
}
