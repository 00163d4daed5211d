package engine

import (
	"io/fs"
	"os"
)

// TargetKind identifies what a target path refers to. It is decided once,
// from Lstat, and never re-resolved during the pipeline.
type TargetKind int

const (
	File TargetKind = iota
	Symlink
	Directory
	Other // device, socket, fifo: never written to
)

func (k TargetKind) String() string {
	switch k {
	case File:
		return "file"
	case Symlink:
		return "symlink"
	case Directory:
		return "directory"
	default:
		return "other"
	}
}

// Target is a single path selected for destruction.
type Target struct {
	Path string
	Kind TargetKind
}

// Classify resolves the kind of path without following symlinks.
func Classify(path string) (Target, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return Target{Path: path}, stageErr("classify", path, err)
	}
	return Target{Path: path, Kind: kindOf(info.Mode())}, nil
}

func kindOf(mode fs.FileMode) TargetKind {
	switch {
	case mode&fs.ModeSymlink != 0:
		return Symlink
	case mode.IsDir():
		return Directory
	case mode.IsRegular():
		return File
	default:
		return Other
	}
}
