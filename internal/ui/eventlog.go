package ui

import (
	"context"
	"log/slog"
)

// TeeEvents forwards every event from in to the returned channel, logging
// each one as a structured "wipe.event" record first. The returned channel
// is closed when in is closed.
func TeeEvents(in <-chan Event, logger *slog.Logger) <-chan Event {
	out := make(chan Event, cap(in))
	go func() {
		defer close(out)
		for ev := range in {
			LogEvent(logger, ev)
			out <- ev
		}
	}()
	return out
}

// LogEvent writes ev as a single structured log record.
func LogEvent(logger *slog.Logger, ev Event) {
	attrs := []any{"type", ev.Type.String()}
	if ev.Path != "" {
		attrs = append(attrs, "path", ev.Path)
	}
	if ev.Label != "" {
		attrs = append(attrs, "label", ev.Label)
	}
	if ev.Total > 0 {
		attrs = append(attrs, "index", ev.Index, "total", ev.Total)
	}
	if ev.Pass > 0 {
		attrs = append(attrs, "pass", ev.Pass)
	}
	if ev.Size > 0 {
		attrs = append(attrs, "size", ev.Size)
	}

	level := slog.LevelInfo
	switch ev.Type {
	case PassCompleted, DirRenamed:
		level = slog.LevelDebug
	case TargetFailed, SecurityDegraded:
		level = slog.LevelWarn
	}
	if ev.Error != nil {
		attrs = append(attrs, "error", ev.Error.Error())
	}
	logger.Log(context.Background(), level, "wipe.event", attrs...)
}
