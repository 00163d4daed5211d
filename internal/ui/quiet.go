package ui

import (
	"fmt"
	"io"

	"github.com/bamsammich/wipe/internal/stats"
)

// quietPresenter consumes events and prints nothing but the degraded
// security warning, which is never suppressed.
type quietPresenter struct {
	errW  io.Writer
	stats stats.Reader
}

func (p *quietPresenter) Run(events <-chan Event) error {
	for ev := range events {
		if ev.Type == SecurityDegraded && p.errW != nil {
			fmt.Fprintf(p.errW, "warning: security degraded: %s\n", ev.Label)
		}
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	return ""
}
