package ui

import (
	"slices"
	"strings"
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws the most recent throughput samples as block characters,
// oldest on the left, scaled to the busiest sample in view. Missing history
// is drawn as idle so the line is always width runes wide.
func Sparkline(samples []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}

	peak := 0.0
	if len(samples) > 0 {
		peak = slices.Max(samples)
	}
	top := len(sparkLevels) - 1

	var b strings.Builder
	b.WriteString(strings.Repeat(string(sparkLevels[0]), width-len(samples)))
	for _, v := range samples {
		level := 0
		if peak > 0 && v > 0 {
			level = min(int(v/peak*float64(top)), top)
		}
		b.WriteRune(sparkLevels[level])
	}
	return b.String()
}
