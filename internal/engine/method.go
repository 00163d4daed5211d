package engine

import (
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
)

// Method selects how many overwrite passes run and with which patterns.
type Method int

const (
	Random Method = iota
	Paranoid
	Gutmann
)

// Methods lists every method in display order.
var Methods = []Method{Random, Paranoid, Gutmann}

func (m Method) String() string {
	switch m {
	case Random:
		return "random"
	case Paranoid:
		return "paranoid"
	case Gutmann:
		return "gutmann"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod accepts a method name, case-insensitively. "legacy" is kept as
// an alias for gutmann.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "random", "":
		return Random, nil
	case "paranoid":
		return Paranoid, nil
	case "gutmann", "legacy":
		return Gutmann, nil
	default:
		return Random, fmt.Errorf("unknown wipe method %q (use random, paranoid or gutmann)", s)
	}
}

// Pattern is the content of one overwrite pass: either a single repeating
// byte or fresh cryptographically random bytes.
type Pattern struct {
	Byte   byte
	Random bool
}

// RandomPattern is a pass of fresh random bytes.
var RandomPattern = Pattern{Random: true}

// Fill returns a Pattern repeating b.
func Fill(b byte) Pattern { return Pattern{Byte: b} }

func (p Pattern) String() string {
	if p.Random {
		return "random"
	}
	return fmt.Sprintf("%02x", p.Byte)
}

// ParsePattern parses "random" or a two-digit hex byte such as "ff" or "0x55".
func ParsePattern(s string) (Pattern, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "random" {
		return RandomPattern, nil
	}
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 1 {
		return Pattern{}, fmt.Errorf("invalid pass pattern %q (use \"random\" or a hex byte)", s)
	}
	return Fill(b[0]), nil
}

// PolicyTable maps each method to its ordered pass sequence. Pass counts
// are policy, not a guarantee; the config file may override them.
type PolicyTable map[Method][]Pattern

// DefaultPolicy returns the built-in pass tables.
func DefaultPolicy() PolicyTable {
	gutmannRound := []Pattern{Fill(0x55), Fill(0xAA), RandomPattern, Fill(0x00), Fill(0xFF)}
	return PolicyTable{
		Random: {RandomPattern, RandomPattern, Fill(0x00)},
		Paranoid: {
			Fill(0xFF), Fill(0x00),
			RandomPattern, RandomPattern, RandomPattern, RandomPattern, RandomPattern,
		},
		Gutmann: slices.Concat(gutmannRound, gutmannRound),
	}
}

// Patterns returns the pass sequence for m, falling back to the default
// table when t has no (or an empty) entry.
func (t PolicyTable) Patterns(m Method) []Pattern {
	if p := t[m]; len(p) > 0 {
		return p
	}
	return DefaultPolicy()[m]
}

// ParsePatterns parses a list of pattern strings, as found in the config file.
func ParsePatterns(specs []string) ([]Pattern, error) {
	out := make([]Pattern, 0, len(specs))
	for _, s := range specs {
		p, err := ParsePattern(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
