package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	for in, want := range map[string]Method{
		"random":   Random,
		"":         Random,
		"Paranoid": Paranoid,
		"gutmann":  Gutmann,
		"legacy":   Gutmann,
	} {
		got, err := ParseMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMethod("dod")
	require.Error(t, err)
}

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern("random")
	require.NoError(t, err)
	assert.True(t, p.Random)

	p, err = ParsePattern("ff")
	require.NoError(t, err)
	assert.Equal(t, Fill(0xFF), p)

	p, err = ParsePattern("0x55")
	require.NoError(t, err)
	assert.Equal(t, Fill(0x55), p)

	for _, bad := range []string{"", "zz", "fff", "0x"} {
		_, err := ParsePattern(bad)
		assert.Error(t, err, bad)
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, []Pattern{RandomPattern, RandomPattern, Fill(0x00)}, p[Random])

	require.Len(t, p[Paranoid], 7)
	assert.Equal(t, Fill(0xFF), p[Paranoid][0])
	assert.Equal(t, Fill(0x00), p[Paranoid][1])
	for _, pat := range p[Paranoid][2:] {
		assert.True(t, pat.Random)
	}

	round := []Pattern{Fill(0x55), Fill(0xAA), RandomPattern, Fill(0x00), Fill(0xFF)}
	require.Len(t, p[Gutmann], 10)
	assert.Equal(t, round, p[Gutmann][:5])
	assert.Equal(t, round, p[Gutmann][5:])
}

func TestPolicyTableOverride(t *testing.T) {
	custom := PolicyTable{Paranoid: {Fill(0x11)}}

	assert.Equal(t, []Pattern{Fill(0x11)}, custom.Patterns(Paranoid))
	// Methods without an override keep their defaults.
	assert.Equal(t, DefaultPolicy()[Gutmann], custom.Patterns(Gutmann))
}

func TestParsePatterns(t *testing.T) {
	got, err := ParsePatterns([]string{"ff", "00", "random"})
	require.NoError(t, err)
	assert.Equal(t, []Pattern{Fill(0xFF), Fill(0x00), RandomPattern}, got)

	_, err = ParsePatterns([]string{"ff", "nope"})
	require.Error(t, err)
}

func TestPatternString(t *testing.T) {
	assert.Equal(t, "random", RandomPattern.String())
	assert.Equal(t, "0a", Fill(0x0A).String())
}
