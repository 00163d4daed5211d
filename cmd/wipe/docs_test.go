package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenDocs(t *testing.T) {
	root := newRootCmd(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})

	dir := t.TempDir()
	require.NoError(t, genDocs(root, dir, "markdown"))
	md, err := os.ReadFile(filepath.Join(dir, "wipe.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "--no-snapshots")
	assert.Contains(t, string(md), "--dry-run")

	man := t.TempDir()
	require.NoError(t, genDocs(root, man, "man"))
	assert.FileExists(t, filepath.Join(man, "wipe.1"))

	require.Error(t, genDocs(root, t.TempDir(), "pdf"))
}
