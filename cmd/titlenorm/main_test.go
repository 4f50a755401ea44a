package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsPath(t *testing.T) {
	dir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	got, err := absPath(dir)
	require.NoError(t, err)
	assert.Equal(t, resolved, got)

	got, err = absPath(filepath.Join(dir, "missing", "out.tsv"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resolved, "missing", "out.tsv"), got)
}

func TestAbsPath_Symlink(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	require.NoError(t, os.Mkdir(real, 0o755))
	link := filepath.Join(dir, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	want, err := absPath(filepath.Join(real, "out"))
	require.NoError(t, err)
	got, err := absPath(filepath.Join(link, "out"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
