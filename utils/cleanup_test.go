package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupExpiredFiles(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "stale.xlsx")
	fresh := filepath.Join(dir, "fresh.xlsx")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o644))
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	removed, err := CleanupExpiredFiles(dir, 24*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
}

func TestCleanupMissingDirectoryIsNotAnError(t *testing.T) {
	removed, err := CleanupExpiredFiles(filepath.Join(t.TempDir(), "missing"), time.Hour)

	require.NoError(t, err)
	assert.Zero(t, removed)
}
