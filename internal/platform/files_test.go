package platform

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	testDir := filepath.Join(t.TempDir(), "test_dir")

	_, err := os.Stat(testDir)
	require.True(t, os.IsNotExist(err), "test directory already exists: %s", testDir)

	require.NoError(t, CreateDirectoryIfNotExists(testDir))
	assert.DirExists(t, testDir)

	// Second call should not fail
	assert.NoError(t, CreateDirectoryIfNotExists(testDir))
}

func TestResolveOutputDir(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	dir, err := ResolveOutputDir("")
	require.NoError(t, err)
	assert.Equal(t, cwd, dir)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	dir, err = ResolveOutputDir("~/music")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "music"), dir)

	tmp := t.TempDir()
	dir, err = ResolveOutputDir(tmp)
	require.NoError(t, err)
	assert.Equal(t, tmp, dir)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.mp3")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "missing.mp3")))
	assert.False(t, FileExists(dir), "directories are not files")
}

func TestRemoveByBaseName(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"job.webm", "job.part", "job.mp3", "other.mp3"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	removed, err := RemoveByBaseName(dir, "job")
	require.NoError(t, err)
	sort.Strings(removed)

	require.Len(t, removed, 3)
	for _, r := range removed {
		assert.True(t, strings.HasPrefix(filepath.Base(r), "job."))
		assert.NoFileExists(t, r)
	}
	assert.FileExists(t, filepath.Join(dir, "other.mp3"))
}

func TestOpenFileInManager_NonExistentFile(t *testing.T) {
	err := OpenFileInManager(filepath.Join(t.TempDir(), "nonexistent.mp3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file does not exist:")
}
