package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	abs := filepath.Join(t.TempDir(), "exports")

	paths, err := ResolvePaths(PathsConfig{
		BaseDir:    base,
		DataDir:    "datasets",
		ExportsDir: abs,
	})
	require.NoError(t, err)

	assert.Equal(t, base, paths.BaseDir)
	assert.Equal(t, filepath.Join(base, "datasets"), paths.DataDir)
	assert.Equal(t, filepath.Join(base, "logs"), paths.LogsDir)
	assert.Equal(t, abs, paths.ExportsDir)
	assert.Equal(t, filepath.Join(base, "data", "vgsales.csv"), paths.Resolve("data/vgsales.csv"))
	assert.Equal(t, "/srv/x.csv", paths.Resolve("/srv/x.csv"))
}

func TestResolvePathsDefaultsToWorkingDir(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	paths, err := ResolvePaths(PathsConfig{})
	require.NoError(t, err)
	assert.Equal(t, wd, paths.BaseDir)
}

func TestEnsureDirectories(t *testing.T) {
	paths, err := ResolvePaths(PathsConfig{BaseDir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.DataDir, paths.LogsDir, paths.ExportsDir} {
		assert.DirExists(t, dir)
	}
	assert.True(t, FileExists(paths.DataDir))
	assert.False(t, FileExists(filepath.Join(paths.DataDir, "missing.csv")))
}
