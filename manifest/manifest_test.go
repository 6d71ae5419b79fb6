package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ape-lang/ape/manifest"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingManifestReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	m, err := manifest.Load(dir)
	require.NoError(t, err)
	require.Equal(t, manifest.Default(), m)
}

func TestLoadPartialManifestKeepsRemainingDefaults(t *testing.T) {
	dir := t.TempDir()
	contents := `
[project]
name = "widgets"
version = "2.0.0"

[config]
snippet = 3
disable_std = true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, manifest.Filename), []byte(contents), 0o600))

	m, err := manifest.Load(dir)
	require.NoError(t, err)

	require.Equal(t, "widgets", m.Project.Name)
	require.Equal(t, "2.0.0", m.Project.Version)
	require.Equal(t, "MIT", m.Project.License) // untouched default survives

	require.Equal(t, 3, m.Config.Snippet)
	require.True(t, m.Config.DisableStd)
	require.True(t, m.Config.SideEffects) // untouched default survives
}

func TestLoadModuleRefs(t *testing.T) {
	dir := t.TempDir()
	contents := `
[[modules]]
alias = "util"
repository = "https://example.com/util.git"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, manifest.Filename), []byte(contents), 0o600))

	m, err := manifest.Load(dir)
	require.NoError(t, err)
	require.Len(t, m.Modules, 1)
	require.Equal(t, "util", m.Modules[0].Alias)
	require.Equal(t, "https://example.com/util.git", m.Modules[0].Repository)
}
