package command

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	cli "github.com/urfave/cli/v2"
)

func contextWith(t *testing.T, boolFlags map[string]bool, intFlags map[string]int) *cli.Context {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	for name, v := range boolFlags {
		fs.Bool(name, v, "")
	}
	for name, v := range intFlags {
		fs.Int(name, v, "")
	}
	return cli.NewContext(App(), fs, nil)
}

func TestResolveConfigDefaultsFromManifest(t *testing.T) {
	dir := t.TempDir()
	c := contextWith(t, map[string]bool{"side-effects": false, "test": false, "log": false}, map[string]int{"snippet": 0})

	cfg, err := resolveConfig(c, dir)
	require.NoError(t, err)
	require.True(t, cfg.SideEffects)
	require.False(t, cfg.Test)
	require.Equal(t, 1, cfg.Snippet)
}

func TestResolveConfigFlagsOverrideManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "project.toml"), []byte("[config]\nsnippet = 2\n"), 0o600))

	c := contextWith(t, map[string]bool{"side-effects": true, "test": true, "log": true}, map[string]int{"snippet": 5})
	require.NoError(t, c.Set("snippet", "5"))

	cfg, err := resolveConfig(c, dir)
	require.NoError(t, err)
	require.False(t, cfg.SideEffects)
	require.True(t, cfg.Test)
	require.True(t, cfg.Log)
	require.Equal(t, 5, cfg.Snippet)
}

func TestAppRegistersModuleSubcommands(t *testing.T) {
	app := App()
	var names []string
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	require.ElementsMatch(t, []string{"ci", "update", "add", "remove"}, names)
}
