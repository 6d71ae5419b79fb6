package command

import (
	"github.com/ape-lang/ape/manifest"
	cli "github.com/urfave/cli/v2"
)

// resolvedConfig merges project.toml's [config] table with this
// invocation's CLI flags, flags taking precedence when explicitly set:
// each flag overrides the manifest default it shares a name with.
type resolvedConfig struct {
	SideEffects bool
	Test        bool
	Log         bool
	Snippet     int
}

func resolveConfig(c *cli.Context, dir string) (resolvedConfig, error) {
	m, err := manifest.Load(dir)
	if err != nil {
		return resolvedConfig{}, err
	}

	cfg := resolvedConfig{
		SideEffects: m.Config.SideEffects,
		Snippet:     m.Config.Snippet,
		Test:        c.Bool("test"),
		Log:         c.Bool("log"),
	}
	if c.Bool("side-effects") {
		cfg.SideEffects = false
	}
	if c.IsSet("snippet") {
		cfg.Snippet = c.Int("snippet")
	}
	return cfg, nil
}
