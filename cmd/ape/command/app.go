// Package command implements the ape binary's CLI surface, grounded on
// openllb/hlb's cmd/hlb/command package: a *cli.App built from
// github.com/urfave/cli/v2, one file per command.
package command

import (
	"fmt"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v2"
)

// Version is the ape binary's version string, printed by the
// `--version`/`-v` flag.
const Version = "0.1.0"

// App builds the root *cli.App: a positional source file runs as a
// program (the default action), alongside the `ci`, `update`, `add`, and
// `remove` subcommands.
func App() *cli.App {
	app := cli.NewApp()
	app.Name = "ape"
	app.Usage = "runs an ape program"
	app.Description = "tree-walking interpreter for the ape language"
	app.UsageText = "ape [options] <file.ape>"
	app.HideVersion = true
	app.Commands = []*cli.Command{
		ciCommand,
		updateCommand,
		addCommand,
		removeCommand,
	}
	app.Flags = []cli.Flag{
		&cli.BoolFlag{Name: "version", Aliases: []string{"v"}, Usage: "print version"},
		&cli.BoolFlag{Name: "side-effects", Aliases: []string{"s"}, Usage: "disable side effects"},
		&cli.BoolFlag{Name: "log", Aliases: []string{"l"}, Usage: "enable verbose tracing"},
		&cli.BoolFlag{Name: "test", Aliases: []string{"t"}, Usage: "enable test-mode semantics"},
		&cli.IntFlag{Name: "snippet", Usage: "number of context lines around a diagnostic, overrides project.toml"},
	}
	app.Action = rootAction
	return app
}

func rootAction(c *cli.Context) error {
	if c.Bool("version") {
		fmt.Println(Version)
		return nil
	}

	if c.NArg() != 1 {
		return cli.Exit("must have exactly one source file argument", 1)
	}

	path := c.Args().First()
	src, err := os.ReadFile(path)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	return runSource(c, path, src, filepath.Dir(path))
}
