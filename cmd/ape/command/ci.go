package command

import (
	"io"
	"os"

	cli "github.com/urfave/cli/v2"
)

// ciCommand implements the `ci` subcommand: read a program from
// standard input until EOF, then run it. `mod` statements in a `ci`
// program have no file on disk to resolve relative paths against, so
// baseDir is the current working directory.
var ciCommand = &cli.Command{
	Name:  "ci",
	Usage: "reads an ape program from standard input and runs it",
	Action: func(c *cli.Context) error {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		dir, err := os.Getwd()
		if err != nil {
			dir = "."
		}
		return runSource(c, "<stdin>", src, dir)
	},
}
