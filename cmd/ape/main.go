// Command ape is the ape language interpreter's CLI entrypoint.
//
// Grounded on openllb/hlb's cmd/hlb/main.go: a thin main that hands off
// immediately to the command package's *cli.App.
package main

import (
	"fmt"
	"os"

	"github.com/ape-lang/ape/cmd/ape/command"
)

func main() {
	if err := command.App().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
