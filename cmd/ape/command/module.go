package command

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ape-lang/ape/module"
	cli "github.com/urfave/cli/v2"
)

// update/add/remove are the module operations, explicitly out of core
// scope: they manage this project's ape.lock and vendor directory
// directly, without a network fetcher (no such dependency is wired into
// this module — fetching a remote module's bytes is left to whatever
// invokes these commands to have already placed in the vendor directory,
// matching openllb/hlb's own module subcommands being thin wrappers
// around a much larger out-of-scope resolve/vendor backend).

var updateCommand = &cli.Command{
	Name:  "update",
	Usage: "revalidates vendored modules and removes unreferenced ones",
	Action: func(c *cli.Context) error {
		root, err := vendorRoot(".")
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		lock, err := module.ReadLock(root)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		for _, e := range lock.Entries {
			data, err := os.ReadFile(filepath.Join(root, e.VendorID, module.ModuleFilename))
			if err != nil {
				return cli.Exit(fmt.Sprintf("module %q is locked but not vendored, run `ape add %s`", e.ImportPath, e.Repository), 1)
			}
			if err := module.ValidateSource(e.ImportPath, data); err != nil {
				return cli.Exit(err.Error(), 1)
			}
		}
		if err := module.Tidy(root, lock); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		fmt.Printf("%d module(s) up to date\n", len(lock.Entries))
		return nil
	},
}

var addCommand = &cli.Command{
	Name:      "add",
	Usage:     "records a vendored module in ape.lock",
	ArgsUsage: "<repo> [alias]",
	Action: func(c *cli.Context) error {
		if c.NArg() < 1 {
			return cli.Exit("usage: ape add <repo> [alias]", 1)
		}
		repo := c.Args().Get(0)
		alias := c.Args().Get(1)

		root, err := vendorRoot(".")
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		lock, err := module.ReadLock(root)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		entry := lock.Add(repo, repo, alias)
		if _, statErr := os.Stat(filepath.Join(root, entry.VendorID, module.ModuleFilename)); os.IsNotExist(statErr) {
			if err := module.Vendor(root, entry, nil); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Printf("added %q with an empty placeholder; vendor its real source at %s\n",
				repo, filepath.Join(root, entry.VendorID, module.ModuleFilename))
		}

		if err := lock.Write(); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		return nil
	},
}

var removeCommand = &cli.Command{
	Name:      "remove",
	Usage:     "removes a module from ape.lock and tidies its vendor directory",
	ArgsUsage: "<name>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit("usage: ape remove <name>", 1)
		}
		name := c.Args().Get(0)

		root, err := vendorRoot(".")
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		lock, err := module.ReadLock(root)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		if !lock.Remove(name) {
			return cli.Exit(fmt.Sprintf("module %q is not locked", name), 1)
		}
		if err := module.Tidy(root, lock); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		return lock.Write()
	},
}

func vendorRoot(dir string) (string, error) {
	return filepath.Abs(filepath.Join(dir, module.VendorDir))
}
