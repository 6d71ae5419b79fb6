// Package module implements the module collaborator contract: the
// `mod`/`use` statements resolve module sources by filesystem path for the
// core evaluator, but the CLI's `update`/`add <repo> [alias]`/`remove <name>`
// subcommands additionally need a way to vendor a fetched module's source
// next to a lock file so a later `mod` reads a stable local copy rather than
// re-fetching every run.
//
// Grounded on openllb/hlb's module/resolve.go Resolver interface and its
// local-then-remote resolution order, stripped of every BuildKit/LLB
// concern: there is no build-graph backend here, so resolution is plain
// `io.ReadCloser` over source bytes keyed by a string import path rather
// than by a marshaled `llb.State` digest.
package module

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var (
	// VendorDir is the directory module sources are vendored into, relative
	// to the project root, mirroring openllb/hlb's DotHLBPath/ModulesPath
	// pair collapsed into one directory since this module has no separate
	// build-cache concern to keep apart from vendored sources.
	VendorDir = ".ape/modules"

	// LockFilename is the name of the lock file written into VendorDir.
	LockFilename = "ape.lock"
)

// Resolver resolves an import path to its source bytes. `mod "./util.ape"`
// paths are resolved directly off disk by the evaluator (eval/module.go)
// without going through this interface at all, and the CLI's
// `update`/`add`/`remove` commands read the lock and vendor directory
// directly without it. It is deliberately narrow — one method, no
// scope/AST coupling.
type Resolver interface {
	Resolve(ctx context.Context, importPath string) (io.ReadCloser, error)
}

// localResolver reads an already-vendored module from VendorDir by its lock
// entry's VendorID, matching openllb/hlb's lockResolver reading from a
// digest-addressed path instead of a fetch.
type localResolver struct {
	root string
	lock *Lock
}

func (r *localResolver) Resolve(ctx context.Context, importPath string) (io.ReadCloser, error) {
	entry, ok := r.lock.Find(importPath)
	if !ok {
		return nil, errors.Errorf("missing module %q from lock, run `ape add` to record it", importPath)
	}
	f, err := os.Open(filepath.Join(r.root, entry.VendorID, ModuleFilename))
	if err != nil {
		return nil, errors.Wrapf(err, "opening vendored module %q", importPath)
	}
	return f, nil
}

// ModuleFilename is the fixed filename a vendored module's source is
// written under inside its vendor-id directory.
const ModuleFilename = "module.ape"

// NewResolver returns a Resolver reading from the lock file under dir's
// VendorDir. A missing lock file is not an error: the Resolver then has no
// entries and every Resolve call fails with a missing-module error.
func NewResolver(dir string) (Resolver, error) {
	root, err := filepath.Abs(filepath.Join(dir, VendorDir))
	if err != nil {
		return nil, err
	}
	lock, err := ReadLock(root)
	if err != nil {
		return nil, err
	}
	return &localResolver{root: root, lock: lock}, nil
}

// ResolveAll resolves every import path concurrently, matching
// openllb/hlb's errgroup-based fan-out over an import graph's edges
// (module/resolve.go's ResolveGraph) but flattened to one level since this
// module's `use` statements never recurse through the Resolver themselves
// (a `mod`-loaded file's own `mod` statements recurse through the
// evaluator, not through this package).
func ResolveAll(ctx context.Context, r Resolver, importPaths []string) (map[string][]byte, error) {
	var mu sync.Mutex
	out := make(map[string][]byte, len(importPaths))

	g, ctx := errgroup.WithContext(ctx)
	for _, path := range importPaths {
		path := path
		g.Go(func() error {
			rc, err := r.Resolve(ctx, path)
			if err != nil {
				return err
			}
			defer rc.Close()

			data, err := io.ReadAll(rc)
			if err != nil {
				return errors.Wrapf(err, "reading module %q", path)
			}

			mu.Lock()
			out[path] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
