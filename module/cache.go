package module

import (
	"path/filepath"
	"sync"

	"github.com/ape-lang/ape/ast"
)

// Parsed is one cached module parse: its statements plus the resolver's
// expression-id -> depth map, which is fixed at parse time (ids are
// assigned by the same ast.IDGen that produced the statements) and so must
// travel with them rather than be recomputed per cache hit.
type Parsed struct {
	Stmts  []*ast.Stmt
	Locals map[int]int
}

// Cache memoizes a parsed module by cleaned file path for the lifetime of
// one run, so a file `mod`-ed from multiple `use` sites is lexed, parsed,
// and resolved once, grounded on `ape_bundler`'s per-run module cache — it
// changes nothing observable about evaluation order or diagnostics, only
// how many times a given file's bytes are re-parsed.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Parsed
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: map[string]Parsed{}}
}

// Get returns the cached parse for path, if present. Get and Store key
// entries by filepath.Clean(path) and do not make the path absolute, so one
// file reached through two differently rooted paths is cached twice.
func (c *Cache) Get(path string) (Parsed, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[filepath.Clean(path)]
	return p, ok
}

// Store records the parsed module for path.
func (c *Cache) Store(path string, p Parsed) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[filepath.Clean(path)] = p
}
