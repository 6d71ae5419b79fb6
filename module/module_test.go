package module

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ape-lang/ape/ast"
	"github.com/stretchr/testify/require"
)

func TestLockAddFindRemove(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	lock, err := ReadLock(dir)
	require.NoError(t, err)

	_, ok := lock.Find("example.com/util")
	require.False(t, ok)

	entry := lock.Add("example.com/util", "https://example.com/util.git", "")
	require.NotEmpty(t, entry.VendorID)

	found, ok := lock.Find("example.com/util")
	require.True(t, ok)
	require.Equal(t, entry.VendorID, found.VendorID)

	require.NoError(t, lock.Write())

	reloaded, err := ReadLock(dir)
	require.NoError(t, err)
	_, ok = reloaded.Find("example.com/util")
	require.True(t, ok)

	require.True(t, lock.Remove("example.com/util"))
	_, ok = lock.Find("example.com/util")
	require.False(t, ok)
}

func TestVendorAndResolve(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	lock, err := ReadLock(dir)
	require.NoError(t, err)

	entry := lock.Add("example.com/util", "https://example.com/util.git", "")
	require.NoError(t, Vendor(dir, entry, []byte("func id(x: number) -> number = x;")))
	require.NoError(t, lock.Write())

	r := &localResolver{root: dir, lock: lock}
	rc, err := r.Resolve(context.Background(), "example.com/util")
	require.NoError(t, err)
	defer rc.Close()

	data, err := os.ReadFile(filepath.Join(dir, entry.VendorID, ModuleFilename))
	require.NoError(t, err)
	require.Contains(t, string(data), "func id")
}

func TestTidyRemovesUnreferencedVendorDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	lock, err := ReadLock(dir)
	require.NoError(t, err)

	kept := lock.Add("example.com/keep", "https://example.com/keep.git", "")
	require.NoError(t, Vendor(dir, kept, []byte("let x: number = 1;")))

	stale := filepath.Join(dir, "stale-vendor-id")
	require.NoError(t, os.MkdirAll(stale, 0o700))

	require.NoError(t, Tidy(dir, lock))

	_, err = os.Stat(stale)
	require.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(dir, kept.VendorID))
	require.NoError(t, err)
}

func TestCacheStoresAndRetrievesParse(t *testing.T) {
	t.Parallel()

	c := NewCache()
	_, ok := c.Get("/tmp/does-not-exist.ape")
	require.False(t, ok)

	stmts := []*ast.Stmt{{Kind: ast.SExpr}}
	c.Store("/tmp/mod.ape", Parsed{Stmts: stmts, Locals: map[int]int{0: 1}})

	got, ok := c.Get("/tmp/mod.ape")
	require.True(t, ok)
	require.Len(t, got.Stmts, 1)
	require.Equal(t, 1, got.Locals[0])
}

func TestValidateSourceAcceptsPlainText(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateSource("ok.ape", []byte("let x: number = 1;")))
}
