package module

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Entry is one locked module: the import path it was fetched for, the
// repository it came from, and the stable vendor id its source is stored
// under. A uuid (rather than a content digest, since there is no
// `llb.State` to marshal here) keeps the vendor directory name stable
// across re-vendors of the same import path so a lock update doesn't
// orphan the previous directory until Tidy runs.
type Entry struct {
	ImportPath string `json:"import_path"`
	Repository string `json:"repository"`
	Alias      string `json:"alias,omitempty"`
	VendorID   string `json:"vendor_id"`
}

// Lock is the append/overwrite-only contents of the lock file: one Entry
// per distinct import path, matching openllb/hlb's module/lock.go comment
// ("Lock is append/overwrite-only") applied to a flat JSON list instead of
// a directory tree of vendored vertices.
type Lock struct {
	mu      sync.Mutex
	path    string
	Entries []Entry `json:"entries"`
}

// ReadLock loads the lock file at root/LockFilename, returning an empty Lock
// (not an error) if the file does not yet exist — a project with no
// vendored modules is valid.
func ReadLock(root string) (*Lock, error) {
	l := &Lock{path: filepath.Join(root, LockFilename)}
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, errors.Wrap(err, "reading lock file")
	}
	if err := json.Unmarshal(data, l); err != nil {
		return nil, errors.Wrap(err, "parsing lock file")
	}
	return l, nil
}

// Find returns the entry for importPath, if locked.
func (l *Lock) Find(importPath string) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.Entries {
		if e.ImportPath == importPath {
			return e, true
		}
	}
	return Entry{}, false
}

// Add records (or overwrites, by import path) a locked module, assigning it
// a fresh vendor id if it has none yet. Returns the entry actually stored,
// so the caller knows which vendor-id directory to write the source into.
func (l *Lock) Add(importPath, repository, alias string) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	for idx, e := range l.Entries {
		if e.ImportPath == importPath {
			e.Repository = repository
			e.Alias = alias
			l.Entries[idx] = e
			return e
		}
	}
	entry := Entry{ImportPath: importPath, Repository: repository, Alias: alias, VendorID: uuid.New().String()}
	l.Entries = append(l.Entries, entry)
	return entry
}

// Remove deletes the entry for importPath, reporting whether one existed.
func (l *Lock) Remove(importPath string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for idx, e := range l.Entries {
		if e.ImportPath == importPath {
			l.Entries = append(l.Entries[:idx], l.Entries[idx+1:]...)
			return true
		}
	}
	return false
}

// Write persists the lock file, creating its directory if necessary.
func (l *Lock) Write() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(l.path), 0o700); err != nil {
		return errors.Wrap(err, "creating lock directory")
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding lock file")
	}
	return os.WriteFile(l.path, data, 0o600)
}

// Vendor writes src under the entry's vendor-id directory as module.ape,
// matching openllb/hlb's Lock function writing each resolved import's
// source into its digest-addressed vertex path.
func Vendor(root string, entry Entry, src []byte) error {
	dir := filepath.Join(root, entry.VendorID)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "creating vendor directory")
	}
	return os.WriteFile(filepath.Join(dir, ModuleFilename), src, 0o600)
}

// Tidy removes every vendored directory not referenced by any entry in l,
// matching openllb/hlb's tidy sweep in module/lock.go and module/vendor.go.
func Tidy(root string, l *Lock) error {
	matches, err := filepath.Glob(filepath.Join(root, "*"))
	if err != nil {
		return errors.Wrap(err, "listing vendor directory")
	}
	keep := make(map[string]bool, len(l.Entries))
	for _, e := range l.Entries {
		keep[filepath.Join(root, e.VendorID)] = true
	}
	for _, m := range matches {
		if m == l.path || keep[m] {
			continue
		}
		if err := os.RemoveAll(m); err != nil {
			return errors.Wrapf(err, "removing stale vendor directory %q", m)
		}
	}
	return nil
}
