// Package manifest reads the optional `project.toml` file: two tables,
// `project` (package metadata) and `config` (evaluator defaults the CLI
// falls back to when a flag is not given).
//
// Grounded on original_source/src/manifest.rs's `Project` struct for field
// names, defaults, and the "missing file is not an error" load semantics;
// translated from its hand-rolled `toml::Value` table-walking (each field
// read with an `is_some()` guard before a `get_str`/`get_bool`/`get_int`
// helper) into a single `go-toml` struct-tag unmarshal, since Go's TOML
// library already gives us that mapping directly rather than needing the
// Rust code's manual per-field existence checks.
package manifest

import (
	"os"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Filename is the manifest file read from the directory passed to Load, matching
// original_source's hardcoded "project.toml" path.
const Filename = "project.toml"

// ModuleRef is one `[[modules]]` entry: a locally-aliased vendored module.
// Not one of the two manifest tables read elsewhere in this package, but
// present in original_source's `Project.modules` field; carried here as
// a supplement
// since it is exactly the data module.Lock's Entry needs to seed a fresh
// lock file from a checked-in manifest.
type ModuleRef struct {
	Alias      string `toml:"alias"`
	Repository string `toml:"repository"`
}

// Project holds project.toml's `project` table: package metadata with no
// evaluation-time effect, used only for display (e.g. a future `ape
// --version` banner) and documentation.
type Project struct {
	Name           string   `toml:"name"`
	Version        string   `toml:"version"`
	Description    string   `toml:"description"`
	Authors        []string `toml:"authors"`
	License        string   `toml:"license"`
	LicenseFile    string   `toml:"license_file"`
	Repository     string   `toml:"repository"`
	Documentation  string   `toml:"documentation"`
	Readme         string   `toml:"readme"`
	AutoUpdate     bool     `toml:"auto_update"`
	Edition        string   `toml:"edition"`
}

// Config holds project.toml's `config` table: the evaluator/CLI defaults.
// The CLI reads only snippet and side_effects, overridable by --snippet and
// --side-effects; the other fields have no matching flag and are not read.
type Config struct {
	Snippet         int  `toml:"snippet"`
	SideEffects     bool `toml:"side_effects"`
	DisableStd      bool `toml:"disable_std"`
	LoadStd         bool `toml:"load_std"`
	DisableBases    bool `toml:"disable_bases"`
	DisableAnalyzer bool `toml:"disable_analyzer"`
}

// Manifest is the full decoded project.toml contents.
type Manifest struct {
	Project Project     `toml:"project"`
	Config  Config      `toml:"config"`
	Modules []ModuleRef `toml:"modules"`
}

// Default returns a Manifest populated with original_source's exact
// hardcoded defaults (`Project::new()`), used whenever project.toml is
// absent or a present table omits a field — go-toml's Unmarshal leaves
// untouched struct fields at their existing value, so decoding into a
// Default() result reproduces original_source's per-field "only override
// if the key is present" behavior without hand-writing the guard.
func Default() Manifest {
	return Manifest{
		Project: Project{
			Name:       "project_name",
			Version:    "0.1.0",
			License:    "MIT",
			Edition:    "beta",
			AutoUpdate: false,
		},
		Config: Config{
			Snippet:         1,
			SideEffects:     true,
			DisableStd:      false,
			LoadStd:         true,
			DisableBases:    false,
			DisableAnalyzer: true,
		},
	}
}

// Load reads project.toml from dir (the working directory when dir is
// ""), returning Default() unchanged if the file does not exist — a
// project with no manifest is valid, matching original_source's
// `if !file.is_err()` early-out.
func Load(dir string) (Manifest, error) {
	m := Default()

	path := Filename
	if dir != "" {
		path = dir + string(os.PathSeparator) + Filename
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return m, errors.Wrap(err, "reading manifest")
	}

	if err := toml.Unmarshal(data, &m); err != nil {
		return m, errors.Wrap(err, "parsing manifest")
	}
	return m, nil
}
