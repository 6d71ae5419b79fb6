package env

import (
	"github.com/ape-lang/ape/ast"
	"github.com/ape-lang/ape/diagnostic"
	"github.com/ape-lang/ape/token"
	"github.com/ape-lang/ape/types"
)

// BindingKind tags which of the four binding tables a name belongs to
// (the visibility model: variable, function, type-alias, enum).
type BindingKind int

const (
	BindVar BindingKind = iota
	BindFunc
	BindType
	BindEnum
)

// VarMeta is the metadata a Var binding carries alongside its value.
type VarMeta struct {
	IsMut  bool
	IsPub  bool
	IsFunc bool
	Type   *types.Type
}

// FuncMeta is the metadata a Func binding carries alongside its closure.
type FuncMeta struct {
	Params  []ast.Param
	IsAsync bool
	IsPub   bool
}

// Binding is one entry of the values/pub_vals/mod_vals tables: a value
// plus the declaration metadata needed to enforce mutability/visibility
// rules on later reads and assignments.
type Binding struct {
	Value    *Value
	Kind     BindingKind
	Var      *VarMeta
	Func     *FuncMeta
	TypeVal  *types.Type
	Variants []ast.EnumVariant
}

type modEntry struct {
	name    string
	binding *Binding
}

// Env is a single scope in the chain, modeled directly on
// original_source/src/interpreter/env.rs's Env: four binding tables, a
// module sub-table, a locals distance map shared by every Env in the
// chain, and a link to the enclosing scope.
type Env struct {
	values     map[string]*Binding
	pubVals    map[string]*Binding
	modVals    map[string][]modEntry
	typeValues map[string]*types.Type
	enums      map[string][]ast.EnumVariant

	locals    map[int]int // shared across the whole chain, like the Rust Rc<RefCell<...>>
	enclosing *Env
}

// New creates a root environment with no enclosing scope.
func New() *Env {
	return &Env{
		values: map[string]*Binding{}, pubVals: map[string]*Binding{},
		modVals: map[string][]modEntry{}, typeValues: map[string]*types.Type{},
		enums: map[string][]ast.EnumVariant{}, locals: map[int]int{},
	}
}

// Enclose creates a child scope of e. The locals map is shared by
// reference across the whole chain, matching the resolver's single flat
// expression-id -> depth map.
func (e *Env) Enclose() *Env {
	return &Env{
		values: map[string]*Binding{}, pubVals: map[string]*Binding{},
		modVals: map[string][]modEntry{}, typeValues: map[string]*types.Type{},
		enums: map[string][]ast.EnumVariant{}, locals: e.locals, enclosing: e,
	}
}

// IsRoot reports whether e is the outermost scope in its chain — true for
// the program's top level, false for any block/function/match scope nested
// under it.
func (e *Env) IsRoot() bool { return e.enclosing == nil }

// Resolve merges the resolver's expression-id -> depth map into this
// chain's shared locals table.
func (e *Env) Resolve(locals map[int]int) {
	for k, v := range locals {
		e.locals[k] = v
	}
}

// --- variable bindings ---

func (e *Env) DefineVar(name string, v *Value, meta VarMeta) {
	e.values[name] = &Binding{Value: v, Kind: BindVar, Var: &meta}
}

func (e *Env) DefinePubVar(name string, v *Value, meta VarMeta) {
	e.pubVals[name] = &Binding{Value: v, Kind: BindVar, Var: &meta}
}

func (e *Env) DefineModVar(source, name string, v *Value, meta VarMeta) {
	e.modVals[source] = append(e.modVals[source], modEntry{name, &Binding{Value: v, Kind: BindVar, Var: &meta}})
}

// --- function bindings ---

func (e *Env) DefineFunc(name string, v *Value, meta FuncMeta) {
	e.values[name] = &Binding{Value: v, Kind: BindFunc, Func: &meta}
}

func (e *Env) DefinePubFunc(name string, v *Value, meta FuncMeta) {
	e.pubVals[name] = &Binding{Value: v, Kind: BindFunc, Func: &meta}
}

func (e *Env) DefineModFunc(source, name string, v *Value, meta FuncMeta) {
	e.modVals[source] = append(e.modVals[source], modEntry{name, &Binding{Value: v, Kind: BindFunc, Func: &meta}})
}

// --- type-alias bindings ---

func (e *Env) DefineType(name string, t *types.Type) {
	e.typeValues[name] = t
}

func (e *Env) GetType(name string) (*types.Type, bool) {
	t, ok := e.typeValues[name]
	if ok {
		return t, true
	}
	if e.enclosing != nil {
		return e.enclosing.GetType(name)
	}
	return nil, false
}

// DefinePubType additionally registers a type alias in the outermost
// scope's type table, so a public `type` declaration is visible the same
// way a public var/func is.
func (e *Env) DefinePubType(name string, t *types.Type) {
	if e.enclosing != nil {
		e.enclosing.DefinePubType(name, t)
		return
	}
	e.typeValues[name] = t
}

// --- enum bindings ---

func (e *Env) DefineEnum(name string, variants []ast.EnumVariant) {
	e.enums[name] = variants
}

func (e *Env) GetEnum(name string) ([]ast.EnumVariant, bool) {
	v, ok := e.enums[name]
	if ok {
		return v, true
	}
	if e.enclosing != nil {
		return e.enclosing.GetEnum(name)
	}
	return nil, false
}

// DefinePubEnum registers an enum in the outermost scope, mirroring
// DefinePubType for the enum table.
func (e *Env) DefinePubEnum(name string, variants []ast.EnumVariant) {
	if e.enclosing != nil {
		e.enclosing.DefinePubEnum(name, variants)
		return
	}
	e.enums[name] = variants
}

// EnumNames collects every enum name visible from e, walking out to the
// root scope. Used to build "did you mean" suggestions for an unknown enum
// reference.
func (e *Env) EnumNames() []string {
	names := make([]string, 0, len(e.enums))
	for name := range e.enums {
		names = append(names, name)
	}
	if e.enclosing != nil {
		names = append(names, e.enclosing.EnumNames()...)
	}
	return names
}

// --- module-scoped table: populated by `mod`, drained by `use` ---

// ModNames returns all names currently published under source.
func (e *Env) ModNames(source string) []string {
	var names []string
	for _, entry := range e.modVals[source] {
		names = append(names, entry.name)
	}
	return names
}

// TakeMod removes and returns the binding named name published under
// source: a Use import removes the path's entry from the module-table
// after consumption.
func (e *Env) TakeMod(source, name string) (*Binding, bool) {
	entries := e.modVals[source]
	for i, entry := range entries {
		if entry.name == name {
			e.modVals[source] = append(entries[:i], entries[i+1:]...)
			return entry.binding, true
		}
	}
	return nil, false
}

// TakeAllMod removes and returns every binding published under source.
func (e *Env) TakeAllMod(source string) map[string]*Binding {
	out := map[string]*Binding{}
	for _, entry := range e.modVals[source] {
		out[entry.name] = entry.binding
	}
	delete(e.modVals, source)
	return out
}

func (e *Env) Remove(name string) {
	delete(e.values, name)
}

// Get resolves a variable read at expression id: the locals map gives the
// scope distance recorded by the resolver; a miss means the name wasn't
// locally resolved and falls through to the global values/pub_vals tables.
func (e *Env) Get(name string, id int) (*Binding, bool) {
	d, hasDistance := e.locals[id]
	if !hasDistance {
		return e.getGlobal(name)
	}
	return e.getAt(name, d)
}

func (e *Env) getGlobal(name string) (*Binding, bool) {
	if e.enclosing != nil {
		return e.enclosing.getGlobal(name)
	}
	if b, ok := e.values[name]; ok {
		return b, true
	}
	if b, ok := e.pubVals[name]; ok {
		return b, true
	}
	return nil, false
}

func (e *Env) getAt(name string, depth int) (*Binding, bool) {
	if depth == 0 {
		b, ok := e.values[name]
		return b, ok
	}
	if e.enclosing == nil {
		return nil, false
	}
	return e.enclosing.getAt(name, depth-1)
}

// Assign writes to the binding at the scope distance recorded for
// expression id; falls through to the outermost scope when unresolved.
// Returns an error if the chain runs out before reaching depth 0 — an
// "already at root but still have distance left" corruption that should
// never happen given a correct resolver pass.
func (e *Env) Assign(name string, v *Value, id int, pos token.Position) error {
	d, hasDistance := e.locals[id]
	if !hasDistance {
		return e.assignGlobal(name, v, pos)
	}
	return e.assignAt(name, v, d, pos)
}

func (e *Env) assignGlobal(name string, v *Value, pos token.Position) error {
	if e.enclosing != nil {
		return e.enclosing.assignGlobal(name, v, pos)
	}
	if b, ok := e.values[name]; ok {
		b.Value = v
		return nil
	}
	return diagnostic.New(diagnostic.E0x501, pos, "failed to get distance for '"+name+"'")
}

func (e *Env) assignAt(name string, v *Value, depth int, pos token.Position) error {
	if depth == 0 {
		b, ok := e.values[name]
		if !ok {
			return diagnostic.New(diagnostic.E0x502, pos, "failed to resolve value for '"+name+"'")
		}
		b.Value = v
		return nil
	}
	if e.enclosing == nil {
		return diagnostic.New(diagnostic.E0x502, pos, "failed to resolve value for '"+name+"'")
	}
	return e.enclosing.assignAt(name, v, depth-1, pos)
}
