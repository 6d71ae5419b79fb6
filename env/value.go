// Package env implements the language's LiteralType runtime values and its
// chained Environment, including a four-table visibility model (private
// values, public values, module-scoped values, type/enum values).
//
// Grounded on original_source/src/interpreter/env.rs (the Rust
// implementation this project is based on): the value/kind/env shape
// below mirrors its ValueKind/VarKind/FuncKind/Env structs directly, translated
// from Rc<RefCell<HashMap<...>>> sharing into Go's natural pointer-shared
// map semantics, and from openllb/hlb's tagged-sum style for the runtime
// value union itself (parser/ast/ast.go's Expr pattern).
package env

import (
	"fmt"

	"github.com/ape-lang/ape/ast"
	"github.com/ape-lang/ape/types"
)

// ValueKind tags which variant of Value is populated.
type ValueKind int

const (
	VNumber ValueKind = iota
	VString
	VChar
	VBool
	VNull
	VVoid
	VArray
	VTuple
	VRecord
	VFunction
	VDeclaredFunction
	VEnum
)

// RecordField is one lazily-evaluated field of a record value
// ("Record[(name, Expression)]" — fields hold unevaluated expressions).
type RecordField struct {
	Name string
	Expr *ast.Expr
}

// Closure is a user-defined function value: its signature plus the
// environment chain in effect when it was created ("Scoping & closures").
type Closure struct {
	Params     []ast.Param
	Body       *ast.FuncBody
	ReturnType *types.Type
	IsAsync    bool
	Env        *Env
}

// Native is a stdlib-registered function: the registration protocol is
// `{ name, arity, callback }`.
type Native struct {
	Name     string
	Arity    int
	Callback func(args []*Value) (*Value, error)
}

// Enum is one concrete enum value: which parent enum it belongs to, which
// variant, and an optional payload.
type Enum struct {
	Parent  string
	Variant string
	Payload *Value
}

// Value is a runtime LiteralType, a single tagged struct rather than one
// Go type per variant: tagged variants instead of inheritance, matching
// this module's `ast`/`types` style.
type Value struct {
	Kind ValueKind

	Number float64
	Str    string
	Char   rune
	Bool   bool

	// VArray: unevaluated element expressions — arrays are lazy.
	// Indexing evaluates Items[i] against Env.
	Items []*ast.Expr
	ArrEnv *Env

	// VTuple: eagerly evaluated, `Tuple[LiteralType]`.
	Tuple []*Value

	// VRecord: lazy fields, evaluated against RecordEnv on field access.
	Fields    []RecordField
	RecordEnv *Env

	Closure *Closure
	Native  *Native
	Enum    *Enum
}

var (
	singletonNull = &Value{Kind: VNull}
	singletonVoid = &Value{Kind: VVoid}
)

func Null() *Value { return singletonNull }
func Void() *Value { return singletonVoid }

func Number(n float64) *Value { return &Value{Kind: VNumber, Number: n} }
func String(s string) *Value  { return &Value{Kind: VString, Str: s} }
func Char(c rune) *Value      { return &Value{Kind: VChar, Char: c} }
func Bool(b bool) *Value      { return &Value{Kind: VBool, Bool: b} }

func Array(items []*ast.Expr, e *Env) *Value {
	return &Value{Kind: VArray, Items: items, ArrEnv: e}
}

func Tuple(vals []*Value) *Value { return &Value{Kind: VTuple, Tuple: vals} }

func Record(fields []RecordField, e *Env) *Value {
	return &Value{Kind: VRecord, Fields: fields, RecordEnv: e}
}

func Function(c *Closure) *Value        { return &Value{Kind: VFunction, Closure: c} }
func DeclaredFunction(n *Native) *Value { return &Value{Kind: VDeclaredFunction, Native: n} }
func EnumValue(e *Enum) *Value          { return &Value{Kind: VEnum, Enum: e} }

// TypeName returns the builtin type-model name this value's variant
// corresponds to, used by type_check.
func (v *Value) TypeName() string {
	switch v.Kind {
	case VNumber:
		return types.Number
	case VString:
		return types.String
	case VChar:
		return types.Char
	case VBool:
		return types.Bool
	case VNull:
		return types.Null
	case VVoid:
		return types.Void
	case VArray:
		return types.Array
	default:
		return types.Any
	}
}

// Truthy implements the Glossary's truthiness rule: numbers nonzero,
// strings nonempty, chars not the null character, booleans themselves,
// records/arrays nonempty, everything else false.
func (v *Value) Truthy() bool {
	switch v.Kind {
	case VNumber:
		return v.Number != 0
	case VString:
		return v.Str != ""
	case VChar:
		return v.Char != 0
	case VBool:
		return v.Bool
	case VArray:
		return len(v.Items) > 0
	case VRecord:
		return len(v.Fields) > 0
	case VTuple:
		return len(v.Tuple) > 0
	default:
		return false
	}
}

// Equal implements the `==`/`!=` rule: defined only over
// matching types among number/string/char/bool/null, false across
// mismatched types, plus the enum equality rule supplemented from
// original_source/src/interpreter/env.rs (same parent, same variant, equal
// payloads).
func (v *Value) Equal(other *Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case VNumber:
		return v.Number == other.Number
	case VString:
		return v.Str == other.Str
	case VChar:
		return v.Char == other.Char
	case VBool:
		return v.Bool == other.Bool
	case VNull:
		return true
	case VEnum:
		if v.Enum.Parent != other.Enum.Parent || v.Enum.Variant != other.Enum.Variant {
			return false
		}
		if (v.Enum.Payload == nil) != (other.Enum.Payload == nil) {
			return false
		}
		if v.Enum.Payload == nil {
			return true
		}
		return v.Enum.Payload.Equal(other.Enum.Payload)
	default:
		return false
	}
}

func (v *Value) String() string {
	switch v.Kind {
	case VNumber:
		return trimFloat(v.Number)
	case VString:
		return v.Str
	case VChar:
		return string(v.Char)
	case VBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case VNull:
		return "null"
	case VVoid:
		return "void"
	case VArray:
		return fmt.Sprintf("<array:%d>", len(v.Items))
	case VTuple:
		return fmt.Sprintf("<tuple:%d>", len(v.Tuple))
	case VRecord:
		return fmt.Sprintf("<record:%d fields>", len(v.Fields))
	case VFunction:
		return "<function>"
	case VDeclaredFunction:
		return "<native:" + v.Native.Name + ">"
	case VEnum:
		return v.Enum.Parent + "::" + v.Enum.Variant
	default:
		return "<unknown>"
	}
}

func trimFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
