// Package types implements the language's structured type model: the
// TypeKind sum used both in type-annotation positions (var/param/return
// types) and, via its Literal variant, as a first-class runtime value.
//
// Grounded on openllb/hlb's tagged-sum AST style (parser/ast/ast.go's
// Expr/Value pattern of one struct with nil-checked variant fields) rather
// than an interface-per-variant design: tagged variants instead of
// inheritance.
package types

import (
	"strconv"
	"strings"
)

// Kind tags which variant of Type is populated.
type Kind int

const (
	Var Kind = iota
	Or
	Nullable
	Vector
	Tuple
	Record
	Callback
	LiteralType
)

// Builtin type names, usable as a Type's Name when Kind == Var.
const (
	Number = "number"
	String = "string"
	Char   = "char"
	Bool   = "bool"
	Null   = "null"
	Void   = "void"
	Any    = "any"
	Array  = "array"
)

var builtins = map[string]bool{
	Number: true, String: true, Char: true, Bool: true,
	Null: true, Void: true, Any: true, Array: true,
}

// IsBuiltin reports whether name is one of the reserved base type keywords.
func IsBuiltin(name string) bool {
	return builtins[name]
}

// ConstKind tags the variant of Const, the literal value carried by a
// LiteralType (a singleton type like the literal `5` used as a type).
type ConstKind int

const (
	ConstNumber ConstKind = iota
	ConstString
	ConstChar
	ConstBool
	ConstNull
)

// Const is a literal value used as a singleton type.
type Const struct {
	Kind   ConstKind
	Number float64
	Str    string
	Char   rune
	Bool   bool
}

func (c *Const) String() string {
	switch c.Kind {
	case ConstNumber:
		return trimFloat(c.Number)
	case ConstString:
		return `"` + c.Str + `"`
	case ConstChar:
		return "'" + string(c.Char) + "'"
	case ConstBool:
		if c.Bool {
			return "true"
		}
		return "false"
	default:
		return "null"
	}
}

// Field is one named field of a Record type.
type Field struct {
	Name string
	Type *Type
}

// Type is the structured description of a type: a builtin/alias variable
// reference, a union, a nullable, a vector (homogeneous or fixed-shape), a
// tuple, a record, a callback signature, or a literal-value singleton.
type Type struct {
	Kind Kind

	// Var: a builtin type keyword or a user-defined alias/enum name.
	Name string

	// Or: a union of Left | Right.
	Left, Right *Type

	// Nullable: sugar for Inner | null.
	Inner *Type

	// Vector: Element is set for a homogeneous `<T>`; Statics is set
	// instead for a fixed-shape `<(T, T, ...)>`.
	Element *Type
	Statics []*Type

	// Tuple: heterogeneous fixed-length `(T, T, ...)`.
	Elems []*Type

	// Record: named fields.
	Fields []Field

	// Callback: `|T, T, ...| R`.
	Params []*Type
	Return *Type

	// LiteralType: a literal value used as a singleton type.
	Const *Const
}

func NewVar(name string) *Type                { return &Type{Kind: Var, Name: name} }
func NewOr(left, right *Type) *Type           { return &Type{Kind: Or, Left: left, Right: right} }
func NewNullable(inner *Type) *Type           { return &Type{Kind: Nullable, Inner: inner} }
func NewVector(elem *Type) *Type              { return &Type{Kind: Vector, Element: elem} }
func NewVectorStatic(statics []*Type) *Type   { return &Type{Kind: Vector, Statics: statics} }
func NewTuple(elems []*Type) *Type            { return &Type{Kind: Tuple, Elems: elems} }
func NewRecord(fields []Field) *Type          { return &Type{Kind: Record, Fields: fields} }
func NewCallback(params []*Type, ret *Type) *Type {
	return &Type{Kind: Callback, Params: params, Return: ret}
}
func NewLiteral(c *Const) *Type { return &Type{Kind: LiteralType, Const: c} }

// IsStatic reports whether a Vector type is the fixed-shape ("static")
// form, i.e. was written `<(T, T, ...)>`.
func (t *Type) IsStatic() bool {
	return t.Kind == Vector && t.Statics != nil
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case Var:
		return t.Name
	case Or:
		return t.Left.String() + " | " + t.Right.String()
	case Nullable:
		return t.Inner.String() + "?"
	case Vector:
		if t.IsStatic() {
			parts := make([]string, len(t.Statics))
			for i, s := range t.Statics {
				parts[i] = s.String()
			}
			return "<(" + strings.Join(parts, ", ") + ")>"
		}
		return "<" + t.Element.String() + ">"
	case Tuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case Record:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Name + ": " + f.Type.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case Callback:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return "|" + strings.Join(parts, ", ") + "| " + t.Return.String()
	case LiteralType:
		return t.Const.String()
	default:
		return "?"
	}
}

func trimFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	return s
}
