package ast

import (
	"github.com/ape-lang/ape/token"
	"github.com/ape-lang/ape/types"
)

// StmtKind tags which variant of Stmt is populated.
type StmtKind int

const (
	SExpr StmtKind = iota
	SBlock
	SVar
	SFunc
	SIf
	SReturn
	SWhile
	SLoop
	SBreak
	SMatch
	SMod
	SUse
	SType
	SEnum
)

// Elif is one `elif cond { ... }` clause of an If statement.
type Elif struct {
	Cond *Expr
	Body *Stmt // SBlock
}

// MatchCase is one pattern arm of a Match statement.
type MatchCase struct {
	Pattern *Expr
	Body    *FuncBody
}

// UseName is one imported name of a Use statement, with its optional alias.
type UseName struct {
	Name  string
	Alias string
}

// EnumVariant is one `Name(PayloadType?)` entry of an Enum declaration.
type EnumVariant struct {
	Name        string
	PayloadType *types.Type // nil if the variant carries no payload
}

// Stmt is a single AST statement node. Like Expr, it is one tagged struct
// with nil-checked variant fields.
type Stmt struct {
	Kind StmtKind
	Pos  token.Position

	// SExpr, SReturn: Expr holds the expression.
	Expr *Expr

	// SBlock
	Stmts []*Stmt

	// SVar
	Names              []string
	VarType            *types.Type
	Value              *Expr
	IsMut              bool
	IsPub              bool
	PubNames           []string
	IsFuncValue        bool
	IsArrayDestructure bool

	// SFunc. IsPub is the shared field declared under SVar above — SFunc,
	// SEnum and SType reuse it rather than each carrying their own, since a
	// Stmt is only ever one Kind at a time.
	FuncName   string
	ReturnType *types.Type
	Body       *FuncBody
	Params     []Param
	IsAsync    bool

	// SIf
	Cond  *Expr
	Then  *Stmt // SBlock
	Elifs []Elif
	Else  *Stmt // SBlock, optional

	// SWhile: Cond + Then (loop body)

	// SLoop
	Iter     *Expr // optional repeat count; nil means unbounded
	LoopBody *Stmt // SBlock

	// SMatch
	MatchCond *Expr
	Cases     []MatchCase
	Default   *FuncBody

	// SMod
	ModPath string

	// SUse
	UsePath   string
	UseNames  []UseName
	ImportAll bool

	// SType
	TypeName  string
	TypeValue *types.Type

	// SEnum
	EnumName string
	Variants []EnumVariant
}
