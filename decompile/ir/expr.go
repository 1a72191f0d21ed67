package ir

import "github.com/mna/neodec/decompile/types"

// Expression is the closed sum type of IR expressions. Expressions are
// immutable and may be freely aliased; the lifter always mints a fresh
// temporary Variable rather than mutating an expression in place.
type Expression interface {
	expr()
}

// BinaryOperator is the closed set of binary operators an Arithmetic
// operation or BinaryExpr may carry.
type BinaryOperator uint8

const (
	Add BinaryOperator = iota
	Sub
	Mul
	Div
	Mod
	Pow
	BitAnd
	BitOr
	BitXor
	Equal
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	BoolAnd
	BoolOr
	ShiftLeft
	ShiftRight
)

var binaryOperatorSymbols = map[BinaryOperator]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%", Pow: "**",
	BitAnd: "&", BitOr: "|", BitXor: "^", Equal: "==", NotEqual: "!=",
	Less: "<", LessEqual: "<=", Greater: ">", GreaterEqual: ">=",
	BoolAnd: "&&", BoolOr: "||", ShiftLeft: "<<", ShiftRight: ">>",
}

func (op BinaryOperator) String() string { return binaryOperatorSymbols[op] }

// UnaryOperator is the closed set of unary operators a Unary operation or
// UnaryExpr may carry.
type UnaryOperator uint8

const (
	Not UnaryOperator = iota
	Negate
	BoolNot
	Abs
	Sign
	Sqrt
	BitwiseNot
)

var unaryOperatorSymbols = map[UnaryOperator]string{
	Not: "!", Negate: "-", BoolNot: "!", Abs: "abs", Sign: "sign",
	Sqrt: "sqrt", BitwiseNot: "~",
}

func (op UnaryOperator) String() string { return unaryOperatorSymbols[op] }

// LiteralKind classifies the Go-side storage of a LiteralExpr's value.
type LiteralKind uint8

const (
	LitBoolean LiteralKind = iota
	LitInteger
	LitBigInteger
	LitString
	LitByteArray
	LitHash160
	LitHash256
	LitNull
)

// LiteralExpr is a constant value baked into the instruction stream (a
// PUSH* immediate, or a synthesized bound literal during emitter
// post-processing).
type LiteralExpr struct {
	Kind    LiteralKind
	Bool    bool
	Int     int64
	BigInt  []byte
	Str     string
	Bytes   []byte
}

// VariableExpr references a Variable.
type VariableExpr struct{ Var *Variable }

// BinaryExpr is a pure binary operator expression (as distinct from the
// Arithmetic operation, which additionally names a target variable).
type BinaryExpr struct {
	Op          BinaryOperator
	Left, Right Expression
}

// UnaryExpr is a pure unary operator expression.
type UnaryExpr struct {
	Op      UnaryOperator
	Operand Expression
}

// CallExpr is a call used as an expression (its result is consumed
// inline rather than through a named target variable).
type CallExpr struct {
	Function string
	Args     []Expression
}

// IndexExpr is a container[index] access.
type IndexExpr struct {
	Container Expression
	Index     Expression
}

// FieldExpr is a struct.field access.
type FieldExpr struct {
	Value Expression
	Field string
}

// CastExpr is an explicit `(Type)expr` cast.
type CastExpr struct {
	To    types.Type
	Value Expression
}

// ArrayLiteralExpr is an array literal with explicit elements.
type ArrayLiteralExpr struct{ Elements []Expression }

// MapLiteralExpr is a map literal with explicit key/value pairs.
type MapLiteralExpr struct {
	Keys, Values []Expression
}

// StructLiteralExpr is a struct literal with explicit field values, in
// declaration order.
type StructLiteralExpr struct {
	Name   string
	Fields []Expression
}

// ArrayCreateExpr models NEWARRAY/NEWARRAY0/NEWARRAYT: either a bare
// Count (no explicit elements, as produced directly from the opcode) or
// explicit Elements when known statically.
type ArrayCreateExpr struct {
	ElementType types.Type
	Count       Expression
	Elements    []Expression
}

// MapCreateExpr models NEWMAP.
type MapCreateExpr struct{}

// StructCreateExpr models NEWSTRUCT/NEWSTRUCT0.
type StructCreateExpr struct {
	Count Expression
}

func (LiteralExpr) expr()       {}
func (VariableExpr) expr()      {}
func (BinaryExpr) expr()        {}
func (UnaryExpr) expr()         {}
func (CallExpr) expr()          {}
func (IndexExpr) expr()         {}
func (FieldExpr) expr()         {}
func (CastExpr) expr()          {}
func (ArrayLiteralExpr) expr()  {}
func (MapLiteralExpr) expr()    {}
func (StructLiteralExpr) expr() {}
func (ArrayCreateExpr) expr()   {}
func (MapCreateExpr) expr()     {}
func (StructCreateExpr) expr()  {}

// IntLiteral is a convenience constructor for a fresh integer literal.
func IntLiteral(v int64) *LiteralExpr { return &LiteralExpr{Kind: LitInteger, Int: v} }

// StringLiteral is a convenience constructor for a fresh string literal.
func StringLiteral(s string) *LiteralExpr { return &LiteralExpr{Kind: LitString, Str: s} }

// Ref returns an expression referencing v.
func Ref(v *Variable) *VariableExpr { return &VariableExpr{Var: v} }
