package typeinfer

import (
	"github.com/mna/neodec/decompile/ir"
	"github.com/mna/neodec/decompile/types"
)

// Constraint is the closed sum type of typing constraints generated
// during traversal (§4.5.2).
type Constraint interface {
	constraint()
}

// Equal is a type-equality constraint (t1 = t2): assignment LHS/RHS,
// syscall argument types.
type Equal struct{ T1, T2 types.Type }

// Subtype is a subtyping constraint (sub <: sup), used sparingly — e.g.
// for function returns in the presence of nullable types.
type Subtype struct{ Sub, Sup types.Type }

// SupportsOperation requires t to support the given binary operator,
// emitted for each operand of an Arithmetic operation.
type SupportsOperation struct {
	T  types.Type
	Op ir.BinaryOperator
}

// HasField requires t to have a field of the given name and type,
// emitted for Field expressions.
type HasField struct {
	T         types.Type
	Name      string
	FieldType types.Type
}

// Indexable requires container[index] to produce element, emitted for
// Index expressions.
type Indexable struct{ Container, Index, Element types.Type }

// Callable requires fn to be callable with args, producing ret;
// collect.go does not emit it.
type Callable struct {
	Fn     types.Type
	Args   []types.Type
	Return types.Type
}

// Convertible requires from to be convertible to to, emitted for
// explicit Cast expressions.
type Convertible struct{ From, To types.Type }

// Nullable requires t to be a nullable type.
type Nullable struct{ T types.Type }

// NonNull requires t to be a non-null type.
type NonNull struct{ T types.Type }

func (Equal) constraint()             {}
func (Subtype) constraint()           {}
func (SupportsOperation) constraint() {}
func (HasField) constraint()          {}
func (Indexable) constraint()         {}
func (Callable) constraint()          {}
func (Convertible) constraint()       {}
func (Nullable) constraint()          {}
func (NonNull) constraint()           {}
