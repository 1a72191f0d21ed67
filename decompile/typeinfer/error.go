package typeinfer

import (
	"fmt"

	"github.com/mna/neodec/decompile/types"
)

// TypeErrorKind is the closed set of ways inference can fail for one
// constraint or expression. Type errors never abort the pipeline; they
// are collected into Context.Errors and surfaced in TypeMetadata, and
// unresolved types default to Unknown.
type TypeErrorKind uint8

const (
	Mismatch TypeErrorKind = iota
	UndefinedVariable
	UnsupportedOperation
	UnificationFailure
	InfiniteType
	ConstraintSolvingFailure
	FieldNotFound
	ConversionError
)

// TypeError reports one inference failure. Only the fields relevant to
// Kind are populated.
type TypeError struct {
	Kind                   TypeErrorKind
	Expected, Found        types.Type
	Name                   string
	TypeName, Operation    string
	T1, T2                 types.Type
	Reason                 string
	FieldName              string
	From, To               types.Type
}

func (e *TypeError) Error() string {
	switch e.Kind {
	case Mismatch:
		return fmt.Sprintf("type mismatch: expected %s, found %s", e.Expected, e.Found)
	case UndefinedVariable:
		return fmt.Sprintf("undefined variable: %s", e.Name)
	case UnsupportedOperation:
		return fmt.Sprintf("type %s does not support operation %s", e.TypeName, e.Operation)
	case UnificationFailure:
		return fmt.Sprintf("cannot unify types %s and %s", e.T1, e.T2)
	case InfiniteType:
		return "infinite type detected in constraint"
	case ConstraintSolvingFailure:
		return fmt.Sprintf("constraint solving failed: %s", e.Reason)
	case FieldNotFound:
		return fmt.Sprintf("type %s does not have field %s", e.TypeName, e.FieldName)
	case ConversionError:
		return fmt.Sprintf("cannot convert %s to %s", e.From, e.To)
	default:
		return "type inference error"
	}
}
