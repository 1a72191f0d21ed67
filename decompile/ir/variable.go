package ir

import (
	"fmt"

	"github.com/mna/neodec/decompile/types"
)

// VarKind classifies a Variable's storage.
type VarKind uint8

const (
	Local VarKind = iota
	Parameter
	Static
	Temporary
)

func (k VarKind) String() string {
	switch k {
	case Local:
		return "local"
	case Parameter:
		return "arg"
	case Static:
		return "static"
	case Temporary:
		return "temp"
	default:
		return "var"
	}
}

// Variable is a named, uniquely numbered IR value: a slot-indexed local,
// parameter or static field (interned so the same slot always maps to
// the same Variable within a function), or a temporary minted fresh at
// each use site.
type Variable struct {
	Name string
	ID   uint32
	Kind VarKind
	Type types.Type
}

// NewVariable synthesizes a Variable whose Name follows the
// `local_k`/`arg_k`/`static_k`/`temp_n` convention.
func NewVariable(id uint32, kind VarKind, slot int) *Variable {
	name := fmt.Sprintf("%s_%d", kind, slot)
	if kind == Temporary {
		name = fmt.Sprintf("t%d", slot)
	}
	return &Variable{Name: name, ID: id, Kind: kind, Type: types.Unknown{}}
}
