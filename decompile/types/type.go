// Package types defines the Neo N3 static type lattice: the closed Type
// sum type consumed and produced by the IR (variable and expression
// annotations) and mutated in place by the inference engine in
// decompile/typeinfer. It has no dependency on decompile/ir, the same
// way the teacher's lang/types package models runtime values without
// depending on the AST that produces them.
package types

// Type is the closed sum type of the static type lattice. Dispatch over
// Type is always an exhaustive switch; there is no open-world extension
// point, matching every other sum type in this pipeline.
type Type interface {
	// String renders the type the way the emitter prints it in pseudocode
	// function signatures and cast expressions.
	String() string

	typ()
}

// ByteSize reports the fixed on-chain byte size of t, or (0, false) when
// t has no fixed size (variable-width types, and the lattice endpoints).
func ByteSize(t Type) (int, bool) {
	switch v := t.(type) {
	case Hash160:
		return 20, true
	case Hash256:
		return 32, true
	case ECPoint, PublicKey:
		return 33, true
	case Signature:
		return 64, true
	case Boolean, Null:
		return 1, true
	case Nullable:
		if n, ok := ByteSize(v.Inner); ok {
			return n + 1, true
		}
		return 0, false
	case Void:
		return 0, true
	case Contract:
		return 20, true
	default:
		return 0, false
	}
}
