package typeinfer

import (
	"github.com/mna/neodec/decompile/ir"
	"github.com/mna/neodec/decompile/types"
)

// supportsOperation reports whether t is one of the ground types that
// may be an operand of op (§4.5.2, §4.5.3's SupportsOperation handling).
// Type variables, Unknown and Any always pass: the constraint exists to
// narrow them, not to reject them.
func supportsOperation(t types.Type, op ir.BinaryOperator) bool {
	switch t.(type) {
	case types.Variable, types.Unknown, types.Any:
		return true
	}

	switch op {
	case ir.Add:
		switch t.(type) {
		case types.Integer, types.ByteString:
			return true
		default:
			return false
		}
	case ir.Sub, ir.Mul, ir.Div, ir.Mod, ir.Pow,
		ir.BitAnd, ir.BitOr, ir.BitXor, ir.ShiftLeft, ir.ShiftRight:
		_, ok := t.(types.Integer)
		return ok
	case ir.Equal, ir.NotEqual:
		return true
	case ir.Less, ir.LessEqual, ir.Greater, ir.GreaterEqual:
		switch t.(type) {
		case types.Integer, types.Boolean, types.ByteString:
			return true
		default:
			return false
		}
	case ir.BoolAnd, ir.BoolOr:
		_, ok := t.(types.Boolean)
		return ok
	default:
		return false
	}
}

// operationCompatibleType picks a concrete type that supports op, used to
// narrow an operand that doesn't yet (§4.5.3's "try to find a compatible
// type" fallback).
func operationCompatibleType(t types.Type, op ir.BinaryOperator) types.Type {
	switch op {
	case ir.Add:
		if _, ok := t.(types.ByteString); ok {
			return types.ByteString{}
		}
		return types.Integer{}
	case ir.BoolAnd, ir.BoolOr:
		return types.Boolean{}
	default:
		return types.Integer{}
	}
}

// binaryResultType infers the result type of a binary operator given its
// resolved operand types (§4.5.2, mirrored by the emitter's expression
// typing needs).
func binaryResultType(left, right types.Type) types.Type {
	switch {
	case isInteger(left) && isInteger(right):
		return types.Integer{}
	case isByteString(left) && isByteString(right):
		return types.ByteString{}
	default:
		return types.Boolean{}
	}
}

func isInteger(t types.Type) bool {
	_, ok := t.(types.Integer)
	return ok
}

func isByteString(t types.Type) bool {
	_, ok := t.(types.ByteString)
	return ok
}

// unaryResultType infers the result type of a unary operator given its
// resolved operand type.
func unaryResultType(op ir.UnaryOperator, operand types.Type) types.Type {
	switch op {
	case ir.BoolNot:
		return types.Boolean{}
	default:
		if isInteger(operand) {
			return types.Integer{}
		}
		return types.Unknown{}
	}
}
