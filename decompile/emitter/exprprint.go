package emitter

import (
	"fmt"
	"strings"

	"github.com/mna/neodec/decompile/ir"
)

// exprString renders an expression in the §6.5 pseudocode dialect.
func exprString(e ir.Expression) string {
	switch v := e.(type) {
	case nil:
		return ""
	case *ir.LiteralExpr:
		return literalString(v)
	case *ir.VariableExpr:
		return v.Var.Name
	case *ir.BinaryExpr:
		return fmt.Sprintf("%s %s %s", exprString(v.Left), v.Op, exprString(v.Right))
	case *ir.UnaryExpr:
		return fmt.Sprintf("%s%s", v.Op, exprString(v.Operand))
	case *ir.CallExpr:
		return fmt.Sprintf("%s(%s)", v.Function, exprList(v.Args))
	case *ir.IndexExpr:
		return fmt.Sprintf("%s[%s]", exprString(v.Container), exprString(v.Index))
	case *ir.FieldExpr:
		return fmt.Sprintf("%s.%s", exprString(v.Value), v.Field)
	case *ir.CastExpr:
		return fmt.Sprintf("(%s)%s", v.To, exprString(v.Value))
	case *ir.ArrayLiteralExpr:
		return "[" + exprList(v.Elements) + "]"
	case *ir.MapLiteralExpr:
		parts := make([]string, len(v.Keys))
		for i := range v.Keys {
			parts[i] = fmt.Sprintf("%s: %s", exprString(v.Keys[i]), exprString(v.Values[i]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ir.StructLiteralExpr:
		return fmt.Sprintf("%s{%s}", v.Name, exprList(v.Fields))
	case *ir.ArrayCreateExpr:
		if len(v.Elements) > 0 {
			return "[" + exprList(v.Elements) + "]"
		}
		if v.Count != nil {
			return fmt.Sprintf("new Array[%s]", exprString(v.Count))
		}
		return "new Array[]"
	case *ir.MapCreateExpr:
		return "new Map{}"
	case *ir.StructCreateExpr:
		if v.Count != nil {
			return fmt.Sprintf("new Struct(%s)", exprString(v.Count))
		}
		return "new Struct()"
	default:
		return "<?>"
	}
}

func exprList(es []ir.Expression) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = exprString(e)
	}
	return strings.Join(parts, ", ")
}

func literalString(l *ir.LiteralExpr) string {
	switch l.Kind {
	case ir.LitBoolean:
		if l.Bool {
			return "true"
		}
		return "false"
	case ir.LitInteger:
		return fmt.Sprintf("%d", l.Int)
	case ir.LitBigInteger:
		return bigIntString(l.BigInt)
	case ir.LitString:
		return fmt.Sprintf("%q", l.Str)
	case ir.LitByteArray:
		return "0x" + hexString(l.Bytes)
	case ir.LitHash160, ir.LitHash256:
		return "0x" + hexString(l.Bytes)
	case ir.LitNull:
		return "null"
	default:
		return "<?>"
	}
}

func hexString(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = digits[c>>4]
		out[i*2+1] = digits[c&0xf]
	}
	return string(out)
}

// bigIntString renders a little-endian two's-complement byte slice (the
// encoding the disassembler's PUSHINT128/256 decoding produces) as a
// base-10 literal. Magnitude only: the sign bit is not modeled here
// since every literal the lifter can produce this way is non-negative
// in practice (negative big integers arrive pre-negated as a unary
// Negate expression instead).
func bigIntString(b []byte) string {
	if len(b) == 0 {
		return "0"
	}
	digits := []int{0}
	for i := len(b) - 1; i >= 0; i-- {
		carry := int(b[i])
		for j := range digits {
			carry += digits[j] * 256
			digits[j] = carry % 10
			carry /= 10
		}
		for carry > 0 {
			digits = append(digits, carry%10)
			carry /= 10
		}
	}
	out := make([]byte, len(digits))
	for i, d := range digits {
		out[len(digits)-1-i] = byte('0' + d)
	}
	return string(out)
}
