package emitter

import (
	"fmt"

	"github.com/mna/neodec/decompile/ir"
)

// opString renders one operation as a single pseudocode statement
// (without trailing indentation, which the caller applies).
func opString(op ir.Operation) string {
	switch o := op.(type) {
	case ir.Assign:
		return fmt.Sprintf("let %s = %s;", o.Target.Name, exprString(o.Value))

	case ir.Arithmetic:
		return fmt.Sprintf("let %s = %s %s %s;", o.Target.Name, exprString(o.Left), o.Op, exprString(o.Right))

	case ir.Unary:
		return fmt.Sprintf("let %s = %s%s;", o.Target.Name, o.Op, exprString(o.Operand))

	case ir.Syscall:
		call := fmt.Sprintf("%s(%s)", o.Name, exprList(o.Args))
		if o.Target != nil {
			return fmt.Sprintf("let %s = %s;", o.Target.Name, call)
		}
		return call + ";"

	case ir.ContractCall:
		call := fmt.Sprintf("%s.%s(%s)", exprString(o.Contract), o.Method, exprList(o.Args))
		if o.Target != nil {
			return fmt.Sprintf("let %s = %s;", o.Target.Name, call)
		}
		return call + ";"

	case ir.Storage:
		return storageOpString(o)

	case ir.Stack:
		return stackOpString(o)

	case ir.Convert:
		if o.Target != nil {
			return fmt.Sprintf("let %s = (%s)%s;", o.Target.Name, o.To, exprString(o.Value))
		}
		return fmt.Sprintf("(%s)%s;", o.To, exprString(o.Value))

	case ir.BuiltinCall:
		call := fmt.Sprintf("%s(%s)", o.Name, exprList(o.Args))
		if o.Target != nil {
			return fmt.Sprintf("let %s = %s;", o.Target.Name, call)
		}
		return call + ";"

	case ir.ArrayOp:
		return arrayOpString(o)

	case ir.MapOp:
		return mapOpString(o)

	case ir.StringOp:
		return stringOpString(o)

	case ir.TypeCheck:
		return fmt.Sprintf("let %s = %s is %s;", o.Result.Name, exprString(o.Value), o.Target)

	case ir.Throw:
		return fmt.Sprintf("throw(%s);", exprString(o.Exception))

	case ir.Assert:
		if o.Message != nil {
			return fmt.Sprintf("assert(%s, %s);", exprString(o.Condition), exprString(o.Message))
		}
		return fmt.Sprintf("assert(%s);", exprString(o.Condition))

	case ir.Abort:
		if o.Message != nil {
			return fmt.Sprintf("abort(%s);", exprString(o.Message))
		}
		return "abort();"

	case ir.Comment:
		return "// " + o.Text

	case ir.Effect:
		return fmt.Sprintf("// effect: %s", o.Description)

	default:
		return "// <unknown operation>"
	}
}

func storageOpString(o ir.Storage) string {
	switch o.Op {
	case ir.StorageGet:
		call := fmt.Sprintf("storage.get(%s)", exprString(o.Key))
		if o.Target != nil {
			return fmt.Sprintf("let %s = %s;", o.Target.Name, call)
		}
		return call + ";"
	case ir.StoragePut:
		return fmt.Sprintf("storage.put(%s, %s);", exprString(o.Key), exprString(o.Value))
	case ir.StorageDelete:
		return fmt.Sprintf("storage.delete(%s);", exprString(o.Key))
	case ir.StorageFind:
		call := fmt.Sprintf("storage.find(%s)", exprString(o.Key))
		if o.Target != nil {
			return fmt.Sprintf("let %s = %s;", o.Target.Name, call)
		}
		return call + ";"
	default:
		return "// <unknown storage op>"
	}
}

func stackOpString(o ir.Stack) string {
	name := map[ir.StackOp]string{
		ir.StackPush: "push", ir.StackPop: "pop", ir.StackDup: "dup",
		ir.StackSwap: "swap", ir.StackDrop: "drop", ir.StackPick: "pick",
		ir.StackRoll: "roll", ir.StackReverse: "reverse", ir.StackSize: "size",
		ir.StackClear: "clear",
	}[o.Op]
	call := fmt.Sprintf("stack.%s(%s)", name, exprList(o.Operands))
	if o.Target != nil {
		return fmt.Sprintf("let %s = %s;", o.Target.Name, call)
	}
	return call + ";"
}

func arrayOpString(o ir.ArrayOp) string {
	name := map[ir.ArrayOpTag]string{
		ir.ArraySetItem: "setItem", ir.ArrayPickItem: "pickItem",
		ir.ArrayAppend: "append", ir.ArrayRemove: "remove", ir.ArraySize: "size",
		ir.ArrayClearItems: "clear", ir.ArrayPopItem: "pop", ir.ArraySlice: "slice",
		ir.ArrayReverse: "reverse", ir.ArrayPack: "pack", ir.ArrayUnpack: "unpack",
	}[o.Tag]
	if o.Tag == ir.ArrayPickItem && len(o.Operands) == 2 {
		idx := fmt.Sprintf("%s[%s]", exprString(o.Operands[0]), exprString(o.Operands[1]))
		if o.Target != nil {
			return fmt.Sprintf("let %s = %s;", o.Target.Name, idx)
		}
		return idx + ";"
	}
	if o.Tag == ir.ArraySetItem && len(o.Operands) == 3 {
		return fmt.Sprintf("%s[%s] = %s;", exprString(o.Operands[0]), exprString(o.Operands[1]), exprString(o.Operands[2]))
	}
	call := fmt.Sprintf("array.%s(%s)", name, exprList(o.Operands))
	if o.Target != nil {
		return fmt.Sprintf("let %s = %s;", o.Target.Name, call)
	}
	return call + ";"
}

func mapOpString(o ir.MapOp) string {
	name := map[ir.MapOpTag]string{
		ir.MapHasKey: "hasKey", ir.MapKeys: "keys", ir.MapValues: "values",
	}[o.Tag]
	call := fmt.Sprintf("map.%s(%s)", name, exprList(o.Operands))
	if o.Target != nil {
		return fmt.Sprintf("let %s = %s;", o.Target.Name, call)
	}
	return call + ";"
}

func stringOpString(o ir.StringOp) string {
	name := map[ir.StringOpTag]string{
		ir.StringCat: "cat", ir.StringSubstr: "substr",
		ir.StringLeft: "left", ir.StringRight: "right",
	}[o.Tag]
	call := fmt.Sprintf("string.%s(%s)", name, exprList(o.Operands))
	if o.Target != nil {
		return fmt.Sprintf("let %s = %s;", o.Target.Name, call)
	}
	return call + ";"
}

func returnStmt(t ir.ReturnTerm) string {
	if t.Value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", exprString(t.Value))
}

func abortStmt(t ir.AbortTerm) string {
	if t.Message == nil {
		return "abort();"
	}
	return fmt.Sprintf("abort(%s);", exprString(t.Message))
}
