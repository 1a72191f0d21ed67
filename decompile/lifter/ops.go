package lifter

import (
	"fmt"

	"github.com/mna/neodec/decompile/ir"
	"github.com/mna/neodec/decompile/opcode"
	"github.com/mna/neodec/decompile/types"
)

var binaryArith = map[opcode.Opcode]ir.BinaryOperator{
	opcode.ADD: ir.Add, opcode.SUB: ir.Sub, opcode.MUL: ir.Mul, opcode.DIV: ir.Div,
	opcode.MOD: ir.Mod, opcode.POW: ir.Pow,
	opcode.AND: ir.BitAnd, opcode.OR: ir.BitOr, opcode.XOR: ir.BitXor,
	opcode.SHL: ir.ShiftLeft, opcode.SHR: ir.ShiftRight,
	opcode.BOOLAND: ir.BoolAnd, opcode.BOOLOR: ir.BoolOr,
}

var comparisonOps = map[opcode.Opcode]ir.BinaryOperator{
	opcode.NUMEQUAL: ir.Equal, opcode.NUMNOTEQUAL: ir.NotEqual,
	opcode.EQUAL: ir.Equal, opcode.NOTEQUAL: ir.NotEqual,
	opcode.LT: ir.Less, opcode.LE: ir.LessEqual, opcode.GT: ir.Greater, opcode.GE: ir.GreaterEqual,
}

var unaryOps = map[opcode.Opcode]ir.UnaryOperator{
	opcode.NOT: ir.Not, opcode.NEGATE: ir.Negate, opcode.ABS: ir.Abs,
	opcode.SIGN: ir.Sign, opcode.SQRT: ir.Sqrt, opcode.INVERT: ir.BitwiseNot,
}

var arrayOpTags = map[opcode.Opcode]ir.ArrayOpTag{
	opcode.SETITEM: ir.ArraySetItem, opcode.PICKITEM: ir.ArrayPickItem,
	opcode.APPEND: ir.ArrayAppend, opcode.REMOVE: ir.ArrayRemove,
	opcode.SIZE: ir.ArraySize, opcode.CLEARITEMS: ir.ArrayClearItems,
	opcode.POPITEM: ir.ArrayPopItem, opcode.SLICE: ir.ArraySlice,
}

var mapOpTags = map[opcode.Opcode]ir.MapOpTag{
	opcode.HASKEY: ir.MapHasKey, opcode.KEYS: ir.MapKeys, opcode.VALUES: ir.MapValues,
}

var stringOpTags = map[opcode.Opcode]ir.StringOpTag{
	opcode.CAT: ir.StringCat, opcode.SUBSTR: ir.StringSubstr,
	opcode.LEFT: ir.StringLeft, opcode.RIGHT: ir.StringRight,
}

// numberedLoad maps the fixed-slot load opcodes (LDLOC0..6, LDARG0..6,
// LDSFLD0..6) to their implicit (kind, slot) pair.
var numberedLoad = map[opcode.Opcode]varKey{
	opcode.LDLOC0: {ir.Local, 0}, opcode.LDLOC1: {ir.Local, 1}, opcode.LDLOC2: {ir.Local, 2},
	opcode.LDLOC3: {ir.Local, 3}, opcode.LDLOC4: {ir.Local, 4}, opcode.LDLOC5: {ir.Local, 5},
	opcode.LDLOC6: {ir.Local, 6},
	opcode.LDARG0: {ir.Parameter, 0}, opcode.LDARG1: {ir.Parameter, 1}, opcode.LDARG2: {ir.Parameter, 2},
	opcode.LDARG3: {ir.Parameter, 3}, opcode.LDARG4: {ir.Parameter, 4}, opcode.LDARG5: {ir.Parameter, 5},
	opcode.LDARG6: {ir.Parameter, 6},
	opcode.LDSFLD0: {ir.Static, 0}, opcode.LDSFLD1: {ir.Static, 1}, opcode.LDSFLD2: {ir.Static, 2},
	opcode.LDSFLD3: {ir.Static, 3}, opcode.LDSFLD4: {ir.Static, 4}, opcode.LDSFLD5: {ir.Static, 5},
	opcode.LDSFLD6: {ir.Static, 6},
}

// numberedStore maps the fixed-slot store opcodes (STARG0..6 — the only
// numbered stores the encoding defines) to their (kind, slot) pair.
var numberedStore = map[opcode.Opcode]varKey{
	opcode.STARG0: {ir.Parameter, 0}, opcode.STARG1: {ir.Parameter, 1}, opcode.STARG2: {ir.Parameter, 2},
	opcode.STARG3: {ir.Parameter, 3}, opcode.STARG4: {ir.Parameter, 4}, opcode.STARG5: {ir.Parameter, 5},
	opcode.STARG6: {ir.Parameter, 6},
}

func isLoadOpcode(op opcode.Opcode) bool {
	if _, ok := numberedLoad[op]; ok {
		return true
	}
	return op == opcode.LDLOC || op == opcode.LDARG || op == opcode.LDSFLD
}

func isStoreOpcode(op opcode.Opcode) bool {
	if _, ok := numberedStore[op]; ok {
		return true
	}
	return op == opcode.STLOC || op == opcode.STARG || op == opcode.STSFLD
}

func isBinaryArith(op opcode.Opcode) bool { _, ok := binaryArith[op]; return ok }
func isComparison(op opcode.Opcode) bool  { _, ok := comparisonOps[op]; return ok }
func isUnary(op opcode.Opcode) bool       { _, ok := unaryOps[op]; return ok }
func isArrayOp(op opcode.Opcode) bool     { _, ok := arrayOpTags[op]; return ok }
func isMapOp(op opcode.Opcode) bool       { _, ok := mapOpTags[op]; return ok }
func isStringOp(op opcode.Opcode) bool    { _, ok := stringOpTags[op]; return ok }

// lowerInstruction lowers one non-terminating instruction: it mutates
// the symbolic stack and returns the Operation to append to the block's
// body, or nil for a pure stack permutation that emits nothing.
func (fs *funcState) lowerInstruction(in ir.Instruction, st *stackState) ir.Operation {
	off := in.Offset

	if in.Unknown {
		fs.warn(off, "unrecognized opcode byte 0x%02X", in.Byte)
		return ir.Comment{Text: fmt.Sprintf("unknown opcode 0x%02X", in.Byte)}
	}

	switch {
	case in.Op == opcode.PUSHINT8 || in.Op == opcode.PUSHINT16 ||
		in.Op == opcode.PUSHINT32 || in.Op == opcode.PUSHINT64:
		v, _ := in.Operand.(ir.IntegerOperand)
		st.push(ir.IntLiteral(v.Value))
		return nil

	case in.Op == opcode.PUSHINT128 || in.Op == opcode.PUSHINT256:
		v, _ := in.Operand.(ir.BigIntegerOperand)
		st.push(&ir.LiteralExpr{Kind: ir.LitBigInteger, BigInt: v.Bytes})
		return nil

	case in.Op == opcode.PUSHT:
		st.push(&ir.LiteralExpr{Kind: ir.LitBoolean, Bool: true})
		return nil
	case in.Op == opcode.PUSHF:
		st.push(&ir.LiteralExpr{Kind: ir.LitBoolean, Bool: false})
		return nil
	case in.Op == opcode.PUSHNULL:
		st.push(&ir.LiteralExpr{Kind: ir.LitNull})
		return nil

	case in.Op == opcode.PUSHDATA1 || in.Op == opcode.PUSHDATA2 || in.Op == opcode.PUSHDATA4:
		v, _ := in.Operand.(ir.BytesOperand)
		st.push(&ir.LiteralExpr{Kind: ir.LitByteArray, Bytes: v.Bytes})
		return nil

	case in.Op == opcode.PUSHM1:
		st.push(ir.IntLiteral(-1))
		return nil
	case in.Op >= opcode.PUSH0 && in.Op <= opcode.PUSH16:
		st.push(ir.IntLiteral(int64(in.Op) - int64(opcode.PUSH0)))
		return nil

	case in.Op == opcode.PUSHA:
		jo, _ := in.Operand.(ir.JumpOperand)
		target := uint32(int64(off) + int64(jo.Delta))
		st.push(makePointerExpr(target))
		return nil

	case in.Op == opcode.NOP:
		return nil

	// INITSLOT/INITSSLOT are a declarative prologue: they name the local
	// and static slot counts but touch neither stack nor operations
	// (§4.3.5 handles the argument side separately, at lift time).
	case in.Op == opcode.INITSLOT || in.Op == opcode.INITSSLOT:
		return nil

	// --- stack-only permutations ---
	case in.Op == opcode.DROP:
		fs.pop(st, off)
		return nil
	case in.Op == opcode.CLEAR:
		st.items = st.items[:0]
		return nil
	case in.Op == opcode.DEPTH:
		st.push(ir.IntLiteral(int64(len(st.items))))
		return nil
	case in.Op == opcode.DUP:
		e, ok := st.peekAt(0)
		if !ok {
			fs.addErr(StackUnderflow, off, "")
			e = ir.IntLiteral(0)
		}
		st.push(e)
		return nil
	case in.Op == opcode.DUP2:
		b, ok1 := st.peekAt(0)
		a, ok2 := st.peekAt(1)
		if !ok1 || !ok2 {
			fs.addErr(StackUnderflow, off, "")
			a, b = ir.IntLiteral(0), ir.IntLiteral(0)
		}
		st.push(a)
		st.push(b)
		return nil
	case in.Op == opcode.OVER:
		a, ok := st.peekAt(1)
		if !ok {
			fs.addErr(StackUnderflow, off, "")
			a = ir.IntLiteral(0)
		}
		st.push(a)
		return nil
	case in.Op == opcode.NIP:
		b := fs.pop(st, off)
		fs.pop(st, off)
		st.push(b)
		return nil
	case in.Op == opcode.TUCK:
		b := fs.pop(st, off)
		a := fs.pop(st, off)
		st.push(b)
		st.push(a)
		st.push(b)
		return nil
	case in.Op == opcode.SWAP:
		b := fs.pop(st, off)
		a := fs.pop(st, off)
		st.push(b)
		st.push(a)
		return nil
	case in.Op == opcode.ROT:
		c := fs.pop(st, off)
		b := fs.pop(st, off)
		a := fs.pop(st, off)
		st.push(b)
		st.push(c)
		st.push(a)
		return nil
	case in.Op == opcode.REVERSE3:
		popped := fs.popN(st, 3, off)
		for i := len(popped) - 1; i >= 0; i-- {
			st.push(popped[i])
		}
		return nil
	case in.Op == opcode.REVERSE4:
		popped := fs.popN(st, 4, off)
		for i := len(popped) - 1; i >= 0; i-- {
			st.push(popped[i])
		}
		return nil
	case in.Op == opcode.REVERSEN:
		n := int(countOperand(in))
		popped := fs.popN(st, n, off)
		for i := len(popped) - 1; i >= 0; i-- {
			st.push(popped[i])
		}
		return nil
	case in.Op == opcode.XDROP:
		n := int(countOperand(in))
		fs.popN(st, n, off)
		return nil
	case in.Op == opcode.PICK:
		n := int(slotOperand(in))
		e, ok := st.peekAt(n)
		if !ok {
			fs.addErr(StackUnderflow, off, "")
			e = ir.IntLiteral(0)
		}
		st.push(e)
		return nil
	case in.Op == opcode.ROLL:
		n := int(slotOperand(in))
		e, ok := st.removeAt(n)
		if !ok {
			fs.addErr(StackUnderflow, off, "")
			e = ir.IntLiteral(0)
		}
		st.push(e)
		return nil

	// --- slot loads/stores ---
	case isLoadOpcode(in.Op):
		key, ok := numberedLoad[in.Op]
		if !ok {
			kind := slotKindFor(in.Op)
			key = varKey{kind, int(slotOperand(in))}
		}
		v := fs.variable(key.kind, key.slot)
		st.push(ir.Ref(v))
		return nil

	case isStoreOpcode(in.Op):
		key, ok := numberedStore[in.Op]
		if !ok {
			kind := slotKindForStore(in.Op)
			key = varKey{kind, int(slotOperand(in))}
		}
		v := fs.variable(key.kind, key.slot)
		val := fs.popLenient(st, off, key.slot)
		if target, ok := pointerTarget(val); ok {
			fs.slotPtr[key] = target
		} else {
			delete(fs.slotPtr, key)
		}
		return ir.Assign{Target: v, Value: val}

	// --- arithmetic / bitwise binary ---
	case isBinaryArith(in.Op):
		op := binaryArith[in.Op]
		right := fs.pop(st, off)
		left := fs.pop(st, off)
		t := fs.newTemp()
		st.push(ir.Ref(t))
		return ir.Arithmetic{Op: op, Left: left, Right: right, Target: t}

	case isComparison(in.Op):
		op := comparisonOps[in.Op]
		right := fs.pop(st, off)
		left := fs.pop(st, off)
		t := fs.newTemp()
		t.Type = types.Boolean{}
		st.push(ir.Ref(t))
		return ir.Arithmetic{Op: op, Left: left, Right: right, Target: t}

	case in.Op == opcode.NZ:
		v := fs.pop(st, off)
		t := fs.newTemp()
		t.Type = types.Boolean{}
		st.push(ir.Ref(t))
		return ir.Arithmetic{Op: ir.NotEqual, Left: v, Right: ir.IntLiteral(0), Target: t}

	case in.Op == opcode.INC || in.Op == opcode.DEC:
		op := ir.Add
		if in.Op == opcode.DEC {
			op = ir.Sub
		}
		v := fs.pop(st, off)
		t := fs.newTemp()
		st.push(ir.Ref(t))
		return ir.Arithmetic{Op: op, Left: v, Right: ir.IntLiteral(1), Target: t}

	case isUnary(in.Op):
		op := unaryOps[in.Op]
		v := fs.pop(st, off)
		t := fs.newTemp()
		st.push(ir.Ref(t))
		return ir.Unary{Op: op, Operand: v, Target: t}

	case in.Op == opcode.MIN || in.Op == opcode.MAX:
		b := fs.pop(st, off)
		a := fs.pop(st, off)
		t := fs.newTemp()
		st.push(ir.Ref(t))
		name := "min"
		if in.Op == opcode.MAX {
			name = "max"
		}
		return ir.BuiltinCall{Name: name, Args: []ir.Expression{a, b}, Target: t}

	case in.Op == opcode.WITHIN:
		args := fs.popN(st, 3, off)
		t := fs.newTemp()
		t.Type = types.Boolean{}
		st.push(ir.Ref(t))
		return ir.BuiltinCall{Name: "within", Args: args, Target: t}

	case in.Op == opcode.MODMUL || in.Op == opcode.MODPOW:
		args := fs.popN(st, 3, off)
		t := fs.newTemp()
		st.push(ir.Ref(t))
		name := "modmul"
		if in.Op == opcode.MODPOW {
			name = "modpow"
		}
		return ir.BuiltinCall{Name: name, Args: args, Target: t}

	case in.Op == opcode.MEMCPY:
		args := fs.popN(st, 5, off)
		return ir.BuiltinCall{Name: "memcpy", Args: args}

	// --- compound type construction ---
	case in.Op == opcode.PACK || in.Op == opcode.PACKARRAY:
		n := int(countOperand(in))
		elems := fs.popN(st, n, off)
		t := fs.newTemp()
		t.Type = types.Array{Inner: types.Any{}}
		st.push(ir.Ref(t))
		return ir.Assign{Target: t, Value: &ir.ArrayLiteralExpr{Elements: elems}}
	case in.Op == opcode.PACKSTRUCT:
		n := int(countOperand(in))
		elems := fs.popN(st, n, off)
		t := fs.newTemp()
		st.push(ir.Ref(t))
		return ir.Assign{Target: t, Value: &ir.StructLiteralExpr{Fields: elems}}
	case in.Op == opcode.PACKMAP:
		n := int(countOperand(in))
		flat := fs.popN(st, 2*n, off)
		keys := make([]ir.Expression, 0, n)
		vals := make([]ir.Expression, 0, n)
		for i := 0; i < len(flat); i += 2 {
			keys = append(keys, flat[i])
			vals = append(vals, flat[i+1])
		}
		t := fs.newTemp()
		t.Type = types.Map{Key: types.Any{}, Value: types.Any{}}
		st.push(ir.Ref(t))
		return ir.Assign{Target: t, Value: &ir.MapLiteralExpr{Keys: keys, Values: vals}}
	case in.Op == opcode.UNPACK:
		container := fs.pop(st, off)
		t := fs.newTemp()
		st.push(ir.Ref(t))
		return ir.ArrayOp{Tag: ir.ArrayUnpack, Operands: []ir.Expression{container}, Target: t}

	case in.Op == opcode.NEWARRAY0 || in.Op == opcode.NEWSTRUCT0:
		t := fs.newTemp()
		t.Type = types.Array{Inner: types.Any{}}
		st.push(ir.Ref(t))
		return ir.Assign{Target: t, Value: &ir.ArrayCreateExpr{ElementType: types.Any{}, Count: ir.IntLiteral(0)}}
	case in.Op == opcode.NEWARRAY || in.Op == opcode.NEWSTRUCT:
		n := fs.pop(st, off)
		t := fs.newTemp()
		t.Type = types.Array{Inner: types.Any{}}
		st.push(ir.Ref(t))
		return ir.Assign{Target: t, Value: &ir.ArrayCreateExpr{ElementType: types.Any{}, Count: n}}
	case in.Op == opcode.NEWARRAYT:
		n := fs.pop(st, off)
		t := fs.newTemp()
		st.push(ir.Ref(t))
		return ir.Assign{Target: t, Value: &ir.ArrayCreateExpr{ElementType: types.Any{}, Count: n}}
	case in.Op == opcode.NEWMAP:
		t := fs.newTemp()
		t.Type = types.Map{Key: types.Any{}, Value: types.Any{}}
		st.push(ir.Ref(t))
		return ir.Assign{Target: t, Value: &ir.MapCreateExpr{}}
	case in.Op == opcode.NEWBUFFER:
		sizeOp, _ := in.Operand.(ir.BufferSizeOperand)
		t := fs.newTemp()
		t.Type = types.Buffer{}
		st.push(ir.Ref(t))
		return ir.Assign{Target: t, Value: ir.IntLiteral(int64(sizeOp.Size))}

	// --- array/map primitives ---
	case isArrayOp(in.Op):
		return fs.lowerArrayOp(in, st, off)
	case isMapOp(in.Op):
		return fs.lowerMapOp(in, st, off)
	case isStringOp(in.Op):
		return fs.lowerStringOp(in, st, off)

	case in.Op == opcode.CONVERT:
		to, _ := in.Operand.(ir.StackItemTypeOperand)
		v := fs.pop(st, off)
		t := fs.newTemp()
		st.push(ir.Ref(t))
		return ir.Convert{Value: v, To: to.Type, Target: t}
	case in.Op == opcode.ISTYPE:
		to, _ := in.Operand.(ir.StackItemTypeOperand)
		v := fs.pop(st, off)
		t := fs.newTemp()
		t.Type = types.Boolean{}
		st.push(ir.Ref(t))
		return ir.TypeCheck{Value: v, Target: stackItemType(to.Type), Result: t}
	case in.Op == opcode.ISNULL:
		v := fs.pop(st, off)
		t := fs.newTemp()
		t.Type = types.Boolean{}
		st.push(ir.Ref(t))
		return ir.TypeCheck{Value: v, Target: types.Null{}, Result: t}

	case in.Op == opcode.SYSCALL:
		return fs.lowerSyscall(in, st, off)

	case in.Op == opcode.CALLA:
		return fs.lowerCalla(in, st, off)
	case in.Op == opcode.CALLT:
		return fs.lowerCallt(in, st, off)
	case in.Op == opcode.CALL || in.Op == opcode.CALL_L:
		return fs.lowerDirectCall(in, st, off)

	case in.Op == opcode.ASSERT:
		cond := fs.pop(st, off)
		return ir.Assert{Condition: cond}
	case in.Op == opcode.ASSERTMSG:
		msg := fs.pop(st, off)
		cond := fs.pop(st, off)
		return ir.Assert{Condition: cond, Message: msg}

	default:
		fs.warn(off, "opcode %s has no explicit lowering, emitted as a bare annotation", in.Op)
		return ir.Comment{Text: fmt.Sprintf("unhandled: %s", in.Op)}
	}
}

func countOperand(in ir.Instruction) uint8 {
	if c, ok := in.Operand.(ir.CountOperand); ok {
		return c.Count
	}
	return 0
}

func slotOperand(in ir.Instruction) uint8 {
	if s, ok := in.Operand.(ir.SlotOperand); ok {
		return s.Index
	}
	return 0
}

func slotKindFor(op opcode.Opcode) ir.VarKind {
	switch op {
	case opcode.LDLOC:
		return ir.Local
	case opcode.LDARG:
		return ir.Parameter
	case opcode.LDSFLD:
		return ir.Static
	default:
		return ir.Local
	}
}

func slotKindForStore(op opcode.Opcode) ir.VarKind {
	switch op {
	case opcode.STLOC:
		return ir.Local
	case opcode.STARG:
		return ir.Parameter
	case opcode.STSFLD:
		return ir.Static
	default:
		return ir.Local
	}
}

// stackItemType adapts a decoded ir.StackItemType into a decompile/types
// Type for use as TypeCheck's static target, following the VM-type to
// static-type mapping used throughout the type lattice.
func stackItemType(t ir.StackItemType) types.Type {
	switch t {
	case ir.TypeBoolean:
		return types.Boolean{}
	case ir.TypeInteger:
		return types.Integer{}
	case ir.TypeByteString:
		return types.ByteString{}
	case ir.TypeBuffer:
		return types.Buffer{}
	case ir.TypeArray:
		return types.Array{Inner: types.Any{}}
	case ir.TypeStruct:
		return types.Struct{}
	case ir.TypeMap:
		return types.Map{Key: types.Any{}, Value: types.Any{}}
	case ir.TypeInteropInterface:
		return types.InteropInterface{}
	case ir.TypePointer:
		return types.Pointer{Inner: types.Any{}}
	default:
		return types.Any{}
	}
}

func (fs *funcState) lowerArrayOp(in ir.Instruction, st *stackState, off uint32) ir.Operation {
	tag := arrayOpTags[in.Op]
	switch in.Op {
	case opcode.SETITEM:
		value := fs.pop(st, off)
		index := fs.pop(st, off)
		container := fs.pop(st, off)
		return ir.ArrayOp{Tag: ir.ArraySetItem, Operands: []ir.Expression{container, index, value}}
	case opcode.PICKITEM:
		index := fs.pop(st, off)
		container := fs.pop(st, off)
		t := fs.newTemp()
		st.push(ir.Ref(t))
		return ir.ArrayOp{Tag: tag, Operands: []ir.Expression{container, index}, Target: t}
	case opcode.APPEND:
		value := fs.pop(st, off)
		container := fs.pop(st, off)
		return ir.ArrayOp{Tag: tag, Operands: []ir.Expression{container, value}}
	case opcode.REMOVE:
		index := fs.pop(st, off)
		container := fs.pop(st, off)
		return ir.ArrayOp{Tag: tag, Operands: []ir.Expression{container, index}}
	case opcode.SIZE:
		container := fs.pop(st, off)
		t := fs.newTemp()
		t.Type = types.Integer{}
		st.push(ir.Ref(t))
		return ir.ArrayOp{Tag: tag, Operands: []ir.Expression{container}, Target: t}
	case opcode.CLEARITEMS:
		container := fs.pop(st, off)
		return ir.ArrayOp{Tag: tag, Operands: []ir.Expression{container}}
	case opcode.POPITEM:
		container := fs.pop(st, off)
		t := fs.newTemp()
		st.push(ir.Ref(t))
		return ir.ArrayOp{Tag: tag, Operands: []ir.Expression{container}, Target: t}
	case opcode.SLICE:
		end := fs.pop(st, off)
		start := fs.pop(st, off)
		container := fs.pop(st, off)
		t := fs.newTemp()
		st.push(ir.Ref(t))
		return ir.ArrayOp{Tag: tag, Operands: []ir.Expression{container, start, end}, Target: t}
	default:
		return ir.Comment{Text: fmt.Sprintf("unhandled array op: %s", in.Op)}
	}
}

func (fs *funcState) lowerMapOp(in ir.Instruction, st *stackState, off uint32) ir.Operation {
	tag := mapOpTags[in.Op]
	switch in.Op {
	case opcode.HASKEY:
		key := fs.pop(st, off)
		container := fs.pop(st, off)
		t := fs.newTemp()
		t.Type = types.Boolean{}
		st.push(ir.Ref(t))
		return ir.MapOp{Tag: tag, Operands: []ir.Expression{container, key}, Target: t}
	case opcode.KEYS, opcode.VALUES:
		container := fs.pop(st, off)
		t := fs.newTemp()
		st.push(ir.Ref(t))
		return ir.MapOp{Tag: tag, Operands: []ir.Expression{container}, Target: t}
	default:
		return ir.Comment{Text: fmt.Sprintf("unhandled map op: %s", in.Op)}
	}
}

func (fs *funcState) lowerStringOp(in ir.Instruction, st *stackState, off uint32) ir.Operation {
	tag := stringOpTags[in.Op]
	switch in.Op {
	case opcode.CAT:
		b := fs.pop(st, off)
		a := fs.pop(st, off)
		t := fs.newTemp()
		st.push(ir.Ref(t))
		return ir.StringOp{Tag: tag, Operands: []ir.Expression{a, b}, Target: t}
	case opcode.SUBSTR:
		length := fs.pop(st, off)
		index := fs.pop(st, off)
		v := fs.pop(st, off)
		t := fs.newTemp()
		st.push(ir.Ref(t))
		return ir.StringOp{Tag: tag, Operands: []ir.Expression{v, index, length}, Target: t}
	case opcode.LEFT, opcode.RIGHT:
		n := fs.pop(st, off)
		v := fs.pop(st, off)
		t := fs.newTemp()
		st.push(ir.Ref(t))
		return ir.StringOp{Tag: tag, Operands: []ir.Expression{v, n}, Target: t}
	default:
		return ir.Comment{Text: fmt.Sprintf("unhandled string op: %s", in.Op)}
	}
}

func (fs *funcState) lowerSyscall(in ir.Instruction, st *stackState, off uint32) ir.Operation {
	hashOp, _ := in.Operand.(ir.SyscallHashOperand)

	var info SyscallInfo
	var ok bool
	if fs.opts.Syscalls != nil {
		info, ok = fs.opts.Syscalls.Resolve(hashOp.Hash)
	}
	if !ok {
		info = SyscallInfo{Name: fmt.Sprintf("syscall_0x%08X", hashOp.Hash)}
		fs.warn(off, "unresolved syscall hash 0x%08X", hashOp.Hash)
	}

	args := fs.popN(st, info.ParamCount, off)

	var target *ir.Variable
	if info.ReturnType != nil {
		target = fs.newTemp()
		target.Type = info.ReturnType
		st.push(ir.Ref(target))
	}

	return ir.Syscall{Name: info.Name, Args: args, ReturnType: info.ReturnType, Target: target}
}

// lowerCalla implements §4.3.3's pointer-provenance resolution: a direct
// invocation when the pointer's origin is known, a bare BuiltinCall
// otherwise.
func (fs *funcState) lowerCalla(in ir.Instruction, st *stackState, off uint32) ir.Operation {
	ptr := fs.pop(st, off)

	var target uint32
	var resolved bool
	if t, ok := pointerTarget(ptr); ok {
		target, resolved = t, true
	} else if ve, ok := ptr.(*ir.VariableExpr); ok {
		for key, t := range fs.slotPtr {
			if v := fs.vars[key]; v == ve.Var {
				target, resolved = t, true
				break
			}
		}
	}

	if !resolved {
		t := fs.newTemp()
		st.push(ir.Ref(t))
		return ir.BuiltinCall{Name: "calla", Args: []ir.Expression{ptr}, Target: t}
	}

	info, haveInfo := CallTargetInfo{}, false
	if fs.opts.ResolveCall != nil {
		info, haveInfo = fs.opts.ResolveCall(target)
	}
	name := fmt.Sprintf("sub_0x%X", target)
	paramCount := 0
	hasReturn := false
	if haveInfo {
		name, paramCount, hasReturn = info.Name, info.ParamCount, info.HasReturn
	}

	args := fs.popN(st, paramCount, off)
	var ret *ir.Variable
	if hasReturn {
		ret = fs.newTemp()
		st.push(ir.Ref(ret))
	}
	return ir.BuiltinCall{Name: name, Args: args, Target: ret}
}

func (fs *funcState) lowerCallt(in ir.Instruction, st *stackState, off uint32) ir.Operation {
	tok, _ := in.Operand.(ir.TokenOperand)

	name := fmt.Sprintf("token_%d", tok.Index)
	paramCount := 0
	hasReturn := false
	var contract ir.Expression
	var flags ir.CallFlags
	if int(tok.Index) < len(fs.opts.MethodTokens) {
		mt := fs.opts.MethodTokens[tok.Index]
		name, paramCount, hasReturn = mt.Name, mt.ParamCount, mt.HasReturn
		contract = &ir.LiteralExpr{Kind: ir.LitHash160, Bytes: mt.Contract[:]}
		flags = ir.CallFlags(mt.CallFlags)
	} else {
		fs.warn(off, "call-token index %d out of range", tok.Index)
	}

	args := fs.popN(st, paramCount, off)
	var ret *ir.Variable
	if hasReturn {
		ret = fs.newTemp()
		st.push(ir.Ref(ret))
	}
	return ir.ContractCall{Contract: contract, Method: name, Args: args, Flags: flags, Target: ret}
}

func (fs *funcState) lowerDirectCall(in ir.Instruction, st *stackState, off uint32) ir.Operation {
	jo, _ := in.Operand.(ir.JumpOperand)
	target := uint32(int64(off) + int64(jo.Delta))

	var info CallTargetInfo
	var ok bool
	if fs.opts.ResolveCall != nil {
		info, ok = fs.opts.ResolveCall(target)
	}
	name := fmt.Sprintf("sub_0x%X", target)
	paramCount := 0
	hasReturn := false
	if ok {
		name, paramCount, hasReturn = info.Name, info.ParamCount, info.HasReturn
	} else {
		fs.warn(off, "unresolved call target at offset %d", target)
	}

	args := fs.popN(st, paramCount, off)
	var ret *ir.Variable
	if hasReturn {
		ret = fs.newTemp()
		st.push(ir.Ref(ret))
	}
	return ir.BuiltinCall{Name: name, Args: args, Target: ret}
}
