package lifter

import (
	"github.com/mna/neodec/decompile/ir"
	"github.com/mna/neodec/decompile/opcode"
)

// jumpBranchOps maps the unsigned comparison jump family to the binary
// operator its Branch condition uses (§4.3.4).
var jumpBranchOps = map[opcode.Opcode]ir.BinaryOperator{
	opcode.JMPEQ: ir.Equal, opcode.JMPEQ_L: ir.Equal,
	opcode.JMPNE: ir.NotEqual, opcode.JMPNE_L: ir.NotEqual,
	opcode.JMPGT: ir.Greater, opcode.JMPGT_L: ir.Greater,
	opcode.JMPGE: ir.GreaterEqual, opcode.JMPGE_L: ir.GreaterEqual,
	opcode.JMPLT: ir.Less, opcode.JMPLT_L: ir.Less,
	opcode.JMPLE: ir.LessEqual, opcode.JMPLE_L: ir.LessEqual,
}

// buildTerminator implements §4.3.4: the last instruction of a block
// determines its terminator. fallthroughID is the block id that
// immediately follows this one in offset order (valid unless this is the
// function's last block).
func (fs *funcState) buildTerminator(in ir.Instruction, st *stackState, bm *blockMap, fallthroughID ir.BlockID, hasFallthrough bool) ir.Terminator {
	off := in.Offset

	jumpTarget := func() (ir.BlockID, bool) {
		jo, ok := in.Operand.(ir.JumpOperand)
		if !ok {
			return 0, false
		}
		return bm.blockOf(uint32(int64(off) + int64(jo.Delta)))
	}

	switch {
	case in.Op == opcode.RET:
		var v ir.Expression
		if e, ok := st.pop(); ok {
			v = e
		}
		return ir.ReturnTerm{Value: v}

	case in.Op == opcode.ABORT:
		return ir.AbortTerm{}
	case in.Op == opcode.THROW:
		return ir.AbortTerm{Message: fs.pop(st, off)}
	case in.Op == opcode.ABORTMSG:
		return ir.AbortTerm{Message: fs.pop(st, off)}

	case in.Op == opcode.JMP || in.Op == opcode.JMP_L:
		target, ok := jumpTarget()
		if !ok {
			fs.addErr(InvalidControlFlow, off, "jump target does not land on an instruction")
			return fallback(fallthroughID, hasFallthrough, fs, off)
		}
		return ir.JumpTerm{Target: target}

	case in.Op == opcode.JMPIF || in.Op == opcode.JMPIF_L:
		target, ok := jumpTarget()
		cond := fs.pop(st, off)
		if !ok || !hasFallthrough {
			fs.addErr(InvalidControlFlow, off, "conditional jump missing a branch target")
			return fallback(fallthroughID, hasFallthrough, fs, off)
		}
		return ir.BranchTerm{Condition: cond, TrueBlk: target, FalseBlk: fallthroughID}

	case in.Op == opcode.JMPIFNOT || in.Op == opcode.JMPIFNOT_L:
		target, ok := jumpTarget()
		cond := fs.pop(st, off)
		if !ok || !hasFallthrough {
			fs.addErr(InvalidControlFlow, off, "conditional jump missing a branch target")
			return fallback(fallthroughID, hasFallthrough, fs, off)
		}
		return ir.BranchTerm{Condition: cond, TrueBlk: fallthroughID, FalseBlk: target}

	case isConditionalCompareJump(in.Op):
		target, ok := jumpTarget()
		op := jumpBranchOps[in.Op]
		right := fs.pop(st, off)
		left := fs.pop(st, off)
		if !ok || !hasFallthrough {
			fs.addErr(InvalidControlFlow, off, "conditional jump missing a branch target")
			return fallback(fallthroughID, hasFallthrough, fs, off)
		}
		cond := &ir.BinaryExpr{Op: op, Left: left, Right: right}
		return ir.BranchTerm{Condition: cond, TrueBlk: target, FalseBlk: fallthroughID}

	case in.Op == opcode.CALL || in.Op == opcode.CALL_L || in.Op == opcode.CALLA || in.Op == opcode.CALLT:
		return fallback(fallthroughID, hasFallthrough, fs, off)

	case in.Op == opcode.TRY || in.Op == opcode.TRY_L:
		to, _ := in.Operand.(ir.TryOperand)
		var catch, finally *ir.BlockID
		if c, ok := bm.blockOf(uint32(int64(off) + int64(to.CatchOffset))); ok {
			catch = &c
		}
		if to.HasFinally {
			if f, ok := bm.blockOf(uint32(int64(off) + int64(to.FinallyOffset))); ok {
				finally = &f
			}
		}
		if !hasFallthrough {
			fs.addErr(InvalidControlFlow, off, "try block has no body successor")
			return ir.TryBlockTerm{Body: fallthroughID, Catch: catch, Finally: finally}
		}
		return ir.TryBlockTerm{Body: fallthroughID, Catch: catch, Finally: finally}

	case in.Op == opcode.ENDTRY || in.Op == opcode.ENDTRY_L:
		if target, ok := jumpTarget(); ok {
			return ir.JumpTerm{Target: target}
		}
		return fallback(fallthroughID, hasFallthrough, fs, off)

	case in.Op == opcode.ENDFINALLY:
		return fallback(fallthroughID, hasFallthrough, fs, off)

	default:
		return fallback(fallthroughID, hasFallthrough, fs, off)
	}
}

func isConditionalCompareJump(op opcode.Opcode) bool {
	_, ok := jumpBranchOps[op]
	return ok
}

// fallback implements the "anything else → Jump(fallthrough)" row, and
// the unstructured-fallthrough-past-the-end error condition named at the
// end of §4.3.4.
func fallback(fallthroughID ir.BlockID, hasFallthrough bool, fs *funcState, off uint32) ir.Terminator {
	if !hasFallthrough {
		fs.addErr(InvalidControlFlow, off, "fallthrough past the last instruction of the function")
		return ir.AbortTerm{}
	}
	return ir.JumpTerm{Target: fallthroughID}
}
