// Package lifter lowers a disassembled instruction stream into the
// block-structured intermediate representation decompile/ir defines:
// basic-block boundaries, a symbolic-stack simulation local to each
// block, and one terminator per block (§4.3).
package lifter

import (
	"github.com/mna/neodec/decompile/ir"
	"github.com/mna/neodec/decompile/opcode"
	"github.com/mna/neodec/decompile/types"
)

// Lift builds one Function from a flat instruction stream. name is the
// symbolic name to give the function (a manifest method name, or a
// sub_0xHHHH fallback for an inferred helper). Non-fatal conditions are
// both returned and recorded on Function.Errors; lifting always produces
// a usable (if imperfect) Function.
func Lift(name string, instrs []ir.Instruction, opts Options) (*ir.Function, []*Error) {
	fn := ir.NewFunction(name)
	fs := newFuncState(fn, opts)

	if len(instrs) == 0 {
		return fn, nil
	}

	byOffset := indexByOffset(instrs)
	bounds := discoverBoundaries(instrs, byOffset)
	bm := buildBlockMap(instrs, bounds)
	scriptEnd := instrs[len(instrs)-1].End()

	blockInstrs := make(map[ir.BlockID][]ir.Instruction, len(bounds))
	for _, in := range instrs {
		id, ok := bm.blockOf(in.Offset)
		if !ok {
			continue
		}
		blockInstrs[id] = append(blockInstrs[id], in)
	}

	catchBlocks := findCatchBlocks(instrs, bm)

	fn.Entry = 0
	for id := ir.BlockID(0); int(id) < len(bounds); id++ {
		group := blockInstrs[id]
		b := fn.Block(id)
		if len(group) == 0 {
			// A boundary with no instruction landing on it is itself an
			// InvalidControlFlow condition, but it cannot occur here: every
			// bound in discoverBoundaries/buildBlockMap is filtered to a real
			// instruction offset already.
			continue
		}

		st := &stackState{}
		if catchBlocks[id] {
			exc := fs.newTemp()
			exc.Type = types.Any{}
			st.push(ir.Ref(exc))
		}

		last := group[len(group)-1]
		for _, in := range group[:len(group)-1] {
			if op := fs.lowerInstruction(in, st); op != nil {
				b.Ops = append(b.Ops, op)
			}
		}
		if in := last; in.Op.IsCall() {
			if op := fs.lowerInstruction(in, st); op != nil {
				b.Ops = append(b.Ops, op)
			}
		} else if !isTerminatorShaped(last.Op) {
			if op := fs.lowerInstruction(last, st); op != nil {
				b.Ops = append(b.Ops, op)
			}
		}

		fallthroughOff := last.End()
		fallthroughID, hasFallthrough := bm.blockOf(fallthroughOff)
		if fallthroughOff >= scriptEnd {
			hasFallthrough = false
		}
		b.Terminator = fs.buildTerminator(last, st, bm, fallthroughID, hasFallthrough)
		if st.depth > fn.Meta.MaxStackDepth {
			fn.Meta.MaxStackDepth = st.depth
		}
	}

	fn.ComputePredecessors()
	fn.Meta.BlockCount = len(fn.Blocks)
	edges := 0
	ops := 0
	for _, b := range fn.Blocks {
		edges += len(b.Successors())
		ops += len(b.Ops)
	}
	fn.Meta.OperationCount = ops
	fn.Meta.CyclomaticComplexity = edges - fn.Meta.BlockCount + 2
	if fn.Meta.CyclomaticComplexity < 1 {
		fn.Meta.CyclomaticComplexity = 1
	}

	return fn, fs.errs
}

// isTerminatorShaped reports whether op is one of the opcodes
// buildTerminator consumes directly as its own condition/operand source
// (so lowerInstruction must not also process it as a body operation).
// Call-family opcodes are handled separately since their call effect is
// a body operation even though they also determine the Jump(fallthrough)
// terminator.
func isTerminatorShaped(op opcode.Opcode) bool {
	switch op {
	case opcode.RET, opcode.ABORT, opcode.THROW, opcode.ABORTMSG,
		opcode.ENDFINALLY, opcode.TRY, opcode.TRY_L,
		opcode.ENDTRY, opcode.ENDTRY_L:
		return true
	default:
		return op.IsJump()
	}
}

// findCatchBlocks resolves every TRY/TRY_L catch target to a block id,
// for the exception-value injection described in §4.3.6.
func findCatchBlocks(instrs []ir.Instruction, bm *blockMap) map[ir.BlockID]bool {
	out := make(map[ir.BlockID]bool)
	for _, in := range instrs {
		if in.Op != opcode.TRY && in.Op != opcode.TRY_L {
			continue
		}
		to, ok := in.Operand.(ir.TryOperand)
		if !ok {
			continue
		}
		if id, ok := bm.blockOf(uint32(int64(in.Offset) + int64(to.CatchOffset))); ok {
			out[id] = true
		}
	}
	return out
}
