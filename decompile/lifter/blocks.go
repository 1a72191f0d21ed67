package lifter

import (
	"golang.org/x/exp/slices"

	"github.com/mna/neodec/decompile/ir"
	"github.com/mna/neodec/decompile/opcode"
)

// indexByOffset maps an instruction's byte offset to its index in instrs,
// for target and fallthrough resolution.
func indexByOffset(instrs []ir.Instruction) map[uint32]int {
	m := make(map[uint32]int, len(instrs))
	for i, in := range instrs {
		m[in.Offset] = i
	}
	return m
}

// discoverBoundaries implements §4.3.1: a two-pass scan producing every
// basic-block start offset.
func discoverBoundaries(instrs []ir.Instruction, byOffset map[uint32]int) []uint32 {
	bounds := map[uint32]bool{0: true}

	add := func(off uint32) {
		if _, ok := byOffset[off]; ok {
			bounds[off] = true
		}
	}

	for _, in := range instrs {
		op := in.Op
		switch {
		case op.IsJump():
			if jo, ok := in.Operand.(ir.JumpOperand); ok {
				add(uint32(int64(in.Offset) + int64(jo.Delta)))
			}
			if op != opcode.JMP && op != opcode.JMP_L {
				add(in.End())
			}

		case op == opcode.CALL || op == opcode.CALL_L:
			if jo, ok := in.Operand.(ir.JumpOperand); ok {
				add(uint32(int64(in.Offset) + int64(jo.Delta)))
			}
			add(in.End())

		case op == opcode.CALLA || op == opcode.CALLT:
			add(in.End())

		case op == opcode.TRY || op == opcode.TRY_L:
			if to, ok := in.Operand.(ir.TryOperand); ok {
				add(uint32(int64(in.Offset) + int64(to.CatchOffset)))
				if to.HasFinally {
					add(uint32(int64(in.Offset) + int64(to.FinallyOffset)))
				}
			}
			add(in.End())

		case op == opcode.ENDTRY || op == opcode.ENDTRY_L:
			if jo, ok := in.Operand.(ir.JumpOperand); ok {
				add(uint32(int64(in.Offset) + int64(jo.Delta)))
			}
			add(in.End())

		case op == opcode.ENDFINALLY || op == opcode.RET ||
			op == opcode.ABORT || op == opcode.ABORTMSG || op == opcode.THROW:
			add(in.End())
		}
	}

	out := make([]uint32, 0, len(bounds))
	for b := range bounds {
		out = append(out, b)
	}
	slices.Sort(out)
	return out
}

// blockMap assigns block ids (index in the sorted boundary list, so block
// id 0 is the entry per §4.3.1) and a per-offset lookup (§4.3.2).
type blockMap struct {
	bounds        []uint32
	offsetToBlock map[uint32]ir.BlockID
}

func buildBlockMap(instrs []ir.Instruction, bounds []uint32) *blockMap {
	offsetToBlock := make(map[uint32]ir.BlockID, len(instrs))
	cur := 0
	for _, in := range instrs {
		for cur+1 < len(bounds) && bounds[cur+1] <= in.Offset {
			cur++
		}
		offsetToBlock[in.Offset] = ir.BlockID(cur)
	}
	return &blockMap{bounds: bounds, offsetToBlock: offsetToBlock}
}

// blockOf resolves an offset to its block id, reporting ok=false when the
// offset does not land on any known instruction start (an
// InvalidControlFlow condition at the call site).
func (m *blockMap) blockOf(offset uint32) (ir.BlockID, bool) {
	id, ok := m.offsetToBlock[offset]
	return id, ok
}

// blockEnd returns the offset exclusive upper bound of block id, i.e. the
// offset of the next boundary, or the sentinel scriptEnd if id is the
// last block.
func (m *blockMap) blockEnd(id ir.BlockID, scriptEnd uint32) uint32 {
	idx := int(id) + 1
	if idx >= len(m.bounds) {
		return scriptEnd
	}
	return m.bounds[idx]
}
