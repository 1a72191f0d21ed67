// Package disasm implements the Neo N3 bytecode disassembler: the linear
// sweep from a raw script buffer into a total, ordered sequence of
// ir.Instruction values, recovering from truncated operands rather than
// failing the whole buffer.
package disasm

import (
	"encoding/binary"
	"fmt"

	"github.com/mna/neodec/decompile/ir"
	"github.com/mna/neodec/decompile/opcode"
)

// Error is the disassembly stage's typed error taxonomy (§7). Disassemble
// does not stop on one: truncation and unknown-opcode conditions are
// recovered in place per §4.2's failure model, and each is also returned
// in Disassemble's error list. Error values are exposed
// for components (notably the lifter) that want to report why a
// particular instruction came back incomplete.
type Error struct {
	Kind   ErrorKind
	Offset uint32
	Opcode opcode.Opcode
}

// ErrorKind enumerates the disassembly error taxonomy.
type ErrorKind uint8

const (
	TruncatedInstruction ErrorKind = iota
	UnknownOpcode
	InvalidOperand
	InvalidOperandType
)

func (e *Error) Error() string {
	switch e.Kind {
	case TruncatedInstruction:
		return fmt.Sprintf("disasm: truncated instruction at offset %d", e.Offset)
	case UnknownOpcode:
		return fmt.Sprintf("disasm: unknown opcode at offset %d", e.Offset)
	case InvalidOperand:
		return fmt.Sprintf("disasm: invalid operand for %s at offset %d", e.Opcode, e.Offset)
	case InvalidOperandType:
		return fmt.Sprintf("disasm: invalid operand type at offset %d", e.Offset)
	default:
		return fmt.Sprintf("disasm: error at offset %d", e.Offset)
	}
}

// Disassemble decodes script into a total, ordered instruction sequence:
// the sum of returned instruction sizes always equals len(script), per
// the total-coverage invariant (§8.1.1). Errs reports every recovered
// truncation/unknown-opcode condition encountered along the way, in
// encounter order; a non-empty Errs does not mean the returned sequence
// is incomplete.
func Disassemble(script []byte) (instrs []ir.Instruction, errs []*Error) {
	offset := uint32(0)
	for int(offset) < len(script) {
		inst, err := decodeOne(script, offset)
		instrs = append(instrs, inst)
		if err != nil {
			errs = append(errs, err)
		}
		offset += uint32(inst.Size)
	}
	return instrs, errs
}

func decodeOne(script []byte, offset uint32) (ir.Instruction, *Error) {
	b := script[offset]
	op, ok := opcode.FromByte(b)
	if !ok {
		return ir.Instruction{Offset: offset, Unknown: true, Byte: b, Size: 1},
			&Error{Kind: UnknownOpcode, Offset: offset}
	}

	rest := script[offset+1:]
	operand, size, err := decodeOperand(op, rest, offset)
	if err != nil {
		// Truncated: record everything that remains as a best-effort
		// instruction so the sweep still covers every byte (§4.2).
		avail := len(script) - int(offset)
		return ir.Instruction{Offset: offset, Op: op, Size: uint8(min(avail, 255))}, err
	}

	total := 1 + size
	if total > 255 {
		total = 255
	}
	return ir.Instruction{Offset: offset, Op: op, Operand: operand, Size: uint8(total)}, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// decodeOperand dispatches on op to produce its typed operand (if any)
// and the number of additional bytes consumed (not counting the opcode
// byte itself). Numeric operands are little-endian; signed operands use
// two's-complement of the declared width.
func decodeOperand(op opcode.Opcode, data []byte, offset uint32) (ir.Operand, int, *Error) {
	need := func(n int) *Error {
		if len(data) < n {
			return &Error{Kind: TruncatedInstruction, Offset: offset, Opcode: op}
		}
		return nil
	}

	switch op {
	case opcode.PUSHINT8:
		if e := need(1); e != nil {
			return nil, 0, e
		}
		return ir.IntegerOperand{Value: int64(int8(data[0]))}, 1, nil
	case opcode.PUSHINT16:
		if e := need(2); e != nil {
			return nil, 0, e
		}
		return ir.IntegerOperand{Value: int64(int16(binary.LittleEndian.Uint16(data)))}, 2, nil
	case opcode.PUSHINT32:
		if e := need(4); e != nil {
			return nil, 0, e
		}
		return ir.IntegerOperand{Value: int64(int32(binary.LittleEndian.Uint32(data)))}, 4, nil
	case opcode.PUSHINT64:
		if e := need(8); e != nil {
			return nil, 0, e
		}
		return ir.IntegerOperand{Value: int64(binary.LittleEndian.Uint64(data))}, 8, nil
	case opcode.PUSHINT128:
		if e := need(16); e != nil {
			return nil, 0, e
		}
		buf := make([]byte, 16)
		copy(buf, data[:16])
		return ir.BigIntegerOperand{Bytes: buf}, 16, nil
	case opcode.PUSHINT256:
		if e := need(32); e != nil {
			return nil, 0, e
		}
		buf := make([]byte, 32)
		copy(buf, data[:32])
		return ir.BigIntegerOperand{Bytes: buf}, 32, nil

	case opcode.PUSHDATA1:
		if e := need(1); e != nil {
			return nil, 0, e
		}
		n := int(data[0])
		if e := need(1 + n); e != nil {
			return nil, 0, e
		}
		buf := make([]byte, n)
		copy(buf, data[1:1+n])
		return ir.BytesOperand{Bytes: buf}, 1 + n, nil
	case opcode.PUSHDATA2:
		if e := need(2); e != nil {
			return nil, 0, e
		}
		n := int(binary.LittleEndian.Uint16(data))
		if e := need(2 + n); e != nil {
			return nil, 0, e
		}
		buf := make([]byte, n)
		copy(buf, data[2:2+n])
		return ir.BytesOperand{Bytes: buf}, 2 + n, nil
	case opcode.PUSHDATA4:
		if e := need(4); e != nil {
			return nil, 0, e
		}
		n := int(binary.LittleEndian.Uint32(data))
		if e := need(4 + n); e != nil {
			return nil, 0, e
		}
		buf := make([]byte, n)
		copy(buf, data[4:4+n])
		return ir.BytesOperand{Bytes: buf}, 4 + n, nil

	case opcode.JMP, opcode.JMPIF, opcode.JMPIFNOT, opcode.JMPEQ, opcode.JMPNE,
		opcode.JMPGT, opcode.JMPGE, opcode.JMPLT, opcode.JMPLE, opcode.CALL:
		if e := need(1); e != nil {
			return nil, 0, e
		}
		return ir.JumpOperand{Delta: int32(int8(data[0]))}, 1, nil
	case opcode.JMP_L, opcode.JMPIF_L, opcode.JMPIFNOT_L, opcode.JMPEQ_L, opcode.JMPNE_L,
		opcode.JMPGT_L, opcode.JMPGE_L, opcode.JMPLT_L, opcode.JMPLE_L, opcode.CALL_L,
		opcode.ENDTRY_L:
		if e := need(4); e != nil {
			return nil, 0, e
		}
		return ir.JumpOperand{Delta: int32(binary.LittleEndian.Uint32(data)), Long: true}, 4, nil
	case opcode.ENDTRY:
		if e := need(1); e != nil {
			return nil, 0, e
		}
		return ir.JumpOperand{Delta: int32(int8(data[0]))}, 1, nil

	case opcode.PUSHA:
		// Carries a 4-byte signed offset relative to this instruction's own
		// start, the target a later CALLA dereferences. The reference
		// decoder this package is otherwise modeled on omits this operand
		// entirely; without it CALLA's pointer-provenance resolution
		// (§4.3.3) would have nothing to resolve against, so it is decoded
		// explicitly here as a long jump-shaped operand.
		if e := need(4); e != nil {
			return nil, 0, e
		}
		return ir.JumpOperand{Delta: int32(binary.LittleEndian.Uint32(data)), Long: true}, 4, nil

	case opcode.CALLA:
		if e := need(2); e != nil {
			return nil, 0, e
		}
		return ir.TokenOperand{Index: binary.LittleEndian.Uint16(data)}, 2, nil
	case opcode.CALLT:
		if e := need(2); e != nil {
			return nil, 0, e
		}
		return ir.TokenOperand{Index: binary.LittleEndian.Uint16(data)}, 2, nil

	case opcode.SYSCALL:
		if e := need(4); e != nil {
			return nil, 0, e
		}
		return ir.SyscallHashOperand{Hash: binary.LittleEndian.Uint32(data)}, 4, nil

	case opcode.TRY:
		if e := need(2); e != nil {
			return nil, 0, e
		}
		catch := int8(data[0])
		fin := int8(data[1])
		return ir.TryOperand{
			CatchOffset:   int32(catch),
			FinallyOffset: int32(fin),
			HasFinally:    fin != 0,
		}, 2, nil
	case opcode.TRY_L:
		if e := need(8); e != nil {
			return nil, 0, e
		}
		catch := int32(binary.LittleEndian.Uint32(data[0:4]))
		fin := int32(binary.LittleEndian.Uint32(data[4:8]))
		return ir.TryOperand{
			CatchOffset:   catch,
			FinallyOffset: fin,
			HasFinally:    fin != 0,
		}, 8, nil

	case opcode.XDROP, opcode.REVERSEN, opcode.NEWARRAY, opcode.NEWARRAYT,
		opcode.NEWSTRUCT, opcode.INITSSLOT,
		opcode.PACK, opcode.PACKMAP, opcode.PACKSTRUCT, opcode.PACKARRAY:
		if e := need(1); e != nil {
			return nil, 0, e
		}
		return ir.CountOperand{Count: data[0]}, 1, nil

	case opcode.INITSLOT:
		if e := need(2); e != nil {
			return nil, 0, e
		}
		return ir.SlotInitOperand{LocalSlots: data[0], StaticSlots: data[1]}, 2, nil

	case opcode.LDSFLD, opcode.STSFLD, opcode.LDLOC, opcode.STLOC,
		opcode.LDARG, opcode.STARG, opcode.PICK, opcode.ROLL:
		if e := need(1); e != nil {
			return nil, 0, e
		}
		return ir.SlotOperand{Index: data[0]}, 1, nil

	case opcode.NEWBUFFER:
		if e := need(2); e != nil {
			return nil, 0, e
		}
		return ir.BufferSizeOperand{Size: binary.LittleEndian.Uint16(data)}, 2, nil

	case opcode.CONVERT, opcode.ISTYPE:
		if e := need(1); e != nil {
			return nil, 0, e
		}
		t, ok := ir.DecodeStackItemType(data[0])
		if !ok {
			return nil, 0, &Error{Kind: InvalidOperandType, Offset: offset, Opcode: op}
		}
		return ir.StackItemTypeOperand{Type: t}, 1, nil

	default:
		// Every other opcode (PUSH0..16, PUSHT/F/NULL/M1, NOP, RET,
		// ABORT/ASSERT/THROW, ENDFINALLY, all stack-only ops, arithmetic,
		// bitwise, and the no-explicit-operand compound ops) takes no
		// operand.
		return nil, 0, nil
	}
}
