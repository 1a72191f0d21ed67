package disasm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/neodec/decompile/disasm"
	"github.com/mna/neodec/decompile/ir"
	"github.com/mna/neodec/decompile/opcode"
)

func TestDisassembleArithmetic(t *testing.T) {
	// PUSHINT8 42, PUSHINT8 10, ADD, RET
	script := []byte{0x00, 0x2A, 0x00, 0x0A, 0x9E, 0x40}
	instrs, errs := disasm.Disassemble(script)
	require.Empty(t, errs)
	require.Len(t, instrs, 4)

	require.Equal(t, opcode.PUSHINT8, instrs[0].Op)
	require.Equal(t, ir.IntegerOperand{Value: 42}, instrs[0].Operand)
	require.EqualValues(t, 0, instrs[0].Offset)
	require.EqualValues(t, 2, instrs[0].Size)

	require.Equal(t, opcode.PUSHINT8, instrs[1].Op)
	require.Equal(t, ir.IntegerOperand{Value: 10}, instrs[1].Operand)
	require.EqualValues(t, 2, instrs[1].Offset)

	require.Equal(t, opcode.ADD, instrs[2].Op)
	require.Nil(t, instrs[2].Operand)
	require.EqualValues(t, 4, instrs[2].Offset)
	require.EqualValues(t, 1, instrs[2].Size)

	require.Equal(t, opcode.RET, instrs[3].Op)
	require.EqualValues(t, 5, instrs[3].Offset)
}

func TestDisassembleShortJump(t *testing.T) {
	// PUSH0, JMPIF +2, PUSH1, RET
	script := []byte{0x10, 0x24, 0x02, 0x11, 0x40}
	instrs, errs := disasm.Disassemble(script)
	require.Empty(t, errs)
	require.Len(t, instrs, 4)

	require.Equal(t, opcode.PUSH0, instrs[0].Op)
	require.Equal(t, opcode.JMPIF, instrs[1].Op)
	require.Equal(t, ir.JumpOperand{Delta: 2}, instrs[1].Operand)
	require.Equal(t, opcode.PUSH1, instrs[2].Op)
	require.Equal(t, opcode.RET, instrs[3].Op)
}

func TestDisassembleLongJump(t *testing.T) {
	script := []byte{0x23, 0x0A, 0x00, 0x00, 0x00}
	instrs, errs := disasm.Disassemble(script)
	require.Empty(t, errs)
	require.Len(t, instrs, 1)
	require.Equal(t, opcode.JMP_L, instrs[0].Op)
	require.Equal(t, ir.JumpOperand{Delta: 10, Long: true}, instrs[0].Operand)
	require.EqualValues(t, 5, instrs[0].Size)
}

func TestDisassemblePushData(t *testing.T) {
	script := []byte{0x0C, 0x03, 0x01, 0x02, 0x03}
	instrs, errs := disasm.Disassemble(script)
	require.Empty(t, errs)
	require.Len(t, instrs, 1)
	require.Equal(t, opcode.PUSHDATA1, instrs[0].Op)
	require.Equal(t, ir.BytesOperand{Bytes: []byte{1, 2, 3}}, instrs[0].Operand)
	require.EqualValues(t, 5, instrs[0].Size)
}

func TestDisassembleSyscall(t *testing.T) {
	script := []byte{0x41, 0x01, 0x02, 0x03, 0x04}
	instrs, errs := disasm.Disassemble(script)
	require.Empty(t, errs)
	require.Equal(t, opcode.SYSCALL, instrs[0].Op)
	require.Equal(t, ir.SyscallHashOperand{Hash: 0x04030201}, instrs[0].Operand)
}

func TestDisassembleInitslot(t *testing.T) {
	script := []byte{0x57, 0x03, 0x02}
	instrs, errs := disasm.Disassemble(script)
	require.Empty(t, errs)
	require.Equal(t, opcode.INITSLOT, instrs[0].Op)
	require.Equal(t, ir.SlotInitOperand{LocalSlots: 3, StaticSlots: 2}, instrs[0].Operand)
}

func TestDisassembleTry(t *testing.T) {
	script := []byte{0x3B, 0x05, 0x00}
	instrs, errs := disasm.Disassemble(script)
	require.Empty(t, errs)
	require.Equal(t, opcode.TRY, instrs[0].Op)
	require.Equal(t, ir.TryOperand{CatchOffset: 5, FinallyOffset: 0, HasFinally: false}, instrs[0].Operand)
}

func TestDisassembleConvert(t *testing.T) {
	script := []byte{0xDB, 0x21}
	instrs, errs := disasm.Disassemble(script)
	require.Empty(t, errs)
	require.Equal(t, opcode.CONVERT, instrs[0].Op)
	require.Equal(t, ir.StackItemTypeOperand{Type: ir.TypeInteger}, instrs[0].Operand)
}

func TestDisassembleConvertInvalidType(t *testing.T) {
	script := []byte{0xDB, 0xFF}
	instrs, errs := disasm.Disassemble(script)
	require.Len(t, errs, 1)
	require.Equal(t, disasm.InvalidOperandType, errs[0].Kind)
	require.Len(t, instrs, 1)
}

func TestDisassembleUnknownOpcode(t *testing.T) {
	script := []byte{0x07, 0x40}
	instrs, errs := disasm.Disassemble(script)
	require.Len(t, errs, 1)
	require.Equal(t, disasm.UnknownOpcode, errs[0].Kind)
	require.True(t, instrs[0].Unknown)
	require.EqualValues(t, 0x07, instrs[0].Byte)
	require.EqualValues(t, 1, instrs[0].Size)
	require.Equal(t, opcode.RET, instrs[1].Op)
}

func TestDisassembleTruncatedInstruction(t *testing.T) {
	script := []byte{0x00, 0x2A, 0x00} // PUSHINT8 ok, then PUSHINT8 missing operand byte
	instrs, errs := disasm.Disassemble(script)
	require.Len(t, errs, 1)
	require.Equal(t, disasm.TruncatedInstruction, errs[0].Kind)
	// total coverage: sizes must sum to len(script)
	var total int
	for _, in := range instrs {
		total += int(in.Size)
	}
	require.Equal(t, len(script), total)
}

func TestDisassemblePushA(t *testing.T) {
	script := []byte{0x0A, 0x05, 0x00, 0x00, 0x00}
	instrs, errs := disasm.Disassemble(script)
	require.Empty(t, errs)
	require.Equal(t, opcode.PUSHA, instrs[0].Op)
	require.Equal(t, ir.JumpOperand{Delta: 5, Long: true}, instrs[0].Operand)
	require.EqualValues(t, 5, instrs[0].Size)
}

func TestDisassembleTotalCoverage(t *testing.T) {
	script := []byte{0x00, 0x2A, 0x0C, 0x02, 0xAA, 0xBB, 0x40}
	instrs, _ := disasm.Disassemble(script)
	var total int
	for _, in := range instrs {
		total += int(in.Size)
	}
	require.Equal(t, len(script), total)
}
