package ir

// Operand is the closed sum type of instruction operands. Each decoder in
// the disassembler produces exactly one of these, or a nil Operand when
// the opcode takes none.
type Operand interface {
	operand()
}

// IntegerOperand carries a PUSHINT8/16/32/64 immediate, sign-extended to
// 64 bits.
type IntegerOperand struct{ Value int64 }

// BigIntegerOperand carries a PUSHINT128/256 immediate as raw
// little-endian bytes (16 or 32 of them).
type BigIntegerOperand struct{ Bytes []byte }

// BytesOperand carries a PUSHDATA1/2/4 byte blob.
type BytesOperand struct{ Bytes []byte }

// JumpOperand carries a short (1-byte) or long (4-byte) signed jump
// delta, relative to the jump instruction's own offset.
type JumpOperand struct {
	Delta int32
	Long  bool
}

// SlotOperand carries a local/argument/static-field slot index.
type SlotOperand struct{ Index uint8 }

// SyscallHashOperand carries the 32-bit hash consumed by SYSCALL.
type SyscallHashOperand struct{ Hash uint32 }

// StackItemTypeOperand carries the decoded type code consumed by CONVERT
// and ISTYPE.
type StackItemTypeOperand struct{ Type StackItemType }

// TryOperand carries a TRY/TRY_L descriptor. FinallyOffset is absent
// (Has == false) when the encoded finally delta is all-zero.
type TryOperand struct {
	CatchOffset    int32
	FinallyOffset  int32
	HasFinally     bool
}

// SlotInitOperand carries an INITSLOT descriptor.
type SlotInitOperand struct {
	LocalSlots  uint8
	StaticSlots uint8
}

// TokenOperand carries a 16-bit method token (CALLA) or call-token table
// index (CALLT).
type TokenOperand struct{ Index uint16 }

// BufferSizeOperand carries a NEWBUFFER size.
type BufferSizeOperand struct{ Size uint16 }

// CountOperand carries a one-byte element count (XDROP, REVERSEN,
// NEWARRAY, NEWARRAYT, NEWSTRUCT, INITSSLOT, PACK variants).
type CountOperand struct{ Count uint8 }

func (IntegerOperand) operand()        {}
func (BigIntegerOperand) operand()     {}
func (BytesOperand) operand()          {}
func (JumpOperand) operand()           {}
func (SlotOperand) operand()           {}
func (SyscallHashOperand) operand()    {}
func (StackItemTypeOperand) operand()  {}
func (TryOperand) operand()            {}
func (SlotInitOperand) operand()       {}
func (TokenOperand) operand()          {}
func (BufferSizeOperand) operand()     {}
func (CountOperand) operand()          {}
