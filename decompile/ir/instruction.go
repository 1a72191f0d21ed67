// Package ir defines the shared data model of the decompiler: the decoded
// instruction stream produced by the disassembler, the stack-item type
// lattice used by CONVERT/ISTYPE, and the per-function intermediate
// representation (basic blocks, operations, terminators, expressions,
// variables) produced by the lifter.
package ir

import "github.com/mna/neodec/decompile/opcode"

// StackItemType is the VM-level representation tag decoded from a
// CONVERT or ISTYPE operand, per the NEF stack-item type code table.
type StackItemType uint8

const (
	TypeAny              StackItemType = 0x00
	TypePointer          StackItemType = 0x10
	TypeBoolean          StackItemType = 0x20
	TypeInteger          StackItemType = 0x21
	TypeByteString       StackItemType = 0x28
	TypeBuffer           StackItemType = 0x30
	TypeArray            StackItemType = 0x40
	TypeStruct           StackItemType = 0x41
	TypeMap              StackItemType = 0x48
	TypeInteropInterface  StackItemType = 0x60
)

var stackItemTypeNames = map[StackItemType]string{
	TypeAny: "Any", TypePointer: "Pointer", TypeBoolean: "Boolean",
	TypeInteger: "Integer", TypeByteString: "ByteString", TypeBuffer: "Buffer",
	TypeArray: "Array", TypeStruct: "Struct", TypeMap: "Map",
	TypeInteropInterface: "InteropInterface",
}

func (t StackItemType) String() string {
	if name, ok := stackItemTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// DecodeStackItemType maps a raw type-code byte to a StackItemType,
// reporting false for a code the table does not define.
func DecodeStackItemType(b byte) (StackItemType, bool) {
	t := StackItemType(b)
	_, ok := stackItemTypeNames[t]
	return t, ok
}

// Instruction is one decoded entry in the disassembled instruction
// stream: a byte offset, its opcode, an optional typed operand, and the
// total encoded size in bytes (capped at 255). Instructions are
// immutable once decoded and live only for the duration of a lift call.
type Instruction struct {
	Offset  uint32
	Op      opcode.Opcode
	Unknown bool // true when Op's byte did not decode to a named opcode
	Byte    byte // the raw byte, meaningful when Unknown is true
	Operand Operand
	Size    uint8
}

// End returns the offset immediately following this instruction.
func (i Instruction) End() uint32 { return i.Offset + uint32(i.Size) }
