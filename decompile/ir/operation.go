package ir

import "github.com/mna/neodec/decompile/types"

// Operation is the closed sum type of statements inside a basic block's
// body (everything but the terminator). Every variant that produces a
// value carries its target Variable; variants that merely have a side
// effect carry none.
type Operation interface {
	operation()
}

// Assign is `target <- value`.
type Assign struct {
	Target *Variable
	Value  Expression
}

// Arithmetic is a binary operator with an explicit target, as opposed to
// BinaryExpr which is a pure sub-expression.
type Arithmetic struct {
	Op          BinaryOperator
	Left, Right Expression
	Target      *Variable
}

// Unary is a unary operator with an explicit target.
type Unary struct {
	Op      UnaryOperator
	Operand Expression
	Target  *Variable
}

// Syscall is a resolved SYSCALL invocation.
type Syscall struct {
	Name       string
	Args       []Expression
	ReturnType types.Type // nil when the syscall is void
	Target     *Variable  // nil when the syscall is void
}

// CallFlags mirrors the Neo N3 contract-call permission bitmask; it is
// passed through opaquely by the core.
type CallFlags uint8

// ContractCall is a cross-contract invocation.
type ContractCall struct {
	Contract Expression
	Method   string
	Args     []Expression
	Flags    CallFlags
	Target   *Variable
}

// StorageOp names a storage primitive.
type StorageOp uint8

const (
	StorageGet StorageOp = iota
	StoragePut
	StorageDelete
	StorageFind
)

// Storage is a System.Storage.* access.
type Storage struct {
	Op     StorageOp
	Key    Expression
	Value  Expression // nil for Get/Delete/Find
	Target *Variable  // nil for Put/Delete
}

// StackOp names a residual stack manipulation the lifter could not
// eliminate purely symbolically.
type StackOp uint8

const (
	StackPush StackOp = iota
	StackPop
	StackDup
	StackSwap
	StackDrop
	StackPick
	StackRoll
	StackReverse
	StackSize
	StackClear
)

// Stack is an un-eliminated stack manipulation, used only when the
// symbolic-stack lifting in §4.3.3 cannot fully resolve an access
// pattern.
type Stack struct {
	Op       StackOp
	Operands []Expression
	Target   *Variable
}

// Convert is a CONVERT: coerce Value to the VM type To, minting Target.
type Convert struct {
	Value  Expression
	To     StackItemType
	Target *Variable
}

// BuiltinCall models MIN/MAX/WITHIN and the CALLA fallback form.
type BuiltinCall struct {
	Name   string
	Args   []Expression
	Target *Variable // nil when the builtin has no result consumer
}

// ArrayOpTag names an array/collection primitive.
type ArrayOpTag uint8

const (
	ArraySetItem ArrayOpTag = iota
	ArrayPickItem
	ArrayAppend
	ArrayRemove
	ArraySize
	ArrayClearItems
	ArrayPopItem
	ArraySlice
	ArrayReverse
	ArrayPack
	ArrayUnpack
)

// ArrayOp is an array/collection primitive operation.
type ArrayOp struct {
	Tag      ArrayOpTag
	Operands []Expression
	Target   *Variable
}

// MapOpTag names a map primitive.
type MapOpTag uint8

const (
	MapHasKey MapOpTag = iota
	MapKeys
	MapValues
)

// MapOp is a map primitive operation.
type MapOp struct {
	Tag      MapOpTag
	Operands []Expression
	Target   *Variable
}

// StringOpTag names a splice primitive.
type StringOpTag uint8

const (
	StringCat StringOpTag = iota
	StringSubstr
	StringLeft
	StringRight
)

// StringOp is a CAT/SUBSTR/LEFT/RIGHT primitive operation.
type StringOp struct {
	Tag      StringOpTag
	Operands []Expression
	Target   *Variable
}

// TypeCheck is an ISNULL/ISTYPE result.
type TypeCheck struct {
	Value  Expression
	Target types.Type
	Result *Variable
}

// Throw is a THROW statement.
type Throw struct{ Exception Expression }

// Assert is an ASSERT/ASSERTMSG statement.
type Assert struct {
	Condition Expression
	Message   Expression // nil when absent
}

// Abort is an ABORT/ABORTMSG statement as a body operation (the
// terminator-level Abort is reserved for block-ending aborts).
type Abort struct{ Message Expression }

// Comment is a free-form annotation, emitted for unhandled opcodes and
// for lifter diagnostics (§7).
type Comment struct{ Text string }

// EffectTag classifies an Effect annotation.
type EffectTag uint8

const (
	EffectStorageRead EffectTag = iota
	EffectStorageWrite
	EffectContractCall
	EffectEventEmit
	EffectStateChange
	EffectPure
)

// Effect attaches a side-effect annotation for downstream analyses; it
// has no runtime meaning by itself.
type Effect struct {
	Tag         EffectTag
	Description string
}

func (Assign) operation()       {}
func (Arithmetic) operation()   {}
func (Unary) operation()        {}
func (Syscall) operation()      {}
func (ContractCall) operation() {}
func (Storage) operation()      {}
func (Stack) operation()        {}
func (Convert) operation()      {}
func (BuiltinCall) operation()  {}
func (ArrayOp) operation()      {}
func (MapOp) operation()        {}
func (StringOp) operation()     {}
func (TypeCheck) operation()    {}
func (Throw) operation()        {}
func (Assert) operation()       {}
func (Abort) operation()        {}
func (Comment) operation()      {}
func (Effect) operation()       {}
