package lifter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/neodec/decompile/disasm"
	"github.com/mna/neodec/decompile/ir"
	"github.com/mna/neodec/decompile/lifter"
)

func lift(t *testing.T, script []byte, opts lifter.Options) *ir.Function {
	t.Helper()
	instrs, errs := disasm.Disassemble(script)
	require.Empty(t, errs)
	fn, _ := lifter.Lift("main", instrs, opts)
	return fn
}

func TestLiftArithmeticReturn(t *testing.T) {
	// PUSHINT8 42, PUSHINT8 10, ADD, RET (spec.md §8.2 scenario 1)
	fn := lift(t, []byte{0x00, 0x2A, 0x00, 0x0A, 0x9E, 0x40}, lifter.Options{})
	require.Empty(t, fn.Errors)
	require.Len(t, fn.Blocks, 1)

	b := fn.Blocks[0]
	require.Len(t, b.Ops, 1)
	arith, ok := b.Ops[0].(ir.Arithmetic)
	require.True(t, ok)
	require.Equal(t, ir.Add, arith.Op)
	require.Equal(t, ir.IntLiteral(42), arith.Left)
	require.Equal(t, ir.IntLiteral(10), arith.Right)

	ret, ok := b.Terminator.(ir.ReturnTerm)
	require.True(t, ok)
	ve, ok := ret.Value.(*ir.VariableExpr)
	require.True(t, ok)
	require.Equal(t, arith.Target, ve.Var)
}

func TestLiftShortForwardJump(t *testing.T) {
	// PUSH0, JMPIF +2, PUSH1, RET (spec.md §8.2 scenario 2)
	fn := lift(t, []byte{0x10, 0x24, 0x02, 0x11, 0x40}, lifter.Options{})
	require.Len(t, fn.Blocks, 2)

	entry := fn.Blocks[fn.Entry]
	branch, ok := entry.Terminator.(ir.BranchTerm)
	require.True(t, ok)
	require.Equal(t, ir.IntLiteral(0), branch.Condition)
	// the taken branch and the fallthrough both land on offset 3 here, so
	// they resolve to the same block id.
	require.Equal(t, branch.TrueBlk, branch.FalseBlk)

	target := fn.Blocks[branch.TrueBlk]
	_, isReturn := target.Terminator.(ir.ReturnTerm)
	require.True(t, isReturn)
}

func TestLiftUnconditionalJumpChain(t *testing.T) {
	// JMP +2, JMP +2, RET (spec.md §8.2 scenario 3)
	fn := lift(t, []byte{0x22, 0x02, 0x22, 0x02, 0x40}, lifter.Options{})
	require.Len(t, fn.Blocks, 3)

	entry := fn.Blocks[fn.Entry]
	j0, ok := entry.Terminator.(ir.JumpTerm)
	require.True(t, ok)

	mid := fn.Blocks[j0.Target]
	j1, ok := mid.Terminator.(ir.JumpTerm)
	require.True(t, ok)

	last := fn.Blocks[j1.Target]
	_, isReturn := last.Terminator.(ir.ReturnTerm)
	require.True(t, isReturn)
}

type fakeSyscalls map[uint32]lifter.SyscallInfo

func (f fakeSyscalls) Resolve(hash uint32) (lifter.SyscallInfo, bool) {
	info, ok := f[hash]
	return info, ok
}

func TestLiftKnownSyscall(t *testing.T) {
	// PUSHDATA1 "ABC", SYSCALL 0xEC6878B2, RET (spec.md §8.2 scenario 4)
	script := []byte{0x0C, 0x03, 0x41, 0x42, 0x43, 0x41, 0xB2, 0x78, 0x68, 0xEC, 0x40}
	opts := lifter.Options{
		Syscalls: fakeSyscalls{
			0xEC6878B2: {Name: "System.Runtime.Log", ParamCount: 1},
		},
	}
	fn := lift(t, script, opts)
	require.Len(t, fn.Blocks, 1)

	b := fn.Blocks[0]
	require.Len(t, b.Ops, 1)
	sc, ok := b.Ops[0].(ir.Syscall)
	require.True(t, ok)
	require.Equal(t, "System.Runtime.Log", sc.Name)
	require.Nil(t, sc.Target)
	require.Len(t, sc.Args, 1)
	lit, ok := sc.Args[0].(*ir.LiteralExpr)
	require.True(t, ok)
	require.Equal(t, []byte("ABC"), lit.Bytes)

	_, isReturn := b.Terminator.(ir.ReturnTerm)
	require.True(t, isReturn)
}

func TestLiftTryCatch(t *testing.T) {
	// TRY catch=+5/finally=0; NOP; RET (try body); DROP; RET (catch body).
	// The catch body's DROP consumes the injected exception value with no
	// underflow, proving §4.3.6's synthetic push happened.
	script := []byte{0x3B, 0x05, 0x00, 0x21, 0x40, 0x45, 0x40}
	fn := lift(t, script, lifter.Options{})
	require.Empty(t, fn.Errors)
	require.Len(t, fn.Blocks, 3)

	entry := fn.Blocks[fn.Entry]
	try, ok := entry.Terminator.(ir.TryBlockTerm)
	require.True(t, ok)
	require.Nil(t, try.Finally)
	require.NotNil(t, try.Catch)
	require.NotEqual(t, try.Body, *try.Catch)
}

func TestLiftCallaPointerProvenance(t *testing.T) {
	// PUSHA target, STLOC0, LDLOC0, CALLA, RET, RET(resolved helper)
	opts := lifter.Options{
		ResolveCall: func(target uint32) (lifter.CallTargetInfo, bool) {
			if target == 12 {
				return lifter.CallTargetInfo{Name: "helper_12", ParamCount: 0, HasReturn: false}, true
			}
			return lifter.CallTargetInfo{}, false
		},
	}

	full := []byte{
		0x0A, 0x0C, 0x00, 0x00, 0x00, // offset 0: PUSHA +12 -> target 12
		0x69, 0x00, // offset 5: STLOC slot 0
		0x61,             // offset 7: LDLOC0
		0x36, 0x00, 0x00, // offset 8: CALLA token 0
		0x40, // offset 11: RET
		0x40, // offset 12: RET (resolved helper target)
	}
	fn := lift(t, full, opts)
	b := fn.Blocks[fn.Entry]

	var calls []ir.BuiltinCall
	for _, op := range b.Ops {
		if c, ok := op.(ir.BuiltinCall); ok {
			calls = append(calls, c)
		}
	}
	require.Len(t, calls, 1)
	require.Equal(t, "helper_12", calls[0].Name)
}

func TestLiftAssertPopsCondition(t *testing.T) {
	// PUSHT, ASSERT, RET
	fn := lift(t, []byte{0x08, 0x39, 0x40}, lifter.Options{})
	require.Empty(t, fn.Errors)
	require.Len(t, fn.Blocks, 1)

	b := fn.Blocks[0]
	require.Len(t, b.Ops, 1)
	assert, ok := b.Ops[0].(ir.Assert)
	require.True(t, ok)
	require.Equal(t, &ir.LiteralExpr{Kind: ir.LitBoolean, Bool: true}, assert.Condition)
	require.Nil(t, assert.Message)

	_, isReturn := b.Terminator.(ir.ReturnTerm)
	require.True(t, isReturn)
}

func TestLiftAssertMsgPopsConditionAndMessage(t *testing.T) {
	// PUSHF (condition), PUSHDATA1 "bad" (message, on top), ASSERTMSG, RET
	script := []byte{0x09, 0x0C, 0x03, 0x62, 0x61, 0x64, 0xE1, 0x40}
	fn := lift(t, script, lifter.Options{})
	require.Empty(t, fn.Errors)
	require.Len(t, fn.Blocks, 1)

	b := fn.Blocks[0]
	require.Len(t, b.Ops, 1)
	assert, ok := b.Ops[0].(ir.Assert)
	require.True(t, ok)
	require.Equal(t, &ir.LiteralExpr{Kind: ir.LitBoolean, Bool: false}, assert.Condition)
	require.Equal(t, &ir.LiteralExpr{Kind: ir.LitByteArray, Bytes: []byte("bad")}, assert.Message)
}

func TestLiftAbortMsgPopsMessageFromStack(t *testing.T) {
	// PUSHDATA1 "oops", ABORTMSG
	script := []byte{0x0C, 0x04, 0x6F, 0x6F, 0x70, 0x73, 0xE0}
	fn := lift(t, script, lifter.Options{})
	require.Empty(t, fn.Errors)
	require.Len(t, fn.Blocks, 1)

	abort, ok := fn.Blocks[0].Terminator.(ir.AbortTerm)
	require.True(t, ok)
	require.Equal(t, &ir.LiteralExpr{Kind: ir.LitByteArray, Bytes: []byte("oops")}, abort.Message)
}

func TestLiftCalltThreadsContractAndFlags(t *testing.T) {
	// CALLT token 0, RET
	var hash [20]byte
	hash[0] = 0xAB
	opts := lifter.Options{
		MethodTokens: []lifter.MethodToken{
			{Name: "transfer", ParamCount: 0, HasReturn: true, Contract: hash, CallFlags: 0x0F},
		},
	}
	fn := lift(t, []byte{0x37, 0x00, 0x00, 0x40}, opts)
	require.Empty(t, fn.Errors)

	b := fn.Blocks[0]
	require.Len(t, b.Ops, 1)
	call, ok := b.Ops[0].(ir.ContractCall)
	require.True(t, ok)
	require.Equal(t, "transfer", call.Method)
	require.Equal(t, ir.CallFlags(0x0F), call.Flags)
	lit, ok := call.Contract.(*ir.LiteralExpr)
	require.True(t, ok)
	require.Equal(t, ir.LitHash160, lit.Kind)
	require.Equal(t, hash[:], lit.Bytes)
}

func TestLiftInitslotPrologueStoreDoesNotUnderflow(t *testing.T) {
	// INITSLOT 0 locals, 1 static; STARG0 with an empty stack must
	// synthesize a placeholder rather than report StackUnderflow (§4.3.5).
	script := []byte{
		0x57, 0x00, 0x01, // INITSLOT locals=0 statics=1
		0x80, // STARG0
		0x40, // RET
	}
	fn := lift(t, script, lifter.Options{})
	require.Empty(t, fn.Errors)
	require.Len(t, fn.Params, 1)
	require.Equal(t, ir.Parameter, fn.Params[0].Kind)
}
