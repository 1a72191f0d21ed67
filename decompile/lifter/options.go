package lifter

import "github.com/mna/neodec/decompile/types"

// SyscallInfo is the subset of a syscall signature the lifter needs to
// lower a SYSCALL instruction (§4.3.3): how many arguments to pop, what
// to call the resulting operation, and what type (if any) its result
// carries.
type SyscallInfo struct {
	Name       string
	ParamCount int
	ReturnType types.Type // nil when the syscall is void
}

// SyscallResolver resolves a 32-bit SYSCALL hash to its signature. The
// production caller wires decompile/syscalls behind this interface; it
// is declared locally so the lifter package does not need to import
// decompile/syscalls.
type SyscallResolver interface {
	Resolve(hash uint32) (SyscallInfo, bool)
}

// MethodToken is one entry of the NEF method-token table (§6.1),
// consulted by CALLT.
type MethodToken struct {
	Name       string
	ParamCount int
	HasReturn  bool
	Contract   [20]byte
	CallFlags  uint8
}

// CallTargetInfo describes a direct, same-script call target, resolved
// either from a known method-boundary table (CALL/CALL_L) or from
// pointer-provenance resolution (CALLA, §4.3.3).
type CallTargetInfo struct {
	Name       string
	ParamCount int
	HasReturn  bool
}

// Options configures one Lift call. All fields are optional. A SYSCALL,
// CALL or CALLT that cannot be resolved is lowered with zero arguments
// and no result, and a warning is recorded on the function; a CALLA
// whose pointer target is known but not resolved is lowered the same
// way without a warning.
type Options struct {
	// Syscalls resolves SYSCALL hashes. Without it, or for a hash it does
	// not know, a SYSCALL becomes a Syscall named syscall_0xHHHHHHHH.
	Syscalls SyscallResolver

	// MethodTokens is the NEF call-token table, indexed by CALLT's
	// TokenOperand.Index.
	MethodTokens []MethodToken

	// ResolveCall resolves a same-script byte offset (the target of a
	// direct CALL/CALL_L, or of a CALLA whose pointer provenance resolved
	// statically) to its name and signature.
	ResolveCall func(targetOffset uint32) (CallTargetInfo, bool)

	// ParamCount is the function's declared parameter count, taken from
	// the manifest when available (§4.3.5). Zero means unknown; the
	// lifter then falls back to the heuristics described in §4.3.5.
	ParamCount int
}
