package typeinfer

import "github.com/mna/neodec/decompile/types"

// Signature is the subset of a syscall's signature the engine needs to
// type its call site (§4.5.6): argument types to unify against the call's
// resolved argument expressions, and the return type.
type Signature struct {
	Name       string
	Params     []types.Type
	ReturnType types.Type // nil when void
}

// SignatureLookup resolves a syscall by name to its full signature. The
// production caller wires decompile/syscalls behind this interface,
// declared locally so this package does not need to import it directly
// (mirroring decompile/lifter's SyscallResolver).
type SignatureLookup interface {
	ByName(name string) (Signature, bool)
}
