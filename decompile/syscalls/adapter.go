package syscalls

import (
	"github.com/mna/neodec/decompile/lifter"
	"github.com/mna/neodec/decompile/typeinfer"
)

// Resolve implements lifter.SyscallResolver, so a *Database can be
// wired straight into lifter.Options.Syscalls.
func (db *Database) Resolve(hash uint32) (lifter.SyscallInfo, bool) {
	sig, ok := db.signatures.Get(hash)
	if !ok {
		return lifter.SyscallInfo{}, false
	}
	return lifter.SyscallInfo{
		Name:       sig.Name,
		ParamCount: len(sig.Parameters),
		ReturnType: sig.ReturnType,
	}, true
}

// ByName implements typeinfer.SignatureLookup, so a *Database can be
// wired straight into typeinfer.NewEngine.
func (db *Database) ByName(name string) (typeinfer.Signature, bool) {
	sig, ok := db.signatureByName(name)
	if !ok {
		return typeinfer.Signature{}, false
	}
	return typeinfer.Signature{
		Name:       sig.Name,
		Params:     sig.Parameters,
		ReturnType: sig.ReturnType,
	}, true
}
