package typeinfer

import (
	"github.com/mna/neodec/decompile/ir"
	"github.com/mna/neodec/decompile/types"
)

// TypeMetadata summarizes one function's completed inference pass
// (§4.5.7): every resolved variable type, the syscall signatures it
// referenced, any errors encountered, and solver statistics.
type TypeMetadata struct {
	VariableTypes   map[string]types.Type
	ReferencedCalls []string
	Errors          []*TypeError
	Stats           Stats
}

// Engine runs the full §4.5 pipeline — constraint collection, solving,
// and the apply phase — over one function at a time, reusing the
// syscall-signature table across calls.
type Engine struct {
	Syscalls SignatureLookup
}

// NewEngine returns an Engine consulting lookup for syscall argument and
// return types (§4.5.6). lookup may be nil, in which case syscall calls
// contribute no argument constraints beyond what the lifter already
// recorded on the operation's ReturnType.
func NewEngine(lookup SignatureLookup) *Engine {
	return &Engine{Syscalls: lookup}
}

// Infer runs constraint generation, solving and the apply phase over fn,
// mutating its variables' Type fields in place, and returns the
// resulting metadata. It returns no error: type errors are collected
// into TypeMetadata.Errors.
func (e *Engine) Infer(fn *ir.Function) *TypeMetadata {
	ctx := NewContext()
	e.seedSyscalls(ctx, fn)

	ctx.CollectFunctionConstraints(fn)
	ctx.CollectBlockConstraints(fn)
	ctx.Solve()
	applyInferredTypes(ctx, fn)

	return &TypeMetadata{
		VariableTypes:   ctx.VariableTypes,
		ReferencedCalls: referencedSyscalls(fn),
		Errors:          ctx.Errors,
		Stats:           ctx.Stats,
	}
}

func (e *Engine) seedSyscalls(ctx *Context, fn *ir.Function) {
	if e.Syscalls == nil {
		return
	}
	for _, id := range fn.SortedBlockIDs() {
		for _, op := range fn.Blocks[id].Ops {
			sc, ok := op.(ir.Syscall)
			if !ok {
				continue
			}
			if _, have := ctx.SyscallTypes[sc.Name]; have {
				continue
			}
			if sig, ok := e.Syscalls.ByName(sc.Name); ok {
				ctx.SyscallTypes[sc.Name] = sig
			}
		}
	}
}

func referencedSyscalls(fn *ir.Function) []string {
	seen := map[string]bool{}
	var out []string
	for _, id := range fn.SortedBlockIDs() {
		for _, op := range fn.Blocks[id].Ops {
			sc, ok := op.(ir.Syscall)
			if !ok || seen[sc.Name] {
				continue
			}
			seen[sc.Name] = true
			out = append(out, sc.Name)
		}
	}
	return out
}

// applyInferredTypes runs §4.5.7's apply phase: every parameter, local
// and operation target whose type is still Unknown (or an unresolved
// type variable) is replaced by its resolved binding; a type variable
// still unbound after solving becomes Unknown.
func applyInferredTypes(ctx *Context, fn *ir.Function) {
	apply := func(v *ir.Variable) {
		if v == nil {
			return
		}
		if t, ok := ctx.VariableType(v.Name); ok {
			v.Type = ctx.resolve(t)
		} else if !isUnknown(v.Type) {
			v.Type = ctx.resolve(v.Type)
		}
		if _, unresolved := v.Type.(types.Variable); unresolved {
			v.Type = types.Unknown{}
		}
	}

	for _, p := range fn.Params {
		apply(p)
	}
	for _, l := range fn.Locals {
		apply(l)
	}
	for _, id := range fn.SortedBlockIDs() {
		for _, op := range fn.Blocks[id].Ops {
			applyOperationTarget(op, apply)
		}
	}
}

func applyOperationTarget(op ir.Operation, apply func(*ir.Variable)) {
	switch o := op.(type) {
	case ir.Assign:
		apply(o.Target)
	case ir.Arithmetic:
		apply(o.Target)
	case ir.Unary:
		apply(o.Target)
	case ir.Syscall:
		apply(o.Target)
	case ir.ContractCall:
		apply(o.Target)
	case ir.Storage:
		apply(o.Target)
	case ir.Stack:
		apply(o.Target)
	case ir.Convert:
		apply(o.Target)
	case ir.BuiltinCall:
		apply(o.Target)
	case ir.ArrayOp:
		apply(o.Target)
	case ir.MapOp:
		apply(o.Target)
	case ir.StringOp:
		apply(o.Target)
	case ir.TypeCheck:
		apply(o.Result)
	}
}
