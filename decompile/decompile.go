// Package decompile wires the pipeline's stages together (§2, §6.3):
// NEF and manifest ingestion, disassembly, function-boundary discovery,
// lifting, CFG analysis, type inference and emission, producing one
// Contract per input pair.
package decompile

import (
	"fmt"
	"sort"

	"github.com/mna/neodec/decompile/cfg"
	"github.com/mna/neodec/decompile/disasm"
	"github.com/mna/neodec/decompile/emitter"
	"github.com/mna/neodec/decompile/ir"
	"github.com/mna/neodec/decompile/lifter"
	"github.com/mna/neodec/decompile/manifest"
	"github.com/mna/neodec/decompile/nef"
	"github.com/mna/neodec/decompile/opcode"
	"github.com/mna/neodec/decompile/syscalls"
	"github.com/mna/neodec/decompile/typeinfer"
)

// Options configures one Decompile call.
type Options struct {
	// NEF is the raw NEF container bytes (required).
	NEF []byte
	// Manifest is the optional manifest JSON document. When nil, function
	// discovery falls back entirely to the CALL/PUSHA-target heuristic
	// (§9 "Manifest cross-checks").
	Manifest []byte
	// VerifyChecksum enables the NEF container's trailing checksum check.
	VerifyChecksum bool
	// Syscalls overrides the default built-in syscall database. Nil uses
	// syscalls.New()'s standard Neo N3 table.
	Syscalls *syscalls.Database
}

// Function is one decompiled top-level function: its lifted IR, its
// analyzed CFG, its inferred type metadata and the rendered pseudocode.
type Function struct {
	Name       string
	Offset     uint32
	IR         *ir.Function
	CFG        *cfg.Graph
	Types      *typeinfer.TypeMetadata
	Pseudocode string
	Warnings   []string
}

// Contract is the full decompilation result for one NEF/manifest pair
// (§6.3).
type Contract struct {
	Name       string
	Functions  []*Function
	Pseudocode string
}

// Decompile runs the full pipeline over one contract.
func Decompile(opts Options) (*Contract, error) {
	nefParser := &nef.Parser{VerifyChecksum: opts.VerifyChecksum}
	file, err := nefParser.Parse(opts.NEF)
	if err != nil {
		return nil, fmt.Errorf("decompile: parsing NEF: %w", err)
	}

	var man *manifest.Manifest
	if len(opts.Manifest) > 0 {
		man, err = manifest.Parse(opts.Manifest)
		if err != nil {
			return nil, fmt.Errorf("decompile: parsing manifest: %w", err)
		}
	}

	instrs, _ := disasm.Disassemble(file.Script)

	db := opts.Syscalls
	if db == nil {
		db = syscalls.New()
	}

	entries := discoverEntries(instrs, man)
	methodTokens := convertMethodTokens(file.MethodTokens)

	resolveCall := func(target uint32) (lifter.CallTargetInfo, bool) {
		e, ok := entries[target]
		if !ok {
			return lifter.CallTargetInfo{}, false
		}
		return lifter.CallTargetInfo{Name: e.name, ParamCount: e.paramCount, HasReturn: e.hasReturn}, true
	}

	contract := &Contract{}
	if man != nil {
		contract.Name = man.Name
	}

	var fns []*ir.Function
	var graphs []*cfg.Graph

	for _, off := range sortedEntryOffsets(entries) {
		e := entries[off]
		funcInstrs := sliceByOffset(instrs, off, entries)

		liftOpts := lifter.Options{
			Syscalls:     db,
			MethodTokens: methodTokens,
			ResolveCall:  resolveCall,
			ParamCount:   e.paramCount,
		}
		fn, lerrs := lifter.Lift(e.name, funcInstrs, liftOpts)

		graph, err := cfg.Build(fn, cfg.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("decompile: building CFG for %s: %w", e.name, err)
		}

		meta := typeinfer.NewEngine(db).Infer(fn)

		var warnings []string
		for _, le := range lerrs {
			warnings = append(warnings, le.Error())
		}

		f := &Function{
			Name:       e.name,
			Offset:     off,
			IR:         fn,
			CFG:        graph,
			Types:      meta,
			Pseudocode: emitter.Function(fn, graph),
			Warnings:   warnings,
		}
		contract.Functions = append(contract.Functions, f)
		fns = append(fns, fn)
		graphs = append(graphs, graph)
	}

	contract.Pseudocode = emitter.Contract(emitter.Options{ContractName: contract.Name}, fns, graphs)
	return contract, nil
}

// entryInfo describes one discovered function entry.
type entryInfo struct {
	name       string
	paramCount int
	hasReturn  bool
}

// discoverEntries implements §9's method-boundary discovery: every
// manifest offset starts a function, named and sized from its ABI
// entry; every CALL/CALL_L/PUSHA target not already named by the
// manifest starts an inferred helper, named `sub_0xHHHH`.
func discoverEntries(instrs []ir.Instruction, man *manifest.Manifest) map[uint32]entryInfo {
	entries := make(map[uint32]entryInfo)

	if man != nil {
		for _, m := range man.ABI.Methods {
			if m.Offset < 0 {
				continue
			}
			entries[uint32(m.Offset)] = entryInfo{
				name:       m.Name,
				paramCount: len(m.Parameters),
				hasReturn:  m.ReturnType != "Void" && m.ReturnType != "",
			}
		}
	}

	for _, in := range instrs {
		target, ok := callOrPointerTarget(in)
		if !ok {
			continue
		}
		if _, exists := entries[target]; exists {
			continue
		}
		entries[target] = entryInfo{name: fmt.Sprintf("sub_0x%X", target), hasReturn: true}
	}

	if _, ok := entries[0]; !ok && len(instrs) > 0 {
		entries[0] = entryInfo{name: "sub_0x0", hasReturn: true}
	}

	return entries
}

// callOrPointerTarget returns the byte offset a CALL, CALL_L or PUSHA
// instruction targets, resolved from its jump-shaped operand.
func callOrPointerTarget(in ir.Instruction) (uint32, bool) {
	switch in.Op {
	case opcode.CALL, opcode.CALL_L, opcode.PUSHA:
		jo, ok := in.Operand.(ir.JumpOperand)
		if !ok {
			return 0, false
		}
		return uint32(int64(in.Offset) + int64(jo.Delta)), true
	default:
		return 0, false
	}
}

func sortedEntryOffsets(entries map[uint32]entryInfo) []uint32 {
	offs := make([]uint32, 0, len(entries))
	for off := range entries {
		offs = append(offs, off)
	}
	sort.Slice(offs, func(i, j int) bool { return offs[i] < offs[j] })
	return offs
}

// sliceByOffset returns the instructions belonging to the function
// starting at start: every instruction up to (but not including) the
// next entry offset greater than start, or to the end of the stream.
func sliceByOffset(instrs []ir.Instruction, start uint32, entries map[uint32]entryInfo) []ir.Instruction {
	end := uint32(1<<32 - 1)
	for off := range entries {
		if off > start && off < end {
			end = off
		}
	}
	var out []ir.Instruction
	for _, in := range instrs {
		if in.Offset < start {
			continue
		}
		if in.Offset >= end {
			break
		}
		out = append(out, in)
	}
	return out
}

func convertMethodTokens(tokens []nef.MethodToken) []lifter.MethodToken {
	out := make([]lifter.MethodToken, len(tokens))
	for i, t := range tokens {
		out[i] = lifter.MethodToken{
			Name:       t.Method,
			ParamCount: int(t.ParamsCount),
			HasReturn:  true,
			Contract:   t.Hash,
			CallFlags:  t.CallFlags,
		}
	}
	return out
}
