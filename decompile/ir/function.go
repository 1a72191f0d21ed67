package ir

import "github.com/mna/neodec/decompile/types"

// BasicBlock is a maximal straight-line instruction sequence ending in
// exactly one terminator. Successor ids are derived from Terminator;
// Predecessors is populated by a reverse pass after every block in the
// owning Function has been created (§3.5, §4.3.7).
type BasicBlock struct {
	ID           BlockID
	Ops          []Operation
	Terminator   Terminator
	Predecessors []BlockID
}

// Successors returns this block's successor ids, derived from its
// terminator.
func (b *BasicBlock) Successors() []BlockID {
	if b.Terminator == nil {
		return nil
	}
	return b.Terminator.Successors()
}

// Metadata summarizes a lifted function for reporting and for the
// emitter's function-signature line.
type Metadata struct {
	CyclomaticComplexity int
	BlockCount            int
	OperationCount        int
	MaxStackDepth         int
	IsPublic              bool
	IsSafe                bool
	OriginalOffset        uint32
}

// Function is one lifted, per-method IR unit: a mapping from block id to
// BasicBlock plus the bookkeeping the rest of the pipeline needs.
type Function struct {
	Name       string
	Params     []*Variable
	Locals     []*Variable
	Blocks     map[BlockID]*BasicBlock
	Entry      BlockID
	Exits      []BlockID
	ReturnType types.Type // nil when the function has no declared return
	Meta       Metadata

	// Errors accumulates the text of the non-fatal lifting errors and
	// warnings attached to this function. The emitter does not render
	// them in the pseudocode.
	Errors []string
}

// NewFunction returns an empty Function ready for the lifter to populate.
func NewFunction(name string) *Function {
	return &Function{Name: name, Blocks: make(map[BlockID]*BasicBlock)}
}

// Block returns the block with the given id, creating it if absent.
func (f *Function) Block(id BlockID) *BasicBlock {
	if b, ok := f.Blocks[id]; ok {
		return b
	}
	b := &BasicBlock{ID: id}
	f.Blocks[id] = b
	return b
}

// SortedBlockIDs returns every block id in ascending order, the
// deterministic iteration order every downstream consumer must use
// (§4.7.3).
func (f *Function) SortedBlockIDs() []BlockID {
	ids := make([]BlockID, 0, len(f.Blocks))
	for id := range f.Blocks {
		ids = append(ids, id)
	}
	// insertion sort is adequate: block counts are small and this keeps
	// the function dependency-free; cfg and lifter use slices.Sort where
	// x/exp is already imported for larger collections.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}

// ComputePredecessors rebuilds every block's Predecessors list by
// reversing the successor relation (§3.5, §4.3.7). It must be called
// after all blocks and terminators are in place and again whenever the
// terminators change.
func (f *Function) ComputePredecessors() {
	for _, b := range f.Blocks {
		b.Predecessors = nil
	}
	for _, id := range f.SortedBlockIDs() {
		b := f.Blocks[id]
		for _, succ := range b.Successors() {
			if target, ok := f.Blocks[succ]; ok {
				target.Predecessors = append(target.Predecessors, id)
			}
		}
	}
}
