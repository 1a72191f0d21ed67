// Package cfg builds and analyzes the control-flow graph of one lifted
// function: edges derived from terminators, reachability, dominator and
// post-dominator trees, strongly connected components, natural loops,
// exception regions, and complexity metrics (§4.4).
package cfg

import (
	"fmt"

	"github.com/dolthub/swiss"

	"github.com/mna/neodec/decompile/ir"
)

// Error reports a failure during graph construction or analysis.
type Error struct {
	Kind    ErrorKind
	Block   ir.BlockID
	Message string
}

func (e *Error) Error() string {
	switch e.Kind {
	case InvalidBlockReference:
		return fmt.Sprintf("invalid block reference: %d", e.Block)
	case MalformedStructure:
		return fmt.Sprintf("malformed CFG structure: %s", e.Message)
	case UnreachableEntry:
		return "entry block is unreachable"
	case CyclicDependency:
		return "cyclic dependency detected in analysis"
	case MaxDepthExceeded:
		return "maximum analysis depth exceeded"
	default:
		return e.Message
	}
}

// ErrorKind is the closed set of CFG analysis failure modes.
type ErrorKind uint8

const (
	InvalidBlockReference ErrorKind = iota
	MalformedStructure
	UnreachableEntry
	CyclicDependency
	MaxDepthExceeded
)

// EdgeType classifies a CFG edge by the terminator that produced it.
type EdgeType uint8

const (
	Unconditional EdgeType = iota
	ConditionalTrue
	ConditionalFalse
	SwitchCase
	SwitchDefault
	TryEntry
	CatchEntry
	FinallyEntry
)

// Edge is one directed control-flow transfer.
type Edge struct {
	From, To    ir.BlockID
	Type        EdgeType
	CaseValue   int64 // valid when Type == SwitchCase
	Weight      float32
	IsBackEdge  bool
	IsCritical  bool
}

// Node is one graph node's accumulated analysis state, alongside the
// plain predecessor/successor lists every BasicBlock already carries.
type Node struct {
	ID                    ir.BlockID
	Predecessors          []ir.BlockID
	Successors            []ir.BlockID
	ImmediateDominator    *ir.BlockID
	Dominated             map[ir.BlockID]bool
	ImmediatePostDominator *ir.BlockID
	LoopDepth             int
	LoopHeaders           []ir.BlockID
	Exception             ExceptionContext
	Reachable              bool
}

// ExceptionContext records a block's position relative to try/catch/finally
// regions, filled in by exception-region recovery (§4.4.6).
type ExceptionContext struct {
	InTryRegion    bool
	IsHandler      bool
	InFinallyRegion bool
	ActiveRegions  []int
}

// Options parameterizes graph construction. Each analysis phase can be
// disabled independently, mirroring the builder knobs in §4.4.
type Options struct {
	EnableDominators bool
	EnableLoops      bool
	EnableExceptions bool
	MaxDepth         int
}

// DefaultOptions enables every analysis phase with a generous depth cap.
func DefaultOptions() Options {
	return Options{EnableDominators: true, EnableLoops: true, EnableExceptions: true, MaxDepth: 1000}
}

// Graph is the annotated control-flow graph for one function.
type Graph struct {
	Nodes             *swiss.Map[ir.BlockID, *Node]
	Edges             []Edge
	Entry             ir.BlockID
	ExitBlocks        []ir.BlockID
	FunctionName      string
	Dominators        *DominatorTree
	PostDominators    *PostDominatorTree
	Loops             []Loop
	SCCs              [][]ir.BlockID
	ExceptionRegions  []ExceptionRegion
	Complexity        Complexity
	UnreachableBlocks map[ir.BlockID]bool
}

func (g *Graph) node(id ir.BlockID) (*Node, bool) { return g.Nodes.Get(id) }

// Build runs the full §4.4 pipeline over fn and returns the annotated
// graph, or an error if the basic structure is malformed.
func Build(fn *ir.Function, opts Options) (*Graph, error) {
	g, err := buildBasic(fn)
	if err != nil {
		return nil, err
	}

	if opts.EnableDominators {
		computeReachability(g)
		if err := computeDominatorTree(g); err != nil {
			return nil, err
		}
		computePostDominatorTree(g)
		detectSCCs(g)
	}

	if opts.EnableLoops {
		if err := detectLoops(g, opts); err != nil {
			return nil, err
		}
	}

	if opts.EnableExceptions {
		analyzeExceptionFlow(g, fn)
	}

	computeComplexity(g)
	identifyCriticalEdges(g)

	if err := validateStructure(g); err != nil {
		return nil, err
	}
	return g, nil
}

func buildBasic(fn *ir.Function) (*Graph, error) {
	g := &Graph{
		Nodes:             swiss.NewMap[ir.BlockID, *Node](uint32(len(fn.Blocks))),
		Entry:             fn.Entry,
		ExitBlocks:        fn.Exits,
		FunctionName:      fn.Name,
		UnreachableBlocks: make(map[ir.BlockID]bool),
	}

	for _, id := range fn.SortedBlockIDs() {
		b := fn.Blocks[id]
		n := &Node{
			ID:           id,
			Predecessors: append([]ir.BlockID(nil), b.Predecessors...),
			Successors:   append([]ir.BlockID(nil), b.Successors()...),
			Dominated:    make(map[ir.BlockID]bool),
		}
		g.Nodes.Put(id, n)
	}

	for _, id := range fn.SortedBlockIDs() {
		b := fn.Blocks[id]
		if err := edgesForBlock(g, id, b); err != nil {
			return nil, err
		}
	}

	if err := validateBasicStructure(g); err != nil {
		return nil, err
	}
	return g, nil
}

func edgesForBlock(g *Graph, id ir.BlockID, b *ir.BasicBlock) error {
	switch t := b.Terminator.(type) {
	case ir.JumpTerm:
		g.Edges = append(g.Edges, Edge{From: id, To: t.Target, Type: Unconditional, Weight: 1.0})

	case ir.BranchTerm:
		g.Edges = append(g.Edges,
			Edge{From: id, To: t.TrueBlk, Type: ConditionalTrue, Weight: 0.5},
			Edge{From: id, To: t.FalseBlk, Type: ConditionalFalse, Weight: 0.5})

	case ir.SwitchTerm:
		total := len(t.Arms)
		if t.Default != nil {
			total++
		}
		w := float32(1.0)
		if total > 0 {
			w = 1.0 / float32(total)
		}
		for _, arm := range t.Arms {
			cv := int64(0)
			if lit, ok := arm.Literal.(*ir.LiteralExpr); ok && lit.Kind == ir.LitInteger {
				cv = lit.Int
			}
			g.Edges = append(g.Edges, Edge{From: id, To: arm.Target, Type: SwitchCase, CaseValue: cv, Weight: w})
		}
		if t.Default != nil {
			g.Edges = append(g.Edges, Edge{From: id, To: *t.Default, Type: SwitchDefault, Weight: w})
		}

	case ir.TryBlockTerm:
		g.Edges = append(g.Edges, Edge{From: id, To: t.Body, Type: TryEntry, Weight: 0.9})
		if t.Catch != nil {
			g.Edges = append(g.Edges, Edge{From: id, To: *t.Catch, Type: CatchEntry, Weight: 0.1})
		}
		if t.Finally != nil {
			g.Edges = append(g.Edges, Edge{From: id, To: *t.Finally, Type: FinallyEntry, Weight: 1.0})
		}

	case ir.ReturnTerm, ir.AbortTerm:
		// no outgoing edges

	default:
		return &Error{Kind: MalformedStructure, Block: id, Message: fmt.Sprintf("unrecognized terminator on block %d", id)}
	}
	return nil
}

func validateBasicStructure(g *Graph) error {
	if _, ok := g.node(g.Entry); !ok {
		return &Error{Kind: InvalidBlockReference, Block: g.Entry}
	}
	for _, e := range g.Edges {
		if _, ok := g.node(e.From); !ok {
			return &Error{Kind: InvalidBlockReference, Block: e.From}
		}
		if _, ok := g.node(e.To); !ok {
			return &Error{Kind: InvalidBlockReference, Block: e.To}
		}
	}
	return nil
}

func validateStructure(g *Graph) error {
	if err := validateBasicStructure(g); err != nil {
		return err
	}
	if g.Dominators != nil && g.Dominators.Root != g.Entry {
		return &Error{Kind: MalformedStructure, Message: "dominator tree root mismatch"}
	}
	return nil
}
