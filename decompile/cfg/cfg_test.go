package cfg_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/neodec/decompile/cfg"
	"github.com/mna/neodec/decompile/ir"
)

// diamondFunction builds block 0 branching to 1 and 2, both joining at 3:
//
//	0 -> (T)1, (F)2
//	1 -> 3
//	2 -> 3
//	3 -> return
func diamondFunction() *ir.Function {
	fn := ir.NewFunction("diamond")
	fn.Block(0).Terminator = ir.BranchTerm{Condition: ir.IntLiteral(1), TrueBlk: 1, FalseBlk: 2}
	fn.Block(1).Terminator = ir.JumpTerm{Target: 3}
	fn.Block(2).Terminator = ir.JumpTerm{Target: 3}
	fn.Block(3).Terminator = ir.ReturnTerm{}
	fn.Entry = 0
	fn.Exits = []ir.BlockID{3}
	fn.ComputePredecessors()
	return fn
}

func buildDiamond(t *testing.T) *cfg.Graph {
	t.Helper()
	g, err := cfg.Build(diamondFunction(), cfg.DefaultOptions())
	require.NoError(t, err)
	return g
}

func TestBuildBasicStructure(t *testing.T) {
	g := buildDiamond(t)
	require.Equal(t, 4, g.Nodes.Count())
	require.EqualValues(t, 0, g.Entry)
	require.Equal(t, []ir.BlockID{3}, g.ExitBlocks)
	require.Equal(t, "diamond", g.FunctionName)
}

func TestEdgeTypes(t *testing.T) {
	g := buildDiamond(t)
	require.Len(t, g.Edges, 4)

	kinds := map[[2]ir.BlockID]cfg.EdgeType{}
	for _, e := range g.Edges {
		kinds[[2]ir.BlockID{e.From, e.To}] = e.Type
	}
	require.Equal(t, cfg.ConditionalTrue, kinds[[2]ir.BlockID{0, 1}])
	require.Equal(t, cfg.ConditionalFalse, kinds[[2]ir.BlockID{0, 2}])
	require.Equal(t, cfg.Unconditional, kinds[[2]ir.BlockID{1, 3}])
	require.Equal(t, cfg.Unconditional, kinds[[2]ir.BlockID{2, 3}])
}

func TestReachability(t *testing.T) {
	g := buildDiamond(t)
	require.Empty(t, g.FindUnreachableBlocks())
}

func TestComplexityMetrics(t *testing.T) {
	g := buildDiamond(t)
	// cyclomatic = E - N + 2 = 4 - 4 + 2 = 2
	require.Equal(t, 2, g.Complexity.Cyclomatic)
	require.Equal(t, 4, g.Complexity.NodeCount)
	require.Equal(t, 4, g.Complexity.EdgeCount)
}

func TestDominatorTree(t *testing.T) {
	g := buildDiamond(t)
	require.NotNil(t, g.Dominators)
	require.EqualValues(t, 0, g.Dominators.Root)
	require.Equal(t, ir.BlockID(0), g.Dominators.ImmediateDominators[1])
	require.Equal(t, ir.BlockID(0), g.Dominators.ImmediateDominators[2])
	require.Equal(t, ir.BlockID(0), g.Dominators.ImmediateDominators[3])
}

func TestDFSTraversal(t *testing.T) {
	g := buildDiamond(t)
	var visited []ir.BlockID
	g.DFS(0, func(id ir.BlockID) { visited = append(visited, id) })
	require.Len(t, visited, 4)
	require.Equal(t, ir.BlockID(0), visited[0])
}

func TestTopologicalSortIsAcyclic(t *testing.T) {
	g := buildDiamond(t)
	order, err := g.TopologicalSort()
	require.NoError(t, err)
	require.Len(t, order, 4)
}

func TestToDotExport(t *testing.T) {
	g := buildDiamond(t)
	dot := g.ToDot()
	require.Contains(t, dot, "digraph CFG")
	require.Contains(t, dot, "0 -> 1")
	require.Contains(t, dot, "0 -> 2")
}

func TestSingleBlockFunction(t *testing.T) {
	fn := ir.NewFunction("single")
	fn.Block(0).Terminator = ir.ReturnTerm{}
	fn.Entry = 0
	fn.Exits = []ir.BlockID{0}
	fn.ComputePredecessors()

	g, err := cfg.Build(fn, cfg.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 1, g.Nodes.Count())
	require.Empty(t, g.Edges)
	require.Equal(t, 1, g.Complexity.Cyclomatic)
}

func TestSwitchTerminatorEdges(t *testing.T) {
	fn := ir.NewFunction("switcher")
	def := ir.BlockID(3)
	fn.Block(0).Terminator = ir.SwitchTerm{
		Discriminant: ir.IntLiteral(1),
		Arms: []ir.SwitchArm{
			{Literal: ir.IntLiteral(1), Target: 1},
			{Literal: ir.IntLiteral(2), Target: 2},
		},
		Default: &def,
	}
	fn.Block(1).Terminator = ir.ReturnTerm{}
	fn.Block(2).Terminator = ir.ReturnTerm{}
	fn.Block(3).Terminator = ir.ReturnTerm{}
	fn.Entry = 0
	fn.Exits = []ir.BlockID{1, 2, 3}
	fn.ComputePredecessors()

	g, err := cfg.Build(fn, cfg.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, g.Edges, 3)

	var sawCase1, sawCase2, sawDefault bool
	for _, e := range g.Edges {
		if e.From != 0 {
			continue
		}
		switch e.Type {
		case cfg.SwitchCase:
			if e.CaseValue == 1 {
				sawCase1 = true
			}
			if e.CaseValue == 2 {
				sawCase2 = true
			}
		case cfg.SwitchDefault:
			sawDefault = true
		}
	}
	require.True(t, sawCase1)
	require.True(t, sawCase2)
	require.True(t, sawDefault)
}

func TestNaturalLoopDetection(t *testing.T) {
	// 0 -> 1 (header) -> 2 -> 1 (back edge) ; 1 -> 3 (exit)
	fn := ir.NewFunction("loop")
	fn.Block(0).Terminator = ir.JumpTerm{Target: 1}
	fn.Block(1).Terminator = ir.BranchTerm{Condition: ir.IntLiteral(1), TrueBlk: 2, FalseBlk: 3}
	fn.Block(2).Terminator = ir.JumpTerm{Target: 1}
	fn.Block(3).Terminator = ir.ReturnTerm{}
	fn.Entry = 0
	fn.Exits = []ir.BlockID{3}
	fn.ComputePredecessors()

	g, err := cfg.Build(fn, cfg.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, g.Loops, 1)
	require.Equal(t, ir.BlockID(1), g.Loops[0].Header)
	require.True(t, g.Loops[0].Body[1])
	require.True(t, g.Loops[0].Body[2])
	require.False(t, g.Loops[0].Body[3])

	n1, ok := g.Nodes.Get(1)
	require.True(t, ok)
	require.Equal(t, 1, n1.LoopDepth)
}

func TestTryBlockExceptionRegion(t *testing.T) {
	fn := ir.NewFunction("trycatch")
	catch := ir.BlockID(2)
	fn.Block(0).Terminator = ir.TryBlockTerm{Body: 1, Catch: &catch}
	fn.Block(1).Terminator = ir.ReturnTerm{}
	fn.Block(2).Terminator = ir.ReturnTerm{}
	fn.Entry = 0
	fn.Exits = []ir.BlockID{1, 2}
	fn.ComputePredecessors()

	g, err := cfg.Build(fn, cfg.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, g.ExceptionRegions, 1)
	require.True(t, g.ExceptionRegions[0].ProtectedBlocks[1])
	require.True(t, g.ExceptionRegions[0].HandlerBlocks[2])

	n1, _ := g.Nodes.Get(1)
	require.True(t, n1.Exception.InTryRegion)
	n2, _ := g.Nodes.Get(2)
	require.True(t, n2.Exception.IsHandler)
}

func TestMinimalOptionsSkipsAdvancedAnalysis(t *testing.T) {
	opts := cfg.Options{EnableDominators: false, EnableLoops: false, EnableExceptions: false, MaxDepth: 100}
	g, err := cfg.Build(diamondFunction(), opts)
	require.NoError(t, err)
	require.Equal(t, 4, g.Nodes.Count())
	require.Nil(t, g.Dominators)
}

func TestInvalidBlockReferenceError(t *testing.T) {
	fn := ir.NewFunction("dangling")
	fn.Block(0).Terminator = ir.JumpTerm{Target: 99}
	fn.Entry = 0

	_, err := cfg.Build(fn, cfg.DefaultOptions())
	require.Error(t, err)
	cfgErr, ok := err.(*cfg.Error)
	require.True(t, ok)
	require.Equal(t, cfg.InvalidBlockReference, cfgErr.Kind)
}

func TestCriticalEdgeDetection(t *testing.T) {
	// 0 -> 1, 0 -> 2 leave a block with two successors but enter blocks
	// with one predecessor each; 1 -> 3, 2 -> 3 enter a block with two
	// predecessors but leave blocks with one successor each. An edge is
	// critical only when both hold, so no edge of the diamond is.
	g := buildDiamond(t)
	for _, e := range g.Edges {
		if e.To == 3 {
			require.False(t, e.IsCritical, "edge %d->%d should not be critical: its source has one successor", e.From, e.To)
		} else {
			require.False(t, e.IsCritical, "edge %d->%d should not be critical: its target has one predecessor", e.From, e.To)
		}
	}
}

func TestIsReducible(t *testing.T) {
	g := buildDiamond(t)
	require.True(t, g.IsReducible())
}
