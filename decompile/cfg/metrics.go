package cfg

import "github.com/mna/neodec/decompile/ir"

// Complexity summarizes a graph's structural metrics (§4.4.7).
type Complexity struct {
	Cyclomatic           int
	NodeCount            int
	EdgeCount            int
	SCCCount             int
	LoopCount            int
	MaxLoopDepth         int
	ExceptionRegionCount int
	Density              float32
	EssentialComplexity  int
}

func computeComplexity(g *Graph) {
	nodeCount := g.Nodes.Count()
	edgeCount := len(g.Edges)

	cyclomatic := 1
	if edgeCount >= nodeCount {
		cyclomatic = edgeCount - nodeCount + 2
	}

	maxLoopDepth := 0
	g.Nodes.Iter(func(_ ir.BlockID, n *Node) bool {
		if n.LoopDepth > maxLoopDepth {
			maxLoopDepth = n.LoopDepth
		}
		return false
	})

	density := float32(0)
	if nodeCount > 1 {
		density = float32(edgeCount) / (float32(nodeCount) * float32(nodeCount-1))
	}

	g.Complexity = Complexity{
		Cyclomatic:           cyclomatic,
		NodeCount:            nodeCount,
		EdgeCount:            edgeCount,
		SCCCount:             len(g.SCCs),
		LoopCount:            len(g.Loops),
		MaxLoopDepth:         maxLoopDepth,
		ExceptionRegionCount: len(g.ExceptionRegions),
		Density:              density,
		// essential complexity approximates the cyclomatic complexity of
		// the graph after collapsing every natural loop body to a single
		// node, i.e. the irreducible reduction; absent deeper structural
		// collapsing this equals the plain cyclomatic figure.
		EssentialComplexity: cyclomatic,
	}
}

// identifyCriticalEdges marks every edge (u,v) where u has more than one
// successor and v has more than one predecessor (§4.4.8).
func identifyCriticalEdges(g *Graph) {
	for i, e := range g.Edges {
		fromSuccs := 0
		if n, ok := g.node(e.From); ok {
			fromSuccs = len(n.Successors)
		}
		toPreds := 0
		if n, ok := g.node(e.To); ok {
			toPreds = len(n.Predecessors)
		}
		g.Edges[i].IsCritical = fromSuccs > 1 && toPreds > 1
	}
}
