package cfg

import "github.com/mna/neodec/decompile/ir"

// ExceptionRegion is one recovered try/catch/finally construct (§4.4.6).
type ExceptionRegion struct {
	ProtectedBlocks map[ir.BlockID]bool
	HandlerBlocks   map[ir.BlockID]bool
	FinallyBlocks   map[ir.BlockID]bool
	NestingLevel    int
}

// analyzeExceptionFlow collects, for every TryBlockTerm in source order,
// the protected/handler/finally block sets as the forward-reachable set
// from each region's entry, stopping the protected-region walk at the
// handler blocks so a catch body is not also counted as protected.
func analyzeExceptionFlow(g *Graph, fn *ir.Function) {
	var regions []ExceptionRegion

	for _, id := range fn.SortedBlockIDs() {
		b := fn.Blocks[id]
		t, ok := b.Terminator.(ir.TryBlockTerm)
		if !ok {
			continue
		}

		handler := map[ir.BlockID]bool{}
		if t.Catch != nil {
			collectReachable(g, *t.Catch, handler, nil)
		}

		protected := map[ir.BlockID]bool{}
		collectReachable(g, t.Body, protected, handler)

		finally := map[ir.BlockID]bool{}
		if t.Finally != nil {
			collectReachable(g, *t.Finally, finally, nil)
		}

		regions = append(regions, ExceptionRegion{
			ProtectedBlocks: protected,
			HandlerBlocks:   handler,
			FinallyBlocks:   finally,
		})
	}

	for i := range regions {
		level := 0
		for j := range regions {
			if i == j {
				continue
			}
			if containsRegion(regions[j], regions[i]) {
				level++
			}
		}
		regions[i].NestingLevel = level
	}

	for _, r := range regions {
		for id := range r.ProtectedBlocks {
			if n, ok := g.node(id); ok {
				n.Exception.InTryRegion = true
			}
		}
		for id := range r.HandlerBlocks {
			if n, ok := g.node(id); ok {
				n.Exception.IsHandler = true
			}
		}
		for id := range r.FinallyBlocks {
			if n, ok := g.node(id); ok {
				n.Exception.InFinallyRegion = true
			}
		}
	}

	g.ExceptionRegions = regions
}

// containsRegion reports whether outer's protected region is a strict
// superset of inner's, the containment test §4.4.6 uses for nesting
// level.
func containsRegion(outer, inner ExceptionRegion) bool {
	if len(outer.ProtectedBlocks) <= len(inner.ProtectedBlocks) {
		return false
	}
	for id := range inner.ProtectedBlocks {
		if !outer.ProtectedBlocks[id] {
			return false
		}
	}
	return true
}

func collectReachable(g *Graph, start ir.BlockID, result map[ir.BlockID]bool, stopAt map[ir.BlockID]bool) {
	visited := map[ir.BlockID]bool{start: true}
	queue := []ir.BlockID{start}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		result[id] = true

		n, ok := g.node(id)
		if !ok {
			continue
		}
		for _, succ := range n.Successors {
			if stopAt[succ] {
				continue
			}
			if !visited[succ] {
				visited[succ] = true
				queue = append(queue, succ)
			}
		}
	}
}
