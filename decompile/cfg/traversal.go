package cfg

import (
	"fmt"
	"strings"

	"github.com/mna/neodec/decompile/ir"
)

// DFS performs a depth-first traversal from start, calling visit once
// per reached block in visit order.
func (g *Graph) DFS(start ir.BlockID, visit func(ir.BlockID)) {
	visited := map[ir.BlockID]bool{}
	stack := []ir.BlockID{start}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		visit(id)

		n, ok := g.node(id)
		if !ok {
			continue
		}
		for _, succ := range n.Successors {
			if !visited[succ] {
				stack = append(stack, succ)
			}
		}
	}
}

// BFS performs a breadth-first traversal from start, calling visit once
// per reached block in visit order.
func (g *Graph) BFS(start ir.BlockID, visit func(ir.BlockID)) {
	visited := map[ir.BlockID]bool{start: true}
	queue := []ir.BlockID{start}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visit(id)

		n, ok := g.node(id)
		if !ok {
			continue
		}
		for _, succ := range n.Successors {
			if !visited[succ] {
				visited[succ] = true
				queue = append(queue, succ)
			}
		}
	}
}

// TopologicalSort returns every block in topological order (Kahn's
// algorithm over in-degrees). It returns CyclicDependency when the
// graph has a cycle, since fewer nodes than exist would be emitted.
func (g *Graph) TopologicalSort() ([]ir.BlockID, error) {
	inDegree := map[ir.BlockID]int{}
	ids := allBlockIDs(g)
	for _, id := range ids {
		inDegree[id] = 0
	}
	for _, e := range g.Edges {
		inDegree[e.To]++
	}

	var queue []ir.BlockID
	for _, id := range ids {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	var result []ir.BlockID
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		result = append(result, id)

		n, ok := g.node(id)
		if !ok {
			continue
		}
		for _, succ := range n.Successors {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if len(result) != len(ids) {
		return nil, &Error{Kind: CyclicDependency}
	}
	return result, nil
}

// PathsFromEntryTo returns every simple path from the graph's entry to
// target, found by bounded DFS (cycles are not re-entered).
func (g *Graph) PathsFromEntryTo(target ir.BlockID) [][]ir.BlockID {
	var paths [][]ir.BlockID
	var cur []ir.BlockID
	visited := map[ir.BlockID]bool{}

	var walk func(id ir.BlockID)
	walk = func(id ir.BlockID) {
		if visited[id] {
			return
		}
		cur = append(cur, id)
		visited[id] = true

		if id == target {
			paths = append(paths, append([]ir.BlockID(nil), cur...))
		} else if n, ok := g.node(id); ok {
			for _, succ := range n.Successors {
				walk(succ)
			}
		}

		cur = cur[:len(cur)-1]
		visited[id] = false
	}
	walk(g.Entry)
	return paths
}

// IsReducible reports whether every non-trivial SCC has a single entry
// point from outside the component (§4.4.9).
func (g *Graph) IsReducible() bool {
	for _, scc := range g.SCCs {
		if len(scc) <= 1 {
			continue
		}
		inSCC := setFromSlice(scc)
		entries := 0
		for _, id := range scc {
			n, ok := g.node(id)
			if !ok {
				continue
			}
			for _, p := range n.Predecessors {
				if !inSCC[p] {
					entries++
					break
				}
			}
		}
		if entries > 1 {
			return false
		}
	}
	return true
}

// FindUnreachableBlocks returns the set of blocks reachability analysis
// could not reach from entry.
func (g *Graph) FindUnreachableBlocks() map[ir.BlockID]bool { return g.UnreachableBlocks }

// ToDot renders the graph in Graphviz dot format for debugging.
func (g *Graph) ToDot() string {
	var b strings.Builder
	b.WriteString("digraph CFG {\n")
	b.WriteString("    rankdir=TB;\n")
	b.WriteString("    node [shape=rectangle];\n\n")

	for _, id := range allBlockIDs(g) {
		n, _ := g.node(id)
		shape := "rectangle"
		if id == g.Entry {
			shape = "ellipse"
		} else if containsID(g.ExitBlocks, id) {
			shape = "doublecircle"
		}
		color := "white"
		if !n.Reachable {
			color = "red"
		} else if n.LoopDepth > 0 {
			color = "lightblue"
		}
		fmt.Fprintf(&b, "    %d [label=\"Block %d\\ndepth: %d\", shape=%s, fillcolor=%s, style=filled];\n",
			id, id, n.LoopDepth, shape, color)
	}
	b.WriteString("\n")

	for _, e := range g.Edges {
		style := "solid"
		if e.Type == ConditionalFalse {
			style = "dashed"
		}
		color := "black"
		if e.IsBackEdge {
			color = "red"
		} else if e.IsCritical {
			color = "orange"
		}
		label := edgeLabel(e)
		fmt.Fprintf(&b, "    %d -> %d [label=\"%s\", style=%s, color=%s];\n", e.From, e.To, label, style, color)
	}
	b.WriteString("}\n")
	return b.String()
}

func edgeLabel(e Edge) string {
	switch e.Type {
	case ConditionalTrue:
		return "T"
	case ConditionalFalse:
		return "F"
	case SwitchCase:
		return fmt.Sprintf("%d", e.CaseValue)
	case SwitchDefault:
		return "default"
	case CatchEntry:
		return "catch"
	case FinallyEntry:
		return "finally"
	default:
		return ""
	}
}

func containsID(ids []ir.BlockID, target ir.BlockID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
