package cfg

import (
	"golang.org/x/exp/slices"

	"github.com/mna/neodec/decompile/ir"
)

// LoopType classifies a detected natural loop (§4.4.5). While/For/DoWhile
// are left to the emitter's structural reconstruction, which has the
// body shape information this package does not compute.
type LoopType uint8

const (
	Natural LoopType = iota
	Irreducible
	SelfLoop
)

// Loop is one natural loop rooted at Header.
type Loop struct {
	Header    ir.BlockID
	Body      map[ir.BlockID]bool
	BackEdges []Edge
	ExitEdges []Edge
	Depth     int
	Type      LoopType
}

// detectSCCs runs Tarjan's algorithm over the successor lists, recording
// components in reverse finish order (§4.4.4).
func detectSCCs(g *Graph) {
	idx := 0
	var stack []ir.BlockID
	indices := make(map[ir.BlockID]int)
	lowlink := make(map[ir.BlockID]int)
	onStack := make(map[ir.BlockID]bool)
	var sccs [][]ir.BlockID

	var strongConnect func(v ir.BlockID)
	strongConnect = func(v ir.BlockID) {
		indices[v] = idx
		lowlink[v] = idx
		idx++
		stack = append(stack, v)
		onStack[v] = true

		n, ok := g.node(v)
		if ok {
			for _, w := range n.Successors {
				if _, seen := indices[w]; !seen {
					strongConnect(w)
					if lowlink[w] < lowlink[v] {
						lowlink[v] = lowlink[w]
					}
				} else if onStack[w] {
					if indices[w] < lowlink[v] {
						lowlink[v] = indices[w]
					}
				}
			}
		}

		if lowlink[v] == indices[v] {
			var scc []ir.BlockID
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, id := range allBlockIDs(g) {
		if _, seen := indices[id]; !seen {
			strongConnect(id)
		}
	}
	g.SCCs = sccs
}

// detectLoops identifies back edges (edges whose target dominates the
// source) and, for each, builds the natural loop body as the header
// plus every ancestor of the tail reachable by walking predecessors
// without crossing the header (§4.4.5). The ancestor walk is bounded by
// opts.MaxDepth, since a malformed predecessor graph could otherwise
// grow the body set without converging.
func detectLoops(g *Graph, opts Options) error {
	if g.Dominators == nil {
		return &Error{Kind: MalformedStructure, Message: "dominator tree required for loop detection"}
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 1000
	}

	var loops []Loop
	for i, e := range g.Edges {
		src, ok := g.node(e.From)
		if !ok {
			continue
		}
		if !src.Dominated[e.To] {
			continue
		}
		g.Edges[i].IsBackEdge = true

		header := e.To
		body := map[ir.BlockID]bool{header: true}
		var worklist []ir.BlockID
		if e.From != header {
			body[e.From] = true
			worklist = append(worklist, e.From)
		}
		for len(worklist) > 0 {
			if len(body) > maxDepth {
				return &Error{Kind: MaxDepthExceeded, Block: header}
			}
			id := worklist[0]
			worklist = worklist[1:]
			n, ok := g.node(id)
			if !ok {
				continue
			}
			for _, p := range n.Predecessors {
				if p != header && !body[p] {
					body[p] = true
					worklist = append(worklist, p)
				}
			}
		}

		lt := Natural
		if len(body) == 1 {
			lt = SelfLoop
		}

		var exitEdges []Edge
		for _, inner := range g.Edges {
			if body[inner.From] && !body[inner.To] {
				exitEdges = append(exitEdges, inner)
			}
		}

		loops = append(loops, Loop{
			Header:    header,
			Body:      body,
			BackEdges: []Edge{e},
			ExitEdges: exitEdges,
			Type:      lt,
		})
	}

	for _, l := range loops {
		for id := range l.Body {
			n, ok := g.node(id)
			if !ok {
				continue
			}
			if n.LoopDepth < 1 {
				n.LoopDepth = 1
			}
			if !slices.Contains(n.LoopHeaders, l.Header) {
				n.LoopHeaders = append(n.LoopHeaders, l.Header)
			}
		}
	}

	// An SCC of size > 1 whose member set is not wholly accounted for by
	// any single detected natural loop is irreducible (multiple entries).
	for _, scc := range g.SCCs {
		if len(scc) < 2 {
			continue
		}
		covered := false
		for _, l := range loops {
			if len(l.Body) != len(scc) {
				continue
			}
			all := true
			for _, id := range scc {
				if !l.Body[id] {
					all = false
					break
				}
			}
			if all {
				covered = true
				break
			}
		}
		if !covered {
			loops = append(loops, Loop{Type: Irreducible, Body: setFromSlice(scc)})
		}
	}

	g.Loops = loops
	return nil
}

func setFromSlice(ids []ir.BlockID) map[ir.BlockID]bool {
	out := make(map[ir.BlockID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
