package cfg

import (
	"golang.org/x/exp/slices"

	"github.com/mna/neodec/decompile/ir"
)

// DominatorTree is the classical dominator tree rooted at the entry block
// (§4.4.3).
type DominatorTree struct {
	ImmediateDominators map[ir.BlockID]ir.BlockID
	DominanceFrontiers  map[ir.BlockID]map[ir.BlockID]bool
	Children            map[ir.BlockID][]ir.BlockID
	Root                ir.BlockID
}

// PostDominatorTree is the symmetric construction over the reverse graph,
// rooted at a synthetic virtual exit (§4.4.3). It may remain in skeleton
// form (no immediate post-dominators populated) when a function has no
// exit block to root it at.
type PostDominatorTree struct {
	ImmediatePostDominators map[ir.BlockID]ir.BlockID
	PostDominanceFrontiers  map[ir.BlockID]map[ir.BlockID]bool
	Children                map[ir.BlockID][]ir.BlockID
	Root                    ir.BlockID
}

// virtualExit is the synthetic node id a PostDominatorTree roots at; it
// never collides with a real BlockID since lifted functions never reach
// this many blocks.
const virtualExit ir.BlockID = ^ir.BlockID(0)

func allBlockIDs(g *Graph) []ir.BlockID {
	ids := make([]ir.BlockID, 0, g.Nodes.Count())
	g.Nodes.Iter(func(k ir.BlockID, _ *Node) bool {
		ids = append(ids, k)
		return false
	})
	slices.Sort(ids)
	return ids
}

func computeDominatorTree(g *Graph) error {
	tree := &DominatorTree{
		ImmediateDominators: make(map[ir.BlockID]ir.BlockID),
		DominanceFrontiers:  make(map[ir.BlockID]map[ir.BlockID]bool),
		Children:            make(map[ir.BlockID][]ir.BlockID),
		Root:                g.Entry,
	}

	ids := allBlockIDs(g)
	all := make(map[ir.BlockID]bool, len(ids))
	for _, id := range ids {
		all[id] = true
	}

	doms := make(map[ir.BlockID]map[ir.BlockID]bool, len(ids))
	doms[g.Entry] = map[ir.BlockID]bool{g.Entry: true}
	for _, id := range ids {
		if id == g.Entry {
			continue
		}
		doms[id] = cloneSet(all)
	}

	changed := true
	for changed {
		changed = false
		for _, id := range ids {
			if id == g.Entry {
				continue
			}
			n, ok := g.node(id)
			if !ok {
				continue
			}
			next := cloneSet(all)
			for _, p := range n.Predecessors {
				pd, ok := doms[p]
				if !ok {
					next = map[ir.BlockID]bool{}
					break
				}
				intersect(next, pd)
			}
			next[id] = true
			if !setEqual(next, doms[id]) {
				doms[id] = next
				changed = true
			}
		}
	}

	for _, id := range ids {
		if id == g.Entry {
			continue
		}
		for dom := range doms[id] {
			if dom == id {
				continue
			}
			immediate := true
			for other := range doms[id] {
				if other == dom || other == id {
					continue
				}
				if doms[other][dom] {
					immediate = false
					break
				}
			}
			if immediate {
				tree.ImmediateDominators[id] = dom
				break
			}
		}
	}

	for child, parent := range tree.ImmediateDominators {
		tree.Children[parent] = append(tree.Children[parent], child)
	}
	for p := range tree.Children {
		slices.Sort(tree.Children[p])
	}

	computeDominanceFrontiers(g, tree)

	for _, id := range ids {
		n, _ := g.node(id)
		if idom, ok := tree.ImmediateDominators[id]; ok {
			v := idom
			n.ImmediateDominator = &v
		}
		n.Dominated = doms[id]
	}

	g.Dominators = tree
	return nil
}

func computeDominanceFrontiers(g *Graph, tree *DominatorTree) {
	for _, e := range g.Edges {
		x, y := e.From, e.To
		yIdom, ok := tree.ImmediateDominators[y]
		if !ok {
			continue
		}
		cur := x
		for {
			if cur == yIdom {
				break
			}
			if tree.DominanceFrontiers[cur] == nil {
				tree.DominanceFrontiers[cur] = make(map[ir.BlockID]bool)
			}
			tree.DominanceFrontiers[cur][y] = true
			next, ok := tree.ImmediateDominators[cur]
			if !ok {
				break
			}
			cur = next
		}
	}
}

// computePostDominatorTree builds the post-dominator tree over the
// reverse graph, treating every exit block as a predecessor of a
// synthetic virtual exit node (§4.4.3). Functions with no exit blocks
// (e.g. every path ends in an infinite loop) get an empty, root-only
// tree, which downstream passes treat as "not available".
func computePostDominatorTree(g *Graph) {
	tree := &PostDominatorTree{
		ImmediatePostDominators: make(map[ir.BlockID]ir.BlockID),
		PostDominanceFrontiers:  make(map[ir.BlockID]map[ir.BlockID]bool),
		Children:                make(map[ir.BlockID][]ir.BlockID),
		Root:                    virtualExit,
	}
	g.PostDominators = tree

	if len(g.ExitBlocks) == 0 {
		return
	}

	ids := allBlockIDs(g)
	revPreds := make(map[ir.BlockID][]ir.BlockID, len(ids)+1)
	for _, e := range g.Edges {
		revPreds[e.From] = append(revPreds[e.From], e.To)
	}
	for _, exit := range g.ExitBlocks {
		revPreds[exit] = append(revPreds[exit], virtualExit)
	}

	all := map[ir.BlockID]bool{virtualExit: true}
	for _, id := range ids {
		all[id] = true
	}

	doms := map[ir.BlockID]map[ir.BlockID]bool{virtualExit: {virtualExit: true}}
	for _, id := range ids {
		doms[id] = cloneSet(all)
	}

	nodes := append(append([]ir.BlockID(nil), ids...), virtualExit)
	changed := true
	for changed {
		changed = false
		for _, id := range nodes {
			if id == virtualExit {
				continue
			}
			next := cloneSet(all)
			preds := revPreds[id]
			if len(preds) == 0 {
				next = map[ir.BlockID]bool{id: true}
			}
			for _, p := range preds {
				pd, ok := doms[p]
				if !ok {
					next = map[ir.BlockID]bool{}
					break
				}
				intersect(next, pd)
			}
			next[id] = true
			if !setEqual(next, doms[id]) {
				doms[id] = next
				changed = true
			}
		}
	}

	for _, id := range nodes {
		if id == virtualExit {
			continue
		}
		for dom := range doms[id] {
			if dom == id {
				continue
			}
			immediate := true
			for other := range doms[id] {
				if other == dom || other == id {
					continue
				}
				if doms[other][dom] {
					immediate = false
					break
				}
			}
			if immediate {
				tree.ImmediatePostDominators[id] = dom
				break
			}
		}
	}
	for child, parent := range tree.ImmediatePostDominators {
		tree.Children[parent] = append(tree.Children[parent], child)
	}
	for p := range tree.Children {
		slices.Sort(tree.Children[p])
	}

	for _, id := range ids {
		n, _ := g.node(id)
		if ipd, ok := tree.ImmediatePostDominators[id]; ok {
			v := ipd
			n.ImmediatePostDominator = &v
		}
	}
}

func cloneSet(s map[ir.BlockID]bool) map[ir.BlockID]bool {
	out := make(map[ir.BlockID]bool, len(s))
	for k := range s {
		out[k] = true
	}
	return out
}

func intersect(dst, other map[ir.BlockID]bool) {
	for k := range dst {
		if !other[k] {
			delete(dst, k)
		}
	}
}

func setEqual(a, b map[ir.BlockID]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func computeReachability(g *Graph) {
	visited := map[ir.BlockID]bool{g.Entry: true}
	queue := []ir.BlockID{g.Entry}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n, ok := g.node(id)
		if !ok {
			continue
		}
		n.Reachable = true
		for _, succ := range n.Successors {
			if !visited[succ] {
				visited[succ] = true
				queue = append(queue, succ)
			}
		}
	}

	g.Nodes.Iter(func(id ir.BlockID, n *Node) bool {
		if !n.Reachable {
			g.UnreachableBlocks[id] = true
		}
		return false
	})
}
