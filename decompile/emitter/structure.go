package emitter

import (
	"fmt"
	"strings"

	"github.com/mna/neodec/decompile/cfg"
	"github.com/mna/neodec/decompile/ir"
)

// renderer walks a function's control-flow graph and produces the flat
// line-oriented pseudocode the post-processing passes then rewrite
// in place (§4.7.1, §4.7.2). It never emits structured output for
// control flow it cannot recognize: anything outside the handled
// if/else, while-loop, switch and try shapes degrades to a two-line
// guarded goto, matching the pattern the switch-collapse pass expects
// as its raw material.
type renderer struct {
	fn          *ir.Function
	graph       *cfg.Graph
	visited     map[ir.BlockID]bool
	loopHeaders map[ir.BlockID]*cfg.Loop
}

func newRenderer(fn *ir.Function, graph *cfg.Graph) *renderer {
	r := &renderer{
		fn:          fn,
		graph:       graph,
		visited:     make(map[ir.BlockID]bool),
		loopHeaders: make(map[ir.BlockID]*cfg.Loop),
	}
	for i := range graph.Loops {
		l := &graph.Loops[i]
		if l.Type == cfg.Irreducible {
			continue
		}
		if _, exists := r.loopHeaders[l.Header]; !exists {
			r.loopHeaders[l.Header] = l
		}
	}
	return r
}

// renderFunction renders the entry block and, as a trailer, every block
// the structured walk never reached (labeled so the guarded-goto
// fallback and any irreducible edges still resolve).
func (r *renderer) renderFunction() []string {
	lines := r.render(r.fn.Entry, 1, 0, false)
	for _, id := range r.fn.SortedBlockIDs() {
		if r.visited[id] {
			continue
		}
		lines = append(lines, pad(1)+label(id)+":")
		lines = append(lines, r.render(id, 1, 0, false)...)
	}
	return lines
}

func (r *renderer) render(id ir.BlockID, indent int, stop ir.BlockID, hasStop bool) []string {
	if hasStop && id == stop {
		return nil
	}
	if r.visited[id] {
		return []string{pad(indent) + fmt.Sprintf("goto %s;", label(id))}
	}
	r.visited[id] = true

	block := r.fn.Blocks[id]
	if block == nil {
		return nil
	}

	var lines []string
	if len(block.Predecessors) > 1 {
		lines = append(lines, pad(indent)+label(id)+":")
	}

	if loop, ok := r.loopHeaders[id]; ok {
		lines = append(lines, r.renderLoop(id, block, loop, indent, stop, hasStop)...)
		return lines
	}

	for _, op := range block.Ops {
		lines = append(lines, pad(indent)+opString(op))
	}

	switch t := block.Terminator.(type) {
	case ir.JumpTerm:
		lines = append(lines, r.render(t.Target, indent, stop, hasStop)...)
	case ir.BranchTerm:
		lines = append(lines, r.renderBranch(id, t, indent, stop, hasStop)...)
	case ir.ReturnTerm:
		lines = append(lines, pad(indent)+returnStmt(t))
	case ir.AbortTerm:
		lines = append(lines, pad(indent)+abortStmt(t))
	case ir.SwitchTerm:
		lines = append(lines, r.renderSwitch(t, indent, stop, hasStop)...)
	case ir.TryBlockTerm:
		lines = append(lines, r.renderTry(t, indent, stop, hasStop)...)
	}
	return lines
}

// renderLoop recognizes the §4.7.1 while-loop shape: a header ending in
// a two-way branch where exactly one successor stays inside the loop
// body. A header that doesn't end that way (rare — an unconditional
// back edge) degrades to a plain labeled block, leaving the jump as a
// goto for the guarded-goto/label machinery to resolve.
func (r *renderer) renderLoop(id ir.BlockID, block *ir.BasicBlock, loop *cfg.Loop, indent int, stop ir.BlockID, hasStop bool) []string {
	branch, ok := block.Terminator.(ir.BranchTerm)
	if !ok {
		var lines []string
		for _, op := range block.Ops {
			lines = append(lines, pad(indent)+opString(op))
		}
		if jmp, ok := block.Terminator.(ir.JumpTerm); ok {
			lines = append(lines, r.render(jmp.Target, indent, stop, hasStop)...)
		}
		return lines
	}

	var bodyEntry, exit ir.BlockID
	negate := false
	switch {
	case loop.Body[branch.TrueBlk]:
		bodyEntry, exit = branch.TrueBlk, branch.FalseBlk
	case loop.Body[branch.FalseBlk]:
		bodyEntry, exit = branch.FalseBlk, branch.TrueBlk
		negate = true
	default:
		// neither successor stays in the body: not a recognizable
		// while-loop shape, fall back to a guarded goto.
		var lines []string
		for _, op := range block.Ops {
			lines = append(lines, pad(indent)+opString(op))
		}
		lines = append(lines, r.renderGuardedGoto(branch, indent)...)
		return lines
	}

	cond := exprString(branch.Condition)
	if negate {
		cond = fmt.Sprintf("!(%s)", cond)
	}

	var lines []string
	for _, op := range block.Ops {
		lines = append(lines, pad(indent)+opString(op))
	}
	lines = append(lines, pad(indent)+fmt.Sprintf("while %s {", cond))
	lines = append(lines, r.render(bodyEntry, indent+1, id, true)...)
	lines = append(lines, pad(indent)+"}")
	lines = append(lines, r.render(exit, indent, stop, hasStop)...)
	return lines
}

// renderBranch recognizes if/else via the post-dominator tree: the
// branch block's immediate post-dominator is the reconvergence point,
// and whichever side equals it directly has an empty arm.
func (r *renderer) renderBranch(id ir.BlockID, t ir.BranchTerm, indent int, stop ir.BlockID, hasStop bool) []string {
	node, ok := r.graph.Nodes.Get(id)
	if !ok || node.ImmediatePostDominator == nil {
		return r.renderGuardedGoto(t, indent)
	}
	merge := *node.ImmediatePostDominator
	cond := exprString(t.Condition)

	trueIsMerge := t.TrueBlk == merge
	falseIsMerge := t.FalseBlk == merge
	if trueIsMerge && falseIsMerge {
		return r.renderGuardedGoto(t, indent)
	}

	var lines []string
	switch {
	case trueIsMerge:
		lines = append(lines, pad(indent)+fmt.Sprintf("if !(%s) {", cond))
		lines = append(lines, r.render(t.FalseBlk, indent+1, merge, true)...)
		lines = append(lines, pad(indent)+"}")
	case falseIsMerge:
		lines = append(lines, pad(indent)+fmt.Sprintf("if %s {", cond))
		lines = append(lines, r.render(t.TrueBlk, indent+1, merge, true)...)
		lines = append(lines, pad(indent)+"}")
	default:
		lines = append(lines, pad(indent)+fmt.Sprintf("if %s {", cond))
		lines = append(lines, r.render(t.TrueBlk, indent+1, merge, true)...)
		lines = append(lines, pad(indent)+"} else {")
		lines = append(lines, r.render(t.FalseBlk, indent+1, merge, true)...)
		lines = append(lines, pad(indent)+"}")
	}
	lines = append(lines, r.render(merge, indent, stop, hasStop)...)
	return lines
}

// renderGuardedGoto is the canonical fallback for a branch the
// structurer cannot otherwise recognize: one line per target, shaped
// to match what the switch-collapse pass looks for when it tries to
// reassemble a chain of these back into a switch statement.
func (r *renderer) renderGuardedGoto(t ir.BranchTerm, indent int) []string {
	return []string{
		pad(indent) + fmt.Sprintf("if %s { goto %s; }", exprString(t.Condition), label(t.TrueBlk)),
		pad(indent) + fmt.Sprintf("goto %s;", label(t.FalseBlk)),
	}
}

func (r *renderer) renderSwitch(t ir.SwitchTerm, indent int, stop ir.BlockID, hasStop bool) []string {
	lines := []string{pad(indent) + fmt.Sprintf("switch %s {", exprString(t.Discriminant))}
	for _, arm := range t.Arms {
		lines = append(lines, pad(indent+1)+fmt.Sprintf("case %s {", exprString(arm.Literal)))
		lines = append(lines, r.render(arm.Target, indent+2, stop, hasStop)...)
		lines = append(lines, pad(indent+1)+"}")
	}
	if t.Default != nil {
		lines = append(lines, pad(indent+1)+"default {")
		lines = append(lines, r.render(*t.Default, indent+2, stop, hasStop)...)
		lines = append(lines, pad(indent+1)+"}")
	}
	lines = append(lines, pad(indent)+"}")
	return lines
}

func (r *renderer) renderTry(t ir.TryBlockTerm, indent int, stop ir.BlockID, hasStop bool) []string {
	lines := []string{pad(indent) + "try {"}
	lines = append(lines, r.render(t.Body, indent+1, stop, hasStop)...)
	lines = append(lines, pad(indent)+"}")
	if t.Catch != nil {
		lines = append(lines, pad(indent)+"catch {")
		lines = append(lines, r.render(*t.Catch, indent+1, stop, hasStop)...)
		lines = append(lines, pad(indent)+"}")
	}
	if t.Finally != nil {
		lines = append(lines, pad(indent)+"finally {")
		lines = append(lines, r.render(*t.Finally, indent+1, stop, hasStop)...)
		lines = append(lines, pad(indent)+"}")
	}
	return lines
}

func label(id ir.BlockID) string { return fmt.Sprintf("label_0x%04X", id) }

func pad(indent int) string { return strings.Repeat("    ", indent) }
