// Package emitter turns a lifted IR function and its analyzed control-flow
// graph into deterministic textual pseudocode (§4.7): a structural
// reconstruction pass followed by an ordered chain of text-rewrite
// post-processing passes that clean up compiler idioms the structural
// pass alone cannot see through.
package emitter

import (
	"fmt"
	"strings"

	"github.com/mna/neodec/decompile/cfg"
	"github.com/mna/neodec/decompile/ir"
	"github.com/mna/neodec/decompile/types"
)

// Options parameterizes one function's emission.
type Options struct {
	// ContractName, when non-empty, wraps the rendered functions in a
	// `contract Name { ... }` block (supplied by the manifest).
	ContractName string
}

// Function renders one lifted function to its pseudocode text, applying
// the full §4.7.2 post-processing chain in order.
func Function(fn *ir.Function, graph *cfg.Graph) string {
	body := newRenderer(fn, graph).renderFunction()

	body = rewriteElseIfChains(body)
	body = collapseOverflowChecks(body)
	body = rewriteSwitchStatements(body)
	body = rewriteCompoundAssignments(body)
	body = eliminateStrayTemps(body)

	var out []string
	out = append(out, signatureLine(fn))
	out = append(out, body...)
	out = append(out, "}")
	return strings.Join(out, "\n")
}

// Contract renders every function of a contract, in the order given,
// optionally wrapped in a `contract Name { ... }` block.
func Contract(opts Options, fns []*ir.Function, graphs []*cfg.Graph) string {
	var bodies []string
	for i, fn := range fns {
		bodies = append(bodies, Function(fn, graphs[i]))
	}
	joined := strings.Join(bodies, "\n\n")

	if opts.ContractName == "" {
		return joined
	}

	var out strings.Builder
	fmt.Fprintf(&out, "contract %s {\n", opts.ContractName)
	for _, line := range strings.Split(joined, "\n") {
		if line == "" {
			out.WriteString("\n")
			continue
		}
		out.WriteString("    " + line + "\n")
	}
	out.WriteString("}")
	return out.String()
}

func signatureLine(fn *ir.Function) string {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fmt.Sprintf("%s: %s", p.Name, typeString(p.Type))
	}
	sig := fmt.Sprintf("fn %s(%s)", fn.Name, strings.Join(params, ", "))
	if fn.ReturnType != nil {
		sig += fmt.Sprintf(" -> %s", typeString(fn.ReturnType))
	}
	return sig + " {"
}

func typeString(t types.Type) string {
	if t == nil {
		return "Unknown"
	}
	return t.String()
}
