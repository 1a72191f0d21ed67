package emitter

import (
	"fmt"
	"strings"
)

// overflowBounds are the type-boundary constants that start an
// overflow-check sequence emitted by the lifter for a checked or
// unchecked arithmetic operation (§4.7.2).
var overflowBounds = map[string]bool{
	"-2147483648":          true, // i32 min
	"0":                    true, // u32 min (unsigned range check)
	"-9223372036854775808": true, // i64 min
}

// collapseOverflowChecks recognizes the four-line range-check wrapper
// the lifter leaves around every arithmetic op (a DUP of the result, a
// bound constant, then an if-block testing against it) and collapses
// it back to the original expression: `let tA = checked(expr);` when
// the guarded branch throws on overflow, or a bare `let tA = expr;`
// when it silently truncates.
//
// Must run after rewriteElseIfChains (which may restructure the blocks
// this pass needs to match) and before rewriteCompoundAssignments
// (which would obscure the DUP assignment pattern).
func collapseOverflowChecks(statements []string) []string {
	index := 0
	for index < len(statements) {
		if c, ok := tryMatchOverflow(statements, index); ok {
			applyOverflowCollapse(statements, c)
			continue
		}
		index++
	}
	return statements
}

type overflowCollapse struct {
	opLine    int
	expr      string
	resultVar string
	blankFrom int
	blankTo   int
	isChecked bool
}

func tryMatchOverflow(statements []string, idx int) (overflowCollapse, bool) {
	line0 := strings.TrimSpace(statements[idx])
	if line0 == "" || strings.HasPrefix(line0, "//") {
		return overflowCollapse{}, false
	}
	resultVar, expr, ok := parseLetAssignment(line0)
	if !ok {
		return overflowCollapse{}, false
	}

	dupIdx := nextCodeLine(statements, idx+1)
	if dupIdx < 0 {
		return overflowCollapse{}, false
	}
	_, dupRHS, ok := parseLetAssignment(strings.TrimSpace(statements[dupIdx]))
	if !ok || dupRHS != resultVar {
		return overflowCollapse{}, false
	}

	boundIdx := nextCodeLine(statements, dupIdx+1)
	if boundIdx < 0 {
		return overflowCollapse{}, false
	}
	_, boundVal, ok := parseLetAssignment(strings.TrimSpace(statements[boundIdx]))
	if !ok || !overflowBounds[boundVal] {
		return overflowCollapse{}, false
	}

	ifIdx := nextCodeLine(statements, boundIdx+1)
	if ifIdx < 0 {
		return overflowCollapse{}, false
	}
	line3 := strings.TrimSpace(statements[ifIdx])
	if !strings.HasPrefix(line3, "if ") || !strings.HasSuffix(line3, "{") {
		return overflowCollapse{}, false
	}
	dupVar, _, _ := parseLetAssignment(strings.TrimSpace(statements[dupIdx]))
	if !strings.Contains(line3, dupVar+" <") && !strings.Contains(line3, dupVar+" ==") {
		return overflowCollapse{}, false
	}

	end := blockEnd(statements, ifIdx)
	if end < 0 {
		return overflowCollapse{}, false
	}

	isChecked := false
	if firstBody := nextCodeLine(statements, ifIdx+1); firstBody >= 0 {
		isChecked = strings.HasPrefix(strings.TrimSpace(statements[firstBody]), "throw(")
	}

	return overflowCollapse{
		opLine:    idx,
		expr:      expr,
		resultVar: resultVar,
		blankFrom: idx + 1,
		blankTo:   end,
		isChecked: isChecked,
	}, true
}

func applyOverflowCollapse(statements []string, c overflowCollapse) {
	indent := leadingWhitespace(statements[c.opLine])
	if c.isChecked {
		statements[c.opLine] = fmt.Sprintf("%slet %s = checked(%s);", indent, c.resultVar, c.expr)
	}
	for i := c.blankFrom; i <= c.blankTo && i < len(statements); i++ {
		statements[i] = ""
	}
	if !c.isChecked {
		fixupDownstreamReference(statements, c.blankTo+1, c.resultVar)
	}
}

func fixupDownstreamReference(statements []string, start int, resultVar string) {
	idx := nextCodeLine(statements, start)
	if idx < 0 {
		return
	}
	line := strings.TrimSpace(statements[idx])
	if strings.HasPrefix(line, "let ") || strings.HasPrefix(line, "if ") || strings.HasPrefix(line, "//") {
		return
	}
	lhs, rhs, ok := parseBareAssignment(line)
	if !ok {
		return
	}
	if rhs != resultVar && isTempIdentifier(rhs) {
		indent := leadingWhitespace(statements[idx])
		statements[idx] = fmt.Sprintf("%s%s = %s;", indent, lhs, resultVar)
	}
}
