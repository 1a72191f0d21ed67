package emitter

import (
	"fmt"
	"regexp"
	"strings"
)

// rewriteElseIfChains flattens `} else { if COND { ... } }` into
// `} else if COND { ... }` whenever the else-block's entire body is
// that one nested if (nothing before or after it). Must run before
// collapseOverflowChecks, since the overflow pattern's own if/else
// shape would otherwise confuse the nested-if search.
func rewriteElseIfChains(statements []string) []string {
	index := 0
	for index < len(statements) {
		elseLine := strings.TrimSpace(statements[index])
		if !isElseOpen(elseLine) {
			index++
			continue
		}
		innerIdx := nextCodeLine(statements, index+1)
		if innerIdx < 0 {
			index++
			continue
		}
		innerLine := strings.TrimSpace(statements[innerIdx])
		if !isIfOpen(innerLine) {
			index++
			continue
		}
		elseEnd := blockEnd(statements, index)
		innerEnd := blockEnd(statements, innerIdx)
		if elseEnd < 0 || innerEnd < 0 || nextCodeLine(statements, innerEnd+1) != elseEnd {
			index++
			continue
		}
		condition, ok := extractAnyIfCondition(innerLine)
		if !ok {
			index++
			continue
		}

		merged := fmt.Sprintf("} else if %s {", condition)
		out := make([]string, 0, len(statements))
		out = append(out, statements[:index]...)
		out = append(out, merged)
		out = append(out, statements[innerIdx+1:elseEnd]...)
		out = append(out, statements[elseEnd+1:]...)
		statements = out
		index++
	}
	return statements
}

var compoundOps = []string{"+", "-", "*", "/", "%", "&", "|", "^"}

// rewriteCompoundAssignments collapses `[let ]X = X OP Y;` into
// `X OP= Y;` for every closed binary operator. Must run after
// collapseOverflowChecks, which depends on seeing the raw `let` form.
func rewriteCompoundAssignments(statements []string) []string {
	for i, line := range statements {
		lhs, rhs, ok := parseAssignment(line)
		if !ok {
			continue
		}
		op, remainder, ok := splitLeadingSelfOperand(lhs, rhs)
		if !ok {
			continue
		}
		indent := leadingWhitespace(line)
		statements[i] = fmt.Sprintf("%s%s %s= %s;", indent, lhs, op, strings.TrimSpace(remainder))
	}
	return statements
}

// splitLeadingSelfOperand checks whether rhs has the shape
// `lhs OP rest` for one of the compound-eligible operators.
func splitLeadingSelfOperand(lhs, rhs string) (op, rest string, ok bool) {
	rhs = strings.TrimSpace(rhs)
	prefix := lhs + " "
	if !strings.HasPrefix(rhs, prefix) {
		return "", "", false
	}
	remainder := rhs[len(prefix):]
	for _, candidate := range compoundOps {
		opPrefix := candidate + " "
		if strings.HasPrefix(remainder, opPrefix) {
			return candidate, remainder[len(opPrefix):], true
		}
	}
	return "", "", false
}

var identifierRE = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// eliminateStrayTemps inlines a temporary that is defined on one line
// and referenced exactly once afterwards, in the very next statement.
// The inlined expression is parenthesized unless it becomes that
// statement's entire right-hand side — the common shape left behind after DUP-style stack
// lifting once the overflow-check wrapper around it has already been
// collapsed. Must run last: every earlier pass may introduce or
// remove the adjacency this one depends on.
func eliminateStrayTemps(statements []string) []string {
	out := make([]string, 0, len(statements))
	i := 0
	for i < len(statements) {
		name, expr, ok := parseLetAssignment(statements[i])
		if !ok || !isTempIdentifier(name) {
			out = append(out, statements[i])
			i++
			continue
		}
		next := nextCodeLine(statements, i+1)
		if next < 0 || !onlyReferenceIs(statements[i+1:], next-i-1, name) {
			out = append(out, statements[i])
			i++
			continue
		}
		indent := leadingWhitespace(statements[next])
		replacement := parenthesizeIfNeeded(expr)
		if _, rhs, ok := parseAssignment(statements[next]); ok && strings.TrimSpace(rhs) == name {
			replacement = strings.TrimSpace(expr)
		}
		rewritten := replaceWholeIdentifier(statements[next], name, replacement)
		out = append(out, indent+strings.TrimSpace(rewritten))
		for j := i + 1; j < next; j++ {
			out = append(out, statements[j])
		}
		i = next + 1
	}
	return out
}

// onlyReferenceIs reports whether name appears in line exactly once
// and nowhere else among the remaining statements.
func onlyReferenceIs(statements []string, line int, name string) bool {
	count := 0
	for i, s := range statements {
		n := countWholeIdentifier(s, name)
		if i == line {
			count += n
		} else if n > 0 {
			return false
		}
	}
	return count == 1
}

func countWholeIdentifier(line, name string) int {
	count := 0
	for _, m := range identifierRE.FindAllString(line, -1) {
		if m == name {
			count++
		}
	}
	return count
}

func replaceWholeIdentifier(line, name, replacement string) string {
	return identifierRE.ReplaceAllStringFunc(line, func(m string) string {
		if m == name {
			return replacement
		}
		return m
	})
}

func parenthesizeIfNeeded(expr string) string {
	expr = strings.TrimSpace(expr)
	if strings.ContainsAny(expr, " \t") && !strings.HasPrefix(expr, "(") {
		return "(" + expr + ")"
	}
	return expr
}
