package emitter

import (
	"regexp"
	"strconv"
	"strings"
)

// The post-processing passes in this package operate on the flat
// []string produced by the structurer, the same representation the
// two retrieved reference passes (overflow-check collapsing and
// switch-statement rewriting) were ported from. These helpers are
// shared line-inspection primitives used by more than one pass.

var tempIdentifierRE = regexp.MustCompile(`^t[0-9]+$`)

// isTempIdentifier reports whether s is a structurer-minted temporary
// name (t0, t1, t2, ...), as opposed to a named local or parameter.
func isTempIdentifier(s string) bool {
	return tempIdentifierRE.MatchString(strings.TrimSpace(s))
}

var letAssignRE = regexp.MustCompile(`^let\s+([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.+);$`)

// parseLetAssignment splits `let NAME = EXPR;` into (NAME, EXPR, true).
func parseLetAssignment(line string) (name, expr string, ok bool) {
	m := letAssignRE.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

var bareAssignRE = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.\[\]]*)\s*=\s*(.+);$`)

// parseBareAssignment splits `TARGET = EXPR;` (no `let`) into
// (TARGET, EXPR, true); used for fixing up dangling references to a
// variable a prior pass collapsed away.
func parseBareAssignment(line string) (target, expr string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "let ") {
		return "", "", false
	}
	m := bareAssignRE.FindStringSubmatch(trimmed)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// leadingWhitespace returns the run of leading spaces/tabs of line.
func leadingWhitespace(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}

// nextCodeLine returns the index of the next non-blank line at or
// after from, or -1 if there is none.
func nextCodeLine(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			return i
		}
	}
	return -1
}

// previousCodeLine returns the index of the nearest non-blank line
// strictly before from, or -1 if there is none.
func previousCodeLine(lines []string, from int) int {
	for i := from - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return i
		}
	}
	return -1
}

// findMatchingBrace returns the index of the line holding the "}" that
// matches the "{" opened at openIdx, counting only lines that end in
// "{" as opens and lines that are (or start with) "}" as closes, and
// skipping blank/comment lines in between.
func findMatchingBrace(lines []string, openIdx int) int {
	depth := 1
	for i := openIdx + 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		if strings.HasSuffix(trimmed, "{") {
			depth++
		}
		if trimmed == "}" || strings.HasPrefix(trimmed, "} ") {
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// blockEnd finds the end of the brace-delimited block opened at
// openIdx, then extends over a trailing "else {"/"} else {"
// continuation if present, returning the index of the final closing
// brace line.
func blockEnd(lines []string, openIdx int) int {
	end := findMatchingBrace(lines, openIdx)
	if end < 0 {
		return -1
	}
	next := nextCodeLine(lines, end+1)
	if next >= 0 {
		trimmed := strings.TrimSpace(lines[next])
		if trimmed == "else {" || trimmed == "} else {" {
			if closed := findMatchingBrace(lines, next); closed >= 0 {
				end = closed
			}
		}
	}
	return end
}

// parseIntLiteral parses a pseudocode integer literal (decimal or the
// hex form emitted for byte-array/hash literals) as produced by
// literalString.
func parseIntLiteral(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return 0, false
		}
		return int64(v), true
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// isLiteral reports whether expr looks like a literal this package
// would have produced (an integer, hex blob, quoted string, true,
// false or null) rather than a variable reference or call.
func isLiteral(expr string) bool {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return false
	}
	switch expr {
	case "true", "false", "null":
		return true
	}
	if strings.HasPrefix(expr, `"`) && strings.HasSuffix(expr, `"`) && len(expr) >= 2 {
		return true
	}
	if strings.HasPrefix(expr, "0x") && len(expr) > 2 {
		for _, c := range expr[2:] {
			if !isHexDigit(byte(c)) {
				return false
			}
		}
		return true
	}
	_, ok := parseIntLiteral(expr)
	return ok
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// isIfOpen reports whether line is a plain `if COND {` header (not an
// `else if` continuation and not the inline guarded-goto form).
func isIfOpen(line string) bool {
	line = strings.TrimSpace(line)
	return strings.HasPrefix(line, "if ") && strings.HasSuffix(line, "{") && !strings.Contains(line, "{ goto ")
}

// isElseIfOpen reports whether line is an `else if COND {` or
// `} else if COND {` continuation.
func isElseIfOpen(line string) bool {
	line = strings.TrimSpace(line)
	return (strings.HasPrefix(line, "else if ") || strings.HasPrefix(line, "} else if ")) && strings.HasSuffix(line, "{")
}

// isElseOpen reports whether line is a plain `else {` or `} else {`.
func isElseOpen(line string) bool {
	line = strings.TrimSpace(line)
	return line == "else {" || line == "} else {"
}

// extractAnyIfCondition pulls COND out of `if COND {` or
// `[} ]else if COND {`.
func extractAnyIfCondition(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasSuffix(line, "{") {
		return "", false
	}
	body := strings.TrimSuffix(line, "{")
	body = strings.TrimSpace(body)
	switch {
	case strings.HasPrefix(body, "} else if "):
		return strings.TrimSpace(strings.TrimPrefix(body, "} else if ")), true
	case strings.HasPrefix(body, "else if "):
		return strings.TrimSpace(strings.TrimPrefix(body, "else if ")), true
	case strings.HasPrefix(body, "if "):
		return strings.TrimSpace(strings.TrimPrefix(body, "if ")), true
	}
	return "", false
}

// parseAssignment parses either `let LHS = RHS;` or a bare
// `LHS = RHS;` and returns (lhs, rhs, true).
func parseAssignment(line string) (lhs, rhs string, ok bool) {
	if l, r, ok := parseLetAssignment(line); ok {
		return l, r, true
	}
	return parseBareAssignment(line)
}
