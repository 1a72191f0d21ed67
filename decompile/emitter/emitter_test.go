package emitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/neodec/decompile/cfg"
	"github.com/mna/neodec/decompile/ir"
	"github.com/mna/neodec/decompile/types"
)

func TestExprStringRendersArithmetic(t *testing.T) {
	left := &ir.VariableExpr{Var: &ir.Variable{Name: "a"}}
	right := &ir.VariableExpr{Var: &ir.Variable{Name: "b"}}
	e := &ir.BinaryExpr{Op: ir.Add, Left: left, Right: right}
	require.Equal(t, "a + b", exprString(e))
}

func TestExprStringRendersLiterals(t *testing.T) {
	require.Equal(t, "true", exprString(&ir.LiteralExpr{Kind: ir.LitBoolean, Bool: true}))
	require.Equal(t, "42", exprString(&ir.LiteralExpr{Kind: ir.LitInteger, Int: 42}))
	require.Equal(t, "null", exprString(&ir.LiteralExpr{Kind: ir.LitNull}))
	require.Equal(t, `"hi"`, exprString(&ir.LiteralExpr{Kind: ir.LitString, Str: "hi"}))
}

func TestBigIntStringRoundTripsSmallValues(t *testing.T) {
	// 300 little-endian: 0x2C, 0x01
	require.Equal(t, "300", bigIntString([]byte{0x2C, 0x01}))
	require.Equal(t, "0", bigIntString(nil))
	require.Equal(t, "255", bigIntString([]byte{0xFF}))
}

func TestOpStringRendersAssignAndSyscall(t *testing.T) {
	target := &ir.Variable{Name: "t0"}
	assign := ir.Assign{Target: target, Value: &ir.LiteralExpr{Kind: ir.LitInteger, Int: 1}}
	require.Equal(t, "let t0 = 1;", opString(assign))

	call := ir.Syscall{Name: "System.Storage.Get", Args: []ir.Expression{&ir.VariableExpr{Var: &ir.Variable{Name: "ctx"}}}, Target: target}
	require.Equal(t, "let t0 = System.Storage.Get(ctx);", opString(call))
}

func TestCollapseOverflowChecksUnchecked(t *testing.T) {
	s := []string{
		"let t0 = a + b;",
		"let t1 = t0;",
		"let t2 = -2147483648;",
		"if t1 < t2 {",
		"goto label_0x001A;",
		"let t3 = t0;",
		"let t4 = 2147483647;",
		"if t3 > t4 {",
		"let t5 = 4294967295;",
		"let t6 = t0 & t5;",
		"}",
		"}",
	}
	out := collapseOverflowChecks(s)
	require.Equal(t, "let t0 = a + b;", out[0])
	for i := 1; i <= 11; i++ {
		require.Empty(t, out[i], "line %d should be blank", i)
	}
}

func TestCollapseOverflowChecksChecked(t *testing.T) {
	s := []string{
		"let t0 = a + b;",
		"let t1 = t0;",
		"let t2 = -2147483648;",
		"if t1 < t2 {",
		"throw(t0);",
		"let t3 = 2147483647;",
		"throw(t3);",
		"return;",
		"}",
	}
	out := collapseOverflowChecks(s)
	require.Equal(t, "let t0 = checked(a + b);", out[0])
	for i := 1; i <= 8; i++ {
		require.Empty(t, out[i], "line %d should be blank", i)
	}
}

func TestCollapseOverflowChecksDoesNotMatchUnrelatedIf(t *testing.T) {
	s := []string{
		"let t0 = a + b;",
		"let t1 = t0;",
		"let t2 = 42;",
		"if t1 < t2 {",
		"return t0;",
		"}",
	}
	original := append([]string(nil), s...)
	out := collapseOverflowChecks(s)
	require.Equal(t, original, out)
}

func TestCollapseOverflowChecksPreservesIndentation(t *testing.T) {
	s := []string{
		"        let t0 = a + b;",
		"        let t1 = t0;",
		"        let t2 = -2147483648;",
		"        if t1 < t2 {",
		"            throw(t0);",
		"        }",
	}
	out := collapseOverflowChecks(s)
	require.Equal(t, "        let t0 = checked(a + b);", out[0])
	for i := 1; i <= 5; i++ {
		require.Empty(t, out[i])
	}
}

func TestRewriteSwitchStatementsCollapsesElseIfChain(t *testing.T) {
	s := []string{
		"if x == 1 {",
		"foo();",
		"} else if x == 2 {",
		"bar();",
		"} else if x == 3 {",
		"baz();",
		"} else {",
		"qux();",
		"}",
	}
	out := rewriteSwitchStatements(s)
	joined := strings.Join(out, "\n")
	require.Contains(t, joined, "switch x {")
	require.Contains(t, joined, "case 1 {")
	require.Contains(t, joined, "case 2 {")
	require.Contains(t, joined, "case 3 {")
	require.Contains(t, joined, "default {")
}

func TestRewriteCompoundAssignmentsCollapsesSelfAdd(t *testing.T) {
	s := []string{"x = x + 1;"}
	out := rewriteCompoundAssignments(s)
	require.Equal(t, "x += 1;", out[0])
}

func TestRewriteElseIfChainsFlattensNestedIf(t *testing.T) {
	s := []string{
		"if a {",
		"foo();",
		"} else {",
		"if b {",
		"bar();",
		"}",
		"}",
	}
	out := rewriteElseIfChains(s)
	require.Equal(t, "} else if b {", out[2])
}

func TestEliminateStrayTempsInlinesImmediateUse(t *testing.T) {
	s := []string{
		"let t0 = a + b;",
		"let x = t0;",
	}
	out := eliminateStrayTemps(s)
	require.Equal(t, []string{"let x = a + b;"}, out)
}

// buildSimpleFunction constructs `fn f(a: Integer) -> Integer { if a > 0 {
// return a; } else { return 0; } }` directly in IR form.
func buildSimpleFunction(t *testing.T) (*ir.Function, *cfg.Graph) {
	t.Helper()
	fn := ir.NewFunction("f")
	param := &ir.Variable{Name: "a", Kind: ir.Parameter, Type: types.Integer{}}
	fn.Params = []*ir.Variable{param}
	fn.ReturnType = types.Integer{}
	fn.Entry = 0

	entry := fn.Block(0)
	entry.Terminator = ir.BranchTerm{
		Condition: &ir.BinaryExpr{Op: ir.Greater, Left: &ir.VariableExpr{Var: param}, Right: &ir.LiteralExpr{Kind: ir.LitInteger, Int: 0}},
		TrueBlk:   1,
		FalseBlk:  2,
	}

	trueBlk := fn.Block(1)
	trueBlk.Terminator = ir.ReturnTerm{Value: &ir.VariableExpr{Var: param}}

	falseBlk := fn.Block(2)
	falseBlk.Terminator = ir.ReturnTerm{Value: &ir.LiteralExpr{Kind: ir.LitInteger, Int: 0}}

	fn.Exits = []ir.BlockID{1, 2}
	fn.ComputePredecessors()

	graph, err := cfg.Build(fn, cfg.DefaultOptions())
	require.NoError(t, err)
	return fn, graph
}

func TestFunctionRendersIfElseFromBranch(t *testing.T) {
	fn, graph := buildSimpleFunction(t)
	out := Function(fn, graph)

	require.Contains(t, out, "fn f(a: Integer) -> Integer {")
	require.Contains(t, out, "if a > 0 {")
	require.Contains(t, out, "return a;")
	require.Contains(t, out, "} else {")
	require.Contains(t, out, "return 0;")
}

func TestContractWrapsFunctionsWhenNamed(t *testing.T) {
	fn, graph := buildSimpleFunction(t)
	out := Contract(Options{ContractName: "TestToken"}, []*ir.Function{fn}, []*cfg.Graph{graph})
	require.True(t, strings.HasPrefix(out, "contract TestToken {"))
	require.True(t, strings.HasSuffix(out, "}"))
}
