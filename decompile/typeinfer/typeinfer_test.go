package typeinfer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/neodec/decompile/ir"
	"github.com/mna/neodec/decompile/typeinfer"
	"github.com/mna/neodec/decompile/types"
)

func singleBlockFunction(name string) *ir.Function {
	fn := ir.NewFunction(name)
	fn.Block(0).Terminator = ir.ReturnTerm{}
	fn.Entry = 0
	fn.Exits = []ir.BlockID{0}
	return fn
}

func TestAssignPropagatesLiteralType(t *testing.T) {
	fn := singleBlockFunction("assign")
	target := ir.NewVariable(0, ir.Local, 0)
	fn.Locals = append(fn.Locals, target)
	fn.Block(0).Ops = []ir.Operation{ir.Assign{Target: target, Value: ir.IntLiteral(42)}}

	eng := typeinfer.NewEngine(nil)
	meta := eng.Infer(fn)

	require.Empty(t, meta.Errors)
	require.IsType(t, types.Integer{}, target.Type)
}

func TestArithmeticRequiresIntegerOperands(t *testing.T) {
	fn := singleBlockFunction("arith")
	left := ir.NewVariable(0, ir.Local, 0)
	left.Type = types.Integer{}
	right := ir.NewVariable(1, ir.Local, 1)
	right.Type = types.Integer{}
	target := ir.NewVariable(2, ir.Local, 2)
	fn.Locals = append(fn.Locals, left, right, target)
	fn.Block(0).Ops = []ir.Operation{
		ir.Arithmetic{Op: ir.Add, Left: ir.Ref(left), Right: ir.Ref(right), Target: target},
	}

	eng := typeinfer.NewEngine(nil)
	meta := eng.Infer(fn)

	require.Empty(t, meta.Errors)
	require.IsType(t, types.Integer{}, target.Type)
}

func TestConvertOperationSetsStackItemType(t *testing.T) {
	fn := singleBlockFunction("convert")
	src := ir.NewVariable(0, ir.Local, 0)
	target := ir.NewVariable(1, ir.Local, 1)
	fn.Locals = append(fn.Locals, src, target)
	fn.Block(0).Ops = []ir.Operation{
		ir.Convert{Value: ir.Ref(src), To: ir.TypeInteger, Target: target},
	}

	eng := typeinfer.NewEngine(nil)
	eng.Infer(fn)

	require.IsType(t, types.Integer{}, target.Type)
}

func TestUndefinedVariableRecordsError(t *testing.T) {
	fn := singleBlockFunction("undefined")
	ghost := ir.NewVariable(99, ir.Local, 99)
	target := ir.NewVariable(0, ir.Local, 0)
	fn.Locals = append(fn.Locals, target)
	fn.Block(0).Ops = []ir.Operation{
		ir.Assign{Target: target, Value: ir.Ref(ghost)},
	}

	eng := typeinfer.NewEngine(nil)
	meta := eng.Infer(fn)

	require.NotEmpty(t, meta.Errors)
	require.Equal(t, typeinfer.UndefinedVariable, meta.Errors[0].Kind)
}

type fakeSignatures struct {
	sigs map[string]typeinfer.Signature
}

func (f *fakeSignatures) ByName(name string) (typeinfer.Signature, bool) {
	s, ok := f.sigs[name]
	return s, ok
}

func TestSyscallArgumentConstraintFromLookup(t *testing.T) {
	fn := singleBlockFunction("syscall")
	arg := ir.NewVariable(0, ir.Local, 0)
	result := ir.NewVariable(1, ir.Local, 1)
	fn.Locals = append(fn.Locals, arg, result)
	fn.Block(0).Ops = []ir.Operation{
		ir.Syscall{
			Name:       "System.Storage.Put",
			Args:       []ir.Expression{ir.Ref(arg)},
			ReturnType: types.Null{},
			Target:     result,
		},
	}

	lookup := &fakeSignatures{sigs: map[string]typeinfer.Signature{
		"System.Storage.Put": {
			Name:   "System.Storage.Put",
			Params: []types.Type{types.ByteString{}},
		},
	}}

	eng := typeinfer.NewEngine(lookup)
	meta := eng.Infer(fn)

	require.Empty(t, meta.Errors)
	require.IsType(t, types.ByteString{}, arg.Type)
	require.Contains(t, meta.ReferencedCalls, "System.Storage.Put")
}

func TestCommonSupertypeMergesArrays(t *testing.T) {
	ctx := typeinfer.NewContext()
	merged := ctx.CommonSupertype(types.Array{Inner: types.Integer{}}, types.Array{Inner: types.Integer{}})
	require.Equal(t, types.Array{Inner: types.Integer{}}, merged)
}

func TestCommonSupertypeFallsBackToAny(t *testing.T) {
	ctx := typeinfer.NewContext()
	merged := ctx.CommonSupertype(types.Integer{}, types.Boolean{})
	require.IsType(t, types.Any{}, merged)
}

func TestUnknownVariableStaysUnknownWithoutConstraints(t *testing.T) {
	fn := singleBlockFunction("idle")
	v := ir.NewVariable(0, ir.Local, 0)
	fn.Locals = append(fn.Locals, v)

	eng := typeinfer.NewEngine(nil)
	eng.Infer(fn)

	require.IsType(t, types.Unknown{}, v.Type)
}

func TestIndexableConstraintResolvesElementType(t *testing.T) {
	fn := singleBlockFunction("index")
	arr := ir.NewVariable(0, ir.Local, 0)
	arr.Type = types.Array{Inner: types.Integer{}}
	target := ir.NewVariable(1, ir.Local, 1)
	fn.Locals = append(fn.Locals, arr, target)
	fn.Block(0).Ops = []ir.Operation{
		ir.Assign{
			Target: target,
			Value:  &ir.IndexExpr{Container: ir.Ref(arr), Index: ir.IntLiteral(0)},
		},
	}

	eng := typeinfer.NewEngine(nil)
	meta := eng.Infer(fn)

	require.Empty(t, meta.Errors)
	require.IsType(t, types.Integer{}, target.Type)
}
