package typeinfer

import (
	"github.com/mna/neodec/decompile/ir"
	"github.com/mna/neodec/decompile/types"
)

// CollectFunctionConstraints seeds the variable-type table from every
// declared parameter and local (§4.5.2: "parameter and local variable
// constraints"). Every declared variable is seeded; one whose current
// Type is still Unknown is seeded with a fresh type variable, so later
// constraints can narrow it. A later read of a declared variable is not
// an undefined-variable error — only a reference to a name no parameter
// or local ever declared is.
func (c *Context) CollectFunctionConstraints(fn *ir.Function) {
	seed := func(v *ir.Variable) {
		if isUnknown(v.Type) {
			c.SetVariableType(v.Name, c.FreshTypeVar())
			return
		}
		c.SetVariableType(v.Name, v.Type)
	}
	for _, p := range fn.Params {
		seed(p)
	}
	for _, l := range fn.Locals {
		seed(l)
	}
}

// CollectBlockConstraints walks every block's operations in deterministic
// block order, generating constraints for each (§4.5.2).
func (c *Context) CollectBlockConstraints(fn *ir.Function) {
	for _, id := range fn.SortedBlockIDs() {
		b := fn.Blocks[id]
		for _, op := range b.Ops {
			c.collectOperation(op)
		}
		c.collectTerminator(fn, b.Terminator)
	}
}

// collectTerminator adds the one terminator-level constraint the §4.5.2
// traversal cares about: a returned value must be a subtype of the
// function's declared return type, which is how a nullable return type
// is reconciled against a branch that returns a concrete non-null value.
func (c *Context) collectTerminator(fn *ir.Function, term ir.Terminator) {
	ret, ok := term.(ir.ReturnTerm)
	if !ok || ret.Value == nil || fn.ReturnType == nil || isUnknown(fn.ReturnType) {
		return
	}
	valueType := c.inferExpressionType(ret.Value)
	c.AddConstraint(Subtype{Sub: valueType, Sup: fn.ReturnType})
}

func isUnknown(t types.Type) bool {
	if t == nil {
		return true
	}
	_, ok := t.(types.Unknown)
	return ok
}

func (c *Context) collectOperation(op ir.Operation) {
	switch o := op.(type) {
	case ir.Assign:
		sourceType := c.inferExpressionType(o.Value)
		target := c.FreshTypeVar()
		c.AddConstraint(Equal{T1: target, T2: sourceType})
		c.SetVariableType(o.Target.Name, target)

	case ir.Arithmetic:
		leftType := c.inferExpressionType(o.Left)
		rightType := c.inferExpressionType(o.Right)
		resultType := binaryResultType(c.resolve(leftType), c.resolve(rightType))
		c.AddConstraint(SupportsOperation{T: leftType, Op: o.Op})
		c.AddConstraint(SupportsOperation{T: rightType, Op: o.Op})
		c.SetVariableType(o.Target.Name, resultType)

	case ir.Unary:
		operandType := c.inferExpressionType(o.Operand)
		resultType := unaryResultType(o.Op, c.resolve(operandType))
		c.SetVariableType(o.Target.Name, resultType)

	case ir.Syscall:
		if o.Target != nil {
			resultType := o.ReturnType
			if resultType == nil {
				resultType = types.Unknown{}
			}
			c.SetVariableType(o.Target.Name, resultType)
		}

		sig, haveSig := c.SyscallTypes[o.Name]
		for i, arg := range o.Args {
			argType := c.inferExpressionType(arg)
			if haveSig && i < len(sig.Params) {
				c.AddConstraint(Equal{T1: argType, T2: sig.Params[i]})
			}
		}
		if haveSig && o.Target != nil && sig.ReturnType != nil {
			c.AddConstraint(Equal{T1: c.mustVariableType(o.Target.Name), T2: sig.ReturnType})
		}

	case ir.ContractCall:
		if o.Target != nil {
			c.SetVariableType(o.Target.Name, types.Unknown{})
		}
		for _, arg := range o.Args {
			c.inferExpressionType(arg)
		}

	case ir.Storage:
		if o.Target != nil {
			resultType := types.Type(types.Unknown{})
			if o.Op == ir.StorageGet {
				resultType = types.Nullable{Inner: types.ByteString{}}
			}
			c.SetVariableType(o.Target.Name, resultType)
		}

	case ir.Convert:
		if o.Target != nil {
			c.SetVariableType(o.Target.Name, stackItemTypeToType(o.To))
		}
		c.inferExpressionType(o.Value)

	case ir.BuiltinCall:
		if o.Target != nil {
			c.SetVariableType(o.Target.Name, types.Unknown{})
		}
		for _, arg := range o.Args {
			c.inferExpressionType(arg)
		}

	case ir.ArrayOp:
		c.collectArrayOp(o)

	case ir.MapOp:
		if o.Target != nil {
			rt := types.Type(types.Unknown{})
			if o.Tag == ir.MapHasKey {
				rt = types.Boolean{}
			}
			c.SetVariableType(o.Target.Name, rt)
		}

	case ir.StringOp:
		if o.Target != nil {
			c.SetVariableType(o.Target.Name, types.ByteString{})
		}

	case ir.TypeCheck:
		if o.Result != nil {
			c.SetVariableType(o.Result.Name, types.Boolean{})
		}

	default:
		// Stack, Throw, Assert, Abort, Comment and Effect generate no
		// constraints.
	}
}

func (c *Context) collectArrayOp(o ir.ArrayOp) {
	if o.Target == nil {
		for _, arg := range o.Operands {
			c.inferExpressionType(arg)
		}
		return
	}
	var rt types.Type = types.Unknown{}
	switch o.Tag {
	case ir.ArrayPickItem:
		if len(o.Operands) > 0 {
			containerType := c.inferExpressionType(o.Operands[0])
			elem := c.FreshTypeVar()
			index := types.Type(types.Integer{})
			if len(o.Operands) > 1 {
				index = c.inferExpressionType(o.Operands[1])
			}
			c.AddConstraint(Indexable{Container: containerType, Index: index, Element: elem})
			rt = elem
		}
	case ir.ArraySize:
		rt = types.Integer{}
	case ir.ArrayPopItem:
		rt = types.Unknown{}
	}
	c.SetVariableType(o.Target.Name, rt)
}

func (c *Context) mustVariableType(name string) types.Type {
	if t, ok := c.VariableType(name); ok {
		return t
	}
	return types.Unknown{}
}

// inferExpressionType infers the type of expr, generating constraints for
// its subexpressions (§4.5.2's expression-level rules, mirrored from the
// statement-level rules above).
func (c *Context) inferExpressionType(expr ir.Expression) types.Type {
	switch e := expr.(type) {
	case *ir.VariableExpr:
		if t, ok := c.VariableType(e.Var.Name); ok {
			return t
		}
		c.AddError(&TypeError{Kind: UndefinedVariable, Name: e.Var.Name})
		fresh := c.FreshTypeVar()
		c.SetVariableType(e.Var.Name, fresh)
		return fresh

	case *ir.LiteralExpr:
		return literalType(e)

	case *ir.BinaryExpr:
		left := c.inferExpressionType(e.Left)
		right := c.inferExpressionType(e.Right)
		return binaryResultType(c.resolve(left), c.resolve(right))

	case *ir.UnaryExpr:
		operand := c.inferExpressionType(e.Operand)
		return unaryResultType(e.Op, c.resolve(operand))

	case *ir.CallExpr:
		for _, a := range e.Args {
			c.inferExpressionType(a)
		}
		if sig, ok := c.SyscallTypes[e.Function]; ok && sig.ReturnType != nil {
			return sig.ReturnType
		}
		return types.Any{}

	case *ir.FieldExpr:
		objType := c.inferExpressionType(e.Value)
		fieldType := c.FreshTypeVar()
		c.AddConstraint(HasField{T: objType, Name: e.Field, FieldType: fieldType})
		return fieldType

	case *ir.IndexExpr:
		containerType := c.inferExpressionType(e.Container)
		indexType := c.inferExpressionType(e.Index)
		elemType := c.FreshTypeVar()
		c.AddConstraint(Indexable{Container: containerType, Index: indexType, Element: elemType})
		return elemType

	case *ir.CastExpr:
		sourceType := c.inferExpressionType(e.Value)
		c.AddConstraint(Convertible{From: sourceType, To: e.To})
		return e.To

	case *ir.ArrayLiteralExpr:
		if len(e.Elements) == 0 {
			return types.Array{Inner: types.Unknown{}}
		}
		elem := c.inferExpressionType(e.Elements[0])
		for _, el := range e.Elements[1:] {
			t := c.inferExpressionType(el)
			elem = c.CommonSupertype(elem, t)
		}
		return types.Array{Inner: elem}

	case *ir.MapLiteralExpr:
		var keyType, valType types.Type = types.Unknown{}, types.Unknown{}
		for i := range e.Keys {
			kt := c.inferExpressionType(e.Keys[i])
			vt := c.inferExpressionType(e.Values[i])
			if i == 0 {
				keyType, valType = kt, vt
			} else {
				keyType = c.CommonSupertype(keyType, kt)
				valType = c.CommonSupertype(valType, vt)
			}
		}
		return types.Map{Key: keyType, Value: valType}

	case *ir.StructLiteralExpr:
		fields := make([]types.StructField, len(e.Fields))
		for i, f := range e.Fields {
			ft := c.inferExpressionType(f)
			fields[i] = types.StructField{Name: structFieldName(i), Type: ft}
		}
		return types.Struct{Name: e.Name, Fields: fields}

	case *ir.ArrayCreateExpr:
		if e.Count != nil {
			c.inferExpressionType(e.Count)
		}
		for _, el := range e.Elements {
			c.inferExpressionType(el)
		}
		elem := types.Type(types.Unknown{})
		if e.ElementType != nil {
			elem = e.ElementType
		}
		return types.Array{Inner: elem}

	case *ir.MapCreateExpr:
		return types.Map{Key: types.Unknown{}, Value: types.Unknown{}}

	case *ir.StructCreateExpr:
		if e.Count != nil {
			c.inferExpressionType(e.Count)
		}
		return types.Struct{}

	default:
		return types.Unknown{}
	}
}

func structFieldName(i int) string {
	return ir.NewVariable(0, ir.Local, i).Name
}

func literalType(lit *ir.LiteralExpr) types.Type {
	switch lit.Kind {
	case ir.LitBoolean:
		return types.Boolean{}
	case ir.LitInteger, ir.LitBigInteger:
		return types.Integer{}
	case ir.LitString:
		return types.ByteString{}
	case ir.LitByteArray:
		return types.ByteString{}
	case ir.LitHash160:
		return types.Hash160{}
	case ir.LitHash256:
		return types.Hash256{}
	case ir.LitNull:
		return types.Null{}
	default:
		return types.Unknown{}
	}
}

func stackItemTypeToType(st ir.StackItemType) types.Type {
	switch st {
	case ir.TypeBoolean:
		return types.Boolean{}
	case ir.TypeInteger:
		return types.Integer{}
	case ir.TypeByteString:
		return types.ByteString{}
	case ir.TypeBuffer:
		return types.Buffer{}
	case ir.TypeArray, ir.TypeStruct:
		return types.Array{Inner: types.Unknown{}}
	case ir.TypeMap:
		return types.Map{Key: types.Unknown{}, Value: types.Unknown{}}
	default:
		return types.Unknown{}
	}
}
