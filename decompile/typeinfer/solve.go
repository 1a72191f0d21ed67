package typeinfer

import "github.com/mna/neodec/decompile/types"

const maxSolveIterations = 100

// Solve runs the iterative fixpoint solver of §4.5.4: repeatedly walk the
// constraint list, discharging each, until no constraint changes the
// substitution or the iteration ceiling is hit.
func (c *Context) Solve() error {
	changed := true
	iteration := 0

	for changed && iteration < maxSolveIterations {
		changed = false
		iteration++

		for _, con := range c.Constraints {
			didChange, err := c.solveSingle(con)
			if err != nil {
				c.AddError(err)
				continue
			}
			if didChange {
				changed = true
			}
		}
		c.Stats.UnificationSteps++
	}

	if iteration >= maxSolveIterations && changed {
		err := &TypeError{Kind: ConstraintSolvingFailure, Reason: "max iterations exceeded"}
		c.AddError(err)
		c.Stats.ConstraintsSolved = len(c.Constraints)
		return err
	}

	c.Stats.ConstraintsSolved = len(c.Constraints)
	return nil
}

func (c *Context) solveSingle(con Constraint) (bool, *TypeError) {
	switch t := con.(type) {
	case Equal:
		return c.unify(t.T1, t.T2)

	case Subtype:
		sub := c.resolve(t.Sub)
		sup := c.resolve(t.Sup)
		if isSubtypeOf(sub, sup) {
			return false, nil
		}
		return c.unify(sub, sup)

	case SupportsOperation:
		resolved := c.resolve(t.T)
		if supportsOperation(resolved, t.Op) {
			return false, nil
		}
		compatible := operationCompatibleType(resolved, t.Op)
		return c.unify(resolved, compatible)

	case HasField:
		return c.solveHasField(t)

	case Indexable:
		return c.solveIndexable(t)

	case Convertible:
		from := c.resolve(t.From)
		to := c.resolve(t.To)
		if isConvertible(from, to) {
			return false, nil
		}
		return false, &TypeError{Kind: ConversionError, From: from, To: to}

	default:
		// Callable, Nullable and NonNull are not generated by collect.go,
		// and the solver takes no action on them.
		return false, nil
	}
}

func (c *Context) solveHasField(con HasField) (bool, *TypeError) {
	resolved := c.resolve(con.T)

	switch st := resolved.(type) {
	case types.Struct:
		for _, f := range st.Fields {
			if f.Name == con.Name {
				return c.unify(f.Type, con.FieldType)
			}
		}
		return false, &TypeError{
			Kind: FieldNotFound, TypeName: structName(st), FieldName: con.Name,
		}

	case types.Variable:
		synthesized := types.Struct{Fields: []types.StructField{{Name: con.Name, Type: con.FieldType}}}
		return c.unify(resolved, synthesized)

	default:
		return false, &TypeError{Kind: FieldNotFound, TypeName: resolved.String(), FieldName: con.Name}
	}
}

func structName(s types.Struct) string {
	if s.Name != "" {
		return s.Name
	}
	return "Anonymous"
}

func (c *Context) solveIndexable(con Indexable) (bool, *TypeError) {
	container := c.resolve(con.Container)
	index := c.resolve(con.Index)
	element := c.resolve(con.Element)

	switch ct := container.(type) {
	case types.Array:
		indexChanged, err := c.unify(index, types.Integer{})
		if err != nil {
			return false, err
		}
		elemChanged, err := c.unify(element, ct.Inner)
		if err != nil {
			return false, err
		}
		return indexChanged || elemChanged, nil

	case types.Map:
		keyChanged, err := c.unify(index, ct.Key)
		if err != nil {
			return false, err
		}
		valChanged, err := c.unify(element, ct.Value)
		if err != nil {
			return false, err
		}
		return keyChanged || valChanged, nil

	case types.Variable:
		var synthesized types.Type
		if _, ok := index.(types.Integer); ok {
			synthesized = types.Array{Inner: element}
		} else {
			synthesized = types.Map{Key: index, Value: element}
		}
		return c.unify(container, synthesized)

	default:
		return false, &TypeError{Kind: UnsupportedOperation, TypeName: container.String(), Operation: "indexing"}
	}
}

// isSubtypeOf mirrors §4.5's subtyping rules used by the Subtype
// constraint.
func isSubtypeOf(sub, sup types.Type) bool {
	if _, ok := sup.(types.Any); ok {
		return true
	}
	if _, ok := sub.(types.Never); ok {
		return true
	}
	if _, ok := sub.(types.Variable); ok {
		return true
	}
	if _, ok := sup.(types.Variable); ok {
		return true
	}
	if _, ok := sub.(types.Unknown); ok {
		return true
	}
	if _, ok := sup.(types.Unknown); ok {
		return true
	}
	if _, ok := sub.(types.Null); ok {
		if _, ok := sup.(types.Nullable); ok {
			return true
		}
	}
	if typesEqual(sub, sup) {
		return true
	}
	if a, ok := sub.(types.Array); ok {
		if b, ok := sup.(types.Array); ok {
			return isSubtypeOf(a.Inner, b.Inner)
		}
	}
	if m1, ok := sub.(types.Map); ok {
		if m2, ok := sup.(types.Map); ok {
			return isSubtypeOf(m1.Key, m2.Key) && isSubtypeOf(m1.Value, m2.Value)
		}
	}
	if u, ok := sub.(types.Union); ok {
		for _, m := range u.Members {
			if !isSubtypeOf(m, sup) {
				return false
			}
		}
		return true
	}
	if u, ok := sup.(types.Union); ok {
		for _, m := range u.Members {
			if isSubtypeOf(sub, m) {
				return true
			}
		}
		return false
	}
	return false
}

// isConvertible reports whether a value of type from may be explicitly
// cast to to (§4.5.2's Convertible constraint).
func isConvertible(from, to types.Type) bool {
	return isCompatible(from, to) || isSubtypeOf(from, to)
}
