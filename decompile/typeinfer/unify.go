package typeinfer

import "github.com/mna/neodec/decompile/types"

// resolve follows the substitution chain to a fixpoint (§4.5.1). The
// chain is cycle-free by construction: unify's occurs check rejects any
// binding that would create one.
func (c *Context) resolve(t types.Type) types.Type {
	v, ok := t.(types.Variable)
	if !ok {
		return t
	}
	bound, ok := c.Bindings[v]
	if !ok {
		return t
	}
	return c.resolve(bound)
}

// occurs reports whether the variable v appears anywhere inside t,
// following existing bindings, preventing the construction of an
// infinite type.
func (c *Context) occurs(v types.Variable, t types.Type) bool {
	switch tt := t.(type) {
	case types.Variable:
		if tt == v {
			return true
		}
		if bound, ok := c.Bindings[tt]; ok {
			return c.occurs(v, bound)
		}
		return false
	case types.Array:
		return c.occurs(v, tt.Inner)
	case types.Map:
		return c.occurs(v, tt.Key) || c.occurs(v, tt.Value)
	case types.Nullable:
		return c.occurs(v, tt.Inner)
	case types.Pointer:
		return c.occurs(v, tt.Inner)
	case types.Function:
		for _, p := range tt.Params {
			if c.occurs(v, p) {
				return true
			}
		}
		if tt.Return != nil {
			return c.occurs(v, tt.Return)
		}
		return false
	case types.Generic:
		for _, p := range tt.Params {
			if c.occurs(v, p) {
				return true
			}
		}
		return false
	case types.Struct:
		for _, f := range tt.Fields {
			if c.occurs(v, f.Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// typesEqual compares two types structurally. Type is an interface and
// several variants (Union, Function, Generic, Struct) hold slices, which
// makes the built-in == operator panic at runtime instead of comparing;
// every type comparison in this package goes through typesEqual instead.
func typesEqual(a, b types.Type) bool {
	switch av := a.(type) {
	case types.Array:
		bv, ok := b.(types.Array)
		return ok && typesEqual(av.Inner, bv.Inner)
	case types.Map:
		bv, ok := b.(types.Map)
		return ok && typesEqual(av.Key, bv.Key) && typesEqual(av.Value, bv.Value)
	case types.Nullable:
		bv, ok := b.(types.Nullable)
		return ok && typesEqual(av.Inner, bv.Inner)
	case types.Pointer:
		bv, ok := b.(types.Pointer)
		return ok && typesEqual(av.Inner, bv.Inner)
	case types.Function:
		bv, ok := b.(types.Function)
		if !ok || len(av.Params) != len(bv.Params) {
			return false
		}
		for i := range av.Params {
			if !typesEqual(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return typesEqual(av.Return, bv.Return)
	case types.Generic:
		bv, ok := b.(types.Generic)
		if !ok || av.Base != bv.Base || len(av.Params) != len(bv.Params) {
			return false
		}
		for i := range av.Params {
			if !typesEqual(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return true
	case types.Struct:
		bv, ok := b.(types.Struct)
		if !ok || av.Name != bv.Name || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for i := range av.Fields {
			if av.Fields[i].Name != bv.Fields[i].Name || av.Fields[i].Optional != bv.Fields[i].Optional {
				return false
			}
			if !typesEqual(av.Fields[i].Type, bv.Fields[i].Type) {
				return false
			}
		}
		return true
	case types.Union:
		bv, ok := b.(types.Union)
		if !ok || len(av.Members) != len(bv.Members) {
			return false
		}
		for i := range av.Members {
			if !typesEqual(av.Members[i], bv.Members[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// isCompatible is the compatibility predicate of §4.5.3: two ground
// types that are not structurally unifiable may still be unified by
// choosing the more specific one.
func isCompatible(a, b types.Type) bool {
	if _, ok := a.(types.Unknown); ok {
		return true
	}
	if _, ok := b.(types.Unknown); ok {
		return true
	}
	if _, ok := a.(types.Any); ok {
		return true
	}
	if _, ok := b.(types.Any); ok {
		return true
	}
	if typesEqual(a, b) {
		return true
	}

	if isByteStringOrInteger(a) && isByteStringOrInteger(b) {
		return true
	}
	if isBufferOrByteString(a) && isBufferOrByteString(b) {
		return true
	}

	if u, ok := a.(types.Union); ok {
		for _, m := range u.Members {
			if isCompatible(m, b) {
				return true
			}
		}
	}
	if u, ok := b.(types.Union); ok {
		for _, m := range u.Members {
			if isCompatible(a, m) {
				return true
			}
		}
	}

	if n, ok := a.(types.Nullable); ok {
		return isCompatible(n.Inner, b)
	}
	if n, ok := b.(types.Nullable); ok {
		return isCompatible(a, n.Inner)
	}

	return false
}

func isByteStringOrInteger(t types.Type) bool {
	switch t.(type) {
	case types.ByteString, types.Integer:
		return true
	default:
		return false
	}
}

func isBufferOrByteString(t types.Type) bool {
	switch t.(type) {
	case types.Buffer, types.ByteString:
		return true
	default:
		return false
	}
}

// moreSpecific picks the more informative of two compatible ground
// types, preferring a concrete type over Unknown/Any/a type variable.
func moreSpecific(a, b types.Type) types.Type {
	if _, ok := a.(types.Unknown); ok {
		return b
	}
	if _, ok := b.(types.Unknown); ok {
		return a
	}
	if _, ok := a.(types.Any); ok {
		return b
	}
	if _, ok := b.(types.Any); ok {
		return a
	}
	if _, ok := a.(types.Variable); ok {
		return b
	}
	if _, ok := b.(types.Variable); ok {
		return a
	}
	return a
}

// unify performs syntactic unification of t1 and t2 with an occurs
// check (§4.5.3), updating the substitution map as needed. It reports
// whether the call changed any binding.
func (c *Context) unify(t1, t2 types.Type) (bool, *TypeError) {
	r1 := c.resolve(t1)
	r2 := c.resolve(t2)

	if typesEqual(r1, r2) {
		return false, nil
	}

	v1, isVar1 := r1.(types.Variable)
	v2, isVar2 := r2.(types.Variable)

	switch {
	case isVar1 && isVar2:
		if v1 != v2 {
			c.Bindings[v1] = r2
			return true, nil
		}
		return false, nil

	case isVar1:
		if c.occurs(v1, r2) {
			return false, &TypeError{Kind: InfiniteType}
		}
		c.Bindings[v1] = r2
		return true, nil

	case isVar2:
		if c.occurs(v2, r1) {
			return false, &TypeError{Kind: InfiniteType}
		}
		c.Bindings[v2] = r1
		return true, nil
	}

	a1, ok1 := r1.(types.Array)
	a2, ok2 := r2.(types.Array)
	if ok1 && ok2 {
		return c.unify(a1.Inner, a2.Inner)
	}

	m1, okm1 := r1.(types.Map)
	m2, okm2 := r2.(types.Map)
	if okm1 && okm2 {
		keyChanged, err := c.unify(m1.Key, m2.Key)
		if err != nil {
			return false, err
		}
		valChanged, err := c.unify(m1.Value, m2.Value)
		if err != nil {
			return false, err
		}
		return keyChanged || valChanged, nil
	}

	n1, okn1 := r1.(types.Nullable)
	n2, okn2 := r2.(types.Nullable)
	if okn1 && okn2 {
		return c.unify(n1.Inner, n2.Inner)
	}

	if isCompatible(r1, r2) {
		unified := moreSpecific(r1, r2)
		changed := false
		if uv, ok := r1.(types.Variable); ok && !typesEqual(unified, r1) {
			c.Bindings[uv] = unified
			changed = true
		}
		if uv, ok := r2.(types.Variable); ok && !typesEqual(unified, r2) {
			c.Bindings[uv] = unified
			changed = true
		}
		return changed, nil
	}

	return false, &TypeError{Kind: UnificationFailure, T1: r1, T2: r2}
}
