package typeinfer

import (
	"sort"

	"github.com/mna/neodec/decompile/types"
)

// CommonSupertype merges two types for branch-join inference (§4.5.5):
// identical types merge to themselves; arrays and maps are covariant in
// their element types; a nullable absorbs the null-ness of its non-null
// counterpart; anything else falls back to Any.
func (c *Context) CommonSupertype(t1, t2 types.Type) types.Type {
	r1 := c.resolve(t1)
	r2 := c.resolve(t2)

	if typesEqual(r1, r2) {
		return r1
	}

	switch a := r1.(type) {
	case types.Array:
		if b, ok := r2.(types.Array); ok {
			return types.Array{Inner: c.CommonSupertype(a.Inner, b.Inner)}
		}
	case types.Map:
		if b, ok := r2.(types.Map); ok {
			return types.Map{Key: c.CommonSupertype(a.Key, b.Key), Value: c.CommonSupertype(a.Value, b.Value)}
		}
	case types.Nullable:
		return types.Nullable{Inner: c.CommonSupertype(a.Inner, r2)}
	case types.Union:
		if b, ok := r2.(types.Union); ok {
			return unionOf(append(append([]types.Type(nil), a.Members...), b.Members...))
		}
		return unionOf(append(append([]types.Type(nil), a.Members...), r2))
	}

	if b, ok := r2.(types.Nullable); ok {
		return types.Nullable{Inner: c.CommonSupertype(r1, b.Inner)}
	}
	if b, ok := r2.(types.Union); ok {
		return unionOf(append(append([]types.Type(nil), b.Members...), r1))
	}

	return types.Any{}
}

// unionOf builds a Union from members, dedup-sorted by textual
// representation (§4.5.5).
func unionOf(members []types.Type) types.Type {
	dedup := make([]types.Type, 0, len(members))
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		key := m.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		dedup = append(dedup, m)
	}
	sort.Slice(dedup, func(i, j int) bool { return dedup[i].String() < dedup[j].String() })
	if len(dedup) == 1 {
		return dedup[0]
	}
	return types.Union{Members: dedup}
}
