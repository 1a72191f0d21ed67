// Package typeinfer implements the constraint-based type inference engine
// of §4.5: it walks a lifted ir.Function, generates typing constraints
// over its variables and expressions, solves them by unification with an
// occurs check, and writes the resolved types back onto the function in
// place.
package typeinfer

import "github.com/mna/neodec/decompile/types"

// Scope holds variable and local type bindings for one lexical level of
// the scope stack (§4.5.1). Only the function body has its own scope in
// this pipeline — there is no nested block scoping in the IR — but the
// stack shape is kept so a future per-block scope can be added without
// reshaping the context.
type Scope struct {
	Variables map[string]types.Type
	Types     map[string]types.Type
	ID        uint32
}

func newScope(id uint32) *Scope {
	return &Scope{Variables: make(map[string]types.Type), Types: make(map[string]types.Type), ID: id}
}

// Stats accumulates solver statistics for the exported TypeMetadata
// (§4.5.4).
type Stats struct {
	ConstraintsGenerated int
	ConstraintsSolved    int
	TypeVarsCreated      int
	UnificationSteps     int
}

// Context is the mutable state threaded through constraint generation and
// solving: the constraint list, the type-variable counter, the
// substitution map, variable type tables, and collected errors.
type Context struct {
	Constraints []Constraint

	nextTypeVar uint32
	Bindings    map[types.Variable]types.Type

	FunctionTypes map[string]types.Function
	SyscallTypes  map[string]Signature

	VariableTypes map[string]types.Type
	scopes        []*Scope

	Errors []*TypeError
	Stats  Stats
}

// NewContext returns an empty inference context with one root scope.
func NewContext() *Context {
	return &Context{
		Bindings:      make(map[types.Variable]types.Type),
		FunctionTypes: make(map[string]types.Function),
		SyscallTypes:  make(map[string]Signature),
		VariableTypes: make(map[string]types.Type),
		scopes:        []*Scope{newScope(0)},
	}
}

// FreshTypeVar mints a new type variable (§4.5.1).
func (c *Context) FreshTypeVar() types.Variable {
	v := types.Variable{ID: c.nextTypeVar}
	c.nextTypeVar++
	c.Stats.TypeVarsCreated++
	return v
}

// AddConstraint records a constraint generated during traversal.
func (c *Context) AddConstraint(con Constraint) {
	c.Constraints = append(c.Constraints, con)
	c.Stats.ConstraintsGenerated++
}

// AddError records a non-fatal type error.
func (c *Context) AddError(err *TypeError) { c.Errors = append(c.Errors, err) }

// HasErrors reports whether any type error was recorded.
func (c *Context) HasErrors() bool { return len(c.Errors) > 0 }

// VariableType looks up name in the current scope, falling back to the
// global variable-type table (§4.5.1).
func (c *Context) VariableType(name string) (types.Type, bool) {
	if top := c.scopes[len(c.scopes)-1]; top != nil {
		if t, ok := top.Variables[name]; ok {
			return t, true
		}
	}
	t, ok := c.VariableTypes[name]
	return t, ok
}

// SetVariableType binds name to t in both the current scope and the
// global table.
func (c *Context) SetVariableType(name string, t types.Type) {
	c.scopes[len(c.scopes)-1].Variables[name] = t
	c.VariableTypes[name] = t
}

// PushScope opens a new scope level.
func (c *Context) PushScope() {
	c.scopes = append(c.scopes, newScope(uint32(len(c.scopes))))
}

// PopScope closes the innermost scope, leaving the root scope in place.
func (c *Context) PopScope() {
	if len(c.scopes) > 1 {
		c.scopes = c.scopes[:len(c.scopes)-1]
	}
}
