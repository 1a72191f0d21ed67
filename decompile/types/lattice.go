package types

import "fmt"

// Any is the lattice top: compatible with everything.
type Any struct{}

// Never is the lattice bottom: no value ever has this type.
type Never struct{}

// Void means "no value produced" (a syscall or function with no return).
type Void struct{}

// Unknown is the pre-inference placeholder every fresh variable and
// expression starts with.
type Unknown struct{}

// Variable is a fresh type variable minted by the inference engine,
// identified by a monotonically increasing id.
type Variable struct{ ID uint32 }

func (Any) String() string     { return "Any" }
func (Never) String() string   { return "Never" }
func (Void) String() string    { return "Void" }
func (Unknown) String() string { return "Unknown" }
func (v Variable) String() string { return fmt.Sprintf("'t%d", v.ID) }

func (Any) typ()     {}
func (Never) typ()   {}
func (Void) typ()    {}
func (Unknown) typ() {}
func (Variable) typ() {}
