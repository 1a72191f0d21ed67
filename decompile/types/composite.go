package types

import (
	"fmt"
	"strings"
)

// Array is a homogeneous sequence of Inner.
type Array struct{ Inner Type }

// Map is keyed by Key, holding values of Value.
type Map struct {
	Key   Type
	Value Type
}

// Buffer is a mutable byte sequence (as distinct from the immutable
// ByteString).
type Buffer struct{}

// StructField is one ordered field of a Struct.
type StructField struct {
	Name     string
	Type     Type
	Optional bool
}

// Struct is an ordered record type; Name is empty for an anonymous
// struct.
type Struct struct {
	Name   string
	Fields []StructField
}

// Union is a type that may be any one of Members. Members are kept
// dedup-sorted by textual representation (§4.5.5).
type Union struct{ Members []Type }

// Function is a callable signature.
type Function struct {
	Params []Type
	Return Type
}

// Contract is a reference to another deployed contract, by interface
// name.
type Contract struct{ Interface string }

// InteropInterface is an opaque VM handle (iterators, storage contexts)
// identified by Name.
type InteropInterface struct{ Name string }

// Pointer is a CALLA method pointer to a function of type Inner.
type Pointer struct{ Inner Type }

// Nullable wraps Inner with the possibility of Null.
type Nullable struct{ Inner Type }

// Generic is a named generic type applied to Params (e.g. an iterator
// parameterized by element type).
type Generic struct {
	Base   string
	Params []Type
}

// UserDefined is a nominal type the core cannot otherwise classify,
// named by the manifest or a syscall signature.
type UserDefined struct{ Name string }

func (a Array) String() string { return fmt.Sprintf("Array<%s>", a.Inner) }
func (m Map) String() string   { return fmt.Sprintf("Map<%s,%s>", m.Key, m.Value) }
func (Buffer) String() string  { return "Buffer" }
func (s Struct) String() string {
	if s.Name != "" {
		return s.Name
	}
	return "Struct"
}
func (u Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return "Union<" + strings.Join(parts, "|") + ">"
}
func (f Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	ret := "Void"
	if f.Return != nil {
		ret = f.Return.String()
	}
	return fmt.Sprintf("Function(%s) -> %s", strings.Join(parts, ","), ret)
}
func (c Contract) String() string { return "Contract<" + c.Interface + ">" }
func (i InteropInterface) String() string {
	return "InteropInterface<" + i.Name + ">"
}
func (p Pointer) String() string  { return fmt.Sprintf("Pointer<%s>", p.Inner) }
func (n Nullable) String() string { return fmt.Sprintf("Nullable<%s>", n.Inner) }
func (g Generic) String() string {
	parts := make([]string, len(g.Params))
	for i, p := range g.Params {
		parts[i] = p.String()
	}
	return g.Base + "<" + strings.Join(parts, ",") + ">"
}
func (u UserDefined) String() string { return u.Name }

func (Array) typ()            {}
func (Map) typ()              {}
func (Buffer) typ()           {}
func (Struct) typ()           {}
func (Union) typ()            {}
func (Function) typ()         {}
func (Contract) typ()         {}
func (InteropInterface) typ() {}
func (Pointer) typ()          {}
func (Nullable) typ()         {}
func (Generic) typ()          {}
func (UserDefined) typ()      {}
