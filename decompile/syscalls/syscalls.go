// Package syscalls implements the Neo N3 syscall signature database
// (§4.6): a built-in table of every standard syscall keyed by its
// 32-bit name hash, plus hash→name, hash→signature, argument-count,
// returns-a-value and side-effect lookups. The table is read-only after
// construction and safe to share across concurrent decompilations.
package syscalls

import (
	"fmt"
	"sort"

	"github.com/dolthub/swiss"

	"github.com/mna/neodec/decompile/types"
)

// SideEffect is one of the closed set of effect tags a syscall may
// carry (§3.12).
type SideEffect int

const ( //nolint:revive
	Pure SideEffect = iota
	StorageRead
	StorageWrite
	ContractCall
	EventEmit
	StateChange
)

func (e SideEffect) String() string {
	switch e {
	case Pure:
		return "Pure"
	case StorageRead:
		return "StorageRead"
	case StorageWrite:
		return "StorageWrite"
	case ContractCall:
		return "ContractCall"
	case EventEmit:
		return "EventEmit"
	case StateChange:
		return "StateChange"
	default:
		return "Unknown"
	}
}

// Definition is one built-in or configuration-supplied syscall record,
// the data §4.6's prose leaves abstract and `load_builtin_syscalls`
// pins down concretely: name, hash, parameter type strings, return
// type string (empty for void), effect tags, and optional gas cost.
type Definition struct {
	Name        string
	Hash        uint32
	Parameters  []string
	ReturnType  string // "" means void
	Effects     []SideEffect
	GasCost     int64
	HasGasCost  bool
	Description string
}

// Signature is the type-level view of a Definition: parsed parameter
// and return types, ready for the inference engine and the lifter to
// consume without re-parsing type strings.
type Signature struct {
	Name       string
	Parameters []types.Type
	ReturnType types.Type // nil when void
	Effects    []SideEffect
}

// Database is the syscall registry. The zero value is not usable; call
// New to get one seeded with the built-in Neo N3 table.
type Database struct {
	byHash     *swiss.Map[uint32, Definition]
	hashByName map[string]uint32
	signatures *swiss.Map[uint32, Signature]
}

// New returns a Database seeded with every built-in Neo N3 syscall.
func New() *Database {
	db := &Database{
		byHash:     swiss.NewMap[uint32, Definition](64),
		hashByName: make(map[string]uint32, 64),
		signatures: swiss.NewMap[uint32, Signature](64),
	}
	for _, def := range builtinSyscalls {
		db.Add(def)
	}
	return db
}

// Add registers def, overwriting any previous entry at the same hash.
// It is exported so a caller can extend the built-in table from
// configuration-supplied definitions (§4.6: "Additional entries may be
// injected from configuration").
func (db *Database) Add(def Definition) {
	sig := Signature{
		Name:       def.Name,
		Parameters: make([]types.Type, len(def.Parameters)),
		Effects:    def.Effects,
	}
	for i, p := range def.Parameters {
		sig.Parameters[i] = parseTypeString(p)
	}
	if def.ReturnType != "" && def.ReturnType != "Void" {
		sig.ReturnType = parseTypeString(def.ReturnType)
	}

	db.byHash.Put(def.Hash, def)
	db.hashByName[def.Name] = def.Hash
	db.signatures.Put(def.Hash, sig)
}

// ByHash returns the definition registered at hash, if any.
func (db *Database) ByHash(hash uint32) (Definition, bool) {
	return db.byHash.Get(hash)
}

// ByName returns the definition registered under name, if any.
func (db *Database) ByName(name string) (Definition, bool) {
	hash, ok := db.hashByName[name]
	if !ok {
		return Definition{}, false
	}
	return db.byHash.Get(hash)
}

// Signature returns the parsed type signature for hash.
func (db *Database) Signature(hash uint32) (Signature, bool) {
	return db.signatures.Get(hash)
}

// signatureByName looks up a Signature by its syscall name, backing
// the ByName adapter in adapter.go.
func (db *Database) signatureByName(name string) (Signature, bool) {
	hash, ok := db.hashByName[name]
	if !ok {
		return Signature{}, false
	}
	return db.signatures.Get(hash)
}

// NameByHash resolves hash to its canonical name, falling back to
// `syscall_{hash:08x}` for an unrecognized hash (§4.6).
func (db *Database) NameByHash(hash uint32) string {
	if def, ok := db.byHash.Get(hash); ok {
		return def.Name
	}
	return fmt.Sprintf("syscall_%08x", hash)
}

// ArgCount returns the declared parameter count for hash, or 0 if hash
// is unrecognized.
func (db *Database) ArgCount(hash uint32) int {
	if def, ok := db.byHash.Get(hash); ok {
		return len(def.Parameters)
	}
	return 0
}

// ReturnsValue reports whether hash's syscall produces a non-void
// result.
func (db *Database) ReturnsValue(hash uint32) bool {
	def, ok := db.byHash.Get(hash)
	return ok && def.ReturnType != "" && def.ReturnType != "Void"
}

// Effects returns the side-effect tags registered for hash, or nil if
// hash is unrecognized.
func (db *Database) Effects(hash uint32) []SideEffect {
	sig, ok := db.signatures.Get(hash)
	if !ok {
		return nil
	}
	return sig.Effects
}

// AllHashes returns every registered hash in ascending numeric order
// (§4.7.3's determinism requirement applies here too: any caller
// iterating the whole table must see a stable order).
func (db *Database) AllHashes() []uint32 {
	hashes := make([]uint32, 0, db.byHash.Count())
	db.byHash.Iter(func(h uint32, _ Definition) bool {
		hashes = append(hashes, h)
		return false
	})
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })
	return hashes
}

// parseTypeString maps a syscall definition's parameter/return type
// string to the static type lattice (§4.6's "Type-string parsing"
// table).
func parseTypeString(s string) types.Type {
	switch s {
	case "Boolean":
		return types.Boolean{}
	case "Byte", "Integer", "UInteger", "CallFlags":
		return types.Integer{}
	case "String":
		return types.String{}
	case "ByteArray":
		return types.ByteArray{}
	case "Hash160":
		return types.Hash160{}
	case "Hash256":
		return types.Hash256{}
	case "ECPoint":
		return types.ECPoint{}
	case "Array":
		return types.Array{Inner: types.Unknown{}}
	case "Any", "StorageContext", "Iterator", "InteropInterface":
		return types.Unknown{}
	case "Void":
		return types.Void{}
	default:
		return types.Unknown{}
	}
}
