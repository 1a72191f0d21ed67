package types

// Boolean is the VM boolean primitive.
type Boolean struct{}

// Integer is the VM's arbitrary-precision integer primitive.
type Integer struct{}

// ByteString is an immutable byte sequence.
type ByteString struct{}

// ByteArray is a legacy alias distinguished from ByteString only by the
// syscall database's type-string table (§4.6); it behaves identically.
type ByteArray struct{}

// Hash160 is a fixed 20-byte contract/account hash.
type Hash160 struct{}

// Hash256 is a fixed 32-byte block/transaction hash.
type Hash256 struct{}

// ECPoint is a compressed elliptic-curve point (33 bytes).
type ECPoint struct{}

// PublicKey is a compressed secp256r1 public key (33 bytes), distinct
// from ECPoint only for readability of emitted signatures.
type PublicKey struct{}

// Signature is a fixed 64-byte ECDSA signature.
type Signature struct{}

// Null is the VM's null value type.
type Null struct{}

// String is a UTF-8 text primitive (distinguished from ByteString at the
// pseudocode level when a syscall's declared type says so).
type String struct{}

func (Boolean) String() string    { return "Boolean" }
func (Integer) String() string    { return "Integer" }
func (ByteString) String() string { return "ByteString" }
func (ByteArray) String() string  { return "ByteArray" }
func (Hash160) String() string    { return "Hash160" }
func (Hash256) String() string    { return "Hash256" }
func (ECPoint) String() string    { return "ECPoint" }
func (PublicKey) String() string  { return "PublicKey" }
func (Signature) String() string  { return "Signature" }
func (Null) String() string       { return "Null" }
func (String) String() string     { return "String" }

func (Boolean) typ()    {}
func (Integer) typ()    {}
func (ByteString) typ() {}
func (ByteArray) typ()  {}
func (Hash160) typ()    {}
func (Hash256) typ()    {}
func (ECPoint) typ()    {}
func (PublicKey) typ()  {}
func (Signature) typ()  {}
func (Null) typ()       {}
func (String) typ()     {}
