// Package nef parses the NEF (Neo Executable Format) container that
// wraps a contract's script bytecode (§6.1). It is the external
// collaborator that hands the disassembler its input buffer; nothing
// downstream depends on the container format, only on the extracted
// script bytes and method-token table.
package nef

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/mna/neodec/decompile/ir"
)

// ErrorKind enumerates the NEF parsing error taxonomy.
type ErrorKind uint8

const (
	TruncatedFile ErrorKind = iota
	InvalidMagic
	InvalidChecksum
	InvalidMethodToken
	InvalidBytecode
)

// Error is the NEF stage's typed error.
type Error struct {
	Kind     ErrorKind
	Offset   int
	Expected int
	Actual   int
}

func (e *Error) Error() string {
	switch e.Kind {
	case TruncatedFile:
		return fmt.Sprintf("nef: truncated file: expected at least %d bytes, got %d", e.Expected, e.Actual)
	case InvalidMagic:
		return "nef: invalid magic bytes"
	case InvalidChecksum:
		return fmt.Sprintf("nef: invalid checksum: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
	case InvalidMethodToken:
		return fmt.Sprintf("nef: invalid method token at offset %d", e.Offset)
	case InvalidBytecode:
		return "nef: invalid bytecode"
	default:
		return fmt.Sprintf("nef: error at offset %d", e.Offset)
	}
}

var magic = [4]byte{'N', 'E', 'F', 0x33}

const (
	compilerFieldSize = 64
	headerPrefixSize  = 4 + compilerFieldSize // magic + compiler, before the varint source URL
)

// MethodToken is one entry of the NEF's method-token array: a
// reference another contract's method that this contract's bytecode
// invokes via CALLT, resolved independent of the syscall database.
type MethodToken struct {
	Hash         [20]byte
	Method       string
	ParamsCount  uint8
	ReturnType   ir.StackItemType
	CallFlags    uint8
}

// File is a fully parsed NEF container.
type File struct {
	Compiler     string
	Source       string
	MethodTokens []MethodToken
	Script       []byte
	Checksum     uint32
}

// Parser parses NEF containers, optionally verifying the trailing
// checksum against the computed SHA-256 prefix digest.
type Parser struct {
	VerifyChecksum bool
}

// NewParser returns a Parser with checksum verification enabled.
func NewParser() *Parser { return &Parser{VerifyChecksum: true} }

// Parse decodes data per §6.1's field table.
func (p *Parser) Parse(data []byte) (*File, error) {
	if len(data) < headerPrefixSize {
		return nil, &Error{Kind: TruncatedFile, Expected: headerPrefixSize, Actual: len(data)}
	}
	if [4]byte(data[0:4]) != magic {
		return nil, &Error{Kind: InvalidMagic}
	}
	compiler := nullTerminated(data[4:headerPrefixSize])

	offset := headerPrefixSize

	source, n, err := readVarString(data, offset)
	if err != nil {
		return nil, err
	}
	offset += n

	// reserved byte, must be 0 but unknown producers are tolerated.
	if offset >= len(data) {
		return nil, &Error{Kind: TruncatedFile, Expected: offset + 1, Actual: len(data)}
	}
	offset++

	tokens, n, err := readMethodTokens(data, offset)
	if err != nil {
		return nil, err
	}
	offset += n

	// reserved 2 bytes, must be 0x0000.
	if offset+2 > len(data) {
		return nil, &Error{Kind: TruncatedFile, Expected: offset + 2, Actual: len(data)}
	}
	offset += 2

	if offset+4 > len(data) {
		return nil, &Error{Kind: TruncatedFile, Expected: offset + 4, Actual: len(data)}
	}
	scriptLen := binary.LittleEndian.Uint32(data[offset : offset+4])
	offset += 4

	if offset+int(scriptLen) > len(data) {
		return nil, &Error{Kind: TruncatedFile, Expected: offset + int(scriptLen), Actual: len(data)}
	}
	script := append([]byte(nil), data[offset:offset+int(scriptLen)]...)
	offset += int(scriptLen)

	if offset+4 > len(data) {
		return nil, &Error{Kind: TruncatedFile, Expected: offset + 4, Actual: len(data)}
	}
	checksum := binary.LittleEndian.Uint32(data[offset : offset+4])
	offset += 4

	if p.VerifyChecksum {
		computed := checksumOf(data[:offset-4])
		if computed != checksum {
			return nil, &Error{Kind: InvalidChecksum, Expected: int(computed), Actual: int(checksum)}
		}
	}

	return &File{
		Compiler:     compiler,
		Source:       source,
		MethodTokens: tokens,
		Script:       script,
		Checksum:     checksum,
	}, nil
}

// checksumOf is the first four bytes of the SHA-256 digest of data,
// read little-endian, matching Neo N3's NEF checksum convention.
func checksumOf(data []byte) uint32 {
	sum := sha256.Sum256(data)
	return binary.LittleEndian.Uint32(sum[0:4])
}

func nullTerminated(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// readVarint reads a Neo-style variable-length unsigned integer:
// 0x00-0xFC is a one-byte value, 0xFD prefixes a uint16, 0xFE a
// uint32, 0xFF a uint64.
func readVarint(data []byte, offset int) (uint64, int, error) {
	if offset >= len(data) {
		return 0, 0, &Error{Kind: TruncatedFile, Expected: offset + 1, Actual: len(data)}
	}
	switch b := data[offset]; {
	case b <= 0xFC:
		return uint64(b), 1, nil
	case b == 0xFD:
		if offset+3 > len(data) {
			return 0, 0, &Error{Kind: TruncatedFile, Expected: offset + 3, Actual: len(data)}
		}
		return uint64(binary.LittleEndian.Uint16(data[offset+1 : offset+3])), 3, nil
	case b == 0xFE:
		if offset+5 > len(data) {
			return 0, 0, &Error{Kind: TruncatedFile, Expected: offset + 5, Actual: len(data)}
		}
		return uint64(binary.LittleEndian.Uint32(data[offset+1 : offset+5])), 5, nil
	default: // 0xFF
		if offset+9 > len(data) {
			return 0, 0, &Error{Kind: TruncatedFile, Expected: offset + 9, Actual: len(data)}
		}
		return binary.LittleEndian.Uint64(data[offset+1 : offset+9]), 9, nil
	}
}

func readVarString(data []byte, offset int) (string, int, error) {
	length, n, err := readVarint(data, offset)
	if err != nil {
		return "", 0, err
	}
	start := offset + n
	end := start + int(length)
	if end > len(data) {
		return "", 0, &Error{Kind: TruncatedFile, Expected: end, Actual: len(data)}
	}
	return string(data[start:end]), n + int(length), nil
}

func readMethodTokens(data []byte, offset int) ([]MethodToken, int, error) {
	start := offset
	count, n, err := readVarint(data, offset)
	if err != nil {
		return nil, 0, err
	}
	offset += n

	tokens := make([]MethodToken, 0, count)
	for i := uint64(0); i < count; i++ {
		tok, consumed, err := parseMethodToken(data, offset)
		if err != nil {
			return nil, 0, &Error{Kind: InvalidMethodToken, Offset: offset}
		}
		tokens = append(tokens, tok)
		offset += consumed
	}
	return tokens, offset - start, nil
}

func parseMethodToken(data []byte, offset int) (MethodToken, int, error) {
	start := offset
	if offset+20 > len(data) {
		return MethodToken{}, 0, &Error{Kind: TruncatedFile, Expected: offset + 20, Actual: len(data)}
	}
	var hash [20]byte
	copy(hash[:], data[offset:offset+20])
	offset += 20

	method, n, err := readVarString(data, offset)
	if err != nil {
		return MethodToken{}, 0, err
	}
	offset += n

	if offset+3 > len(data) {
		return MethodToken{}, 0, &Error{Kind: TruncatedFile, Expected: offset + 3, Actual: len(data)}
	}
	paramsCount := data[offset]
	returnType, _ := ir.DecodeStackItemType(data[offset+1])
	callFlags := data[offset+2]
	offset += 3

	return MethodToken{
		Hash:        hash,
		Method:      method,
		ParamsCount: paramsCount,
		ReturnType:  returnType,
		CallFlags:   callFlags,
	}, offset - start, nil
}

// HasCallFlag reports whether flag is set in the token's call flags
// bitmask (ReadStates=0x01, WriteStates=0x02, AllowCall=0x04,
// AllowNotify=0x08).
func (t MethodToken) HasCallFlag(flag uint8) bool {
	return t.CallFlags&flag != 0
}
