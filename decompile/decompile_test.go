package decompile_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/neodec/decompile"
)

// buildNEF assembles a minimal well-formed NEF buffer wrapping script,
// with no method tokens and a checksum computed to match (§6.1).
func buildNEF(t *testing.T, script []byte) []byte {
	t.Helper()
	var buf []byte
	buf = append(buf, []byte("NEF\x33")...)
	buf = append(buf, make([]byte, 64)...) // compiler field
	buf = append(buf, 0)                   // source URL varint length = 0
	buf = append(buf, 0)                   // reserved byte
	buf = append(buf, 0)                   // method token count varint = 0
	buf = append(buf, 0, 0)                // reserved 2 bytes

	lenField := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenField, uint32(len(script)))
	buf = append(buf, lenField...)
	buf = append(buf, script...)
	buf = append(buf, 0, 0, 0, 0) // checksum (unverified by default)
	return buf
}

func TestDecompileSimpleScript(t *testing.T) {
	// PUSHINT8 42, PUSHINT8 10, ADD, RET
	script := []byte{0x00, 0x2A, 0x00, 0x0A, 0x9E, 0x40}
	data := buildNEF(t, script)

	contract, err := decompile.Decompile(decompile.Options{NEF: data})
	require.NoError(t, err)
	require.Len(t, contract.Functions, 1)

	fn := contract.Functions[0]
	require.Equal(t, "sub_0x0", fn.Name)
	require.Contains(t, fn.Pseudocode, "fn sub_0x0(")
	require.Contains(t, fn.Pseudocode, "return")
	require.Contains(t, contract.Pseudocode, "sub_0x0")
}

func TestDecompileWithManifestNamesEntryFunction(t *testing.T) {
	script := []byte{0x00, 0x2A, 0x00, 0x0A, 0x9E, 0x40}
	data := buildNEF(t, script)
	man := []byte(`{
		"name": "Tiny",
		"abi": {
			"methods": [
				{"name": "sum", "offset": 0, "parameters": [], "returntype": "Integer", "safe": true}
			],
			"events": []
		}
	}`)

	contract, err := decompile.Decompile(decompile.Options{NEF: data, Manifest: man})
	require.NoError(t, err)
	require.Equal(t, "Tiny", contract.Name)
	require.Len(t, contract.Functions, 1)
	require.Equal(t, "sum", contract.Functions[0].Name)
	require.Contains(t, contract.Pseudocode, "contract Tiny {")
}

func TestDecompileRejectsBadMagic(t *testing.T) {
	data := buildNEF(t, []byte{0x40})
	data[0] = 'X'
	_, err := decompile.Decompile(decompile.Options{NEF: data})
	require.Error(t, err)
}
