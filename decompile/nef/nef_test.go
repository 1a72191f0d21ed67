package nef

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildNEF assembles a minimal but well-formed NEF buffer per §6.1's
// field table, with a checksum computed over everything preceding it.
func buildNEF(t *testing.T, compiler, source string, tokens []MethodToken, script []byte) []byte {
	t.Helper()
	var buf []byte
	buf = append(buf, magic[:]...)

	compilerField := make([]byte, compilerFieldSize)
	copy(compilerField, compiler)
	buf = append(buf, compilerField...)

	buf = append(buf, encodeVarString(source)...)
	buf = append(buf, 0) // reserved byte

	buf = append(buf, encodeVarint(uint64(len(tokens)))...)
	for _, tok := range tokens {
		buf = append(buf, tok.Hash[:]...)
		buf = append(buf, encodeVarString(tok.Method)...)
		buf = append(buf, tok.ParamsCount, byte(tok.ReturnType), tok.CallFlags)
	}

	buf = append(buf, 0, 0) // reserved 2 bytes

	lenField := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenField, uint32(len(script)))
	buf = append(buf, lenField...)
	buf = append(buf, script...)

	sum := checksumOf(buf)
	sumField := make([]byte, 4)
	binary.LittleEndian.PutUint32(sumField, sum)
	buf = append(buf, sumField...)

	return buf
}

func encodeVarint(v uint64) []byte {
	switch {
	case v <= 0xFC:
		return []byte{byte(v)}
	case v <= 0xFFFF:
		b := make([]byte, 3)
		b[0] = 0xFD
		binary.LittleEndian.PutUint16(b[1:], uint16(v))
		return b
	default:
		b := make([]byte, 5)
		b[0] = 0xFE
		binary.LittleEndian.PutUint32(b[1:], uint32(v))
		return b
	}
}

func encodeVarString(s string) []byte {
	return append(encodeVarint(uint64(len(s))), []byte(s)...)
}

func TestParseRoundTripsSimpleScript(t *testing.T) {
	data := buildNEF(t, "neo-go-3.6", "", nil, []byte{0x11, 0x22, 0x40})

	p := NewParser()
	file, err := p.Parse(data)
	require.NoError(t, err)
	require.Equal(t, "neo-go-3.6", file.Compiler)
	require.Equal(t, []byte{0x11, 0x22, 0x40}, file.Script)
	require.Empty(t, file.MethodTokens)
}

func TestParseRejectsTruncatedFile(t *testing.T) {
	_, err := NewParser().Parse([]byte{1, 2, 3})
	require.Error(t, err)
	var nerr *Error
	require.ErrorAs(t, err, &nerr)
	require.Equal(t, TruncatedFile, nerr.Kind)
}

func TestParseRejectsBadMagic(t *testing.T) {
	data := buildNEF(t, "c", "", nil, nil)
	data[0] = 'X'
	_, err := NewParser().Parse(data)
	require.Error(t, err)
	var nerr *Error
	require.ErrorAs(t, err, &nerr)
	require.Equal(t, InvalidMagic, nerr.Kind)
}

func TestParseRejectsBadChecksum(t *testing.T) {
	data := buildNEF(t, "c", "", nil, []byte{0x01})
	data[len(data)-1] ^= 0xFF
	_, err := NewParser().Parse(data)
	require.Error(t, err)
	var nerr *Error
	require.ErrorAs(t, err, &nerr)
	require.Equal(t, InvalidChecksum, nerr.Kind)
}

func TestParseSkipsChecksumWhenDisabled(t *testing.T) {
	data := buildNEF(t, "c", "", nil, []byte{0x01})
	data[len(data)-1] ^= 0xFF
	p := &Parser{VerifyChecksum: false}
	_, err := p.Parse(data)
	require.NoError(t, err)
}

func TestParseMethodTokens(t *testing.T) {
	tok := MethodToken{
		Method:      "transfer",
		ParamsCount: 3,
		ReturnType:  0x20,
		CallFlags:   0x0F,
	}
	tok.Hash[0] = 0xAB
	data := buildNEF(t, "c", "https://example.com", []MethodToken{tok}, []byte{0x40})

	file, err := NewParser().Parse(data)
	require.NoError(t, err)
	require.Equal(t, "https://example.com", file.Source)
	require.Len(t, file.MethodTokens, 1)
	require.Equal(t, "transfer", file.MethodTokens[0].Method)
	require.True(t, file.MethodTokens[0].HasCallFlag(0x01))
	require.True(t, file.MethodTokens[0].HasCallFlag(0x08))
}
