package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleManifest = `{
	"name": "TestToken",
	"groups": [],
	"features": {},
	"supportedstandards": ["NEP-17"],
	"abi": {
		"methods": [
			{"name": "symbol", "offset": 0, "parameters": [], "returntype": "String", "safe": true},
			{"name": "transfer", "offset": 120, "parameters": [
				{"name": "from", "type": "Hash160"},
				{"name": "to", "type": "Hash160"},
				{"name": "amount", "type": "Integer"}
			], "returntype": "Boolean", "safe": false}
		],
		"events": [
			{"name": "Transfer", "parameters": [
				{"name": "from", "type": "Hash160"},
				{"name": "to", "type": "Hash160"},
				{"name": "amount", "type": "Integer"}
			]}
		]
	},
	"permissions": [{"contract": "*", "methods": ["*"]}],
	"trusts": [],
	"extra": {"Author": "test"}
}`

func TestParseExtractsCoreFields(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	require.NoError(t, err)
	require.Equal(t, "TestToken", m.Name)
	require.Len(t, m.ABI.Methods, 2)
	require.True(t, m.SupportsStandard("NEP-17"))
	require.False(t, m.SupportsStandard("NEP-11"))
}

func TestMethodOffsets(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	require.NoError(t, err)
	offsets := m.MethodOffsets()
	require.Equal(t, int64(0), offsets["symbol"])
	require.Equal(t, int64(120), offsets["transfer"])
}

func TestMethodByOffset(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	require.NoError(t, err)
	method, ok := m.MethodByOffset(120)
	require.True(t, ok)
	require.Equal(t, "transfer", method.Name)
	require.Len(t, method.Parameters, 3)

	_, ok = m.MethodByOffset(999)
	require.False(t, ok)
}

func TestParseRejectsMissingName(t *testing.T) {
	_, err := Parse([]byte(`{"abi": {"methods": [], "events": []}}`))
	require.Error(t, err)
	var merr *Error
	require.ErrorAs(t, err, &merr)
	require.Equal(t, MissingField, merr.Kind)
	require.Equal(t, "name", merr.Field)
}

func TestParseRejectsMissingABI(t *testing.T) {
	_, err := Parse([]byte(`{"name": "X"}`))
	require.Error(t, err)
	var merr *Error
	require.ErrorAs(t, err, &merr)
	require.Equal(t, MissingField, merr.Kind)
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	require.Error(t, err)
	var merr *Error
	require.ErrorAs(t, err, &merr)
	require.Equal(t, MalformedJSON, merr.Kind)
}

func TestParsePreservesPassthroughFields(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	require.NoError(t, err)
	require.Contains(t, string(m.Passthrough), "permissions")
	require.Contains(t, string(m.Passthrough), "extra")
	require.NotContains(t, string(m.Passthrough), `"name"`)
}
