// Package manifest decodes the optional contract manifest JSON (§6.2):
// the ABI's method-to-offset map, declared parameter/return types, and
// the supported-standards list. Everything else in the document
// (groups, permissions, trusts, extra metadata) is preserved verbatim
// as raw JSON and passed through unchanged, since the core never
// inspects it.
package manifest

import (
	"encoding/json"
	"fmt"
)

// ErrorKind enumerates the manifest parsing error taxonomy.
type ErrorKind uint8

const (
	MalformedJSON ErrorKind = iota
	MissingField
	InvalidABI
)

// Error is the manifest stage's typed error.
type Error struct {
	Kind  ErrorKind
	Field string
	Cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case MalformedJSON:
		return fmt.Sprintf("manifest: malformed JSON: %v", e.Cause)
	case MissingField:
		return fmt.Sprintf("manifest: missing required field %q", e.Field)
	case InvalidABI:
		return "manifest: invalid ABI"
	default:
		return "manifest: parse error"
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// Parameter is one ABI method or event parameter: a name and its
// declared Neo N3 type string (e.g. "Hash160", "Integer", "Array").
type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Method is one ABI method entry. Offset is the method's entry point
// in the script, in bytes; it is the join key the core uses to name
// and seed each top-level decompiled function.
type Method struct {
	Name       string      `json:"name"`
	Offset     int64       `json:"offset"`
	Parameters []Parameter `json:"parameters"`
	ReturnType string      `json:"returntype"`
	Safe       bool        `json:"safe"`
}

// Event is one ABI event entry.
type Event struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters"`
}

// ABI is the contract's application binary interface.
type ABI struct {
	Methods []Method `json:"methods"`
	Events  []Event  `json:"events"`
}

// Manifest is a parsed contract manifest, trimmed to what the core
// consumes plus an opaque passthrough for the rest of the document.
type Manifest struct {
	Name               string   `json:"name"`
	ABI                ABI      `json:"abi"`
	SupportedStandards []string `json:"supportedstandards"`

	// Passthrough holds every other top-level field (groups,
	// permissions, trusts, features, extra) verbatim, so a caller that
	// needs them can re-decode from the raw document without this
	// package needing to model their shape.
	Passthrough json.RawMessage `json:"-"`
}

// Parse decodes a manifest JSON document.
func Parse(data []byte) (*Manifest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Kind: MalformedJSON, Cause: err}
	}

	nameRaw, ok := raw["name"]
	if !ok {
		return nil, &Error{Kind: MissingField, Field: "name"}
	}
	var name string
	if err := json.Unmarshal(nameRaw, &name); err != nil {
		return nil, &Error{Kind: MalformedJSON, Cause: err}
	}

	abiRaw, ok := raw["abi"]
	if !ok {
		return nil, &Error{Kind: MissingField, Field: "abi"}
	}
	var abi ABI
	if err := json.Unmarshal(abiRaw, &abi); err != nil {
		return nil, &Error{Kind: InvalidABI, Cause: err}
	}

	var standards []string
	if standardsRaw, ok := raw["supportedstandards"]; ok {
		if err := json.Unmarshal(standardsRaw, &standards); err != nil {
			return nil, &Error{Kind: MalformedJSON, Cause: err}
		}
	}

	delete(raw, "name")
	delete(raw, "abi")
	delete(raw, "supportedstandards")
	passthrough, err := json.Marshal(raw)
	if err != nil {
		return nil, &Error{Kind: MalformedJSON, Cause: err}
	}

	return &Manifest{
		Name:               name,
		ABI:                abi,
		SupportedStandards: standards,
		Passthrough:        passthrough,
	}, nil
}

// MethodOffsets returns the method-name-to-entry-offset map the
// lifter uses to seed top-level function discovery (§6.2, §9).
func (m *Manifest) MethodOffsets() map[string]int64 {
	offsets := make(map[string]int64, len(m.ABI.Methods))
	for _, method := range m.ABI.Methods {
		offsets[method.Name] = method.Offset
	}
	return offsets
}

// MethodByOffset finds the ABI method declared at a given script
// offset, if any. Offsets are only unique per well-formed manifest;
// the first match is returned.
func (m *Manifest) MethodByOffset(offset int64) (Method, bool) {
	for _, method := range m.ABI.Methods {
		if method.Offset == offset {
			return method, true
		}
	}
	return Method{}, false
}

// SupportsStandard reports whether the manifest declares support for
// a given NEP standard (e.g. "NEP-17").
func (m *Manifest) SupportsStandard(name string) bool {
	for _, s := range m.SupportedStandards {
		if s == name {
			return true
		}
	}
	return false
}
