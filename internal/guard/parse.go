package guard

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/guardian/internal/policy"
)

// modResultWire is the strict classification schema. Pointer fields make a
// missing key distinguishable from a zero value, so a response that omits
// "allowed" is a protocol error rather than an implicit deny-turned-allow.
type modResultWire struct {
	Allowed    *bool     `json:"allowed"`
	Categories *[]string `json:"categories"`
	Rationale  *string   `json:"rationale"`
}

// parseModResult parses the guard response content into a ModResult.
// Unknown keys, missing keys, trailing tokens, and categories outside the
// closed set are all protocol errors. Unlike generation-side parsing there
// is no markdown stripping or repair here: the grammar guarantees exact
// JSON, so anything else means the constraint was not applied.
func parseModResult(content string) (*policy.ModResult, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(content)))
	dec.DisallowUnknownFields()

	var wire modResultWire
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrProtocol)
	}

	if wire.Allowed == nil {
		return nil, fmt.Errorf("%w: missing field %q", ErrProtocol, "allowed")
	}
	if wire.Categories == nil {
		return nil, fmt.Errorf("%w: missing field %q", ErrProtocol, "categories")
	}
	if wire.Rationale == nil {
		return nil, fmt.Errorf("%w: missing field %q", ErrProtocol, "rationale")
	}

	cats := policy.NewCategorySet()
	for _, raw := range *wire.Categories {
		c := policy.SafetyCategory(raw)
		if !policy.IsValidCategory(c) {
			return nil, fmt.Errorf("%w: unknown category %q", ErrProtocol, raw)
		}
		cats.Add(c)
	}

	return &policy.ModResult{
		Allowed:    *wire.Allowed,
		Categories: cats,
		Rationale:  *wire.Rationale,
	}, nil
}
