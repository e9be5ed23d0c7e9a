// Package types provides small shared value types used across the resolver
// packages, most notably Hex, a validated hexadecimal quantity string as
// returned by EVM-style JSON-RPC APIs.
package types

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Hex represents a hexadecimal-encoded number as a string (e.g., "0x1a").
// It provides validation, JSON marshaling/unmarshaling, and conversion to
// int64 and big.Int. Leading zeros are accepted, which matters for 256-bit
// quantities embedded in event log data.
type Hex string

// HexFromString validates the input string and returns a Hex value if valid.
func HexFromString(s string) (Hex, error) {
	if err := validateHex(s); err != nil {
		return "", err
	}
	return Hex(s), nil
}

// validateHex checks whether a string is a valid hexadecimal number starting with "0x" or "0X".
func validateHex(s string) error {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return fmt.Errorf("hex string must start with 0x")
	}

	if _, ok := new(big.Int).SetString(s[2:], 16); !ok {
		return fmt.Errorf("invalid hexadecimal value: %q", s)
	}

	return nil
}

// MarshalJSON encodes the Hex as a JSON string.
func (h Hex) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(h))
}

// UnmarshalJSON parses and validates a JSON-encoded hexadecimal string.
// A JSON null leaves the value empty rather than failing, since several
// RPC payloads omit quantity fields for pending transactions.
func (h *Hex) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*h = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid hex string: %w", err)
	}

	if err := validateHex(s); err != nil {
		return err
	}

	*h = Hex(s)
	return nil
}

// Int returns the decoded int64 value from the hexadecimal string.
// If the value is empty or parsing fails, it returns zero.
func (h Hex) Int() int64 {
	if len(h) < 3 {
		return 0
	}
	v, _ := strconv.ParseInt(string(h)[2:], 16, 64)
	return v
}

// Big returns the decoded big.Int value from the hexadecimal string.
// Unlike Int, it handles quantities wider than 64 bits and values padded
// with leading zeros. An empty or unparseable value yields zero.
func (h Hex) Big() *big.Int {
	if len(h) < 3 {
		return new(big.Int)
	}

	v, ok := new(big.Int).SetString(string(h)[2:], 16)
	if !ok {
		return new(big.Int)
	}
	return v
}

// IsZero reports whether the value is empty or decodes to zero.
func (h Hex) IsZero() bool {
	return len(h) < 3 || h.Big().Sign() == 0
}
