package tron

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// addressPrefix is the version byte of Tron mainnet addresses; it is what
// puts the leading "T" on the base58check form.
const addressPrefix = 0x41

// encodeAddress converts a hex-encoded Tron address into its base58check
// form. The API emits addresses in three hex shapes: 21 bytes with the 0x41
// version prefix (contract parameters), bare 20 bytes (event log emitters),
// and 32-byte event topic words left-padded with zeros.
func encodeAddress(hexAddr string) (string, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.ToLower(hexAddr), "0x"))
	if err != nil {
		return "", fmt.Errorf("decoding address %q: %w", hexAddr, err)
	}

	switch {
	case len(raw) == 21 && raw[0] == addressPrefix:
		raw = raw[1:]
	case len(raw) >= 20:
		raw = raw[len(raw)-20:]
	default:
		return "", fmt.Errorf("address %q is too short", hexAddr)
	}

	return base58.CheckEncode(raw, addressPrefix), nil
}
