// Package units converts raw integer chain quantities (wei, satoshi, sun,
// drops) into human-scale decimal strings. All resolvers format amounts and
// fees through this package so the output schema stays uniform.
package units

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Scale converts a raw integer quantity into a decimal string adjusted by the
// asset's decimal precision, rendered with exactly that many fractional
// digits. A nil value yields "0" so decode failures never leak a non-numeric
// amount into the output.
func Scale(raw *big.Int, decimals int32) string {
	if raw == nil {
		return "0"
	}

	return decimal.NewFromBigInt(raw, -decimals).StringFixed(decimals)
}

// ScaleInt is Scale for quantities that fit in an int64.
func ScaleInt(raw int64, decimals int32) string {
	return decimal.New(raw, -decimals).StringFixed(decimals)
}

// Fee formats a raw integer fee in the chain's native denomination: the value
// is scaled by decimals, rendered with places fractional digits, and suffixed
// with the native asset's ticker (e.g. "0.000420 ETH"). Chains choose their
// own display precision: EVM fees read best at 6 places, Bitcoin at the full
// 8 satoshi places.
func Fee(raw *big.Int, decimals, places int32, symbol string) string {
	if raw == nil {
		return "0 " + symbol
	}

	return decimal.NewFromBigInt(raw, -decimals).StringFixed(places) + " " + symbol
}

// FeeInt is Fee for quantities that fit in an int64.
func FeeInt(raw int64, decimals, places int32, symbol string) string {
	return decimal.New(raw, -decimals).StringFixed(places) + " " + symbol
}
