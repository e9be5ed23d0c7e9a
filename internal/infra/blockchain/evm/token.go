package evm

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"strings"

	"github.com/gabapcia/txlens/internal/pkg/logger"
	"github.com/gabapcia/txlens/internal/txresolve"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ERC20 function selectors used for on-chain metadata introspection.
const (
	selectorSymbol   = "0x95d89b41" // symbol()
	selectorDecimals = "0x313ce567" // decimals()
)

// unknownToken is the conservative fallback applied when a contract's
// metadata cannot be resolved. 18 decimals is the overwhelmingly common
// default for EVM tokens.
var unknownToken = txresolve.TokenMetadata{
	Symbol:   "UNKNOWN",
	Name:     "Unknown Token",
	Decimals: nativeDecimals,
}

// tokenMetadata resolves metadata for a token contract: static table first,
// then the shared cache, then on-chain introspection. It never fails: the
// worst case is the UNKNOWN placeholder, so a metadata problem can never
// sink the overall transaction lookup.
func (c *client) tokenMetadata(ctx context.Context, contract common.Address) txresolve.TokenMetadata {
	if md, ok := c.params.Tokens[contract]; ok {
		return md
	}

	key := strings.ToLower(contract.Hex())
	if c.tokenCache != nil {
		md, ok, err := c.tokenCache.GetTokenMetadata(ctx, c.params.Network, key)
		if err != nil {
			logger.Debug(ctx, "token cache lookup failed", "network", c.params.Network, "contract", key, "error", err)
		} else if ok {
			return md
		}
	}

	md := c.introspectToken(ctx, contract)

	if c.tokenCache != nil && md != unknownToken {
		if err := c.tokenCache.SaveTokenMetadata(ctx, c.params.Network, key, md); err != nil {
			logger.Debug(ctx, "token cache save failed", "network", c.params.Network, "contract", key, "error", err)
		}
	}

	return md
}

// introspectToken queries symbol() and decimals() on the contract itself,
// falling back to the UNKNOWN placeholder for whichever call fails.
func (c *client) introspectToken(ctx context.Context, contract common.Address) txresolve.TokenMetadata {
	md := unknownToken

	if ret, err := c.ethCall(ctx, contract, selectorSymbol); err != nil {
		logger.Debug(ctx, "token symbol lookup failed", "network", c.params.Network, "contract", contract.Hex(), "error", err)
	} else if symbol := decodeABIString(ret); symbol != "" {
		md.Symbol = symbol
		md.Name = symbol
	}

	if ret, err := c.ethCall(ctx, contract, selectorDecimals); err != nil {
		logger.Debug(ctx, "token decimals lookup failed", "network", c.params.Network, "contract", contract.Hex(), "error", err)
	} else if len(ret) > 0 {
		if decimals := new(big.Int).SetBytes(ret); decimals.IsInt64() && decimals.Int64() <= 255 {
			md.Decimals = int32(decimals.Int64())
		}
	}

	return md
}

// ethCall performs a read-only contract call against the latest block and
// returns the decoded return bytes.
func (c *client) ethCall(ctx context.Context, contract common.Address, data string) ([]byte, error) {
	raw, err := c.conn.Fetch(ctx, "eth_call", map[string]string{
		"to":   strings.ToLower(contract.Hex()),
		"data": data,
	}, "latest")
	if err != nil {
		return nil, err
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, err
	}

	return hexutil.Decode(encoded)
}

// decodeABIString decodes a solidity string return value. Standard dynamic
// strings carry an offset word and a length word before the bytes; some older
// contracts return a bare bytes32 padded with null bytes instead. Both shapes
// are handled, and the result is trimmed of padding and whitespace.
func decodeABIString(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}

	// The offset and length words come from an untrusted reply, so both
	// bounds checks subtract instead of add: a huge word must not wrap
	// around and slip past the comparison.
	if len(raw) >= 64 {
		offset := new(big.Int).SetBytes(raw[:32])
		if offset.IsUint64() && offset.Uint64() <= uint64(len(raw))-32 {
			start := offset.Uint64() + 32
			length := new(big.Int).SetBytes(raw[offset.Uint64():start])
			if length.IsUint64() && length.Uint64() <= uint64(len(raw))-start {
				return strings.TrimSpace(string(raw[start : start+length.Uint64()]))
			}
		}
	}

	return strings.TrimSpace(string(bytes.TrimRight(raw, "\x00")))
}
