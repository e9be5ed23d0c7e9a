// Package evm implements the txresolve.Resolver contract for EVM-compatible
// networks (Ethereum, BSC, Polygon) over a JSON-RPC client. The resolution
// logic is identical across the family; each chain differs only in its
// endpoint, native asset, token standard tag, and well-known token table.
package evm

import (
	"time"

	"github.com/gabapcia/txlens/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/txlens/internal/txresolve"

	"github.com/ethereum/go-ethereum/common"
)

// nativeDecimals is the decimal precision of every EVM native asset.
const nativeDecimals = 18

// ChainParams describes one EVM-compatible network: its identity, native
// asset, the token standard its contracts follow, and a static table of
// well-known tokens used as a fast path before any on-chain metadata lookup.
type ChainParams struct {
	Network       txresolve.Network
	NativeSymbol  string
	NativeName    string
	TokenStandard txresolve.NetworkType
	Tokens        map[common.Address]txresolve.TokenMetadata
}

// Ethereum returns the chain parameters for Ethereum mainnet.
func Ethereum() ChainParams {
	return ChainParams{
		Network:       txresolve.NetworkEthereum,
		NativeSymbol:  "ETH",
		NativeName:    "Ether",
		TokenStandard: txresolve.NetworkTypeERC20,
		Tokens: map[common.Address]txresolve.TokenMetadata{
			common.HexToAddress("0xdac17f958d2ee523a2206206994597c13d831ec7"): {Symbol: "USDT", Name: "Tether USD", Decimals: 6},
			common.HexToAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"): {Symbol: "USDC", Name: "USD Coin", Decimals: 6},
			common.HexToAddress("0x6b175474e89094c44da98b954eedeac495271d0f"): {Symbol: "DAI", Name: "Dai Stablecoin", Decimals: 18},
			common.HexToAddress("0x2260fac5e5542a773aa44fbcfedf7c193bc2c599"): {Symbol: "WBTC", Name: "Wrapped BTC", Decimals: 8},
		},
	}
}

// BinanceSmartChain returns the chain parameters for BNB Smart Chain.
func BinanceSmartChain() ChainParams {
	return ChainParams{
		Network:       txresolve.NetworkBSC,
		NativeSymbol:  "BNB",
		NativeName:    "BNB",
		TokenStandard: txresolve.NetworkTypeBEP20,
		Tokens: map[common.Address]txresolve.TokenMetadata{
			common.HexToAddress("0x55d398326f99059ff775485246999027b3197955"): {Symbol: "USDT", Name: "Tether USD", Decimals: 18},
			common.HexToAddress("0x8ac76a51cc950d9822d68b83fe1ad97b32cd580d"): {Symbol: "USDC", Name: "USD Coin", Decimals: 18},
			common.HexToAddress("0xe9e7cea3dedca5984780bafc599bd69add087d56"): {Symbol: "BUSD", Name: "BUSD Token", Decimals: 18},
		},
	}
}

// Polygon returns the chain parameters for Polygon PoS.
func Polygon() ChainParams {
	return ChainParams{
		Network:       txresolve.NetworkPolygon,
		NativeSymbol:  "MATIC",
		NativeName:    "Matic",
		TokenStandard: txresolve.NetworkTypeToken,
		Tokens: map[common.Address]txresolve.TokenMetadata{
			common.HexToAddress("0xc2132d05d31c914a87c6611c10748aeb04b58e8f"): {Symbol: "USDT", Name: "Tether USD", Decimals: 6},
			common.HexToAddress("0x2791bca1f2de4661ed88a30c99a7a9449aa84174"): {Symbol: "USDC", Name: "USD Coin (PoS)", Decimals: 6},
			common.HexToAddress("0x0d500b1d8e8ef31e21c99d1db9a6444d3adf1270"): {Symbol: "WMATIC", Name: "Wrapped Matic", Decimals: 18},
		},
	}
}

// client resolves transactions for a single EVM-compatible network.
type client struct {
	conn       jsonrpc.Client       // JSON-RPC connection to the chain's node
	params     ChainParams          // per-chain identity and token table
	tokenCache txresolve.TokenCache // optional shared metadata cache
	now        func() time.Time     // clock, replaceable in tests
}

// Ensure client implements the txresolve.Resolver interface at compile time.
var _ txresolve.Resolver = (*client)(nil)

// Option configures optional client behavior.
type Option func(*client)

// WithTokenCache plugs a shared token-metadata cache between the static token
// table and the on-chain metadata lookup. Cache failures are ignored; the
// cache only ever short-circuits work.
func WithTokenCache(cache txresolve.TokenCache) Option {
	return func(c *client) {
		c.tokenCache = cache
	}
}

// withClock replaces the wall clock used for estimated timestamps.
func withClock(now func() time.Time) Option {
	return func(c *client) {
		c.now = now
	}
}

// NewClient creates a resolver for the EVM network described by params,
// communicating through the given JSON-RPC connection.
func NewClient(conn jsonrpc.Client, params ChainParams, opts ...Option) *client {
	c := &client{
		conn:   conn,
		params: params,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}
