// Package tron implements the txresolve.Resolver contract for Tron over the
// wallet HTTP API. Resolution follows a two-call pattern: the transaction
// body carries the contract payload, a separate transaction-info call carries
// fee, block data, and event logs (Tron's equivalent of an EVM receipt).
package tron

import (
	nethttp "net/http"
	"time"

	transporthttp "github.com/gabapcia/txlens/internal/pkg/transport/http"
	"github.com/gabapcia/txlens/internal/txresolve"

	"github.com/go-resty/resty/v2"
)

// trxDecimals is the sun precision of native TRX amounts.
const trxDecimals = 6

// apiKeyHeader authenticates requests against hosted Tron API providers.
const apiKeyHeader = "TRON-PRO-API-KEY"

// wellKnownTokens maps base58 contract addresses of widely used TRC20
// contracts to their metadata. Contracts outside this table fall back to the
// UNKNOWN placeholder; Tron exposes no cheap read-only metadata call worth a
// round trip here.
var wellKnownTokens = map[string]txresolve.TokenMetadata{
	"TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t": {Symbol: "USDT", Name: "Tether USD", Decimals: 6},
	"TEkxiTehnzSmSe2XqrBj4w32RUN966rdz8": {Symbol: "USDC", Name: "USD Coin", Decimals: 6},
}

// unknownToken is the conservative fallback for unlisted TRC20 contracts.
var unknownToken = txresolve.TokenMetadata{
	Symbol:   "UNKNOWN",
	Name:     "Unknown Token",
	Decimals: trxDecimals,
}

// client resolves Tron transactions through one wallet API endpoint.
type client struct {
	http *resty.Client
	now  func() time.Time // clock, replaceable in tests
}

// Ensure client implements the txresolve.Resolver interface at compile time.
var _ txresolve.Resolver = (*client)(nil)

// config holds construction-time settings for the resolver.
type config struct {
	httpClient *nethttp.Client
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*config)

// WithHTTPClient replaces the underlying HTTP client. The default is the
// shared retrying client with the uniform per-request timeout.
func WithHTTPClient(httpClient *nethttp.Client) Option {
	return func(c *config) {
		c.httpClient = httpClient
	}
}

// WithAPIKey attaches a provider API key to every request.
func WithAPIKey(key string) Option {
	return func(c *config) {
		c.apiKey = key
	}
}

// NewClient creates a Tron resolver talking to the wallet API rooted at
// baseURL.
func NewClient(baseURL string, opts ...Option) *client {
	cfg := config{
		httpClient: transporthttp.NewStandardClient(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	httpClient := resty.NewWithClient(cfg.httpClient).SetBaseURL(baseURL)
	if cfg.apiKey != "" {
		httpClient.SetHeader(apiKeyHeader, cfg.apiKey)
	}

	return &client{
		http: httpClient,
		now:  time.Now,
	}
}

// tokenMetadata resolves TRC20 contract metadata from the static table,
// falling back to the UNKNOWN placeholder. It never fails the lookup.
func tokenMetadata(contract string) txresolve.TokenMetadata {
	if md, ok := wellKnownTokens[contract]; ok {
		return md
	}
	return unknownToken
}
