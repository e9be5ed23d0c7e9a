// Package bitcoin implements the txresolve.Resolver contract for Bitcoin over
// an esplora-style REST explorer API. Unlike the account-model chains, a
// single call returns the transaction, its confirmation state, and its block
// data; only the confirmation count needs a second best-effort request.
package bitcoin

import (
	nethttp "net/http"
	"time"

	transporthttp "github.com/gabapcia/txlens/internal/pkg/transport/http"
	"github.com/gabapcia/txlens/internal/txresolve"

	"github.com/go-resty/resty/v2"
)

// btcDecimals is the satoshi precision of Bitcoin amounts.
const btcDecimals = 8

// client resolves Bitcoin transactions through one explorer endpoint.
type client struct {
	http *resty.Client
	now  func() time.Time // clock, replaceable in tests
}

// Ensure client implements the txresolve.Resolver interface at compile time.
var _ txresolve.Resolver = (*client)(nil)

// config holds construction-time settings for the resolver.
type config struct {
	httpClient *nethttp.Client
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

// NewClient creates a Bitcoin resolver talking to the explorer API rooted at
// baseURL.
func NewClient(baseURL string, opts ...Option) *client {
	cfg := config{
		httpClient: transporthttp.NewStandardClient(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &client{
		http: resty.NewWithClient(cfg.httpClient).SetBaseURL(baseURL),
		now:  time.Now,
	}
}
