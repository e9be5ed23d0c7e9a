// Package eos implements the txresolve.Resolver contract for EOS over the
// history API. Lookups sweep a fixed list of history nodes in order. EOS has
// no transaction fee in this model (resources are staked, not paid per
// transaction), so the fee is always reported as zero.
package eos

import (
	nethttp "net/http"
	"time"

	transporthttp "github.com/gabapcia/txlens/internal/pkg/transport/http"
	"github.com/gabapcia/txlens/internal/txresolve"

	"github.com/go-resty/resty/v2"
)

// exchangeAccounts lists deposit accounts of exchanges known to require a
// memo to credit incoming transfers. The list is a heuristic: transfers to
// exchanges outside it are not flagged.
var exchangeAccounts = map[string]struct{}{
	"binancecleos": {},
	"huobideposit": {},
	"okbtothemoon": {},
	"krakenkraken": {},
	"bitfinexdep1": {},
	"gateiowallet": {},
}

// client resolves EOS transactions across an ordered history node list.
type client struct {
	http      *resty.Client
	endpoints []string
	now       func() time.Time // clock, replaceable in tests
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

// NewClient creates an EOS resolver sweeping the given history nodes in
// order. The first endpoint is the primary; the rest are fallbacks.
func NewClient(endpoints []string, opts ...Option) *client {
	cfg := config{
		httpClient: transporthttp.NewStandardClient(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &client{
		http:      resty.NewWithClient(cfg.httpClient),
		endpoints: endpoints,
		now:       time.Now,
	}
}
