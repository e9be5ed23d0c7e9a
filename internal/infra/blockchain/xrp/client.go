// Package xrp implements the txresolve.Resolver contract for the XRP Ledger.
// Lookups sweep a fixed list of rippled endpoints in order, taking the first
// valid answer; rippled reports errors inside the result payload rather than
// as JSON-RPC error objects, so each response is inspected before it counts
// as a success.
package xrp

import (
	nethttp "net/http"
	"time"

	"github.com/gabapcia/txlens/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/txlens/internal/txresolve"
)

const (
	// xrpDecimals is the drop precision of native XRP amounts.
	xrpDecimals = 6

	// rippleEpochOffset converts Ripple-epoch seconds (from 2000-01-01) to
	// Unix seconds.
	rippleEpochOffset = 946684800

	// lsfRequireDestTag is the account root flag an account sets to reject
	// payments without a destination tag.
	lsfRequireDestTag = 0x00020000
)

// Per-attempt deadlines for the two upstream calls. The flag check is
// advisory and gets a tighter budget than the transaction fetch.
const (
	transactionTimeout = 5 * time.Second
	accountFlagTimeout = 3 * time.Second
)

// client resolves XRP Ledger transactions across an ordered endpoint list.
type client struct {
	endpoints []jsonrpc.Client
	now       func() time.Time // clock, replaceable in tests
}

// Ensure client implements the txresolve.Resolver interface at compile time.
var _ txresolve.Resolver = (*client)(nil)

// NewClient creates an XRP resolver sweeping the given rippled endpoints in
// order. The first endpoint is the primary; the rest are fallbacks.
func NewClient(httpClient *nethttp.Client, endpoints []string) *client {
	conns := make([]jsonrpc.Client, 0, len(endpoints))
	for _, endpoint := range endpoints {
		conns = append(conns, jsonrpc.NewClient(httpClient, endpoint))
	}

	return &client{
		endpoints: conns,
		now:       time.Now,
	}
}
