package txresolve

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// ErrTransactionNotFound is returned by a Resolver when the upstream confirms
// the hash does not exist on that chain, or when the transaction is of a type
// the resolver does not handle. It is an expected outcome, not a failure.
var ErrTransactionNotFound = errors.New("transaction not found")

// Resolver resolves a transaction hash on a single chain into the canonical
// record. Implementations make one or more upstream HTTP calls per
// invocation, hold no mutable state across calls, and honor context
// cancellation on every call.
//
// Errors other than ErrTransactionNotFound indicate that the upstream was
// unavailable or returned a payload the resolver could not decode.
type Resolver interface {
	ResolveTransaction(ctx context.Context, hash string) (*NormalizedTransaction, error)
}

var (
	evmHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
	rawHashPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
)

// CandidateNetworks guesses which networks a transaction hash may belong to,
// based purely on its shape, in the order a dispatcher should try them.
//
// A 0x-prefixed 32-byte hex string is EVM-family. A bare 32-byte hex string
// is ambiguous between Bitcoin, Tron, EOS, and XRP; XRP is listed first when
// the hash is entirely upper-case, since XRP ledgers render hashes that way.
// Anything else matches nothing.
func CandidateNetworks(hash string) []Network {
	switch {
	case evmHashPattern.MatchString(hash):
		return []Network{NetworkEthereum, NetworkBSC, NetworkPolygon}
	case rawHashPattern.MatchString(hash):
		if hash == strings.ToUpper(hash) && hash != strings.ToLower(hash) {
			return []Network{NetworkXRP, NetworkBitcoin, NetworkTron, NetworkEOS}
		}
		return []Network{NetworkBitcoin, NetworkTron, NetworkEOS, NetworkXRP}
	default:
		return nil
	}
}
