package txresolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabapcia/txlens/internal/pkg/logger"
)

// ErrNetworkNotSupported is returned when a lookup names a network that has
// no registered resolver. Unlike upstream failures, this is a caller error
// and is not absorbed.
var ErrNetworkNotSupported = errors.New("network not supported")

// Service dispatches transaction lookups to the per-chain resolvers.
//
// Resolution is best-effort: a nil record means "could not resolve", whether
// the hash does not exist on that chain or the upstream was unavailable, and
// callers must not treat it as a retriable failure. Upstream errors never
// propagate past this boundary; they are logged and absorbed.
type Service interface {
	// Resolve looks up hash on the given network. It returns the canonical
	// record, or nil when the transaction could not be resolved. The only
	// error returned is ErrNetworkNotSupported.
	Resolve(ctx context.Context, network Network, hash string) (*NormalizedTransaction, error)

	// ResolveAuto looks up hash on every network its shape may belong to,
	// in heuristic order, returning the first successful record or nil
	// when no candidate network resolves it.
	ResolveAuto(ctx context.Context, hash string) *NormalizedTransaction

	// SupportedNetworks lists the networks with a registered resolver, in
	// the canonical order.
	SupportedNetworks() []Network
}

// service is the internal implementation of the Service interface.
type service struct {
	resolvers map[Network]Resolver
}

// Compile-time check to ensure *service implements the Service interface.
var _ Service = (*service)(nil)

// New creates a dispatcher over the given per-chain resolvers. The map is
// copied; registering a nil resolver for a network is equivalent to leaving
// the network out.
func New(resolvers map[Network]Resolver) *service {
	rs := make(map[Network]Resolver, len(resolvers))
	for network, r := range resolvers {
		if r != nil {
			rs[network] = r
		}
	}

	return &service{resolvers: rs}
}

func (s *service) Resolve(ctx context.Context, network Network, hash string) (*NormalizedTransaction, error) {
	resolver, ok := s.resolvers[network]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNetworkNotSupported, network)
	}

	tx, err := resolver.ResolveTransaction(ctx, hash)
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			logger.Debug(ctx, "transaction not found", "network", network, "hash", hash)
		} else {
			logger.Warn(ctx, "transaction lookup failed", "network", network, "hash", hash, "error", err)
		}
		return nil, nil
	}

	return tx, nil
}

func (s *service) ResolveAuto(ctx context.Context, hash string) *NormalizedTransaction {
	for _, network := range CandidateNetworks(hash) {
		if _, ok := s.resolvers[network]; !ok {
			continue
		}

		tx, err := s.Resolve(ctx, network, hash)
		if err == nil && tx != nil {
			return tx
		}

		if ctx.Err() != nil {
			return nil
		}
	}

	return nil
}

func (s *service) SupportedNetworks() []Network {
	supported := make([]Network, 0, len(s.resolvers))
	for _, network := range Networks() {
		if _, ok := s.resolvers[network]; ok {
			supported = append(supported, network)
		}
	}
	return supported
}
