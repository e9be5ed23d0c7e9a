package txresolve

import "context"

// TokenMetadata describes a fungible token contract: display symbol, full
// name, and decimal precision of its raw transfer amounts. Each resolver
// carries a static table of well-known contracts as a fast path; misses fall
// back to the shared cache and then to on-chain introspection.
type TokenMetadata struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int32  `json:"decimals"`
}

// TokenCache is an optional shared cache sitting between a resolver's static
// token table and its on-chain metadata lookup. Implementations must be safe
// for concurrent use.
type TokenCache interface {
	// GetTokenMetadata returns the cached metadata for a contract and
	// whether an entry was present.
	GetTokenMetadata(ctx context.Context, network Network, contract string) (TokenMetadata, bool, error)

	// SaveTokenMetadata stores resolved metadata for later lookups.
	SaveTokenMetadata(ctx context.Context, network Network, contract string, metadata TokenMetadata) error
}
