package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gabapcia/txlens/internal/txresolve"

	"github.com/redis/go-redis/v9"
)

// tokenKeyPrefix is the namespace prefix for all cached token metadata keys.
const tokenKeyPrefix = "token"

// tokenMetadataTTL bounds how long resolved metadata is reused before the
// next lookup introspects the contract again. Token metadata is effectively
// immutable, but a bounded TTL lets a bad entry age out.
const tokenMetadataTTL = 24 * time.Hour

// tokenMetadataKey constructs the Redis key under which metadata for a
// specific token contract is cached. The format is:
//
//	"token:metadata:<network>:<contract>"
func tokenMetadataKey(network txresolve.Network, contract string) string {
	return fmt.Sprintf("%s:metadata:%s:%s", tokenKeyPrefix, network, contract)
}

// GetTokenMetadata retrieves cached metadata for a token contract.
//
// The boolean result reports whether an entry was present; a cache miss is
// not an error. Entries that fail to decode are reported as misses so a
// corrupt value heals itself on the next save.
func (c *client) GetTokenMetadata(ctx context.Context, network txresolve.Network, contract string) (txresolve.TokenMetadata, bool, error) {
	val, err := c.conn.Get(ctx, tokenMetadataKey(network, contract)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return txresolve.TokenMetadata{}, false, nil
		}

		return txresolve.TokenMetadata{}, false, err
	}

	var metadata txresolve.TokenMetadata
	if err := json.Unmarshal([]byte(val), &metadata); err != nil {
		return txresolve.TokenMetadata{}, false, nil
	}

	return metadata, true, nil
}

// SaveTokenMetadata caches resolved metadata for a token contract, encoded as
// JSON with a bounded TTL.
func (c *client) SaveTokenMetadata(ctx context.Context, network txresolve.Network, contract string, metadata txresolve.TokenMetadata) error {
	val, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	return c.conn.Set(ctx, tokenMetadataKey(network, contract), val, tokenMetadataTTL).Err()
}

// Compile-time assertion to ensure client implements the TokenCache interface.
var _ txresolve.TokenCache = new(client)
