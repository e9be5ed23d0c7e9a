package txresolve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNetworkType_IsToken(t *testing.T) {
	assert.False(t, NetworkTypeNative.IsToken())
	assert.False(t, NetworkType("").IsToken())

	for _, tokenType := range []NetworkType{NetworkTypeERC20, NetworkTypeBEP20, NetworkTypeTRC20, NetworkTypeIOU, NetworkTypeToken} {
		assert.True(t, tokenType.IsToken(), "%s should be a token standard", tokenType)
	}
}

func TestNormalizedTransaction_Timestamps(t *testing.T) {
	t.Run("authoritative block time", func(t *testing.T) {
		var tx NormalizedTransaction
		tx.SetTimestamp(1700000000)

		assert.Equal(t, int64(1700000000), tx.Timestamp)
		assert.Equal(t, "2023-11-14T22:13:20Z", tx.DateTime)
		assert.False(t, tx.TimestampEstimated)
	})

	t.Run("estimated fallback is marked", func(t *testing.T) {
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

		var tx NormalizedTransaction
		tx.SetEstimatedTimestamp(now)

		assert.Equal(t, now.Unix(), tx.Timestamp)
		assert.Equal(t, "2024-06-01T12:00:00Z", tx.DateTime)
		assert.True(t, tx.TimestampEstimated, "fallback timestamps must be flagged as estimated")
	})
}

func TestCandidateNetworks(t *testing.T) {
	t.Run("0x-prefixed 32-byte hashes are EVM-family", func(t *testing.T) {
		candidates := CandidateNetworks("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")
		assert.Equal(t, []Network{NetworkEthereum, NetworkBSC, NetworkPolygon}, candidates)
	})

	t.Run("bare lower-case hashes favor bitcoin first", func(t *testing.T) {
		candidates := CandidateNetworks("4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b")
		assert.Equal(t, []Network{NetworkBitcoin, NetworkTron, NetworkEOS, NetworkXRP}, candidates)
	})

	t.Run("all-upper-case hashes favor xrp first", func(t *testing.T) {
		candidates := CandidateNetworks("73734B611DDA23D3F5F62E20A173B78AB8406AC5015094DA53F53D39B9EDB06C")
		assert.Equal(t, Network("xrp"), candidates[0])
	})

	t.Run("anything else matches nothing", func(t *testing.T) {
		assert.Nil(t, CandidateNetworks("0x1234"))
		assert.Nil(t, CandidateNetworks("not-a-hash"))
		assert.Nil(t, CandidateNetworks(""))
	})
}
