package eos

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gabapcia/txlens/internal/pkg/logger"
	"github.com/gabapcia/txlens/internal/txresolve"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Initialize logger for tests to prevent nil pointer dereference
	_ = logger.Init(logger.WithLevel("error"))
}

const testHash = "b3a5b4b1a2b72b24b4b6b0d8b73fd50cf1e4ca4fcd4ff9db80a1b34c2b8a4f8e"

// historyNode fakes an EOS history endpoint, answering get_transaction with a
// canned payload and counting calls.
type historyNode struct {
	srv      *httptest.Server
	response string
	status   int
	calls    atomic.Int64
}

func newHistoryNode(t *testing.T, response string) *historyNode {
	t.Helper()

	node := &historyNode{response: response, status: http.StatusOK}
	node.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/history/get_transaction", r.URL.Path)
		node.calls.Add(1)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(node.status)
		_, _ = w.Write([]byte(node.response))
	}))
	t.Cleanup(node.srv.Close)

	return node
}

func transferTransaction(account, quantity, to, memo string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"trx": {
			"receipt": {"status": "executed"},
			"trx": {"actions": [{
				"account": %q,
				"name": "transfer",
				"data": {"from": "alicewallet1", "to": %q, "quantity": %q, "memo": %q}
			}]}
		},
		"block_num": 340000000,
		"block_time": "2023-11-14T22:13:20.500"
	}`, testHash, account, to, quantity, memo)
}

func TestClient_ResolveTransaction(t *testing.T) {
	t.Run("native EOS transfer", func(t *testing.T) {
		node := newHistoryNode(t, transferTransaction(systemTokenContract, "1.5000 EOS", "bobwallet111", "deposit 42"))
		c := NewClient([]string{node.srv.URL}, WithHTTPClient(node.srv.Client()))

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		require.NoError(t, err)
		require.NotNil(t, tx)

		assert.Equal(t, testHash, tx.Hash)
		assert.Equal(t, txresolve.NetworkEOS, tx.Network)
		assert.Equal(t, txresolve.NetworkTypeNative, tx.NetworkType)
		assert.Equal(t, "EOS", tx.Coin)
		assert.Equal(t, "alicewallet1", tx.From)
		assert.Equal(t, "bobwallet111", tx.To)
		assert.Equal(t, "1.5000", tx.Amount)
		assert.Equal(t, "deposit 42", tx.Memo)
		assert.Equal(t, "0 EOS", tx.Fee, "EOS charges no per-transaction fee")
		assert.Equal(t, txresolve.StatusSuccess, tx.Status)
		assert.Equal(t, int64(340000000), tx.BlockNumber)
		assert.Equal(t, int64(1700000000), tx.Timestamp)
		assert.False(t, tx.TimestampEstimated)
		assert.Empty(t, tx.ContractAddress)
		assert.Empty(t, tx.Error)
	})

	t.Run("token transfer from a non-system contract", func(t *testing.T) {
		node := newHistoryNode(t, transferTransaction("tethertether", "5.0000 USDT", "bobwallet111", "x"))
		c := NewClient([]string{node.srv.URL}, WithHTTPClient(node.srv.Client()))

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		require.NoError(t, err)

		assert.Equal(t, txresolve.NetworkTypeToken, tx.NetworkType)
		assert.Equal(t, "USDT", tx.Coin)
		assert.Equal(t, "tethertether", tx.ContractAddress)
		assert.Equal(t, "5.0000", tx.Amount)
	})

	t.Run("empty memo to a known exchange account is flagged", func(t *testing.T) {
		node := newHistoryNode(t, transferTransaction(systemTokenContract, "1.0000 EOS", "binancecleos", ""))
		c := NewClient([]string{node.srv.URL}, WithHTTPClient(node.srv.Client()))

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		require.NoError(t, err)

		assert.Equal(t, "Missing Memo", tx.Error)
		assert.NotEmpty(t, tx.ErrorDetails)
	})

	t.Run("whitespace-only memo counts as missing", func(t *testing.T) {
		node := newHistoryNode(t, transferTransaction(systemTokenContract, "1.0000 EOS", "huobideposit", "   "))
		c := NewClient([]string{node.srv.URL}, WithHTTPClient(node.srv.Client()))

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		require.NoError(t, err)

		assert.Equal(t, "Missing Memo", tx.Error)
	})

	t.Run("empty memo to an unlisted account is not flagged", func(t *testing.T) {
		node := newHistoryNode(t, transferTransaction(systemTokenContract, "1.0000 EOS", "bobwallet111", ""))
		c := NewClient([]string{node.srv.URL}, WithHTTPClient(node.srv.Client()))

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		require.NoError(t, err)

		assert.Empty(t, tx.Error, "the exchange list is an allow-list, not a guess")
	})

	t.Run("transaction without a transfer action yields a partial record", func(t *testing.T) {
		response := fmt.Sprintf(`{
			"id": %q,
			"trx": {
				"receipt": {"status": "executed"},
				"trx": {"actions": [{"account": "eosio", "name": "voteproducer", "data": {"voter": "alicewallet1"}}]}
			},
			"block_num": 340000000,
			"block_time": "2023-11-14T22:13:20.500"
		}`, testHash)

		node := newHistoryNode(t, response)
		c := NewClient([]string{node.srv.URL}, WithHTTPClient(node.srv.Client()))

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		require.NoError(t, err)
		require.NotNil(t, tx, "non-transfer transactions are reported, not dropped")

		assert.Equal(t, "0", tx.Amount)
		assert.Equal(t, "Unknown", tx.To)
		assert.Equal(t, txresolve.StatusSuccess, tx.Status)
	})

	t.Run("undecoded hex action data is treated as no transfer", func(t *testing.T) {
		response := fmt.Sprintf(`{
			"id": %q,
			"trx": {
				"receipt": {"status": "executed"},
				"trx": {"actions": [{"account": "eosio.token", "name": "transfer", "data": "00aabbcc"}]}
			},
			"block_num": 340000000,
			"block_time": "2023-11-14T22:13:20.500"
		}`, testHash)

		node := newHistoryNode(t, response)
		c := NewClient([]string{node.srv.URL}, WithHTTPClient(node.srv.Client()))

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		require.NoError(t, err)

		assert.Equal(t, "0", tx.Amount)
		assert.Equal(t, "Unknown", tx.To)
	})

	t.Run("failed execution status", func(t *testing.T) {
		response := fmt.Sprintf(`{
			"id": %q,
			"trx": {
				"receipt": {"status": "hard_fail"},
				"trx": {"actions": []}
			},
			"block_num": 340000000,
			"block_time": "2023-11-14T22:13:20.500"
		}`, testHash)

		node := newHistoryNode(t, response)
		c := NewClient([]string{node.srv.URL}, WithHTTPClient(node.srv.Client()))

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		require.NoError(t, err)

		assert.Equal(t, txresolve.StatusFailed, tx.Status)
	})

	t.Run("tx_not_found stops the endpoint sweep", func(t *testing.T) {
		primary := newHistoryNode(t, `{"code": 500, "error": {"name": "tx_not_found"}}`)
		primary.status = http.StatusInternalServerError
		fallback := newHistoryNode(t, transferTransaction(systemTokenContract, "1.0000 EOS", "bobwallet111", "x"))

		c := NewClient([]string{primary.srv.URL, fallback.srv.URL}, WithHTTPClient(primary.srv.Client()))

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		assert.ErrorIs(t, err, txresolve.ErrTransactionNotFound)
		assert.Nil(t, tx)
		assert.Zero(t, fallback.calls.Load(), "a definitive answer must not fall through")
	})

	t.Run("transient node failure falls through to the next node", func(t *testing.T) {
		broken := newHistoryNode(t, `{"code": 500, "error": {"name": "internal_service_error"}}`)
		broken.status = http.StatusInternalServerError
		healthy := newHistoryNode(t, transferTransaction(systemTokenContract, "2.0000 EOS", "bobwallet111", "x"))

		c := NewClient([]string{broken.srv.URL, healthy.srv.URL}, WithHTTPClient(broken.srv.Client()))

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		require.NoError(t, err)

		assert.Equal(t, "2.0000", tx.Amount)
		assert.Equal(t, int64(1), healthy.calls.Load())
	})
}
