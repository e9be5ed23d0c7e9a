package tron

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gabapcia/txlens/internal/pkg/logger"
	"github.com/gabapcia/txlens/internal/txresolve"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Initialize logger for tests to prevent nil pointer dereference
	_ = logger.Init(logger.WithLevel("error"))
}

const (
	testHash = "d0807adb3c5412aa150787b944c96ee898c997debdc27e2f6a643c771edb5933"

	// The USDT contract and the black-hole account, in both address forms.
	usdtHex       = "41a614f803b6fd780986a42c78ec9c7f77e6ded13c"
	usdtBase58    = "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"
	burnHex       = "410000000000000000000000000000000000000000"
	burnBase58    = "T9yD14Nj9j7xAB4dbGeiX9h8unkKHxuWwb"
	usdtTopicWord = "000000000000000000000000a614f803b6fd780986a42c78ec9c7f77e6ded13c"
	burnTopicWord = "0000000000000000000000000000000000000000000000000000000000000000"
)

func nativeTransaction(contractRet string) string {
	ret := ""
	if contractRet != "" {
		ret = fmt.Sprintf(`"ret": [{"contractRet": %q}],`, contractRet)
	}

	return fmt.Sprintf(`{
		"txID": %q,
		%s
		"raw_data": {
			"timestamp": 1700000000000,
			"contract": [{
				"type": "TransferContract",
				"parameter": {"value": {
					"owner_address": %q,
					"to_address": %q,
					"amount": 1500000
				}}
			}]
		}
	}`, testHash, ret, usdtHex, burnHex)
}

func trc20Transaction() string {
	return fmt.Sprintf(`{
		"txID": %q,
		"ret": [{"contractRet": "SUCCESS"}],
		"raw_data": {
			"timestamp": 1700000000000,
			"contract": [{
				"type": "TriggerSmartContract",
				"parameter": {"value": {
					"owner_address": %q,
					"contract_address": %q,
					"data": "a9059cbb"
				}}
			}]
		}
	}`, testHash, burnHex, usdtHex)
}

func transferInfo() string {
	return fmt.Sprintf(`{
		"id": %q,
		"fee": 1100000,
		"blockNumber": 55000000,
		"blockTimeStamp": 1700000100000,
		"log": [{
			"address": "a614f803b6fd780986a42c78ec9c7f77e6ded13c",
			"topics": [%q, %q, %q],
			"data": "00000000000000000000000000000000000000000000000000000000000f4240"
		}]
	}`, testHash, transferTopic, burnTopicWord, usdtTopicWord)
}

func newTestClient(t *testing.T, transaction, info string) *client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/wallet/gettransactionbyid", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(transaction))
	})
	mux.HandleFunc("/wallet/gettransactioninfobyid", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(info))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, WithHTTPClient(srv.Client()))
}

func TestClient_ResolveTransaction(t *testing.T) {
	t.Run("native TRX transfer", func(t *testing.T) {
		c := newTestClient(t, nativeTransaction("SUCCESS"), `{"id": "`+testHash+`", "fee": 1100000, "blockNumber": 55000000, "blockTimeStamp": 1700000100000}`)

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		require.NoError(t, err)
		require.NotNil(t, tx)

		assert.Equal(t, testHash, tx.Hash)
		assert.Equal(t, txresolve.NetworkTron, tx.Network)
		assert.Equal(t, txresolve.NetworkTypeNative, tx.NetworkType)
		assert.Equal(t, "TRX", tx.Coin)
		assert.Equal(t, usdtBase58, tx.From)
		assert.Equal(t, burnBase58, tx.To)
		assert.Equal(t, "1.500000", tx.Amount)
		assert.Equal(t, "1.100000 TRX", tx.Fee)
		assert.Equal(t, txresolve.StatusSuccess, tx.Status)
		assert.Equal(t, int64(55000000), tx.BlockNumber)
		assert.Equal(t, int64(1700000100), tx.Timestamp)
		assert.False(t, tx.TimestampEstimated)
		assert.Empty(t, tx.ContractAddress)
	})

	t.Run("TRC20 transfer decoded from the event log", func(t *testing.T) {
		c := newTestClient(t, trc20Transaction(), transferInfo())

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		require.NoError(t, err)
		require.NotNil(t, tx)

		assert.Equal(t, txresolve.NetworkTypeTRC20, tx.NetworkType)
		assert.Equal(t, "USDT", tx.Coin)
		assert.Equal(t, "Tether USD", tx.TokenName)
		assert.Equal(t, usdtBase58, tx.ContractAddress)
		assert.Equal(t, burnBase58, tx.From)
		assert.Equal(t, usdtBase58, tx.To)
		assert.Equal(t, "1.000000", tx.Amount)
		assert.Equal(t, txresolve.StatusSuccess, tx.Status)
	})

	t.Run("missing fee maps to 0 TRX", func(t *testing.T) {
		c := newTestClient(t, nativeTransaction("SUCCESS"), `{"id": "`+testHash+`", "blockNumber": 55000000, "blockTimeStamp": 1700000100000}`)

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		require.NoError(t, err)

		assert.Equal(t, "0 TRX", tx.Fee)
	})

	t.Run("failed contract result", func(t *testing.T) {
		c := newTestClient(t, nativeTransaction("OUT_OF_ENERGY"), `{"id": "`+testHash+`"}`)

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		require.NoError(t, err)

		assert.Equal(t, txresolve.StatusFailed, tx.Status)
	})

	t.Run("missing result keeps the transaction pending", func(t *testing.T) {
		c := newTestClient(t, nativeTransaction(""), `{}`)

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		require.NoError(t, err)

		assert.Equal(t, txresolve.StatusPending, tx.Status)
		assert.Equal(t, int64(1700000000), tx.Timestamp, "the envelope timestamp backs up the missing block time")
	})

	t.Run("no timestamp at all falls back to now", func(t *testing.T) {
		transaction := fmt.Sprintf(`{
			"txID": %q,
			"raw_data": {"contract": [{
				"type": "TransferContract",
				"parameter": {"value": {"owner_address": %q, "to_address": %q, "amount": 1}}
			}]}
		}`, testHash, usdtHex, burnHex)

		c := newTestClient(t, transaction, `{}`)
		now := time.Unix(1700000777, 0)
		c.now = func() time.Time { return now }

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		require.NoError(t, err)

		assert.Equal(t, now.Unix(), tx.Timestamp)
		assert.True(t, tx.TimestampEstimated)
	})

	t.Run("unlisted TRC20 contract falls back to UNKNOWN", func(t *testing.T) {
		info := fmt.Sprintf(`{
			"id": %q,
			"blockTimeStamp": 1700000100000,
			"log": [{
				"address": "1111111111111111111111111111111111111111",
				"topics": [%q, %q, %q],
				"data": "0f4240"
			}]
		}`, testHash, transferTopic, burnTopicWord, usdtTopicWord)

		c := newTestClient(t, trc20Transaction(), info)

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		require.NoError(t, err)

		assert.Equal(t, "UNKNOWN", tx.Coin)
		assert.Equal(t, "Unknown Token", tx.TokenName)
		assert.Equal(t, "1.000000", tx.Amount, "unlisted contracts scale by the chain default")
		assert.NotEmpty(t, tx.ContractAddress)
	})

	t.Run("smart contract call without a transfer event maps to not found", func(t *testing.T) {
		c := newTestClient(t, trc20Transaction(), `{"id": "`+testHash+`", "log": []}`)

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		assert.ErrorIs(t, err, txresolve.ErrTransactionNotFound)
		assert.Nil(t, tx)
	})

	t.Run("unsupported contract type maps to not found", func(t *testing.T) {
		transaction := fmt.Sprintf(`{
			"txID": %q,
			"raw_data": {"contract": [{"type": "FreezeBalanceV2Contract", "parameter": {"value": {}}}]}
		}`, testHash)

		c := newTestClient(t, transaction, `{}`)

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		assert.ErrorIs(t, err, txresolve.ErrTransactionNotFound)
		assert.Nil(t, tx)
	})

	t.Run("unknown hash maps to not found", func(t *testing.T) {
		c := newTestClient(t, `{}`, `{}`)

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		assert.ErrorIs(t, err, txresolve.ErrTransactionNotFound)
		assert.Nil(t, tx)
	})

	t.Run("upstream error surfaces", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		t.Cleanup(srv.Close)

		c := NewClient(srv.URL, WithHTTPClient(srv.Client()))

		tx, err := c.ResolveTransaction(context.Background(), testHash)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, txresolve.ErrTransactionNotFound)
		assert.Nil(t, tx)
	})
}
