package bitcoin

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabapcia/txlens/internal/pkg/logger"
	"github.com/gabapcia/txlens/internal/pkg/units"
	"github.com/gabapcia/txlens/internal/txresolve"
)

// txOutput is one spendable output: the receiving address and the amount in
// satoshis. The same shape describes an input's previous output.
type txOutput struct {
	Address string `json:"scriptpubkey_address"`
	Value   int64  `json:"value"`
}

// txInput references the output being spent. Prevout is null for coinbase
// inputs.
type txInput struct {
	Prevout *txOutput `json:"prevout"`
}

// txStatus carries the confirmation state and, once confirmed, the block the
// transaction landed in.
type txStatus struct {
	Confirmed   bool  `json:"confirmed"`
	BlockHeight int64 `json:"block_height"`
	BlockTime   int64 `json:"block_time"`
}

// transactionResponse is the explorer's transaction payload.
type transactionResponse struct {
	TxID   string     `json:"txid"`
	Vin    []txInput  `json:"vin"`
	Vout   []txOutput `json:"vout"`
	Status txStatus   `json:"status"`
}

// fee is the total input value minus the total output value, in satoshis.
// Coinbase inputs carry no previous output and contribute nothing; a coinbase
// transaction therefore reports a zero fee instead of a negative one.
func (tx transactionResponse) fee() int64 {
	var in, out int64
	for _, vin := range tx.Vin {
		if vin.Prevout != nil {
			in += vin.Prevout.Value
		}
	}
	for _, vout := range tx.Vout {
		out += vout.Value
	}

	if fee := in - out; fee > 0 {
		return fee
	}
	return 0
}

// getTransaction fetches the transaction payload by hash, mapping a 404 to
// txresolve.ErrTransactionNotFound.
func (c *client) getTransaction(ctx context.Context, hash string) (*transactionResponse, error) {
	var tx transactionResponse

	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&tx).
		Get("/tx/" + hash)
	if err != nil {
		return nil, err
	}

	switch {
	case res.StatusCode() == http.StatusNotFound:
		return nil, txresolve.ErrTransactionNotFound
	case res.IsError():
		return nil, fmt.Errorf("transaction lookup returned status %d", res.StatusCode())
	}

	return &tx, nil
}

// confirmations computes the confirmation count from the current chain tip.
// It is best effort: when the tip cannot be fetched the count is reported as
// zero rather than failing the lookup.
func (c *client) confirmations(ctx context.Context, blockHeight int64) int64 {
	res, err := c.http.R().
		SetContext(ctx).
		Get("/blocks/tip/height")
	if err != nil || res.IsError() {
		logger.Debug(ctx, "chain tip lookup failed", "error", err)
		return 0
	}

	tip, err := strconv.ParseInt(strings.TrimSpace(res.String()), 10, 64)
	if err != nil || tip < blockHeight {
		return 0
	}

	return tip - blockHeight + 1
}

// ResolveTransaction looks up a Bitcoin transaction by hash and normalizes it
// into the canonical record. The first output is treated as the primary
// transfer destination and amount; multi-output transactions are not fully
// represented by this heuristic.
func (c *client) ResolveTransaction(ctx context.Context, hash string) (*txresolve.NormalizedTransaction, error) {
	tx, err := c.getTransaction(ctx, hash)
	if err != nil {
		return nil, err
	}

	record := &txresolve.NormalizedTransaction{
		Hash:        hash,
		Network:     txresolve.NetworkBitcoin,
		NetworkType: txresolve.NetworkTypeNative,
		Coin:        "BTC",
		TokenName:   "Bitcoin",
		Amount:      "0",
		Status:      txresolve.StatusPending,
		Fee:         units.FeeInt(tx.fee(), btcDecimals, btcDecimals, "BTC"),
	}

	if len(tx.Vin) > 0 && tx.Vin[0].Prevout != nil {
		record.From = tx.Vin[0].Prevout.Address
	}
	if len(tx.Vout) > 0 {
		record.To = tx.Vout[0].Address
		record.Amount = units.ScaleInt(tx.Vout[0].Value, btcDecimals)
	}

	if tx.Status.Confirmed {
		record.Status = txresolve.StatusSuccess
		record.BlockNumber = tx.Status.BlockHeight
		record.Confirmations = c.confirmations(ctx, tx.Status.BlockHeight)
	}

	if tx.Status.BlockTime > 0 {
		record.SetTimestamp(tx.Status.BlockTime)
	} else {
		record.SetEstimatedTimestamp(c.now())
	}

	return record, nil
}
