package eos

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gabapcia/txlens/internal/pkg/resilience/failover"
	"github.com/gabapcia/txlens/internal/txresolve"
)

// systemTokenContract is the contract managing the native EOS token.
const systemTokenContract = "eosio.token"

// blockTimeLayout parses history node block times, which are ISO-8601 in UTC
// without a zone suffix.
const blockTimeLayout = "2006-01-02T15:04:05"

// transferData is the decoded payload of a token transfer action.
type transferData struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Quantity string `json:"quantity"`
	Memo     string `json:"memo"`
}

// action is one action inside a transaction. Data stays raw: history nodes
// emit a decoded object when the contract ABI is known and a hex string
// otherwise.
type action struct {
	Account string          `json:"account"`
	Name    string          `json:"name"`
	Data    json.RawMessage `json:"data"`
}

// transactionResponse is the history node transaction payload.
type transactionResponse struct {
	ID  string `json:"id"`
	Trx struct {
		Receipt struct {
			Status string `json:"status"`
		} `json:"receipt"`
		Trx struct {
			Actions []action `json:"actions"`
		} `json:"trx"`
	} `json:"trx"`
	BlockNum  int64  `json:"block_num"`
	BlockTime string `json:"block_time"`
	Error     *struct {
		Name string `json:"name"`
	} `json:"error"`
}

// transferAction returns the first decodable transfer action, if any.
func (tx *transactionResponse) transferAction() (action, transferData, bool) {
	for _, act := range tx.Trx.Trx.Actions {
		if act.Name != "transfer" {
			continue
		}

		var data transferData
		if err := json.Unmarshal(act.Data, &data); err != nil || data.Quantity == "" {
			continue
		}

		return act, data, true
	}

	return action{}, transferData{}, false
}

// getTransaction fetches the transaction payload, sweeping history nodes in
// order until one answers. A tx_not_found answer is authoritative and stops
// the sweep.
func (c *client) getTransaction(ctx context.Context, hash string) (*transactionResponse, error) {
	return failover.Do(ctx, c.endpoints, func(ctx context.Context, endpoint string) (*transactionResponse, error) {
		res, err := c.http.R().
			SetContext(ctx).
			SetBody(map[string]string{"id": hash}).
			Post(endpoint + "/v1/history/get_transaction")
		if err != nil {
			return nil, err
		}

		var tx transactionResponse
		if err := json.Unmarshal(res.Body(), &tx); err != nil {
			return nil, fmt.Errorf("node %s: decoding response: %w", endpoint, err)
		}

		switch {
		case tx.Error != nil && tx.Error.Name == "tx_not_found":
			return nil, failover.Permanent(txresolve.ErrTransactionNotFound)
		case res.IsError():
			return nil, fmt.Errorf("node %s returned status %d", endpoint, res.StatusCode())
		case tx.ID == "":
			return nil, fmt.Errorf("node %s returned no transaction", endpoint)
		}

		return &tx, nil
	})
}

// splitQuantity breaks an EOS asset quantity ("1.0000 EOS") into its decimal
// amount and symbol.
func splitQuantity(quantity string) (amount, symbol string) {
	parts := strings.Fields(quantity)
	if len(parts) != 2 {
		return "0", ""
	}
	return parts[0], parts[1]
}

// ResolveTransaction looks up an EOS transaction by hash and normalizes it
// into the canonical record. Transactions without a decodable transfer
// action still produce a partial record (amount "0", destination "Unknown")
// rather than not found.
func (c *client) ResolveTransaction(ctx context.Context, hash string) (*txresolve.NormalizedTransaction, error) {
	tx, err := c.getTransaction(ctx, hash)
	if err != nil {
		return nil, err
	}

	record := &txresolve.NormalizedTransaction{
		Hash:        hash,
		Network:     txresolve.NetworkEOS,
		NetworkType: txresolve.NetworkTypeNative,
		Coin:        "EOS",
		TokenName:   "EOS",
		To:          "Unknown",
		Amount:      "0",
		Status:      txresolve.StatusPending,
		Fee:         "0 EOS",
		BlockNumber: tx.BlockNum,
	}

	switch tx.Trx.Receipt.Status {
	case "":
		// No receipt yet.
	case "executed":
		record.Status = txresolve.StatusSuccess
	default:
		record.Status = txresolve.StatusFailed
	}

	if blockTime, err := time.Parse(blockTimeLayout, strings.SplitN(tx.BlockTime, ".", 2)[0]); err == nil {
		record.SetTimestamp(blockTime.UTC().Unix())
	} else {
		record.SetEstimatedTimestamp(c.now())
	}

	act, transfer, ok := tx.transferAction()
	if !ok {
		return record, nil
	}

	amount, symbol := splitQuantity(transfer.Quantity)
	record.From = transfer.From
	record.To = transfer.To
	record.Amount = amount
	record.Memo = transfer.Memo

	if act.Account != systemTokenContract || symbol != "EOS" {
		record.NetworkType = txresolve.NetworkTypeToken
		record.Coin = symbol
		record.TokenName = symbol
		record.ContractAddress = act.Account
	}

	if strings.TrimSpace(transfer.Memo) == "" {
		if _, exchange := exchangeAccounts[transfer.To]; exchange {
			record.Error = "Missing Memo"
			record.ErrorDetails = "the destination exchange account requires a memo and this transfer has none"
		}
	}

	return record, nil
}
