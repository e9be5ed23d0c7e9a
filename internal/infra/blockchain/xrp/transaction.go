package xrp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gabapcia/txlens/internal/pkg/logger"
	"github.com/gabapcia/txlens/internal/pkg/resilience/failover"
	"github.com/gabapcia/txlens/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/txlens/internal/pkg/units"
	"github.com/gabapcia/txlens/internal/txresolve"
)

// Ledger result codes with dedicated handling.
const (
	resultSuccess         = "tesSUCCESS"
	resultAccountDeletion = "tecNO_DST_INSUF_XRP"
)

// issuedAmount is the object form of an Amount field: an issued-currency
// (IOU) value denominated against a specific issuer.
type issuedAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
	Issuer   string `json:"issuer"`
}

// transactionResponse is the rippled "tx" result. Ledger-native transaction
// fields are capitalized; API envelope fields are lowercase. Amount stays raw
// because its shape depends on the payment kind: a plain string of drops for
// native XRP, an object for issued currencies.
type transactionResponse struct {
	Status          string          `json:"status"`
	ErrorCode       string          `json:"error"`
	TransactionType string          `json:"TransactionType"`
	Account         string          `json:"Account"`
	Destination     string          `json:"Destination"`
	DestinationTag  *int64          `json:"DestinationTag"`
	SourceTag       *int64          `json:"SourceTag"`
	Amount          json.RawMessage `json:"Amount"`
	Fee             string          `json:"Fee"`
	Date            int64           `json:"date"`
	LedgerIndex     int64           `json:"ledger_index"`
	Validated       bool            `json:"validated"`
	Meta            struct {
		TransactionResult string `json:"TransactionResult"`
	} `json:"meta"`
}

// accountInfoResponse is the subset of the rippled "account_info" result
// needed for the destination tag requirement check.
type accountInfoResponse struct {
	Status      string `json:"status"`
	AccountData struct {
		Flags int64 `json:"Flags"`
	} `json:"account_data"`
}

// getTransaction fetches the transaction payload, sweeping endpoints in order
// until one answers. A txnNotFound answer is authoritative and stops the
// sweep.
func (c *client) getTransaction(ctx context.Context, hash string) (*transactionResponse, error) {
	return failover.Do(ctx, c.endpoints, func(ctx context.Context, conn jsonrpc.Client) (*transactionResponse, error) {
		raw, err := conn.Fetch(ctx, "tx", map[string]any{
			"transaction": hash,
			"binary":      false,
		})
		if err != nil {
			return nil, err
		}

		var tx transactionResponse
		if err := json.Unmarshal(raw, &tx); err != nil {
			return nil, err
		}

		switch {
		case tx.ErrorCode == "txnNotFound":
			return nil, failover.Permanent(txresolve.ErrTransactionNotFound)
		case tx.Status == "error":
			return nil, fmt.Errorf("ledger returned error %q", tx.ErrorCode)
		}

		return &tx, nil
	}, failover.WithAttemptTimeout(transactionTimeout))
}

// requiresDestinationTag reports whether the account has the RequireDestTag
// flag set. The check is advisory: if every endpoint fails it defaults to
// false rather than failing the lookup.
func (c *client) requiresDestinationTag(ctx context.Context, account string) bool {
	required, err := failover.Do(ctx, c.endpoints, func(ctx context.Context, conn jsonrpc.Client) (bool, error) {
		raw, err := conn.Fetch(ctx, "account_info", map[string]any{
			"account": account,
		})
		if err != nil {
			return false, err
		}

		var info accountInfoResponse
		if err := json.Unmarshal(raw, &info); err != nil {
			return false, err
		}
		if info.Status == "error" {
			return false, fmt.Errorf("account lookup failed for %q", account)
		}

		return info.AccountData.Flags&lsfRequireDestTag != 0, nil
	}, failover.WithAttemptTimeout(accountFlagTimeout))
	if err != nil {
		logger.Debug(ctx, "destination tag requirement check failed", "account", account, "error", err)
		return false
	}

	return required
}

// ResolveTransaction looks up an XRP Ledger transaction by hash and
// normalizes it into the canonical record. Only Payment transactions are
// resolved; every other transaction type maps to not found.
func (c *client) ResolveTransaction(ctx context.Context, hash string) (*txresolve.NormalizedTransaction, error) {
	tx, err := c.getTransaction(ctx, hash)
	if err != nil {
		return nil, err
	}

	if tx.TransactionType != "Payment" {
		return nil, txresolve.ErrTransactionNotFound
	}

	record := &txresolve.NormalizedTransaction{
		Hash:              hash,
		Network:           txresolve.NetworkXRP,
		From:              tx.Account,
		To:                tx.Destination,
		Amount:            "0",
		Status:            txresolve.StatusPending,
		Fee:               feeFromDrops(tx.Fee),
		BlockNumber:       tx.LedgerIndex,
		DestinationTag:    tx.DestinationTag,
		SourceTag:         tx.SourceTag,
		TransactionResult: tx.Meta.TransactionResult,
	}

	setAmount(record, tx.Amount)

	switch tx.Meta.TransactionResult {
	case "":
		// Not yet validated into a ledger.
	case resultSuccess:
		record.Status = txresolve.StatusSuccess
	case resultAccountDeletion:
		record.Status = txresolve.StatusFailed
		record.Error = "Account Deletion"
		record.ErrorDetails = "the destination account lacks the reserve to receive this payment"
	default:
		record.Status = txresolve.StatusFailed
	}

	if tx.Date > 0 {
		record.SetTimestamp(tx.Date + rippleEpochOffset)
	} else {
		record.SetEstimatedTimestamp(c.now())
	}

	// The tag requirement round trip is only worth making when the payment
	// carries no tag and no earlier anomaly already fills the error fields.
	if record.Error == "" && tx.DestinationTag == nil && tx.Destination != "" && c.requiresDestinationTag(ctx, tx.Destination) {
		record.Error = "Missing Destination Tag"
		record.ErrorDetails = "the destination account requires a destination tag and this payment has none"
	}

	return record, nil
}

// setAmount fills the asset fields from the Amount payload, branching on its
// shape: a JSON string is native XRP in drops, an object is an issued
// currency whose value is already a human-scale decimal.
func setAmount(record *txresolve.NormalizedTransaction, raw json.RawMessage) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return
	}

	if raw[0] == '"' {
		var drops string
		if err := json.Unmarshal(raw, &drops); err != nil {
			return
		}

		record.NetworkType = txresolve.NetworkTypeNative
		record.Coin = "XRP"
		record.TokenName = "Ripple"
		if v, err := strconv.ParseInt(drops, 10, 64); err == nil {
			record.Amount = units.ScaleInt(v, xrpDecimals)
		}
		return
	}

	var issued issuedAmount
	if err := json.Unmarshal(raw, &issued); err != nil {
		return
	}

	record.NetworkType = txresolve.NetworkTypeIOU
	record.Coin = issued.Currency
	record.TokenName = issued.Currency
	record.ContractAddress = issued.Issuer
	if issued.Value != "" {
		record.Amount = issued.Value
	}
}

// feeFromDrops formats a drops fee string in XRP.
func feeFromDrops(drops string) string {
	v, err := strconv.ParseInt(drops, 10, 64)
	if err != nil {
		return "0 XRP"
	}
	return units.FeeInt(v, xrpDecimals, xrpDecimals, "XRP")
}
