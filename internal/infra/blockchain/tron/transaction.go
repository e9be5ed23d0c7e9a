package tron

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/gabapcia/txlens/internal/pkg/logger"
	"github.com/gabapcia/txlens/internal/pkg/units"
	"github.com/gabapcia/txlens/internal/txresolve"

	"github.com/tidwall/gjson"
)

// Contract types the resolver understands. Any other type (voting, resource
// freezing, account management) has no transfer to normalize.
const (
	contractTypeTransfer     = "TransferContract"
	contractTypeSmartTrigger = "TriggerSmartContract"
)

// transferTopic is the keccak256 hash of Transfer(address,address,uint256),
// as Tron emits it: no 0x prefix.
const transferTopic = "ddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"

// post issues a wallet API call with the transaction hash as the lookup key
// and returns the parsed response payload.
func (c *client) post(ctx context.Context, path, hash string) (gjson.Result, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"value": hash}).
		Post(path)
	if err != nil {
		return gjson.Result{}, err
	}
	if res.IsError() {
		return gjson.Result{}, fmt.Errorf("%s returned status %d", path, res.StatusCode())
	}

	return gjson.ParseBytes(res.Body()), nil
}

// getTransaction fetches the transaction body. The API answers an unknown
// hash with an empty object rather than an error status.
func (c *client) getTransaction(ctx context.Context, hash string) (gjson.Result, error) {
	tx, err := c.post(ctx, "/wallet/gettransactionbyid", hash)
	if err != nil {
		return gjson.Result{}, err
	}
	if !tx.Get("txID").Exists() {
		return gjson.Result{}, txresolve.ErrTransactionNotFound
	}

	return tx, nil
}

// findTransferLog scans the transaction-info logs for a TRC20 Transfer event.
func findTransferLog(info gjson.Result) (gjson.Result, bool) {
	for _, log := range info.Get("log").Array() {
		topic := strings.TrimPrefix(log.Get("topics.0").String(), "0x")
		if strings.EqualFold(topic, transferTopic) && len(log.Get("topics").Array()) >= 3 {
			return log, true
		}
	}
	return gjson.Result{}, false
}

// amountFromHex parses a hex quantity as emitted in event log data. A value
// that cannot be parsed yields nil, which the units package renders as "0".
func amountFromHex(data string) *big.Int {
	v, ok := new(big.Int).SetString(strings.TrimPrefix(strings.TrimPrefix(data, "0x"), "0X"), 16)
	if !ok {
		return nil
	}
	return v
}

// ResolveTransaction looks up a Tron transaction by hash and normalizes it
// into the canonical record. TransferContract payloads are native TRX moves;
// TriggerSmartContract payloads are resolved as TRC20 transfers via their
// Transfer event log. Every other contract type maps to not found.
func (c *client) ResolveTransaction(ctx context.Context, hash string) (*txresolve.NormalizedTransaction, error) {
	tx, err := c.getTransaction(ctx, hash)
	if err != nil {
		return nil, err
	}

	info, err := c.post(ctx, "/wallet/gettransactioninfobyid", hash)
	if err != nil {
		return nil, err
	}

	record := &txresolve.NormalizedTransaction{
		Hash:    hash,
		Network: txresolve.NetworkTron,
		Amount:  "0",
		Status:  txresolve.StatusPending,
		Fee:     "0 TRX",
	}

	contract := tx.Get("raw_data.contract.0")
	switch contract.Get("type").String() {
	case contractTypeTransfer:
		if err := resolveNative(record, contract.Get("parameter.value")); err != nil {
			return nil, err
		}
	case contractTypeSmartTrigger:
		if err := resolveTRC20(ctx, record, contract.Get("parameter.value"), info); err != nil {
			return nil, err
		}
	default:
		return nil, txresolve.ErrTransactionNotFound
	}

	if ret := tx.Get("ret.0.contractRet"); ret.Exists() {
		if ret.String() == "SUCCESS" {
			record.Status = txresolve.StatusSuccess
		} else {
			record.Status = txresolve.StatusFailed
		}
	}

	if fee := info.Get("fee"); fee.Exists() {
		record.Fee = units.FeeInt(fee.Int(), trxDecimals, trxDecimals, "TRX")
	}
	record.BlockNumber = info.Get("blockNumber").Int()

	switch {
	case info.Get("blockTimeStamp").Exists():
		record.SetTimestamp(info.Get("blockTimeStamp").Int() / 1000)
	case tx.Get("raw_data.timestamp").Exists():
		record.SetTimestamp(tx.Get("raw_data.timestamp").Int() / 1000)
	default:
		record.SetEstimatedTimestamp(c.now())
	}

	return record, nil
}

// resolveNative fills the record from a TransferContract parameter payload.
func resolveNative(record *txresolve.NormalizedTransaction, value gjson.Result) error {
	from, err := encodeAddress(value.Get("owner_address").String())
	if err != nil {
		return err
	}
	to, err := encodeAddress(value.Get("to_address").String())
	if err != nil {
		return err
	}

	record.NetworkType = txresolve.NetworkTypeNative
	record.Coin = "TRX"
	record.TokenName = "Tron"
	record.From = from
	record.To = to
	record.Amount = units.ScaleInt(value.Get("amount").Int(), trxDecimals)
	return nil
}

// resolveTRC20 fills the record from a TriggerSmartContract call and its
// Transfer event log. A call that emitted no Transfer event is not a token
// transfer this resolver can represent.
func resolveTRC20(ctx context.Context, record *txresolve.NormalizedTransaction, value gjson.Result, info gjson.Result) error {
	log, ok := findTransferLog(info)
	if !ok {
		return txresolve.ErrTransactionNotFound
	}

	contractAddr := log.Get("address").String()
	if contractAddr == "" {
		contractAddr = value.Get("contract_address").String()
	}
	contract, err := encodeAddress(contractAddr)
	if err != nil {
		return err
	}
	from, err := encodeAddress(log.Get("topics.1").String())
	if err != nil {
		return err
	}
	to, err := encodeAddress(log.Get("topics.2").String())
	if err != nil {
		return err
	}

	md := tokenMetadata(contract)
	if md == unknownToken {
		logger.Debug(ctx, "unlisted TRC20 contract", "contract", contract)
	}

	record.NetworkType = txresolve.NetworkTypeTRC20
	record.Coin = md.Symbol
	record.TokenName = md.Name
	record.ContractAddress = contract
	record.From = from
	record.To = to
	record.Amount = units.Scale(amountFromHex(log.Get("data").String()), md.Decimals)
	return nil
}
