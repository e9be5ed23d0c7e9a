package evm

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/gabapcia/txlens/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/txlens/internal/pkg/types"
	"github.com/gabapcia/txlens/internal/pkg/units"
	"github.com/gabapcia/txlens/internal/txresolve"

	"github.com/ethereum/go-ethereum/common"
)

// transferEventSignature is the keccak256 hash of Transfer(address,address,uint256),
// the first topic of every ERC20-style transfer event log.
const transferEventSignature = "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"

type (
	// transactionResponse is the raw transaction envelope returned by
	// eth_getTransactionByHash.
	transactionResponse struct {
		Hash        string    `json:"hash"`
		From        string    `json:"from"`
		To          string    `json:"to"`
		Value       types.Hex `json:"value"`
		GasPrice    types.Hex `json:"gasPrice"`
		BlockHash   string    `json:"blockHash"`
		BlockNumber types.Hex `json:"blockNumber"`
	}

	// logResponse is one event log entry inside a transaction receipt.
	logResponse struct {
		Address string   `json:"address"`
		Topics  []string `json:"topics"`
		Data    string   `json:"data"`
	}

	// receiptResponse is the post-execution record returned by
	// eth_getTransactionReceipt.
	receiptResponse struct {
		Status            types.Hex     `json:"status"`
		GasUsed           types.Hex     `json:"gasUsed"`
		EffectiveGasPrice types.Hex     `json:"effectiveGasPrice"`
		Logs              []logResponse `json:"logs"`
	}

	// blockResponse carries the only block field the resolver needs. The
	// timestamp is kept raw because providers disagree on its encoding.
	blockResponse struct {
		Timestamp json.RawMessage `json:"timestamp"`
	}
)

// getTransactionByHash fetches the raw transaction envelope. A null result
// means the chain does not know the hash.
func (c *client) getTransactionByHash(ctx context.Context, hash string) (*transactionResponse, error) {
	raw, err := c.conn.Fetch(ctx, "eth_getTransactionByHash", hash)
	if err != nil {
		return nil, err
	}

	if jsonrpc.IsNull(raw) {
		return nil, txresolve.ErrTransactionNotFound
	}

	var envelope transactionResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decoding transaction envelope: %w", err)
	}

	return &envelope, nil
}

// getTransactionReceipt fetches the execution receipt. A nil receipt without
// error means the transaction is still pending.
func (c *client) getTransactionReceipt(ctx context.Context, hash string) (*receiptResponse, error) {
	raw, err := c.conn.Fetch(ctx, "eth_getTransactionReceipt", hash)
	if err != nil {
		return nil, err
	}

	if jsonrpc.IsNull(raw) {
		return nil, nil
	}

	var receipt receiptResponse
	if err := json.Unmarshal(raw, &receipt); err != nil {
		return nil, fmt.Errorf("decoding transaction receipt: %w", err)
	}

	return &receipt, nil
}

// blockTimestamp fetches the containing block and extracts its timestamp,
// accepting hex-string, decimal-string, and plain-number encodings. The
// second return value reports whether an authoritative timestamp was found.
func (c *client) blockTimestamp(ctx context.Context, blockHash string) (int64, bool) {
	if blockHash == "" {
		return 0, false
	}

	raw, err := c.conn.Fetch(ctx, "eth_getBlockByHash", blockHash, false)
	if err != nil || jsonrpc.IsNull(raw) {
		return 0, false
	}

	var block blockResponse
	if err := json.Unmarshal(raw, &block); err != nil {
		return 0, false
	}

	return parseFlexibleTimestamp(block.Timestamp)
}

// parseFlexibleTimestamp normalizes a block timestamp that may arrive as a
// 0x-prefixed hex string, a decimal string, or a bare JSON number.
func parseFlexibleTimestamp(raw json.RawMessage) (int64, bool) {
	if jsonrpc.IsNull(raw) {
		return 0, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			h, err := types.HexFromString(s)
			if err != nil {
				return 0, false
			}
			return h.Int(), true
		}

		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}

	return 0, false
}

// findTransferLog scans the receipt logs for the first ERC20-style Transfer
// event with indexed sender and receiver topics.
func findTransferLog(receipt *receiptResponse) *logResponse {
	if receipt == nil {
		return nil
	}

	for i, log := range receipt.Logs {
		if len(log.Topics) >= 3 && strings.EqualFold(log.Topics[0], transferEventSignature) {
			return &receipt.Logs[i]
		}
	}

	return nil
}

// hexQuantity decodes a 0x-prefixed hex quantity into a big integer,
// collapsing any malformed input to zero so amounts stay well-typed.
func hexQuantity(s string) *big.Int {
	h, err := types.HexFromString(s)
	if err != nil {
		return new(big.Int)
	}
	return h.Big()
}

// ResolveTransaction implements txresolve.Resolver for an EVM-compatible
// chain: fetch the envelope, the receipt, and the containing block, then
// classify the transfer as token or native from the receipt logs.
func (c *client) ResolveTransaction(ctx context.Context, hash string) (*txresolve.NormalizedTransaction, error) {
	envelope, err := c.getTransactionByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	receipt, err := c.getTransactionReceipt(ctx, hash)
	if err != nil {
		return nil, err
	}

	tx := &txresolve.NormalizedTransaction{
		Hash:        hash,
		Network:     c.params.Network,
		BlockNumber: envelope.BlockNumber.Int(),
	}

	if ts, ok := c.blockTimestamp(ctx, envelope.BlockHash); ok {
		tx.SetTimestamp(ts)
	} else {
		tx.SetEstimatedTimestamp(c.now())
	}

	switch {
	case receipt == nil:
		tx.Status = txresolve.StatusPending
	case receipt.Status.Int() == 1:
		tx.Status = txresolve.StatusSuccess
	default:
		tx.Status = txresolve.StatusFailed
	}

	if log := findTransferLog(receipt); log != nil {
		contract := common.HexToAddress(log.Address)
		md := c.tokenMetadata(ctx, contract)

		tx.NetworkType = c.params.TokenStandard
		tx.Coin = md.Symbol
		tx.TokenName = md.Name
		tx.ContractAddress = strings.ToLower(contract.Hex())
		// Indexed addresses are the rightmost 20 bytes of the topic words.
		tx.From = strings.ToLower(common.HexToAddress(log.Topics[1]).Hex())
		tx.To = strings.ToLower(common.HexToAddress(log.Topics[2]).Hex())
		tx.Amount = units.Scale(hexQuantity(log.Data), md.Decimals)
	} else {
		tx.NetworkType = txresolve.NetworkTypeNative
		tx.Coin = c.params.NativeSymbol
		tx.TokenName = c.params.NativeName
		tx.From = strings.ToLower(envelope.From)
		tx.To = strings.ToLower(envelope.To)
		tx.Amount = units.Scale(envelope.Value.Big(), nativeDecimals)
	}

	tx.Fee = units.Fee(c.transactionFee(envelope, receipt), nativeDecimals, 6, c.params.NativeSymbol)

	return tx, nil
}

// transactionFee computes gasPrice x gasUsed in wei, preferring the
// receipt's effective gas price when present (EIP-1559 transactions carry
// only a fee cap in the envelope).
func (c *client) transactionFee(envelope *transactionResponse, receipt *receiptResponse) *big.Int {
	if receipt == nil {
		return nil
	}

	gasPrice := receipt.EffectiveGasPrice
	if gasPrice.IsZero() {
		gasPrice = envelope.GasPrice
	}

	return new(big.Int).Mul(gasPrice.Big(), receipt.GasUsed.Big())
}
