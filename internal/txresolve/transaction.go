// Package txresolve defines the canonical transaction record produced by
// every chain resolver, the resolver contract itself, and the dispatcher
// service that routes a lookup to the right chain.
package txresolve

import "time"

// Network identifies a supported blockchain network.
type Network string

const (
	NetworkBitcoin  Network = "bitcoin"
	NetworkEthereum Network = "ethereum"
	NetworkBSC      Network = "bsc"
	NetworkPolygon  Network = "polygon"
	NetworkTron     Network = "tron"
	NetworkXRP      Network = "xrp"
	NetworkEOS      Network = "eos"
)

// Networks lists every supported network in a stable order.
func Networks() []Network {
	return []Network{
		NetworkBitcoin,
		NetworkEthereum,
		NetworkBSC,
		NetworkPolygon,
		NetworkTron,
		NetworkXRP,
		NetworkEOS,
	}
}

// NetworkType tags whether a transaction moved the chain's base currency or a
// token standard built on top of it.
type NetworkType string

const (
	NetworkTypeNative NetworkType = "Native"
	NetworkTypeERC20  NetworkType = "ERC20"
	NetworkTypeBEP20  NetworkType = "BEP20"
	NetworkTypeTRC20  NetworkType = "TRC20"
	NetworkTypeIOU    NetworkType = "IOU"
	NetworkTypeToken  NetworkType = "Token"
)

// IsToken reports whether the tag denotes a token-standard transfer. The
// canonical record carries a contract address exactly when this is true.
func (t NetworkType) IsToken() bool {
	return t != NetworkTypeNative && t != ""
}

// Status is the normalized execution state of a transaction. Its upstream
// source varies per chain: confirmation state for Bitcoin, receipt result
// code for EVM chains and Tron, ledger result string for XRP, and execution
// status for EOS.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusPending Status = "pending"
)

// NormalizedTransaction is the single output entity of every resolver,
// identical in shape regardless of the source chain.
//
// Amount is always a human-scale decimal string, never a raw wei/satoshi/sun
// integer. ContractAddress is non-empty if and only if NetworkType denotes a
// token standard. When confirmation data is unavailable upstream, Timestamp
// falls back to the moment of the lookup and TimestampEstimated is set, so
// consumers can tell estimated times from authoritative block times.
type NormalizedTransaction struct {
	Hash            string      `json:"hash"`
	Network         Network     `json:"network"`
	NetworkType     NetworkType `json:"networkType"`
	Coin            string      `json:"coin"`
	TokenName       string      `json:"tokenName,omitempty"`
	ContractAddress string      `json:"contractAddress,omitempty"`
	From            string      `json:"from"`
	To              string      `json:"to"`
	Amount          string      `json:"amount"`

	Timestamp          int64  `json:"timestamp"`
	DateTime           string `json:"dateTime"`
	TimestampEstimated bool   `json:"timestampIsEstimated,omitempty"`

	Status      Status `json:"status"`
	Fee         string `json:"fee"`
	BlockNumber int64  `json:"blockNumber,omitempty"`

	// Chain-specific extensions. Consumers must treat these as
	// chain-dependent: Confirmations is Bitcoin-only, the tag fields and
	// TransactionResult are XRP-only, Memo is EOS-only, and the anomaly
	// fields are shared by XRP and EOS.
	Confirmations     int64  `json:"confirmations,omitempty"`
	DestinationTag    *int64 `json:"destinationTag,omitempty"`
	SourceTag         *int64 `json:"sourceTag,omitempty"`
	TransactionResult string `json:"transactionResult,omitempty"`
	Memo              string `json:"memo,omitempty"`
	Error             string `json:"error,omitempty"`
	ErrorDetails      string `json:"errorDetails,omitempty"`
}

// SetTimestamp records an authoritative block time, in seconds since epoch.
func (tx *NormalizedTransaction) SetTimestamp(unixSeconds int64) {
	tx.Timestamp = unixSeconds
	tx.DateTime = time.Unix(unixSeconds, 0).UTC().Format(time.RFC3339)
	tx.TimestampEstimated = false
}

// SetEstimatedTimestamp records a best-effort "now" timestamp for
// transactions whose block time could not be determined, marking the record
// so consumers do not mistake it for block time.
func (tx *NormalizedTransaction) SetEstimatedTimestamp(now time.Time) {
	tx.Timestamp = now.Unix()
	tx.DateTime = now.UTC().Format(time.RFC3339)
	tx.TimestampEstimated = true
}
