package xrpl

import "encoding/json"

// TransactionEntry is one element of an account_tx response. Only the
// fields the telemetry pipeline reads are modeled; the rest of the
// transaction stays on the ledger.
type TransactionEntry struct {
	Hash        string          `json:"hash"`
	LedgerIndex int64           `json:"ledger_index"`
	Validated   bool            `json:"validated"`
	Meta        TransactionMeta `json:"meta"`
	TxJSON      TxJSON          `json:"tx_json"`
}

type TxJSON struct {
	TransactionType string `json:"TransactionType"`
	Account         string `json:"Account"`
	// LastUpdateTime is the oracle's close time in ledger epoch seconds.
	LastUpdateTime int64 `json:"LastUpdateTime"`
	LedgerIndex    int64 `json:"ledger_index"`
}

type TransactionMeta struct {
	AffectedNodes     []AffectedNode `json:"AffectedNodes"`
	TransactionResult string         `json:"TransactionResult"`
}

// AffectedNode is one entry of a transaction's effect metadata. Created
// and deleted nodes exist on the wire but the filter only cares about
// modifications, so those stay unmodeled.
type AffectedNode struct {
	ModifiedNode *ModifiedNode `json:"ModifiedNode,omitempty"`
}

type ModifiedNode struct {
	LedgerEntryType string        `json:"LedgerEntryType"`
	LedgerIndex     string        `json:"LedgerIndex"`
	FinalFields     *OracleFields `json:"FinalFields,omitempty"`
}

// OracleFields are the final fields of a modified Oracle ledger entry.
// Provider and AssetClass are hex-encoded ASCII.
type OracleFields struct {
	Provider        string      `json:"Provider"`
	AssetClass      string      `json:"AssetClass"`
	PriceDataSeries []PriceData `json:"PriceDataSeries"`
}

// PriceData wraps one PriceDataEntry, mirroring the ledger's nesting.
type PriceData struct {
	PriceData PriceDataEntry `json:"PriceData"`
}

// PriceDataEntry carries one (asset, price, scale) tuple. AssetPrice is
// a hex string; an empty value means the pair carried no price.
type PriceDataEntry struct {
	BaseAsset  string `json:"BaseAsset"`
	QuoteAsset string `json:"QuoteAsset"`
	AssetPrice string `json:"AssetPrice,omitempty"`
	Scale      uint8  `json:"Scale"`
}

// PaymentResult is what SubmitPayment reports back.
type PaymentResult struct {
	Success      bool   `json:"success"`
	EngineResult string `json:"engineResult"`
	Hash         string `json:"hash,omitempty"`
}

type rpcRequest struct {
	ID             int             `json:"id"`
	Command        string          `json:"command"`
	Account        string          `json:"account,omitempty"`
	LedgerIndexMin int             `json:"ledger_index_min,omitempty"`
	LedgerIndexMax int             `json:"ledger_index_max,omitempty"`
	Limit          int             `json:"limit,omitempty"`
	Marker         json.RawMessage `json:"marker,omitempty"`
	TxJSON         interface{}     `json:"tx_json,omitempty"`
	Seed           string          `json:"seed,omitempty"`
	KeyType        string          `json:"key_type,omitempty"`
}

type rpcResponse struct {
	ID           int             `json:"id"`
	Status       string          `json:"status"`
	Type         string          `json:"type"`
	Error        string          `json:"error,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Result       json.RawMessage `json:"result"`
}

type accountTxResult struct {
	Account      string             `json:"account"`
	Transactions []TransactionEntry `json:"transactions"`
	Marker       json.RawMessage    `json:"marker,omitempty"`
}

type submitResult struct {
	EngineResult        string `json:"engine_result"`
	EngineResultMessage string `json:"engine_result_message"`
	TxJSON              struct {
		Hash string `json:"hash"`
	} `json:"tx_json"`
}

// paymentTx is the unsigned Payment handed to the ledger's
// sign-and-submit endpoint.
type paymentTx struct {
	TransactionType string        `json:"TransactionType"`
	Account         string        `json:"Account"`
	Destination     string        `json:"Destination"`
	Amount          paymentAmount `json:"Amount"`
}

type paymentAmount struct {
	MptIssuanceID string `json:"mpt_issuance_id"`
	Value         string `json:"value"`
}
