package services

import (
	"encoding/hex"
	"math"
	"strconv"

	"nexus-server/entities"
	"nexus-server/xrpl"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FieldDecode is the tagged outcome of decoding one scaled price field.
// Either Value is set, or Skipped names why it is not. A skipped field is
// stored as NULL; it never aborts the sync.
type FieldDecode struct {
	Value   *float64
	Skipped string
}

// DecodePrice converts a hex-encoded AssetPrice and its Scale into a
// real value: value = hex / 10^scale. A value of exactly zero or a
// non-finite result is skipped rather than stored, keeping "reported
// zero" distinguishable from "not reported".
func DecodePrice(assetPrice string, scale uint8) FieldDecode {
	n, err := strconv.ParseUint(assetPrice, 16, 64)
	if err != nil {
		return FieldDecode{Skipped: "malformed hex"}
	}
	v := float64(n) / math.Pow10(int(scale))
	if v == 0 {
		return FieldDecode{Skipped: "zero value"}
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return FieldDecode{Skipped: "non-finite value"}
	}
	return FieldDecode{Value: &v}
}

// FilterOracleTransactions keeps the transactions whose effect metadata
// modified the oracle entry with the given index. Input order is
// preserved.
func FilterOracleTransactions(txns []xrpl.TransactionEntry, oracleIndex string) []xrpl.TransactionEntry {
	var filtered []xrpl.TransactionEntry
	for _, tx := range txns {
		if findOracleNode(tx, oracleIndex) != nil {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}

// findOracleNode returns the first modified Oracle node matching the
// index, or nil.
func findOracleNode(tx xrpl.TransactionEntry, oracleIndex string) *xrpl.ModifiedNode {
	for _, node := range tx.Meta.AffectedNodes {
		mod := node.ModifiedNode
		if mod != nil && mod.LedgerEntryType == "Oracle" && mod.LedgerIndex == oracleIndex {
			return mod
		}
	}
	return nil
}

// DecodeTelemetry turns filtered oracle transactions into records.
// Provider and asset class are feed-level constants taken from the first
// transaction; FLR/PRV/TOV come from each transaction's price-data
// series, other quote assets are dropped.
func DecodeTelemetry(txns []xrpl.TransactionEntry, oracleIndex string, log *zap.Logger) []entities.OracleRecord {
	if len(txns) == 0 {
		return nil
	}

	provider := "Unknown"
	assetClass := "Unknown"
	if first := findOracleNode(txns[0], oracleIndex); first != nil && first.FinalFields != nil {
		if first.FinalFields.Provider != "" {
			provider = hexToASCII(first.FinalFields.Provider)
		}
		if first.FinalFields.AssetClass != "" {
			assetClass = hexToASCII(first.FinalFields.AssetClass)
		}
	}

	records := make([]entities.OracleRecord, 0, len(txns))
	for _, tx := range txns {
		rec := entities.OracleRecord{
			UUID:              uuid.New().String(),
			OracleIndex:       oracleIndex,
			Provider:          provider,
			AssetClass:        assetClass,
			Timestamp:         tx.TxJSON.LastUpdateTime,
			Hash:              tx.Hash,
			LedgerIndex:       ledgerIndexOf(tx),
			TransactionResult: transactionResultOf(tx),
		}

		node := findOracleNode(tx, oracleIndex)
		if node != nil && node.FinalFields != nil {
			for _, pd := range node.FinalFields.PriceDataSeries {
				entry := pd.PriceData
				if entry.AssetPrice == "" {
					continue
				}
				// Only the recognized columns are decoded; foreign quote
				// assets pass through without a skip warning.
				var field **float64
				switch entry.QuoteAsset {
				case "FLR":
					field = &rec.FLR
				case "PRV":
					field = &rec.PRV
				case "TOV":
					field = &rec.TOV
				default:
					continue
				}
				dec := DecodePrice(entry.AssetPrice, entry.Scale)
				if dec.Skipped != "" {
					log.Warn("telemetry field skipped",
						zap.String("oracle_index", oracleIndex),
						zap.String("hash", tx.Hash),
						zap.String("quote_asset", entry.QuoteAsset),
						zap.String("reason", dec.Skipped))
					continue
				}
				*field = dec.Value
			}
		}

		records = append(records, rec)
	}
	return records
}

func ledgerIndexOf(tx xrpl.TransactionEntry) int64 {
	if tx.TxJSON.LedgerIndex != 0 {
		return tx.TxJSON.LedgerIndex
	}
	return tx.LedgerIndex
}

func transactionResultOf(tx xrpl.TransactionEntry) string {
	if tx.Meta.TransactionResult != "" {
		return tx.Meta.TransactionResult
	}
	return "tesSUCCESS"
}

// hexToASCII decodes hex-encoded text; the raw input comes back
// unchanged when it is not valid hex.
func hexToASCII(s string) string {
	b, err := hex.DecodeString(s)
	if err != nil {
		return s
	}
	return string(b)
}
