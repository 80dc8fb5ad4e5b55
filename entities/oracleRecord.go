package entities

// OracleRecord is one decoded oracle update. The set of records for an
// oracle index is replaced wholesale on every resync, so there is no
// created/updated bookkeeping here; UUIDs are regenerated per resync.
type OracleRecord struct {
	UUID              string   `gorm:"primaryKey;column:uuid" json:"uuid"`
	OracleIndex       string   `gorm:"index;column:oracle_index" json:"-"`
	Provider          string   `json:"provider"`
	AssetClass        string   `gorm:"column:asset_class" json:"assetClass"`
	Timestamp         int64    `gorm:"index" json:"timestamp"`
	FLR               *float64 `gorm:"column:flr" json:"FLR"`
	PRV               *float64 `gorm:"column:prv" json:"PRV"`
	TOV               *float64 `gorm:"column:tov" json:"TOV"`
	Hash              string   `json:"hash"`
	LedgerIndex       int64    `gorm:"column:ledger_index" json:"ledger_index"`
	TransactionResult string   `json:"transactionResult"`
}

func (OracleRecord) TableName() string { return "oracle_records" }
