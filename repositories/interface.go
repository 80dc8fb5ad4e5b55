package repositories

import "nexus-server/entities"

type DeviceRepository interface {
	Create(device *entities.Device) error
	GetByAccount(account string) ([]entities.Device, error)
	GetAll() ([]entities.Device, error)
	GetByOracleIndex(oracleIndex string) (*entities.Device, error)
	Delete(account, name string) error
	MarkSynced(oracleIndex, fetchTime string) error
	MarkDataRecorded(oracleIndex string) error
	RecordClaim(account string, kind entities.CreditKind, amount int64) error
}

// LatestTOV is the newest cumulative-total-volume reading of a feed.
type LatestTOV struct {
	TOV        float64 `json:"tov"`
	AssetClass string  `json:"assetClass"`
}

// OracleDataRepository is the per-oracle-index time series store. The
// record set for an index is replaced wholesale on resync, never
// appended to.
type OracleDataRepository interface {
	EnsureSchema() error
	FullResync(oracleIndex string, records []entities.OracleRecord) error
	Read(oracleIndex string) ([]entities.OracleRecord, error)
	// Latest returns entities.ErrNoTOV for a never-synced index or when
	// the newest record carries no TOV.
	Latest(oracleIndex string) (*LatestTOV, error)
}
