package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreditKind selects which claim counters a mint updates.
type CreditKind string

const (
	CreditWater  CreditKind = "wtr"
	CreditEnergy CreditKind = "eng"
)

func (k CreditKind) Valid() bool {
	return k == CreditWater || k == CreditEnergy
}

type Device struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex:idx_devices_name" json:"name"`
	Description string `json:"description"`
	Region      string `json:"region"`
	Tech        string `json:"tech"`
	OracleIndex string `gorm:"uniqueIndex:idx_devices_oracle_index" json:"oracleIndex"`
	Account     string `gorm:"index" json:"account"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`

	// Sync bookkeeping, written by the oracle pipeline only.
	LastFetchTime *string `json:"lastFetchTime"`
	DataRecorded  bool    `json:"dataRecorded"`

	// Claim accounting, written by successful mints only.
	// Received totals are in the token's smallest on-ledger unit.
	WtrClaims    int64   `json:"wtrClaims"`
	EngClaims    int64   `json:"engClaims"`
	WtrReceived  int64   `json:"wtrReceived"`
	EngReceived  int64   `json:"engReceived"`
	LastWtrClaim *string `json:"lastWtrClaim"`
	LastEngClaim *string `json:"lastEngClaim"`
}

func (d *Device) BeforeCreate(tx *gorm.DB) (err error) {
	d.ID = uuid.New().String()
	d.CreatedAt = time.Now().Format(time.RFC3339)
	d.UpdatedAt = d.CreatedAt
	return
}

// LastClaim returns the last-claim timestamp for the given credit kind,
// or nil if the device has never claimed it.
func (d *Device) LastClaim(kind CreditKind) *string {
	if kind == CreditEnergy {
		return d.LastEngClaim
	}
	return d.LastWtrClaim
}
