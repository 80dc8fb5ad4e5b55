package repositories

import (
	"errors"
	"strings"
	"time"

	"nexus-server/db"
	"nexus-server/entities"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type devicePgRepository struct {
	db db.Database
}

func NewDevicePgRepository(database db.Database) DeviceRepository {
	return &devicePgRepository{db: database}
}

// Create inserts the device in one attempt; the unique indexes on name
// and oracle_index are the duplicate check, so concurrent registrations
// cannot race past it.
func (r *devicePgRepository) Create(device *entities.Device) error {
	err := r.db.GetDB().Create(device).Error
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "oracle_index") {
			return &entities.ConflictError{Field: "oracleIndex"}
		}
		return &entities.ConflictError{Field: "name"}
	}
	return err
}

func (r *devicePgRepository) GetByAccount(account string) ([]entities.Device, error) {
	var devices []entities.Device
	err := r.db.GetDB().Where("account = ?", account).Order("created_at DESC").Find(&devices).Error
	return devices, err
}

func (r *devicePgRepository) GetAll() ([]entities.Device, error) {
	var devices []entities.Device
	err := r.db.GetDB().Find(&devices).Error
	return devices, err
}

func (r *devicePgRepository) GetByOracleIndex(oracleIndex string) (*entities.Device, error) {
	var device entities.Device
	err := r.db.GetDB().Where("oracle_index = ?", oracleIndex).First(&device).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *devicePgRepository) Delete(account, name string) error {
	return r.db.GetDB().Where("account = ? AND name = ?", account, name).Delete(&entities.Device{}).Error
}

func (r *devicePgRepository) MarkSynced(oracleIndex, fetchTime string) error {
	return r.db.GetDB().Model(&entities.Device{}).
		Where("oracle_index = ?", oracleIndex).
		Update("last_fetch_time", fetchTime).Error
}

func (r *devicePgRepository) MarkDataRecorded(oracleIndex string) error {
	return r.db.GetDB().Model(&entities.Device{}).
		Where("oracle_index = ?", oracleIndex).
		Update("data_recorded", true).Error
}

// RecordClaim bumps the claim count, the received total and the
// last-claim stamp for one credit kind in a single UPDATE.
func (r *devicePgRepository) RecordClaim(account string, kind entities.CreditKind, amount int64) error {
	now := time.Now().Format(time.RFC3339)

	claims, received, lastClaim := "wtr_claims", "wtr_received", "last_wtr_claim"
	if kind == entities.CreditEnergy {
		claims, received, lastClaim = "eng_claims", "eng_received", "last_eng_claim"
	}

	return r.db.GetDB().Model(&entities.Device{}).
		Where("account = ?", account).
		Updates(map[string]interface{}{
			claims:    gorm.Expr(claims+" + 1"),
			received:  gorm.Expr(received+" + ?", amount),
			lastClaim: now,
		}).Error
}
