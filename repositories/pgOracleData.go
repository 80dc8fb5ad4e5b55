package repositories

import (
	"errors"
	"sync"

	"nexus-server/db"
	"nexus-server/entities"

	"gorm.io/gorm"
)

type oracleDataPgRepository struct {
	db db.Database

	mu       sync.Mutex
	migrated bool
}

func NewOracleDataPgRepository(database db.Database) OracleDataRepository {
	return &oracleDataPgRepository{db: database}
}

// EnsureSchema materializes the oracle record table. It runs lazily on
// the first successful sync rather than at boot, so a registry-only
// deployment never creates it.
func (r *oracleDataPgRepository) EnsureSchema() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.migrated {
		return nil
	}
	if err := r.db.GetDB().AutoMigrate(&entities.OracleRecord{}); err != nil {
		return err
	}
	r.migrated = true
	return nil
}

// FullResync replaces the entire record set for the oracle index inside
// one transaction. Readers keep seeing the previous generation until the
// commit; a source transaction missing from the new set is gone after it.
func (r *oracleDataPgRepository) FullResync(oracleIndex string, records []entities.OracleRecord) error {
	if err := r.EnsureSchema(); err != nil {
		return err
	}
	return r.db.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("oracle_index = ?", oracleIndex).Delete(&entities.OracleRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
}

func (r *oracleDataPgRepository) Read(oracleIndex string) ([]entities.OracleRecord, error) {
	if !r.hasTable() {
		return nil, nil
	}
	var records []entities.OracleRecord
	err := r.db.GetDB().Where("oracle_index = ?", oracleIndex).
		Order("timestamp DESC").Find(&records).Error
	return records, err
}

// Latest returns the newest record's TOV and asset class. Matching the
// read model of the rest of the pipeline, a missing table, an empty
// namespace or a NULL TOV on the newest record are all the same normal
// empty-state outcome.
func (r *oracleDataPgRepository) Latest(oracleIndex string) (*LatestTOV, error) {
	if !r.hasTable() {
		return nil, entities.ErrNoTOV
	}
	var record entities.OracleRecord
	err := r.db.GetDB().Where("oracle_index = ?", oracleIndex).
		Order("timestamp DESC").First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.ErrNoTOV
	}
	if err != nil {
		return nil, err
	}
	if record.TOV == nil {
		return nil, entities.ErrNoTOV
	}
	return &LatestTOV{TOV: *record.TOV, AssetClass: record.AssetClass}, nil
}

func (r *oracleDataPgRepository) hasTable() bool {
	r.mu.Lock()
	if r.migrated {
		r.mu.Unlock()
		return true
	}
	r.mu.Unlock()
	return r.db.GetDB().Migrator().HasTable(&entities.OracleRecord{})
}
