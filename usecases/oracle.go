package usecases

import (
	"context"
	"time"

	"nexus-server/cache"
	"nexus-server/entities"
	"nexus-server/repositories"
	"nexus-server/services"
	"nexus-server/xrpl"

	"go.uber.org/zap"
)

// LedgerFetcher is the slice of the ledger client the sync pipeline
// needs.
type LedgerFetcher interface {
	AccountTx(ctx context.Context, account string) ([]xrpl.TransactionEntry, error)
}

type OracleUseCase struct {
	DeviceRepo repositories.DeviceRepository
	Store      repositories.OracleDataRepository
	Ledger     LedgerFetcher
	TOVCache   *cache.TOVCache
	Log        *zap.Logger
}

func NewOracleUseCase(deviceRepo repositories.DeviceRepository, store repositories.OracleDataRepository, ledger LedgerFetcher, tovCache *cache.TOVCache, log *zap.Logger) *OracleUseCase {
	return &OracleUseCase{
		DeviceRepo: deviceRepo,
		Store:      store,
		Ledger:     ledger,
		TOVCache:   tovCache,
		Log:        log,
	}
}

// SyncByOracleIndex resolves the owning account through the registry,
// then runs the sync pipeline. Unknown oracle index is ErrNotFound.
func (uc *OracleUseCase) SyncByOracleIndex(ctx context.Context, oracleIndex string) ([]entities.OracleRecord, error) {
	device, err := uc.DeviceRepo.GetByOracleIndex(oracleIndex)
	if err != nil {
		return nil, err
	}
	return uc.Sync(ctx, oracleIndex, device.Account)
}

// Sync pulls the account's full transaction history, narrows it to the
// oracle's updates, decodes them and replaces the stored record set.
// Fetch failures abort the whole sync; decode problems only null out the
// affected fields.
func (uc *OracleUseCase) Sync(ctx context.Context, oracleIndex, account string) ([]entities.OracleRecord, error) {
	uc.Log.Info("starting oracle sync",
		zap.String("oracle_index", oracleIndex),
		zap.String("account", account))

	txns, err := uc.Ledger.AccountTx(ctx, account)
	if err != nil {
		return nil, err
	}

	filtered := services.FilterOracleTransactions(txns, oracleIndex)
	records := services.DecodeTelemetry(filtered, oracleIndex, uc.Log)

	if err := uc.Store.FullResync(oracleIndex, records); err != nil {
		return nil, err
	}
	uc.TOVCache.Invalidate(oracleIndex)

	now := time.Now().Format(time.RFC3339)
	if err := uc.DeviceRepo.MarkSynced(oracleIndex, now); err != nil {
		return nil, err
	}
	if err := uc.DeviceRepo.MarkDataRecorded(oracleIndex); err != nil {
		return nil, err
	}

	uc.Log.Info("oracle sync complete",
		zap.String("oracle_index", oracleIndex),
		zap.Int("transactions", len(txns)),
		zap.Int("oracle_updates", len(filtered)),
		zap.Int("records", len(records)))

	if records == nil {
		records = []entities.OracleRecord{}
	}
	return records, nil
}

// LatestTOV returns the newest TOV reading, read through the cache.
func (uc *OracleUseCase) LatestTOV(oracleIndex string) (*repositories.LatestTOV, error) {
	if cached, ok := uc.TOVCache.Get(oracleIndex); ok {
		return &cached, nil
	}
	latest, err := uc.Store.Latest(oracleIndex)
	if err != nil {
		return nil, err
	}
	uc.TOVCache.Set(oracleIndex, *latest)
	return latest, nil
}

// Read returns the stored record set, newest first.
func (uc *OracleUseCase) Read(oracleIndex string) ([]entities.OracleRecord, error) {
	records, err := uc.Store.Read(oracleIndex)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []entities.OracleRecord{}
	}
	return records, nil
}
