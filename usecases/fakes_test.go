package usecases

import (
	"context"
	"sort"
	"time"

	"nexus-server/entities"
	"nexus-server/repositories"
	"nexus-server/xrpl"
)

// In-memory stand-ins for the postgres repositories and the ledger
// client, honoring the same contracts (conflict mapping, replace
// semantics, empty-state Latest).

type fakeDeviceRepo struct {
	devices []entities.Device
}

func (r *fakeDeviceRepo) Create(device *entities.Device) error {
	for _, d := range r.devices {
		if d.Name == device.Name {
			return &entities.ConflictError{Field: "name"}
		}
		if d.OracleIndex == device.OracleIndex {
			return &entities.ConflictError{Field: "oracleIndex"}
		}
	}
	if device.CreatedAt == "" {
		device.CreatedAt = time.Now().Format(time.RFC3339)
	}
	r.devices = append(r.devices, *device)
	return nil
}

func (r *fakeDeviceRepo) GetByAccount(account string) ([]entities.Device, error) {
	var out []entities.Device
	for _, d := range r.devices {
		if d.Account == account {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDeviceRepo) GetAll() ([]entities.Device, error) {
	return append([]entities.Device(nil), r.devices...), nil
}

func (r *fakeDeviceRepo) GetByOracleIndex(oracleIndex string) (*entities.Device, error) {
	for i := range r.devices {
		if r.devices[i].OracleIndex == oracleIndex {
			d := r.devices[i]
			return &d, nil
		}
	}
	return nil, entities.ErrNotFound
}

func (r *fakeDeviceRepo) Delete(account, name string) error {
	kept := r.devices[:0]
	for _, d := range r.devices {
		if !(d.Account == account && d.Name == name) {
			kept = append(kept, d)
		}
	}
	r.devices = kept
	return nil
}

func (r *fakeDeviceRepo) MarkSynced(oracleIndex, fetchTime string) error {
	for i := range r.devices {
		if r.devices[i].OracleIndex == oracleIndex {
			t := fetchTime
			r.devices[i].LastFetchTime = &t
		}
	}
	return nil
}

func (r *fakeDeviceRepo) MarkDataRecorded(oracleIndex string) error {
	for i := range r.devices {
		if r.devices[i].OracleIndex == oracleIndex {
			r.devices[i].DataRecorded = true
		}
	}
	return nil
}

func (r *fakeDeviceRepo) RecordClaim(account string, kind entities.CreditKind, amount int64) error {
	now := time.Now().Format(time.RFC3339)
	for i := range r.devices {
		if r.devices[i].Account != account {
			continue
		}
		if kind == entities.CreditEnergy {
			r.devices[i].EngClaims++
			r.devices[i].EngReceived += amount
			r.devices[i].LastEngClaim = &now
		} else {
			r.devices[i].WtrClaims++
			r.devices[i].WtrReceived += amount
			r.devices[i].LastWtrClaim = &now
		}
	}
	return nil
}

type fakeOracleStore struct {
	records map[string][]entities.OracleRecord
	resyncs int
}

func newFakeOracleStore() *fakeOracleStore {
	return &fakeOracleStore{records: make(map[string][]entities.OracleRecord)}
}

func (s *fakeOracleStore) EnsureSchema() error { return nil }

func (s *fakeOracleStore) FullResync(oracleIndex string, records []entities.OracleRecord) error {
	s.resyncs++
	s.records[oracleIndex] = append([]entities.OracleRecord(nil), records...)
	return nil
}

func (s *fakeOracleStore) Read(oracleIndex string) ([]entities.OracleRecord, error) {
	out := append([]entities.OracleRecord(nil), s.records[oracleIndex]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

func (s *fakeOracleStore) Latest(oracleIndex string) (*repositories.LatestTOV, error) {
	records, _ := s.Read(oracleIndex)
	if len(records) == 0 || records[0].TOV == nil {
		return nil, entities.ErrNoTOV
	}
	return &repositories.LatestTOV{TOV: *records[0].TOV, AssetClass: records[0].AssetClass}, nil
}

type fakeLedger struct {
	txns  []xrpl.TransactionEntry
	err   error
	calls int
}

func (l *fakeLedger) AccountTx(ctx context.Context, account string) ([]xrpl.TransactionEntry, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.txns, nil
}
