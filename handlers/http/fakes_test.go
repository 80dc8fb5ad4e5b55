package httpHandler

import (
	"context"
	"net/http/httptest"
	"sort"
	"strings"
	"time"

	"nexus-server/cache"
	"nexus-server/confs"
	"nexus-server/entities"
	"nexus-server/repositories"
	"nexus-server/usecases"
	"nexus-server/xrpl"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

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
}

func newFakeOracleStore() *fakeOracleStore {
	return &fakeOracleStore{records: make(map[string][]entities.OracleRecord)}
}

func (s *fakeOracleStore) EnsureSchema() error { return nil }

func (s *fakeOracleStore) FullResync(oracleIndex string, records []entities.OracleRecord) error {
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
	txns []xrpl.TransactionEntry
	err  error
}

func (l *fakeLedger) AccountTx(ctx context.Context, account string) ([]xrpl.TransactionEntry, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.txns, nil
}

type fakePayments struct {
	result    *xrpl.PaymentResult
	err       error
	lastValue int64
	lastDest  string
}

func (p *fakePayments) SubmitPayment(ctx context.Context, issuer xrpl.Issuer, destination string, value int64) (*xrpl.PaymentResult, error) {
	p.lastDest = destination
	p.lastValue = value
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

type fixture struct {
	router   *gin.Engine
	devices  *fakeDeviceRepo
	store    *fakeOracleStore
	ledger   *fakeLedger
	payments *fakePayments
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)

	devices := &fakeDeviceRepo{}
	store := newFakeOracleStore()
	ledger := &fakeLedger{}
	payments := &fakePayments{}
	cfg := &confs.Config{
		TokenAssetScale:  2,
		WtrIssuerAddress: "rIssuer",
		WtrIssuerSeed:    "sSeed",
		WtrMptID:         "MPT1",
	}

	deviceUC := usecases.NewDeviceUseCase(devices)
	oracleUC := usecases.NewOracleUseCase(devices, store, ledger, cache.NewTOVCache(0), zap.NewNop())

	deviceHandler := NewDeviceHandler(deviceUC)
	oracleHandler := NewOracleHandler(oracleUC, deviceUC)
	mintHandler := NewMintHandler(payments, deviceUC, cfg, zap.NewNop())

	router := gin.New()
	api := router.Group("/api")
	api.POST("/device", deviceHandler.Register)
	api.GET("/devices", deviceHandler.ListAll)
	api.GET("/devices/:account", deviceHandler.List)
	api.DELETE("/device/:account/:name", deviceHandler.Remove)
	api.POST("/oracle-data/fetch", oracleHandler.Fetch)
	api.GET("/fetch", oracleHandler.FetchWithAccount)
	api.GET("/oracle-data/tov", oracleHandler.TOV)
	api.GET("/oracle-data/read", oracleHandler.Read)
	api.GET("/oracle-data/rewards", oracleHandler.Rewards)
	api.POST("/mint", mintHandler.Mint)

	return &fixture{
		router:   router,
		devices:  devices,
		store:    store,
		ledger:   ledger,
		payments: payments,
	}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}
