package confs

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment at boot.
type Config struct {
	Port string

	// Ledger connection
	LedgerWSURL   string
	LedgerTimeout time.Duration

	// Issuer credentials per credit kind. The seed is passed through to the
	// ledger's sign-and-submit call; we never sign locally.
	WtrIssuerAddress string
	WtrIssuerSeed    string
	WtrMptID         string
	EngIssuerAddress string
	EngIssuerSeed    string
	EngMptID         string

	// Decimal places of the minted token; mint amounts are scaled by this
	// before hitting the ledger or the claim counters.
	TokenAssetScale int
}

// LoadConfig loads environment variables from a .env file if present
// and builds the typed config.
func LoadConfig() (*Config, error) {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: could not load .env: %v", err)
		}
	}

	cfg := &Config{
		Port:             getEnv("PORT", "5000"),
		LedgerWSURL:      getEnv("XRPL_WS_URL", "wss://s.devnet.rippletest.net:51233"),
		LedgerTimeout:    30 * time.Second,
		WtrIssuerAddress: os.Getenv("WTR_ISSUER_ADDRESS"),
		WtrIssuerSeed:    os.Getenv("WTR_ISSUER_SEED"),
		WtrMptID:         os.Getenv("WTR_MPT_ID"),
		EngIssuerAddress: os.Getenv("ENG_ISSUER_ADDRESS"),
		EngIssuerSeed:    os.Getenv("ENG_ISSUER_SEED"),
		EngMptID:         os.Getenv("ENG_MPT_ID"),
		TokenAssetScale:  2,
	}

	if raw := os.Getenv("LEDGER_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid LEDGER_TIMEOUT %q: %w", raw, err)
		}
		cfg.LedgerTimeout = d
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
