package config

import (
	"os"
	"strconv"
	"time"

	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

// PriceBasis selects which host amount a cart item's price is derived from.
type PriceBasis string

const (
	// BasisUnitPrice uses the line's per-unit price.
	BasisUnitPrice PriceBasis = "unit_price"
	// BasisLineSubtotal derives the unit price from the line subtotal, so
	// discounts applied at the line level flow into the taxable amount.
	BasisLineSubtotal PriceBasis = "line_subtotal"
)

// TaxConfig carries the settings the tax components need. It is constructed
// once at process start and passed into each component; nothing reads
// settings from ambient global state.
type TaxConfig struct {
	APILoginID       string
	APIKey           string
	BaseURL          string
	CarrierAccountID string

	// DefaultOrigin is the ship-from address used for lines that carry no
	// per-line warehouse origin.
	DefaultOrigin business.Address

	PriceBasis PriceBasis

	AddressCacheTTL     time.Duration
	CertificateCacheTTL time.Duration

	// ReconcileBatchSize bounds how many orders one reconciliation
	// invocation processes.
	ReconcileBatchSize int32
}

// Config is the full runtime configuration for the service binaries.
type Config struct {
	Stage       string
	HTTPAddr    string
	DatabaseURL string

	Tax TaxConfig

	// Ops notification settings; email sending is disabled when the API
	// key is empty.
	EmailAPIKey string
	EmailFrom   string
	EmailTo     string

	ReconcilerQueueURL string
}

// FromEnv builds Config with defaults, overridden by environment variables.
// Secrets (API key, database URL) may be filled in afterwards from Secrets
// Manager by the caller.
func FromEnv() Config {
	return Config{
		Stage:       envOrDefault("STAGE", "local"),
		HTTPAddr:    ":" + envOrDefault("API_PORT", "8000"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Tax: TaxConfig{
			APILoginID:       os.Getenv("TAX_API_LOGIN_ID"),
			APIKey:           os.Getenv("TAX_API_KEY"),
			BaseURL:          os.Getenv("TAX_API_BASE_URL"),
			CarrierAccountID: os.Getenv("TAX_CARRIER_ACCOUNT_ID"),
			DefaultOrigin: business.Address{
				Street1: os.Getenv("TAX_ORIGIN_STREET1"),
				Street2: os.Getenv("TAX_ORIGIN_STREET2"),
				City:    os.Getenv("TAX_ORIGIN_CITY"),
				State:   os.Getenv("TAX_ORIGIN_STATE"),
				Zip5:    os.Getenv("TAX_ORIGIN_ZIP5"),
				Zip4:    os.Getenv("TAX_ORIGIN_ZIP4"),
				Country: "US",
			},
			PriceBasis:          priceBasisFromEnv(),
			AddressCacheTTL:     envDuration("ADDRESS_CACHE_TTL_HOURS", 24*time.Hour),
			CertificateCacheTTL: envDuration("CERTIFICATE_CACHE_TTL_HOURS", time.Hour),
			ReconcileBatchSize:  envInt32("RECONCILE_BATCH_SIZE", 25),
		},
		EmailAPIKey:        os.Getenv("RESEND_API_KEY"),
		EmailFrom:          envOrDefault("NOTIFY_FROM_EMAIL", "noreply@taxbridge.dev"),
		EmailTo:            os.Getenv("NOTIFY_TO_EMAIL"),
		ReconcilerQueueURL: os.Getenv("RECONCILER_QUEUE_URL"),
	}
}

func priceBasisFromEnv() PriceBasis {
	if os.Getenv("TAX_PRICE_BASIS") == string(BasisLineSubtotal) {
		return BasisLineSubtotal
	}
	return BasisUnitPrice
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			return time.Duration(hours) * time.Hour
		}
	}
	return def
}

func envInt32(key string, def int32) int32 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil && n > 0 {
			return int32(n)
		}
	}
	return def
}
