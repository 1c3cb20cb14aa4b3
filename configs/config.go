package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func Config(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	return os.Getenv(key)
}

// AppConfig carries the tunables of the transaction and commission engine.
// All money values are paise.
type AppConfig struct {
	PayoutThreshold      int64
	CommissionRates      [4]int64
	MaxCommissionDepth   int
	ReferralCodeAlphabet string
	ReferralCodeLength   int
	ReferralCodeRetries  int
	DescriptionMaxLength int
	AmountMax            int64
	CommissionDueDays    int
}

// DefaultAppConfig returns the stock configuration: ₹10 payout threshold and
// 4-level commission rates of ₹1.60 / ₹0.80 / ₹0.40 / ₹0.20 per fee event.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		PayoutThreshold:      1000,
		CommissionRates:      [4]int64{160, 80, 40, 20},
		MaxCommissionDepth:   4,
		ReferralCodeAlphabet: "ABCDEFGHJKLMNPQRSTUVWXYZ23456789",
		ReferralCodeLength:   8,
		ReferralCodeRetries:  10,
		DescriptionMaxLength: 200,
		AmountMax:            100_000_000,
		CommissionDueDays:    7,
	}
}

// LoadAppConfig builds the runtime configuration from the defaults plus any
// environment overrides.
func LoadAppConfig() AppConfig {
	cfg := DefaultAppConfig()

	if v := Config("PAYOUT_THRESHOLD"); v != "" {
		cfg.PayoutThreshold = mustInt64("PAYOUT_THRESHOLD", v)
	}
	if v := Config("MAX_COMMISSION_DEPTH"); v != "" {
		cfg.MaxCommissionDepth = int(mustInt64("MAX_COMMISSION_DEPTH", v))
	}
	if v := Config("REFERRAL_CODE_ALPHABET"); v != "" {
		cfg.ReferralCodeAlphabet = v
	}
	if v := Config("REFERRAL_CODE_LENGTH"); v != "" {
		cfg.ReferralCodeLength = int(mustInt64("REFERRAL_CODE_LENGTH", v))
	}
	if v := Config("DESCRIPTION_MAX_LENGTH"); v != "" {
		cfg.DescriptionMaxLength = int(mustInt64("DESCRIPTION_MAX_LENGTH", v))
	}
	if v := Config("AMOUNT_MAX"); v != "" {
		cfg.AmountMax = mustInt64("AMOUNT_MAX", v)
	}

	rateKeys := []string{"COMMISSION_RATE_L1", "COMMISSION_RATE_L2", "COMMISSION_RATE_L3", "COMMISSION_RATE_L4"}
	for i, key := range rateKeys {
		if v := Config(key); v != "" {
			cfg.CommissionRates[i] = mustInt64(key, v)
		}
	}

	return cfg
}

func mustInt64(key, value string) int64 {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Fatalf("🔥 Invalid value for %s: %q", key, value)
	}
	return n
}
