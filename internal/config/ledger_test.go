package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadLedgerConfig_Defaults(t *testing.T) {
	t.Setenv("LEDGER_STRICT_BALANCE", "")
	t.Setenv("RETAINER_EXPIRY_WARNING_DAYS", "")
	t.Setenv("RETAINER_EXPIRY_SCAN_INTERVAL", "")

	cfg := LoadLedgerConfig()
	assert.False(t, cfg.StrictBalance)
	assert.Equal(t, 30, cfg.ExpiryWarningDays)
	assert.Equal(t, time.Hour, cfg.ExpiryScanInterval)
}

func TestLoadLedgerConfig_Overrides(t *testing.T) {
	t.Setenv("LEDGER_STRICT_BALANCE", "true")
	t.Setenv("RETAINER_EXPIRY_WARNING_DAYS", "14")
	t.Setenv("RETAINER_EXPIRY_SCAN_INTERVAL", "15m")

	cfg := LoadLedgerConfig()
	assert.True(t, cfg.StrictBalance)
	assert.Equal(t, 14, cfg.ExpiryWarningDays)
	assert.Equal(t, 15*time.Minute, cfg.ExpiryScanInterval)
}

func TestLoadLedgerConfig_ClampsNonsense(t *testing.T) {
	t.Setenv("RETAINER_EXPIRY_WARNING_DAYS", "-3")
	t.Setenv("RETAINER_EXPIRY_SCAN_INTERVAL", "2s")

	cfg := LoadLedgerConfig()
	assert.Equal(t, 1, cfg.ExpiryWarningDays)
	assert.Equal(t, time.Minute, cfg.ExpiryScanInterval)
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-1")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1s")
	t.Setenv("RATE_LIMIT_TTL", "2s")

	cfg := LoadRateLimitConfig()
	assert.GreaterOrEqual(t, cfg.Capacity, 1)
	assert.GreaterOrEqual(t, cfg.RefillTokens, 1)
	assert.GreaterOrEqual(t, cfg.TTL, 5*cfg.RefillInterval)
}
