package config

import "time"

// LedgerConfig controls the retainer ledger's policy knobs.
//
// StrictBalance selects the over-utilization policy: when false (the
// default, preserving the observed behavior of the system this replaces)
// utilization may drive a balance negative and only raises an
// over-allocation event; when true such writes are rejected.
// ExpiryWarningDays is the width of the "Expiring Soon" window and
// ExpiryScanInterval how often the background scan runs.
type LedgerConfig struct {
	StrictBalance      bool
	ExpiryWarningDays  int
	ExpiryScanInterval time.Duration
}

// LoadLedgerConfig reads the ledger policy from the environment.
func LoadLedgerConfig() LedgerConfig {
	cfg := LedgerConfig{
		StrictBalance:      envBool("LEDGER_STRICT_BALANCE", false),
		ExpiryWarningDays:  envInt("RETAINER_EXPIRY_WARNING_DAYS", 30),
		ExpiryScanInterval: envDur("RETAINER_EXPIRY_SCAN_INTERVAL", time.Hour),
	}
	if cfg.ExpiryWarningDays < 1 {
		cfg.ExpiryWarningDays = 1
	}
	if cfg.ExpiryScanInterval < time.Minute {
		cfg.ExpiryScanInterval = time.Minute
	}
	return cfg
}
