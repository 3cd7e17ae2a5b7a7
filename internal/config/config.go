// Package config loads runtime settings for the MediaKeeper CLI.
package config

import "time"

// Config holds process-level settings. User-adjustable values that belong
// to the vault (proxy overrides, cache TTL) are persisted in the settings
// record instead; these are the bootstrap defaults.
//
// Fields:
//   - DatabaseDSN: path/DSN of the local sqlite vault.
//   - HTTPTimeout: timeout applied to every outbound HTTP request.
//   - CacheTTL: feed cache lifetime used until the user adjusts it.
type Config struct {
	DatabaseDSN string
	HTTPTimeout time.Duration
	CacheTTL    time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "mediakeeper.db"
	c.HTTPTimeout = 20 * time.Second
	c.CacheTTL = 8 * time.Hour
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
