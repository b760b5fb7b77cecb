package config

import (
	"fmt"

	"github.com/gridmate/gridmate/infra/store"
)

// StorageConfig selects the device repository and preference store backends.
type StorageConfig struct {
	// Backend selects the device repository: "memory" or "sqlite".
	Backend string `json:"backend"`
	// Path is the SQLite database location.
	Path string `json:"path"`
	// RedisEnabled switches the preference store from the device backend to
	// Redis.
	RedisEnabled bool              `json:"redis_enabled"`
	Redis        store.RedisConfig `json:"redis"`
}

// SetDefaults applies sane defaults.
func (c *StorageConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Backend == "sqlite" && c.Path == "" {
		c.Path = "gridmate.db"
	}
}

// Validate checks mandatory fields.
func (c StorageConfig) Validate() error {
	if c.Backend != "memory" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown storage backend %s", c.Backend)
	}
	if c.RedisEnabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required when redis is enabled")
	}
	return nil
}
