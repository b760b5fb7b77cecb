package config

import "fmt"

// ActionLogConfig defines settings for action history storage and rotation.
type ActionLogConfig struct {
	// Enabled switches action history on.
	Enabled bool `json:"enabled"`
	// Path is the file location of the log store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *ActionLogConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "actions.log"
	}
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = 10
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 3
	}
}

// Validate checks mandatory fields.
func (c ActionLogConfig) Validate() error {
	if c.Enabled && c.Path == "" {
		return fmt.Errorf("action log path is required")
	}
	return nil
}
