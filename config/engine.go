package config

import "fmt"

// EngineConfig holds the engine-level settings.
type EngineConfig struct {
	// OwnerID scopes every repository and preference call.
	OwnerID string `json:"owner_id"`
	// Area names the outage area shown in window notes.
	Area string `json:"area"`
	// RefreshMinutes is the grid refresh cadence.
	RefreshMinutes int `json:"refresh_minutes"`
	// RatePerKWh is the tariff used for monthly cost estimates.
	RatePerKWh float64 `json:"rate_per_kwh"`
	// FallbackSeed pins the demo-data random source. Zero seeds from the
	// clock.
	FallbackSeed int64 `json:"fallback_seed"`
}

// SetDefaults applies sane defaults.
func (c *EngineConfig) SetDefaults() {
	if c.RefreshMinutes <= 0 {
		c.RefreshMinutes = 15
	}
	if c.RatePerKWh <= 0 {
		c.RatePerKWh = 2.50
	}
}

// Validate checks mandatory fields.
func (c EngineConfig) Validate() error {
	if c.OwnerID == "" {
		return fmt.Errorf("engine owner_id is required")
	}
	return nil
}
