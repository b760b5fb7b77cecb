// Package usage aggregates the live device set into load, cost and
// efficiency figures. Everything here is a view over the current snapshot;
// nothing is persisted.
package usage

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/gridmate/gridmate/core/category"
	"github.com/gridmate/gridmate/core/model"
)

// DefaultRatePerKWh is the tariff applied when configuration does not
// provide one.
const DefaultRatePerKWh = 2.50

// Rating is the categorical efficiency verdict for the current snapshot.
type Rating string

const (
	RatingExcellent Rating = "excellent"
	RatingGood      Rating = "good"
	RatingPoor      Rating = "poor"
)

// Stats summarises the live device set.
type Stats struct {
	TotalUsageWatts     float64 `json:"total_usage_watts"`
	MonthlyCostEstimate int     `json:"monthly_cost_estimate"`
	ActiveDeviceCount   int     `json:"active_device_count"`
	AverageActiveWatts  float64 `json:"average_active_watts"`
	EfficiencyRating    Rating  `json:"efficiency_rating"`
}

// Estimator computes usage statistics from a device snapshot.
type Estimator struct {
	RatePerKWh float64
}

// NewEstimator returns an Estimator with the given tariff. Non-positive
// rates fall back to the default.
func NewEstimator(ratePerKWh float64) Estimator {
	if ratePerKWh <= 0 {
		ratePerKWh = DefaultRatePerKWh
	}
	return Estimator{RatePerKWh: ratePerKWh}
}

// Estimate aggregates the devices that are currently on. An empty or all-off
// snapshot yields zeros with an excellent rating.
func (e Estimator) Estimate(devices []model.Device) Stats {
	stats := Stats{EfficiencyRating: RatingExcellent}
	var cost float64
	var activeWatts []float64
	heavyActive := 0
	for _, d := range devices {
		if !d.IsOn() {
			continue
		}
		stats.ActiveDeviceCount++
		stats.TotalUsageWatts += d.RatedPowerWatts
		activeWatts = append(activeWatts, d.RatedPowerWatts)
		kwhPerDay := d.RatedPowerWatts / 1000 * d.HoursPerDay()
		cost += kwhPerDay * 30 * e.RatePerKWh
		if d.RatedPowerWatts > category.HighUsageThresholdWatts {
			heavyActive++
		}
	}
	stats.MonthlyCostEstimate = int(math.Round(cost))
	if len(activeWatts) > 0 {
		stats.AverageActiveWatts = stat.Mean(activeWatts, nil)
	}
	switch {
	case heavyActive >= 2:
		stats.EfficiencyRating = RatingPoor
	case heavyActive == 1:
		stats.EfficiencyRating = RatingGood
	}
	return stats
}
