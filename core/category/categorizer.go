// Package category partitions a device snapshot into essential, high-usage
// and other devices. The partition drives both automation targeting and the
// efficiency rating.
package category

import "github.com/gridmate/gridmate/core/model"

// HighUsageThresholdWatts is the canonical cutoff above which a non-essential
// device counts as high-usage.
const HighUsageThresholdWatts = 300

// essentialTypes are device kinds whose continuous operation is treated as
// non-negotiable.
var essentialTypes = map[model.DeviceType]bool{
	model.TypeRefrigerator: true,
	model.TypeRouter:       true,
	model.TypeCamera:       true,
}

// Categories holds the three disjoint partitions of a device snapshot.
type Categories struct {
	Essential []model.Device
	HighUsage []model.Device
	Other     []model.Device
}

// IsEssential reports whether the device type is in the essential set.
func IsEssential(d model.Device) bool { return essentialTypes[d.Type] }

// IsHighUsage reports whether the device draws more than the high-usage
// threshold. Essential devices are never counted as high-usage.
func IsHighUsage(d model.Device) bool {
	return !IsEssential(d) && d.RatedPowerWatts > HighUsageThresholdWatts
}

// Categorize partitions devices into essential, high-usage and other. Every
// input device lands in exactly one partition; the input is not modified.
func Categorize(devices []model.Device) Categories {
	var c Categories
	for _, d := range devices {
		switch {
		case IsEssential(d):
			c.Essential = append(c.Essential, d)
		case IsHighUsage(d):
			c.HighUsage = append(c.HighUsage, d)
		default:
			c.Other = append(c.Other, d)
		}
	}
	return c
}
