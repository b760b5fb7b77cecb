package cmd

import (
	"fmt"

	"github.com/gridmate/gridmate/core/model"
	"github.com/gridmate/gridmate/core/usage"
)

// deviceLine formats one device for a terminal listing.
func deviceLine(d model.Device) string {
	return fmt.Sprintf("  - %s (%s, %.0fW)", d.Name, d.Type, d.RatedPowerWatts)
}

// usageLine summarises the live usage stats.
func usageLine(st usage.Stats) string {
	return fmt.Sprintf("Usage: %.0fW across %d active device(s)",
		st.TotalUsageWatts, st.ActiveDeviceCount)
}
