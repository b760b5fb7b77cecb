package model

// DefaultNotifyMinutes is the advance-warning lead time applied when the user
// has not configured one.
const DefaultNotifyMinutes = 30

// AutomationRules holds the user-editable automation preferences. The rule set
// is persisted in the preference store and loaded once at engine start.
type AutomationRules struct {
	AutoTurnOffHighUsage    bool            `json:"auto_turn_off_high_usage"`
	AutoTurnOffNonEssential bool            `json:"auto_turn_off_non_essential"`
	NotifyBeforeOutage      bool            `json:"notify_before_outage"`
	NotifyMinutesBefore     int             `json:"notify_minutes_before"`
	ProtectedDeviceIDs      map[string]bool `json:"protected_device_ids"`
}

// SetDefaults applies sane defaults to unset fields.
func (r *AutomationRules) SetDefaults() {
	if r.NotifyMinutesBefore <= 0 {
		r.NotifyMinutesBefore = DefaultNotifyMinutes
	}
	if r.ProtectedDeviceIDs == nil {
		r.ProtectedDeviceIDs = map[string]bool{}
	}
}

// IsProtected reports whether the device id is exempt from automatic shutdown.
// Stale ids referencing deleted devices are simply never matched.
func (r AutomationRules) IsProtected(id string) bool {
	return r.ProtectedDeviceIDs[id]
}

// Armed reports whether any automation behaviour is enabled. A fully disabled
// rule set leaves the engine disarmed.
func (r AutomationRules) Armed() bool {
	return r.AutoTurnOffHighUsage || r.AutoTurnOffNonEssential || r.NotifyBeforeOutage
}
