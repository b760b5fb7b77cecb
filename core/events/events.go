package events

import (
	"time"

	"github.com/gridmate/gridmate/core/model"
)

// OutageRefreshed is published after each grid refresh cycle.
type OutageRefreshed struct {
	State model.OutageState
	At    time.Time
}

// ActionsEmitted carries the recommendations produced by a rule evaluation.
type ActionsEmitted struct {
	Actions []model.UpcomingAction
	At      time.Time
}

// NotificationFired records an advance-warning notification for a window.
type NotificationFired struct {
	WindowStart time.Time
	Message     string
	At          time.Time
}

// DeviceToggled records a user or automation status flip, including
// rollbacks after failed repository writes.
type DeviceToggled struct {
	DeviceID   string
	Status     model.DeviceStatus
	RolledBack bool
	At         time.Time
}

// PrepareCompleted summarises a one-shot preparation run.
type PrepareCompleted struct {
	TurnedOff int
	Skipped   int
	At        time.Time
}
