package metrics

import (
	"time"

	"github.com/gridmate/gridmate/core/model"
	"github.com/gridmate/gridmate/core/usage"
)

// RefreshEvent captures the outcome of one grid refresh cycle.
type RefreshEvent struct {
	Stage     model.Stage
	Source    model.OutageSource
	HasWindow bool
	Time      time.Time
}

// UsageSample is a point-in-time usage snapshot.
type UsageSample struct {
	OwnerID string
	Stats   usage.Stats
	Time    time.Time
}

// ActionEvent represents one recommended or executed action.
type ActionEvent struct {
	Kind    model.ActionKind
	Devices int
	Reason  string
	Time    time.Time
}

// NotificationEvent records an advance-warning that fired.
type NotificationEvent struct {
	WindowStart time.Time
	Time        time.Time
}

// Sink records engine events for observability purposes.
type Sink interface {
	RecordRefresh(ev RefreshEvent) error
	RecordUsage(sample UsageSample) error
	RecordActions(evs []ActionEvent) error
	RecordNotification(ev NotificationEvent) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordRefresh(RefreshEvent) error           { return nil }
func (NopSink) RecordUsage(UsageSample) error              { return nil }
func (NopSink) RecordActions([]ActionEvent) error          { return nil }
func (NopSink) RecordNotification(NotificationEvent) error { return nil }
