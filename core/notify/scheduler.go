// Package notify decides when an advance-warning notification should fire.
// The scheduler is evaluated on the engine's refresh cadence, not
// continuously, and fires at most once per outage window.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/gridmate/gridmate/core/model"
)

// Scheduler tracks which outage windows have already been notified.
type Scheduler struct {
	mu       sync.Mutex
	notified map[int64]bool
}

// NewScheduler creates an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{notified: map[int64]bool{}}
}

// ShouldNotify returns the warning message to deliver this tick, or "" with
// false when no notification is due. A window is keyed by its start time;
// repeated ticks for an already-notified window never re-fire.
func (s *Scheduler) ShouldNotify(window *model.OutageWindow, rules model.AutomationRules, now time.Time) (string, bool) {
	if window == nil || !rules.NotifyBeforeOutage {
		return "", false
	}
	lead := rules.NotifyMinutesBefore
	if lead <= 0 {
		lead = model.DefaultNotifyMinutes
	}
	minutes := window.MinutesUntil(now)
	if minutes <= 0 || minutes > lead {
		return "", false
	}

	key := window.Start.Unix()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notified[key] {
		return "", false
	}
	s.notified[key] = true
	return fmt.Sprintf("Power outage expected in %d minutes.", minutes), true
}

// Forget drops windows that started before the given time. A past window can
// never re-fire, so the refresh loop prunes each cycle to keep the map
// bounded over a long-lived session.
func (s *Scheduler) Forget(before time.Time) {
	cutoff := before.Unix()
	s.mu.Lock()
	for key := range s.notified {
		if key < cutoff {
			delete(s.notified, key)
		}
	}
	s.mu.Unlock()
}

// Reset forgets every recorded window.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	s.notified = map[int64]bool{}
	s.mu.Unlock()
}
