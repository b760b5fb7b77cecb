package model

import (
	"fmt"
	"time"
)

// Stage is the severity level of the rolling outage program.
// 0 means no outages are scheduled, 8 is the most severe.
type Stage int

// Validate checks that the stage is within the supported range.
func (s Stage) Validate() error {
	if s < 0 || s > 8 {
		return fmt.Errorf("stage must be within [0,8], got %d", s)
	}
	return nil
}

// OutageSource records where an outage estimate came from.
type OutageSource string

const (
	// SourceSchedule marks a window derived from a live stage value.
	SourceSchedule OutageSource = "schedule"
	// SourceFallback marks demo data injected when the grid provider is
	// unreachable.
	SourceFallback OutageSource = "fallback"
)

// OutageWindow is a concrete predicted start/end pair for the next
// power interruption.
type OutageWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Note  string    `json:"note"`
}

// MinutesUntil returns the whole minutes between now and the window start.
func (w OutageWindow) MinutesUntil(now time.Time) int {
	return int(w.Start.Sub(now) / time.Minute)
}

// OutageState is the engine's view of the grid, recomputed on each refresh.
type OutageState struct {
	Stage    Stage         `json:"stage"`
	NextSlot *OutageWindow `json:"next_slot,omitempty"`
	Area     string        `json:"area"`
	Source   OutageSource  `json:"source"`
}
