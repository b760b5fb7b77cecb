package outage

import (
	"fmt"
	"time"

	"github.com/gridmate/gridmate/core/model"
)

// WindowDuration is the fixed length of a predicted outage, regardless of
// stage.
const WindowDuration = 2*time.Hour + 30*time.Minute

// ScheduleEstimator derives the next outage window from a live stage value.
// Outages are assumed to begin on even-hour boundaries.
type ScheduleEstimator struct {
	Area string
}

// Estimate returns the next outage window at or after now, or nil when the
// stage is zero. The result depends only on (stage, now).
func (e ScheduleEstimator) Estimate(stage model.Stage, now time.Time) *model.OutageWindow {
	if stage == 0 {
		return nil
	}
	hour := now.Hour()
	candidate := ((hour + 1) / 2) * 2
	if candidate == hour {
		candidate += 2
	}
	if candidate >= 24 {
		candidate = 0
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), candidate, 0, 0, 0, now.Location())
	if !start.After(now) {
		start = start.AddDate(0, 0, 1)
	}
	return &model.OutageWindow{
		Start: start,
		End:   start.Add(WindowDuration),
		Note:  e.note(stage),
	}
}

// State builds the full outage state for the stage.
func (e ScheduleEstimator) State(stage model.Stage, now time.Time) model.OutageState {
	return model.OutageState{
		Stage:    stage,
		NextSlot: e.Estimate(stage, now),
		Area:     e.Area,
		Source:   model.SourceSchedule,
	}
}

func (e ScheduleEstimator) note(stage model.Stage) string {
	if e.Area == "" {
		return fmt.Sprintf("Stage %d outage expected. Set your area for an accurate schedule.", stage)
	}
	return fmt.Sprintf("Stage %d outage expected in %s.", stage, e.Area)
}
