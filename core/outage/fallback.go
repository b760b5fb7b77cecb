package outage

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gridmate/gridmate/core/model"
)

// fallbackMaxStage bounds the random stage injected when the grid provider is
// unreachable.
const fallbackMaxStage = 4

// FallbackEstimator produces demo outage data when no live stage is
// available. The random source is injected so tests can pin the outcome.
type FallbackEstimator struct {
	Area string
	rng  *rand.Rand
}

// NewFallbackEstimator creates a FallbackEstimator seeded with the given
// value. A zero seed falls back to the current time.
func NewFallbackEstimator(area string, seed int64) *FallbackEstimator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &FallbackEstimator{Area: area, rng: rand.New(rand.NewSource(seed))}
}

// State fabricates an outage state with a random stage in [0,4] and a window
// starting two hours from now. The note and source mark the data as demo so
// downstream consumers can tell it apart from a genuine schedule.
func (e *FallbackEstimator) State(now time.Time) model.OutageState {
	stage := model.Stage(e.rng.Intn(fallbackMaxStage + 1))
	st := model.OutageState{
		Stage:  stage,
		Area:   e.Area,
		Source: model.SourceFallback,
	}
	if stage == 0 {
		return st
	}
	start := now.Add(2 * time.Hour)
	st.NextSlot = &model.OutageWindow{
		Start: start,
		End:   start.Add(WindowDuration),
		Note:  fmt.Sprintf("Demo data: stage %d outage, grid status unavailable.", stage),
	}
	return st
}
