package outage

import (
	"testing"
	"time"

	"github.com/gridmate/gridmate/core/model"
)

func TestEstimateStageZero(t *testing.T) {
	e := ScheduleEstimator{Area: "Area 7"}
	if w := e.Estimate(0, time.Now()); w != nil {
		t.Fatalf("stage 0 produced a window: %#v", w)
	}
}

func TestEstimateEvenHourBoundary(t *testing.T) {
	e := ScheduleEstimator{Area: "Area 7"}
	for stage := model.Stage(1); stage <= 8; stage++ {
		for hour := 0; hour < 24; hour++ {
			now := time.Date(2026, 3, 14, hour, 17, 0, 0, time.UTC)
			w := e.Estimate(stage, now)
			if w == nil {
				t.Fatalf("stage %d hour %d: no window", stage, hour)
			}
			if w.Start.Hour()%2 != 0 || w.Start.Minute() != 0 {
				t.Fatalf("hour %d: start not on even hour: %v", hour, w.Start)
			}
			if !w.Start.After(now) {
				t.Fatalf("hour %d: start %v not after now %v", hour, w.Start, now)
			}
			if w.End.Sub(w.Start) != WindowDuration {
				t.Fatalf("hour %d: duration %v", hour, w.End.Sub(w.Start))
			}
		}
	}
}

func TestEstimateDayWrap(t *testing.T) {
	e := ScheduleEstimator{}
	now := time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)
	w := e.Estimate(2, now)
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !w.Start.Equal(want) {
		t.Fatalf("expected wrap to %v, got %v", want, w.Start)
	}
}

func TestEstimateDeterministic(t *testing.T) {
	e := ScheduleEstimator{Area: "Area 7"}
	now := time.Date(2026, 3, 14, 9, 5, 0, 0, time.UTC)
	a := e.Estimate(4, now)
	b := e.Estimate(4, now)
	if !a.Start.Equal(b.Start) || !a.End.Equal(b.End) || a.Note != b.Note {
		t.Fatalf("estimate not deterministic: %#v vs %#v", a, b)
	}
}

func TestEstimateNote(t *testing.T) {
	now := time.Now()
	withArea := ScheduleEstimator{Area: "Area 7"}.Estimate(3, now)
	if withArea.Note != "Stage 3 outage expected in Area 7." {
		t.Fatalf("unexpected note: %q", withArea.Note)
	}
	noArea := ScheduleEstimator{}.Estimate(3, now)
	if noArea.Note != "Stage 3 outage expected. Set your area for an accurate schedule." {
		t.Fatalf("unexpected note: %q", noArea.Note)
	}
}

func TestFallbackSeeded(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	a := NewFallbackEstimator("Area 7", 42).State(now)
	b := NewFallbackEstimator("Area 7", 42).State(now)
	if a.Stage != b.Stage {
		t.Fatalf("same seed produced different stages: %d vs %d", a.Stage, b.Stage)
	}
	if a.Stage < 0 || a.Stage > 4 {
		t.Fatalf("fallback stage out of range: %d", a.Stage)
	}
	if a.Source != model.SourceFallback {
		t.Fatalf("fallback not marked: %s", a.Source)
	}
	if a.Stage > 0 {
		if a.NextSlot == nil {
			t.Fatalf("non-zero stage without window")
		}
		if !a.NextSlot.Start.Equal(now.Add(2 * time.Hour)) {
			t.Fatalf("fallback start %v", a.NextSlot.Start)
		}
		if a.NextSlot.End.Sub(a.NextSlot.Start) != WindowDuration {
			t.Fatalf("fallback duration %v", a.NextSlot.End.Sub(a.NextSlot.Start))
		}
	}
}

func TestFallbackStageDistribution(t *testing.T) {
	e := NewFallbackEstimator("", 7)
	now := time.Now()
	for i := 0; i < 100; i++ {
		st := e.State(now)
		if st.Stage < 0 || st.Stage > 4 {
			t.Fatalf("stage out of range: %d", st.Stage)
		}
		if st.Stage == 0 && st.NextSlot != nil {
			t.Fatalf("stage 0 with window")
		}
	}
}
