package automation

import (
	"testing"
	"time"

	"github.com/gridmate/gridmate/core/category"
	"github.com/gridmate/gridmate/core/model"
	"github.com/gridmate/gridmate/core/outage"
)

func testInput(startIn time.Duration, rules model.AutomationRules, devices ...model.Device) Input {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	rules.SetDefaults()
	return Input{
		Now: now,
		Window: &model.OutageWindow{
			Start: now.Add(startIn),
			End:   now.Add(startIn + outage.WindowDuration),
		},
		Categories: category.Categorize(devices),
		Rules:      rules,
	}
}

func TestEvaluateDisarmed(t *testing.T) {
	e := NewEngine(nil)
	in := testInput(45*time.Minute,
		model.AutomationRules{AutoTurnOffHighUsage: true, NotifyBeforeOutage: true},
		model.Device{ID: "d1", Type: model.TypeHeater, RatedPowerWatts: 500, Status: model.StatusOn},
	)
	if got := e.Evaluate(in); got != nil {
		t.Fatalf("disarmed engine produced actions: %#v", got)
	}
}

func TestEvaluateOutsideLookahead(t *testing.T) {
	e := NewEngine(nil)
	e.SetArmed(true)
	in := testInput(90*time.Minute,
		model.AutomationRules{AutoTurnOffHighUsage: true},
		model.Device{ID: "d1", Type: model.TypeHeater, RatedPowerWatts: 500, Status: model.StatusOn},
	)
	if got := e.Evaluate(in); got != nil {
		t.Fatalf("outage 90m away produced actions: %#v", got)
	}
}

func TestEvaluateHighUsageTurnOff(t *testing.T) {
	e := NewEngine(nil)
	e.SetArmed(true)
	in := testInput(45*time.Minute,
		model.AutomationRules{AutoTurnOffHighUsage: true},
		model.Device{ID: "d1", Type: model.TypeHeater, RatedPowerWatts: 500, Status: model.StatusOn},
	)
	got := e.Evaluate(in)
	if len(got) != 1 {
		t.Fatalf("expected exactly one action, got %d", len(got))
	}
	if got[0].Kind != model.ActionTurnOff || got[0].Reason != "High power consumption" {
		t.Fatalf("unexpected action: %#v", got[0])
	}
	if len(got[0].Devices) != 1 || got[0].Devices[0].ID != "d1" {
		t.Fatalf("unexpected targets: %#v", got[0].Devices)
	}
}

func TestEvaluateProtectedExcluded(t *testing.T) {
	e := NewEngine(nil)
	e.SetArmed(true)
	rules := model.AutomationRules{
		AutoTurnOffHighUsage: true,
		ProtectedDeviceIDs:   map[string]bool{"d1": true, "gone": true},
	}
	in := testInput(45*time.Minute, rules,
		model.Device{ID: "d1", Type: model.TypeHeater, RatedPowerWatts: 500, Status: model.StatusOn},
	)
	if got := e.Evaluate(in); got != nil {
		t.Fatalf("protected device targeted: %#v", got)
	}
}

func TestEvaluateNonEssential(t *testing.T) {
	e := NewEngine(nil)
	e.SetArmed(true)
	in := testInput(30*time.Minute,
		model.AutomationRules{AutoTurnOffNonEssential: true},
		model.Device{ID: "tv", Type: model.TypeTelevision, RatedPowerWatts: 120, Status: model.StatusOn},
		model.Device{ID: "fridge", Type: model.TypeRefrigerator, RatedPowerWatts: 150, Status: model.StatusOn},
	)
	got := e.Evaluate(in)
	if len(got) != 1 {
		t.Fatalf("expected one action, got %d", len(got))
	}
	if got[0].Reason != "Non-essential devices" {
		t.Fatalf("unexpected reason: %q", got[0].Reason)
	}
	if len(got[0].Devices) != 1 || got[0].Devices[0].ID != "tv" {
		t.Fatalf("essential device targeted: %#v", got[0].Devices)
	}
}

func TestEvaluateNotify(t *testing.T) {
	e := NewEngine(nil)
	e.SetArmed(true)
	in := testInput(45*time.Minute, model.AutomationRules{NotifyBeforeOutage: true})
	got := e.Evaluate(in)
	if len(got) != 1 || got[0].Kind != model.ActionNotify {
		t.Fatalf("expected notify action, got %#v", got)
	}
	if got[0].Message != "Power outage expected in 45 minutes." {
		t.Fatalf("unexpected message: %q", got[0].Message)
	}
}

func TestEvaluateNoWindow(t *testing.T) {
	e := NewEngine(nil)
	e.SetArmed(true)
	in := testInput(45*time.Minute, model.AutomationRules{NotifyBeforeOutage: true})
	in.Window = nil
	if got := e.Evaluate(in); got != nil {
		t.Fatalf("nil window produced actions: %#v", got)
	}
}

func TestEvaluateOrdering(t *testing.T) {
	e := NewEngine(nil)
	e.SetArmed(true)
	in := testInput(20*time.Minute,
		model.AutomationRules{
			AutoTurnOffHighUsage:    true,
			AutoTurnOffNonEssential: true,
			NotifyBeforeOutage:      true,
		},
		model.Device{ID: "heater", Type: model.TypeHeater, RatedPowerWatts: 2000, Status: model.StatusOn},
		model.Device{ID: "tv", Type: model.TypeTelevision, RatedPowerWatts: 120, Status: model.StatusOn},
	)
	got := e.Evaluate(in)
	if len(got) != 3 {
		t.Fatalf("expected three actions, got %d", len(got))
	}
	if got[0].Reason != "High power consumption" || got[1].Reason != "Non-essential devices" || got[2].Kind != model.ActionNotify {
		t.Fatalf("unexpected order: %#v", got)
	}
}
