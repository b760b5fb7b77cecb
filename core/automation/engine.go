// Package automation evaluates user automation rules against the estimated
// outage window and produces recommended actions. The engine recommends; it
// never flips a device itself. The planner is the executing counterpart for
// the one-shot "prepare now" flow.
package automation

import (
	"fmt"
	"sync"
	"time"

	"github.com/gridmate/gridmate/core/category"
	"github.com/gridmate/gridmate/core/logger"
	"github.com/gridmate/gridmate/core/model"
)

// DefaultLookahead bounds how far before an outage the engine starts
// producing actions. Earlier recommendations would nag the user.
const DefaultLookahead = 60 * time.Minute

// Input is the snapshot a rule evaluation runs against. Each evaluation is a
// pure function of its input; the engine holds no per-evaluation state.
type Input struct {
	Now        time.Time
	Window     *model.OutageWindow
	Categories category.Categories
	Rules      model.AutomationRules
}

// Engine is the automation rule engine. It is either armed or disarmed;
// while disarmed every evaluation yields no actions.
type Engine struct {
	mu        sync.Mutex
	armed     bool
	lookahead time.Duration
	log       logger.Logger
}

// NewEngine creates a disarmed Engine with the default lookahead.
func NewEngine(log logger.Logger) *Engine {
	return &Engine{lookahead: DefaultLookahead, log: log}
}

// SetArmed switches the engine between its two states.
func (e *Engine) SetArmed(armed bool) {
	e.mu.Lock()
	e.armed = armed
	e.mu.Unlock()
}

// Armed reports the current state.
func (e *Engine) Armed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.armed
}

// Evaluate produces the ordered action list for the snapshot. It returns nil
// when the engine is disarmed, no window exists, or the outage start is
// outside the lookahead. Missing or partial data never yields an error.
func (e *Engine) Evaluate(in Input) []model.UpcomingAction {
	if !e.Armed() || in.Window == nil {
		return nil
	}
	until := in.Window.Start.Sub(in.Now)
	if until <= 0 || until > e.lookahead {
		return nil
	}

	var actions []model.UpcomingAction
	if in.Rules.AutoTurnOffHighUsage {
		if targets := activeUnprotected(in.Categories.HighUsage, in.Rules); len(targets) > 0 {
			actions = append(actions, model.UpcomingAction{
				Kind:    model.ActionTurnOff,
				Devices: targets,
				Reason:  "High power consumption",
			})
		}
	}
	if in.Rules.AutoTurnOffNonEssential {
		if targets := activeUnprotected(in.Categories.Other, in.Rules); len(targets) > 0 {
			actions = append(actions, model.UpcomingAction{
				Kind:    model.ActionTurnOff,
				Devices: targets,
				Reason:  "Non-essential devices",
			})
		}
	}
	if in.Rules.NotifyBeforeOutage {
		minutes := int(until / time.Minute)
		actions = append(actions, model.UpcomingAction{
			Kind:    model.ActionNotify,
			Reason:  "Outage warning",
			Message: fmt.Sprintf("Power outage expected in %d minutes.", minutes),
		})
	}
	if len(actions) > 0 && e.log != nil {
		e.log.Debugw("rules evaluated", map[string]any{
			"actions":       len(actions),
			"minutes_until": int(until / time.Minute),
		})
	}
	return actions
}

func activeUnprotected(devices []model.Device, rules model.AutomationRules) []model.Device {
	var out []model.Device
	for _, d := range devices {
		if d.IsOn() && !rules.IsProtected(d.ID) {
			out = append(out, d)
		}
	}
	return out
}
