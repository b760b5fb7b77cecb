package app

import (
	"github.com/gridmate/gridmate/core/category"
	"github.com/gridmate/gridmate/core/model"
	"github.com/gridmate/gridmate/core/usage"
)

// State is the engine's current snapshot. It is recomputed by pure functions
// on every refresh or device change and handed out by value.
type State struct {
	Devices    []model.Device
	Outage     model.OutageState
	Rules      model.AutomationRules
	Categories category.Categories
	Stats      usage.Stats
	Actions    []model.UpcomingAction
	Favorites  []string
}

func (s State) clone() State {
	out := s
	out.Devices = append([]model.Device(nil), s.Devices...)
	out.Actions = append([]model.UpcomingAction(nil), s.Actions...)
	out.Favorites = append([]string(nil), s.Favorites...)
	return out
}
