package automation

import (
	"context"
	"fmt"

	"github.com/gridmate/gridmate/core/category"
	"github.com/gridmate/gridmate/core/logger"
	"github.com/gridmate/gridmate/core/model"
)

// Outcome classifies the result of a preparation run.
type Outcome int

const (
	// OutcomePrepared means non-essential devices were switched off.
	OutcomePrepared Outcome = iota
	// OutcomeNothingActive means no device was on at all.
	OutcomeNothingActive
	// OutcomeOnlyEssentialActive means every active device was essential or
	// protected.
	OutcomeOnlyEssentialActive
	// OutcomeCancelled means the user declined the confirmation prompt.
	OutcomeCancelled
)

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomePrepared:
		return "prepared"
	case OutcomeNothingActive:
		return "nothing_active"
	case OutcomeOnlyEssentialActive:
		return "only_essential_active"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// PrepareResult lists what a preparation run changed and what it left alone.
type PrepareResult struct {
	Outcome   Outcome
	TurnedOff []model.Device
	Skipped   []model.Device
}

// BatchUpdater applies one status to many devices in a single repository
// call. The write is atomic from the planner's point of view.
type BatchUpdater interface {
	UpdateMany(ctx context.Context, ownerID string, ids []string, status model.DeviceStatus) error
}

// Confirmer asks the user to approve switching off the listed devices.
type Confirmer interface {
	Confirm(targets []model.Device) bool
}

// AutoConfirm approves every request. Used by headless callers.
type AutoConfirm struct{}

func (AutoConfirm) Confirm([]model.Device) bool { return true }

// Planner implements the one-shot "prepare for outage" flow.
type Planner struct {
	repo    BatchUpdater
	confirm Confirmer
	log     logger.Logger
}

// NewPlanner creates a Planner. A nil confirmer auto-approves.
func NewPlanner(repo BatchUpdater, confirm Confirmer, log logger.Logger) *Planner {
	if confirm == nil {
		confirm = AutoConfirm{}
	}
	return &Planner{repo: repo, confirm: confirm, log: log}
}

// Prepare switches off every active device that is neither essential nor
// protected. It never applies partial local updates: the repository write
// either succeeds for all targets or the snapshot is left untouched.
func (p *Planner) Prepare(ctx context.Context, ownerID string, devices []model.Device, rules model.AutomationRules) (PrepareResult, error) {
	var active, targets, skipped []model.Device
	for _, d := range devices {
		if !d.IsOn() {
			continue
		}
		active = append(active, d)
		if category.IsEssential(d) || rules.IsProtected(d.ID) {
			skipped = append(skipped, d)
		} else {
			targets = append(targets, d)
		}
	}
	if len(active) == 0 {
		return PrepareResult{Outcome: OutcomeNothingActive}, nil
	}
	if len(targets) == 0 {
		return PrepareResult{Outcome: OutcomeOnlyEssentialActive, Skipped: skipped}, nil
	}
	if !p.confirm.Confirm(targets) {
		return PrepareResult{Outcome: OutcomeCancelled, Skipped: skipped}, nil
	}

	ids := make([]string, len(targets))
	for i, d := range targets {
		ids[i] = d.ID
	}
	if err := p.repo.UpdateMany(ctx, ownerID, ids, model.StatusOff); err != nil {
		return PrepareResult{}, fmt.Errorf("prepare: batch update: %w", err)
	}
	turnedOff := make([]model.Device, len(targets))
	for i, d := range targets {
		d.Status = model.StatusOff
		turnedOff[i] = d
	}
	if p.log != nil {
		p.log.Infof("prepared for outage: %d off, %d skipped", len(turnedOff), len(skipped))
	}
	return PrepareResult{Outcome: OutcomePrepared, TurnedOff: turnedOff, Skipped: skipped}, nil
}
