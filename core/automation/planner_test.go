package automation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridmate/gridmate/core/model"
)

type fakeUpdater struct {
	ids    []string
	status model.DeviceStatus
	err    error
}

func (f *fakeUpdater) UpdateMany(_ context.Context, _ string, ids []string, status model.DeviceStatus) error {
	if f.err != nil {
		return f.err
	}
	f.ids = ids
	f.status = status
	return nil
}

type denyConfirm struct{}

func (denyConfirm) Confirm([]model.Device) bool { return false }

func TestPrepareNothingActive(t *testing.T) {
	p := NewPlanner(&fakeUpdater{}, nil, nil)
	res, err := p.Prepare(context.Background(), "u1", []model.Device{
		{ID: "tv", Type: model.TypeTelevision, Status: model.StatusOff},
	}, model.AutomationRules{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeNothingActive, res.Outcome)
	assert.Empty(t, res.TurnedOff)
}

func TestPrepareOnlyEssentialActive(t *testing.T) {
	p := NewPlanner(&fakeUpdater{}, nil, nil)
	res, err := p.Prepare(context.Background(), "u1", []model.Device{
		{ID: "fridge", Type: model.TypeRefrigerator, Status: model.StatusOn},
		{ID: "tv", Type: model.TypeTelevision, Status: model.StatusOff},
	}, model.AutomationRules{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeOnlyEssentialActive, res.Outcome)
	assert.Len(t, res.Skipped, 1)
	// The two no-op outcomes must stay distinguishable.
	assert.NotEqual(t, OutcomeNothingActive, res.Outcome)
}

func TestPrepareTurnsOffNonEssential(t *testing.T) {
	repo := &fakeUpdater{}
	p := NewPlanner(repo, nil, nil)
	res, err := p.Prepare(context.Background(), "u1", []model.Device{
		{ID: "fridge", Type: model.TypeRefrigerator, Status: model.StatusOn},
		{ID: "tv", Type: model.TypeTelevision, Status: model.StatusOn},
		{ID: "heater", Type: model.TypeHeater, Status: model.StatusOn, RatedPowerWatts: 2000},
	}, model.AutomationRules{})
	require.NoError(t, err)
	assert.Equal(t, OutcomePrepared, res.Outcome)
	assert.ElementsMatch(t, []string{"tv", "heater"}, repo.ids)
	assert.Equal(t, model.StatusOff, repo.status)
	require.Len(t, res.TurnedOff, 2)
	for _, d := range res.TurnedOff {
		assert.Equal(t, model.StatusOff, d.Status)
	}
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "fridge", res.Skipped[0].ID)
}

func TestPrepareProtectedSkipped(t *testing.T) {
	repo := &fakeUpdater{}
	p := NewPlanner(repo, nil, nil)
	rules := model.AutomationRules{ProtectedDeviceIDs: map[string]bool{"tv": true}}
	res, err := p.Prepare(context.Background(), "u1", []model.Device{
		{ID: "tv", Type: model.TypeTelevision, Status: model.StatusOn},
		{ID: "lamp", Type: model.TypeLight, Status: model.StatusOn},
	}, rules)
	require.NoError(t, err)
	assert.Equal(t, []string{"lamp"}, repo.ids)
	assert.Len(t, res.Skipped, 1)
}

func TestPrepareConfirmDeclined(t *testing.T) {
	repo := &fakeUpdater{}
	p := NewPlanner(repo, denyConfirm{}, nil)
	res, err := p.Prepare(context.Background(), "u1", []model.Device{
		{ID: "tv", Type: model.TypeTelevision, Status: model.StatusOn},
	}, model.AutomationRules{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, res.Outcome)
	assert.Nil(t, repo.ids)
}

func TestPrepareRepositoryFailure(t *testing.T) {
	repo := &fakeUpdater{err: errors.New("write failed")}
	p := NewPlanner(repo, nil, nil)
	devices := []model.Device{
		{ID: "tv", Type: model.TypeTelevision, Status: model.StatusOn},
	}
	_, err := p.Prepare(context.Background(), "u1", devices, model.AutomationRules{})
	require.Error(t, err)
	// The caller's snapshot is untouched on failure.
	assert.Equal(t, model.StatusOn, devices[0].Status)
}
