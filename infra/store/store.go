// Package store provides the persistence boundaries of the engine: the
// device repository and the preference store. The engine scopes every call
// to the owning user.
package store

import (
	"context"
	"errors"

	"github.com/gridmate/gridmate/core/model"
)

// ErrNotFound is returned when a device id does not exist for the owner.
var ErrNotFound = errors.New("store: device not found")

// DeviceUpdate is a partial device mutation. Nil fields are left unchanged.
type DeviceUpdate struct {
	Name               *string
	Room               *string
	RatedPowerWatts    *float64
	AverageHoursPerDay *float64
	Status             *model.DeviceStatus
}

// Apply overlays the update onto the device.
func (u DeviceUpdate) Apply(d model.Device) model.Device {
	if u.Name != nil {
		d.Name = *u.Name
	}
	if u.Room != nil {
		d.Room = *u.Room
	}
	if u.RatedPowerWatts != nil {
		d.RatedPowerWatts = *u.RatedPowerWatts
	}
	if u.AverageHoursPerDay != nil {
		d.AverageHoursPerDay = *u.AverageHoursPerDay
	}
	if u.Status != nil {
		d.Status = *u.Status
	}
	return d
}

// StatusUpdate builds a DeviceUpdate flipping only the switch state.
func StatusUpdate(status model.DeviceStatus) DeviceUpdate {
	return DeviceUpdate{Status: &status}
}

// DeviceRepository is the persistent CRUD store for device records.
type DeviceRepository interface {
	List(ctx context.Context, ownerID string) ([]model.Device, error)
	Insert(ctx context.Context, d model.Device) (model.Device, error)
	Update(ctx context.Context, ownerID, id string, upd DeviceUpdate) error
	// UpdateMany applies the status to all ids atomically: either every
	// device is updated or none is.
	UpdateMany(ctx context.Context, ownerID string, ids []string, status model.DeviceStatus) error
	Delete(ctx context.Context, ownerID, id string) error
}

// PreferenceStore is a durable key-value store for automation rules and
// favorites, namespaced per owner.
type PreferenceStore interface {
	LoadRules(ctx context.Context, ownerID string) (model.AutomationRules, error)
	SaveRules(ctx context.Context, ownerID string, rules model.AutomationRules) error
	LoadFavorites(ctx context.Context, ownerID string) ([]string, error)
	SaveFavorites(ctx context.Context, ownerID string, ids []string) error
}
