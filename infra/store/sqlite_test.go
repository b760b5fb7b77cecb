package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gridmate/gridmate/core/model"
)

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "devices.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := newSQLite(t)

	d, err := s.Insert(ctx, model.Device{
		OwnerID: "u1", Name: "Heater", Type: model.TypeHeater, RatedPowerWatts: 2000,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	devices, err := s.List(ctx, "u1")
	if err != nil || len(devices) != 1 {
		t.Fatalf("list: %v %d", err, len(devices))
	}
	if devices[0].Name != "Heater" || devices[0].Status != model.StatusOff {
		t.Fatalf("unexpected device: %#v", devices[0])
	}

	if err := s.Update(ctx, "u1", d.ID, StatusUpdate(model.StatusOn)); err != nil {
		t.Fatalf("update: %v", err)
	}
	devices, _ = s.List(ctx, "u1")
	if devices[0].Status != model.StatusOn {
		t.Fatalf("status not persisted")
	}

	if err := s.Delete(ctx, "u1", d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "u1", d.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: %v", err)
	}
}

func TestSQLiteStoreUpdateManyRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newSQLite(t)
	a, _ := s.Insert(ctx, model.Device{
		OwnerID: "u1", Name: "A", Type: model.TypeLight, RatedPowerWatts: 10, Status: model.StatusOn,
	})

	err := s.UpdateMany(ctx, "u1", []string{a.ID, "missing"}, model.StatusOff)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	devices, _ := s.List(ctx, "u1")
	if devices[0].Status != model.StatusOn {
		t.Fatalf("transaction not rolled back")
	}
}

func TestSQLiteStoreOwnerScoping(t *testing.T) {
	ctx := context.Background()
	s := newSQLite(t)
	d, _ := s.Insert(ctx, model.Device{
		OwnerID: "u1", Name: "Lamp", Type: model.TypeLight, RatedPowerWatts: 10,
	})

	if devices, _ := s.List(ctx, "u2"); len(devices) != 0 {
		t.Fatalf("foreign owner sees devices")
	}
	if err := s.Update(ctx, "u2", d.ID, StatusUpdate(model.StatusOn)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign owner updated: %v", err)
	}
}
