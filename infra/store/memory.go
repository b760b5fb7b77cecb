package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/gridmate/gridmate/core/model"
)

// MemoryStore is an in-memory DeviceRepository and PreferenceStore. It backs
// tests and standalone runs without external storage.
type MemoryStore struct {
	mu        sync.RWMutex
	devices   map[string]model.Device
	rules     map[string]model.AutomationRules
	favorites map[string][]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		devices:   map[string]model.Device{},
		rules:     map[string]model.AutomationRules{},
		favorites: map[string][]string{},
	}
}

// List returns the owner's devices sorted by name.
func (s *MemoryStore) List(_ context.Context, ownerID string) ([]model.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Device
	for _, d := range s.devices {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Insert validates and stores the device, assigning an id when absent.
func (s *MemoryStore) Insert(_ context.Context, d model.Device) (model.Device, error) {
	if err := d.Validate(); err != nil {
		return model.Device{}, err
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = model.StatusOff
	}
	s.mu.Lock()
	s.devices[d.ID] = d
	s.mu.Unlock()
	return d, nil
}

// Update applies a partial mutation to one device.
func (s *MemoryStore) Update(_ context.Context, ownerID, id string, upd DeviceUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[id]
	if !ok || d.OwnerID != ownerID {
		return ErrNotFound
	}
	d = upd.Apply(d)
	if err := d.Validate(); err != nil {
		return err
	}
	s.devices[id] = d
	return nil
}

// UpdateMany applies the status to all ids, or none when any id is unknown.
func (s *MemoryStore) UpdateMany(_ context.Context, ownerID string, ids []string, status model.DeviceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		d, ok := s.devices[id]
		if !ok || d.OwnerID != ownerID {
			return ErrNotFound
		}
	}
	for _, id := range ids {
		d := s.devices[id]
		d.Status = status
		s.devices[id] = d
	}
	return nil
}

// Delete removes the device.
func (s *MemoryStore) Delete(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[id]
	if !ok || d.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(s.devices, id)
	return nil
}

// LoadRules returns the owner's rules with defaults applied.
func (s *MemoryStore) LoadRules(_ context.Context, ownerID string) (model.AutomationRules, error) {
	s.mu.RLock()
	rules, ok := s.rules[ownerID]
	s.mu.RUnlock()
	if !ok {
		rules = model.AutomationRules{}
	}
	rules.SetDefaults()
	return rules, nil
}

// SaveRules stores the owner's rules.
func (s *MemoryStore) SaveRules(_ context.Context, ownerID string, rules model.AutomationRules) error {
	s.mu.Lock()
	s.rules[ownerID] = rules
	s.mu.Unlock()
	return nil
}

// LoadFavorites returns the owner's favorite device ids.
func (s *MemoryStore) LoadFavorites(_ context.Context, ownerID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.favorites[ownerID]))
	copy(out, s.favorites[ownerID])
	return out, nil
}

// SaveFavorites stores the owner's favorite device ids.
func (s *MemoryStore) SaveFavorites(_ context.Context, ownerID string, ids []string) error {
	s.mu.Lock()
	s.favorites[ownerID] = append([]string(nil), ids...)
	s.mu.Unlock()
	return nil
}
