package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/google/uuid"

	"github.com/gridmate/gridmate/core/model"
)

// SQLiteStore persists devices to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS devices (
        id TEXT PRIMARY KEY,
        owner_id TEXT NOT NULL,
        name TEXT NOT NULL,
        type TEXT NOT NULL,
        room TEXT,
        rated_power_watts REAL NOT NULL,
        average_hours_per_day REAL NOT NULL,
        status TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS devices_owner ON devices(owner_id);`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// List returns the owner's devices sorted by name.
func (s *SQLiteStore) List(ctx context.Context, ownerID string) ([]model.Device, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, type, room, rated_power_watts, average_hours_per_day, status
         FROM devices WHERE owner_id = ? ORDER BY name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Device
	for rows.Next() {
		var d model.Device
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Name, &d.Type, &d.Room,
			&d.RatedPowerWatts, &d.AverageHoursPerDay, &d.Status); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Insert validates and stores the device, assigning an id when absent.
func (s *SQLiteStore) Insert(ctx context.Context, d model.Device) (model.Device, error) {
	if err := d.Validate(); err != nil {
		return model.Device{}, err
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = model.StatusOff
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO devices (id, owner_id, name, type, room, rated_power_watts, average_hours_per_day, status)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.OwnerID, d.Name, d.Type, d.Room, d.RatedPowerWatts, d.AverageHoursPerDay, d.Status)
	if err != nil {
		return model.Device{}, err
	}
	return d, nil
}

// Update applies a partial mutation to one device.
func (s *SQLiteStore) Update(ctx context.Context, ownerID, id string, upd DeviceUpdate) error {
	d, err := s.get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	d = upd.Apply(d)
	if err := d.Validate(); err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE devices SET name = ?, room = ?, rated_power_watts = ?, average_hours_per_day = ?, status = ?
         WHERE id = ? AND owner_id = ?`,
		d.Name, d.Room, d.RatedPowerWatts, d.AverageHoursPerDay, d.Status, id, ownerID)
	return err
}

// UpdateMany flips the status of all ids inside one transaction.
func (s *SQLiteStore) UpdateMany(ctx context.Context, ownerID string, ids []string, status model.DeviceStatus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, id := range ids {
		res, err := tx.ExecContext(ctx,
			`UPDATE devices SET status = ? WHERE id = ? AND owner_id = ?`, status, id, ownerID)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if n == 0 {
			_ = tx.Rollback()
			return ErrNotFound
		}
	}
	return tx.Commit()
}

// Delete removes the device.
func (s *SQLiteStore) Delete(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM devices WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) get(ctx context.Context, ownerID, id string) (model.Device, error) {
	var d model.Device
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, type, room, rated_power_watts, average_hours_per_day, status
         FROM devices WHERE id = ? AND owner_id = ?`, id, ownerID).
		Scan(&d.ID, &d.OwnerID, &d.Name, &d.Type, &d.Room,
			&d.RatedPowerWatts, &d.AverageHoursPerDay, &d.Status)
	if err == sql.ErrNoRows {
		return model.Device{}, ErrNotFound
	}
	return d, err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
