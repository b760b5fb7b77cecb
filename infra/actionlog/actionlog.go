// Package actionlog persists the history of automation actions as JSONL
// with size-based rotation. The log is append-only and queryable by time
// range; it exists for user-facing history, not for replay.
package actionlog

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gridmate/gridmate/core/model"
)

// Record is one logged action.
type Record struct {
	Timestamp time.Time        `json:"timestamp"`
	OwnerID   string           `json:"owner_id"`
	Kind      model.ActionKind `json:"kind"`
	Reason    string           `json:"reason"`
	Message   string           `json:"message,omitempty"`
	DeviceIDs []string         `json:"device_ids,omitempty"`
	Executed  bool             `json:"executed"`
}

// Query filters records by time range.
type Query struct {
	Start time.Time
	End   time.Time
}

// Store appends and queries action records.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// RotatingStore writes JSONL with automatic rotation.
type RotatingStore struct {
	mu     sync.Mutex
	logger *lumberjack.Logger
	path   string
}

// NewRotatingStore creates a store with rotation options in megabytes and days.
func NewRotatingStore(path string, maxSizeMB, maxBackups, maxAgeDays int) (*RotatingStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   false,
	}
	return &RotatingStore{logger: lj, path: path}, nil
}

// Append writes the record and triggers rotation if needed.
func (s *RotatingStore) Append(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.NewEncoder(s.logger).Encode(rec)
}

// Query reads all log files including rotated ones.
func (s *RotatingStore) Query(_ context.Context, q Query) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	files, err := filepath.Glob(s.path + "*")
	if err != nil {
		return nil, err
	}
	var res []Record
	for _, f := range files {
		file, err := os.Open(f)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			var r Record
			if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
				continue
			}
			if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
				continue
			}
			if !q.End.IsZero() && r.Timestamp.After(q.End) {
				continue
			}
			res = append(res, r)
		}
		_ = file.Close()
	}
	return res, nil
}

// Close closes the underlying writer.
func (s *RotatingStore) Close() error { return s.logger.Close() }
