package storage

import (
	"database/sql"
	"errors"
	"time"
)

// Record names
const (
	SettingsRecord = "stockpulse_settings"
	HistoryRecord  = "stockpulse_reports"
	ScheduleRecord = "stockpulse_schedule"
)

// RecordStore reads and writes named JSON documents
type RecordStore struct {
	db *DB
}

// NewRecordStore creates a new record store
func NewRecordStore(db *DB) *RecordStore {
	return &RecordStore{db: db}
}

// Get returns the payload of a record; ok is false when it does not exist
func (s *RecordStore) Get(name string) (payload string, ok bool, err error) {
	err = s.db.QueryRow("SELECT payload FROM records WHERE name = ?", name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return payload, true, nil
}

// Put creates or replaces a record
func (s *RecordStore) Put(name, payload string) error {
	query := `
		INSERT INTO records (name, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`
	_, err := s.db.Exec(query, name, payload, time.Now().UTC())
	return err
}

// Delete removes a record
func (s *RecordStore) Delete(name string) error {
	_, err := s.db.Exec("DELETE FROM records WHERE name = ?", name)
	return err
}
