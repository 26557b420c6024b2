package storage

import (
	"encoding/json"
	"fmt"
)

// ScheduleRepository remembers which scheduler entry drives delivery.
// The id changes whenever the scheduler recreates the schedule.
type ScheduleRepository struct {
	records *RecordStore
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(records *RecordStore) *ScheduleRepository {
	return &ScheduleRepository{records: records}
}

type scheduleRecord struct {
	ScheduleID string `json:"schedule_id"`
}

// LoadID returns the stored schedule id, or fallback when none is stored
func (r *ScheduleRepository) LoadID(fallback string) (string, error) {
	payload, ok, err := r.records.Get(ScheduleRecord)
	if err != nil {
		return fallback, fmt.Errorf("failed to read schedule: %w", err)
	}
	if !ok {
		return fallback, nil
	}
	var rec scheduleRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil || rec.ScheduleID == "" {
		return fallback, nil
	}
	return rec.ScheduleID, nil
}

// SaveID stores the current schedule id
func (r *ScheduleRepository) SaveID(id string) error {
	data, err := json.Marshal(scheduleRecord{ScheduleID: id})
	if err != nil {
		return err
	}
	return r.records.Put(ScheduleRecord, string(data))
}
