package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"amp_scheduler/internal/models"
)

type ScheduleSQLite struct {
	db *sql.DB
}

func NewScheduleSQLite(db *sql.DB) *ScheduleSQLite {
	return &ScheduleSQLite{db: db}
}

const (
	scheduleRowID = 1

	insertOrUpdateScheduleSQL = `
		INSERT INTO schedule (id, windows, volume, signature, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			windows=excluded.windows,
			volume=excluded.volume,
			signature=excluded.signature,
			updated_at=excluded.updated_at
	`

	selectScheduleSQL = `
		SELECT windows, volume, signature, updated_at
		FROM schedule WHERE id=?
	`
)

// marshalWindows converts the window slice to a JSON string.
func marshalWindows(ws []models.TimeWindow) (string, error) {
	b, err := json.Marshal(ws)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unmarshalWindows parses a JSON string into a window slice.
func unmarshalWindows(s string) ([]models.TimeWindow, error) {
	if s == "" {
		return nil, nil
	}
	var ws []models.TimeWindow
	if err := json.Unmarshal([]byte(s), &ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// Save updates or inserts the schedule row (id always 1).
func (r *ScheduleSQLite) Save(ctx context.Context, s models.Schedule) error {
	windowsJSON, err := marshalWindows(s.Windows)
	if err != nil {
		return err
	}

	// always persist UpdatedAt as UTC; set if zero
	tsUTC := s.UpdatedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	_, err = r.db.ExecContext(ctx, insertOrUpdateScheduleSQL,
		scheduleRowID,
		windowsJSON,
		s.Volume,
		int64(s.Signature),
		tsUTC,
	)
	return err
}

// Load fetches the single schedule row (id=1). A missing row comes back as a
// zero-value Schedule, whose zero signature fails the validity check upstream.
func (r *ScheduleSQLite) Load(ctx context.Context) (models.Schedule, error) {
	row := r.db.QueryRowContext(ctx, selectScheduleSQL, scheduleRowID)

	var (
		s           models.Schedule
		windowsJSON string
		signature   int64
	)
	if err := row.Scan(&windowsJSON, &s.Volume, &signature, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Schedule{}, nil // nothing stored yet
		}
		return models.Schedule{}, err
	}

	ws, err := unmarshalWindows(windowsJSON)
	if err != nil {
		return models.Schedule{}, err
	}
	s.Windows = ws
	s.Signature = uint32(signature)
	s.UpdatedAt = s.UpdatedAt.UTC()

	return s, nil
}
