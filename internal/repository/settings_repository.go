package repository

import (
	"context"
	"database/sql"

	"github.com/avikern/stand-planner/internal/model"
	"github.com/avikern/stand-planner/internal/timeutil"
)

// SettingsRepo persists the single operational settings row.  The table
// holds exactly one row with id=1; Save upserts it.
type SettingsRepo struct {
	db *sql.DB
}

func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get returns the stored settings, or defaults when none were saved yet.
func (r *SettingsRepo) Get(ctx context.Context, defaults model.OperationalSettings) (model.OperationalSettings, error) {
	const q = `SELECT gap_minutes, slot_duration_minutes, day_start_sec, day_end_sec FROM operational_settings WHERE id = 1`
	var (
		s        model.OperationalSettings
		startSec int
		endSec   int
	)
	err := r.db.QueryRowContext(ctx, q).Scan(&s.GapMinutes, &s.SlotDurationMinutes, &startSec, &endSec)
	if err != nil {
		if errIsNoRows(err) {
			return defaults, nil
		}
		return model.OperationalSettings{}, err
	}
	s.DayStart = timeutil.ToD(startSec)
	s.DayEnd = timeutil.ToD(endSec)
	return s, nil
}

// Save upserts the settings row.
func (r *SettingsRepo) Save(ctx context.Context, s model.OperationalSettings) error {
	const q = `INSERT INTO operational_settings (id, gap_minutes, slot_duration_minutes, day_start_sec, day_end_sec)
	           VALUES (1, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE gap_minutes = VALUES(gap_minutes),
	                                   slot_duration_minutes = VALUES(slot_duration_minutes),
	                                   day_start_sec = VALUES(day_start_sec),
	                                   day_end_sec = VALUES(day_end_sec)`
	_, err := r.db.ExecContext(ctx, q, s.GapMinutes, s.SlotDurationMinutes, int(s.DayStart), int(s.DayEnd))
	return err
}
