package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/avikern/stand-planner/internal/model"
)

// AircraftTypeRepo persists the aircraft type reference data.  Types are
// keyed by their external ID ("B737", "A380"); upserts keep the fleet
// table editable without delete/recreate cycles.
type AircraftTypeRepo struct {
	db *sql.DB
}

func NewAircraftTypeRepo(db *sql.DB) *AircraftTypeRepo {
	return &AircraftTypeRepo{db: db}
}

// Upsert inserts or replaces a type row.
func (r *AircraftTypeRepo) Upsert(ctx context.Context, t model.AircraftType) error {
	const q = `INSERT INTO aircraft_types (id, size_category, avg_turnaround_minutes)
	           VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE size_category = VALUES(size_category),
	                                   avg_turnaround_minutes = VALUES(avg_turnaround_minutes)`
	_, err := r.db.ExecContext(ctx, q, t.ID, t.SizeCategory.String(), t.AvgTurnaroundMinutes)
	return err
}

// GetByID fetches one type, ErrNotFound when absent.
func (r *AircraftTypeRepo) GetByID(ctx context.Context, id string) (model.AircraftType, error) {
	const q = `SELECT id, size_category, avg_turnaround_minutes FROM aircraft_types WHERE id = ?`
	var (
		t    model.AircraftType
		size string
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &size, &t.AvgTurnaroundMinutes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.AircraftType{}, ErrNotFound
		}
		return model.AircraftType{}, err
	}
	sc, err := model.ParseSizeCategory(size)
	if err != nil {
		return model.AircraftType{}, err
	}
	t.SizeCategory = sc
	return t, nil
}

// List returns all types ordered by ID.
func (r *AircraftTypeRepo) List(ctx context.Context) ([]model.AircraftType, error) {
	const q = `SELECT id, size_category, avg_turnaround_minutes FROM aircraft_types ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AircraftType
	for rows.Next() {
		var (
			t    model.AircraftType
			size string
		)
		if err := rows.Scan(&t.ID, &size, &t.AvgTurnaroundMinutes); err != nil {
			return nil, err
		}
		sc, err := model.ParseSizeCategory(size)
		if err != nil {
			return nil, err
		}
		t.SizeCategory = sc
		out = append(out, t)
	}
	return out, rows.Err()
}

// Delete removes a type.  Foreign key failures surface as ErrConflict so
// handlers return 409 when stands or flights still reference the type.
func (r *AircraftTypeRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM aircraft_types WHERE id = ?`, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1451") {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
