package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Run is one recorded allocation run: when it happened, headline counts
// and the full result document as stored JSON.
type Run struct {
	ID               uint64          `json:"id"`
	CreatedAt        time.Time       `json:"created_at"`
	FlightCount      int             `json:"flight_count"`
	AllocatedCount   int             `json:"allocated_count"`
	UnallocatedCount int             `json:"unallocated_count"`
	Result           json.RawMessage `json:"result,omitempty"`
}

// RunRepo persists allocation run history.  Results are stored as an
// opaque JSON document; history listings skip the document to stay
// cheap.
type RunRepo struct {
	db *sql.DB
}

func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

// Create records a run and returns its ID.
func (r *RunRepo) Create(ctx context.Context, flightCount, allocated, unallocated int, result any) (uint64, error) {
	doc, err := json.Marshal(result)
	if err != nil {
		return 0, err
	}
	const q = `INSERT INTO allocation_runs (flight_count, allocated_count, unallocated_count, result)
	           VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, flightCount, allocated, unallocated, doc)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches one run including its result document.
func (r *RunRepo) GetByID(ctx context.Context, id uint64) (Run, error) {
	const q = `SELECT id, created_at, flight_count, allocated_count, unallocated_count, result
	           FROM allocation_runs WHERE id = ?`
	var (
		run Run
		doc []byte
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&run.ID, &run.CreatedAt, &run.FlightCount, &run.AllocatedCount, &run.UnallocatedCount, &doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrNotFound
		}
		return Run{}, err
	}
	run.Result = doc
	return run, nil
}

// List returns run headers newest first, without result documents.
func (r *RunRepo) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `SELECT id, created_at, flight_count, allocated_count, unallocated_count
	           FROM allocation_runs ORDER BY id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.FlightCount, &run.AllocatedCount, &run.UnallocatedCount); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
