package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/avikern/stand-planner/internal/model"
)

// StandRepo persists stands.  The compatible type list is stored as a
// JSON array column; its order is preserved because engine iteration
// order follows it.
type StandRepo struct {
	db *sql.DB
}

func NewStandRepo(db *sql.DB) *StandRepo {
	return &StandRepo{db: db}
}

// Upsert inserts or replaces a stand row.
func (r *StandRepo) Upsert(ctx context.Context, s model.Stand) error {
	types, err := json.Marshal(s.CompatibleTypes)
	if err != nil {
		return err
	}
	maxSize := sql.NullString{}
	if s.MaxSize.Valid() {
		maxSize = sql.NullString{String: s.MaxSize.String(), Valid: true}
	}
	const q = `INSERT INTO stands (id, compatible_types, terminal, pier, max_size, has_jetbridge)
	           VALUES (?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE compatible_types = VALUES(compatible_types),
	                                   terminal = VALUES(terminal),
	                                   pier = VALUES(pier),
	                                   max_size = VALUES(max_size),
	                                   has_jetbridge = VALUES(has_jetbridge)`
	_, err = r.db.ExecContext(ctx, q, s.ID, types, s.Terminal, s.Pier, maxSize, s.HasJetbridge)
	return err
}

func scanStand(scan func(dest ...any) error) (model.Stand, error) {
	var (
		s       model.Stand
		types   []byte
		maxSize sql.NullString
	)
	if err := scan(&s.ID, &types, &s.Terminal, &s.Pier, &maxSize, &s.HasJetbridge); err != nil {
		return model.Stand{}, err
	}
	if len(types) > 0 {
		if err := json.Unmarshal(types, &s.CompatibleTypes); err != nil {
			return model.Stand{}, err
		}
	}
	if maxSize.Valid {
		sc, err := model.ParseSizeCategory(maxSize.String)
		if err != nil {
			return model.Stand{}, err
		}
		s.MaxSize = sc
	}
	return s, nil
}

// GetByID fetches one stand, ErrNotFound when absent.
func (r *StandRepo) GetByID(ctx context.Context, id string) (model.Stand, error) {
	const q = `SELECT id, compatible_types, terminal, pier, max_size, has_jetbridge FROM stands WHERE id = ?`
	row := r.db.QueryRowContext(ctx, q, id)
	s, err := scanStand(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Stand{}, ErrNotFound
		}
		return model.Stand{}, err
	}
	return s, nil
}

// List returns all stands ordered by ID.
func (r *StandRepo) List(ctx context.Context) ([]model.Stand, error) {
	const q = `SELECT id, compatible_types, terminal, pier, max_size, has_jetbridge FROM stands ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Stand
	for rows.Next() {
		s, err := scanStand(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes a stand and the adjacency rules that reference it.
// Rules are cleaned up in the same transaction so the rule set stays
// resolvable against the stand set.
func (r *StandRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM adjacency_rules WHERE primary_stand = ? OR affected_stand = ?`, id, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM stands WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
