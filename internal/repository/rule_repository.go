package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/avikern/stand-planner/internal/model"
)

// RuleRepo persists adjacency rules.  Rules carry a surrogate numeric ID
// for API addressing; the engines never see it.
type RuleRepo struct {
	db *sql.DB
}

func NewRuleRepo(db *sql.DB) *RuleRepo {
	return &RuleRepo{db: db}
}

// StoredRule is an adjacency rule plus its row ID.
type StoredRule struct {
	ID   uint64              `json:"id"`
	Rule model.AdjacencyRule `json:"rule"`
}

// Create inserts a rule and returns its row ID.  The referenced stands
// must exist; foreign keys enforce that and surface as ErrConflict.
func (r *RuleRepo) Create(ctx context.Context, rule model.AdjacencyRule) (uint64, error) {
	triggers, err := json.Marshal(rule.TriggerTypes)
	if err != nil {
		return 0, err
	}
	size := sql.NullString{}
	if rule.Restriction.Size.Valid() {
		size = sql.NullString{String: rule.Restriction.Size.String(), Valid: true}
	}
	typ := sql.NullString{}
	if rule.Restriction.Type != "" {
		typ = sql.NullString{String: rule.Restriction.Type, Valid: true}
	}
	const q = `INSERT INTO adjacency_rules (primary_stand, trigger_types, affected_stand, kind, restriction_size, restriction_type)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		rule.PrimaryStand, triggers, rule.AffectedStand, string(rule.Restriction.Kind), size, typ)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// List returns all rules ordered by row ID.
func (r *RuleRepo) List(ctx context.Context) ([]StoredRule, error) {
	const q = `SELECT id, primary_stand, trigger_types, affected_stand, kind, restriction_size, restriction_type
	           FROM adjacency_rules ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredRule
	for rows.Next() {
		var (
			sr       StoredRule
			triggers []byte
			kind     string
			size     sql.NullString
			typ      sql.NullString
		)
		if err := rows.Scan(&sr.ID, &sr.Rule.PrimaryStand, &triggers, &sr.Rule.AffectedStand, &kind, &size, &typ); err != nil {
			return nil, err
		}
		if len(triggers) > 0 {
			if err := json.Unmarshal(triggers, &sr.Rule.TriggerTypes); err != nil {
				return nil, err
			}
		}
		sr.Rule.Restriction.Kind = model.RestrictionKind(kind)
		if size.Valid {
			sc, err := model.ParseSizeCategory(size.String)
			if err != nil {
				return nil, err
			}
			sr.Rule.Restriction.Size = sc
		}
		if typ.Valid {
			sr.Rule.Restriction.Type = typ.String
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

// Rules returns the bare rule set in row order, for feeding the engines.
func (r *RuleRepo) Rules(ctx context.Context) ([]model.AdjacencyRule, error) {
	stored, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	rules := make([]model.AdjacencyRule, len(stored))
	for i, sr := range stored {
		rules[i] = sr.Rule
	}
	return rules, nil
}

// Delete removes a rule by row ID.
func (r *RuleRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM adjacency_rules WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// errIsNoRows is a small helper shared by the settings repo.
func errIsNoRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }
