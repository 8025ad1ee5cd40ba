package repository

import (
	"context"
	"database/sql"

	"github.com/avikern/stand-planner/internal/model"
)

// FlightRepo persists the flight schedule.  Imports replace the whole
// schedule in one transaction; partial imports would leave link groups
// dangling.
type FlightRepo struct {
	db *sql.DB
}

func NewFlightRepo(db *sql.DB) *FlightRepo {
	return &FlightRepo{db: db}
}

// ReplaceAll swaps the stored schedule for the given flights atomically.
func (r *FlightRepo) ReplaceAll(ctx context.Context, flights []model.Flight) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM flights`); err != nil {
		return err
	}

	const q = `INSERT INTO flights
	           (id, number, airline_code, aircraft_type_id, nature, scheduled, estimated, origin_iata, destination_iata, terminal, link_id)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range flights {
		var est sql.NullTime
		if f.Estimated != nil {
			est = sql.NullTime{Time: *f.Estimated, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			f.ID, f.Number, f.AirlineCode, f.AircraftTypeID, string(f.Nature),
			f.Scheduled, est, f.OriginIATA, f.DestinationIATA, f.Terminal, f.LinkID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// List returns the stored schedule ordered by scheduled time, then ID.
func (r *FlightRepo) List(ctx context.Context) ([]model.Flight, error) {
	const q = `SELECT id, number, airline_code, aircraft_type_id, nature, scheduled, estimated, origin_iata, destination_iata, terminal, link_id
	           FROM flights ORDER BY scheduled, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Flight
	for rows.Next() {
		var (
			f      model.Flight
			nature string
			est    sql.NullTime
		)
		if err := rows.Scan(&f.ID, &f.Number, &f.AirlineCode, &f.AircraftTypeID, &nature,
			&f.Scheduled, &est, &f.OriginIATA, &f.DestinationIATA, &f.Terminal, &f.LinkID); err != nil {
			return nil, err
		}
		n, err := model.ParseFlightNature(nature)
		if err != nil {
			return nil, err
		}
		f.Nature = n
		if est.Valid {
			t := est.Time
			f.Estimated = &t
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Count returns the number of stored flights.
func (r *FlightRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flights`).Scan(&n)
	return n, err
}
