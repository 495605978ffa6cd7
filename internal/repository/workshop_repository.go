package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/atelierhq/workshop-studio/internal/model"
)

// WorkshopRepo encapsulates database operations for workshops,
// including the seat ledger.  All mutation of seats_taken goes through
// ReserveSeatTx / ReleaseSeatTx; application code must never
// read-modify-write the counter.
type WorkshopRepo struct {
	db *sql.DB
}

// NewWorkshopRepo constructs a WorkshopRepo given a DB handle.
func NewWorkshopRepo(db *sql.DB) *WorkshopRepo { return &WorkshopRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *WorkshopRepo) DB() *sql.DB { return r.db }

const workshopColumns = `id, name, description, starts_at, category, price_cents,
	active, image_url, location, total_seats, seats_taken, created_at, updated_at`

func scanWorkshop(row interface{ Scan(...any) error }) (model.Workshop, error) {
	var w model.Workshop
	var desc, imageURL, location sql.NullString
	var startsAt sql.NullTime
	err := row.Scan(&w.ID, &w.Name, &desc, &startsAt, &w.Category, &w.PriceCents,
		&w.Active, &imageURL, &location, &w.TotalSeats, &w.SeatsTaken,
		&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return model.Workshop{}, err
	}
	w.Description = desc.String
	if startsAt.Valid {
		t := startsAt.Time
		w.StartsAt = &t
	}
	if imageURL.Valid {
		s := imageURL.String
		w.ImageURL = &s
	}
	if location.Valid {
		s := location.String
		w.Location = &s
	}
	return w, nil
}

// GetByID fetches a single workshop.  Returns ErrWorkshopNotFound when
// no row matches.
func (r *WorkshopRepo) GetByID(ctx context.Context, id uint64) (model.Workshop, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+workshopColumns+` FROM workshops WHERE id = ?`, id)
	w, err := scanWorkshop(row)
	if err == sql.ErrNoRows {
		return model.Workshop{}, ErrWorkshopNotFound
	}
	return w, err
}

// GetByIDTx is GetByID within an existing transaction.
func (r *WorkshopRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Workshop, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+workshopColumns+` FROM workshops WHERE id = ?`, id)
	w, err := scanWorkshop(row)
	if err == sql.ErrNoRows {
		return model.Workshop{}, ErrWorkshopNotFound
	}
	return w, err
}

// List returns workshops ordered by start date, newest first.  When
// activeOnly is set, only catalog-visible workshops are returned.
func (r *WorkshopRepo) List(ctx context.Context, activeOnly bool) ([]model.Workshop, error) {
	q := `SELECT ` + workshopColumns + ` FROM workshops`
	if activeOnly {
		q += ` WHERE active = 1`
	}
	q += ` ORDER BY starts_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Workshop{}
	for rows.Next() {
		w, err := scanWorkshop(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// Create inserts a new workshop and returns it with generated fields
// populated.
func (r *WorkshopRepo) Create(ctx context.Context, w model.Workshop) (model.Workshop, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO workshops (name, description, starts_at, category, price_cents,
			active, image_url, location, total_seats)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.Name, w.Description, w.StartsAt, w.Category, w.PriceCents,
		w.Active, w.ImageURL, w.Location, w.TotalSeats)
	if err != nil {
		return model.Workshop{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Workshop{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// Update modifies a workshop's descriptive fields and capacity.  The
// capacity update is conditional: lowering total_seats below the
// current seats_taken would break the ledger invariant, so the UPDATE
// only matches when the new capacity still covers consumed seats and
// ErrConflict is returned otherwise.
func (r *WorkshopRepo) Update(ctx context.Context, w model.Workshop) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE workshops
		 SET name = ?, description = ?, starts_at = ?, category = ?, price_cents = ?,
		     active = ?, image_url = ?, location = ?, total_seats = ?
		 WHERE id = ? AND seats_taken <= ?`,
		w.Name, w.Description, w.StartsAt, w.Category, w.PriceCents,
		w.Active, w.ImageURL, w.Location, w.TotalSeats,
		w.ID, w.TotalSeats)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish a missing workshop from a capacity conflict.
		if _, err := r.GetByID(ctx, w.ID); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

// Delete removes a workshop.  The enrollment FK blocks deletion while
// live enrollments reference it; that surfaces as ErrConflict.
func (r *WorkshopRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workshops WHERE id = ?`, id)
	if err != nil {
		if isFKViolation(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrWorkshopNotFound
	}
	return nil
}

// ReserveSeatTx consumes one seat.  The read-check-increment is a
// single conditional UPDATE so two concurrent enrollments for the last
// seat cannot both pass a staleness check; exactly one statement will
// match the row.  Zero affected rows means the workshop is full.
func (r *WorkshopRepo) ReserveSeatTx(ctx context.Context, tx *sql.Tx, workshopID uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE workshops SET seats_taken = seats_taken + 1
		 WHERE id = ? AND seats_taken < total_seats`, workshopID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCapacityExceeded
	}
	return nil
}

// ReleaseSeatTx returns one seat to the pool, floored at zero.  Callers
// invoke it exactly once per successful cancellation, inside the same
// transaction that deletes the enrollment row.
func (r *WorkshopRepo) ReleaseSeatTx(ctx context.Context, tx *sql.Tx, workshopID uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE workshops SET seats_taken = seats_taken - 1
		 WHERE id = ? AND seats_taken > 0`, workshopID)
	return err
}

// DashboardCounts returns the aggregates shown on the admin dashboard:
// number of active workshops and total customers.
func (r *WorkshopRepo) DashboardCounts(ctx context.Context) (activeWorkshops, totalCustomers int, err error) {
	if err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workshops WHERE active = 1`).Scan(&activeWorkshops); err != nil {
		return 0, 0, err
	}
	if err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customers`).Scan(&totalCustomers); err != nil {
		return 0, 0, err
	}
	return activeWorkshops, totalCustomers, nil
}

// UpcomingEvents lists active, dated workshops for the dashboard
// calendar.
func (r *WorkshopRepo) UpcomingEvents(ctx context.Context) ([]model.Workshop, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+workshopColumns+` FROM workshops
		 WHERE active = 1 AND starts_at IS NOT NULL
		 ORDER BY starts_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Workshop{}
	for rows.Next() {
		w, err := scanWorkshop(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// isFKViolation matches MySQL error 1451 (row referenced by a foreign
// key) without importing the driver's error type here.
func isFKViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1451")
}
