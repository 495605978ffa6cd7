package repository

import (
	"context"
	"database/sql"

	"github.com/atelierhq/workshop-studio/internal/model"
)

// EnrollmentRepo persists enrollments.  Creation and deletion always
// run inside the caller's transaction, paired with the matching seat
// ledger operation, so a crash can never leave the counter and the
// rows out of step.
type EnrollmentRepo struct {
	db *sql.DB
}

// NewEnrollmentRepo returns an EnrollmentRepo bound to the given
// database.
func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo { return &EnrollmentRepo{db: db} }

// CreateTx inserts an enrollment row and populates the generated ID
// and timestamp on the passed record.
func (r *EnrollmentRepo) CreateTx(ctx context.Context, tx *sql.Tx, e *model.Enrollment) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO enrollments (customer_id, workshop_id, cancel_token) VALUES (?, ?, ?)`,
		e.CustomerID, e.WorkshopID, e.CancelToken)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return tx.QueryRowContext(ctx,
		`SELECT enrolled_at FROM enrollments WHERE id = ?`, e.ID).Scan(&e.EnrolledAt)
}

// CancellationDetail is the joined view resolved from a cancellation
// token: the enrollment plus the names shown back to the requester.
type CancellationDetail struct {
	EnrollmentID uint64
	WorkshopID   uint64
	WorkshopName string
	CustomerName string
}

// GetByTokenTx resolves a cancellation token to its enrollment joined
// with workshop and customer.  A locking read prevents two concurrent
// cancellations of the same token from both seeing the row.  Returns
// ErrEnrollmentNotFound when the token matches nothing.
func (r *EnrollmentRepo) GetByTokenTx(ctx context.Context, tx *sql.Tx, token string) (CancellationDetail, error) {
	const q = `SELECT e.id, e.workshop_id, w.name, c.name
	           FROM enrollments e
	           JOIN workshops w ON w.id = e.workshop_id
	           JOIN customers c ON c.id = e.customer_id
	           WHERE e.cancel_token = ?
	           FOR UPDATE`
	var d CancellationDetail
	err := tx.QueryRowContext(ctx, q, token).Scan(
		&d.EnrollmentID, &d.WorkshopID, &d.WorkshopName, &d.CustomerName)
	if err == sql.ErrNoRows {
		return CancellationDetail{}, ErrEnrollmentNotFound
	}
	if err != nil {
		return CancellationDetail{}, err
	}
	return d, nil
}

// DeleteTx removes an enrollment row.  Zero affected rows means the
// enrollment vanished between lookup and delete and is reported as
// ErrEnrollmentNotFound so the caller aborts without touching the seat
// counter.
func (r *EnrollmentRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}

// HistoryByCustomer lists a customer's enrollments joined with their
// workshops, newest workshop first.
func (r *EnrollmentRepo) HistoryByCustomer(ctx context.Context, customerID uint64) ([]model.EnrollmentHistoryEntry, error) {
	const q = `SELECT w.name, w.starts_at, e.enrolled_at
	           FROM enrollments e
	           JOIN workshops w ON w.id = e.workshop_id
	           WHERE e.customer_id = ?
	           ORDER BY w.starts_at DESC`
	rows, err := r.db.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.EnrollmentHistoryEntry{}
	for rows.Next() {
		var h model.EnrollmentHistoryEntry
		var startsAt sql.NullTime
		if err := rows.Scan(&h.WorkshopName, &startsAt, &h.EnrolledAt); err != nil {
			return nil, err
		}
		if startsAt.Valid {
			t := startsAt.Time
			h.StartsAt = &t
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
