package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/atelierhq/workshop-studio/internal/model"
)

// NoteRepo persists loyalty notes.  Notes are append-only.
type NoteRepo struct {
	db *sql.DB
}

// NewNoteRepo returns a NoteRepo bound to the given database.
func NewNoteRepo(db *sql.DB) *NoteRepo { return &NoteRepo{db: db} }

// ListByCustomer returns a customer's notes, newest first.
func (r *NoteRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]model.LoyaltyNote, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, customer_id, body, created_at FROM loyalty_notes
		 WHERE customer_id = ? ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.LoyaltyNote{}
	for rows.Next() {
		var n model.LoyaltyNote
		if err := rows.Scan(&n.ID, &n.CustomerID, &n.Body, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Append adds a note to a customer.  A missing customer surfaces as
// ErrCustomerNotFound via the foreign key.
func (r *NoteRepo) Append(ctx context.Context, customerID uint64, body string) (model.LoyaltyNote, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO loyalty_notes (customer_id, body) VALUES (?, ?)`, customerID, body)
	if err != nil {
		if isFKFailure(err) {
			return model.LoyaltyNote{}, ErrCustomerNotFound
		}
		return model.LoyaltyNote{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.LoyaltyNote{}, err
	}
	var n model.LoyaltyNote
	err = r.db.QueryRowContext(ctx,
		`SELECT id, customer_id, body, created_at FROM loyalty_notes WHERE id = ?`,
		id).Scan(&n.ID, &n.CustomerID, &n.Body, &n.CreatedAt)
	return n, err
}

// isFKFailure matches MySQL error 1452 (insert referencing a missing
// parent row).
func isFKFailure(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1452")
}
