package repository

import (
	"context"
	"database/sql"

	"github.com/atelierhq/workshop-studio/internal/model"
)

// ContactRepo persists contact-form messages.
type ContactRepo struct {
	db *sql.DB
}

// NewContactRepo returns a ContactRepo bound to the given database.
func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{db: db} }

// Create stores a new message from the public contact form.
func (r *ContactRepo) Create(ctx context.Context, name, email, body string) (model.ContactMessage, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contact_messages (name, email, body) VALUES (?, ?, ?)`,
		name, NormalizeEmail(email), body)
	if err != nil {
		return model.ContactMessage{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ContactMessage{}, err
	}
	var m model.ContactMessage
	err = r.db.QueryRowContext(ctx,
		`SELECT id, name, email, body, is_read, created_at FROM contact_messages WHERE id = ?`,
		id).Scan(&m.ID, &m.Name, &m.Email, &m.Body, &m.Read, &m.CreatedAt)
	return m, err
}

// List returns all messages for the admin inbox, newest first.
func (r *ContactRepo) List(ctx context.Context) ([]model.ContactMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, body, is_read, created_at
		 FROM contact_messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.ContactMessage{}
	for rows.Next() {
		var m model.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MarkRead flags a message as read.
func (r *ContactRepo) MarkRead(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contact_messages SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
