package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/atelierhq/workshop-studio/internal/model"
)

// CustomerRepo provides CRUD and search operations for customers.
// Email addresses are normalized (trimmed, lower-cased) before every
// read or write so the unique constraint cannot be dodged by casing.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

const customerColumns = `id, name, email, phone, interests, registered_at,
	password_hash, role, verified, verify_token, reset_token, reset_expires_at`

func scanCustomer(row interface{ Scan(...any) error }) (model.Customer, error) {
	var c model.Customer
	var phone, interests, hash, verifyTok, resetTok sql.NullString
	var resetExp sql.NullTime
	err := row.Scan(&c.ID, &c.Name, &c.Email, &phone, &interests, &c.RegisteredAt,
		&hash, &c.Role, &c.Verified, &verifyTok, &resetTok, &resetExp)
	if err != nil {
		return model.Customer{}, err
	}
	if phone.Valid {
		s := phone.String
		c.Phone = &s
	}
	if interests.Valid {
		s := interests.String
		c.Interests = &s
	}
	if hash.Valid {
		s := hash.String
		c.PasswordHash = &s
	}
	if verifyTok.Valid {
		s := verifyTok.String
		c.VerifyToken = &s
	}
	if resetTok.Valid {
		s := resetTok.String
		c.ResetToken = &s
	}
	if resetExp.Valid {
		t := resetExp.Time
		c.ResetExpiresAt = &t
	}
	return c, nil
}

// NormalizeEmail lower-cases and trims an address.  All lookups and
// writes in this repository go through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetByID fetches a customer by id.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (model.Customer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = ? LIMIT 1`, id)
	c, err := scanCustomer(row)
	if err == sql.ErrNoRows {
		return model.Customer{}, ErrCustomerNotFound
	}
	return c, err
}

// GetByEmail fetches a customer by normalized email.
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (model.Customer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE email = ? LIMIT 1`,
		NormalizeEmail(email))
	c, err := scanCustomer(row)
	if err == sql.ErrNoRows {
		return model.Customer{}, ErrCustomerNotFound
	}
	return c, err
}

// GetByEmailTx is GetByEmail inside an existing transaction.  A locking
// read keeps the registration branch decision stable until commit.
func (r *CustomerRepo) GetByEmailTx(ctx context.Context, tx *sql.Tx, email string) (model.Customer, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE email = ? LIMIT 1 FOR UPDATE`,
		NormalizeEmail(email))
	c, err := scanCustomer(row)
	if err == sql.ErrNoRows {
		return model.Customer{}, ErrCustomerNotFound
	}
	return c, err
}

// UpsertGuestTx returns the customer owning the given email, creating a
// guest contact row (no password hash) when none exists.  Used by the
// enrollment flow.
func (r *CustomerRepo) UpsertGuestTx(ctx context.Context, tx *sql.Tx, name, email, phone, interests string) (model.Customer, error) {
	c, err := r.GetByEmailTx(ctx, tx, email)
	if err == nil {
		return c, nil
	}
	if err != ErrCustomerNotFound {
		return model.Customer{}, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO customers (name, email, phone, interests) VALUES (?, ?, ?, ?)`,
		strings.TrimSpace(name), NormalizeEmail(email), nullable(phone), nullable(interests))
	if err != nil {
		if isDuplicateKey(err) {
			// Lost a race with a concurrent enrollment for the same
			// address; the row exists now.
			return r.GetByEmailTx(ctx, tx, email)
		}
		return model.Customer{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Customer{}, err
	}
	return r.GetByIDTx(ctx, tx, uint64(id))
}

// CreateRegisteredTx inserts a self-registered customer with a password
// hash and a pending verification token.
func (r *CustomerRepo) CreateRegisteredTx(ctx context.Context, tx *sql.Tx, name, email, phone, passwordHash, verifyToken string) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO customers (name, email, phone, password_hash, verified, verify_token)
		 VALUES (?, ?, ?, ?, 0, ?)`,
		strings.TrimSpace(name), NormalizeEmail(email), nullable(phone), passwordHash, verifyToken)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpgradeGuestTx turns a guest contact into a registered account in
// place.  The row keeps its id so enrollment history stays attached to
// the same customer.
func (r *CustomerRepo) UpgradeGuestTx(ctx context.Context, tx *sql.Tx, id uint64, name, phone, passwordHash, verifyToken string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE customers
		 SET name = ?, phone = ?, password_hash = ?, verified = 0, verify_token = ?
		 WHERE id = ?`,
		strings.TrimSpace(name), nullable(phone), passwordHash, verifyToken, id)
	return err
}

// Update modifies a customer's contact fields from the admin CRM.
// Assigning an email already owned by another customer yields
// ErrEmailExists.
func (r *CustomerRepo) Update(ctx context.Context, id uint64, name, email, phone, interests string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE customers SET name = ?, email = ?, phone = ?, interests = ? WHERE id = ?`,
		strings.TrimSpace(name), NormalizeEmail(email), nullable(phone), nullable(interests), id)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	// RowsAffected is 0 both for a missing row and a no-op update, so
	// verify existence explicitly.
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// SetResetToken stores a password-reset token with its expiry.
func (r *CustomerRepo) SetResetToken(ctx context.Context, id uint64, token string, expires time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE customers SET reset_token = ?, reset_expires_at = ? WHERE id = ?`,
		token, expires, id)
	return err
}

// GetByResetToken fetches the customer holding an unexpired reset
// token.
func (r *CustomerRepo) GetByResetToken(ctx context.Context, token string, now time.Time) (model.Customer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers
		 WHERE reset_token = ? AND reset_expires_at > ? LIMIT 1`, token, now)
	c, err := scanCustomer(row)
	if err == sql.ErrNoRows {
		return model.Customer{}, ErrCustomerNotFound
	}
	return c, err
}

// SetPassword replaces the password hash and clears any reset token.
func (r *CustomerRepo) SetPassword(ctx context.Context, id uint64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE customers
		 SET password_hash = ?, reset_token = NULL, reset_expires_at = NULL
		 WHERE id = ?`, passwordHash, id)
	return err
}

// MarkVerified flips the verification flag for the customer holding
// the given token.
func (r *CustomerRepo) MarkVerified(ctx context.Context, verifyToken string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE customers SET verified = 1, verify_token = NULL WHERE verify_token = ?`,
		verifyToken)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// SearchFilter narrows the admin customer listing.  All fields are
// optional and combine with AND.
type SearchFilter struct {
	Query      string     // matches name or email, LIKE
	From       *time.Time // registered on or after
	To         *time.Time // registered on or before
	WorkshopID uint64     // only customers enrolled in this workshop
}

// CustomerSummary is a listing row: the customer plus their enrollment
// count.
type CustomerSummary struct {
	model.Customer
	TotalEnrollments int `json:"total_enrollments"`
}

// Search lists customers with enrollment counts, newest first.
func (r *CustomerRepo) Search(ctx context.Context, f SearchFilter) ([]CustomerSummary, error) {
	q := `SELECT c.id, c.name, c.email, c.phone, c.interests, c.registered_at,
		c.password_hash, c.role, c.verified, c.verify_token, c.reset_token, c.reset_expires_at,
		COUNT(e.id)
		FROM customers c
		LEFT JOIN enrollments e ON e.customer_id = c.id`
	conds := []string{}
	args := []any{}
	if f.WorkshopID != 0 {
		conds = append(conds, `e.workshop_id = ?`)
		args = append(args, f.WorkshopID)
	}
	if f.Query != "" {
		conds = append(conds, `(c.name LIKE ? OR c.email LIKE ?)`)
		like := "%" + f.Query + "%"
		args = append(args, like, like)
	}
	if f.From != nil {
		conds = append(conds, `c.registered_at >= ?`)
		args = append(args, *f.From)
	}
	if f.To != nil {
		conds = append(conds, `c.registered_at <= ?`)
		args = append(args, *f.To)
	}
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	q += ` GROUP BY c.id ORDER BY c.registered_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []CustomerSummary{}
	for rows.Next() {
		var s CustomerSummary
		var phone, interests, hash, verifyTok, resetTok sql.NullString
		var resetExp sql.NullTime
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &phone, &interests, &s.RegisteredAt,
			&hash, &s.Role, &s.Verified, &verifyTok, &resetTok, &resetExp,
			&s.TotalEnrollments); err != nil {
			return nil, err
		}
		if phone.Valid {
			v := phone.String
			s.Phone = &v
		}
		if interests.Valid {
			v := interests.String
			s.Interests = &v
		}
		if hash.Valid {
			v := hash.String
			s.PasswordHash = &v
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByIDTx reads a customer inside an open transaction.
func (r *CustomerRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Customer, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = ? LIMIT 1`, id)
	c, err := scanCustomer(row)
	if err == sql.ErrNoRows {
		return model.Customer{}, ErrCustomerNotFound
	}
	return c, err
}

// isDuplicateKey matches MySQL error 1062 (duplicate entry for a
// unique key).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
