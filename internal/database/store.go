package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/atelierhq/workshop-studio/internal/model"
	"github.com/atelierhq/workshop-studio/internal/repository"
	"github.com/atelierhq/workshop-studio/internal/service"
)

// Store adapts the SQL repositories to the service.Store port.  Each
// InTx call maps to one database transaction; the commit/rollback
// bracket lives here so services stay free of database/sql.
type Store struct {
	db          *sql.DB
	workshops   *repository.WorkshopRepo
	customers   *repository.CustomerRepo
	enrollments *repository.EnrollmentRepo
	products    *repository.ProductRepo
	orders      *repository.OrderRepo
}

// NewStore builds the store adapter over one DB handle.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:          db,
		workshops:   repository.NewWorkshopRepo(db),
		customers:   repository.NewCustomerRepo(db),
		enrollments: repository.NewEnrollmentRepo(db),
		products:    repository.NewProductRepo(db),
		orders:      repository.NewOrderRepo(db),
	}
}

// InTx runs fn inside a transaction.  fn returning an error rolls
// everything back.
func (s *Store) InTx(ctx context.Context, fn func(tx service.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&storeTx{store: s, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// storeTx satisfies service.Tx by delegating to the Tx-scoped
// repository methods.
type storeTx struct {
	store *Store
	tx    *sql.Tx
}

func (t *storeTx) WorkshopByID(ctx context.Context, id uint64) (model.Workshop, error) {
	return t.store.workshops.GetByIDTx(ctx, t.tx, id)
}

func (t *storeTx) ReserveSeat(ctx context.Context, workshopID uint64) error {
	return t.store.workshops.ReserveSeatTx(ctx, t.tx, workshopID)
}

func (t *storeTx) ReleaseSeat(ctx context.Context, workshopID uint64) error {
	return t.store.workshops.ReleaseSeatTx(ctx, t.tx, workshopID)
}

func (t *storeTx) CreateEnrollment(ctx context.Context, e *model.Enrollment) error {
	return t.store.enrollments.CreateTx(ctx, t.tx, e)
}

func (t *storeTx) EnrollmentByToken(ctx context.Context, token string) (service.Cancellation, error) {
	d, err := t.store.enrollments.GetByTokenTx(ctx, t.tx, token)
	if err != nil {
		return service.Cancellation{}, err
	}
	return service.Cancellation{
		EnrollmentID: d.EnrollmentID,
		WorkshopID:   d.WorkshopID,
		WorkshopName: d.WorkshopName,
		CustomerName: d.CustomerName,
	}, nil
}

func (t *storeTx) DeleteEnrollment(ctx context.Context, id uint64) error {
	return t.store.enrollments.DeleteTx(ctx, t.tx, id)
}

func (t *storeTx) CustomerByEmail(ctx context.Context, email string) (model.Customer, error) {
	return t.store.customers.GetByEmailTx(ctx, t.tx, email)
}

func (t *storeTx) UpsertGuestCustomer(ctx context.Context, name, email, phone, interests string) (model.Customer, error) {
	return t.store.customers.UpsertGuestTx(ctx, t.tx, name, email, phone, interests)
}

func (t *storeTx) CreateRegisteredCustomer(ctx context.Context, name, email, phone, passwordHash, verifyToken string) (uint64, error) {
	return t.store.customers.CreateRegisteredTx(ctx, t.tx, name, email, phone, passwordHash, verifyToken)
}

func (t *storeTx) UpgradeGuestCustomer(ctx context.Context, id uint64, name, phone, passwordHash, verifyToken string) error {
	return t.store.customers.UpgradeGuestTx(ctx, t.tx, id, name, phone, passwordHash, verifyToken)
}

func (t *storeTx) SetResetToken(ctx context.Context, customerID uint64, token string, expires time.Time) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE customers SET reset_token = ?, reset_expires_at = ? WHERE id = ?`,
		token, expires, customerID)
	return err
}

func (t *storeTx) CustomerByResetToken(ctx context.Context, token string, now time.Time) (model.Customer, error) {
	var id uint64
	err := t.tx.QueryRowContext(ctx,
		`SELECT id FROM customers WHERE reset_token = ? AND reset_expires_at > ? LIMIT 1`,
		token, now).Scan(&id)
	if err == sql.ErrNoRows {
		return model.Customer{}, repository.ErrCustomerNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	// Stay inside the transaction; the token row may be mid-update in
	// a concurrent reset.
	return t.store.customers.GetByIDTx(ctx, t.tx, id)
}

func (t *storeTx) SetPassword(ctx context.Context, customerID uint64, passwordHash string) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE customers
		 SET password_hash = ?, reset_token = NULL, reset_expires_at = NULL
		 WHERE id = ?`, passwordHash, customerID)
	return err
}

func (t *storeTx) MarkVerified(ctx context.Context, verifyToken string) error {
	res, err := t.tx.ExecContext(ctx,
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
		return repository.ErrCustomerNotFound
	}
	return nil
}

func (t *storeTx) ProductByID(ctx context.Context, id uint64) (model.Product, error) {
	return t.store.products.GetByIDTx(ctx, t.tx, id)
}

func (t *storeTx) DecrementStock(ctx context.Context, productID uint64, qty uint32) error {
	return t.store.products.DecrementStockTx(ctx, t.tx, productID, qty)
}

func (t *storeTx) CreateOrder(ctx context.Context, o *model.Order) error {
	return t.store.orders.CreateTx(ctx, t.tx, o)
}

func (t *storeTx) CreateOrderItems(ctx context.Context, items []model.OrderItem) error {
	return t.store.orders.CreateItemsTx(ctx, t.tx, items)
}
