// Package service holds the business rules around the seat ledger:
// enrollment, cancellation, account registration and cart checkout.
// Services depend on the Store port rather than on *sql.DB directly so
// the ledger semantics are testable against an in-memory fake.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/atelierhq/workshop-studio/internal/model"
)

// ErrInvalidInput is returned when a required field is missing or
// malformed.  Handlers translate it into an HTTP 400 response.
var ErrInvalidInput = errors.New("invalid input")

// Store is the transactional boundary services run against.  InTx
// executes fn inside one store transaction: if fn returns an error the
// transaction rolls back and no writes survive.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx exposes the store operations available inside a transaction.  The
// SQL implementation lives in the repository package; tests provide an
// in-memory fake.
type Tx interface {
	// Workshops and the seat ledger.
	WorkshopByID(ctx context.Context, id uint64) (model.Workshop, error)
	ReserveSeat(ctx context.Context, workshopID uint64) error
	ReleaseSeat(ctx context.Context, workshopID uint64) error

	// Enrollments.
	CreateEnrollment(ctx context.Context, e *model.Enrollment) error
	EnrollmentByToken(ctx context.Context, token string) (Cancellation, error)
	DeleteEnrollment(ctx context.Context, id uint64) error

	// Customers.
	CustomerByEmail(ctx context.Context, email string) (model.Customer, error)
	UpsertGuestCustomer(ctx context.Context, name, email, phone, interests string) (model.Customer, error)
	CreateRegisteredCustomer(ctx context.Context, name, email, phone, passwordHash, verifyToken string) (uint64, error)
	UpgradeGuestCustomer(ctx context.Context, id uint64, name, phone, passwordHash, verifyToken string) error
	SetResetToken(ctx context.Context, customerID uint64, token string, expires time.Time) error
	CustomerByResetToken(ctx context.Context, token string, now time.Time) (model.Customer, error)
	SetPassword(ctx context.Context, customerID uint64, passwordHash string) error
	MarkVerified(ctx context.Context, verifyToken string) error

	// Products and orders.
	ProductByID(ctx context.Context, id uint64) (model.Product, error)
	DecrementStock(ctx context.Context, productID uint64, qty uint32) error
	CreateOrder(ctx context.Context, o *model.Order) error
	CreateOrderItems(ctx context.Context, items []model.OrderItem) error
}

// Cancellation is the joined view a cancellation token resolves to.
type Cancellation struct {
	EnrollmentID uint64
	WorkshopID   uint64
	WorkshopName string
	CustomerName string
}
