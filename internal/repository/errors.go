// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// services and handlers to distinguish between failure scenarios without
// inspecting SQL error strings.  For example, ErrCapacityExceeded means
// the seat ledger refused a reservation because the workshop is full,
// while ErrConflict signals that dependent records block an operation
// (e.g. deleting a workshop that still has enrollments).
package repository

import "errors"

// ErrWorkshopNotFound is returned when a workshop lookup matches no row.
var ErrWorkshopNotFound = errors.New("workshop not found")

// ErrCustomerNotFound is returned when a customer lookup matches no row.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrEnrollmentNotFound is returned when a cancellation token resolves
// to no live enrollment.  An invalid token and an already-cancelled
// enrollment are indistinguishable on purpose: the response must not
// leak which tokens once existed.
var ErrEnrollmentNotFound = errors.New("enrollment not found")

// ErrProductNotFound is returned when a product lookup matches no row.
var ErrProductNotFound = errors.New("product not found")

// ErrCapacityExceeded is returned when the conditional seat increment
// affects zero rows, i.e. seats_taken already equals total_seats.
var ErrCapacityExceeded = errors.New("workshop capacity exceeded")

// ErrOutOfStock is returned when the conditional stock decrement
// affects zero rows, i.e. fewer units remain than the order asks for.
var ErrOutOfStock = errors.New("product out of stock")

// ErrEmailExists is returned when an insert or update would violate the
// unique constraint on customers.email.  Handlers translate this into
// an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrAlreadyRegistered is returned when a registration hits a customer
// row that already carries a password hash.
var ErrAlreadyRegistered = errors.New("account already registered")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as deleting a workshop that still
// has enrollments or lowering total_seats below seats_taken.  Handlers
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
