package service

import (
	"context"
	"strings"
	"time"

	"github.com/atelierhq/workshop-studio/internal/model"
	"github.com/atelierhq/workshop-studio/internal/repository"
	"github.com/atelierhq/workshop-studio/internal/utils"
)

// EnrollmentService orchestrates seat-counted enrollment and
// cancellation.  Every seat mutation happens inside one store
// transaction paired with the enrollment row change, so the counter
// and the rows can never drift apart.
type EnrollmentService struct {
	store    Store
	notifier Notifier
}

// NewEnrollmentService wires the service to its store and notifier.
func NewEnrollmentService(store Store, notifier Notifier) *EnrollmentService {
	if store == nil || notifier == nil {
		panic("nil dependency passed to NewEnrollmentService")
	}
	return &EnrollmentService{store: store, notifier: notifier}
}

// EnrollRequest is the input of Enroll.  Name and Email are mandatory;
// Phone and Interests are optional contact details kept on the
// customer record.
type EnrollRequest struct {
	WorkshopID uint64
	Name       string
	Email      string
	Phone      string
	Interests  string
}

// EnrollResult reports a successful enrollment.
type EnrollResult struct {
	Enrollment model.Enrollment
	Workshop   model.Workshop
	Customer   model.Customer
}

// Enroll consumes one seat for the customer, creating a guest contact
// row when the email is unknown.  The workshop lookup, the conditional
// seat increment, the customer upsert and the enrollment insert run in
// a single transaction; on any failure nothing is written.  The
// confirmation email is dispatched after commit and its outcome never
// affects the result.
//
// Errors: ErrInvalidInput (missing name/email),
// repository.ErrWorkshopNotFound, repository.ErrCapacityExceeded.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollRequest) (EnrollResult, error) {
	if req.WorkshopID == 0 || strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return EnrollResult{}, ErrInvalidInput
	}

	var out EnrollResult
	err := s.store.InTx(ctx, func(tx Tx) error {
		w, err := tx.WorkshopByID(ctx, req.WorkshopID)
		if err != nil {
			return err
		}
		if !w.Active {
			// Retired workshops are invisible to the public catalog;
			// report them the same way as a missing id.
			return repository.ErrWorkshopNotFound
		}
		if err := tx.ReserveSeat(ctx, w.ID); err != nil {
			return err
		}
		c, err := tx.UpsertGuestCustomer(ctx, req.Name, req.Email, req.Phone, req.Interests)
		if err != nil {
			return err
		}
		e := model.Enrollment{
			CustomerID:  c.ID,
			WorkshopID:  w.ID,
			CancelToken: utils.NewOpaqueToken(),
		}
		if err := tx.CreateEnrollment(ctx, &e); err != nil {
			return err
		}
		out = EnrollResult{Enrollment: e, Workshop: w, Customer: c}
		return nil
	})
	if err != nil {
		return EnrollResult{}, err
	}

	n := EnrollmentNotification{
		CustomerName:  out.Customer.Name,
		CustomerEmail: out.Customer.Email,
		WorkshopName:  out.Workshop.Name,
		Location:      out.Workshop.Location,
		PriceCents:    out.Workshop.PriceCents,
		CancelToken:   out.Enrollment.CancelToken,
	}
	if out.Workshop.StartsAt != nil {
		iso := out.Workshop.StartsAt.UTC().Format(time.RFC3339)
		n.StartsAt = &iso
	}
	// Fire-and-forget: detached from the request context so a client
	// disconnect cannot cancel the publish.
	go s.notifier.EnrollmentConfirmed(context.WithoutCancel(ctx), n)

	return out, nil
}

// CancelByToken deletes the enrollment the token resolves to and
// returns its seat to the pool, both inside one transaction.  An
// unknown token and an already-cancelled enrollment are reported
// identically as repository.ErrEnrollmentNotFound; a second
// cancellation of the same token therefore fails without touching the
// counter.
func (s *EnrollmentService) CancelByToken(ctx context.Context, token string) (Cancellation, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Cancellation{}, ErrInvalidInput
	}
	var out Cancellation
	err := s.store.InTx(ctx, func(tx Tx) error {
		d, err := tx.EnrollmentByToken(ctx, token)
		if err != nil {
			return err
		}
		if err := tx.DeleteEnrollment(ctx, d.EnrollmentID); err != nil {
			return err
		}
		if err := tx.ReleaseSeat(ctx, d.WorkshopID); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		return Cancellation{}, err
	}
	// Cancellation confirmation is shown synchronously to the
	// requester; no email is sent.
	return out, nil
}
