package service

import (
	"context"
	"strings"
	"time"

	"github.com/atelierhq/workshop-studio/internal/model"
	"github.com/atelierhq/workshop-studio/internal/repository"
	"github.com/atelierhq/workshop-studio/internal/utils"
)

// AccountService handles customer self-registration and credentials.
// Its core rule is the identity merge: a guest contact created by an
// earlier enrollment is upgraded in place when the same email
// registers, so enrollment history stays attached to one customer id.
type AccountService struct {
	store      Store
	notifier   Notifier
	bcryptCost int
	resetTTL   time.Duration
}

// NewAccountService wires the service to its store and notifier.
func NewAccountService(store Store, notifier Notifier, bcryptCost int) *AccountService {
	if store == nil || notifier == nil {
		panic("nil dependency passed to NewAccountService")
	}
	return &AccountService{
		store:      store,
		notifier:   notifier,
		bcryptCost: bcryptCost,
		resetTTL:   time.Hour,
	}
}

// Register creates or upgrades a customer account.  Three-way branch
// on the existing row for the email:
//
//   - none            -> create with password hash + verification token
//   - guest (no hash) -> upgrade the same row in place
//   - has a hash      -> repository.ErrAlreadyRegistered
//
// The branch decision and the write run in one transaction so a
// concurrent registration for the same email cannot produce a
// duplicate.
func (s *AccountService) Register(ctx context.Context, name, email, phone, password string) (model.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(email) == "" || password == "" {
		return model.Customer{}, ErrInvalidInput
	}
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return model.Customer{}, err
	}
	verifyToken := utils.NewOpaqueToken()

	var out model.Customer
	err = s.store.InTx(ctx, func(tx Tx) error {
		existing, err := tx.CustomerByEmail(ctx, email)
		switch {
		case err == repository.ErrCustomerNotFound:
			id, err := tx.CreateRegisteredCustomer(ctx, name, email, phone, hash, verifyToken)
			if err != nil {
				return err
			}
			out = model.Customer{
				ID:    id,
				Name:  name,
				Email: repository.NormalizeEmail(email),
				Role:  model.RoleCustomer,
			}
			return nil
		case err != nil:
			return err
		case !existing.IsGuest():
			return repository.ErrAlreadyRegistered
		default:
			if err := tx.UpgradeGuestCustomer(ctx, existing.ID, name, phone, hash, verifyToken); err != nil {
				return err
			}
			out = existing
			out.Name = name
			return nil
		}
	})
	if err != nil {
		return model.Customer{}, err
	}

	go s.notifier.VerifyAccount(context.WithoutCancel(ctx), VerifyAccountNotification{
		CustomerName:  out.Name,
		CustomerEmail: out.Email,
		VerifyToken:   verifyToken,
	})
	return out, nil
}

// Authenticate checks email/password and returns the customer.  Guest
// contacts have no hash and can never authenticate.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (model.Customer, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return model.Customer{}, ErrInvalidInput
	}
	var c model.Customer
	err := s.store.InTx(ctx, func(tx Tx) error {
		var err error
		c, err = tx.CustomerByEmail(ctx, email)
		return err
	})
	if err != nil {
		return model.Customer{}, err
	}
	if c.IsGuest() || !utils.VerifyPassword(*c.PasswordHash, password) {
		return model.Customer{}, repository.ErrCustomerNotFound
	}
	return c, nil
}

// Verify marks the account holding the token as verified.
func (s *AccountService) Verify(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidInput
	}
	return s.store.InTx(ctx, func(tx Tx) error {
		return tx.MarkVerified(ctx, token)
	})
}

// ForgotPassword issues a reset token for a registered account and
// mails it out of band.  To avoid leaking which addresses exist, an
// unknown or guest email is not an error: the call succeeds and simply
// sends nothing.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrInvalidInput
	}
	token := utils.NewOpaqueToken()
	var c model.Customer
	err := s.store.InTx(ctx, func(tx Tx) error {
		var err error
		c, err = tx.CustomerByEmail(ctx, email)
		if err == repository.ErrCustomerNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		if c.IsGuest() {
			c = model.Customer{}
			return nil
		}
		return tx.SetResetToken(ctx, c.ID, token, time.Now().UTC().Add(s.resetTTL))
	})
	if err != nil {
		return err
	}
	if c.ID != 0 {
		go s.notifier.PasswordReset(context.WithoutCancel(ctx), PasswordResetNotification{
			CustomerName:  c.Name,
			CustomerEmail: c.Email,
			ResetToken:    token,
		})
	}
	return nil
}

// ResetPassword exchanges an unexpired reset token for a new password.
func (s *AccountService) ResetPassword(ctx context.Context, token, password string) error {
	if strings.TrimSpace(token) == "" || password == "" {
		return ErrInvalidInput
	}
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.store.InTx(ctx, func(tx Tx) error {
		c, err := tx.CustomerByResetToken(ctx, token, time.Now().UTC())
		if err != nil {
			return err
		}
		return tx.SetPassword(ctx, c.ID, hash)
	})
}
