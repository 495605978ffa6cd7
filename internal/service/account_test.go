package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/workshop-studio/internal/model"
	"github.com/atelierhq/workshop-studio/internal/repository"
	"github.com/atelierhq/workshop-studio/internal/service"
	"github.com/atelierhq/workshop-studio/internal/service/servicetest"
)

// Low bcrypt cost keeps the tests fast.
const testBcryptCost = 4

func newAccountFixture(t *testing.T) (*servicetest.MemStore, *servicetest.RecordingNotifier, *service.AccountService) {
	t.Helper()
	store := servicetest.NewMemStore()
	notifier := servicetest.NewRecordingNotifier()
	return store, notifier, service.NewAccountService(store, notifier, testBcryptCost)
}

func TestRegisterNewCustomer(t *testing.T) {
	store, notifier, svc := newAccountFixture(t)

	cust, err := svc.Register(context.Background(), "Noor Haddad", "Noor@Example.com", "555-0102", "s3cret!pass")
	require.NoError(t, err)
	assert.Equal(t, "noor@example.com", cust.Email)
	assert.Equal(t, model.RoleCustomer, cust.Role)

	stored := store.CustomerByEmail("noor@example.com")
	require.NotZero(t, stored.ID)
	assert.False(t, stored.IsGuest())

	require.Eventually(t, func() bool { return notifier.VerifyCount() == 1 },
		time.Second, 10*time.Millisecond)
	assert.NotEmpty(t, notifier.LastVerify().VerifyToken)
}

func TestRegisterUpgradesGuestInPlace(t *testing.T) {
	store, _, svc := newAccountFixture(t)
	enroll := service.NewEnrollmentService(store, servicetest.NewRecordingNotifier())
	w := store.AddWorkshop(model.Workshop{
		Name: "Intro to Slip Casting", Category: model.CategoryPublic,
		Active: true, TotalSeats: 6,
	})

	// Walk-in enrollment first creates a guest contact.
	res, err := enroll.Enroll(context.Background(), service.EnrollRequest{
		WorkshopID: w.ID, Name: "Guest Gina", Email: "gina@example.com",
	})
	require.NoError(t, err)
	guestID := res.Customer.ID

	cust, err := svc.Register(context.Background(), "Gina Moreau", "gina@example.com", "", "s3cret!pass")
	require.NoError(t, err)
	assert.Equal(t, guestID, cust.ID, "guest row must be upgraded, not duplicated")
	assert.Equal(t, 1, store.CustomerCount())

	stored := store.CustomerByEmail("gina@example.com")
	assert.False(t, stored.IsGuest())
	assert.Equal(t, "Gina Moreau", stored.Name)
}

func TestRegisterExistingAccountConflicts(t *testing.T) {
	_, _, svc := newAccountFixture(t)
	_, err := svc.Register(context.Background(), "A", "dup@example.com", "", "password-1")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "B", "DUP@example.com", "", "password-2")
	assert.ErrorIs(t, err, repository.ErrAlreadyRegistered)
}

func TestAuthenticate(t *testing.T) {
	_, _, svc := newAccountFixture(t)
	_, err := svc.Register(context.Background(), "Liv Berg", "liv@example.com", "", "correct-horse")
	require.NoError(t, err)

	cust, err := svc.Authenticate(context.Background(), "liv@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "Liv Berg", cust.Name)

	_, err = svc.Authenticate(context.Background(), "liv@example.com", "wrong")
	assert.ErrorIs(t, err, repository.ErrCustomerNotFound)
	_, err = svc.Authenticate(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, repository.ErrCustomerNotFound)
}

func TestGuestCannotAuthenticate(t *testing.T) {
	store, _, svc := newAccountFixture(t)
	store.AddCustomer(model.Customer{Name: "Guest", Email: "guest@example.com", Role: model.RoleCustomer})

	_, err := svc.Authenticate(context.Background(), "guest@example.com", "anything")
	assert.ErrorIs(t, err, repository.ErrCustomerNotFound)
}

func TestVerifyAccount(t *testing.T) {
	store, notifier, svc := newAccountFixture(t)
	_, err := svc.Register(context.Background(), "Vera", "vera@example.com", "", "password-1")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return notifier.VerifyCount() == 1 },
		time.Second, 10*time.Millisecond)

	token := notifier.LastVerify().VerifyToken
	require.NoError(t, svc.Verify(context.Background(), token))
	assert.True(t, store.CustomerByEmail("vera@example.com").Verified)

	// The token is single use.
	assert.ErrorIs(t, svc.Verify(context.Background(), token), repository.ErrCustomerNotFound)
}

func TestForgotPasswordUnknownEmailStaysSilent(t *testing.T) {
	_, notifier, svc := newAccountFixture(t)

	require.NoError(t, svc.ForgotPassword(context.Background(), "nobody@example.com"))
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, notifier.ResetCount(), "unknown email must not trigger mail")
}

func TestForgotPasswordGuestStaysSilent(t *testing.T) {
	store, notifier, svc := newAccountFixture(t)
	store.AddCustomer(model.Customer{Name: "Guest", Email: "guest@example.com", Role: model.RoleCustomer})

	require.NoError(t, svc.ForgotPassword(context.Background(), "guest@example.com"))
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, notifier.ResetCount())
}

func TestPasswordResetRoundTrip(t *testing.T) {
	_, notifier, svc := newAccountFixture(t)
	_, err := svc.Register(context.Background(), "Rin", "rin@example.com", "", "old-password")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(context.Background(), "rin@example.com"))
	require.Eventually(t, func() bool { return notifier.ResetCount() == 1 },
		time.Second, 10*time.Millisecond)
	token := notifier.LastReset().ResetToken
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(context.Background(), token, "new-password"))

	_, err = svc.Authenticate(context.Background(), "rin@example.com", "old-password")
	assert.ErrorIs(t, err, repository.ErrCustomerNotFound)
	_, err = svc.Authenticate(context.Background(), "rin@example.com", "new-password")
	assert.NoError(t, err)

	// Consumed tokens are invalid.
	err = svc.ResetPassword(context.Background(), token, "another")
	assert.ErrorIs(t, err, repository.ErrCustomerNotFound)
}

func TestPasswordResetBadToken(t *testing.T) {
	_, _, svc := newAccountFixture(t)
	err := svc.ResetPassword(context.Background(), "bogus", "new-password")
	assert.ErrorIs(t, err, repository.ErrCustomerNotFound)
}
