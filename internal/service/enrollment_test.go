package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/workshop-studio/internal/model"
	"github.com/atelierhq/workshop-studio/internal/repository"
	"github.com/atelierhq/workshop-studio/internal/service"
	"github.com/atelierhq/workshop-studio/internal/service/servicetest"
)

func newEnrollFixture(t *testing.T, totalSeats, seatsTaken uint32) (*servicetest.MemStore, *servicetest.RecordingNotifier, *service.EnrollmentService, model.Workshop) {
	t.Helper()
	store := servicetest.NewMemStore()
	notifier := servicetest.NewRecordingNotifier()
	svc := service.NewEnrollmentService(store, notifier)
	w := store.AddWorkshop(model.Workshop{
		Name:       "Wheel Throwing Basics",
		Category:   model.CategoryPublic,
		PriceCents: 4500,
		Active:     true,
		TotalSeats: totalSeats,
		SeatsTaken: seatsTaken,
	})
	return store, notifier, svc, w
}

func TestEnrollTakesSeatAndCreatesGuest(t *testing.T) {
	store, notifier, svc, w := newEnrollFixture(t, 8, 0)

	res, err := svc.Enroll(context.Background(), service.EnrollRequest{
		WorkshopID: w.ID,
		Name:       "Maya Lindgren",
		Email:      "Maya@Example.com",
		Phone:      "555-0101",
	})
	require.NoError(t, err)

	assert.Equal(t, uint32(1), store.Workshop(w.ID).SeatsTaken)
	assert.NotEmpty(t, res.Enrollment.CancelToken)

	cust := store.CustomerByEmail("maya@example.com")
	require.NotZero(t, cust.ID, "guest contact row should exist")
	assert.True(t, cust.IsGuest())
	assert.Equal(t, cust.ID, res.Enrollment.CustomerID)

	require.Eventually(t, func() bool { return notifier.EnrollmentCount() == 1 },
		time.Second, 10*time.Millisecond)
	n := notifier.LastEnrollment()
	assert.Equal(t, "maya@example.com", n.CustomerEmail)
	assert.Equal(t, res.Enrollment.CancelToken, n.CancelToken)
}

func TestEnrollReusesExistingCustomer(t *testing.T) {
	store, _, svc, w := newEnrollFixture(t, 8, 0)
	w2 := store.AddWorkshop(model.Workshop{
		Name: "Glazing Night", Category: model.CategoryPublic,
		Active: true, TotalSeats: 8,
	})

	first, err := svc.Enroll(context.Background(), service.EnrollRequest{
		WorkshopID: w.ID, Name: "Jo Park", Email: "jo@example.com",
	})
	require.NoError(t, err)
	second, err := svc.Enroll(context.Background(), service.EnrollRequest{
		WorkshopID: w2.ID, Name: "Jo Park", Email: "JO@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, first.Customer.ID, second.Customer.ID,
		"same email must map to one customer row")
	assert.NotEqual(t, first.Enrollment.CancelToken, second.Enrollment.CancelToken)
}

func TestEnrollValidation(t *testing.T) {
	_, _, svc, w := newEnrollFixture(t, 8, 0)

	_, err := svc.Enroll(context.Background(), service.EnrollRequest{WorkshopID: w.ID, Name: "  ", Email: "a@b.c"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	_, err = svc.Enroll(context.Background(), service.EnrollRequest{WorkshopID: w.ID, Name: "A", Email: ""})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	_, err = svc.Enroll(context.Background(), service.EnrollRequest{Name: "A", Email: "a@b.c"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestEnrollUnknownWorkshop(t *testing.T) {
	_, _, svc, _ := newEnrollFixture(t, 8, 0)
	_, err := svc.Enroll(context.Background(), service.EnrollRequest{
		WorkshopID: 9999, Name: "A", Email: "a@b.c",
	})
	assert.ErrorIs(t, err, repository.ErrWorkshopNotFound)
}

func TestEnrollInactiveWorkshopLooksMissing(t *testing.T) {
	store := servicetest.NewMemStore()
	svc := service.NewEnrollmentService(store, servicetest.NewRecordingNotifier())
	w := store.AddWorkshop(model.Workshop{
		Name: "Retired Class", Category: model.CategoryPublic,
		Active: false, TotalSeats: 8,
	})
	_, err := svc.Enroll(context.Background(), service.EnrollRequest{
		WorkshopID: w.ID, Name: "A", Email: "a@b.c",
	})
	assert.ErrorIs(t, err, repository.ErrWorkshopNotFound)
}

func TestEnrollFullWorkshopLeavesNothingBehind(t *testing.T) {
	store, notifier, svc, w := newEnrollFixture(t, 3, 3)

	_, err := svc.Enroll(context.Background(), service.EnrollRequest{
		WorkshopID: w.ID, Name: "Late Comer", Email: "late@example.com",
	})
	require.ErrorIs(t, err, repository.ErrCapacityExceeded)

	assert.Equal(t, uint32(3), store.Workshop(w.ID).SeatsTaken)
	assert.Zero(t, store.EnrollmentCount())
	assert.Zero(t, store.CustomerByEmail("late@example.com").ID,
		"failed enrollment must not leave a customer row")
	assert.Zero(t, notifier.EnrollmentCount())
}

func TestEnrollConcurrentLastSeat(t *testing.T) {
	store, _, svc, w := newEnrollFixture(t, 5, 4)

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Enroll(context.Background(), service.EnrollRequest{
				WorkshopID: w.ID,
				Name:       "Racer",
				Email:      "racer@example.com",
			})
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		default:
			assert.ErrorIs(t, err, repository.ErrCapacityExceeded)
		}
	}
	assert.Equal(t, 1, won, "exactly one attempt may win the last seat")
	assert.Equal(t, uint32(5), store.Workshop(w.ID).SeatsTaken)
	assert.Equal(t, 1, store.EnrollmentCount())
}

func TestCancelReleasesSeat(t *testing.T) {
	store, _, svc, w := newEnrollFixture(t, 8, 0)
	res, err := svc.Enroll(context.Background(), service.EnrollRequest{
		WorkshopID: w.ID, Name: "Sam Ochoa", Email: "sam@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, uint32(1), store.Workshop(w.ID).SeatsTaken)

	d, err := svc.CancelByToken(context.Background(), res.Enrollment.CancelToken)
	require.NoError(t, err)
	assert.Equal(t, "Wheel Throwing Basics", d.WorkshopName)
	assert.Equal(t, "Sam Ochoa", d.CustomerName)
	assert.Zero(t, store.Workshop(w.ID).SeatsTaken)
	assert.Zero(t, store.EnrollmentCount())
}

func TestCancelTwiceSecondNotFound(t *testing.T) {
	store, _, svc, w := newEnrollFixture(t, 8, 0)
	res, err := svc.Enroll(context.Background(), service.EnrollRequest{
		WorkshopID: w.ID, Name: "Sam", Email: "sam@example.com",
	})
	require.NoError(t, err)

	_, err = svc.CancelByToken(context.Background(), res.Enrollment.CancelToken)
	require.NoError(t, err)

	_, err = svc.CancelByToken(context.Background(), res.Enrollment.CancelToken)
	assert.ErrorIs(t, err, repository.ErrEnrollmentNotFound)
	// The second attempt must not drive the counter below zero.
	assert.Zero(t, store.Workshop(w.ID).SeatsTaken)
}

func TestCancelUnknownToken(t *testing.T) {
	_, _, svc, _ := newEnrollFixture(t, 8, 0)
	_, err := svc.CancelByToken(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, repository.ErrEnrollmentNotFound)

	_, err = svc.CancelByToken(context.Background(), "  ")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestFullWorkshopReopensAfterCancel(t *testing.T) {
	store, _, svc, w := newEnrollFixture(t, 1, 0)

	first, err := svc.Enroll(context.Background(), service.EnrollRequest{
		WorkshopID: w.ID, Name: "First", Email: "first@example.com",
	})
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), service.EnrollRequest{
		WorkshopID: w.ID, Name: "Second", Email: "second@example.com",
	})
	require.ErrorIs(t, err, repository.ErrCapacityExceeded)

	_, err = svc.CancelByToken(context.Background(), first.Enrollment.CancelToken)
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), service.EnrollRequest{
		WorkshopID: w.ID, Name: "Second", Email: "second@example.com",
	})
	require.NoError(t, err, "cancelled seat must be available again")
	assert.Equal(t, uint32(1), store.Workshop(w.ID).SeatsTaken)
}
