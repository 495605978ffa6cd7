package servicetest

import (
	"context"
	"sync"

	"github.com/atelierhq/workshop-studio/internal/service"
)

// RecordingNotifier captures every notification for later assertions.
// Safe for concurrent use; notifications arrive from goroutines the
// services spawn after commit.
type RecordingNotifier struct {
	mu          sync.Mutex
	Enrollments []service.EnrollmentNotification
	Orders      []service.OrderNotification
	Resets      []service.PasswordResetNotification
	Verifies    []service.VerifyAccountNotification
}

func NewRecordingNotifier() *RecordingNotifier { return &RecordingNotifier{} }

func (r *RecordingNotifier) EnrollmentConfirmed(_ context.Context, n service.EnrollmentNotification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Enrollments = append(r.Enrollments, n)
}

func (r *RecordingNotifier) OrderConfirmed(_ context.Context, n service.OrderNotification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Orders = append(r.Orders, n)
}

func (r *RecordingNotifier) PasswordReset(_ context.Context, n service.PasswordResetNotification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Resets = append(r.Resets, n)
}

func (r *RecordingNotifier) VerifyAccount(_ context.Context, n service.VerifyAccountNotification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Verifies = append(r.Verifies, n)
}

// EnrollmentCount reports how many enrollment confirmations arrived.
func (r *RecordingNotifier) EnrollmentCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Enrollments)
}

// OrderCount reports how many order confirmations arrived.
func (r *RecordingNotifier) OrderCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Orders)
}

// ResetCount reports how many reset mails arrived.
func (r *RecordingNotifier) ResetCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Resets)
}

// VerifyCount reports how many verification mails arrived.
func (r *RecordingNotifier) VerifyCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Verifies)
}

// LastEnrollment returns the most recent enrollment notification.
func (r *RecordingNotifier) LastEnrollment() service.EnrollmentNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Enrollments) == 0 {
		return service.EnrollmentNotification{}
	}
	return r.Enrollments[len(r.Enrollments)-1]
}

// LastReset returns the most recent password reset notification.
func (r *RecordingNotifier) LastReset() service.PasswordResetNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Resets) == 0 {
		return service.PasswordResetNotification{}
	}
	return r.Resets[len(r.Resets)-1]
}

// LastVerify returns the most recent verification notification.
func (r *RecordingNotifier) LastVerify() service.VerifyAccountNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Verifies) == 0 {
		return service.VerifyAccountNotification{}
	}
	return r.Verifies[len(r.Verifies)-1]
}
