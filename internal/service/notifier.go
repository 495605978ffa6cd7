package service

import "context"

// Notifier is the one-way outbound gateway for customer email.  Calls
// happen after the surrounding transaction has committed and are
// fire-and-forget: implementations log failures and never report them
// back, so notification problems cannot fail an operation the caller
// has already been promised.
type Notifier interface {
	EnrollmentConfirmed(ctx context.Context, n EnrollmentNotification)
	OrderConfirmed(ctx context.Context, n OrderNotification)
	PasswordReset(ctx context.Context, n PasswordResetNotification)
	VerifyAccount(ctx context.Context, n VerifyAccountNotification)
}

// EnrollmentNotification carries everything the confirmation email
// needs, including the cancellation token the customer uses as the
// sole credential to cancel.
type EnrollmentNotification struct {
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	WorkshopName  string     `json:"workshop_name"`
	StartsAt      *string    `json:"starts_at,omitempty"`
	Location      *string    `json:"location,omitempty"`
	PriceCents    uint32     `json:"price_cents"`
	CancelToken   string     `json:"cancel_token"`
}

// OrderNotification summarizes a paid order.
type OrderNotification struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	OrderID       uint64 `json:"order_id"`
	TotalCents    uint32 `json:"total_cents"`
}

// PasswordResetNotification carries the reset token mailed to an
// account holder.
type PasswordResetNotification struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	ResetToken    string `json:"reset_token"`
}

// VerifyAccountNotification carries the verification token mailed
// after registration.
type VerifyAccountNotification struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	VerifyToken   string `json:"verify_token"`
}
