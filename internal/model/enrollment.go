package model

import "time"

// Enrollment links a customer to a workshop and consumes exactly one
// seat.  CancelToken is an opaque single-use credential mailed to the
// enrollee; it resolves to at most one live enrollment and becomes
// useless once the row is deleted.
type Enrollment struct {
	ID          uint64    `json:"id"`
	CustomerID  uint64    `json:"customer_id"`
	WorkshopID  uint64    `json:"workshop_id"`
	EnrolledAt  time.Time `json:"enrolled_at"`
	CancelToken string    `json:"-"`
}

// EnrollmentHistoryEntry is a row of a customer's enrollment history
// as shown in the admin CRM: the workshop joined with the enrollment
// timestamp.
type EnrollmentHistoryEntry struct {
	WorkshopName string     `json:"workshop_name"`
	StartsAt     *time.Time `json:"starts_at"`
	EnrolledAt   time.Time  `json:"enrolled_at"`
}
