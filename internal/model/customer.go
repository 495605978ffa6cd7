package model

import "time"

// Customer roles.  ADMIN accounts manage the back office; CUSTOMER
// accounts belong to studio clients.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// Customer mirrors the 'customers' table.  Email is globally unique.
// A customer created through an enrollment ("guest" contact) has no
// password hash and cannot authenticate; self-registration later
// upgrades the same row in place so enrollment history stays attached
// to one identifier.
type Customer struct {
	ID             uint64     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          *string    `json:"phone,omitempty"`
	Interests      *string    `json:"interests,omitempty"`
	RegisteredAt   time.Time  `json:"registered_at"`
	PasswordHash   *string    `json:"-"`
	Role           string     `json:"role"`
	Verified       bool       `json:"verified"`
	VerifyToken    *string    `json:"-"`
	ResetToken     *string    `json:"-"`
	ResetExpiresAt *time.Time `json:"-"`
}

// IsGuest reports whether the customer exists only as a contact record
// and cannot log in.
func (c Customer) IsGuest() bool { return c.PasswordHash == nil || *c.PasswordHash == "" }
