package model

import "time"

// LoyaltyNote is a free-text note an admin attaches to a customer.
// Notes are append-only; there is no update or delete path.
type LoyaltyNote struct {
	ID         uint64    `json:"id"`
	CustomerID uint64    `json:"customer_id"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}
