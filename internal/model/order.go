package model

import "time"

// Order statuses.  Payment is simulated: a successful checkout creates
// the order directly in PAID state.
const (
	OrderPending = "PENDING"
	OrderPaid    = "PAID"
)

// Order aggregates a cart checkout.  The customer is identified by
// name and email only; checkout does not require an account.
type Order struct {
	ID            uint64      `json:"id"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	TotalCents    uint32      `json:"total_cents"`
	Status        string      `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	Items         []OrderItem `json:"items,omitempty"`
}

// OrderItem references a product with the quantity purchased and the
// unit price captured at purchase time, decoupled from the live
// product price.
type OrderItem struct {
	ID             uint64 `json:"id"`
	OrderID        uint64 `json:"order_id"`
	ProductID      uint64 `json:"product_id"`
	Quantity       uint32 `json:"quantity"`
	UnitPriceCents uint32 `json:"unit_price_cents"`
}
