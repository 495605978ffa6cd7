package model

// Product is a physical item sold through the cart.  Stock is mutated
// only through the conditional decrement in the repository so an order
// can never oversell.
type Product struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PriceCents  uint32  `json:"price_cents"`
	Stock       uint32  `json:"stock"`
	Active      bool    `json:"active"`
	ImageURL    *string `json:"image_url,omitempty"`
}
