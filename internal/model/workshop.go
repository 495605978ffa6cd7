package model

import "time"

// Workshop categories.  PUBLIC workshops are open sessions anyone can
// enroll in, BUSINESS workshops are private corporate bookings and KIT
// entries represent take-home craft kits sold alongside a session.
const (
	CategoryPublic   = "PUBLIC"
	CategoryBusiness = "BUSINESS"
	CategoryKit      = "KIT"
)

// Workshop represents a scheduled studio session with a finite number
// of seats.  SeatsTaken is mutated only through the seat ledger
// operations on the repository; the invariant
// 0 <= seats_taken <= total_seats holds at all times.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the session.
//  Description – free text shown on the catalog page.
//  StartsAt    – when the session takes place (nullable for kits).
//  Category    – one of PUBLIC, BUSINESS, KIT.
//  PriceCents  – enrollment price in cents.
//  Active      – whether the workshop is visible in the public catalog.
//  ImageURL    – reference to a catalog image, stored as an opaque string.
//  Location    – where the session takes place.
//  TotalSeats  – seat capacity.
//  SeatsTaken  – seats currently consumed by live enrollments.
type Workshop struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	Category    string     `json:"category"`
	PriceCents  uint32     `json:"price_cents"`
	Active      bool       `json:"active"`
	ImageURL    *string    `json:"image_url,omitempty"`
	Location    *string    `json:"location,omitempty"`
	TotalSeats  uint32     `json:"total_seats"`
	SeatsTaken  uint32     `json:"seats_taken"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SeatsFree returns the remaining capacity.  Clients use this to
// render availability without recomputing it.
func (w Workshop) SeatsFree() uint32 {
	if w.SeatsTaken >= w.TotalSeats {
		return 0
	}
	return w.TotalSeats - w.SeatsTaken
}
