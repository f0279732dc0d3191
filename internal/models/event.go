package models

import "time"

// Event represents a catalog entry. Only id, price and existence are
// load-bearing for checkout; the rest is display metadata.
type Event struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Venue     string    `json:"venue" db:"venue"`
	Price     int       `json:"price" db:"price"` // Price in cents
	StartsAt  time.Time `json:"starts_at" db:"starts_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PriceInCurrency returns the price in the main currency as a float
func (e *Event) PriceInCurrency() float64 {
	return float64(e.Price) / 100.0
}

// HasStarted returns true if the event has already started
func (e *Event) HasStarted() bool {
	return time.Now().After(e.StartsAt)
}
