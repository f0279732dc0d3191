package models

import (
	"errors"
	"fmt"
	"time"
)

// CartStatus represents the status of a cart
type CartStatus string

const (
	CartActive     CartStatus = "active"
	CartCheckedOut CartStatus = "checked_out"
)

// Cart represents an account's shopping cart. Each account has at most one
// active cart, created lazily on first access and emptied (not deleted) by
// checkout.
type Cart struct {
	ID        int64      `json:"id" db:"id"`
	AccountID int64      `json:"account_id" db:"account_id"`
	Status    CartStatus `json:"status" db:"status"`
	Lines     []CartLine `json:"lines"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// CartLine represents one entry in a cart. UnitPrice is the catalog price
// captured when the line was added; later catalog changes never touch it.
type CartLine struct {
	ID        int64     `json:"id" db:"id"`
	CartID    int64     `json:"cart_id" db:"cart_id"`
	EventID   int64     `json:"event_id" db:"event_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice int       `json:"unit_price" db:"unit_price"` // Snapshot in cents
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Subtotal returns unit price times quantity for the line
func (l *CartLine) Subtotal() int64 {
	return int64(l.UnitPrice) * int64(l.Quantity)
}

// Total returns the sum of all line subtotals
func (c *Cart) Total() int64 {
	var total int64
	for i := range c.Lines {
		total += c.Lines[i].Subtotal()
	}
	return total
}

// UnitCount returns the number of tickets a checkout of this cart would issue
func (c *Cart) UnitCount() int {
	count := 0
	for i := range c.Lines {
		count += c.Lines[i].Quantity
	}
	return count
}

// IsEmpty returns true if the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// IsActive returns true if the cart is the account's active cart
func (c *Cart) IsActive() bool {
	return c.Status == CartActive
}

// Validate validates the cart line data
func (l *CartLine) Validate() error {
	if err := ValidateQuantity(l.Quantity); err != nil {
		return err
	}

	if l.UnitPrice < 0 {
		return errors.New("unit price cannot be negative")
	}

	if l.EventID <= 0 {
		return errors.New("event id is required")
	}

	return nil
}

// ValidateQuantity validates a cart line quantity
func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}

	// Maximum of 100 tickets per line
	if quantity > 100 {
		return fmt.Errorf("%w: quantity cannot exceed 100", ErrInvalidInput)
	}

	return nil
}
