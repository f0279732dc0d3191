package models

import (
	"errors"
	"time"
)

// TicketStatus represents the status of a ticket
type TicketStatus string

const (
	TicketValid TicketStatus = "valid"
	TicketUsed  TicketStatus = "used"
)

// Ticket represents one individually redeemable admission. Checkout creates
// one row per purchased unit; a line with quantity N yields N tickets, each
// with its own redemption token. Immutable except for the valid->used
// transition; removed only by administrative purge.
type Ticket struct {
	ID          int64        `json:"id" db:"id"`
	AccountID   int64        `json:"account_id" db:"account_id"`
	EventID     int64        `json:"event_id" db:"event_id"`
	PricePaid   int          `json:"price_paid" db:"price_paid"` // Copied from the cart line snapshot, in cents
	Token       string       `json:"token" db:"token"`
	QRKey       string       `json:"qr_key" db:"qr_key"`
	Status      TicketStatus `json:"status" db:"status"`
	PurchasedAt time.Time    `json:"purchased_at" db:"purchased_at"`
	RedeemedAt  *time.Time   `json:"redeemed_at,omitempty" db:"redeemed_at"`
}

// TicketSpec carries the pre-generated credentials for one ticket insert.
// Generation is pure in-memory work so it can run inside the checkout
// transaction.
type TicketSpec struct {
	Token string
	QRKey string
}

// TicketReceipt is returned per created ticket by checkout, in cart-line
// order then unit index within a line.
type TicketReceipt struct {
	TicketID  int64  `json:"ticket_id"`
	EventID   int64  `json:"event_id"`
	PricePaid int    `json:"price_paid"`
	Token     string `json:"token"`
	QRKey     string `json:"qr_key"`
}

// Validate validates the ticket data
func (t *Ticket) Validate() error {
	if err := t.validateToken(); err != nil {
		return err
	}

	return t.validateStatus()
}

// validateToken validates the redemption token
func (t *Ticket) validateToken() error {
	if t.Token == "" {
		return errors.New("redemption token is required")
	}

	if len(t.Token) > 255 {
		return errors.New("redemption token must be less than 255 characters")
	}

	return nil
}

// validateStatus validates the ticket status
func (t *Ticket) validateStatus() error {
	switch t.Status {
	case TicketValid, TicketUsed:
		return nil
	default:
		return errors.New("invalid ticket status")
	}
}

// CanBeRedeemed returns true if the ticket can still be redeemed at the gate
func (t *Ticket) CanBeRedeemed() bool {
	return t.Status == TicketValid
}

// IsUsed returns true if the ticket has been redeemed
func (t *Ticket) IsUsed() bool {
	return t.Status == TicketUsed
}

// PricePaidInCurrency returns the paid price in the main currency as a float
func (t *Ticket) PricePaidInCurrency() float64 {
	return float64(t.PricePaid) / 100.0
}
