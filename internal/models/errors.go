package models

import "errors"

// Common errors used throughout the application
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrEventNotFound     = errors.New("event not found")
	ErrCartLineNotFound  = errors.New("cart line not found")
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrForbidden         = errors.New("cart line belongs to another account")
	ErrEmptyCart         = errors.New("cart has no lines")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrConflict          = errors.New("concurrent update lost the race")
	ErrInvalidInput      = errors.New("invalid input")
)
