package handlers

import (
	"context"
	"net/http"

	"ticket-marketplace/internal/services"
)

// CheckoutService interface for checkout operations
type CheckoutService interface {
	Checkout(ctx context.Context, accountID int64, idempotencyKey string) (*services.CheckoutResult, error)
}

// CheckoutHandler serves checkout requests
type CheckoutHandler struct {
	checkout CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkout CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Checkout handles POST /accounts/{accountID}/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseIDParam(r, "accountID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	result, err := h.checkout.Checkout(r.Context(), accountID, r.Header.Get("Idempotency-Key"))
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}
