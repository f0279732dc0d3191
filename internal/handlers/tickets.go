package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ticket-marketplace/internal/models"
)

// TicketService interface for ticket operations
type TicketService interface {
	Issue(ctx context.Context, accountID, eventID int64, pricePaid int) (*models.Ticket, error)
	ListAccountTickets(accountID int64) ([]*models.Ticket, error)
	QRImage(token string) ([]byte, error)
	Redeem(ctx context.Context, token string) (bool, error)
	PurgeAccountTickets(ctx context.Context, accountID int64) (int, error)
}

// TicketHandler serves ticket listing, QR images, and redemption
type TicketHandler struct {
	tickets TicketService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(tickets TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// List handles GET /accounts/{accountID}/tickets
func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseIDParam(r, "accountID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	tickets, err := h.tickets.ListAccountTickets(accountID)
	if err != nil {
		writeError(w, err)
		return
	}
	if tickets == nil {
		tickets = []*models.Ticket{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"tickets": tickets})
}

// QR handles GET /tickets/{token}/qr
func (h *TicketHandler) QR(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		writeBadRequest(w, "token is required")
		return
	}

	png, err := h.tickets.QRImage(token)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

type redeemResponse struct {
	Valid bool `json:"valid"`
}

// Redeem handles GET /redeem?token=...
//
// The gate scanner only understands a yes/no answer, so an unknown or
// already used token is a 200 with valid=false rather than an error.
func (h *TicketHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	valid, err := h.tickets.Redeem(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, redeemResponse{Valid: valid})
}

type issueRequest struct {
	AccountID int64 `json:"account_id"`
	EventID   int64 `json:"event_id"`
	PricePaid int   `json:"price_paid"`
}

// Issue handles POST /admin/tickets for comp and support issuance
func (h *TicketHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.AccountID <= 0 || req.EventID <= 0 {
		writeBadRequest(w, "account_id and event_id are required")
		return
	}

	ticket, err := h.tickets.Issue(r.Context(), req.AccountID, req.EventID, req.PricePaid)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ticket)
}

// Purge handles DELETE /admin/accounts/{accountID}/tickets
func (h *TicketHandler) Purge(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseIDParam(r, "accountID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	count, err := h.tickets.PurgeAccountTickets(r.Context(), accountID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"purged": count})
}
