package handlers

import (
	"encoding/json"
	"net/http"

	"ticket-marketplace/internal/models"
)

// AccountService interface for account lookups and balance top-ups
type AccountService interface {
	GetByID(id int64) (*models.Account, error)
	Credit(id int64, amount int64) error
}

// AccountHandler serves account details
type AccountHandler struct {
	accounts AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Get handles GET /accounts/{accountID}
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "accountID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	account, err := h.accounts.GetByID(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}

type creditRequest struct {
	Amount int64 `json:"amount"`
}

// Credit handles POST /admin/accounts/{accountID}/credit
func (h *AccountHandler) Credit(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "accountID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var req creditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		writeBadRequest(w, "amount must be positive")
		return
	}

	if err := h.accounts.Credit(id, req.Amount); err != nil {
		writeError(w, err)
		return
	}

	account, err := h.accounts.GetByID(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}
