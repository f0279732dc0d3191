package handlers

import (
	"encoding/json"
	"net/http"

	"ticket-marketplace/internal/models"
)

// CartService interface for cart operations
type CartService interface {
	GetCart(accountID int64) (*models.Cart, error)
	AddLine(accountID, eventID int64, quantity int) (*models.Cart, error)
	UpdateLine(accountID, lineID int64, quantity int) (*models.Cart, error)
	RemoveLine(accountID, lineID int64) (*models.Cart, error)
	Clear(accountID int64) (*models.Cart, error)
	ComputeTotal(accountID int64) (int64, error)
}

// CartHandler serves cart operations
type CartHandler struct {
	carts CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type cartResponse struct {
	Cart  *models.Cart `json:"cart"`
	Total int64        `json:"total"`
}

func (h *CartHandler) respondCart(w http.ResponseWriter, status int, cart *models.Cart) {
	writeJSON(w, status, cartResponse{Cart: cart, Total: cart.Total()})
}

// Get handles GET /accounts/{accountID}/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseIDParam(r, "accountID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	cart, err := h.carts.GetCart(accountID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.respondCart(w, http.StatusOK, cart)
}

type addLineRequest struct {
	EventID  int64 `json:"event_id"`
	Quantity int   `json:"quantity"`
}

// AddLine handles POST /accounts/{accountID}/cart/lines
func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseIDParam(r, "accountID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var req addLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.EventID <= 0 {
		writeBadRequest(w, "event_id is required")
		return
	}

	cart, err := h.carts.AddLine(accountID, req.EventID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	h.respondCart(w, http.StatusCreated, cart)
}

type updateLineRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateLine handles PUT /accounts/{accountID}/cart/lines/{lineID}
func (h *CartHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseIDParam(r, "accountID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	lineID, err := parseIDParam(r, "lineID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var req updateLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	cart, err := h.carts.UpdateLine(accountID, lineID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	h.respondCart(w, http.StatusOK, cart)
}

// RemoveLine handles DELETE /accounts/{accountID}/cart/lines/{lineID}
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseIDParam(r, "accountID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	lineID, err := parseIDParam(r, "lineID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	cart, err := h.carts.RemoveLine(accountID, lineID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.respondCart(w, http.StatusOK, cart)
}

// Clear handles POST /accounts/{accountID}/cart/clear
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseIDParam(r, "accountID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	cart, err := h.carts.Clear(accountID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.respondCart(w, http.StatusOK, cart)
}
