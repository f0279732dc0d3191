package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-marketplace/internal/models"
)

type stubCartService struct {
	cart *models.Cart
	err  error

	gotAccountID int64
	gotEventID   int64
	gotLineID    int64
	gotQuantity  int
}

func (s *stubCartService) GetCart(accountID int64) (*models.Cart, error) {
	s.gotAccountID = accountID
	return s.cart, s.err
}

func (s *stubCartService) AddLine(accountID, eventID int64, quantity int) (*models.Cart, error) {
	s.gotAccountID, s.gotEventID, s.gotQuantity = accountID, eventID, quantity
	return s.cart, s.err
}

func (s *stubCartService) UpdateLine(accountID, lineID int64, quantity int) (*models.Cart, error) {
	s.gotAccountID, s.gotLineID, s.gotQuantity = accountID, lineID, quantity
	return s.cart, s.err
}

func (s *stubCartService) RemoveLine(accountID, lineID int64) (*models.Cart, error) {
	s.gotAccountID, s.gotLineID = accountID, lineID
	return s.cart, s.err
}

func (s *stubCartService) Clear(accountID int64) (*models.Cart, error) {
	s.gotAccountID = accountID
	return s.cart, s.err
}

func (s *stubCartService) ComputeTotal(accountID int64) (int64, error) {
	return s.cart.Total(), s.err
}

func newCartRouter(svc CartService) *chi.Mux {
	h := NewCartHandler(svc)
	r := chi.NewRouter()
	r.Route("/accounts/{accountID}", func(r chi.Router) {
		r.Get("/cart", h.Get)
		r.Post("/cart/lines", h.AddLine)
		r.Put("/cart/lines/{lineID}", h.UpdateLine)
		r.Delete("/cart/lines/{lineID}", h.RemoveLine)
		r.Post("/cart/clear", h.Clear)
	})
	return r
}

func testCart() *models.Cart {
	return &models.Cart{
		ID:        1,
		AccountID: 7,
		Status:    models.CartActive,
		Lines: []models.CartLine{
			{ID: 3, CartID: 1, EventID: 10, Quantity: 2, UnitPrice: 1000},
		},
	}
}

func TestCartHandlerGet(t *testing.T) {
	stub := &stubCartService{cart: testCart()}
	router := newCartRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/accounts/7/cart", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), stub.gotAccountID)

	var body cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(2000), body.Total)
	require.Len(t, body.Cart.Lines, 1)
}

func TestCartHandlerGetInvalidAccountID(t *testing.T) {
	router := newCartRouter(&stubCartService{cart: testCart()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/accounts/abc/cart", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartHandlerAddLine(t *testing.T) {
	stub := &stubCartService{cart: testCart()}
	router := newCartRouter(stub)

	payload := bytes.NewBufferString(`{"event_id": 10, "quantity": 2}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/accounts/7/cart/lines", payload))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(10), stub.gotEventID)
	assert.Equal(t, 2, stub.gotQuantity)
}

func TestCartHandlerAddLineMissingEvent(t *testing.T) {
	router := newCartRouter(&stubCartService{cart: testCart()})

	payload := bytes.NewBufferString(`{"quantity": 2}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/accounts/7/cart/lines", payload))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartHandlerAddLineBadBody(t *testing.T) {
	router := newCartRouter(&stubCartService{cart: testCart()})

	payload := bytes.NewBufferString(`{not json`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/accounts/7/cart/lines", payload))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartHandlerUpdateLine(t *testing.T) {
	stub := &stubCartService{cart: testCart()}
	router := newCartRouter(stub)

	payload := bytes.NewBufferString(`{"quantity": 5}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("PUT", "/accounts/7/cart/lines/3", payload))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), stub.gotLineID)
	assert.Equal(t, 5, stub.gotQuantity)
}

func TestCartHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "account not found", err: models.ErrAccountNotFound, wantStatus: http.StatusNotFound},
		{name: "forbidden", err: models.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "invalid input", err: models.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "event not found", err: models.ErrEventNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newCartRouter(&stubCartService{err: tt.err})

			payload := bytes.NewBufferString(`{"event_id": 10, "quantity": 1}`)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("POST", "/accounts/7/cart/lines", payload))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCartHandlerRemoveLine(t *testing.T) {
	stub := &stubCartService{cart: testCart()}
	router := newCartRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/accounts/7/cart/lines/3", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), stub.gotLineID)
}

func TestCartHandlerClear(t *testing.T) {
	empty := &models.Cart{ID: 1, AccountID: 7, Status: models.CartActive}
	stub := &stubCartService{cart: empty}
	router := newCartRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/accounts/7/cart/clear", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(0), body.Total)
}
