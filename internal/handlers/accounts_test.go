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

type stubAccountService struct {
	account *models.Account
	err     error

	gotID     int64
	gotAmount int64
}

func (s *stubAccountService) GetByID(id int64) (*models.Account, error) {
	s.gotID = id
	return s.account, s.err
}

func (s *stubAccountService) Credit(id int64, amount int64) error {
	s.gotID, s.gotAmount = id, amount
	return s.err
}

func newAccountRouter(svc AccountService) *chi.Mux {
	h := NewAccountHandler(svc)
	r := chi.NewRouter()
	r.Get("/accounts/{accountID}", h.Get)
	r.Post("/admin/accounts/{accountID}/credit", h.Credit)
	return r
}

func TestAccountHandlerGet(t *testing.T) {
	stub := &stubAccountService{account: &models.Account{ID: 7, Name: "Ada", Balance: 5000}}
	router := newAccountRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/accounts/7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), stub.gotID)

	var account models.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	assert.Equal(t, int64(5000), account.Balance)
}

func TestAccountHandlerGetNotFound(t *testing.T) {
	router := newAccountRouter(&stubAccountService{err: models.ErrAccountNotFound})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/accounts/99", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccountHandlerCredit(t *testing.T) {
	stub := &stubAccountService{account: &models.Account{ID: 7, Balance: 6000}}
	router := newAccountRouter(stub)

	payload := bytes.NewBufferString(`{"amount": 1000}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/admin/accounts/7/credit", payload))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1000), stub.gotAmount)
}

func TestAccountHandlerCreditRejectsNonPositive(t *testing.T) {
	router := newAccountRouter(&stubAccountService{})

	payload := bytes.NewBufferString(`{"amount": -5}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/admin/accounts/7/credit", payload))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
