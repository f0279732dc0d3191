package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-marketplace/internal/models"
)

type stubEventService struct {
	events []*models.Event
	event  *models.Event
	err    error
}

func (s *stubEventService) GetByID(id int64) (*models.Event, error) {
	return s.event, s.err
}

func (s *stubEventService) List(limit, offset int) ([]*models.Event, error) {
	return s.events, s.err
}

func newEventRouter(svc EventService) *chi.Mux {
	h := NewEventHandler(svc)
	r := chi.NewRouter()
	r.Get("/events", h.List)
	r.Get("/events/{eventID}", h.Get)
	return r
}

func TestEventHandlerList(t *testing.T) {
	router := newEventRouter(&stubEventService{events: []*models.Event{
		{ID: 10, Title: "Jazz Night", Price: 2500},
	}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/events", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Events []*models.Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Events, 1)
	assert.Equal(t, "Jazz Night", body.Events[0].Title)
}

func TestEventHandlerListEmptyIsArray(t *testing.T) {
	router := newEventRouter(&stubEventService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/events", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"events":[]`)
}

func TestEventHandlerGet(t *testing.T) {
	router := newEventRouter(&stubEventService{event: &models.Event{ID: 10, Title: "Jazz Night"}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/events/10", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var event models.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &event))
	assert.Equal(t, int64(10), event.ID)
}

func TestEventHandlerGetNotFound(t *testing.T) {
	router := newEventRouter(&stubEventService{err: models.ErrEventNotFound})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/events/99", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventHandlerGetInvalidID(t *testing.T) {
	router := newEventRouter(&stubEventService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/events/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
