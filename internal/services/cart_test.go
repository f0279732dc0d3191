package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-marketplace/internal/models"
)

func newCartFixture(t *testing.T) (*CartService, *MockEventRepository, *MockAccountRepository) {
	t.Helper()

	accounts := NewMockAccountRepository()
	accounts.Put(&models.Account{ID: 1, Name: "Ada", Email: "ada@example.com", Balance: 10000})
	accounts.Put(&models.Account{ID: 2, Name: "Bob", Email: "bob@example.com", Balance: 5000})

	events := NewMockEventRepository()
	events.Put(&models.Event{ID: 10, Title: "Jazz Night", Price: 1000})

	store := NewMockStore(accounts)
	return NewCartService(store, events, accounts), events, accounts
}

func TestGetCartCreatesEmptyCart(t *testing.T) {
	svc, _, _ := newCartFixture(t)

	cart, err := svc.GetCart(1)
	require.NoError(t, err)

	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.IsActive())
	assert.Equal(t, int64(1), cart.AccountID)

	// Fetching again returns the same cart.
	again, err := svc.GetCart(1)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestGetCartUnknownAccount(t *testing.T) {
	svc, _, _ := newCartFixture(t)

	_, err := svc.GetCart(99)
	assert.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestAddLineCapturesCurrentPrice(t *testing.T) {
	svc, events, _ := newCartFixture(t)

	cart, err := svc.AddLine(1, 10, 2)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 1000, cart.Lines[0].UnitPrice)

	// A later price change leaves the captured price alone.
	events.Put(&models.Event{ID: 10, Title: "Jazz Night", Price: 2000})

	cart, err = svc.GetCart(1)
	require.NoError(t, err)
	assert.Equal(t, 1000, cart.Lines[0].UnitPrice)

	// A new line captures the new price.
	cart, err = svc.AddLine(1, 10, 1)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 2)
	assert.Equal(t, 2000, cart.Lines[1].UnitPrice)

	total, err := svc.ComputeTotal(1)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), total)
}

func TestAddLineDefaultsQuantityToOne(t *testing.T) {
	svc, _, _ := newCartFixture(t)

	cart, err := svc.AddLine(1, 10, 0)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
}

func TestAddLineValidation(t *testing.T) {
	svc, _, _ := newCartFixture(t)

	_, err := svc.AddLine(1, 10, -1)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.AddLine(1, 99, 1)
	assert.ErrorIs(t, err, models.ErrEventNotFound)

	_, err = svc.AddLine(99, 10, 1)
	assert.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestUpdateLineQuantity(t *testing.T) {
	svc, _, _ := newCartFixture(t)

	cart, err := svc.AddLine(1, 10, 1)
	require.NoError(t, err)
	lineID := cart.Lines[0].ID

	cart, err = svc.UpdateLine(1, lineID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Lines[0].Quantity)

	_, err = svc.UpdateLine(1, lineID, 0)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.UpdateLine(1, 9999, 2)
	assert.ErrorIs(t, err, models.ErrCartLineNotFound)
}

func TestUpdateLineForbiddenForOtherAccount(t *testing.T) {
	svc, _, _ := newCartFixture(t)

	cart, err := svc.AddLine(1, 10, 1)
	require.NoError(t, err)

	_, err = svc.UpdateLine(2, cart.Lines[0].ID, 3)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestRemoveLineIsIdempotent(t *testing.T) {
	svc, _, _ := newCartFixture(t)

	cart, err := svc.AddLine(1, 10, 1)
	require.NoError(t, err)
	lineID := cart.Lines[0].ID

	cart, err = svc.RemoveLine(1, lineID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	// Removing an already removed line is not an error.
	cart, err = svc.RemoveLine(1, lineID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestRemoveLineForbiddenForOtherAccount(t *testing.T) {
	svc, _, _ := newCartFixture(t)

	cart, err := svc.AddLine(1, 10, 1)
	require.NoError(t, err)

	_, err = svc.RemoveLine(2, cart.Lines[0].ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestClearCart(t *testing.T) {
	svc, _, _ := newCartFixture(t)

	_, err := svc.AddLine(1, 10, 2)
	require.NoError(t, err)
	_, err = svc.AddLine(1, 10, 3)
	require.NoError(t, err)

	cart, err := svc.Clear(1)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	total, err := svc.ComputeTotal(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
