package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-marketplace/internal/models"

	_ "github.com/lib/pq"
)

// setupTestDB connects to the test database, skipping when none is
// configured
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Skipf("Failed to connect to test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("Failed to ping test database: %v", err)
	}

	return db
}

func seedAccount(t *testing.T, db *sql.DB, balance int64) int64 {
	t.Helper()

	repo := NewAccountRepository(db)
	account, err := repo.Create("Test Account", fmt.Sprintf("test-%d@example.com", time.Now().UnixNano()), balance)
	require.NoError(t, err)
	return account.ID
}

func seedEvent(t *testing.T, db *sql.DB, price int) int64 {
	t.Helper()

	repo := NewEventRepository(db)
	event, err := repo.Create("Test Event", "Test Venue", price, time.Now().AddDate(0, 0, 7))
	require.NoError(t, err)
	return event.ID
}

func testIssueFunc() IssueFunc {
	var n int
	return func(line models.CartLine, unit int) models.TicketSpec {
		n++
		token := fmt.Sprintf("test-token-%d-%d", time.Now().UnixNano(), n)
		return models.TicketSpec{Token: token, QRKey: "tickets/" + token + ".png"}
	}
}

func TestCheckoutRepository_New(t *testing.T) {
	repo := NewCheckoutRepository(nil)
	assert.NotNil(t, repo)
}

func TestExecuteCheckout_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	accountID := seedAccount(t, db, 10000)
	eventID := seedEvent(t, db, 1000)

	cartRepo := NewCartRepository(db)
	cart, err := cartRepo.GetOrCreateActive(accountID)
	require.NoError(t, err)
	_, err = cartRepo.AddLine(cart.ID, eventID, 3, 1000)
	require.NoError(t, err)

	checkoutRepo := NewCheckoutRepository(db)
	receipts, total, err := checkoutRepo.ExecuteCheckout(context.Background(), accountID, testIssueFunc())
	require.NoError(t, err)

	assert.Len(t, receipts, 3)
	assert.Equal(t, int64(3000), total)

	accountRepo := NewAccountRepository(db)
	account, err := accountRepo.GetByID(accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(7000), account.Balance)

	cart, err = cartRepo.GetOrCreateActive(accountID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestExecuteCheckout_InsufficientFunds_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	accountID := seedAccount(t, db, 500)
	eventID := seedEvent(t, db, 1000)

	cartRepo := NewCartRepository(db)
	cart, err := cartRepo.GetOrCreateActive(accountID)
	require.NoError(t, err)
	_, err = cartRepo.AddLine(cart.ID, eventID, 1, 1000)
	require.NoError(t, err)

	checkoutRepo := NewCheckoutRepository(db)
	_, _, err = checkoutRepo.ExecuteCheckout(context.Background(), accountID, testIssueFunc())
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)

	// Nothing changed.
	accountRepo := NewAccountRepository(db)
	account, err := accountRepo.GetByID(accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), account.Balance)

	cart, err = cartRepo.GetOrCreateActive(accountID)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.UnitCount())
}

func TestExecuteCheckout_EmptyCart_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	accountID := seedAccount(t, db, 10000)

	checkoutRepo := NewCheckoutRepository(db)
	_, _, err := checkoutRepo.ExecuteCheckout(context.Background(), accountID, testIssueFunc())
	assert.ErrorIs(t, err, models.ErrEmptyCart)
}

func TestRedeem_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	accountID := seedAccount(t, db, 1000)
	eventID := seedEvent(t, db, 500)

	ticketRepo := NewTicketRepository(db)
	spec := models.TicketSpec{
		Token: fmt.Sprintf("redeem-test-%d", time.Now().UnixNano()),
		QRKey: "tickets/redeem-test.png",
	}
	_, err := ticketRepo.Create(accountID, eventID, 500, spec)
	require.NoError(t, err)

	ok, err := ticketRepo.Redeem(spec.Token)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ticketRepo.Redeem(spec.Token)
	require.NoError(t, err)
	assert.False(t, ok)

	ticket, err := ticketRepo.GetByToken(spec.Token)
	require.NoError(t, err)
	assert.Equal(t, models.TicketUsed, ticket.Status)
	assert.NotNil(t, ticket.RedeemedAt)
}
