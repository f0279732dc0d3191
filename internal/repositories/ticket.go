package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"ticket-marketplace/internal/models"
)

// TicketRepository handles ticket data operations
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create inserts a single ticket outside the checkout flow
func (r *TicketRepository) Create(accountID, eventID int64, pricePaid int, spec models.TicketSpec) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	err := r.db.QueryRow(`
		INSERT INTO tickets (account_id, event_id, price_paid, token, qr_key, status)
		VALUES ($1, $2, $3, $4, $5, 'valid')
		RETURNING id, account_id, event_id, price_paid, token, qr_key, status, purchased_at, redeemed_at`,
		accountID, eventID, pricePaid, spec.Token, spec.QRKey).Scan(
		&ticket.ID,
		&ticket.AccountID,
		&ticket.EventID,
		&ticket.PricePaid,
		&ticket.Token,
		&ticket.QRKey,
		&ticket.Status,
		&ticket.PurchasedAt,
		&ticket.RedeemedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	return ticket, nil
}

// GetByToken retrieves a ticket by its redemption token
func (r *TicketRepository) GetByToken(token string) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	err := r.db.QueryRow(`
		SELECT id, account_id, event_id, price_paid, token, qr_key, status, purchased_at, redeemed_at
		FROM tickets
		WHERE token = $1`,
		token).Scan(
		&ticket.ID,
		&ticket.AccountID,
		&ticket.EventID,
		&ticket.PricePaid,
		&ticket.Token,
		&ticket.QRKey,
		&ticket.Status,
		&ticket.PurchasedAt,
		&ticket.RedeemedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return ticket, nil
}

// ListByAccount retrieves all tickets owned by an account
func (r *TicketRepository) ListByAccount(accountID int64) ([]*models.Ticket, error) {
	rows, err := r.db.Query(`
		SELECT id, account_id, event_id, price_paid, token, qr_key, status, purchased_at, redeemed_at
		FROM tickets
		WHERE account_id = $1
		ORDER BY id ASC`,
		accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		ticket := &models.Ticket{}
		err := rows.Scan(
			&ticket.ID,
			&ticket.AccountID,
			&ticket.EventID,
			&ticket.PricePaid,
			&ticket.Token,
			&ticket.QRKey,
			&ticket.Status,
			&ticket.PurchasedAt,
			&ticket.RedeemedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}

	return tickets, nil
}

// Redeem marks a valid ticket as used. Returns true only for the call
// that performed the transition; a used or unknown token returns false.
func (r *TicketRepository) Redeem(token string) (bool, error) {
	result, err := r.db.Exec(`
		UPDATE tickets
		SET status = 'used', redeemed_at = $2
		WHERE token = $1 AND status = 'valid'`,
		token, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to redeem ticket: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check redeem result: %w", err)
	}

	return rows == 1, nil
}

// PurgeByAccount deletes all tickets owned by an account and returns the
// list of removed artifact keys
func (r *TicketRepository) PurgeByAccount(accountID int64) ([]string, error) {
	rows, err := r.db.Query(`
		DELETE FROM tickets
		WHERE account_id = $1
		RETURNING qr_key`,
		accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to purge tickets: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan purged ticket: %w", err)
		}
		keys = append(keys, key)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purged tickets: %w", err)
	}

	return keys, nil
}
