package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ticket-marketplace/internal/models"
)

// CheckoutRepository executes the checkout transaction
type CheckoutRepository struct {
	db *sql.DB
}

// NewCheckoutRepository creates a new checkout repository
func NewCheckoutRepository(db *sql.DB) *CheckoutRepository {
	return &CheckoutRepository{db: db}
}

// IssueFunc produces the token and artifact key for one ticket. It must
// not touch the database; it is called inside the checkout transaction.
type IssueFunc func(line models.CartLine, unit int) models.TicketSpec

// ExecuteCheckout charges the account for its active cart and creates one
// ticket per unit, all in a single transaction. The account row is locked
// first so concurrent checkouts for the same account serialize. Returns
// receipts in cart line order.
func (r *CheckoutRepository) ExecuteCheckout(ctx context.Context, accountID int64, issue IssueFunc) ([]models.TicketReceipt, int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var balance int64
	err = tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE id = $1 FOR UPDATE`, accountID).Scan(&balance)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, 0, models.ErrAccountNotFound
		}
		return nil, 0, fmt.Errorf("failed to lock account: %w", err)
	}

	var cartID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM carts
		WHERE account_id = $1 AND status = 'active'
		FOR UPDATE`,
		accountID).Scan(&cartID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, 0, models.ErrEmptyCart
		}
		return nil, 0, fmt.Errorf("failed to lock cart: %w", err)
	}

	lines, err := r.linesForUpdate(ctx, tx, cartID)
	if err != nil {
		return nil, 0, err
	}
	if len(lines) == 0 {
		return nil, 0, models.ErrEmptyCart
	}

	// Total comes from the captured unit prices, not current event prices.
	var total int64
	for _, line := range lines {
		total += line.Subtotal()
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE accounts SET balance = balance - $2
		WHERE id = $1 AND balance >= $2`,
		accountID, total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to debit account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to check debit result: %w", err)
	}
	if rows == 0 {
		return nil, 0, models.ErrInsufficientFunds
	}

	var receipts []models.TicketReceipt
	for _, line := range lines {
		for unit := 0; unit < line.Quantity; unit++ {
			spec := issue(line, unit)

			var ticketID int64
			err = tx.QueryRowContext(ctx, `
				INSERT INTO tickets (account_id, event_id, price_paid, token, qr_key, status)
				VALUES ($1, $2, $3, $4, $5, 'valid')
				RETURNING id`,
				accountID, line.EventID, line.UnitPrice, spec.Token, spec.QRKey).Scan(&ticketID)
			if err != nil {
				return nil, 0, fmt.Errorf("failed to create ticket: %w", err)
			}

			receipts = append(receipts, models.TicketReceipt{
				TicketID:  ticketID,
				EventID:   line.EventID,
				PricePaid: line.UnitPrice,
				Token:     spec.Token,
				QRKey:     spec.QRKey,
			})
		}
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to empty cart: %w", err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE carts SET updated_at = $2 WHERE id = $1`, cartID, time.Now())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to touch cart: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit checkout: %w", err)
	}

	return receipts, total, nil
}

func (r *CheckoutRepository) linesForUpdate(ctx context.Context, tx *sql.Tx, cartID int64) ([]models.CartLine, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, cart_id, event_id, quantity, unit_price, created_at
		FROM cart_lines
		WHERE cart_id = $1
		ORDER BY id ASC
		FOR UPDATE`,
		cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock cart lines: %w", err)
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		var line models.CartLine
		err := rows.Scan(
			&line.ID,
			&line.CartID,
			&line.EventID,
			&line.Quantity,
			&line.UnitPrice,
			&line.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return lines, nil
}
