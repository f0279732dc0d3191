package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"ticket-marketplace/internal/models"
)

// CartRepository handles cart data operations
type CartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

// GetOrCreateActive returns the account's active cart with its lines,
// creating an empty cart if none exists. The partial unique index on
// carts(account_id) makes concurrent creates converge on one row.
func (r *CartRepository) GetOrCreateActive(accountID int64) (*models.Cart, error) {
	_, err := r.db.Exec(`
		INSERT INTO carts (account_id, status)
		VALUES ($1, 'active')
		ON CONFLICT (account_id) WHERE status = 'active' DO NOTHING`,
		accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure active cart: %w", err)
	}

	cart := &models.Cart{}
	err = r.db.QueryRow(`
		SELECT id, account_id, status, created_at, updated_at
		FROM carts
		WHERE account_id = $1 AND status = 'active'`,
		accountID).Scan(
		&cart.ID,
		&cart.AccountID,
		&cart.Status,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get active cart: %w", err)
	}

	lines, err := r.getLines(cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Lines = lines

	return cart, nil
}

func (r *CartRepository) getLines(cartID int64) ([]models.CartLine, error) {
	rows, err := r.db.Query(`
		SELECT id, cart_id, event_id, quantity, unit_price, created_at
		FROM cart_lines
		WHERE cart_id = $1
		ORDER BY id ASC`,
		cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart lines: %w", err)
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

// AddLine appends a line to a cart with the captured unit price
func (r *CartRepository) AddLine(cartID, eventID int64, quantity, unitPrice int) (*models.CartLine, error) {
	line := &models.CartLine{}
	err := r.db.QueryRow(`
		INSERT INTO cart_lines (cart_id, event_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, cart_id, event_id, quantity, unit_price, created_at`,
		cartID, eventID, quantity, unitPrice).Scan(
		&line.ID,
		&line.CartID,
		&line.EventID,
		&line.Quantity,
		&line.UnitPrice,
		&line.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add cart line: %w", err)
	}

	if err := r.touch(cartID); err != nil {
		return nil, err
	}

	return line, nil
}

// GetLineOwner returns a cart line along with the ID of the account
// that owns the containing cart
func (r *CartRepository) GetLineOwner(lineID int64) (*models.CartLine, int64, error) {
	line := &models.CartLine{}
	var accountID int64

	err := r.db.QueryRow(`
		SELECT l.id, l.cart_id, l.event_id, l.quantity, l.unit_price, l.created_at, c.account_id
		FROM cart_lines l
		JOIN carts c ON c.id = l.cart_id
		WHERE l.id = $1 AND c.status = 'active'`,
		lineID).Scan(
		&line.ID,
		&line.CartID,
		&line.EventID,
		&line.Quantity,
		&line.UnitPrice,
		&line.CreatedAt,
		&accountID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, 0, models.ErrCartLineNotFound
		}
		return nil, 0, fmt.Errorf("failed to get cart line: %w", err)
	}

	return line, accountID, nil
}

// UpdateLineQuantity changes a line's quantity
func (r *CartRepository) UpdateLineQuantity(lineID int64, quantity int) error {
	result, err := r.db.Exec(`UPDATE cart_lines SET quantity = $2 WHERE id = $1`, lineID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update cart line: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return models.ErrCartLineNotFound
	}

	return nil
}

// RemoveLine deletes a single cart line
func (r *CartRepository) RemoveLine(lineID int64) error {
	result, err := r.db.Exec(`DELETE FROM cart_lines WHERE id = $1`, lineID)
	if err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check remove result: %w", err)
	}
	if rows == 0 {
		return models.ErrCartLineNotFound
	}

	return nil
}

// ClearLines removes every line from a cart
func (r *CartRepository) ClearLines(cartID int64) error {
	_, err := r.db.Exec(`DELETE FROM cart_lines WHERE cart_id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return r.touch(cartID)
}

// ComputeTotal sums quantity * unit_price over the account's active cart
func (r *CartRepository) ComputeTotal(accountID int64) (int64, error) {
	var total int64
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(l.quantity::bigint * l.unit_price), 0)
		FROM cart_lines l
		JOIN carts c ON c.id = l.cart_id
		WHERE c.account_id = $1 AND c.status = 'active'`,
		accountID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to compute cart total: %w", err)
	}

	return total, nil
}

func (r *CartRepository) touch(cartID int64) error {
	_, err := r.db.Exec(`UPDATE carts SET updated_at = $2 WHERE id = $1`, cartID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to touch cart: %w", err)
	}
	return nil
}
