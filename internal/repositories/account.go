package repositories

import (
	"database/sql"
	"fmt"

	"ticket-marketplace/internal/models"
)

// AccountRepository handles account data operations
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(id int64) (*models.Account, error) {
	query := `
		SELECT id, name, email, balance, created_at
		FROM accounts
		WHERE id = $1`

	account := &models.Account{}
	err := r.db.QueryRow(query, id).Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.Balance,
		&account.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}

// Create creates a new account with the given starting balance
func (r *AccountRepository) Create(name, email string, balance int64) (*models.Account, error) {
	query := `
		INSERT INTO accounts (name, email, balance)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, balance, created_at`

	account := &models.Account{}
	err := r.db.QueryRow(query, name, email, balance).Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.Balance,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// Credit adds funds to an account balance
func (r *AccountRepository) Credit(id int64, amount int64) error {
	result, err := r.db.Exec(`UPDATE accounts SET balance = balance + $2 WHERE id = $1`, id, amount)
	if err != nil {
		return fmt.Errorf("failed to credit account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check credit result: %w", err)
	}
	if rows == 0 {
		return models.ErrAccountNotFound
	}

	return nil
}
