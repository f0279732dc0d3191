package models

import "time"

// Account represents a buyer account with a spendable balance
type Account struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Balance   int64     `json:"balance" db:"balance"` // Balance in cents
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CanAfford returns true if the balance covers the given amount
func (a *Account) CanAfford(amount int64) bool {
	return a.Balance >= amount
}

// BalanceInCurrency returns the balance in the main currency as a float
func (a *Account) BalanceInCurrency() float64 {
	return float64(a.Balance) / 100.0
}
