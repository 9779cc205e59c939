package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a named treasury account. Balance is a fixed-point
// decimal and is mutated only by the execution routine, inside a store
// transaction.
type Account struct {
	ID             string          `json:"id"`
	AccountNumber  string          `json:"account_number"`
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
	MinimumBalance decimal.Decimal `json:"minimum_balance"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CanDebit checks whether debiting amount keeps the account within its
// balance invariant: balance stays non-negative and above the minimum floor.
func (a *Account) CanDebit(amount decimal.Decimal) error {
	if !a.Active {
		return ErrAccountNotFound
	}
	remaining := a.Balance.Sub(amount)
	if remaining.IsNegative() {
		return ErrInsufficientFunds
	}
	if remaining.LessThan(a.MinimumBalance) {
		return ErrMinimumBalanceViolation
	}
	return nil
}
