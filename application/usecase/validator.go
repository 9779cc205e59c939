package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fundbridge/fundbridge/application/port/outbound"
	"github.com/fundbridge/fundbridge/domain"
)

// BalanceValidator decides whether a debit is permissible for a source
// account: the account must be active, hold sufficient funds, and stay above
// its minimum-balance floor. Pure read against current persisted state; it
// is re-evaluated at execution time because the balance may have changed
// between initiation and approval.
type BalanceValidator struct {
	accounts outbound.AccountRepository
}

// NewBalanceValidator creates a balance validator.
func NewBalanceValidator(accounts outbound.AccountRepository) *BalanceValidator {
	return &BalanceValidator{accounts: accounts}
}

// Validate checks the debit against the account's current state.
func (v *BalanceValidator) Validate(ctx context.Context, accountID string, amount decimal.Decimal) error {
	account, err := v.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	return account.CanDebit(amount)
}

// TransferValidator produces the overall go/no-go decision for a proposed
// transfer. Checks run in a fixed order and short-circuit on the first
// failure: amount, same-account, source balance, destination existence.
type TransferValidator struct {
	accounts outbound.AccountRepository
	balance  *BalanceValidator
}

// NewTransferValidator creates a transfer validator.
func NewTransferValidator(accounts outbound.AccountRepository, balance *BalanceValidator) *TransferValidator {
	return &TransferValidator{accounts: accounts, balance: balance}
}

// Validate checks a proposed transfer. No side effects.
func (v *TransferValidator) Validate(ctx context.Context, sourceID, destinationID string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	if sourceID == destinationID {
		return domain.ErrSameAccount
	}
	if err := v.balance.Validate(ctx, sourceID, amount); err != nil {
		return err
	}
	destination, err := v.accounts.GetByID(ctx, destinationID)
	if err != nil {
		return err
	}
	if !destination.Active {
		return domain.ErrAccountNotFound
	}
	return nil
}
