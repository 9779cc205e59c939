package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fundbridge/fundbridge/application/port/outbound"
	"github.com/fundbridge/fundbridge/domain"
)

// AccountRepository implements account storage on PostgreSQL.
type AccountRepository struct{ db *sql.DB }

func NewAccountRepository(db *sql.DB) outbound.AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, account_number, name, balance, minimum_balance, active, created_at, updated_at`

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(conn(ctx, r.db).QueryRowContext(ctx, query, id))
}

// GetForUpdate row-locks the account for the rest of the ambient
// transaction. Concurrent debits of the same account serialize here.
func (r *AccountRepository) GetForUpdate(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	return r.scanAccount(conn(ctx, r.db).QueryRowContext(ctx, query, id))
}

// AdjustBalance applies a signed delta to the balance. The accounts table
// carries a CHECK (balance >= 0) constraint as the storage-level backstop.
func (r *AccountRepository) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	query := `UPDATE accounts SET balance = balance + $1, updated_at = NOW() WHERE id = $2`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, delta, id)
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
        INSERT INTO accounts (id, account_number, name, balance, minimum_balance, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		account.ID,
		account.AccountNumber,
		account.Name,
		account.Balance,
		account.MinimumBalance,
		account.Active,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) scanAccount(row *sql.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.ID,
		&account.AccountNumber,
		&account.Name,
		&account.Balance,
		&account.MinimumBalance,
		&account.Active,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return &account, nil
}
