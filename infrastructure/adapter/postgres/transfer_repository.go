package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fundbridge/fundbridge/application/port/outbound"
	"github.com/fundbridge/fundbridge/domain"
)

// TransferRepository implements transfer storage on PostgreSQL.
type TransferRepository struct{ db *sql.DB }

func NewTransferRepository(db *sql.DB) outbound.TransferRepository {
	return &TransferRepository{db: db}
}

const transferColumns = `id, source_account_id, destination_account_id, amount, status, initiated_by,
        approved_by, approved_at, requires_approval, description, error_message,
        created_at, updated_at, completed_at`

func (r *TransferRepository) Create(ctx context.Context, transfer *domain.Transfer) error {
	query := `
        INSERT INTO transfers (id, source_account_id, destination_account_id, amount, status, initiated_by,
            approved_by, approved_at, requires_approval, description, error_message,
            created_at, updated_at, completed_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
    `
	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		transfer.ID,
		transfer.SourceAccountID,
		transfer.DestinationAccountID,
		transfer.Amount,
		string(transfer.Status),
		transfer.InitiatedBy,
		transfer.ApprovedBy,
		transfer.ApprovedAt,
		transfer.RequiresApproval,
		nullIfEmpty(transfer.Description),
		transfer.ErrorMessage,
		transfer.CreatedAt,
		transfer.UpdatedAt,
		transfer.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}
	return nil
}

func (r *TransferRepository) Update(ctx context.Context, transfer *domain.Transfer) error {
	query := `
        UPDATE transfers
        SET status = $2, approved_by = $3, approved_at = $4, error_message = $5,
            updated_at = $6, completed_at = $7
        WHERE id = $1
    `
	result, err := conn(ctx, r.db).ExecContext(ctx, query,
		transfer.ID,
		string(transfer.Status),
		transfer.ApprovedBy,
		transfer.ApprovedAt,
		transfer.ErrorMessage,
		transfer.UpdatedAt,
		transfer.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update transfer: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrTransferNotFound
	}
	return nil
}

func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	return r.scanTransfer(conn(ctx, r.db).QueryRowContext(ctx, query, id))
}

// GetByIDForUpdate row-locks the transfer so concurrent decisions on the
// same transfer serialize.
func (r *TransferRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1 FOR UPDATE`
	return r.scanTransfer(conn(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *TransferRepository) List(ctx context.Context, filter domain.TransferFilter) ([]*domain.Transfer, error) {
	where, args := buildTransferWhere(filter)
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE 1=1` + where + ` ORDER BY created_at DESC`

	argIndex := len(args) + 1
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers: %w", err)
	}
	defer rows.Close()
	return r.collectTransfers(rows)
}

func (r *TransferRepository) Count(ctx context.Context, filter domain.TransferFilter) (int, error) {
	where, args := buildTransferWhere(filter)
	query := `SELECT COUNT(*) FROM transfers WHERE 1=1` + where

	var count int
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transfers: %w", err)
	}
	return count, nil
}

func (r *TransferRepository) ListAwaitingApproval(ctx context.Context, excludingActor string) ([]*domain.Transfer, error) {
	query := `SELECT ` + transferColumns + `
        FROM transfers
        WHERE status = $1 AND initiated_by <> $2
        ORDER BY created_at ASC`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, string(domain.TransferStatusAwaitingApproval), excludingActor)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending approvals: %w", err)
	}
	defer rows.Close()
	return r.collectTransfers(rows)
}

func buildTransferWhere(filter domain.TransferFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	idx := 1
	if filter.AccountID != nil {
		conditions = append(conditions, fmt.Sprintf("(source_account_id = $%d OR destination_account_id = $%d)", idx, idx))
		args = append(args, *filter.AccountID)
		idx++
	}
	if filter.InitiatedBy != nil {
		conditions = append(conditions, fmt.Sprintf("initiated_by = $%d", idx))
		args = append(args, *filter.InitiatedBy)
		idx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", idx))
		args = append(args, string(*filter.Status))
		idx++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", idx))
		args = append(args, *filter.From)
		idx++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", idx))
		args = append(args, *filter.To)
		idx++
	}
	where := ""
	if len(conditions) > 0 {
		where = " AND " + strings.Join(conditions, " AND ")
	}
	return where, args
}

func (r *TransferRepository) collectTransfers(rows *sql.Rows) ([]*domain.Transfer, error) {
	var transfers []*domain.Transfer
	for rows.Next() {
		transfer, err := scanTransferRow(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, transfer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transfers: %w", err)
	}
	return transfers, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *TransferRepository) scanTransfer(row *sql.Row) (*domain.Transfer, error) {
	transfer, err := scanTransferRow(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrTransferNotFound
	}
	return transfer, err
}

func scanTransferRow(row rowScanner) (*domain.Transfer, error) {
	var transfer domain.Transfer
	var description sql.NullString
	err := row.Scan(
		&transfer.ID,
		&transfer.SourceAccountID,
		&transfer.DestinationAccountID,
		&transfer.Amount,
		&transfer.Status,
		&transfer.InitiatedBy,
		&transfer.ApprovedBy,
		&transfer.ApprovedAt,
		&transfer.RequiresApproval,
		&description,
		&transfer.ErrorMessage,
		&transfer.CreatedAt,
		&transfer.UpdatedAt,
		&transfer.CompletedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan transfer: %w", err)
	}
	if description.Valid {
		transfer.Description = description.String
	}
	return &transfer, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
