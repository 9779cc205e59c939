package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fundbridge/fundbridge/application/port/outbound"
	"github.com/fundbridge/fundbridge/domain"
)

// ApprovalRepository implements approval storage on PostgreSQL.
type ApprovalRepository struct{ db *sql.DB }

func NewApprovalRepository(db *sql.DB) outbound.ApprovalRepository {
	return &ApprovalRepository{db: db}
}

func (r *ApprovalRepository) Create(ctx context.Context, approval *domain.Approval) error {
	query := `
        INSERT INTO approvals (id, transfer_id, assigned_to, status, decided_by, notes, decided_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		approval.ID,
		approval.TransferID,
		approval.AssignedTo,
		string(approval.Status),
		approval.DecidedBy,
		nullIfEmpty(approval.Notes),
		approval.DecidedAt,
		approval.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create approval: %w", err)
	}
	return nil
}

func (r *ApprovalRepository) Update(ctx context.Context, approval *domain.Approval) error {
	query := `
        UPDATE approvals
        SET status = $2, decided_by = $3, notes = $4, decided_at = $5
        WHERE id = $1
    `
	result, err := conn(ctx, r.db).ExecContext(ctx, query,
		approval.ID,
		string(approval.Status),
		approval.DecidedBy,
		nullIfEmpty(approval.Notes),
		approval.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update approval: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrApprovalNotFound
	}
	return nil
}

func (r *ApprovalRepository) GetByTransferID(ctx context.Context, transferID string) (*domain.Approval, error) {
	query := `
        SELECT id, transfer_id, assigned_to, status, decided_by, notes, decided_at, created_at
        FROM approvals
        WHERE transfer_id = $1
    `
	var approval domain.Approval
	var notes sql.NullString
	err := conn(ctx, r.db).QueryRowContext(ctx, query, transferID).Scan(
		&approval.ID,
		&approval.TransferID,
		&approval.AssignedTo,
		&approval.Status,
		&approval.DecidedBy,
		&notes,
		&approval.DecidedAt,
		&approval.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrApprovalNotFound
		}
		return nil, fmt.Errorf("failed to find approval: %w", err)
	}
	if notes.Valid {
		approval.Notes = notes.String
	}
	return &approval, nil
}
