package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fundbridge/fundbridge/application/port/inbound"
	"github.com/fundbridge/fundbridge/application/port/outbound"
	"github.com/fundbridge/fundbridge/domain"
	"github.com/fundbridge/fundbridge/infrastructure/service/logger"
)

// DefaultApprovalThreshold is the amount above which a transfer requires a
// second-party decision before execution.
var DefaultApprovalThreshold = decimal.NewFromInt(1_000_000)

// TransferEngine orchestrates transfer creation: it validates the proposed
// movement, classifies it as auto-executing or approval-required, persists
// the records and either executes inline or parks the transfer for review.
type TransferEngine struct {
	transfers outbound.TransferRepository
	accounts  outbound.AccountRepository
	approvals outbound.ApprovalRepository
	validator *TransferValidator
	auditor   *AuditRecorder
	tx        outbound.TxManager
	logger    logger.Logger
	threshold decimal.Decimal
}

// NewTransferEngine creates a transfer engine.
func NewTransferEngine(
	transfers outbound.TransferRepository,
	accounts outbound.AccountRepository,
	approvals outbound.ApprovalRepository,
	validator *TransferValidator,
	auditor *AuditRecorder,
	tx outbound.TxManager,
	log logger.Logger,
	threshold decimal.Decimal,
) *TransferEngine {
	return &TransferEngine{
		transfers: transfers,
		accounts:  accounts,
		approvals: approvals,
		validator: validator,
		auditor:   auditor,
		tx:        tx,
		logger:    log,
		threshold: threshold,
	}
}

// Initiate validates and creates a transfer. Validation, inserts and (for
// the auto-executing path) execution run inside one store transaction, so a
// validation failure persists nothing: an invalid transfer does not exist
// rather than existing as FAILED.
func (e *TransferEngine) Initiate(ctx context.Context, in inbound.InitiateTransferInput) (*domain.Transfer, error) {
	var transfer *domain.Transfer

	err := e.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := e.validator.Validate(ctx, in.SourceAccountID, in.DestinationAccountID, in.Amount); err != nil {
			return err
		}

		transfer = domain.NewTransfer(in.SourceAccountID, in.DestinationAccountID, in.Amount, in.ActorID, in.Description, e.threshold)
		if err := e.transfers.Create(ctx, transfer); err != nil {
			return fmt.Errorf("failed to create transfer: %w", err)
		}

		if err := e.auditor.Record(ctx, AuditEntry{
			Action:     domain.AuditTransferInitiated,
			ActorID:    in.ActorID,
			TransferID: transfer.ID,
			AccountID:  transfer.SourceAccountID,
			Detail: domain.AuditDetail{
				"amount":                 transfer.Amount.String(),
				"destination_account_id": transfer.DestinationAccountID,
				"requires_approval":      transfer.RequiresApproval,
			},
			Meta: in.Meta,
		}); err != nil {
			return err
		}
		if err := e.auditor.Record(ctx, AuditEntry{
			Action:     domain.AuditTransferValidated,
			ActorID:    in.ActorID,
			TransferID: transfer.ID,
			Meta:       in.Meta,
		}); err != nil {
			return err
		}

		if transfer.RequiresApproval {
			approval := domain.NewApproval(transfer.ID)
			if err := e.approvals.Create(ctx, approval); err != nil {
				return fmt.Errorf("failed to create approval: %w", err)
			}
			return e.auditor.Record(ctx, AuditEntry{
				Action:     domain.AuditTransferAwaitingApproval,
				ActorID:    in.ActorID,
				TransferID: transfer.ID,
				Detail: domain.AuditDetail{
					"threshold": e.threshold.String(),
					"amount":    transfer.Amount.String(),
				},
				Meta: in.Meta,
			})
		}

		return e.Execute(ctx, transfer, in.ActorID, in.Meta)
	})

	if err != nil {
		var execErr *domain.ExecutionError
		if errors.As(err, &execErr) && transfer != nil {
			e.RecordFailure(ctx, transfer, execErr, in.ActorID, in.Meta)
		}
		return nil, err
	}

	e.logger.Info(ctx, "Transfer initiated", map[string]interface{}{
		"transfer_id":       transfer.ID,
		"status":            string(transfer.Status),
		"requires_approval": transfer.RequiresApproval,
	})
	return transfer, nil
}

// Execute is the atomic balance-mutation step shared with the approval
// processor: debit source, credit destination, mark the transfer COMPLETED.
// It must run inside an ambient transaction and assumes the caller already
// confirmed eligibility. The balance check is re-evaluated here, on the
// row-locked source account, because the balance may have changed since
// initiation. Any failure comes back as *domain.ExecutionError so the
// enclosing transaction rolls back.
func (e *TransferEngine) Execute(ctx context.Context, transfer *domain.Transfer, actorID string, meta domain.RequestMeta) error {
	if !transfer.Executable() {
		return domain.NewExecutionError(transfer.ID, domain.ErrInvalidStatusChange)
	}

	source, err := e.accounts.GetForUpdate(ctx, transfer.SourceAccountID)
	if err != nil {
		return domain.NewExecutionError(transfer.ID, err)
	}
	if err := source.CanDebit(transfer.Amount); err != nil {
		return domain.NewExecutionError(transfer.ID, err)
	}
	if _, err := e.accounts.GetForUpdate(ctx, transfer.DestinationAccountID); err != nil {
		return domain.NewExecutionError(transfer.ID, err)
	}

	if err := e.accounts.AdjustBalance(ctx, transfer.SourceAccountID, transfer.Amount.Neg()); err != nil {
		return domain.NewExecutionError(transfer.ID, err)
	}
	if err := e.accounts.AdjustBalance(ctx, transfer.DestinationAccountID, transfer.Amount); err != nil {
		return domain.NewExecutionError(transfer.ID, err)
	}

	if err := transfer.MarkCompleted(); err != nil {
		return domain.NewExecutionError(transfer.ID, err)
	}
	if err := e.transfers.Update(ctx, transfer); err != nil {
		return domain.NewExecutionError(transfer.ID, err)
	}

	return e.auditor.Record(ctx, AuditEntry{
		Action:     domain.AuditTransferCompleted,
		ActorID:    actorID,
		TransferID: transfer.ID,
		AccountID:  transfer.SourceAccountID,
		Detail: domain.AuditDetail{
			"amount":                 transfer.Amount.String(),
			"destination_account_id": transfer.DestinationAccountID,
		},
		Meta: meta,
	})
}

// RecordFailure persists the FAILED status and its audit record in a fresh
// transaction, after the execution transaction rolled back. The money
// movement is fully undone; the failure itself stays visible. Create is
// used when the rollback also discarded the transfer row (the inline
// execution path of Initiate).
func (e *TransferEngine) RecordFailure(ctx context.Context, transfer *domain.Transfer, execErr *domain.ExecutionError, actorID string, meta domain.RequestMeta) {
	transfer.MarkFailed(execErr.Cause.Error())

	err := e.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := e.transfers.GetByID(ctx, transfer.ID)
		switch {
		case errors.Is(err, domain.ErrTransferNotFound):
			if err := e.transfers.Create(ctx, transfer); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			existing.MarkFailed(execErr.Cause.Error())
			if err := e.transfers.Update(ctx, existing); err != nil {
				return err
			}
		}
		return e.auditor.Record(ctx, AuditEntry{
			Action:     domain.AuditTransferFailed,
			ActorID:    actorID,
			TransferID: transfer.ID,
			Detail: domain.AuditDetail{
				"error": execErr.Cause.Error(),
			},
			Meta: meta,
		})
	})
	if err != nil {
		e.logger.Error(ctx, "Failed to record transfer failure", err, map[string]interface{}{
			"transfer_id": transfer.ID,
		})
	}
}

// GetTransferByID returns a transfer joined with its approval record.
func (e *TransferEngine) GetTransferByID(ctx context.Context, id string) (*inbound.TransferDetails, error) {
	transfer, err := e.transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details := &inbound.TransferDetails{Transfer: transfer}
	if transfer.RequiresApproval {
		approval, err := e.approvals.GetByTransferID(ctx, id)
		if err != nil && !errors.Is(err, domain.ErrApprovalNotFound) {
			return nil, err
		}
		details.Approval = approval
	}
	return details, nil
}

// ListTransfers returns one page of transfers plus the total match count.
func (e *TransferEngine) ListTransfers(ctx context.Context, filter domain.TransferFilter) (*inbound.TransferPage, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	items, err := e.transfers.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	total, err := e.transfers.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count transfers: %w", err)
	}
	return &inbound.TransferPage{Items: items, Total: total}, nil
}
