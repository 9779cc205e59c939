package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/fundbridge/fundbridge/application/port/inbound"
	"github.com/fundbridge/fundbridge/application/port/outbound"
	"github.com/fundbridge/fundbridge/domain"
	"github.com/fundbridge/fundbridge/infrastructure/service/logger"
)

// ApprovalProcessor orchestrates the decision step for a parked transfer:
// it re-validates state, applies the reviewer's decision and, on approval,
// runs the same execution routine the engine uses for auto-executing
// transfers.
type ApprovalProcessor struct {
	transfers outbound.TransferRepository
	approvals outbound.ApprovalRepository
	engine    *TransferEngine
	auditor   *AuditRecorder
	tx        outbound.TxManager
	logger    logger.Logger
}

// NewApprovalProcessor creates an approval processor.
func NewApprovalProcessor(
	transfers outbound.TransferRepository,
	approvals outbound.ApprovalRepository,
	engine *TransferEngine,
	auditor *AuditRecorder,
	tx outbound.TxManager,
	log logger.Logger,
) *ApprovalProcessor {
	return &ApprovalProcessor{
		transfers: transfers,
		approvals: approvals,
		engine:    engine,
		auditor:   auditor,
		tx:        tx,
		logger:    log,
	}
}

// Decide applies an approve/reject decision to a parked transfer, in one
// store transaction. The transfer row is read under a row lock so two
// concurrent decisions serialize: the second observes the first's committed
// status change and fails the awaiting-approval check. A transfer is decided
// at most once.
func (p *ApprovalProcessor) Decide(ctx context.Context, in inbound.DecideApprovalInput) (*domain.Transfer, error) {
	if in.Decision != domain.ApprovalStatusApproved && in.Decision != domain.ApprovalStatusRejected {
		return nil, domain.ErrInvalidDecision
	}

	var transfer *domain.Transfer

	err := p.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		transfer, err = p.transfers.GetByIDForUpdate(ctx, in.TransferID)
		if err != nil {
			return err
		}
		if transfer.Status != domain.TransferStatusAwaitingApproval {
			return domain.ErrNotAwaitingApproval
		}
		if in.ApproverID == transfer.InitiatedBy {
			return domain.ErrSelfApprovalForbidden
		}

		approval, err := p.approvals.GetByTransferID(ctx, in.TransferID)
		if err != nil {
			return err
		}
		if err := approval.Decide(domain.ApprovalStatus(in.Decision), in.ApproverID, in.Notes); err != nil {
			return err
		}
		if err := p.approvals.Update(ctx, approval); err != nil {
			return fmt.Errorf("failed to update approval: %w", err)
		}

		if in.Decision == domain.ApprovalStatusApproved {
			if err := transfer.MarkApproved(in.ApproverID); err != nil {
				return err
			}
			if err := p.transfers.Update(ctx, transfer); err != nil {
				return fmt.Errorf("failed to update transfer: %w", err)
			}
			if err := p.auditor.Record(ctx, AuditEntry{
				Action:     domain.AuditTransferApproved,
				ActorID:    in.ApproverID,
				TransferID: transfer.ID,
				Detail: domain.AuditDetail{
					"notes":  in.Notes,
					"amount": transfer.Amount.String(),
				},
				Meta: in.Meta,
			}); err != nil {
				return err
			}
			return p.engine.Execute(ctx, transfer, in.ApproverID, in.Meta)
		}

		if err := transfer.MarkRejected(in.ApproverID); err != nil {
			return err
		}
		if err := p.transfers.Update(ctx, transfer); err != nil {
			return fmt.Errorf("failed to update transfer: %w", err)
		}
		return p.auditor.Record(ctx, AuditEntry{
			Action:     domain.AuditTransferRejected,
			ActorID:    in.ApproverID,
			TransferID: transfer.ID,
			Detail: domain.AuditDetail{
				"notes": in.Notes,
			},
			Meta: in.Meta,
		})
	})

	if err != nil {
		var execErr *domain.ExecutionError
		if errors.As(err, &execErr) && transfer != nil {
			p.engine.RecordFailure(ctx, transfer, execErr, in.ApproverID, in.Meta)
		}
		return nil, err
	}

	p.logger.Info(ctx, "Transfer decision applied", map[string]interface{}{
		"transfer_id": transfer.ID,
		"decision":    string(in.Decision),
		"status":      string(transfer.Status),
	})
	return transfer, nil
}

// ListPendingApprovals returns transfers awaiting a decision, excluding
// those the given actor initiated (separation of duties: an initiator never
// reviews their own request).
func (p *ApprovalProcessor) ListPendingApprovals(ctx context.Context, excludingActor string) ([]*domain.Transfer, error) {
	transfers, err := p.transfers.ListAwaitingApproval(ctx, excludingActor)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending approvals: %w", err)
	}
	return transfers, nil
}
