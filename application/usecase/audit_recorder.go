package usecase

import (
	"context"
	"fmt"

	"github.com/fundbridge/fundbridge/application/port/outbound"
	"github.com/fundbridge/fundbridge/domain"
	"github.com/fundbridge/fundbridge/infrastructure/service/logger"
)

// AuditEntry describes one audit record to append. Actor, transfer and
// account links are optional; empty strings are stored as NULL.
type AuditEntry struct {
	Action     domain.AuditAction
	ActorID    string
	TransferID string
	AccountID  string
	Detail     domain.AuditDetail
	Meta       domain.RequestMeta
}

// AuditRecorder appends immutable audit records. It never raises a
// business-logic error; only storage failures propagate. When the context
// carries an ambient transaction the record commits or rolls back with it.
type AuditRecorder struct {
	audits outbound.AuditRepository
	logger logger.Logger
}

// NewAuditRecorder creates an audit recorder.
func NewAuditRecorder(audits outbound.AuditRepository, log logger.Logger) *AuditRecorder {
	return &AuditRecorder{audits: audits, logger: log}
}

// Record appends one audit record.
func (r *AuditRecorder) Record(ctx context.Context, entry AuditEntry) error {
	record := domain.NewAuditRecord(entry.Action)
	if entry.ActorID != "" {
		record.ActorID = &entry.ActorID
	}
	if entry.TransferID != "" {
		record.TransferID = &entry.TransferID
	}
	if entry.AccountID != "" {
		record.AccountID = &entry.AccountID
	}
	if entry.Detail != nil {
		record.Detail = entry.Detail
	}
	if entry.Meta.IPAddress != "" {
		record.IPAddress = &entry.Meta.IPAddress
	}
	if entry.Meta.UserAgent != "" {
		record.UserAgent = &entry.Meta.UserAgent
	}

	if err := r.audits.Append(ctx, record); err != nil {
		r.logger.Error(ctx, "Failed to append audit record", err, map[string]interface{}{
			"action":      string(entry.Action),
			"transfer_id": entry.TransferID,
		})
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

// ListAuditTrail returns the audit records linked to a transfer, oldest
// first.
func (r *AuditRecorder) ListAuditTrail(ctx context.Context, transferID string) ([]*domain.AuditRecord, error) {
	if transferID == "" {
		return nil, domain.ErrTransferNotFound
	}
	records, err := r.audits.ListByTransferID(ctx, transferID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit trail: %w", err)
	}
	return records, nil
}
