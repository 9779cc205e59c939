package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferStatus represents the status of a transfer.
type TransferStatus string

const (
	TransferStatusPending          TransferStatus = "PENDING"
	TransferStatusAwaitingApproval TransferStatus = "AWAITING_APPROVAL"
	TransferStatusApproved         TransferStatus = "APPROVED"
	TransferStatusCompleted        TransferStatus = "COMPLETED"
	TransferStatusFailed           TransferStatus = "FAILED"
	TransferStatusRejected         TransferStatus = "REJECTED"
)

// Transfer represents a requested movement of funds between two accounts.
type Transfer struct {
	ID                   string          `json:"id"`
	SourceAccountID      string          `json:"source_account_id"`
	DestinationAccountID string          `json:"destination_account_id"`
	Amount               decimal.Decimal `json:"amount"`
	Status               TransferStatus  `json:"status"`
	InitiatedBy          string          `json:"initiated_by"`
	ApprovedBy           *string         `json:"approved_by,omitempty"`
	ApprovedAt           *time.Time      `json:"approved_at,omitempty"`
	RequiresApproval     bool            `json:"requires_approval"`
	Description          string          `json:"description,omitempty"`
	ErrorMessage         *string         `json:"error_message,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	CompletedAt          *time.Time      `json:"completed_at,omitempty"`
}

// NewTransfer creates a transfer in its initial state. Whether it requires
// approval is fixed here, against the given threshold, and never recomputed.
func NewTransfer(sourceID, destinationID string, amount decimal.Decimal, initiatedBy, description string, threshold decimal.Decimal) *Transfer {
	now := time.Now().UTC()
	t := &Transfer{
		ID:                   uuid.NewString(),
		SourceAccountID:      sourceID,
		DestinationAccountID: destinationID,
		Amount:               amount,
		Status:               TransferStatusPending,
		InitiatedBy:          initiatedBy,
		Description:          description,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if amount.GreaterThan(threshold) {
		t.RequiresApproval = true
		t.Status = TransferStatusAwaitingApproval
	}
	return t
}

// MarkApproved records the approver and moves the transfer to APPROVED.
func (t *Transfer) MarkApproved(approverID string) error {
	if t.Status != TransferStatusAwaitingApproval {
		return ErrNotAwaitingApproval
	}
	now := time.Now().UTC()
	t.Status = TransferStatusApproved
	t.ApprovedBy = &approverID
	t.ApprovedAt = &now
	t.UpdatedAt = now
	return nil
}

// MarkRejected records the approver and moves the transfer to the terminal
// REJECTED state. No execution is ever attempted afterwards.
func (t *Transfer) MarkRejected(approverID string) error {
	if t.Status != TransferStatusAwaitingApproval {
		return ErrNotAwaitingApproval
	}
	now := time.Now().UTC()
	t.Status = TransferStatusRejected
	t.ApprovedBy = &approverID
	t.ApprovedAt = &now
	t.UpdatedAt = now
	return nil
}

// MarkCompleted moves an executing transfer to COMPLETED.
func (t *Transfer) MarkCompleted() error {
	if t.Status != TransferStatusPending && t.Status != TransferStatusApproved {
		return ErrInvalidStatusChange
	}
	now := time.Now().UTC()
	t.Status = TransferStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	return nil
}

// MarkFailed records the execution failure message on the transfer.
func (t *Transfer) MarkFailed(message string) {
	now := time.Now().UTC()
	t.Status = TransferStatusFailed
	t.ErrorMessage = &message
	t.UpdatedAt = now
}

// Executable reports whether the transfer is eligible for the execution
// routine.
func (t *Transfer) Executable() bool {
	return t.Status == TransferStatusPending || t.Status == TransferStatusApproved
}

// TransferFilter represents filters for listing transfers.
type TransferFilter struct {
	AccountID   *string         `json:"account_id,omitempty"`
	InitiatedBy *string         `json:"initiated_by,omitempty"`
	Status      *TransferStatus `json:"status,omitempty"`
	From        *time.Time      `json:"from,omitempty"`
	To          *time.Time      `json:"to,omitempty"`
	Limit       int             `json:"limit"`
	Offset      int             `json:"offset"`
}
