package domain

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus represents the status of an approval.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
)

// Approval is the one-to-one review record for a transfer whose amount
// exceeds the approval threshold. It is created alongside the transfer and
// updated exactly once, when a decision is rendered.
type Approval struct {
	ID         string         `json:"id"`
	TransferID string         `json:"transfer_id"`
	AssignedTo *string        `json:"assigned_to,omitempty"`
	Status     ApprovalStatus `json:"status"`
	DecidedBy  *string        `json:"decided_by,omitempty"`
	Notes      string         `json:"notes,omitempty"`
	DecidedAt  *time.Time     `json:"decided_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// NewApproval creates a pending approval for the given transfer.
func NewApproval(transferID string) *Approval {
	return &Approval{
		ID:         uuid.NewString(),
		TransferID: transferID,
		Status:     ApprovalStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
}

// Decide applies a reviewer decision. A decision can be rendered only once.
func (a *Approval) Decide(status ApprovalStatus, deciderID, notes string) error {
	if a.Status != ApprovalStatusPending {
		return ErrNotAwaitingApproval
	}
	if status != ApprovalStatusApproved && status != ApprovalStatusRejected {
		return ErrInvalidDecision
	}
	now := time.Now().UTC()
	a.Status = status
	a.DecidedBy = &deciderID
	a.Notes = notes
	a.DecidedAt = &now
	return nil
}
