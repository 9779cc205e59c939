package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction tags an audit record with the state transition it documents.
type AuditAction string

const (
	AuditTransferInitiated        AuditAction = "TRANSFER_INITIATED"
	AuditTransferValidated        AuditAction = "TRANSFER_VALIDATED"
	AuditTransferAwaitingApproval AuditAction = "TRANSFER_AWAITING_APPROVAL"
	AuditTransferApproved         AuditAction = "TRANSFER_APPROVED"
	AuditTransferRejected         AuditAction = "TRANSFER_REJECTED"
	AuditTransferCompleted        AuditAction = "TRANSFER_COMPLETED"
	AuditTransferFailed           AuditAction = "TRANSFER_FAILED"
	AuditOperatorLogin            AuditAction = "OPERATOR_LOGIN"
)

// AuditDetail is the structured detail payload of an audit record. Values
// are plain JSON scalars, arrays or objects so records stay verifiable.
type AuditDetail map[string]interface{}

// RequestMeta carries the origin of the request that triggered an action.
type RequestMeta struct {
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// AuditRecord is an append-only log entry describing one state transition.
// Once written it is never updated or deleted.
type AuditRecord struct {
	ID         string      `json:"id"`
	Action     AuditAction `json:"action"`
	ActorID    *string     `json:"actor_id,omitempty"`
	TransferID *string     `json:"transfer_id,omitempty"`
	AccountID  *string     `json:"account_id,omitempty"`
	Detail     AuditDetail `json:"detail,omitempty"`
	IPAddress  *string     `json:"ip_address,omitempty"`
	UserAgent  *string     `json:"user_agent,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// NewAuditRecord creates an audit record for the given action.
func NewAuditRecord(action AuditAction) *AuditRecord {
	return &AuditRecord{
		ID:        uuid.NewString(),
		Action:    action,
		Detail:    AuditDetail{},
		CreatedAt: time.Now().UTC(),
	}
}
