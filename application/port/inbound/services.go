package inbound

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fundbridge/fundbridge/domain"
)

// InitiateTransferInput is the write contract for starting a transfer.
type InitiateTransferInput struct {
	SourceAccountID      string
	DestinationAccountID string
	Amount               decimal.Decimal
	ActorID              string
	Description          string
	Meta                 domain.RequestMeta
}

// DecideApprovalInput is the write contract for deciding a parked transfer.
type DecideApprovalInput struct {
	TransferID string
	ApproverID string
	Decision   domain.ApprovalStatus
	Notes      string
	Meta       domain.RequestMeta
}

// TransferDetails is a transfer joined with its approval record, if any.
type TransferDetails struct {
	Transfer *domain.Transfer `json:"transfer"`
	Approval *domain.Approval `json:"approval,omitempty"`
}

// TransferPage is one page of a transfer listing.
type TransferPage struct {
	Items []*domain.Transfer `json:"items"`
	Total int                `json:"total"`
}

// TransferService is the engine surface for creating and reading transfers.
type TransferService interface {
	Initiate(ctx context.Context, in InitiateTransferInput) (*domain.Transfer, error)
	GetTransferByID(ctx context.Context, id string) (*TransferDetails, error)
	ListTransfers(ctx context.Context, filter domain.TransferFilter) (*TransferPage, error)
}

// ApprovalService is the engine surface for the decision step.
type ApprovalService interface {
	Decide(ctx context.Context, in DecideApprovalInput) (*domain.Transfer, error)
	ListPendingApprovals(ctx context.Context, excludingActor string) ([]*domain.Transfer, error)
}

// AuditService exposes the audit trail to the presentation layer.
type AuditService interface {
	ListAuditTrail(ctx context.Context, transferID string) ([]*domain.AuditRecord, error)
}

// LoginRequest carries operator credentials.
type LoginRequest struct {
	Email    string
	Password string
	Meta     domain.RequestMeta
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresIn   int              `json:"expires_in"`
	Operator    *domain.Operator `json:"operator"`
}

// AuthService resolves operators into principals for the engine.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Me(ctx context.Context, operatorID string) (*domain.Operator, error)
}
