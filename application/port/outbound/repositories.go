package outbound

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fundbridge/fundbridge/domain"
)

// TxManager runs a function inside one store-level transaction. The
// transaction handle travels in the context so repositories called from fn
// join it; a returned error rolls everything back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AccountRepository provides account reads and the balance mutation used by
// the execution routine. GetForUpdate must row-lock so concurrent debits of
// the same account serialize.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetForUpdate(ctx context.Context, id string) (*domain.Account, error)
	AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error
	Create(ctx context.Context, account *domain.Account) error
}

// TransferRepository persists transfers. GetByIDForUpdate row-locks the
// transfer so two concurrent decisions cannot both pass the status check.
type TransferRepository interface {
	Create(ctx context.Context, transfer *domain.Transfer) error
	Update(ctx context.Context, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Transfer, error)
	List(ctx context.Context, filter domain.TransferFilter) ([]*domain.Transfer, error)
	Count(ctx context.Context, filter domain.TransferFilter) (int, error)
	ListAwaitingApproval(ctx context.Context, excludingActor string) ([]*domain.Transfer, error)
}

// ApprovalRepository persists approval records.
type ApprovalRepository interface {
	Create(ctx context.Context, approval *domain.Approval) error
	Update(ctx context.Context, approval *domain.Approval) error
	GetByTransferID(ctx context.Context, transferID string) (*domain.Approval, error)
}

// AuditRepository appends audit records and reads them back per transfer.
// Records are never updated or deleted.
type AuditRepository interface {
	Append(ctx context.Context, record *domain.AuditRecord) error
	ListByTransferID(ctx context.Context, transferID string) ([]*domain.AuditRecord, error)
}

// OperatorRepository resolves operators for the auth boundary.
type OperatorRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Operator, error)
	GetByEmail(ctx context.Context, email string) (*domain.Operator, error)
}

// TokenService issues and validates access tokens for operators.
type TokenService interface {
	Issue(principal domain.Principal) (token string, expiresIn int, err error)
	Validate(token string) (*domain.Principal, error)
}

// PasswordService hashes and verifies operator passwords.
type PasswordService interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) error
}
