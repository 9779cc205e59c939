package usecase

import (
	"context"

	"github.com/fundbridge/fundbridge/application/port/inbound"
	"github.com/fundbridge/fundbridge/application/port/outbound"
	"github.com/fundbridge/fundbridge/domain"
	"github.com/fundbridge/fundbridge/infrastructure/service/logger"
)

// AuthUseCase resolves operator credentials into principals. The engine
// never authenticates; this is the boundary that does.
type AuthUseCase struct {
	operators outbound.OperatorRepository
	tokens    outbound.TokenService
	passwords outbound.PasswordService
	auditor   *AuditRecorder
	logger    logger.Logger
}

// NewAuthUseCase creates an auth use case.
func NewAuthUseCase(
	operators outbound.OperatorRepository,
	tokens outbound.TokenService,
	passwords outbound.PasswordService,
	auditor *AuditRecorder,
	log logger.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		operators: operators,
		tokens:    tokens,
		passwords: passwords,
		auditor:   auditor,
		logger:    log,
	}
}

// Login verifies credentials and issues an access token.
func (uc *AuthUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.LoginResponse, error) {
	operator, err := uc.operators.GetByEmail(ctx, req.Email)
	if err != nil {
		uc.logger.Warn(ctx, "Login attempt for unknown operator", map[string]interface{}{
			"email": req.Email,
			"ip":    req.Meta.IPAddress,
		})
		return nil, domain.ErrInvalidCredentials
	}
	if !operator.Active {
		return nil, domain.ErrInvalidCredentials
	}
	if err := uc.passwords.Verify(operator.PasswordHash, req.Password); err != nil {
		uc.logger.Warn(ctx, "Login attempt with wrong password", map[string]interface{}{
			"operator_id": operator.ID,
			"ip":          req.Meta.IPAddress,
		})
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresIn, err := uc.tokens.Issue(operator.Principal())
	if err != nil {
		return nil, err
	}

	_ = uc.auditor.Record(ctx, AuditEntry{
		Action:  domain.AuditOperatorLogin,
		ActorID: operator.ID,
		Detail: domain.AuditDetail{
			"role": string(operator.Role),
		},
		Meta: req.Meta,
	})

	return &inbound.LoginResponse{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		Operator:    operator,
	}, nil
}

// Me returns the operator behind an authenticated principal.
func (uc *AuthUseCase) Me(ctx context.Context, operatorID string) (*domain.Operator, error) {
	return uc.operators.GetByID(ctx, operatorID)
}
