package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fundbridge/fundbridge/domain"
)

// ErrorCode represents a unique error code
type ErrorCode string

// Error codes for different categories
const (
	// Authentication Errors (1xxx)
	ErrCodeInvalidCredentials ErrorCode = "AUTH_1001"
	ErrCodeOperatorNotFound   ErrorCode = "AUTH_1002"
	ErrCodeInvalidToken       ErrorCode = "AUTH_1003"
	ErrCodeForbidden          ErrorCode = "AUTH_1004"

	// Validation Errors (2xxx) — detected before any persistence
	ErrCodeInvalidAmount     ErrorCode = "VALID_2001"
	ErrCodeSameAccount       ErrorCode = "VALID_2002"
	ErrCodeAccountNotFound   ErrorCode = "VALID_2003"
	ErrCodeInsufficientFunds ErrorCode = "VALID_2004"
	ErrCodeMinimumBalance    ErrorCode = "VALID_2005"
	ErrCodeInvalidRequest    ErrorCode = "VALID_2006"

	// Workflow Errors (3xxx) — detected inside the decision transaction
	ErrCodeTransferNotFound    ErrorCode = "FLOW_3001"
	ErrCodeNotAwaitingApproval ErrorCode = "FLOW_3002"
	ErrCodeSelfApproval        ErrorCode = "FLOW_3003"
	ErrCodeInvalidDecision     ErrorCode = "FLOW_3004"

	// Execution Errors (4xxx) — failures inside the debit/credit sequence
	ErrCodeExecutionFailed ErrorCode = "EXEC_4001"

	// Rate Limiting Errors (5xxx)
	ErrCodeRateLimitExceeded ErrorCode = "RATE_5001"

	// Server Errors (6xxx)
	ErrCodeDatabaseError       ErrorCode = "DB_6001"
	ErrCodeInternalServerError ErrorCode = "SERVER_6002"
)

// AppError represents a structured application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

var codeByEngineError = map[*domain.EngineError]ErrorCode{
	domain.ErrInvalidAmount:           ErrCodeInvalidAmount,
	domain.ErrSameAccount:             ErrCodeSameAccount,
	domain.ErrAccountNotFound:         ErrCodeAccountNotFound,
	domain.ErrInsufficientFunds:       ErrCodeInsufficientFunds,
	domain.ErrMinimumBalanceViolation: ErrCodeMinimumBalance,
	domain.ErrTransferNotFound:        ErrCodeTransferNotFound,
	domain.ErrNotAwaitingApproval:     ErrCodeNotAwaitingApproval,
	domain.ErrSelfApprovalForbidden:   ErrCodeSelfApproval,
	domain.ErrInvalidDecision:         ErrCodeInvalidDecision,
	domain.ErrInvalidStatusChange:     ErrCodeNotAwaitingApproval,
	domain.ErrOperatorNotFound:        ErrCodeOperatorNotFound,
	domain.ErrInvalidCredentials:      ErrCodeInvalidCredentials,
}

// FromEngine maps an engine error to its coded application error.
func FromEngine(err error) *AppError {
	var engineErr *domain.EngineError
	if errors.As(err, &engineErr) {
		if code, ok := codeByEngineError[engineErr]; ok {
			return NewAppError(code, engineErr.Message, "", err)
		}
	}
	var execErr *domain.ExecutionError
	if errors.As(err, &execErr) {
		return NewAppError(ErrCodeExecutionFailed, "Transfer execution failed",
			fmt.Sprintf("Transfer ID: %s", execErr.TransferID), err)
	}
	return NewAppError(ErrCodeInternalServerError, "Internal server error", "", err)
}

// HTTPStatus maps an error to the HTTP status code it should be served with.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = FromEngine(err)
	}
	switch appErr.Code {
	case ErrCodeInvalidCredentials, ErrCodeOperatorNotFound, ErrCodeInvalidToken:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodeSelfApproval:
		return http.StatusForbidden
	case ErrCodeInvalidAmount, ErrCodeSameAccount, ErrCodeInsufficientFunds,
		ErrCodeMinimumBalance, ErrCodeInvalidRequest, ErrCodeInvalidDecision:
		return http.StatusUnprocessableEntity
	case ErrCodeAccountNotFound, ErrCodeTransferNotFound:
		return http.StatusNotFound
	case ErrCodeNotAwaitingApproval:
		return http.StatusConflict
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrCodeDatabaseError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
