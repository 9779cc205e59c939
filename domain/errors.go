package domain

import "fmt"

// ErrorKind classifies engine errors by where they are detected.
type ErrorKind string

const (
	// KindValidation errors are detected before any persistence.
	KindValidation ErrorKind = "VALIDATION"
	// KindWorkflow errors are detected inside the decision transaction.
	KindWorkflow ErrorKind = "WORKFLOW"
)

// EngineError represents a business-rule failure from the transfer engine.
type EngineError struct {
	Kind    ErrorKind
	Message string
}

func (e *EngineError) Error() string {
	return e.Message
}

func NewValidationError(message string) *EngineError {
	return &EngineError{Kind: KindValidation, Message: message}
}

func NewWorkflowError(message string) *EngineError {
	return &EngineError{Kind: KindWorkflow, Message: message}
}

// Validation errors, in the order the transfer validator checks them.
var (
	ErrInvalidAmount           = NewValidationError("transfer amount must be positive")
	ErrSameAccount             = NewValidationError("source and destination accounts must differ")
	ErrAccountNotFound         = NewValidationError("account not found or inactive")
	ErrInsufficientFunds       = NewValidationError("insufficient funds")
	ErrMinimumBalanceViolation = NewValidationError("debit would breach the minimum balance floor")
)

// Workflow errors raised by the approval processor.
var (
	ErrTransferNotFound      = NewWorkflowError("transfer not found")
	ErrNotAwaitingApproval   = NewWorkflowError("transfer is not awaiting approval")
	ErrSelfApprovalForbidden = NewWorkflowError("initiator may not approve their own transfer")
	ErrApprovalNotFound      = NewWorkflowError("approval record not found")
	ErrInvalidDecision       = NewWorkflowError("decision must be APPROVED or REJECTED")
	ErrInvalidStatusChange   = NewWorkflowError("invalid transfer status transition")
)

// Operator errors surfaced by the auth boundary.
var (
	ErrOperatorNotFound   = NewWorkflowError("operator not found")
	ErrInvalidCredentials = NewWorkflowError("invalid email or password")
)

// ExecutionError wraps a failure inside the debit/credit/update sequence.
// The transfer is marked FAILED in a follow-up transaction and the cause
// is surfaced to the caller.
type ExecutionError struct {
	TransferID string
	Cause      error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("transfer %s execution failed: %v", e.TransferID, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

func NewExecutionError(transferID string, cause error) *ExecutionError {
	return &ExecutionError{TransferID: transferID, Cause: cause}
}
