package types

import (
	"context"
	"errors"
	"fmt"
)

// Instruction-building errors. Every one of them is a deterministic function
// of the caller's input; none is worth retrying.
var (
	ErrInvalidSlippage            = errors.New("slippage bps must be within [0, 10000]")
	ErrInvalidAccountData         = errors.New("invalid account data")
	ErrInvalidInstructionData     = errors.New("invalid instruction data")
	ErrAddressDerivationExhausted = errors.New("no viable bump seed for program address")
	ErrCurveCompleted             = errors.New("bonding curve is complete")
	ErrInsufficientLiquidity      = errors.New("insufficient liquidity")
	ErrGlobalNotFound             = errors.New("global config not found")
	ErrCurveNotFound              = errors.New("bonding curve not found")
)

// Parameter validation errors
var (
	ErrNilLedger        = errors.New("ledger query is nil")
	ErrZeroAmount       = errors.New("amount must be greater than 0")
	ErrInvalidPublicKey = errors.New("invalid public key")
)

// Ledger errors
var (
	ErrAccountNotFound = errors.New("account not found")
)

// RPCError wraps RPC failures with operation context.
type RPCError struct {
	Op  string
	Err error
}

func (e RPCError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e RPCError) Unwrap() error {
	return e.Err
}

// ValidationError represents input validation failures. Err, when set, is
// the sentinel the failure falls under.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// ProgramError represents an on-chain program error code.
type ProgramError struct {
	Program string
	Code    int
	Name    string
	Message string
}

func (e ProgramError) Error() string {
	return fmt.Sprintf("program %s error [%d]: %s", e.Program, e.Code, e.Message)
}

// IsRetryableError reports whether err could succeed on a second attempt.
// Errors raised while building instructions never are; transport failures are,
// unless the caller gave up on the context.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, ErrAccountNotFound):
		return false
	case errors.Is(err, ErrInvalidSlippage),
		errors.Is(err, ErrInvalidAccountData),
		errors.Is(err, ErrInvalidInstructionData),
		errors.Is(err, ErrAddressDerivationExhausted),
		errors.Is(err, ErrCurveCompleted),
		errors.Is(err, ErrInsufficientLiquidity),
		errors.Is(err, ErrGlobalNotFound),
		errors.Is(err, ErrCurveNotFound):
		return false
	}
	var valErr ValidationError
	if errors.As(err, &valErr) {
		return false
	}
	var progErr ProgramError
	if errors.As(err, &progErr) {
		return false
	}
	return true
}
