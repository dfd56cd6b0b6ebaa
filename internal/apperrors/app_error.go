package apperrors

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AppError wraps a lower-level error with an HTTP-ish status code and context message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound via errors.Is.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// InsufficientBalanceError reports a debit the ledger could not cover.
// It carries the shortfall so callers can surface an actionable message.
type InsufficientBalanceError struct {
	OwnerID   string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	shortfall := e.Requested.Sub(e.Available)
	return fmt.Sprintf("insufficient credit balance for owner %s: requested %s, available %s (shortfall %s)",
		e.OwnerID, e.Requested.StringFixed(2), e.Available.StringFixed(2), shortfall.StringFixed(2))
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// Shortfall returns the amount the ledger was short by.
func (e *InsufficientBalanceError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}

// RateioImbalanceError reports a computed split that exceeded tolerance.
// Both sums and their deltas are carried; the caller must never receive a
// silently adjusted result instead of this error.
type RateioImbalanceError struct {
	TotalAmount  decimal.Decimal
	AmountSum    decimal.Decimal
	PercentSum   decimal.Decimal
	AmountDelta  decimal.Decimal
	PercentDelta decimal.Decimal
}

func (e *RateioImbalanceError) Error() string {
	return fmt.Sprintf("split does not balance: amounts sum to %s against total %s (delta %s), percents sum to %s (delta %s)",
		e.AmountSum.StringFixed(2), e.TotalAmount.StringFixed(2), e.AmountDelta.StringFixed(2),
		e.PercentSum.StringFixed(2), e.PercentDelta.StringFixed(2))
}

func (e *RateioImbalanceError) Unwrap() error {
	return ErrRateioImbalance
}

// GatewayError reports a payment gateway failure. Retryable is true when the
// attempt is known not to have had any effect (e.g. authorize timed out
// before a record was persisted), so the caller may safely retry.
type GatewayError struct {
	Operation string
	Retryable bool
	Err       error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s failed (retryable=%t): %v", e.Operation, e.Retryable, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return ErrGateway
}
