package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the operation conflicts with the current resource state.
var ErrConflict = errors.New("conflict with current state")

// ErrInternal indicates an unexpected storage or infrastructure failure.
var ErrInternal = errors.New("internal error")

// ErrInvalidState indicates an operation that is not valid for the target's
// current lifecycle state (e.g. capturing a released pre-authorization).
var ErrInvalidState = errors.New("operation not valid for current state")

// ErrInvalidMode indicates an unsupported rateio split mode.
var ErrInvalidMode = errors.New("unsupported split mode")

// ErrInsufficientBalance indicates the credit ledger cannot cover a debit.
var ErrInsufficientBalance = errors.New("insufficient credit balance")

// ErrRateioImbalance indicates a computed split failed the tolerance check.
var ErrRateioImbalance = errors.New("split does not balance against total")

// ErrGateway indicates a failure reported by (or reaching) the payment gateway.
var ErrGateway = errors.New("payment gateway error")

// ErrRateLimited indicates the caller has been throttled.
var ErrRateLimited = errors.New("rate limited")
