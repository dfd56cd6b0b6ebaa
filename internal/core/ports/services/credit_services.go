package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jeffgoval/arena-sub003/internal/core/domain"
	"github.com/jeffgoval/arena-sub003/internal/dto"
)

// CreditLedgerSvcFacade owns a customer's credit balance as a set of signed
// ledger entries.
type CreditLedgerSvcFacade interface {
	// Grant appends an active entry. Amount must be strictly positive.
	Grant(ctx context.Context, ownerID string, req dto.GrantCreditRequest, actorID string) (*domain.CreditEntry, error)
	// GetBalance aggregates active, unexpired entries, reporting the portion
	// expiring within the given number of days separately.
	GetBalance(ctx context.Context, ownerID string, expiringWithinDays int) (*domain.CreditBalance, error)
	// Debit consumes amount FIFO by expiry, all-or-nothing.
	Debit(ctx context.Context, ownerID string, amount decimal.Decimal, reason string, refs domain.CreditRefs, actorID string) (*domain.DebitResult, error)
	// ListEntries returns the owner's paginated ledger history.
	ListEntries(ctx context.Context, ownerID string, params dto.ListEntriesParams) ([]domain.CreditEntry, *string, error)
	// SweepExpired flips stale active entries to EXPIRED and returns the count.
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}
