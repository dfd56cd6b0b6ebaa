package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jeffgoval/arena-sub003/internal/core/domain"
)

// CreditRepositoryFacade persists the credit ledger. DebitFIFO is the only
// writer that mutates entry amounts, and it must run its read-plan-write
// cycle inside a single transaction holding row locks on the owner's active
// entries, so concurrent debits for one owner serialize.
type CreditRepositoryFacade interface {
	SaveEntry(ctx context.Context, entry domain.CreditEntry) error
	FindEntryByID(ctx context.Context, entryID string) (*domain.CreditEntry, error)
	ListEntriesByOwner(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.CreditEntry, *string, error)
	GetBalance(ctx context.Context, ownerID string, now time.Time, expiringBefore time.Time) (*domain.CreditBalance, error)
	// DebitFIFO consumes amount from the owner's active entries, soonest
	// expiry first, all-or-nothing. usage is the pre-built negative entry
	// recording the draw; the repository inserts it alongside the entry
	// mutations. Returns InsufficientBalanceError without mutation when the
	// balance cannot cover the amount.
	DebitFIFO(ctx context.Context, ownerID string, amount decimal.Decimal, usage domain.CreditEntry, now time.Time) (*domain.DebitResult, error)
	// ExpireEntries flips ACTIVE entries whose expiry has passed to EXPIRED
	// and returns the affected entries. Safe to run concurrently with debits.
	ExpireEntries(ctx context.Context, now time.Time) ([]domain.CreditEntry, error)
}

// PreAuthTransitionResult tells UpdateWithLock what to do after the
// callback: write the mutated record, or keep the row untouched (no-op
// transitions such as releasing an already released hold).
type PreAuthTransitionResult struct {
	Updated domain.PreAuthorization
	Write   bool
}

// PreAuthRepositoryFacade persists card holds. UpdateWithLock serializes
// transitions per preAuthID: it locks the row, runs the callback (which may
// call the gateway), and writes the result in the same transaction.
type PreAuthRepositoryFacade interface {
	SavePreAuthorization(ctx context.Context, preAuth domain.PreAuthorization) error
	FindByID(ctx context.Context, preAuthID string) (*domain.PreAuthorization, error)
	UpdateWithLock(ctx context.Context, preAuthID string, fn func(current domain.PreAuthorization) (PreAuthTransitionResult, error)) (*domain.PreAuthorization, error)
	ListStaleHeld(ctx context.Context, cutoff time.Time, limit int) ([]domain.PreAuthorization, error)
}

// AuditRepositoryFacade persists the append-only audit log.
type AuditRepositoryFacade interface {
	InsertEntry(ctx context.Context, entry domain.AuditEntry) error
	Query(ctx context.Context, filter domain.AuditFilter, limit int, nextToken *string) ([]domain.AuditEntry, *string, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RepositoryProvider bundles the repositories handed to the service container.
type RepositoryProvider struct {
	Credit  CreditRepositoryFacade
	PreAuth PreAuthRepositoryFacade
	Audit   AuditRepositoryFacade
}
