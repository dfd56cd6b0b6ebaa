package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jeffgoval/arena-sub003/internal/apperrors"
	"github.com/jeffgoval/arena-sub003/internal/core/domain"
	portsrepo "github.com/jeffgoval/arena-sub003/internal/core/ports/repositories"
	portssvc "github.com/jeffgoval/arena-sub003/internal/core/ports/services"
	"github.com/jeffgoval/arena-sub003/internal/dto"
	"github.com/jeffgoval/arena-sub003/internal/middleware"
	"github.com/jeffgoval/arena-sub003/internal/platform/metrics"
)

const systemActorID = "system"

type CreditLedgerService struct {
	creditRepo portsrepo.CreditRepositoryFacade
	audit      portssvc.AuditSvcFacade
	now        func() time.Time
}

func NewCreditLedgerService(creditRepo portsrepo.CreditRepositoryFacade, audit portssvc.AuditSvcFacade) *CreditLedgerService {
	return &CreditLedgerService{
		creditRepo: creditRepo,
		audit:      audit,
		now:        time.Now,
	}
}

var _ portssvc.CreditLedgerSvcFacade = (*CreditLedgerService)(nil)

// Grant appends a positive ledger entry for the owner.
func (s *CreditLedgerService) Grant(ctx context.Context, ownerID string, req dto.GrantCreditRequest, actorID string) (*domain.CreditEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, apperrors.NewAppError(400, "grant amount must be positive", apperrors.ErrValidation)
	}
	now := s.now().UTC()
	if req.ExpiresAt != nil && !req.ExpiresAt.After(now) {
		return nil, apperrors.NewAppError(400, "expiresAt must be in the future", apperrors.ErrValidation)
	}

	entry := domain.CreditEntry{
		EntryID:              uuid.New().String(),
		OwnerID:              ownerID,
		Kind:                 req.Kind,
		Amount:               req.Amount,
		Status:               domain.CreditActive,
		ExpiresAt:            req.ExpiresAt,
		RelatedReservationID: req.ReservationID,
		RelatedReferralID:    req.ReferralID,
		Notes:                req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.creditRepo.SaveEntry(ctx, entry); err != nil {
		logger.Error("failed to save credit grant", "ownerID", ownerID, "error", err)
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditCreditAdded, actorID, entry.EntryID, "CreditEntry", nil, entry, map[string]any{
		"ownerID": ownerID,
		"kind":    string(entry.Kind),
		"amount":  entry.Amount.String(),
	})
	logger.Info("credit granted", "ownerID", ownerID, "entryID", entry.EntryID, "amount", entry.Amount.String())
	return &entry, nil
}

// GetBalance aggregates the owner's active balance and the portion expiring
// within the given window.
func (s *CreditLedgerService) GetBalance(ctx context.Context, ownerID string, expiringWithinDays int) (*domain.CreditBalance, error) {
	if expiringWithinDays <= 0 {
		expiringWithinDays = 7
	}
	now := s.now().UTC()
	horizon := now.AddDate(0, 0, expiringWithinDays)
	return s.creditRepo.GetBalance(ctx, ownerID, now, horizon)
}

// Debit consumes amount from the owner's credits, soonest expiry first,
// all-or-nothing. The repository serializes concurrent debits per owner.
func (s *CreditLedgerService) Debit(ctx context.Context, ownerID string, amount decimal.Decimal, reason string, refs domain.CreditRefs, actorID string) (*domain.DebitResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !amount.IsPositive() {
		return nil, apperrors.NewAppError(400, "debit amount must be positive", apperrors.ErrValidation)
	}

	now := s.now().UTC()
	usage := domain.CreditEntry{
		EntryID:              uuid.New().String(),
		OwnerID:              ownerID,
		Kind:                 domain.CreditKindUsage,
		Amount:               amount.Neg(),
		Status:               domain.CreditUsed,
		RelatedReservationID: refs.ReservationID,
		RelatedReferralID:    refs.ReferralID,
		Notes:                reason,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	result, err := s.creditRepo.DebitFIFO(ctx, ownerID, amount, usage, now)
	if err != nil {
		metrics.CreditDebitsTotal.WithLabelValues("failure").Inc()
		logger.Warn("credit debit failed", "ownerID", ownerID, "amount", amount.String(), "error", err)
		return nil, err
	}

	metrics.CreditDebitsTotal.WithLabelValues("success").Inc()
	s.audit.Record(ctx, domain.AuditCreditDeducted, actorID, usage.EntryID, "CreditEntry",
		map[string]any{"balance": result.BalanceBefore.String()},
		map[string]any{"balance": result.BalanceAfter.String()},
		map[string]any{
			"ownerID":         ownerID,
			"amount":          amount.String(),
			"reason":          reason,
			"consumedEntries": len(result.ConsumedEntries),
		},
	)
	logger.Info("credit debited", "ownerID", ownerID, "amount", amount.String(), "balanceAfter", result.BalanceAfter.String())
	return result, nil
}

func (s *CreditLedgerService) ListEntries(ctx context.Context, ownerID string, params dto.ListEntriesParams) ([]domain.CreditEntry, *string, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.creditRepo.ListEntriesByOwner(ctx, ownerID, limit, params.NextToken)
}

// SweepExpired flips stale active entries to EXPIRED, recording one audit
// entry per affected ledger line.
func (s *CreditLedgerService) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	expired, err := s.creditRepo.ExpireEntries(ctx, now.UTC())
	if err != nil {
		logger.Error("credit expiry sweep failed", "error", err)
		return 0, err
	}

	for i := range expired {
		e := &expired[i]
		before := *e
		before.Status = domain.CreditActive
		s.audit.Record(ctx, domain.AuditCreditExpired, systemActorID, e.EntryID, "CreditEntry", before, e, map[string]any{
			"ownerID": e.OwnerID,
			"amount":  e.Amount.String(),
		})
	}
	if len(expired) > 0 {
		logger.Info("expired credit entries", "count", len(expired))
	}
	return len(expired), nil
}
