package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jeffgoval/arena-sub003/internal/core/domain"
)

// RateioSvcFacade computes how a reservation's total is split among
// participants. Stateless apart from the audit entry it records.
type RateioSvcFacade interface {
	Calculate(ctx context.Context, totalAmount decimal.Decimal, participants []domain.RateioParticipant, mode domain.RateioMode, actorID string) (*domain.RateioResult, error)
}
