package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jeffgoval/arena-sub003/internal/core/domain"
)

// PreAuthSvcFacade drives the card deposit (caução) state machine:
// HELD -> CAPTURED | RELEASED | EXPIRED.
type PreAuthSvcFacade interface {
	// Create places an authorization hold via the gateway. On gateway
	// failure no local record is created.
	Create(ctx context.Context, reservationID, customerID string, holdAmount decimal.Decimal, cardRef string, actorID string) (*domain.PreAuthorization, error)
	// Capture converts part of a hold into a charge. Requires HELD state and
	// 0 < amount <= holdAmount; the uncaptured remainder lapses at the gateway.
	Capture(ctx context.Context, preAuthID string, amount decimal.Decimal, actorID string) (*domain.PreAuthorization, error)
	// Release voids a hold. Releasing an already released or captured record
	// is a no-op success, since cancellation races are expected.
	Release(ctx context.Context, preAuthID string, actorID string) (*domain.PreAuthorization, error)
	GetByID(ctx context.Context, preAuthID string) (*domain.PreAuthorization, error)
	// ExpireStale transitions HELD records older than ttl to EXPIRED with a
	// best-effort gateway void, and returns the count.
	ExpireStale(ctx context.Context, now time.Time, ttl time.Duration) (int, error)
}
