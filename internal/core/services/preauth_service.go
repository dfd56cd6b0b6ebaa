package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jeffgoval/arena-sub003/internal/apperrors"
	"github.com/jeffgoval/arena-sub003/internal/core/domain"
	"github.com/jeffgoval/arena-sub003/internal/core/ports"
	portsrepo "github.com/jeffgoval/arena-sub003/internal/core/ports/repositories"
	portssvc "github.com/jeffgoval/arena-sub003/internal/core/ports/services"
	"github.com/jeffgoval/arena-sub003/internal/middleware"
	"github.com/jeffgoval/arena-sub003/internal/platform/metrics"
)

// expireBatchSize caps how many stale holds one sweep run processes.
const expireBatchSize = 100

type PreAuthService struct {
	preAuthRepo    portsrepo.PreAuthRepositoryFacade
	gateway        ports.PaymentGateway
	audit          portssvc.AuditSvcFacade
	gatewayTimeout time.Duration
	now            func() time.Time
}

func NewPreAuthService(preAuthRepo portsrepo.PreAuthRepositoryFacade, gateway ports.PaymentGateway, audit portssvc.AuditSvcFacade, gatewayTimeout time.Duration) *PreAuthService {
	return &PreAuthService{
		preAuthRepo:    preAuthRepo,
		gateway:        gateway,
		audit:          audit,
		gatewayTimeout: gatewayTimeout,
		now:            time.Now,
	}
}

var _ portssvc.PreAuthSvcFacade = (*PreAuthService)(nil)

// Create places an authorization hold. The gateway call happens first; if it
// fails or declines, no local record exists afterwards.
func (s *PreAuthService) Create(ctx context.Context, reservationID, customerID string, holdAmount decimal.Decimal, cardRef string, actorID string) (*domain.PreAuthorization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !holdAmount.IsPositive() {
		return nil, apperrors.NewAppError(400, "hold amount must be positive", apperrors.ErrValidation)
	}
	if cardRef == "" {
		return nil, apperrors.NewAppError(400, "cardRef is required", apperrors.ErrValidation)
	}

	gwCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()
	authResult, err := s.gateway.Authorize(gwCtx, customerID, holdAmount, cardRef, uuid.New().String())
	if err != nil {
		metrics.GatewayCallsTotal.WithLabelValues("authorize", "failure").Inc()
		logger.Warn("authorization hold failed", "reservationID", reservationID, "error", err)
		return nil, &apperrors.GatewayError{Operation: "authorize", Retryable: true, Err: err}
	}
	metrics.GatewayCallsTotal.WithLabelValues("authorize", "success").Inc()
	if authResult.Status != ports.GatewayAuthorized {
		logger.Warn("authorization hold declined", "reservationID", reservationID, "status", string(authResult.Status))
		return nil, apperrors.NewAppError(402, "card authorization declined", apperrors.ErrGateway)
	}

	now := s.now().UTC()
	preAuth := domain.PreAuthorization{
		PreAuthID:      uuid.New().String(),
		ReservationID:  reservationID,
		CustomerID:     customerID,
		HoldAmount:     holdAmount,
		CapturedAmount: decimal.Zero,
		Status:         domain.PreAuthHeld,
		GatewayRef:     authResult.GatewayRef,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.preAuthRepo.SavePreAuthorization(ctx, preAuth); err != nil {
		// Funds are held at the gateway but we have no record of it. Void
		// best-effort so the customer is not left with a dangling hold.
		logger.Error("failed to persist pre-authorization, voiding hold", "gatewayRef", preAuth.GatewayRef, "error", err)
		s.voidBestEffort(ctx, preAuth.GatewayRef)
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditPaymentCreated, actorID, preAuth.PreAuthID, "PreAuthorization", nil, preAuth, map[string]any{
		"reservationID": reservationID,
		"holdAmount":    holdAmount.String(),
	})
	logger.Info("pre-authorization created", "preAuthID", preAuth.PreAuthID, "reservationID", reservationID)
	return &preAuth, nil
}

// Capture converts part of a HELD hold into a charge. The gateway call runs
// under the row lock so concurrent transitions on the same hold serialize.
func (s *PreAuthService) Capture(ctx context.Context, preAuthID string, amount decimal.Decimal, actorID string) (*domain.PreAuthorization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !amount.IsPositive() {
		return nil, apperrors.NewAppError(400, "capture amount must be positive", apperrors.ErrValidation)
	}

	var before domain.PreAuthorization
	updated, err := s.preAuthRepo.UpdateWithLock(ctx, preAuthID, func(current domain.PreAuthorization) (portsrepo.PreAuthTransitionResult, error) {
		before = current
		if current.Status != domain.PreAuthHeld {
			return portsrepo.PreAuthTransitionResult{}, apperrors.NewAppError(409,
				"cannot capture a "+string(current.Status)+" pre-authorization", apperrors.ErrInvalidState)
		}
		if amount.GreaterThan(current.HoldAmount) {
			return portsrepo.PreAuthTransitionResult{}, apperrors.NewAppError(400,
				"capture amount exceeds hold amount", apperrors.ErrValidation)
		}

		if err := s.captureAtGateway(ctx, current.GatewayRef, amount); err != nil {
			return portsrepo.PreAuthTransitionResult{}, err
		}

		now := s.now().UTC()
		current.CapturedAmount = amount
		current.Status = domain.PreAuthCaptured
		current.CapturedAt = &now
		current.LastUpdatedAt = now
		current.LastUpdatedBy = actorID
		return portsrepo.PreAuthTransitionResult{Updated: current, Write: true}, nil
	})
	if err != nil {
		logger.Warn("pre-authorization capture failed", "preAuthID", preAuthID, "error", err)
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditPaymentCompleted, actorID, preAuthID, "PreAuthorization", before, updated, map[string]any{
		"capturedAmount": amount.String(),
	})
	logger.Info("pre-authorization captured", "preAuthID", preAuthID, "amount", amount.String())
	return updated, nil
}

// Release voids a hold. Terminal records are a no-op success: cancellation
// often races the expiry sweep or a duplicate client request.
func (s *PreAuthService) Release(ctx context.Context, preAuthID string, actorID string) (*domain.PreAuthorization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var (
		before domain.PreAuthorization
		noop   bool
	)
	updated, err := s.preAuthRepo.UpdateWithLock(ctx, preAuthID, func(current domain.PreAuthorization) (portsrepo.PreAuthTransitionResult, error) {
		before = current
		if current.Terminal() {
			noop = true
			return portsrepo.PreAuthTransitionResult{Write: false}, nil
		}

		if err := s.voidAtGateway(ctx, current.GatewayRef); err != nil {
			return portsrepo.PreAuthTransitionResult{}, err
		}

		now := s.now().UTC()
		current.Status = domain.PreAuthReleased
		current.ReleasedAt = &now
		current.LastUpdatedAt = now
		current.LastUpdatedBy = actorID
		return portsrepo.PreAuthTransitionResult{Updated: current, Write: true}, nil
	})
	if err != nil {
		logger.Warn("pre-authorization release failed", "preAuthID", preAuthID, "error", err)
		return nil, err
	}
	if noop {
		logger.Info("pre-authorization already terminal, release is a no-op", "preAuthID", preAuthID, "status", string(updated.Status))
		return updated, nil
	}

	s.audit.Record(ctx, domain.AuditPaymentRefunded, actorID, preAuthID, "PreAuthorization", before, updated, nil)
	logger.Info("pre-authorization released", "preAuthID", preAuthID)
	return updated, nil
}

func (s *PreAuthService) GetByID(ctx context.Context, preAuthID string) (*domain.PreAuthorization, error) {
	return s.preAuthRepo.FindByID(ctx, preAuthID)
}

// ExpireStale transitions HELD records older than ttl to EXPIRED. The
// gateway void is best-effort; card networks lapse stale holds on their own.
func (s *PreAuthService) ExpireStale(ctx context.Context, now time.Time, ttl time.Duration) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cutoff := now.UTC().Add(-ttl)
	stale, err := s.preAuthRepo.ListStaleHeld(ctx, cutoff, expireBatchSize)
	if err != nil {
		logger.Error("failed to list stale holds", "error", err)
		return 0, err
	}

	expired := 0
	for _, candidate := range stale {
		var before domain.PreAuthorization
		updated, err := s.preAuthRepo.UpdateWithLock(ctx, candidate.PreAuthID, func(current domain.PreAuthorization) (portsrepo.PreAuthTransitionResult, error) {
			before = current
			if current.Status != domain.PreAuthHeld {
				return portsrepo.PreAuthTransitionResult{Write: false}, nil
			}
			s.voidBestEffort(ctx, current.GatewayRef)

			nowUTC := s.now().UTC()
			current.Status = domain.PreAuthExpired
			current.ReleasedAt = &nowUTC
			current.LastUpdatedAt = nowUTC
			current.LastUpdatedBy = systemActorID
			return portsrepo.PreAuthTransitionResult{Updated: current, Write: true}, nil
		})
		if err != nil {
			logger.Error("failed to expire stale hold", "preAuthID", candidate.PreAuthID, "error", err)
			continue
		}
		if updated.Status != domain.PreAuthExpired || before.Status != domain.PreAuthHeld {
			continue
		}
		expired++
		s.audit.Record(ctx, domain.AuditPaymentExpired, systemActorID, updated.PreAuthID, "PreAuthorization", before, updated, nil)
	}
	if expired > 0 {
		logger.Info("expired stale pre-authorizations", "count", expired)
	}
	return expired, nil
}

// captureAtGateway performs the partial capture, reconciling ambiguous
// timeouts through GetStatus before reporting failure.
func (s *PreAuthService) captureAtGateway(ctx context.Context, gatewayRef string, amount decimal.Decimal) error {
	gwCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	_, err := s.gateway.CapturePartial(gwCtx, gatewayRef, amount, uuid.New().String())
	if err == nil {
		metrics.GatewayCallsTotal.WithLabelValues("capture", "success").Inc()
		return nil
	}
	metrics.GatewayCallsTotal.WithLabelValues("capture", "failure").Inc()

	if !errors.Is(err, context.DeadlineExceeded) {
		return &apperrors.GatewayError{Operation: "capture", Retryable: false, Err: err}
	}
	// The capture may or may not have landed. Ask the gateway before
	// deciding, so a retry can never double-charge.
	status, recErr := s.reconcileStatus(ctx, gatewayRef)
	if recErr != nil {
		return apperrors.NewAppError(500, "capture outcome unknown and reconciliation failed", apperrors.ErrInternal)
	}
	if status.Status == ports.GatewayCaptured {
		return nil
	}
	return &apperrors.GatewayError{Operation: "capture", Retryable: true, Err: err}
}

// voidAtGateway voids the hold, reconciling ambiguous timeouts the same way
// captureAtGateway does.
func (s *PreAuthService) voidAtGateway(ctx context.Context, gatewayRef string) error {
	gwCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	_, err := s.gateway.Void(gwCtx, gatewayRef, uuid.New().String())
	if err == nil {
		metrics.GatewayCallsTotal.WithLabelValues("void", "success").Inc()
		return nil
	}
	metrics.GatewayCallsTotal.WithLabelValues("void", "failure").Inc()

	if !errors.Is(err, context.DeadlineExceeded) {
		return &apperrors.GatewayError{Operation: "void", Retryable: false, Err: err}
	}
	status, recErr := s.reconcileStatus(ctx, gatewayRef)
	if recErr != nil {
		return apperrors.NewAppError(500, "void outcome unknown and reconciliation failed", apperrors.ErrInternal)
	}
	if status.Status == ports.GatewayVoided {
		return nil
	}
	return &apperrors.GatewayError{Operation: "void", Retryable: true, Err: err}
}

func (s *PreAuthService) reconcileStatus(ctx context.Context, gatewayRef string) (*ports.StatusResult, error) {
	gwCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()
	return s.gateway.GetStatus(gwCtx, gatewayRef)
}

func (s *PreAuthService) voidBestEffort(ctx context.Context, gatewayRef string) {
	gwCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()
	if _, err := s.gateway.Void(gwCtx, gatewayRef, uuid.New().String()); err != nil {
		metrics.GatewayCallsTotal.WithLabelValues("void", "failure").Inc()
		middleware.GetLoggerFromCtx(ctx).Warn("best-effort void failed", "gatewayRef", gatewayRef, "error", err)
		return
	}
	metrics.GatewayCallsTotal.WithLabelValues("void", "success").Inc()
}
