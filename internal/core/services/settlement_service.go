package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jeffgoval/arena-sub003/internal/apperrors"
	"github.com/jeffgoval/arena-sub003/internal/core/domain"
	"github.com/jeffgoval/arena-sub003/internal/core/ports"
	portssvc "github.com/jeffgoval/arena-sub003/internal/core/ports/services"
	"github.com/jeffgoval/arena-sub003/internal/dto"
	"github.com/jeffgoval/arena-sub003/internal/middleware"
	"github.com/jeffgoval/arena-sub003/internal/platform/metrics"
)

type SettlementService struct {
	credit   portssvc.CreditLedgerSvcFacade
	rateio   portssvc.RateioSvcFacade
	preAuth  portssvc.PreAuthSvcFacade
	notifier ports.Notifier
}

func NewSettlementService(credit portssvc.CreditLedgerSvcFacade, rateio portssvc.RateioSvcFacade, preAuth portssvc.PreAuthSvcFacade, notifier ports.Notifier) *SettlementService {
	return &SettlementService{
		credit:   credit,
		rateio:   rateio,
		preAuth:  preAuth,
		notifier: notifier,
	}
}

var _ portssvc.SettlementSvcFacade = (*SettlementService)(nil)

// Checkout settles one reservation: compute the split, apply elected credits
// and place the deposit hold, in that order. If the deposit hold fails after
// credits were debited, the debit is compensated with a reversing grant so
// the customer's balance is restored.
func (s *SettlementService) Checkout(ctx context.Context, req dto.CheckoutRequest, customerID string) (*dto.SettlementResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateCheckout(req); err != nil {
		return nil, err
	}

	rateioResult, err := s.rateio.Calculate(ctx, req.TotalAmount, req.ToRateioParticipants(), req.Mode, customerID)
	if err != nil {
		metrics.SettlementsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	result := &dto.SettlementResult{
		ReservationID:  req.ReservationID,
		Rateio:         dto.ToRateioResultResponse(rateioResult),
		CreditsApplied: decimal.Zero,
	}

	var debit *domain.DebitResult
	if req.CreditsElectedAmount != nil && req.CreditsElectedAmount.IsPositive() {
		// Never consume more credit than the reservation costs.
		applied := decimal.Min(*req.CreditsElectedAmount, req.TotalAmount)
		debit, err = s.credit.Debit(ctx, customerID, applied,
			"reservation checkout "+req.ReservationID,
			domain.CreditRefs{ReservationID: &req.ReservationID},
			customerID,
		)
		if err != nil {
			metrics.SettlementsTotal.WithLabelValues("failure").Inc()
			return nil, err
		}
		result.CreditsApplied = applied
		debitResp := dto.ToDebitResultResponse(debit)
		result.CreditDebit = &debitResp
	}

	if req.CardRef != nil && req.DepositAmount != nil {
		preAuth, err := s.preAuth.Create(ctx, req.ReservationID, customerID, *req.DepositAmount, *req.CardRef, customerID)
		if err != nil {
			if debit != nil {
				s.compensateDebit(ctx, customerID, req.ReservationID, debit)
			}
			metrics.SettlementsTotal.WithLabelValues("failure").Inc()
			return nil, err
		}
		depositResp := dto.ToPreAuthResponse(preAuth)
		result.Deposit = &depositResp
	}

	metrics.SettlementsTotal.WithLabelValues("success").Inc()
	s.notifyParticipants(ctx, req.ReservationID, rateioResult)
	logger.Info("checkout settled",
		"reservationID", req.ReservationID,
		"total", req.TotalAmount.String(),
		"creditsApplied", result.CreditsApplied.String(),
		"depositHeld", result.Deposit != nil,
	)
	return result, nil
}

// compensateDebit restores a debit rolled back because a later checkout step
// failed. The reversing grant carries the reservation reference so the audit
// trail ties both movements together.
func (s *SettlementService) compensateDebit(ctx context.Context, customerID, reservationID string, debit *domain.DebitResult) {
	logger := middleware.GetLoggerFromCtx(ctx)

	_, err := s.credit.Grant(ctx, customerID, dto.GrantCreditRequest{
		Kind:          domain.CreditKindBonus,
		Amount:        debit.Amount,
		ReservationID: &reservationID,
		Notes:         "reversal of checkout debit for reservation " + reservationID,
	}, systemActorID)
	if err != nil {
		// The customer's balance is now short. This needs a human.
		logger.Error("failed to compensate checkout debit",
			"customerID", customerID,
			"reservationID", reservationID,
			"amount", debit.Amount.String(),
			"error", err,
		)
		return
	}
	logger.Info("compensated checkout debit", "customerID", customerID, "amount", debit.Amount.String())
}

// notifyParticipants informs each participant of their share. Failures are
// the notifier's problem; settlement already succeeded.
func (s *SettlementService) notifyParticipants(ctx context.Context, reservationID string, rateio *domain.RateioResult) {
	for _, share := range rateio.Participants {
		if share.ContactRef == "" {
			continue
		}
		body := fmt.Sprintf("Your share for reservation %s is %s (%s%% of %s).",
			reservationID, share.Amount.StringFixed(2), share.Percent.StringFixed(1), rateio.TotalAmount.StringFixed(2))
		s.notifier.Notify(ctx, share.ContactRef, "Reservation "+reservationID+" settled", body)
	}
}

func validateCheckout(req dto.CheckoutRequest) error {
	if !req.TotalAmount.IsPositive() {
		return apperrors.NewAppError(400, "total amount must be positive", apperrors.ErrValidation)
	}
	if (req.CardRef == nil) != (req.DepositAmount == nil) {
		return apperrors.NewAppError(400, "cardRef and depositAmount must be provided together", apperrors.ErrValidation)
	}
	if req.DepositAmount != nil && !req.DepositAmount.IsPositive() {
		return apperrors.NewAppError(400, "deposit amount must be positive", apperrors.ErrValidation)
	}
	if req.CreditsElectedAmount != nil && req.CreditsElectedAmount.IsNegative() {
		return apperrors.NewAppError(400, "elected credits cannot be negative", apperrors.ErrValidation)
	}
	return nil
}
