package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jeffgoval/arena-sub003/internal/apperrors"
	"github.com/jeffgoval/arena-sub003/internal/core/domain"
	portssvc "github.com/jeffgoval/arena-sub003/internal/core/ports/services"
	"github.com/jeffgoval/arena-sub003/internal/middleware"
)

var (
	hundred = decimal.NewFromInt(100)
	// amountTolerance bounds the acceptable gap between assigned amounts and
	// the total; percentTolerance the gap between assigned percents and 100.
	amountTolerance  = decimal.NewFromFloat(0.01)
	percentTolerance = decimal.NewFromFloat(0.1)
)

type RateioService struct {
	audit portssvc.AuditSvcFacade
}

func NewRateioService(audit portssvc.AuditSvcFacade) *RateioService {
	return &RateioService{audit: audit}
}

var _ portssvc.RateioSvcFacade = (*RateioService)(nil)

// Calculate resolves each participant's share of the total. The split is
// always computed server side; caller supplied amounts and percents are
// inputs, never the result.
func (s *RateioService) Calculate(ctx context.Context, totalAmount decimal.Decimal, participants []domain.RateioParticipant, mode domain.RateioMode, actorID string) (*domain.RateioResult, error) {
	if !totalAmount.IsPositive() {
		return nil, apperrors.NewAppError(400, "total amount must be positive", apperrors.ErrValidation)
	}
	if len(participants) == 0 {
		return nil, apperrors.NewAppError(400, "at least one participant is required", apperrors.ErrValidation)
	}

	var (
		result *domain.RateioResult
		err    error
	)
	switch mode {
	case domain.RateioEqual:
		result = s.splitEqual(totalAmount, participants)
	case domain.RateioCustom:
		result, err = s.splitCustom(totalAmount, participants)
	case domain.RateioPercentage:
		result, err = s.splitPercentage(totalAmount, participants)
	default:
		return nil, apperrors.NewAppError(400, "unsupported split mode: "+string(mode), apperrors.ErrInvalidMode)
	}
	if err != nil {
		return nil, err
	}
	if err := checkShareBalance(totalAmount, result.Participants); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditReservationModified, actorID, "", "Rateio", nil, result, map[string]any{
		"mode":            string(mode),
		"participants":    len(participants),
		"organizerAmount": result.OrganizerAmount.String(),
	})
	middleware.GetLoggerFromCtx(ctx).Info("rateio calculated",
		"mode", string(mode),
		"total", totalAmount.String(),
		"participants", len(participants),
	)
	return result, nil
}

// checkShareBalance enforces the post-computation invariant on resolved
// shares regardless of mode: amounts must sum to the total within
// amountTolerance and percents to 100 within percentTolerance. A breach of
// either bound fails the calculation; the result is never adjusted past
// tolerance behind the caller's back.
func checkShareBalance(total decimal.Decimal, shares []domain.RateioShare) error {
	amountSum := decimal.Zero
	percentSum := decimal.Zero
	for _, sh := range shares {
		amountSum = amountSum.Add(sh.Amount)
		percentSum = percentSum.Add(sh.Percent)
	}
	amountDelta := total.Sub(amountSum)
	percentDelta := hundred.Sub(percentSum)
	if amountDelta.Abs().GreaterThan(amountTolerance) || percentDelta.Abs().GreaterThan(percentTolerance) {
		return &apperrors.RateioImbalanceError{
			TotalAmount:  total,
			AmountSum:    amountSum,
			AmountDelta:  amountDelta,
			PercentSum:   percentSum,
			PercentDelta: percentDelta,
		}
	}
	return nil
}

// splitEqual divides the total evenly. The last participant absorbs the
// rounding remainder so the shares always sum exactly to the total.
func (s *RateioService) splitEqual(total decimal.Decimal, participants []domain.RateioParticipant) *domain.RateioResult {
	n := int64(len(participants))
	per := total.Div(decimal.NewFromInt(n)).Round(2)

	shares := make([]domain.RateioShare, n)
	running := decimal.Zero
	for i, p := range participants {
		amount := per
		if int64(i) == n-1 {
			amount = total.Sub(running)
		}
		running = running.Add(amount)
		shares[i] = domain.RateioShare{
			ParticipantID: p.ParticipantID,
			DisplayName:   p.DisplayName,
			ContactRef:    p.ContactRef,
			Amount:        amount,
			Percent:       amount.Div(total).Mul(hundred).Round(2),
		}
	}
	return &domain.RateioResult{
		Mode:            domain.RateioEqual,
		TotalAmount:     total,
		Participants:    shares,
		OrganizerAmount: decimal.Zero,
	}
}

// splitCustom uses the caller assigned amounts verbatim. The sum must match
// the total within tolerance, and any sub-cent residual falls to the
// organizer (the first participant).
func (s *RateioService) splitCustom(total decimal.Decimal, participants []domain.RateioParticipant) (*domain.RateioResult, error) {
	shares := make([]domain.RateioShare, len(participants))
	sum := decimal.Zero
	for i, p := range participants {
		if p.AssignedAmount == nil {
			return nil, apperrors.NewAppError(400, "participant "+p.ParticipantID+" is missing an assigned amount", apperrors.ErrValidation)
		}
		if p.AssignedAmount.IsNegative() {
			return nil, apperrors.NewAppError(400, "participant "+p.ParticipantID+" has a negative amount", apperrors.ErrValidation)
		}
		amount := p.AssignedAmount.Round(2)
		sum = sum.Add(amount)
		shares[i] = domain.RateioShare{
			ParticipantID: p.ParticipantID,
			DisplayName:   p.DisplayName,
			ContactRef:    p.ContactRef,
			Amount:        amount,
			Percent:       amount.Div(total).Mul(hundred).Round(2),
		}
	}

	return &domain.RateioResult{
		Mode:            domain.RateioCustom,
		TotalAmount:     total,
		Participants:    shares,
		OrganizerAmount: total.Sub(sum),
	}, nil
}

// splitPercentage converts assigned percents to amounts. Percents must sum
// to 100 within tolerance; the rounding residual falls to the organizer.
func (s *RateioService) splitPercentage(total decimal.Decimal, participants []domain.RateioParticipant) (*domain.RateioResult, error) {
	shares := make([]domain.RateioShare, len(participants))
	amountSum := decimal.Zero
	for i, p := range participants {
		if p.AssignedPercent == nil {
			return nil, apperrors.NewAppError(400, "participant "+p.ParticipantID+" is missing an assigned percent", apperrors.ErrValidation)
		}
		if p.AssignedPercent.IsNegative() {
			return nil, apperrors.NewAppError(400, "participant "+p.ParticipantID+" has a negative percent", apperrors.ErrValidation)
		}
		amount := total.Mul(*p.AssignedPercent).Div(hundred).Round(2)
		amountSum = amountSum.Add(amount)
		shares[i] = domain.RateioShare{
			ParticipantID: p.ParticipantID,
			DisplayName:   p.DisplayName,
			ContactRef:    p.ContactRef,
			Amount:        amount,
			Percent:       *p.AssignedPercent,
		}
	}
	return &domain.RateioResult{
		Mode:            domain.RateioPercentage,
		TotalAmount:     total,
		Participants:    shares,
		OrganizerAmount: total.Sub(amountSum),
	}, nil
}
