package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/jeffgoval/arena-sub003/internal/apperrors"
	"github.com/jeffgoval/arena-sub003/internal/core/domain"
	"github.com/jeffgoval/arena-sub003/internal/core/services"
)

type RateioServiceTestSuite struct {
	suite.Suite
	audit   *recordingAudit
	service *services.RateioService
}

func (suite *RateioServiceTestSuite) SetupTest() {
	suite.audit = &recordingAudit{}
	suite.service = services.NewRateioService(suite.audit)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func participants(ids ...string) []domain.RateioParticipant {
	out := make([]domain.RateioParticipant, len(ids))
	for i, id := range ids {
		out[i] = domain.RateioParticipant{ParticipantID: id, DisplayName: id}
	}
	return out
}

func (suite *RateioServiceTestSuite) TestEqualSplit_SumIsExact() {
	ctx := context.Background()

	result, err := suite.service.Calculate(ctx, dec("100.00"), participants("A", "B", "C"), domain.RateioEqual, "organizer")

	suite.Require().NoError(err)
	suite.Require().Len(result.Participants, 3)

	sum := decimal.Zero
	percentSum := decimal.Zero
	for _, share := range result.Participants {
		suite.True(share.Amount.Equal(dec("33.33")) || share.Amount.Equal(dec("33.34")),
			"share %s out of expected range", share.Amount)
		sum = sum.Add(share.Amount)
		percentSum = percentSum.Add(share.Percent)
	}
	suite.True(sum.Equal(dec("100.00")), "shares must sum exactly to the total, got %s", sum)
	suite.True(decimal.NewFromInt(100).Sub(percentSum).Abs().LessThanOrEqual(dec("0.1")))
	suite.True(result.OrganizerAmount.IsZero())
}

func (suite *RateioServiceTestSuite) TestEqualSplit_Idempotent() {
	ctx := context.Background()
	parts := participants("A", "B", "C", "D", "E", "F", "G")

	first, err := suite.service.Calculate(ctx, dec("99.99"), parts, domain.RateioEqual, "organizer")
	suite.Require().NoError(err)
	second, err := suite.service.Calculate(ctx, dec("99.99"), parts, domain.RateioEqual, "organizer")
	suite.Require().NoError(err)

	suite.Require().Len(second.Participants, len(first.Participants))
	for i := range first.Participants {
		suite.True(first.Participants[i].Amount.Equal(second.Participants[i].Amount))
		suite.True(first.Participants[i].Percent.Equal(second.Participants[i].Percent))
	}
}

func (suite *RateioServiceTestSuite) TestPercentageSplit_ImbalanceRejected() {
	ctx := context.Background()
	fifty := dec("50")
	fortyNine := dec("49")
	parts := []domain.RateioParticipant{
		{ParticipantID: "A", DisplayName: "A", AssignedPercent: &fifty},
		{ParticipantID: "B", DisplayName: "B", AssignedPercent: &fortyNine},
	}

	result, err := suite.service.Calculate(ctx, dec("100.00"), parts, domain.RateioPercentage, "organizer")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrRateioImbalance)

	var imbalance *apperrors.RateioImbalanceError
	suite.Require().ErrorAs(err, &imbalance)
	suite.True(imbalance.PercentDelta.Equal(dec("1")))
	suite.Empty(suite.audit.actions, "failed calculations must not be audited")
}

func (suite *RateioServiceTestSuite) TestPercentageSplit_AmountImbalanceRejected() {
	ctx := context.Background()
	fifty := dec("50")
	rest := dec("49.95")
	parts := []domain.RateioParticipant{
		{ParticipantID: "A", DisplayName: "A", AssignedPercent: &fifty},
		{ParticipantID: "B", DisplayName: "B", AssignedPercent: &rest},
	}

	// Percents sum to 99.95, inside the 0.1 percent tolerance, but the
	// resolved amounts sum to 99.95 against a 100.00 total. That 0.05 gap
	// breaches the amount tolerance and must fail rather than land on the
	// organizer.
	result, err := suite.service.Calculate(ctx, dec("100.00"), parts, domain.RateioPercentage, "organizer")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrRateioImbalance)

	var imbalance *apperrors.RateioImbalanceError
	suite.Require().ErrorAs(err, &imbalance)
	suite.True(imbalance.AmountSum.Equal(dec("99.95")))
	suite.True(imbalance.AmountDelta.Equal(dec("0.05")))
	suite.True(imbalance.PercentDelta.Equal(dec("0.05")))
	suite.Empty(suite.audit.actions, "failed calculations must not be audited")
}

func (suite *RateioServiceTestSuite) TestPercentageSplit_ResidualToOrganizer() {
	ctx := context.Background()
	third := dec("33.33")
	tw := dec("33.34")
	parts := []domain.RateioParticipant{
		{ParticipantID: "A", DisplayName: "A", AssignedPercent: &third},
		{ParticipantID: "B", DisplayName: "B", AssignedPercent: &third},
		{ParticipantID: "C", DisplayName: "C", AssignedPercent: &tw},
	}

	result, err := suite.service.Calculate(ctx, dec("100.00"), parts, domain.RateioPercentage, "organizer")

	suite.Require().NoError(err)
	sum := decimal.Zero
	for _, share := range result.Participants {
		sum = sum.Add(share.Amount)
	}
	suite.True(sum.Add(result.OrganizerAmount).Equal(dec("100.00")))
}

func (suite *RateioServiceTestSuite) TestCustomSplit_WithinTolerance() {
	ctx := context.Background()
	a := dec("60.00")
	b := dec("39.99")
	parts := []domain.RateioParticipant{
		{ParticipantID: "A", DisplayName: "A", AssignedAmount: &a},
		{ParticipantID: "B", DisplayName: "B", AssignedAmount: &b},
	}

	result, err := suite.service.Calculate(ctx, dec("100.00"), parts, domain.RateioCustom, "organizer")

	suite.Require().NoError(err)
	suite.True(result.OrganizerAmount.Equal(dec("0.01")))
	suite.Equal([]domain.AuditAction{domain.AuditReservationModified}, suite.audit.actions)
}

func (suite *RateioServiceTestSuite) TestCustomSplit_BeyondToleranceRejected() {
	ctx := context.Background()
	a := dec("60.00")
	b := dec("30.00")
	parts := []domain.RateioParticipant{
		{ParticipantID: "A", DisplayName: "A", AssignedAmount: &a},
		{ParticipantID: "B", DisplayName: "B", AssignedAmount: &b},
	}

	_, err := suite.service.Calculate(ctx, dec("100.00"), parts, domain.RateioCustom, "organizer")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRateioImbalance)
}

func (suite *RateioServiceTestSuite) TestCustomSplit_MissingAmountRejected() {
	ctx := context.Background()
	a := dec("60.00")
	parts := []domain.RateioParticipant{
		{ParticipantID: "A", DisplayName: "A", AssignedAmount: &a},
		{ParticipantID: "B", DisplayName: "B"},
	}

	_, err := suite.service.Calculate(ctx, dec("100.00"), parts, domain.RateioCustom, "organizer")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RateioServiceTestSuite) TestUnknownModeRejected() {
	ctx := context.Background()

	_, err := suite.service.Calculate(ctx, dec("100.00"), participants("A"), domain.RateioMode("HALVSIES"), "organizer")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidMode)
}

func (suite *RateioServiceTestSuite) TestNonPositiveTotalRejected() {
	ctx := context.Background()

	_, err := suite.service.Calculate(ctx, decimal.Zero, participants("A"), domain.RateioEqual, "organizer")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestRateioServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateioServiceTestSuite))
}
