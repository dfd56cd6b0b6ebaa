package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/jeffgoval/arena-sub003/internal/apperrors"
	"github.com/jeffgoval/arena-sub003/internal/core/domain"
	"github.com/jeffgoval/arena-sub003/internal/core/services"
	"github.com/jeffgoval/arena-sub003/internal/dto"
)

type CreditServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCreditRepository
	audit    *recordingAudit
	service  *services.CreditLedgerService
}

func (suite *CreditServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCreditRepository)
	suite.audit = &recordingAudit{}
	suite.service = services.NewCreditLedgerService(suite.mockRepo, suite.audit)
}

func (suite *CreditServiceTestSuite) TestGrant_Success() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	actorID := uuid.NewString()
	req := dto.GrantCreditRequest{
		Kind:   domain.CreditKindBonus,
		Amount: dec("25.00"),
		Notes:  "welcome bonus",
	}

	suite.mockRepo.On("SaveEntry", ctx, mock.MatchedBy(func(e domain.CreditEntry) bool {
		return e.OwnerID == ownerID &&
			e.Kind == domain.CreditKindBonus &&
			e.Amount.Equal(dec("25.00")) &&
			e.Status == domain.CreditActive &&
			e.CreatedBy == actorID
	})).Return(nil).Once()

	entry, err := suite.service.Grant(ctx, ownerID, req, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(ownerID, entry.OwnerID)
	suite.Equal([]domain.AuditAction{domain.AuditCreditAdded}, suite.audit.actions)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CreditServiceTestSuite) TestGrant_NonPositiveAmountRejected() {
	ctx := context.Background()

	_, err := suite.service.Grant(ctx, "owner", dto.GrantCreditRequest{
		Kind:   domain.CreditKindPurchase,
		Amount: dec("-5.00"),
	}, "actor")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Empty(suite.audit.actions)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *CreditServiceTestSuite) TestGrant_PastExpiryRejected() {
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)

	_, err := suite.service.Grant(ctx, "owner", dto.GrantCreditRequest{
		Kind:      domain.CreditKindPurchase,
		Amount:    dec("10.00"),
		ExpiresAt: &past,
	}, "actor")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CreditServiceTestSuite) TestDebit_Success() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	reservationID := uuid.NewString()

	expected := &domain.DebitResult{
		OwnerID:       ownerID,
		Amount:        dec("40.00"),
		BalanceBefore: dec("80.00"),
		BalanceAfter:  dec("40.00"),
	}
	suite.mockRepo.On("DebitFIFO", ctx, ownerID, dec("40.00"), mock.MatchedBy(func(u domain.CreditEntry) bool {
		return u.Kind == domain.CreditKindUsage &&
			u.Amount.Equal(dec("-40.00")) &&
			u.Status == domain.CreditUsed &&
			u.RelatedReservationID != nil && *u.RelatedReservationID == reservationID
	}), mock.AnythingOfType("time.Time")).Return(expected, nil).Once()

	result, err := suite.service.Debit(ctx, ownerID, dec("40.00"), "reservation checkout",
		domain.CreditRefs{ReservationID: &reservationID}, ownerID)

	suite.Require().NoError(err)
	suite.True(result.BalanceAfter.Equal(dec("40.00")))
	suite.Equal([]domain.AuditAction{domain.AuditCreditDeducted}, suite.audit.actions)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CreditServiceTestSuite) TestDebit_InsufficientBalancePassedThrough() {
	ctx := context.Background()
	ownerID := uuid.NewString()

	repoErr := &apperrors.InsufficientBalanceError{
		OwnerID:   ownerID,
		Requested: dec("100.00"),
		Available: dec("12.50"),
	}
	suite.mockRepo.On("DebitFIFO", ctx, ownerID, dec("100.00"), mock.Anything, mock.Anything).
		Return(nil, repoErr).Once()

	result, err := suite.service.Debit(ctx, ownerID, dec("100.00"), "checkout", domain.CreditRefs{}, ownerID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)

	var insufficientErr *apperrors.InsufficientBalanceError
	suite.Require().ErrorAs(err, &insufficientErr)
	suite.True(insufficientErr.Shortfall().Equal(dec("87.50")))
	suite.Empty(suite.audit.actions, "failed debits must not emit a deduction audit event")
}

func (suite *CreditServiceTestSuite) TestDebit_NonPositiveAmountRejected() {
	ctx := context.Background()

	_, err := suite.service.Debit(ctx, "owner", decimal.Zero, "nope", domain.CreditRefs{}, "actor")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "DebitFIFO", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CreditServiceTestSuite) TestGetBalance_DefaultsExpiryWindow() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	expected := &domain.CreditBalance{OwnerID: ownerID, Active: dec("55.00"), ExpiringWithin: dec("5.00")}

	suite.mockRepo.On("GetBalance", ctx, ownerID, mock.AnythingOfType("time.Time"), mock.MatchedBy(func(horizon time.Time) bool {
		return horizon.After(time.Now().AddDate(0, 0, 6))
	})).Return(expected, nil).Once()

	balance, err := suite.service.GetBalance(ctx, ownerID, 0)

	suite.Require().NoError(err)
	suite.True(balance.Active.Equal(dec("55.00")))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CreditServiceTestSuite) TestSweepExpired_AuditsEachEntry() {
	ctx := context.Background()
	now := time.Now().UTC()
	expired := []domain.CreditEntry{
		{EntryID: uuid.NewString(), OwnerID: "o1", Amount: dec("10.00"), Status: domain.CreditExpired},
		{EntryID: uuid.NewString(), OwnerID: "o2", Amount: dec("2.00"), Status: domain.CreditExpired},
	}
	suite.mockRepo.On("ExpireEntries", ctx, now).Return(expired, nil).Once()

	count, err := suite.service.SweepExpired(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(2, count)
	suite.Equal([]domain.AuditAction{domain.AuditCreditExpired, domain.AuditCreditExpired}, suite.audit.actions)
}

func (suite *CreditServiceTestSuite) TestSweepExpired_RepoError() {
	ctx := context.Background()
	now := time.Now().UTC()
	suite.mockRepo.On("ExpireEntries", ctx, now).Return(nil, assert.AnError).Once()

	count, err := suite.service.SweepExpired(ctx, now)

	suite.Require().Error(err)
	suite.Zero(count)
}

func TestCreditServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CreditServiceTestSuite))
}
