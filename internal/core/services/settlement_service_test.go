package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/jeffgoval/arena-sub003/internal/apperrors"
	"github.com/jeffgoval/arena-sub003/internal/core/domain"
	"github.com/jeffgoval/arena-sub003/internal/core/services"
	"github.com/jeffgoval/arena-sub003/internal/dto"
)

// --- Mock CreditLedgerSvcFacade ---
type MockCreditSvc struct {
	mock.Mock
}

func (m *MockCreditSvc) Grant(ctx context.Context, ownerID string, req dto.GrantCreditRequest, actorID string) (*domain.CreditEntry, error) {
	args := m.Called(ctx, ownerID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditEntry), args.Error(1)
}

func (m *MockCreditSvc) GetBalance(ctx context.Context, ownerID string, expiringWithinDays int) (*domain.CreditBalance, error) {
	args := m.Called(ctx, ownerID, expiringWithinDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditBalance), args.Error(1)
}

func (m *MockCreditSvc) Debit(ctx context.Context, ownerID string, amount decimal.Decimal, reason string, refs domain.CreditRefs, actorID string) (*domain.DebitResult, error) {
	args := m.Called(ctx, ownerID, amount, reason, refs, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebitResult), args.Error(1)
}

func (m *MockCreditSvc) ListEntries(ctx context.Context, ownerID string, params dto.ListEntriesParams) ([]domain.CreditEntry, *string, error) {
	args := m.Called(ctx, ownerID, params)
	var entries []domain.CreditEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.CreditEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockCreditSvc) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

// --- Mock PreAuthSvcFacade ---
type MockPreAuthSvc struct {
	mock.Mock
}

func (m *MockPreAuthSvc) Create(ctx context.Context, reservationID, customerID string, holdAmount decimal.Decimal, cardRef string, actorID string) (*domain.PreAuthorization, error) {
	args := m.Called(ctx, reservationID, customerID, holdAmount, cardRef, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PreAuthorization), args.Error(1)
}

func (m *MockPreAuthSvc) Capture(ctx context.Context, preAuthID string, amount decimal.Decimal, actorID string) (*domain.PreAuthorization, error) {
	args := m.Called(ctx, preAuthID, amount, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PreAuthorization), args.Error(1)
}

func (m *MockPreAuthSvc) Release(ctx context.Context, preAuthID string, actorID string) (*domain.PreAuthorization, error) {
	args := m.Called(ctx, preAuthID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PreAuthorization), args.Error(1)
}

func (m *MockPreAuthSvc) GetByID(ctx context.Context, preAuthID string) (*domain.PreAuthorization, error) {
	args := m.Called(ctx, preAuthID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PreAuthorization), args.Error(1)
}

func (m *MockPreAuthSvc) ExpireStale(ctx context.Context, now time.Time, ttl time.Duration) (int, error) {
	args := m.Called(ctx, now, ttl)
	return args.Int(0), args.Error(1)
}

// --- Test Suite ---
type SettlementServiceTestSuite struct {
	suite.Suite
	mockCredit  *MockCreditSvc
	mockPreAuth *MockPreAuthSvc
	notifier    *recordingNotifier
	service     *services.SettlementService
}

func (suite *SettlementServiceTestSuite) SetupTest() {
	suite.mockCredit = new(MockCreditSvc)
	suite.mockPreAuth = new(MockPreAuthSvc)
	suite.notifier = &recordingNotifier{}
	// The rateio dependency is pure, so the real service is used.
	rateio := services.NewRateioService(&recordingAudit{})
	suite.service = services.NewSettlementService(suite.mockCredit, rateio, suite.mockPreAuth, suite.notifier)
}

func (suite *SettlementServiceTestSuite) baseRequest() dto.CheckoutRequest {
	return dto.CheckoutRequest{
		ReservationID: uuid.NewString(),
		TotalAmount:   dec("90.00"),
		Mode:          domain.RateioEqual,
		Participants: []dto.CheckoutParticipant{
			{ParticipantID: "org", DisplayName: "Organizer", ContactRef: "org@example.com"},
			{ParticipantID: "p2", DisplayName: "Player Two", ContactRef: "p2@example.com"},
			{ParticipantID: "p3", DisplayName: "Player Three"},
		},
	}
}

func (suite *SettlementServiceTestSuite) TestCheckout_SplitOnly() {
	ctx := context.Background()
	customerID := uuid.NewString()
	req := suite.baseRequest()

	result, err := suite.service.Checkout(ctx, req, customerID)

	suite.Require().NoError(err)
	suite.Equal(req.ReservationID, result.ReservationID)
	suite.Require().Len(result.Rateio.Participants, 3)
	suite.True(result.CreditsApplied.IsZero())
	suite.Nil(result.CreditDebit)
	suite.Nil(result.Deposit)
	suite.Len(suite.notifier.recipients, 2, "only participants with a contact ref are notified")
	suite.mockCredit.AssertNotCalled(suite.T(), "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestCheckout_WithCreditsAndDeposit() {
	ctx := context.Background()
	customerID := uuid.NewString()
	req := suite.baseRequest()
	elected := dec("20.00")
	deposit := dec("50.00")
	cardRef := "card_1"
	req.CreditsElectedAmount = &elected
	req.CardRef = &cardRef
	req.DepositAmount = &deposit

	suite.mockCredit.On("Debit", ctx, customerID, dec("20.00"), mock.AnythingOfType("string"),
		domain.CreditRefs{ReservationID: &req.ReservationID}, customerID).
		Return(&domain.DebitResult{OwnerID: customerID, Amount: dec("20.00"), BalanceBefore: dec("25.00"), BalanceAfter: dec("5.00")}, nil).Once()
	suite.mockPreAuth.On("Create", ctx, req.ReservationID, customerID, dec("50.00"), "card_1", customerID).
		Return(&domain.PreAuthorization{
			PreAuthID:     uuid.NewString(),
			ReservationID: req.ReservationID,
			CustomerID:    customerID,
			HoldAmount:    deposit,
			Status:        domain.PreAuthHeld,
		}, nil).Once()

	result, err := suite.service.Checkout(ctx, req, customerID)

	suite.Require().NoError(err)
	suite.True(result.CreditsApplied.Equal(dec("20.00")))
	suite.Require().NotNil(result.CreditDebit)
	suite.Require().NotNil(result.Deposit)
	suite.Equal("HELD", result.Deposit.Status)
	suite.mockCredit.AssertExpectations(suite.T())
	suite.mockPreAuth.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestCheckout_ElectedCreditsCappedAtTotal() {
	ctx := context.Background()
	customerID := uuid.NewString()
	req := suite.baseRequest()
	elected := dec("150.00")
	req.CreditsElectedAmount = &elected

	suite.mockCredit.On("Debit", ctx, customerID, dec("90.00"), mock.AnythingOfType("string"), mock.Anything, customerID).
		Return(&domain.DebitResult{OwnerID: customerID, Amount: dec("90.00")}, nil).Once()

	result, err := suite.service.Checkout(ctx, req, customerID)

	suite.Require().NoError(err)
	suite.True(result.CreditsApplied.Equal(dec("90.00")))
	suite.mockCredit.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestCheckout_DepositFailureCompensatesDebit() {
	ctx := context.Background()
	customerID := uuid.NewString()
	req := suite.baseRequest()
	elected := dec("20.00")
	deposit := dec("50.00")
	cardRef := "card_declined"
	req.CreditsElectedAmount = &elected
	req.CardRef = &cardRef
	req.DepositAmount = &deposit

	suite.mockCredit.On("Debit", ctx, customerID, dec("20.00"), mock.AnythingOfType("string"), mock.Anything, customerID).
		Return(&domain.DebitResult{OwnerID: customerID, Amount: dec("20.00")}, nil).Once()
	suite.mockPreAuth.On("Create", ctx, req.ReservationID, customerID, dec("50.00"), "card_declined", customerID).
		Return(nil, apperrors.NewAppError(402, "card authorization declined", apperrors.ErrGateway)).Once()
	suite.mockCredit.On("Grant", ctx, customerID, mock.MatchedBy(func(g dto.GrantCreditRequest) bool {
		return g.Kind == domain.CreditKindBonus && g.Amount.Equal(dec("20.00")) &&
			g.ReservationID != nil && *g.ReservationID == req.ReservationID
	}), "system").Return(&domain.CreditEntry{}, nil).Once()

	result, err := suite.service.Checkout(ctx, req, customerID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrGateway)
	suite.Empty(suite.notifier.recipients, "failed settlements must not notify")
	suite.mockCredit.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestCheckout_InsufficientBalanceStopsSettlement() {
	ctx := context.Background()
	customerID := uuid.NewString()
	req := suite.baseRequest()
	elected := dec("20.00")
	req.CreditsElectedAmount = &elected

	suite.mockCredit.On("Debit", ctx, customerID, dec("20.00"), mock.AnythingOfType("string"), mock.Anything, customerID).
		Return(nil, &apperrors.InsufficientBalanceError{OwnerID: customerID, Requested: dec("20.00"), Available: dec("5.00")}).Once()

	result, err := suite.service.Checkout(ctx, req, customerID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.mockPreAuth.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestCheckout_CardRefWithoutDepositRejected() {
	ctx := context.Background()
	req := suite.baseRequest()
	cardRef := "card_1"
	req.CardRef = &cardRef

	result, err := suite.service.Checkout(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestSettlementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}
