package services_test

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/jeffgoval/arena-sub003/internal/core/domain"
	"github.com/jeffgoval/arena-sub003/internal/core/ports"
	portsrepo "github.com/jeffgoval/arena-sub003/internal/core/ports/repositories"
)

// --- Mock CreditRepositoryFacade ---
type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) SaveEntry(ctx context.Context, entry domain.CreditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockCreditRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.CreditEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditEntry), args.Error(1)
}

func (m *MockCreditRepository) ListEntriesByOwner(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.CreditEntry, *string, error) {
	args := m.Called(ctx, ownerID, limit, nextToken)
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

func (m *MockCreditRepository) GetBalance(ctx context.Context, ownerID string, now time.Time, expiringBefore time.Time) (*domain.CreditBalance, error) {
	args := m.Called(ctx, ownerID, now, expiringBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditBalance), args.Error(1)
}

func (m *MockCreditRepository) DebitFIFO(ctx context.Context, ownerID string, amount decimal.Decimal, usage domain.CreditEntry, now time.Time) (*domain.DebitResult, error) {
	args := m.Called(ctx, ownerID, amount, usage, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebitResult), args.Error(1)
}

func (m *MockCreditRepository) ExpireEntries(ctx context.Context, now time.Time) ([]domain.CreditEntry, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditEntry), args.Error(1)
}

// --- Mock PreAuthRepositoryFacade ---
type MockPreAuthRepository struct {
	mock.Mock
}

func (m *MockPreAuthRepository) SavePreAuthorization(ctx context.Context, preAuth domain.PreAuthorization) error {
	args := m.Called(ctx, preAuth)
	return args.Error(0)
}

func (m *MockPreAuthRepository) FindByID(ctx context.Context, preAuthID string) (*domain.PreAuthorization, error) {
	args := m.Called(ctx, preAuthID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PreAuthorization), args.Error(1)
}

// UpdateWithLock runs the callback against the stored record, mimicking the
// row-locked transition of the real repository.
func (m *MockPreAuthRepository) UpdateWithLock(ctx context.Context, preAuthID string, fn func(current domain.PreAuthorization) (portsrepo.PreAuthTransitionResult, error)) (*domain.PreAuthorization, error) {
	args := m.Called(ctx, preAuthID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	current := args.Get(0).(*domain.PreAuthorization)
	result, err := fn(*current)
	if err != nil {
		return nil, err
	}
	if !result.Write {
		return current, nil
	}
	return &result.Updated, nil
}

func (m *MockPreAuthRepository) ListStaleHeld(ctx context.Context, cutoff time.Time, limit int) ([]domain.PreAuthorization, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PreAuthorization), args.Error(1)
}

// --- Mock AuditRepositoryFacade ---
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) InsertEntry(ctx context.Context, entry domain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) Query(ctx context.Context, filter domain.AuditFilter, limit int, nextToken *string) ([]domain.AuditEntry, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var entries []domain.AuditEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.AuditEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockAuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock PaymentGateway ---
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) Authorize(ctx context.Context, customerID string, amount decimal.Decimal, cardRef string, idempotencyKey string) (*ports.AuthorizationResult, error) {
	args := m.Called(ctx, customerID, amount, cardRef, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.AuthorizationResult), args.Error(1)
}

func (m *MockPaymentGateway) CapturePartial(ctx context.Context, gatewayRef string, amount decimal.Decimal, idempotencyKey string) (*ports.CaptureResult, error) {
	args := m.Called(ctx, gatewayRef, amount, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.CaptureResult), args.Error(1)
}

func (m *MockPaymentGateway) Void(ctx context.Context, gatewayRef string, idempotencyKey string) (*ports.GatewayStatus, error) {
	args := m.Called(ctx, gatewayRef, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.GatewayStatus), args.Error(1)
}

func (m *MockPaymentGateway) GetStatus(ctx context.Context, gatewayRef string) (*ports.StatusResult, error) {
	args := m.Called(ctx, gatewayRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.StatusResult), args.Error(1)
}

// --- Recording audit stub ---
// recordingAudit captures actions without a backing store, so tests can
// assert which audit events a service emitted.
type recordingAudit struct {
	actions []domain.AuditAction
}

func (a *recordingAudit) Record(_ context.Context, action domain.AuditAction, actorID, targetID, targetType string, _, _, _ any) *domain.AuditEntry {
	a.actions = append(a.actions, action)
	return &domain.AuditEntry{
		EntryID:    "audit-" + string(action),
		Action:     action,
		ActorID:    actorID,
		TargetID:   targetID,
		TargetType: targetType,
		Timestamp:  time.Now().UTC(),
	}
}

func (a *recordingAudit) Query(context.Context, domain.AuditFilter, int, *string) ([]domain.AuditEntry, *string, error) {
	return nil, nil, nil
}

func (a *recordingAudit) ExportCSV(context.Context, domain.AuditFilter, io.Writer) error {
	return nil
}

func (a *recordingAudit) ExportJSON(context.Context, domain.AuditFilter, io.Writer) error {
	return nil
}

func (a *recordingAudit) PruneOlderThan(context.Context, time.Duration, time.Time) (int64, error) {
	return 0, nil
}

// --- Recording notifier stub ---
type recordingNotifier struct {
	recipients []string
}

func (n *recordingNotifier) Notify(_ context.Context, recipientRef string, _ string, _ string) {
	n.recipients = append(n.recipients, recipientRef)
}
