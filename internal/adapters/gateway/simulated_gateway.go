package gateway

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jeffgoval/arena-sub003/internal/apperrors"
	"github.com/jeffgoval/arena-sub003/internal/core/ports"
)

// SimulatedGateway is an in-memory processor used when no real gateway is
// configured. Card refs containing "declined" are declined, which keeps the
// failure path exercisable in local environments.
type SimulatedGateway struct {
	mu    sync.Mutex
	holds map[string]*simulatedHold
}

type simulatedHold struct {
	status         ports.GatewayStatus
	holdAmount     decimal.Decimal
	capturedAmount decimal.Decimal
}

func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{holds: make(map[string]*simulatedHold)}
}

var _ ports.PaymentGateway = (*SimulatedGateway)(nil)

func (g *SimulatedGateway) Authorize(_ context.Context, _ string, amount decimal.Decimal, cardRef string, _ string) (*ports.AuthorizationResult, error) {
	if strings.Contains(cardRef, "declined") {
		return &ports.AuthorizationResult{Status: ports.GatewayDeclined}, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	ref := "sim_" + uuid.New().String()
	g.holds[ref] = &simulatedHold{
		status:     ports.GatewayAuthorized,
		holdAmount: amount,
	}
	return &ports.AuthorizationResult{GatewayRef: ref, Status: ports.GatewayAuthorized}, nil
}

func (g *SimulatedGateway) CapturePartial(_ context.Context, gatewayRef string, amount decimal.Decimal, _ string) (*ports.CaptureResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	hold, ok := g.holds[gatewayRef]
	if !ok {
		return nil, apperrors.NewNotFoundError("unknown gateway reference " + gatewayRef)
	}
	if hold.status != ports.GatewayAuthorized {
		return nil, apperrors.NewAppError(409, "hold is not capturable", apperrors.ErrInvalidState)
	}
	if amount.GreaterThan(hold.holdAmount) {
		return nil, apperrors.NewAppError(400, "capture exceeds hold", apperrors.ErrValidation)
	}

	hold.status = ports.GatewayCaptured
	hold.capturedAmount = amount
	return &ports.CaptureResult{Status: ports.GatewayCaptured, NetAmount: amount}, nil
}

func (g *SimulatedGateway) Void(_ context.Context, gatewayRef string, _ string) (*ports.GatewayStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	hold, ok := g.holds[gatewayRef]
	if !ok {
		return nil, apperrors.NewNotFoundError("unknown gateway reference " + gatewayRef)
	}
	if hold.status == ports.GatewayAuthorized {
		hold.status = ports.GatewayVoided
	}
	status := hold.status
	return &status, nil
}

func (g *SimulatedGateway) GetStatus(_ context.Context, gatewayRef string) (*ports.StatusResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	hold, ok := g.holds[gatewayRef]
	if !ok {
		return nil, apperrors.NewNotFoundError("unknown gateway reference " + gatewayRef)
	}
	return &ports.StatusResult{
		Status:         hold.status,
		HoldAmount:     hold.holdAmount,
		CapturedAmount: hold.capturedAmount,
	}, nil
}
