package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// GatewayStatus is the status vocabulary of the external payment gateway.
type GatewayStatus string

const (
	GatewayAuthorized GatewayStatus = "AUTHORIZED"
	GatewayCaptured   GatewayStatus = "CAPTURED"
	GatewayVoided     GatewayStatus = "VOIDED"
	GatewayDeclined   GatewayStatus = "DECLINED"
)

// AuthorizationResult is the gateway's answer to an authorization hold.
type AuthorizationResult struct {
	GatewayRef string
	Status     GatewayStatus
}

// CaptureResult is the gateway's answer to a partial capture.
type CaptureResult struct {
	Status    GatewayStatus
	NetAmount decimal.Decimal
}

// StatusResult is the gateway's current view of a hold, used to reconcile
// ambiguous capture/void timeouts before any retry.
type StatusResult struct {
	Status         GatewayStatus
	HoldAmount     decimal.Decimal
	CapturedAmount decimal.Decimal
}

// PaymentGateway is the narrow interface to the external card network
// integration. Every call carries a caller-supplied idempotency key per
// logical attempt, and implementations are expected to honour the context
// deadline.
type PaymentGateway interface {
	Authorize(ctx context.Context, customerID string, amount decimal.Decimal, cardRef string, idempotencyKey string) (*AuthorizationResult, error)
	CapturePartial(ctx context.Context, gatewayRef string, amount decimal.Decimal, idempotencyKey string) (*CaptureResult, error)
	Void(ctx context.Context, gatewayRef string, idempotencyKey string) (*GatewayStatus, error)
	GetStatus(ctx context.Context, gatewayRef string) (*StatusResult, error)
}

// Notifier is a fire-and-forget sink informed after successful financial
// mutations. Its failure never rolls back the mutation.
type Notifier interface {
	Notify(ctx context.Context, recipientRef string, subject string, body string)
}
