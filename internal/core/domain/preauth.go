package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PreAuthStatus is the lifecycle state of a card hold.
// HELD is the only non-terminal state.
type PreAuthStatus string

const (
	PreAuthHeld     PreAuthStatus = "HELD"
	PreAuthCaptured PreAuthStatus = "CAPTURED"
	PreAuthReleased PreAuthStatus = "RELEASED"
	PreAuthExpired  PreAuthStatus = "EXPIRED"
)

// PreAuthorization is a refundable security deposit placed as a card hold.
// CapturedAmount is set exactly once, on the HELD -> CAPTURED transition,
// and never exceeds HoldAmount.
type PreAuthorization struct {
	PreAuthID      string          `json:"preAuthID"`
	ReservationID  string          `json:"reservationID"`
	CustomerID     string          `json:"customerID"`
	HoldAmount     decimal.Decimal `json:"holdAmount"`
	CapturedAmount decimal.Decimal `json:"capturedAmount"`
	Status         PreAuthStatus   `json:"status"`
	GatewayRef     string          `json:"gatewayRef"`
	CapturedAt     *time.Time      `json:"capturedAt,omitempty"`
	ReleasedAt     *time.Time      `json:"releasedAt,omitempty"`
	AuditFields
}

// Terminal reports whether the hold has reached a final state.
func (p PreAuthorization) Terminal() bool {
	return p.Status != PreAuthHeld
}
