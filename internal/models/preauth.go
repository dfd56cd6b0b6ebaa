package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PreAuthorization mirrors the pre_authorizations table.
type PreAuthorization struct {
	PreAuthID      string          `json:"preAuthID"`
	ReservationID  string          `json:"reservationID"`
	CustomerID     string          `json:"customerID"`
	HoldAmount     decimal.Decimal `json:"holdAmount"`
	CapturedAmount decimal.Decimal `json:"capturedAmount"`
	Status         string          `json:"status"`
	GatewayRef     string          `json:"gatewayRef"`
	CapturedAt     *time.Time      `json:"capturedAt"`
	ReleasedAt     *time.Time      `json:"releasedAt"`
	AuditFields
}
