package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jeffgoval/arena-sub003/internal/core/domain"
)

// CapturePreAuthRequest defines the amount to capture from a held deposit.
type CapturePreAuthRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason"`
}

// PreAuthResponse defines the data returned for a pre-authorization.
type PreAuthResponse struct {
	PreAuthID      string          `json:"preAuthID"`
	ReservationID  string          `json:"reservationID"`
	CustomerID     string          `json:"customerID"`
	HoldAmount     decimal.Decimal `json:"holdAmount"`
	CapturedAmount decimal.Decimal `json:"capturedAmount"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	CapturedAt     *time.Time      `json:"capturedAt,omitempty"`
	ReleasedAt     *time.Time      `json:"releasedAt,omitempty"`
}

// ToPreAuthResponse converts a domain.PreAuthorization to its response DTO.
// The gateway reference is deliberately not exposed.
func ToPreAuthResponse(p *domain.PreAuthorization) PreAuthResponse {
	return PreAuthResponse{
		PreAuthID:      p.PreAuthID,
		ReservationID:  p.ReservationID,
		CustomerID:     p.CustomerID,
		HoldAmount:     p.HoldAmount,
		CapturedAmount: p.CapturedAmount,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
		CapturedAt:     p.CapturedAt,
		ReleasedAt:     p.ReleasedAt,
	}
}
