package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jeffgoval/arena-sub003/internal/core/domain"
)

// GrantCreditRequest defines the data needed to grant credit to an owner.
type GrantCreditRequest struct {
	Kind          domain.CreditKind `json:"kind" binding:"required,oneof=PURCHASE BONUS REFERRAL"`
	Amount        decimal.Decimal   `json:"amount" binding:"required"`
	ExpiresAt     *time.Time        `json:"expiresAt"` // Optional, nil = never expires
	ReservationID *string           `json:"reservationID"`
	ReferralID    *string           `json:"referralID"`
	Notes         string            `json:"notes"`
}

// DebitCreditRequest defines a direct ledger debit (used by the orchestrator
// and by privileged manual adjustments).
type DebitCreditRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Reason        string          `json:"reason" binding:"required"`
	ReservationID *string         `json:"reservationID"`
}

// CreditEntryResponse defines the data returned for one ledger line.
type CreditEntryResponse struct {
	EntryID              string          `json:"entryID"`
	OwnerID              string          `json:"ownerID"`
	Kind                 string          `json:"kind"`
	Amount               decimal.Decimal `json:"amount"`
	Status               string          `json:"status"`
	ExpiresAt            *time.Time      `json:"expiresAt,omitempty"`
	RelatedReservationID *string         `json:"relatedReservationID,omitempty"`
	RelatedReferralID    *string         `json:"relatedReferralID,omitempty"`
	Notes                string          `json:"notes,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
}

// ToCreditEntryResponse converts a domain.CreditEntry to its response DTO.
func ToCreditEntryResponse(e *domain.CreditEntry) CreditEntryResponse {
	return CreditEntryResponse{
		EntryID:              e.EntryID,
		OwnerID:              e.OwnerID,
		Kind:                 string(e.Kind),
		Amount:               e.Amount,
		Status:               string(e.Status),
		ExpiresAt:            e.ExpiresAt,
		RelatedReservationID: e.RelatedReservationID,
		RelatedReferralID:    e.RelatedReferralID,
		Notes:                e.Notes,
		CreatedAt:            e.CreatedAt,
	}
}

// ToCreditEntryResponses converts a slice of ledger lines.
func ToCreditEntryResponses(entries []domain.CreditEntry) []CreditEntryResponse {
	out := make([]CreditEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToCreditEntryResponse(&entries[i])
	}
	return out
}

// ListEntriesParams defines query parameters for listing ledger history.
type ListEntriesParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// LedgerResponse wraps an owner's balance and paginated entry history.
type LedgerResponse struct {
	OwnerID        string                `json:"ownerID"`
	Active         decimal.Decimal       `json:"active"`
	ExpiringWithin decimal.Decimal       `json:"expiringWithin"`
	Entries        []CreditEntryResponse `json:"entries"`
	NextToken      *string               `json:"nextToken,omitempty"`
}

// DebitResultResponse summarizes a successful debit.
type DebitResultResponse struct {
	OwnerID         string                `json:"ownerID"`
	Amount          decimal.Decimal       `json:"amount"`
	ConsumedEntries []CreditEntryResponse `json:"consumedEntries"`
	BalanceBefore   decimal.Decimal       `json:"balanceBefore"`
	BalanceAfter    decimal.Decimal       `json:"balanceAfter"`
}

// ToDebitResultResponse converts a domain.DebitResult to its response DTO.
func ToDebitResultResponse(r *domain.DebitResult) DebitResultResponse {
	return DebitResultResponse{
		OwnerID:         r.OwnerID,
		Amount:          r.Amount,
		ConsumedEntries: ToCreditEntryResponses(r.ConsumedEntries),
		BalanceBefore:   r.BalanceBefore,
		BalanceAfter:    r.BalanceAfter,
	}
}
