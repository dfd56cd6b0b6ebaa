package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditEntry mirrors the credit_entries table.
type CreditEntry struct {
	EntryID              string          `json:"entryID"`
	OwnerID              string          `json:"ownerID"`
	Kind                 string          `json:"kind"`
	Amount               decimal.Decimal `json:"amount"`
	Status               string          `json:"status"`
	ExpiresAt            *time.Time      `json:"expiresAt"`
	RelatedReservationID *string         `json:"relatedReservationID"`
	RelatedReferralID    *string         `json:"relatedReferralID"`
	Notes                string          `json:"notes"`
	AuditFields
}
