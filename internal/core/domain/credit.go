package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditKind classifies why a ledger line exists.
type CreditKind string

const (
	CreditKindPurchase   CreditKind = "PURCHASE"
	CreditKindBonus      CreditKind = "BONUS"
	CreditKindReferral   CreditKind = "REFERRAL"
	CreditKindUsage      CreditKind = "USAGE"
	CreditKindExpiration CreditKind = "EXPIRATION"
)

// CreditStatus is the lifecycle state of a ledger line.
type CreditStatus string

const (
	CreditActive  CreditStatus = "ACTIVE"
	CreditUsed    CreditStatus = "USED"
	CreditExpired CreditStatus = "EXPIRED"
)

// CreditEntry is one signed line in a customer's credit ledger.
// Positive amounts grant credit, negative amounts record consumption.
// The spendable balance of an owner is the sum of Amount over ACTIVE,
// unexpired entries; Amount is only ever mutated by the FIFO consumption
// inside the repository's debit transaction.
type CreditEntry struct {
	EntryID              string          `json:"entryID"`
	OwnerID              string          `json:"ownerID"`
	Kind                 CreditKind      `json:"kind"`
	Amount               decimal.Decimal `json:"amount"`
	Status               CreditStatus    `json:"status"`
	ExpiresAt            *time.Time      `json:"expiresAt,omitempty"` // nil = never expires
	RelatedReservationID *string         `json:"relatedReservationID,omitempty"`
	RelatedReferralID    *string         `json:"relatedReferralID,omitempty"`
	Notes                string          `json:"notes"`
	AuditFields
}

// CreditBalance aggregates an owner's spendable credit.
type CreditBalance struct {
	OwnerID        string          `json:"ownerID"`
	Active         decimal.Decimal `json:"active"`
	ExpiringWithin decimal.Decimal `json:"expiringWithin"`
}

// CreditRefs carries optional back-references attached to grants and debits.
type CreditRefs struct {
	ReservationID *string
	ReferralID    *string
}

// DebitResult reports the outcome of a successful FIFO debit.
type DebitResult struct {
	OwnerID         string          `json:"ownerID"`
	Amount          decimal.Decimal `json:"amount"`
	ConsumedEntries []CreditEntry   `json:"consumedEntries"`
	UsageEntry      CreditEntry     `json:"usageEntry"`
	BalanceBefore   decimal.Decimal `json:"balanceBefore"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
}
