package domain

import (
	"encoding/json"
	"time"
)

// AuditAction is the closed set of financial actions the audit log records.
type AuditAction string

const (
	AuditCreditAdded         AuditAction = "CREDIT_ADDED"
	AuditCreditDeducted      AuditAction = "CREDIT_DEDUCTED"
	AuditCreditExpired       AuditAction = "CREDIT_EXPIRED"
	AuditPaymentCreated      AuditAction = "PAYMENT_CREATED"
	AuditPaymentCompleted    AuditAction = "PAYMENT_COMPLETED"
	AuditPaymentRefunded     AuditAction = "PAYMENT_REFUNDED"
	AuditPaymentExpired      AuditAction = "PAYMENT_EXPIRED"
	AuditReservationModified AuditAction = "RESERVATION_MODIFIED"
)

// AuditEntry is a write-once record of one financial mutation. The log is
// append-only; only the retention sweep prunes entries past the horizon.
type AuditEntry struct {
	EntryID    string          `json:"entryID"`
	Action     AuditAction     `json:"action"`
	ActorID    string          `json:"actorID"`
	TargetID   string          `json:"targetID"`
	TargetType string          `json:"targetType"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// AuditFilter narrows an audit query. Zero values mean "no filter".
type AuditFilter struct {
	ActorID    string
	Action     AuditAction
	TargetID   string
	TargetType string
	From       *time.Time
	To         *time.Time
}
