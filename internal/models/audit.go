package models

import (
	"encoding/json"
	"time"
)

// AuditEntry mirrors the audit_entries table. Before/After/Metadata are
// stored as jsonb.
type AuditEntry struct {
	EntryID    string          `json:"entryID"`
	Action     string          `json:"action"`
	ActorID    string          `json:"actorID"`
	TargetID   string          `json:"targetID"`
	TargetType string          `json:"targetType"`
	Before     json.RawMessage `json:"before"`
	After      json.RawMessage `json:"after"`
	Metadata   json.RawMessage `json:"metadata"`
	Timestamp  time.Time       `json:"timestamp"`
}
