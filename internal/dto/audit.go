package dto

import (
	"encoding/json"
	"time"

	"github.com/jeffgoval/arena-sub003/internal/core/domain"
)

// AuditQueryParams defines the filters accepted by the audit query endpoint.
type AuditQueryParams struct {
	ActorID    string     `form:"actorID"`
	Action     string     `form:"action"`
	TargetID   string     `form:"targetID"`
	TargetType string     `form:"targetType"`
	From       *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To         *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit      int        `form:"limit,default=50"`
	NextToken  *string    `form:"nextToken"`
}

// ToAuditFilter converts the query params to a domain filter.
func (p AuditQueryParams) ToAuditFilter() domain.AuditFilter {
	return domain.AuditFilter{
		ActorID:    p.ActorID,
		Action:     domain.AuditAction(p.Action),
		TargetID:   p.TargetID,
		TargetType: p.TargetType,
		From:       p.From,
		To:         p.To,
	}
}

// AuditEntryResponse defines the data returned for one audit entry.
type AuditEntryResponse struct {
	EntryID    string          `json:"entryID"`
	Action     string          `json:"action"`
	ActorID    string          `json:"actorID"`
	TargetID   string          `json:"targetID"`
	TargetType string          `json:"targetType"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// ToAuditEntryResponse converts a domain.AuditEntry to its response DTO.
func ToAuditEntryResponse(e *domain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		EntryID:    e.EntryID,
		Action:     string(e.Action),
		ActorID:    e.ActorID,
		TargetID:   e.TargetID,
		TargetType: e.TargetType,
		Before:     e.Before,
		After:      e.After,
		Metadata:   e.Metadata,
		Timestamp:  e.Timestamp,
	}
}

// ListAuditResponse wraps a page of audit entries.
type ListAuditResponse struct {
	Entries   []AuditEntryResponse `json:"entries"`
	NextToken *string              `json:"nextToken,omitempty"`
}

// ToListAuditResponse converts a page of domain entries.
func ToListAuditResponse(entries []domain.AuditEntry, nextToken *string) ListAuditResponse {
	out := make([]AuditEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToAuditEntryResponse(&entries[i])
	}
	return ListAuditResponse{Entries: out, NextToken: nextToken}
}
