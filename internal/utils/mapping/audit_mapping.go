package mapping

import (
	"github.com/jeffgoval/arena-sub003/internal/core/domain"
	"github.com/jeffgoval/arena-sub003/internal/models"
)

// ToModelAuditEntry converts a domain AuditEntry to its persistence model.
func ToModelAuditEntry(d domain.AuditEntry) models.AuditEntry {
	return models.AuditEntry{
		EntryID:    d.EntryID,
		Action:     string(d.Action),
		ActorID:    d.ActorID,
		TargetID:   d.TargetID,
		TargetType: d.TargetType,
		Before:     d.Before,
		After:      d.After,
		Metadata:   d.Metadata,
		Timestamp:  d.Timestamp,
	}
}

// ToDomainAuditEntry converts a persisted row back to the domain type.
func ToDomainAuditEntry(m models.AuditEntry) domain.AuditEntry {
	return domain.AuditEntry{
		EntryID:    m.EntryID,
		Action:     domain.AuditAction(m.Action),
		ActorID:    m.ActorID,
		TargetID:   m.TargetID,
		TargetType: m.TargetType,
		Before:     m.Before,
		After:      m.After,
		Metadata:   m.Metadata,
		Timestamp:  m.Timestamp,
	}
}

// ToDomainAuditEntrySlice converts a slice of rows.
func ToDomainAuditEntrySlice(ms []models.AuditEntry) []domain.AuditEntry {
	out := make([]domain.AuditEntry, len(ms))
	for i, m := range ms {
		out[i] = ToDomainAuditEntry(m)
	}
	return out
}
