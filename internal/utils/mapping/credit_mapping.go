package mapping

import (
	"github.com/jeffgoval/arena-sub003/internal/core/domain"
	"github.com/jeffgoval/arena-sub003/internal/models"
)

// ToModelCreditEntry converts a domain CreditEntry to its persistence model.
func ToModelCreditEntry(d domain.CreditEntry) models.CreditEntry {
	return models.CreditEntry{
		EntryID:              d.EntryID,
		OwnerID:              d.OwnerID,
		Kind:                 string(d.Kind),
		Amount:               d.Amount,
		Status:               string(d.Status),
		ExpiresAt:            d.ExpiresAt,
		RelatedReservationID: d.RelatedReservationID,
		RelatedReferralID:    d.RelatedReferralID,
		Notes:                d.Notes,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCreditEntry converts a persisted row back to the domain type.
func ToDomainCreditEntry(m models.CreditEntry) domain.CreditEntry {
	return domain.CreditEntry{
		EntryID:              m.EntryID,
		OwnerID:              m.OwnerID,
		Kind:                 domain.CreditKind(m.Kind),
		Amount:               m.Amount,
		Status:               domain.CreditStatus(m.Status),
		ExpiresAt:            m.ExpiresAt,
		RelatedReservationID: m.RelatedReservationID,
		RelatedReferralID:    m.RelatedReferralID,
		Notes:                m.Notes,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCreditEntrySlice converts a slice of rows.
func ToDomainCreditEntrySlice(ms []models.CreditEntry) []domain.CreditEntry {
	out := make([]domain.CreditEntry, len(ms))
	for i, m := range ms {
		out[i] = ToDomainCreditEntry(m)
	}
	return out
}
