package mapping

import (
	"github.com/jeffgoval/arena-sub003/internal/core/domain"
	"github.com/jeffgoval/arena-sub003/internal/models"
)

// ToModelPreAuthorization converts a domain PreAuthorization to its persistence model.
func ToModelPreAuthorization(d domain.PreAuthorization) models.PreAuthorization {
	return models.PreAuthorization{
		PreAuthID:      d.PreAuthID,
		ReservationID:  d.ReservationID,
		CustomerID:     d.CustomerID,
		HoldAmount:     d.HoldAmount,
		CapturedAmount: d.CapturedAmount,
		Status:         string(d.Status),
		GatewayRef:     d.GatewayRef,
		CapturedAt:     d.CapturedAt,
		ReleasedAt:     d.ReleasedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPreAuthorization converts a persisted row back to the domain type.
func ToDomainPreAuthorization(m models.PreAuthorization) domain.PreAuthorization {
	return domain.PreAuthorization{
		PreAuthID:      m.PreAuthID,
		ReservationID:  m.ReservationID,
		CustomerID:     m.CustomerID,
		HoldAmount:     m.HoldAmount,
		CapturedAmount: m.CapturedAmount,
		Status:         domain.PreAuthStatus(m.Status),
		GatewayRef:     m.GatewayRef,
		CapturedAt:     m.CapturedAt,
		ReleasedAt:     m.ReleasedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
