package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jeffgoval/arena-sub003/internal/core/domain"
)

// CheckoutParticipant is one participant in a checkout's split. Amount is
// used in CUSTOM mode, Percent in PERCENTAGE mode; they are mutually
// exclusive per request.
type CheckoutParticipant struct {
	ParticipantID string           `json:"participantID" binding:"required"`
	DisplayName   string           `json:"displayName" binding:"required"`
	ContactRef    string           `json:"contactRef"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Percent       *decimal.Decimal `json:"percent,omitempty"`
}

// CheckoutRequest is the orchestrator's single entry point payload. The
// first participant is the organizer; elected credits are debited from the
// authenticated customer, and the card deposit hold is placed when both
// CardRef and DepositAmount are present.
type CheckoutRequest struct {
	ReservationID        string                `json:"reservationID" binding:"required"`
	TotalAmount          decimal.Decimal       `json:"totalAmount" binding:"required"`
	Mode                 domain.RateioMode     `json:"mode" binding:"required,oneof=EQUAL CUSTOM PERCENTAGE"`
	Participants         []CheckoutParticipant `json:"participants" binding:"required,min=1,dive"`
	CreditsElectedAmount *decimal.Decimal      `json:"creditsElectedAmount,omitempty"`
	CardRef              *string               `json:"cardRef,omitempty"`
	DepositAmount        *decimal.Decimal      `json:"depositAmount,omitempty"`
}

// ToRateioParticipants converts the request participants to domain inputs.
func (r CheckoutRequest) ToRateioParticipants() []domain.RateioParticipant {
	out := make([]domain.RateioParticipant, len(r.Participants))
	for i, p := range r.Participants {
		out[i] = domain.RateioParticipant{
			ParticipantID:   p.ParticipantID,
			DisplayName:     p.DisplayName,
			ContactRef:      p.ContactRef,
			AssignedAmount:  p.Amount,
			AssignedPercent: p.Percent,
		}
	}
	return out
}

// RateioResultResponse is the server-computed split returned to the caller.
type RateioResultResponse struct {
	Mode            string               `json:"mode"`
	TotalAmount     decimal.Decimal      `json:"totalAmount"`
	Participants    []RateioShareDetails `json:"participants"`
	OrganizerAmount decimal.Decimal      `json:"organizerAmount"`
}

// RateioShareDetails is one participant's resolved amount and percent.
type RateioShareDetails struct {
	ParticipantID string          `json:"participantID"`
	DisplayName   string          `json:"displayName"`
	Amount        decimal.Decimal `json:"amount"`
	Percent       decimal.Decimal `json:"percent"`
}

// ToRateioResultResponse converts a domain.RateioResult to its response DTO.
func ToRateioResultResponse(r *domain.RateioResult) RateioResultResponse {
	shares := make([]RateioShareDetails, len(r.Participants))
	for i, s := range r.Participants {
		shares[i] = RateioShareDetails{
			ParticipantID: s.ParticipantID,
			DisplayName:   s.DisplayName,
			Amount:        s.Amount,
			Percent:       s.Percent,
		}
	}
	return RateioResultResponse{
		Mode:            string(r.Mode),
		TotalAmount:     r.TotalAmount,
		Participants:    shares,
		OrganizerAmount: r.OrganizerAmount,
	}
}

// SettlementResult is the checkout response: the computed split, the credit
// debit applied (if elected) and the deposit hold placed (if requested).
type SettlementResult struct {
	ReservationID  string               `json:"reservationID"`
	Rateio         RateioResultResponse `json:"rateio"`
	CreditsApplied decimal.Decimal      `json:"creditsApplied"`
	CreditDebit    *DebitResultResponse `json:"creditDebit,omitempty"`
	Deposit        *PreAuthResponse     `json:"deposit,omitempty"`
}
