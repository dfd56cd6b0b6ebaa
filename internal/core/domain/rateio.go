package domain

import "github.com/shopspring/decimal"

// RateioMode selects how a reservation's total is split among participants.
type RateioMode string

const (
	RateioEqual      RateioMode = "EQUAL"
	RateioCustom     RateioMode = "CUSTOM"
	RateioPercentage RateioMode = "PERCENTAGE"
)

// RateioParticipant is one person in a split request. AssignedAmount is used
// in CUSTOM mode, AssignedPercent in PERCENTAGE mode; EQUAL mode ignores both.
// The first participant is the organizer.
type RateioParticipant struct {
	ParticipantID   string           `json:"participantID"`
	DisplayName     string           `json:"displayName"`
	ContactRef      string           `json:"contactRef"`
	AssignedAmount  *decimal.Decimal `json:"assignedAmount,omitempty"`
	AssignedPercent *decimal.Decimal `json:"assignedPercent,omitempty"`
}

// RateioShare is one participant's resolved share.
type RateioShare struct {
	ParticipantID string          `json:"participantID"`
	DisplayName   string          `json:"displayName"`
	ContactRef    string          `json:"contactRef"`
	Amount        decimal.Decimal `json:"amount"`
	Percent       decimal.Decimal `json:"percent"`
}

// RateioResult is the server-side computed split; it is never trusted from a
// caller. OrganizerAmount is the sub-cent residual absorbed by the organizer
// in CUSTOM and PERCENTAGE modes (always zero in EQUAL mode, where the last
// share is adjusted so the sum is exact).
type RateioResult struct {
	Mode            RateioMode      `json:"mode"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Participants    []RateioShare   `json:"participants"`
	OrganizerAmount decimal.Decimal `json:"organizerAmount"`
}
