package services

import (
	"context"

	"github.com/jeffgoval/arena-sub003/internal/dto"
)

// SettlementSvcFacade composes rateio, credit ledger and pre-authorization
// for a single reservation checkout.
type SettlementSvcFacade interface {
	Checkout(ctx context.Context, req dto.CheckoutRequest, customerID string) (*dto.SettlementResult, error)
}
