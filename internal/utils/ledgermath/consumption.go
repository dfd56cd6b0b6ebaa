package ledgermath

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jeffgoval/arena-sub003/internal/core/domain"
)

// EntryDraw is one step of a consumption plan: draw Draw from the entry,
// leaving Remaining on it. Remaining zero means the entry is fully used.
type EntryDraw struct {
	Entry     domain.CreditEntry
	Draw      decimal.Decimal
	Remaining decimal.Decimal
}

// ConsumptionPlan is the set of entry mutations a debit will apply.
type ConsumptionPlan struct {
	Draws     []EntryDraw
	Available decimal.Decimal
	Requested decimal.Decimal
}

// Covered reports whether the available balance covers the requested amount.
func (p ConsumptionPlan) Covered() bool {
	return p.Available.GreaterThanOrEqual(p.Requested)
}

// SortByExpiry orders entries soonest-to-expire first; entries without an
// expiry sort last. CreatedAt breaks ties so the plan is deterministic.
func SortByExpiry(entries []domain.CreditEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ei, ej := entries[i].ExpiresAt, entries[j].ExpiresAt
		switch {
		case ei == nil && ej == nil:
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		case ei == nil:
			return false
		case ej == nil:
			return true
		case !ei.Equal(*ej):
			return ei.Before(*ej)
		default:
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
	})
}

// BuildConsumptionPlan computes which entries a debit of amount consumes,
// FIFO by expiry. Entries must already be filtered to ACTIVE and unexpired;
// the function sorts them itself. The plan is all-or-nothing: when the
// available total does not cover the amount, Draws is empty and the caller
// must fail the debit without mutating anything.
func BuildConsumptionPlan(entries []domain.CreditEntry, amount decimal.Decimal) ConsumptionPlan {
	SortByExpiry(entries)

	available := decimal.Zero
	for _, e := range entries {
		available = available.Add(e.Amount)
	}

	plan := ConsumptionPlan{Available: available, Requested: amount}
	if !plan.Covered() {
		return plan
	}

	remaining := amount
	for _, e := range entries {
		if remaining.IsZero() {
			break
		}
		if e.Amount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		draw := e.Amount
		if draw.GreaterThan(remaining) {
			draw = remaining
		}
		plan.Draws = append(plan.Draws, EntryDraw{
			Entry:     e,
			Draw:      draw,
			Remaining: e.Amount.Sub(draw),
		})
		remaining = remaining.Sub(draw)
	}
	return plan
}

// ActiveBalance sums ACTIVE entries that have not expired at now.
func ActiveBalance(entries []domain.CreditEntry, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Status != domain.CreditActive {
			continue
		}
		if e.ExpiresAt != nil && !e.ExpiresAt.After(now) {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total
}
