package ledgermath_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffgoval/arena-sub003/internal/core/domain"
	"github.com/jeffgoval/arena-sub003/internal/utils/ledgermath"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func entry(id string, amount string, expiresAt *time.Time, createdAt time.Time) domain.CreditEntry {
	return domain.CreditEntry{
		EntryID:   id,
		OwnerID:   "owner",
		Kind:      domain.CreditKindPurchase,
		Amount:    dec(amount),
		Status:    domain.CreditActive,
		ExpiresAt: expiresAt,
		AuditFields: domain.AuditFields{
			CreatedAt: createdAt,
		},
	}
}

func ts(daysFromNow int) *time.Time {
	t := time.Now().UTC().AddDate(0, 0, daysFromNow)
	return &t
}

func TestSortByExpiry(t *testing.T) {
	base := time.Now().UTC()
	entries := []domain.CreditEntry{
		entry("never", "10", nil, base),
		entry("late", "10", ts(30), base),
		entry("soon", "10", ts(10), base),
	}

	ledgermath.SortByExpiry(entries)

	assert.Equal(t, "soon", entries[0].EntryID)
	assert.Equal(t, "late", entries[1].EntryID)
	assert.Equal(t, "never", entries[2].EntryID, "entries without expiry sort last")
}

func TestSortByExpiry_CreatedAtBreaksTies(t *testing.T) {
	base := time.Now().UTC()
	sameExpiry := ts(10)
	entries := []domain.CreditEntry{
		entry("second", "10", sameExpiry, base.Add(time.Hour)),
		entry("first", "10", sameExpiry, base),
	}

	ledgermath.SortByExpiry(entries)

	assert.Equal(t, "first", entries[0].EntryID)
}

// Grant 50.00 expiring in 30 days and 30.00 expiring in 10 days; a debit of
// 40.00 consumes the 10-day entry fully then 10.00 from the 30-day entry.
func TestBuildConsumptionPlan_FIFOByExpiry(t *testing.T) {
	base := time.Now().UTC()
	entries := []domain.CreditEntry{
		entry("e50", "50.00", ts(30), base),
		entry("e30", "30.00", ts(10), base.Add(time.Minute)),
	}

	plan := ledgermath.BuildConsumptionPlan(entries, dec("40.00"))

	require.True(t, plan.Covered())
	require.Len(t, plan.Draws, 2)

	assert.Equal(t, "e30", plan.Draws[0].Entry.EntryID)
	assert.True(t, plan.Draws[0].Draw.Equal(dec("30.00")))
	assert.True(t, plan.Draws[0].Remaining.IsZero())

	assert.Equal(t, "e50", plan.Draws[1].Entry.EntryID)
	assert.True(t, plan.Draws[1].Draw.Equal(dec("10.00")))
	assert.True(t, plan.Draws[1].Remaining.Equal(dec("40.00")))

	assert.True(t, plan.Available.Equal(dec("80.00")))
}

func TestBuildConsumptionPlan_SmallDebitLeavesLaterEntriesUntouched(t *testing.T) {
	base := time.Now().UTC()
	entries := []domain.CreditEntry{
		entry("t1", "30.00", ts(5), base),
		entry("t2", "30.00", ts(15), base),
		entry("never", "30.00", nil, base),
	}

	plan := ledgermath.BuildConsumptionPlan(entries, dec("20.00"))

	require.True(t, plan.Covered())
	require.Len(t, plan.Draws, 1)
	assert.Equal(t, "t1", plan.Draws[0].Entry.EntryID)
	assert.True(t, plan.Draws[0].Remaining.Equal(dec("10.00")))
}

func TestBuildConsumptionPlan_InsufficientLeavesNoDraws(t *testing.T) {
	base := time.Now().UTC()
	entries := []domain.CreditEntry{
		entry("only", "15.00", nil, base),
	}

	plan := ledgermath.BuildConsumptionPlan(entries, dec("20.00"))

	assert.False(t, plan.Covered())
	assert.Empty(t, plan.Draws, "an uncovered debit must not plan any mutation")
	assert.True(t, plan.Available.Equal(dec("15.00")))
}

func TestBuildConsumptionPlan_ExactBalanceDrainsEverything(t *testing.T) {
	base := time.Now().UTC()
	entries := []domain.CreditEntry{
		entry("a", "20.00", ts(1), base),
		entry("b", "20.00", ts(2), base),
		entry("c", "20.00", ts(3), base),
	}

	plan := ledgermath.BuildConsumptionPlan(entries, dec("60.00"))

	require.True(t, plan.Covered())
	require.Len(t, plan.Draws, 3)
	for _, draw := range plan.Draws {
		assert.True(t, draw.Remaining.IsZero())
	}
}

func TestActiveBalance_SkipsExpiredAndNonActive(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	used := entry("used", "99.00", nil, now)
	used.Status = domain.CreditUsed

	entries := []domain.CreditEntry{
		entry("live", "10.00", &future, now),
		entry("dead", "20.00", &past, now),
		used,
		entry("forever", "5.00", nil, now),
	}

	balance := ledgermath.ActiveBalance(entries, now)

	assert.True(t, balance.Equal(dec("15.00")))
}
