package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jeffgoval/arena-sub003/internal/apperrors"
	"github.com/jeffgoval/arena-sub003/internal/core/domain"
	portsrepo "github.com/jeffgoval/arena-sub003/internal/core/ports/repositories"
	"github.com/jeffgoval/arena-sub003/internal/models"
	"github.com/jeffgoval/arena-sub003/internal/utils/ledgermath"
	"github.com/jeffgoval/arena-sub003/internal/utils/mapping"
	"github.com/jeffgoval/arena-sub003/internal/utils/pagination"
)

const creditEntryColumns = `entry_id, owner_id, kind, amount, status, expires_at,
	related_reservation_id, related_referral_id, notes,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxCreditRepository persists the credit ledger.
type PgxCreditRepository struct {
	BaseRepository
}

// newPgxCreditRepository creates a new repository for credit ledger data.
func newPgxCreditRepository(pool *pgxpool.Pool) portsrepo.CreditRepositoryFacade {
	return &PgxCreditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CreditRepositoryFacade = (*PgxCreditRepository)(nil)

// SaveEntry inserts a new ledger line.
func (r *PgxCreditRepository) SaveEntry(ctx context.Context, entry domain.CreditEntry) error {
	m := mapping.ToModelCreditEntry(entry)
	query := `
		INSERT INTO credit_entries (` + creditEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.EntryID, m.OwnerID, m.Kind, m.Amount, m.Status, m.ExpiresAt,
		m.RelatedReservationID, m.RelatedReferralID, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert credit entry "+m.EntryID, err)
	}
	return nil
}

// FindEntryByID retrieves a single ledger line.
func (r *PgxCreditRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.CreditEntry, error) {
	query := `SELECT ` + creditEntryColumns + ` FROM credit_entries WHERE entry_id = $1;`
	m, err := scanCreditEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find credit entry "+entryID, err)
	}
	entry := mapping.ToDomainCreditEntry(*m)
	return &entry, nil
}

// GetBalance aggregates the owner's active, unexpired entries. The second
// sum is the portion expiring before the given horizon.
func (r *PgxCreditRepository) GetBalance(ctx context.Context, ownerID string, now time.Time, expiringBefore time.Time) (*domain.CreditBalance, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0),
		       COALESCE(SUM(amount) FILTER (WHERE expires_at IS NOT NULL AND expires_at <= $3), 0)
		FROM credit_entries
		WHERE owner_id = $1 AND status = 'ACTIVE'
		  AND (expires_at IS NULL OR expires_at > $2);
	`
	var active, expiring decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, ownerID, now, expiringBefore).Scan(&active, &expiring); err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate balance for owner "+ownerID, err)
	}
	return &domain.CreditBalance{OwnerID: ownerID, Active: active, ExpiringWithin: expiring}, nil
}

// DebitFIFO consumes amount from the owner's active entries inside a single
// transaction. The SELECT ... FOR UPDATE on the owner's active rows
// serializes concurrent debits for the same owner: the second debit blocks
// until the first commits and then re-reads the reduced balance, so the
// ledger can never be drawn past its total.
//
// The unit suite runs against mocks and does not exercise this locking.
// Changes to the transaction shape here need verification against a live
// database with concurrent debits for one owner (two parallel debits whose
// sum exceeds the balance: exactly one must succeed).
func (r *PgxCreditRepository) DebitFIFO(ctx context.Context, ownerID string, amount decimal.Decimal, usage domain.CreditEntry, now time.Time) (*domain.DebitResult, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction commits

	lockQuery := `
		SELECT ` + creditEntryColumns + `
		FROM credit_entries
		WHERE owner_id = $1 AND status = 'ACTIVE'
		  AND (expires_at IS NULL OR expires_at > $2)
		ORDER BY expires_at ASC NULLS LAST, created_at ASC
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, lockQuery, ownerID, now)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock credit entries for owner "+ownerID, err)
	}
	modelEntries, err := collectCreditEntries(rows)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan locked credit entries for owner "+ownerID, err)
	}

	entries := mapping.ToDomainCreditEntrySlice(modelEntries)
	plan := ledgermath.BuildConsumptionPlan(entries, amount)
	if !plan.Covered() {
		return nil, &apperrors.InsufficientBalanceError{
			OwnerID:   ownerID,
			Requested: amount,
			Available: plan.Available,
		}
	}

	updateQuery := `
		UPDATE credit_entries
		SET amount = $2, status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1;
	`
	batch := &pgx.Batch{}
	consumed := make([]domain.CreditEntry, 0, len(plan.Draws))
	for _, draw := range plan.Draws {
		status := domain.CreditActive
		if draw.Remaining.IsZero() {
			status = domain.CreditUsed
		}
		batch.Queue(updateQuery, draw.Entry.EntryID, draw.Remaining, string(status), now, usage.CreatedBy)

		after := draw.Entry
		after.Amount = draw.Remaining
		after.Status = status
		after.LastUpdatedAt = now
		after.LastUpdatedBy = usage.CreatedBy
		consumed = append(consumed, after)
	}

	// Insert the negative usage line recording the total draw.
	usage.Amount = amount.Neg()
	usage.Status = domain.CreditUsed
	mu := mapping.ToModelCreditEntry(usage)
	insertQuery := `
		INSERT INTO credit_entries (` + creditEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	batch.Queue(insertQuery,
		mu.EntryID, mu.OwnerID, mu.Kind, mu.Amount, mu.Status, mu.ExpiresAt,
		mu.RelatedReservationID, mu.RelatedReferralID, mu.Notes,
		mu.CreatedAt, mu.CreatedBy, mu.LastUpdatedAt, mu.LastUpdatedBy,
	)

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to apply debit for owner "+ownerID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	return &domain.DebitResult{
		OwnerID:         ownerID,
		Amount:          amount,
		ConsumedEntries: consumed,
		UsageEntry:      usage,
		BalanceBefore:   plan.Available,
		BalanceAfter:    plan.Available.Sub(amount),
	}, nil
}

// ExpireEntries flips stale active entries to EXPIRED in one statement and
// returns the affected rows. A single UPDATE takes its own row locks, so the
// sweep is safe against concurrent debits.
func (r *PgxCreditRepository) ExpireEntries(ctx context.Context, now time.Time) ([]domain.CreditEntry, error) {
	query := `
		UPDATE credit_entries
		SET status = 'EXPIRED', last_updated_at = $1, last_updated_by = 'system'
		WHERE status = 'ACTIVE' AND expires_at IS NOT NULL AND expires_at < $1 AND amount > 0
		RETURNING ` + creditEntryColumns + `;
	`
	rows, err := r.Pool.Query(ctx, query, now)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to expire credit entries", err)
	}
	modelEntries, err := collectCreditEntries(rows)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan expired credit entries", err)
	}
	return mapping.ToDomainCreditEntrySlice(modelEntries), nil
}

// ListEntriesByOwner retrieves a paginated ledger history for an owner using
// token-based pagination, newest first.
func (r *PgxCreditRepository) ListEntriesByOwner(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.CreditEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + creditEntryColumns + ` FROM credit_entries WHERE owner_id = $1`
	orderByClause := `ORDER BY created_at DESC, entry_id DESC`

	args := []interface{}{ownerID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastEntryID, decodeErr := pagination.DecodeTimeIDToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (created_at, entry_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastEntryID)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query credit entries for owner "+ownerID, err)
	}
	modelEntries, err := collectCreditEntries(rows)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to scan credit entry rows for owner "+ownerID, err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		token := pagination.EncodeTimeIDToken(last.CreatedAt, last.EntryID)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	return mapping.ToDomainCreditEntrySlice(results), nextTokenVal, nil
}

func scanCreditEntry(row pgx.Row) (*models.CreditEntry, error) {
	var m models.CreditEntry
	err := row.Scan(
		&m.EntryID, &m.OwnerID, &m.Kind, &m.Amount, &m.Status, &m.ExpiresAt,
		&m.RelatedReservationID, &m.RelatedReferralID, &m.Notes,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectCreditEntries(rows pgx.Rows) ([]models.CreditEntry, error) {
	defer rows.Close()
	entries := []models.CreditEntry{}
	for rows.Next() {
		m, err := scanCreditEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
