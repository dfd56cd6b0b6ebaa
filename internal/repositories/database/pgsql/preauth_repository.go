package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jeffgoval/arena-sub003/internal/apperrors"
	"github.com/jeffgoval/arena-sub003/internal/core/domain"
	portsrepo "github.com/jeffgoval/arena-sub003/internal/core/ports/repositories"
	"github.com/jeffgoval/arena-sub003/internal/models"
	"github.com/jeffgoval/arena-sub003/internal/utils/mapping"
)

const preAuthColumns = `pre_auth_id, reservation_id, customer_id, hold_amount, captured_amount,
	status, gateway_ref, captured_at, released_at,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxPreAuthRepository persists card deposit holds.
type PgxPreAuthRepository struct {
	BaseRepository
}

// newPgxPreAuthRepository creates a new repository for pre-authorization data.
func newPgxPreAuthRepository(pool *pgxpool.Pool) portsrepo.PreAuthRepositoryFacade {
	return &PgxPreAuthRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PreAuthRepositoryFacade = (*PgxPreAuthRepository)(nil)

// SavePreAuthorization inserts a new hold record.
func (r *PgxPreAuthRepository) SavePreAuthorization(ctx context.Context, preAuth domain.PreAuthorization) error {
	m := mapping.ToModelPreAuthorization(preAuth)
	query := `
		INSERT INTO pre_authorizations (` + preAuthColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PreAuthID, m.ReservationID, m.CustomerID, m.HoldAmount, m.CapturedAmount,
		m.Status, m.GatewayRef, m.CapturedAt, m.ReleasedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert pre-authorization "+m.PreAuthID, err)
	}
	return nil
}

// FindByID retrieves a hold by its ID.
func (r *PgxPreAuthRepository) FindByID(ctx context.Context, preAuthID string) (*domain.PreAuthorization, error) {
	query := `SELECT ` + preAuthColumns + ` FROM pre_authorizations WHERE pre_auth_id = $1;`
	m, err := scanPreAuth(r.Pool.QueryRow(ctx, query, preAuthID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find pre-authorization "+preAuthID, err)
	}
	p := mapping.ToDomainPreAuthorization(*m)
	return &p, nil
}

// UpdateWithLock runs fn while holding the row lock for the hold, then
// writes fn's result in the same transaction. Concurrent capture/release
// calls for one preAuthID therefore serialize: the second caller blocks on
// the lock and sees the first caller's committed state.
func (r *PgxPreAuthRepository) UpdateWithLock(ctx context.Context, preAuthID string, fn func(current domain.PreAuthorization) (portsrepo.PreAuthTransitionResult, error)) (*domain.PreAuthorization, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction commits

	lockQuery := `SELECT ` + preAuthColumns + ` FROM pre_authorizations WHERE pre_auth_id = $1 FOR UPDATE;`
	m, err := scanPreAuth(tx.QueryRow(ctx, lockQuery, preAuthID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock pre-authorization "+preAuthID, err)
	}

	current := mapping.ToDomainPreAuthorization(*m)
	result, err := fn(current)
	if err != nil {
		return nil, err
	}

	if !result.Write {
		// No-op transition (e.g. releasing an already released hold).
		if err := r.Commit(ctx, tx); err != nil {
			return nil, err
		}
		return &current, nil
	}

	um := mapping.ToModelPreAuthorization(result.Updated)
	updateQuery := `
		UPDATE pre_authorizations
		SET captured_amount = $2, status = $3, captured_at = $4, released_at = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE pre_auth_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, updateQuery,
		um.PreAuthID, um.CapturedAmount, um.Status, um.CapturedAt, um.ReleasedAt,
		um.LastUpdatedAt, um.LastUpdatedBy,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to update pre-authorization "+preAuthID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.NewNotFoundError("pre-authorization " + preAuthID + " not found for update")
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	updated := result.Updated
	return &updated, nil
}

// ListStaleHeld returns HELD records created before the cutoff. The sweep
// re-locks each row via UpdateWithLock, so this read takes no locks itself.
func (r *PgxPreAuthRepository) ListStaleHeld(ctx context.Context, cutoff time.Time, limit int) ([]domain.PreAuthorization, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT ` + preAuthColumns + `
		FROM pre_authorizations
		WHERE status = 'HELD' AND created_at < $1
		ORDER BY created_at ASC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query stale pre-authorizations", err)
	}
	defer rows.Close()

	out := []domain.PreAuthorization{}
	for rows.Next() {
		m, err := scanPreAuth(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan stale pre-authorization row", err)
		}
		out = append(out, mapping.ToDomainPreAuthorization(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating stale pre-authorization rows", err)
	}
	return out, nil
}

func scanPreAuth(row pgx.Row) (*models.PreAuthorization, error) {
	var m models.PreAuthorization
	err := row.Scan(
		&m.PreAuthID, &m.ReservationID, &m.CustomerID, &m.HoldAmount, &m.CapturedAmount,
		&m.Status, &m.GatewayRef, &m.CapturedAt, &m.ReleasedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
