package pgsql

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jeffgoval/arena-sub003/internal/apperrors"
	"github.com/jeffgoval/arena-sub003/internal/core/domain"
	portsrepo "github.com/jeffgoval/arena-sub003/internal/core/ports/repositories"
	"github.com/jeffgoval/arena-sub003/internal/models"
	"github.com/jeffgoval/arena-sub003/internal/utils/mapping"
	"github.com/jeffgoval/arena-sub003/internal/utils/pagination"
)

const auditColumns = `entry_id, action, actor_id, target_id, target_type, before, after, metadata, ts`

// PgxAuditRepository persists the append-only audit log.
type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for audit data.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

// InsertEntry appends one audit entry. There is no update path: rows are
// write-once and only the retention sweep deletes.
func (r *PgxAuditRepository) InsertEntry(ctx context.Context, entry domain.AuditEntry) error {
	m := mapping.ToModelAuditEntry(entry)
	query := `
		INSERT INTO audit_entries (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.EntryID, m.Action, m.ActorID, m.TargetID, m.TargetType,
		m.Before, m.After, m.Metadata, m.Timestamp,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert audit entry "+m.EntryID, err)
	}
	return nil
}

// Query retrieves audit entries matching the filter, newest first, with
// token-based pagination.
func (r *PgxAuditRepository) Query(ctx context.Context, filter domain.AuditFilter, limit int, nextToken *string) ([]domain.AuditEntry, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	query := `SELECT ` + auditColumns + ` FROM audit_entries WHERE 1=1`
	args := []interface{}{}

	appendFilter := func(clause string, value interface{}) {
		args = append(args, value)
		query += " AND " + clause + "$" + strconv.Itoa(len(args))
	}
	if filter.ActorID != "" {
		appendFilter("actor_id = ", filter.ActorID)
	}
	if filter.Action != "" {
		appendFilter("action = ", string(filter.Action))
	}
	if filter.TargetID != "" {
		appendFilter("target_id = ", filter.TargetID)
	}
	if filter.TargetType != "" {
		appendFilter("target_type = ", filter.TargetType)
	}
	if filter.From != nil {
		appendFilter("ts >= ", *filter.From)
	}
	if filter.To != nil {
		appendFilter("ts <= ", *filter.To)
	}

	if nextToken != nil && *nextToken != "" {
		lastTs, lastID, decodeErr := pagination.DecodeTimeIDToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastTs, lastID)
		query += " AND (ts, entry_id) < ($" + strconv.Itoa(len(args)-1) + ", $" + strconv.Itoa(len(args)) + ")"
	}

	args = append(args, fetchLimit)
	query += " ORDER BY ts DESC, entry_id DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query audit entries", err)
	}
	defer rows.Close()

	modelEntries := []models.AuditEntry{}
	for rows.Next() {
		m, err := scanAuditEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan audit entry row", err)
		}
		modelEntries = append(modelEntries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating audit entry rows", err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		token := pagination.EncodeTimeIDToken(last.Timestamp, last.EntryID)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	return mapping.ToDomainAuditEntrySlice(results), nextTokenVal, nil
}

// DeleteOlderThan prunes entries past the retention horizon.
func (r *PgxAuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM audit_entries WHERE ts < $1;`, cutoff)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to prune audit entries", err)
	}
	return cmdTag.RowsAffected(), nil
}

func scanAuditEntry(row pgx.Row) (*models.AuditEntry, error) {
	var m models.AuditEntry
	err := row.Scan(
		&m.EntryID, &m.Action, &m.ActorID, &m.TargetID, &m.TargetType,
		&m.Before, &m.After, &m.Metadata, &m.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
