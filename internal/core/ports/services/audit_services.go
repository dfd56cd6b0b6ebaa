package services

import (
	"context"
	"io"
	"time"

	"github.com/jeffgoval/arena-sub003/internal/core/domain"
)

// AuditSvcFacade records every financial mutation. Record never fails the
// caller's operation: write failures are logged and counted, not propagated.
type AuditSvcFacade interface {
	// Record appends an entry. before/after/metadata are serialized to JSON;
	// a nil value omits the field. The returned entry id doubles as the
	// correlation id surfaced on internal errors.
	Record(ctx context.Context, action domain.AuditAction, actorID, targetID, targetType string, before, after, metadata any) *domain.AuditEntry
	Query(ctx context.Context, filter domain.AuditFilter, limit int, nextToken *string) ([]domain.AuditEntry, *string, error)
	ExportCSV(ctx context.Context, filter domain.AuditFilter, w io.Writer) error
	ExportJSON(ctx context.Context, filter domain.AuditFilter, w io.Writer) error
	// PruneOlderThan removes entries past the retention horizon.
	PruneOlderThan(ctx context.Context, horizon time.Duration, now time.Time) (int64, error)
}
