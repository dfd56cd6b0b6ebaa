package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/jeffgoval/arena-sub003/internal/core/domain"
	portsrepo "github.com/jeffgoval/arena-sub003/internal/core/ports/repositories"
	portssvc "github.com/jeffgoval/arena-sub003/internal/core/ports/services"
	"github.com/jeffgoval/arena-sub003/internal/middleware"
	"github.com/jeffgoval/arena-sub003/internal/platform/metrics"
)

// exportPageSize bounds how many rows each export query pulls at once.
const exportPageSize = 500

type AuditService struct {
	auditRepo portsrepo.AuditRepositoryFacade
	now       func() time.Time
}

func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		now:       time.Now,
	}
}

var _ portssvc.AuditSvcFacade = (*AuditService)(nil)

// Record appends an audit entry. A failed write must not fail the financial
// operation being recorded, so errors are logged and counted instead of
// returned.
func (s *AuditService) Record(ctx context.Context, action domain.AuditAction, actorID, targetID, targetType string, before, after, metadata any) *domain.AuditEntry {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry := domain.AuditEntry{
		EntryID:    uuid.New().String(),
		Action:     action,
		ActorID:    actorID,
		TargetID:   targetID,
		TargetType: targetType,
		Before:     marshalSnapshot(ctx, before),
		After:      marshalSnapshot(ctx, after),
		Metadata:   marshalSnapshot(ctx, metadata),
		Timestamp:  s.now().UTC(),
	}

	if err := s.auditRepo.InsertEntry(ctx, entry); err != nil {
		metrics.AuditWriteFailures.Inc()
		logger.Error("audit write failed",
			"action", string(action),
			"targetID", targetID,
			"entryID", entry.EntryID,
			"error", err,
		)
	}
	return &entry
}

func (s *AuditService) Query(ctx context.Context, filter domain.AuditFilter, limit int, nextToken *string) ([]domain.AuditEntry, *string, error) {
	return s.auditRepo.Query(ctx, filter, limit, nextToken)
}

// ExportCSV streams all entries matching the filter as CSV. Snapshots are
// written as their raw JSON text.
func (s *AuditService) ExportCSV(ctx context.Context, filter domain.AuditFilter, w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"entryID", "action", "actorID", "targetID", "targetType", "before", "after", "metadata", "timestamp"}
	if err := cw.Write(header); err != nil {
		return err
	}

	err := s.forEachMatching(ctx, filter, func(e domain.AuditEntry) error {
		return cw.Write([]string{
			e.EntryID,
			string(e.Action),
			e.ActorID,
			e.TargetID,
			e.TargetType,
			string(e.Before),
			string(e.After),
			string(e.Metadata),
			e.Timestamp.Format(time.RFC3339Nano),
		})
	})
	if err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

// ExportJSON streams all entries matching the filter as one JSON array.
func (s *AuditService) ExportJSON(ctx context.Context, filter domain.AuditFilter, w io.Writer) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	first := true
	err := s.forEachMatching(ctx, filter, func(e domain.AuditEntry) error {
		if !first {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		first = false
		return enc.Encode(e)
	})
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, "]")
	return err
}

// PruneOlderThan deletes entries older than now minus the retention horizon.
func (s *AuditService) PruneOlderThan(ctx context.Context, horizon time.Duration, now time.Time) (int64, error) {
	cutoff := now.Add(-horizon)
	deleted, err := s.auditRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		middleware.GetLoggerFromCtx(ctx).Info("pruned audit entries", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}

// forEachMatching pages through the repository applying fn to every entry.
func (s *AuditService) forEachMatching(ctx context.Context, filter domain.AuditFilter, fn func(domain.AuditEntry) error) error {
	var token *string
	for {
		entries, next, err := s.auditRepo.Query(ctx, filter, exportPageSize, token)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := fn(e); err != nil {
				return err
			}
		}
		if next == nil {
			return nil
		}
		token = next
	}
}

// marshalSnapshot serializes a snapshot value, tolerating nils and already
// serialized payloads. Marshal failure degrades to an error marker rather
// than losing the audit row.
func marshalSnapshot(ctx context.Context, v any) json.RawMessage {
	if v == nil {
		return nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw
	}
	data, err := json.Marshal(v)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("failed to marshal audit snapshot", "error", err)
		return json.RawMessage(`{"marshalError":true}`)
	}
	return data
}
