package pgsql

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

type stubTx struct {
	pgx.Tx
	rollbackErr error
}

func (s stubTx) Rollback(ctx context.Context) error { return s.rollbackErr }

func TestRollback_AfterCommitIsNotAnError(t *testing.T) {
	r := &BaseRepository{}

	// pgx reports ErrTxClosed when a deferred rollback runs after the
	// transaction already committed.
	err := r.Rollback(context.Background(), stubTx{rollbackErr: pgx.ErrTxClosed})
	require.NoError(t, err)
}

func TestRollback_RealFailureIsSurfaced(t *testing.T) {
	r := &BaseRepository{}

	err := r.Rollback(context.Background(), stubTx{rollbackErr: errors.New("connection reset")})
	require.Error(t, err)
}
