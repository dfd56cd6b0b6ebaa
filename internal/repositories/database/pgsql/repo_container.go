package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/jeffgoval/arena-sub003/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the pgx-backed repositories over a shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Credit:  newPgxCreditRepository(pool),
		PreAuth: newPgxPreAuthRepository(pool),
		Audit:   newPgxAuditRepository(pool),
	}
}
