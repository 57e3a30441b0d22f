package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/FinObraDev/credit_instruments_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository over one shared pool. The
// projection cache slot stays nil; the caller attaches one when Redis is
// configured.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		InstrumentRepo:  newPgxInstrumentRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		UserRepo:        newPgxUserRepository(dbPool),
	}
}
