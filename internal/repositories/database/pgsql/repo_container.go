package pgsql

import (
	portsrepo "github.com/SscSPs/installment_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  newPgxAccountRepository(dbPool),
		LedgerRepo:   newPgxLedgerRepository(dbPool),
		PurchaseRepo: newPgxPurchaseRepository(dbPool),
	}
}
