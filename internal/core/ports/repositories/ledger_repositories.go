package repositories

import (
	"context"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
)

// LedgerReader defines read operations for ledger documents
type LedgerReader interface {
	// FindLedgerByID retrieves a ledger with its embedded obligations.
	FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error)

	// FindLedgerIDByReference returns the ledger whose own reference or one of
	// whose obligations carries externalRef, or apperrors.ErrNotFound.
	FindLedgerIDByReference(ctx context.Context, externalRef string) (string, error)

	// ListLedgersByAccount returns an account's ledgers, newest first, with a
	// continuation token when more results exist.
	ListLedgersByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Ledger, *string, error)

	// ListSweepCandidates returns installment ledgers not yet flagged suspicious.
	ListSweepCandidates(ctx context.Context) ([]domain.Ledger, error)
}

// LedgerWriter defines write operations for ledger documents
type LedgerWriter interface {
	// SaveLedger inserts a new ledger with version 1. A reused external
	// reference returns apperrors.ErrDuplicate.
	SaveLedger(ctx context.Context, ledger domain.Ledger) error

	// UpdateLedger replaces the ledger document if its stored version still
	// equals ledger.Version and bumps ledger.Version on success. A lost race
	// returns apperrors.ErrConcurrentModification.
	UpdateLedger(ctx context.Context, ledger *domain.Ledger) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
