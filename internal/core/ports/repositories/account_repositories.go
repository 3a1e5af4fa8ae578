package repositories

import (
	"context"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account with version 1.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount writes the account if its stored version still equals
	// account.Version and bumps account.Version on success. A lost race
	// returns apperrors.ErrConcurrentModification.
	UpdateAccount(ctx context.Context, account *domain.Account) error

	// DeleteAccount removes the account and every ledger it owns.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
