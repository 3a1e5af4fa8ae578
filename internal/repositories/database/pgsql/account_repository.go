package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/installment_ledger_app/internal/apperrors"
	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/installment_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/installment_ledger_app/internal/models"
	"github.com/SscSPs/installment_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, email, display_name, installments_enabled, suspicious, suspicion_reason,
	suspicious_since, settings, settings_audit, version, created_at, created_by, last_updated_at, last_updated_by`

// SaveAccount inserts a new account at version 1.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m, err := mapping.ToModelAccount(account)
	if err != nil {
		return err
	}
	query := `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $11, $12, $13);`

	_, err = r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Email,
		m.DisplayName,
		m.InstallmentsEnabled,
		m.Suspicious,
		m.SuspicionReason,
		m.SuspiciousSince,
		m.Settings,
		m.SettingsAudit,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "account "+m.AccountID)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	var m models.Account
	err := r.Pool.QueryRow(ctx, query, accountID).Scan(
		&m.AccountID,
		&m.Email,
		&m.DisplayName,
		&m.InstallmentsEnabled,
		&m.Suspicious,
		&m.SuspicionReason,
		&m.SuspiciousSince,
		&m.Settings,
		&m.SettingsAudit,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapReadError(err, "account "+accountID)
	}
	account, err := mapping.ToDomainAccount(m)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateAccount writes the account when the stored version matches and bumps
// account.Version.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account *domain.Account) error {
	m, err := mapping.ToModelAccount(*account)
	if err != nil {
		return err
	}
	query := `
		UPDATE accounts
		SET email = $1, display_name = $2, installments_enabled = $3, suspicious = $4, suspicion_reason = $5,
			suspicious_since = $6, settings = $7, settings_audit = $8, last_updated_at = $9, last_updated_by = $10,
			version = version + 1
		WHERE account_id = $11 AND version = $12;`

	tag, err := r.Pool.Exec(ctx, query,
		m.Email,
		m.DisplayName,
		m.InstallmentsEnabled,
		m.Suspicious,
		m.SuspicionReason,
		m.SuspiciousSince,
		m.Settings,
		m.SettingsAudit,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.AccountID,
		m.Version,
	)
	if err != nil {
		return mapWriteError(err, "account "+m.AccountID)
	}
	if tag.RowsAffected() == 0 {
		return r.staleOrMissing(ctx, account.AccountID, account.Version)
	}
	account.Version++
	return nil
}

func (r *PgxAccountRepository) staleOrMissing(ctx context.Context, accountID string, version int64) error {
	var exists bool
	if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1);`, accountID).Scan(&exists); err != nil {
		return mapReadError(err, "account "+accountID)
	}
	if !exists {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return fmt.Errorf("%w: account %s changed since version %d", apperrors.ErrConcurrentModification, accountID, version)
}

// DeleteAccount removes an account and its ledgers in one transaction.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM ledgers WHERE account_id = $1;`, accountID); err != nil {
		return fmt.Errorf("failed to delete ledgers of account %s: %w", accountID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return r.Commit(ctx, tx)
}
