package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/installment_ledger_app/internal/apperrors"
	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/installment_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/installment_ledger_app/internal/models"
	"github.com/SscSPs/installment_ledger_app/internal/utils/mapping"
	"github.com/SscSPs/installment_ledger_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const ledgerColumns = `ledger_id, account_id, purchase_id, purchase_duration, total_price, payment_mode, obligations,
	amount_paid, amount_due, payment_status, start_date, end_date, service_status, completed, suspicious,
	external_ref, notes, version, created_at, created_by, last_updated_at, last_updated_by`

func scanLedger(row pgx.Row) (domain.Ledger, error) {
	var m models.Ledger
	err := row.Scan(
		&m.LedgerID,
		&m.AccountID,
		&m.PurchaseID,
		&m.PurchaseDuration,
		&m.TotalPrice,
		&m.PaymentMode,
		&m.Obligations,
		&m.AmountPaid,
		&m.AmountDue,
		&m.PaymentStatus,
		&m.StartDate,
		&m.EndDate,
		&m.ServiceStatus,
		&m.Completed,
		&m.Suspicious,
		&m.ExternalRef,
		&m.Notes,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Ledger{}, err
	}
	return mapping.ToDomainLedger(m)
}

func (r *PgxLedgerRepository) queryLedgers(ctx context.Context, query string, args ...any) ([]domain.Ledger, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledgers: %w", err)
	}
	defer rows.Close()

	var ledgers []domain.Ledger
	for rows.Next() {
		l, err := scanLedger(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger: %w", err)
		}
		ledgers = append(ledgers, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledgers: %w", err)
	}
	return ledgers, nil
}

// SaveLedger inserts a ledger at version 1 together with its references.
func (r *PgxLedgerRepository) SaveLedger(ctx context.Context, ledger domain.Ledger) error {
	m, err := mapping.ToModelLedger(ledger)
	if err != nil {
		return err
	}
	query := `INSERT INTO ledgers (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, 1, $18, $19, $20, $21);`

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	_, err = tx.Exec(ctx, query,
		m.LedgerID,
		m.AccountID,
		m.PurchaseID,
		m.PurchaseDuration,
		m.TotalPrice,
		m.PaymentMode,
		m.Obligations,
		m.AmountPaid,
		m.AmountDue,
		m.PaymentStatus,
		m.StartDate,
		m.EndDate,
		m.ServiceStatus,
		m.Completed,
		m.Suspicious,
		m.ExternalRef,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "ledger "+m.LedgerID)
	}
	if err := writeReferences(ctx, tx, ledger); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateLedger replaces the ledger document when the stored version matches
// and rewrites its references in the same transaction.
func (r *PgxLedgerRepository) UpdateLedger(ctx context.Context, ledger *domain.Ledger) error {
	m, err := mapping.ToModelLedger(*ledger)
	if err != nil {
		return err
	}
	query := `
		UPDATE ledgers
		SET obligations = $1, amount_paid = $2, amount_due = $3, payment_status = $4, start_date = $5,
			end_date = $6, service_status = $7, completed = $8, suspicious = $9, notes = $10,
			last_updated_at = $11, last_updated_by = $12, version = version + 1
		WHERE ledger_id = $13 AND version = $14;`

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	tag, err := tx.Exec(ctx, query,
		m.Obligations,
		m.AmountPaid,
		m.AmountDue,
		m.PaymentStatus,
		m.StartDate,
		m.EndDate,
		m.ServiceStatus,
		m.Completed,
		m.Suspicious,
		m.Notes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.LedgerID,
		m.Version,
	)
	if err != nil {
		return mapWriteError(err, "ledger "+m.LedgerID)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ledgers WHERE ledger_id = $1);`, m.LedgerID).Scan(&exists); err != nil {
			return mapReadError(err, "ledger "+m.LedgerID)
		}
		if !exists {
			return fmt.Errorf("%w: ledger %s", apperrors.ErrNotFound, m.LedgerID)
		}
		return fmt.Errorf("%w: ledger %s changed since version %d", apperrors.ErrConcurrentModification, m.LedgerID, m.Version)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM ledger_references WHERE ledger_id = $1;`, m.LedgerID); err != nil {
		return fmt.Errorf("failed to release references of ledger %s: %w", m.LedgerID, err)
	}
	if err := writeReferences(ctx, tx, *ledger); err != nil {
		return err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return err
	}
	ledger.Version++
	return nil
}

// writeReferences claims every reference of the ledger. The primary key on
// external_ref turns a reference held by another ledger into ErrDuplicate.
func writeReferences(ctx context.Context, tx pgx.Tx, ledger domain.Ledger) error {
	refs := ledger.References()
	if len(refs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO ledger_references (external_ref, ledger_id) SELECT unnest($1::text[]), $2;`,
		refs, ledger.LedgerID,
	)
	if err != nil {
		return mapWriteError(err, "references of ledger "+ledger.LedgerID)
	}
	return nil
}

func (r *PgxLedgerRepository) FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledgers WHERE ledger_id = $1;`
	ledger, err := scanLedger(r.Pool.QueryRow(ctx, query, ledgerID))
	if err != nil {
		return nil, mapReadError(err, "ledger "+ledgerID)
	}
	return &ledger, nil
}

// FindLedgerIDByReference looks a ledger or obligation reference up in
// ledger_references.
func (r *PgxLedgerRepository) FindLedgerIDByReference(ctx context.Context, externalRef string) (string, error) {
	if externalRef == "" {
		return "", fmt.Errorf("%w: empty reference", apperrors.ErrNotFound)
	}
	var ledgerID string
	err := r.Pool.QueryRow(ctx, `SELECT ledger_id FROM ledger_references WHERE external_ref = $1;`, externalRef).Scan(&ledgerID)
	if err != nil {
		return "", mapReadError(err, fmt.Sprintf("reference %q", externalRef))
	}
	return ledgerID, nil
}

// ListLedgersByAccount pages newest first on (created_at, ledger_id).
func (r *PgxLedgerRepository) ListLedgersByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Ledger, *string, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledgers WHERE account_id = $1`
	args := []any{accountID}

	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, ledger_id) < ($2, $3)`
		args = append(args, cursor.CreatedAt, cursor.LedgerID)
	}
	// Fetch one extra row to know whether another page exists
	query += fmt.Sprintf(` ORDER BY created_at DESC, ledger_id DESC LIMIT %d;`, limit+1)

	ledgers, err := r.queryLedgers(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	if len(ledgers) <= limit {
		return ledgers, nil, nil
	}
	ledgers = ledgers[:limit]
	last := ledgers[len(ledgers)-1]
	token := pagination.EncodeToken(last.CreatedAt, last.LedgerID)
	return ledgers, &token, nil
}

func (r *PgxLedgerRepository) ListSweepCandidates(ctx context.Context) ([]domain.Ledger, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledgers
		WHERE payment_mode = $1 AND NOT suspicious
		ORDER BY ledger_id;`
	return r.queryLedgers(ctx, query, string(domain.PaymentModeInstallment))
}
