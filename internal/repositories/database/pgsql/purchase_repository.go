package pgsql

import (
	"context"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/installment_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/installment_ledger_app/internal/models"
	"github.com/SscSPs/installment_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPurchaseRepository struct {
	BaseRepository
}

func newPgxPurchaseRepository(pool *pgxpool.Pool) portsrepo.PurchaseRepositoryFacade {
	return &PgxPurchaseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PurchaseRepositoryFacade = (*PgxPurchaseRepository)(nil)

func (r *PgxPurchaseRepository) SavePurchase(ctx context.Context, purchase domain.Purchase) error {
	m := mapping.ToModelPurchase(purchase)
	query := `
		INSERT INTO purchases (purchase_id, name, price, duration, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	_, err := r.Pool.Exec(ctx, query,
		m.PurchaseID, m.Name, m.Price, m.Duration, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "purchase "+m.PurchaseID)
	}
	return nil
}

func (r *PgxPurchaseRepository) FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	query := `
		SELECT purchase_id, name, price, duration, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM purchases WHERE purchase_id = $1;`
	var m models.Purchase
	err := r.Pool.QueryRow(ctx, query, purchaseID).Scan(
		&m.PurchaseID, &m.Name, &m.Price, &m.Duration, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapReadError(err, "purchase "+purchaseID)
	}
	p := mapping.ToDomainPurchase(m)
	return &p, nil
}
