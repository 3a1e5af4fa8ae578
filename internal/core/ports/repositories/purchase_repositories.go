package repositories

import (
	"context"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
)

type PurchaseReader interface {
	FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error)
}

type PurchaseWriter interface {
	SavePurchase(ctx context.Context, purchase domain.Purchase) error
}

type PurchaseRepositoryFacade interface {
	PurchaseReader
	PurchaseWriter
}
