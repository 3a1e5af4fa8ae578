package services

import (
	"context"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	"github.com/SscSPs/installment_ledger_app/internal/dto"
)

type PurchaseSvcFacade interface {
	CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest, actor domain.Actor) (*domain.Purchase, error)
	GetPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error)
}
