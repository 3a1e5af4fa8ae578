package dto

import (
	"time"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePurchaseRequest registers a purchasable service.
type CreatePurchaseRequest struct {
	Name     string          `json:"name" binding:"required,max=255"`
	Price    decimal.Decimal `json:"price"`
	Duration string          `json:"duration" binding:"max=64"`
	IsActive *bool           `json:"isActive"` // defaults to true
}

type PurchaseResponse struct {
	PurchaseID string          `json:"purchaseID"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Duration   string          `json:"duration"`
	IsActive   bool            `json:"isActive"`
	CreatedAt  time.Time       `json:"createdAt"`
	CreatedBy  string          `json:"createdBy"`
}

func ToPurchaseResponse(p *domain.Purchase) PurchaseResponse {
	return PurchaseResponse{
		PurchaseID: p.PurchaseID,
		Name:       p.Name,
		Price:      p.Price,
		Duration:   p.Duration,
		IsActive:   p.IsActive,
		CreatedAt:  p.CreatedAt,
		CreatedBy:  p.CreatedBy,
	}
}
