package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/installment_ledger_app/internal/apperrors"
	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/installment_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/installment_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/installment_ledger_app/internal/dto"
	"github.com/google/uuid"
)

type purchaseService struct {
	BaseService
	purchaseRepo portsrepo.PurchaseRepositoryFacade
}

func NewPurchaseService(repo portsrepo.PurchaseRepositoryFacade, options ...ServiceOption) portssvc.PurchaseSvcFacade {
	svc := &purchaseService{purchaseRepo: repo}
	svc.applyOptions(options)
	return svc
}

var _ portssvc.PurchaseSvcFacade = (*purchaseService)(nil)

func (s *purchaseService) CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest, actor domain.Actor) (*domain.Purchase, error) {
	if err := requireAdmin(actor, "registering purchases"); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", apperrors.ErrValidation)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	now := s.Now()
	purchase := domain.Purchase{
		PurchaseID: uuid.NewString(),
		Name:       strings.TrimSpace(req.Name),
		Price:      req.Price.Round(domain.MoneyScale),
		Duration:   strings.TrimSpace(req.Duration),
		IsActive:   isActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	if err := s.purchaseRepo.SavePurchase(ctx, purchase); err != nil {
		s.logRepoError(ctx, err, "Failed to save purchase", slog.String("purchase_id", purchase.PurchaseID))
		return nil, err
	}
	s.LogInfo(ctx, "Purchase registered", slog.String("purchase_id", purchase.PurchaseID), slog.String("price", purchase.Price.String()))
	return &purchase, nil
}

func (s *purchaseService) GetPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	purchase, err := s.purchaseRepo.FindPurchaseByID(ctx, purchaseID)
	if err != nil {
		s.logRepoError(ctx, err, "Failed to find purchase", slog.String("purchase_id", purchaseID))
		return nil, err
	}
	return purchase, nil
}
