package mapping

import (
	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	"github.com/SscSPs/installment_ledger_app/internal/models"
)

func ToModelPurchase(d domain.Purchase) models.Purchase {
	return models.Purchase{
		PurchaseID:  d.PurchaseID,
		Name:        d.Name,
		Price:       d.Price,
		Duration:    d.Duration,
		IsActive:    d.IsActive,
		AuditFields: models.AuditFields(d.AuditFields),
	}
}

func ToDomainPurchase(m models.Purchase) domain.Purchase {
	return domain.Purchase{
		PurchaseID:  m.PurchaseID,
		Name:        m.Name,
		Price:       m.Price,
		Duration:    m.Duration,
		IsActive:    m.IsActive,
		AuditFields: domain.AuditFields(m.AuditFields),
	}
}
