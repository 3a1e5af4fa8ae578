package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	"github.com/SscSPs/installment_ledger_app/internal/models"
)

// ToModelLedger converts a domain Ledger to a model Ledger, encoding the
// obligations as a JSON array (never null).
func ToModelLedger(d domain.Ledger) (models.Ledger, error) {
	obligations := d.Obligations
	if obligations == nil {
		obligations = []domain.Obligation{}
	}
	raw, err := json.Marshal(obligations)
	if err != nil {
		return models.Ledger{}, fmt.Errorf("encode obligations of ledger %s: %w", d.LedgerID, err)
	}
	return models.Ledger{
		LedgerID:         d.LedgerID,
		AccountID:        d.AccountID,
		PurchaseID:       d.PurchaseID,
		PurchaseDuration: d.PurchaseDuration,
		TotalPrice:       d.TotalPrice,
		PaymentMode:      string(d.PaymentMode),
		Obligations:      raw,
		AmountPaid:       d.AmountPaid,
		AmountDue:        d.AmountDue,
		PaymentStatus:    string(d.PaymentStatus),
		StartDate:        d.StartDate,
		EndDate:          d.EndDate,
		ServiceStatus:    string(d.ServiceStatus),
		Completed:        d.Completed,
		Suspicious:       d.Suspicious,
		ExternalRef:      d.ExternalRef,
		Notes:            d.Notes,
		Version:          d.Version,
		AuditFields:      models.AuditFields(d.AuditFields),
	}, nil
}

// ToDomainLedger converts a model Ledger to a domain Ledger
func ToDomainLedger(m models.Ledger) (domain.Ledger, error) {
	d := domain.Ledger{
		LedgerID:         m.LedgerID,
		AccountID:        m.AccountID,
		PurchaseID:       m.PurchaseID,
		PurchaseDuration: m.PurchaseDuration,
		TotalPrice:       m.TotalPrice,
		PaymentMode:      domain.PaymentMode(m.PaymentMode),
		AmountPaid:       m.AmountPaid,
		AmountDue:        m.AmountDue,
		PaymentStatus:    domain.PaymentStatus(m.PaymentStatus),
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		ServiceStatus:    domain.ServiceStatus(m.ServiceStatus),
		Completed:        m.Completed,
		Suspicious:       m.Suspicious,
		ExternalRef:      m.ExternalRef,
		Notes:            m.Notes,
		Version:          m.Version,
		AuditFields:      domain.AuditFields(m.AuditFields),
	}
	if len(m.Obligations) > 0 {
		if err := json.Unmarshal(m.Obligations, &d.Obligations); err != nil {
			return domain.Ledger{}, fmt.Errorf("decode obligations of ledger %s: %w", m.LedgerID, err)
		}
	}
	if len(d.Obligations) == 0 {
		d.Obligations = nil
	}
	return d, nil
}
