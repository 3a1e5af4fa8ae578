package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	"github.com/SscSPs/installment_ledger_app/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) (models.Account, error) {
	settings, err := json.Marshal(d.Settings)
	if err != nil {
		return models.Account{}, fmt.Errorf("encode settings of account %s: %w", d.AccountID, err)
	}
	audit := d.SettingsAudit
	if audit == nil {
		audit = []domain.SettingsChange{}
	}
	auditJSON, err := json.Marshal(audit)
	if err != nil {
		return models.Account{}, fmt.Errorf("encode settings audit of account %s: %w", d.AccountID, err)
	}
	return models.Account{
		AccountID:           d.AccountID,
		Email:               d.Email,
		DisplayName:         d.DisplayName,
		InstallmentsEnabled: d.InstallmentsEnabled,
		Suspicious:          d.Suspicious,
		SuspicionReason:     d.SuspicionReason,
		SuspiciousSince:     d.SuspiciousSince,
		Settings:            settings,
		SettingsAudit:       auditJSON,
		Version:             d.Version,
		AuditFields:         models.AuditFields(d.AuditFields),
	}, nil
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) (domain.Account, error) {
	d := domain.Account{
		AccountID:           m.AccountID,
		Email:               m.Email,
		DisplayName:         m.DisplayName,
		InstallmentsEnabled: m.InstallmentsEnabled,
		Suspicious:          m.Suspicious,
		SuspicionReason:     m.SuspicionReason,
		SuspiciousSince:     m.SuspiciousSince,
		Version:             m.Version,
		AuditFields:         domain.AuditFields(m.AuditFields),
	}
	if len(m.Settings) > 0 {
		if err := json.Unmarshal(m.Settings, &d.Settings); err != nil {
			return domain.Account{}, fmt.Errorf("decode settings of account %s: %w", m.AccountID, err)
		}
	}
	if len(m.SettingsAudit) > 0 {
		if err := json.Unmarshal(m.SettingsAudit, &d.SettingsAudit); err != nil {
			return domain.Account{}, fmt.Errorf("decode settings audit of account %s: %w", m.AccountID, err)
		}
	}
	return d, nil
}
