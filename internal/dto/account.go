package dto

import (
	"time"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
)

// SplitEntryDTO is one installment slot of a split template.
type SplitEntryDTO struct {
	Percentage    int `json:"percentage" binding:"required,min=1,max=100"`
	DueDaysOffset int `json:"dueDaysOffset" binding:"min=0"`
}

// CreateAccountRequest defines the data needed to register an account.
// AccountID is the identity issued by the identity provider (the JWT subject);
// a new UUID is generated when it is omitted.
type CreateAccountRequest struct {
	AccountID           string          `json:"accountID"`
	Email               string          `json:"email" binding:"omitempty,email"`
	DisplayName         string          `json:"displayName"`
	InstallmentsEnabled bool            `json:"installmentsEnabled"`
	SplitTemplate       []SplitEntryDTO `json:"splitTemplate" binding:"omitempty,min=2,splitsum,dive"`
}

// SetInstallmentsEnabledRequest toggles installment eligibility.
type SetInstallmentsEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetSplitTemplateRequest replaces the account's split template.
type SetSplitTemplateRequest struct {
	SplitTemplate []SplitEntryDTO `json:"splitTemplate" binding:"required,min=2,splitsum,dive"`
}

// SetSuspicionRequest sets or clears the trust flag.
type SetSuspicionRequest struct {
	Suspicious *bool  `json:"suspicious" binding:"required"`
	Reason     string `json:"reason" binding:"max=500"`
}

// SettingsChangeResponse is one audit trail entry.
type SettingsChangeResponse struct {
	Field     string    `json:"field"`
	OldValue  string    `json:"oldValue"`
	NewValue  string    `json:"newValue"`
	ChangedBy string    `json:"changedBy"`
	ChangedAt time.Time `json:"changedAt"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID                string                   `json:"accountID"`
	Email                    string                   `json:"email"`
	DisplayName              string                   `json:"displayName"`
	InstallmentsEnabled      bool                     `json:"installmentsEnabled"`
	Suspicious               bool                     `json:"suspicious"`
	SuspicionReason          string                   `json:"suspicionReason,omitempty"`
	SuspiciousSince          *time.Time               `json:"suspiciousSince,omitempty"`
	CanCreateInstallmentPlan bool                     `json:"canCreateInstallmentPlan"`
	SplitTemplate            []SplitEntryDTO          `json:"splitTemplate"`
	UsesDefaultTemplate      bool                     `json:"usesDefaultTemplate"`
	SettingsRevision         int                      `json:"settingsRevision"`
	SettingsUpdatedBy        string                   `json:"settingsUpdatedBy,omitempty"`
	SettingsUpdatedAt        *time.Time               `json:"settingsUpdatedAt,omitempty"`
	SettingsAudit            []SettingsChangeResponse `json:"settingsAudit"`
	Version                  int64                    `json:"version"`
	CreatedAt                time.Time                `json:"createdAt"`
	CreatedBy                string                   `json:"createdBy"`
	LastUpdatedAt            time.Time                `json:"lastUpdatedAt"`
	LastUpdatedBy            string                   `json:"lastUpdatedBy"`
}

// ToSplitTemplate converts request entries into a domain template.
func ToSplitTemplate(entries []SplitEntryDTO) domain.SplitTemplate {
	if len(entries) == 0 {
		return nil
	}
	template := make(domain.SplitTemplate, 0, len(entries))
	for _, e := range entries {
		template = append(template, domain.SplitEntry{Percentage: e.Percentage, DueDaysOffset: e.DueDaysOffset})
	}
	return template
}

func toSplitEntryDTOs(template domain.SplitTemplate) []SplitEntryDTO {
	entries := make([]SplitEntryDTO, 0, len(template))
	for _, e := range template {
		entries = append(entries, SplitEntryDTO{Percentage: e.Percentage, DueDaysOffset: e.DueDaysOffset})
	}
	return entries
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	audit := make([]SettingsChangeResponse, 0, len(acc.SettingsAudit))
	for _, c := range acc.SettingsAudit {
		audit = append(audit, SettingsChangeResponse(c))
	}
	return AccountResponse{
		AccountID:                acc.AccountID,
		Email:                    acc.Email,
		DisplayName:              acc.DisplayName,
		InstallmentsEnabled:      acc.InstallmentsEnabled,
		Suspicious:               acc.Suspicious,
		SuspicionReason:          acc.SuspicionReason,
		SuspiciousSince:          acc.SuspiciousSince,
		CanCreateInstallmentPlan: acc.CanCreateInstallmentPlan(),
		SplitTemplate:            toSplitEntryDTOs(acc.EffectiveSplitTemplate()),
		UsesDefaultTemplate:      len(acc.Settings.SplitTemplate) == 0,
		SettingsRevision:         acc.Settings.Revision,
		SettingsUpdatedBy:        acc.Settings.UpdatedBy,
		SettingsUpdatedAt:        acc.Settings.UpdatedAt,
		SettingsAudit:            audit,
		Version:                  acc.Version,
		CreatedAt:                acc.CreatedAt,
		CreatedBy:                acc.CreatedBy,
		LastUpdatedAt:            acc.LastUpdatedAt,
		LastUpdatedBy:            acc.LastUpdatedBy,
	}
}
