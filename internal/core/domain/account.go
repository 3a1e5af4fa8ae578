package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

// InstallmentSettings is the versioned installment configuration of an
// account. Revision increases on every template change.
type InstallmentSettings struct {
	SplitTemplate SplitTemplate `json:"splitTemplate,omitempty"`
	Revision      int           `json:"revision"`
	UpdatedBy     string        `json:"updatedBy,omitempty"`
	UpdatedAt     *time.Time    `json:"updatedAt,omitempty"`
}

// SettingsChange is one entry of an account's settings audit trail.
type SettingsChange struct {
	Field     string    `json:"field"`
	OldValue  string    `json:"oldValue"`
	NewValue  string    `json:"newValue"`
	ChangedBy string    `json:"changedBy"`
	ChangedAt time.Time `json:"changedAt"`
}

const (
	FieldInstallmentsEnabled = "installmentsEnabled"
	FieldSplitTemplate       = "splitTemplate"
	FieldSuspicious          = "suspicious"
)

// Account is a payer identity together with its installment eligibility.
type Account struct {
	AccountID           string              `json:"accountID"`
	Email               string              `json:"email"`
	DisplayName         string              `json:"displayName"`
	InstallmentsEnabled bool                `json:"installmentsEnabled"`
	Suspicious          bool                `json:"suspicious"`
	SuspicionReason     string              `json:"suspicionReason,omitempty"`
	SuspiciousSince     *time.Time          `json:"suspiciousSince,omitempty"`
	Settings            InstallmentSettings `json:"settings"`
	SettingsAudit       []SettingsChange    `json:"settingsAudit,omitempty"`
	Version             int64               `json:"version"`
	AuditFields
}

// CanCreateInstallmentPlan is the eligibility gate for installment ledgers.
func (a Account) CanCreateInstallmentPlan() bool {
	return a.InstallmentsEnabled && !a.Suspicious
}

// EffectiveSplitTemplate returns the account's template or the default.
func (a Account) EffectiveSplitTemplate() SplitTemplate {
	if len(a.Settings.SplitTemplate) == 0 {
		return DefaultSplitTemplate()
	}
	return a.Settings.SplitTemplate.Clone()
}

// SetInstallmentsEnabled toggles eligibility and reports whether it changed.
func (a *Account) SetInstallmentsEnabled(enabled bool, actorID string, now time.Time) bool {
	if a.InstallmentsEnabled == enabled {
		return false
	}
	a.recordChange(FieldInstallmentsEnabled, strconv.FormatBool(a.InstallmentsEnabled), strconv.FormatBool(enabled), actorID, now)
	a.InstallmentsEnabled = enabled
	a.touch(actorID, now)
	return true
}

// SetSplitTemplate replaces the installment template and bumps the settings revision.
func (a *Account) SetSplitTemplate(template SplitTemplate, actorID string, now time.Time) error {
	if err := template.ValidateForAccount(); err != nil {
		return err
	}
	a.recordChange(FieldSplitTemplate, encodeTemplate(a.Settings.SplitTemplate), encodeTemplate(template), actorID, now)
	a.Settings = InstallmentSettings{
		SplitTemplate: template.Clone(),
		Revision:      a.Settings.Revision + 1,
		UpdatedBy:     actorID,
		UpdatedAt:     timePtr(now),
	}
	a.touch(actorID, now)
	return nil
}

// SetSuspicious sets or clears the trust flag and reports whether it changed.
// Setting it always forces installments off; clearing it never turns them back on.
func (a *Account) SetSuspicious(suspicious bool, reason string, actorID string, now time.Time) bool {
	changed := a.Suspicious != suspicious
	if changed {
		a.recordChange(FieldSuspicious, strconv.FormatBool(a.Suspicious), strconv.FormatBool(suspicious), actorID, now)
		a.Suspicious = suspicious
		if suspicious {
			a.SuspicionReason = reason
			a.SuspiciousSince = timePtr(now)
		} else {
			a.SuspicionReason = ""
			a.SuspiciousSince = nil
		}
	}
	if suspicious && a.InstallmentsEnabled {
		a.recordChange(FieldInstallmentsEnabled, "true", "false", actorID, now)
		a.InstallmentsEnabled = false
		changed = true
	}
	if changed {
		a.touch(actorID, now)
	}
	return changed
}

func (a *Account) recordChange(field, oldValue, newValue, actorID string, now time.Time) {
	a.SettingsAudit = append(a.SettingsAudit, SettingsChange{
		Field:     field,
		OldValue:  oldValue,
		NewValue:  newValue,
		ChangedBy: actorID,
		ChangedAt: now,
	})
}

// Clone returns a deep copy suitable for handing out of a store.
func (a Account) Clone() Account {
	out := a
	out.Settings.SplitTemplate = a.Settings.SplitTemplate.Clone()
	if a.SettingsAudit != nil {
		out.SettingsAudit = make([]SettingsChange, len(a.SettingsAudit))
		copy(out.SettingsAudit, a.SettingsAudit)
	}
	return out
}

func encodeTemplate(t SplitTemplate) string {
	if len(t) == 0 {
		return ""
	}
	b, err := json.Marshal(t)
	if err != nil {
		return ""
	}
	return string(b)
}
