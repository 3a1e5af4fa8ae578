package models

import "time"

// Account is the accounts row. Settings and SettingsAudit are JSONB documents.
type Account struct {
	AccountID           string     `db:"account_id"`
	Email               string     `db:"email"`
	DisplayName         string     `db:"display_name"`
	InstallmentsEnabled bool       `db:"installments_enabled"`
	Suspicious          bool       `db:"suspicious"`
	SuspicionReason     string     `db:"suspicion_reason"`
	SuspiciousSince     *time.Time `db:"suspicious_since"`
	Settings            []byte     `db:"settings"`
	SettingsAudit       []byte     `db:"settings_audit"`
	Version             int64      `db:"version"`
	AuditFields
}
