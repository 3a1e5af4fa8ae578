package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger is the ledgers row. Obligations are embedded as a JSONB array so a
// ledger is always read and written as one document.
type Ledger struct {
	LedgerID         string          `db:"ledger_id"`
	AccountID        string          `db:"account_id"`
	PurchaseID       string          `db:"purchase_id"`
	PurchaseDuration string          `db:"purchase_duration"`
	TotalPrice       decimal.Decimal `db:"total_price"`
	PaymentMode      string          `db:"payment_mode"`
	Obligations      []byte          `db:"obligations"`
	AmountPaid       decimal.Decimal `db:"amount_paid"`
	AmountDue        decimal.Decimal `db:"amount_due"`
	PaymentStatus    string          `db:"payment_status"`
	StartDate        *time.Time      `db:"start_date"`
	EndDate          *time.Time      `db:"end_date"`
	ServiceStatus    string          `db:"service_status"`
	Completed        bool            `db:"completed"`
	Suspicious       bool            `db:"suspicious"`
	ExternalRef      string          `db:"external_ref"`
	Notes            string          `db:"notes"`
	Version          int64           `db:"version"`
	AuditFields
}
