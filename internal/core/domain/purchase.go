package domain

import "github.com/shopspring/decimal"

// Purchase is the service being bought. Ledgers snapshot its price and
// duration at creation time.
type Purchase struct {
	PurchaseID string          `json:"purchaseID"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`    // Non-negative
	Duration   string          `json:"duration"` // e.g. "3 months", "1 year", "45"
	IsActive   bool            `json:"isActive"`
	AuditFields
}
