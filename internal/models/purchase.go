package models

import "github.com/shopspring/decimal"

type Purchase struct {
	PurchaseID string          `db:"purchase_id"`
	Name       string          `db:"name"`
	Price      decimal.Decimal `db:"price"`
	Duration   string          `db:"duration"`
	IsActive   bool            `db:"is_active"`
	AuditFields
}
