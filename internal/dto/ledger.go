package dto

import (
	"time"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLedgerRequest starts a purchase. AccountID is only honoured for
// administrators creating a ledger on a payer's behalf.
type CreateLedgerRequest struct {
	AccountID   string `json:"accountID"`
	PurchaseID  string `json:"purchaseID" binding:"required"`
	Mode        string `json:"mode" binding:"required,oneof=full installment"`
	ExternalRef string `json:"externalRef" binding:"required,max=255"`
}

// SubmitObligationRequest attaches a payer's transaction reference.
type SubmitObligationRequest struct {
	ExternalRef string `json:"externalRef" binding:"required,max=255"`
}

// DecisionRequest carries an administrator's decision.
type DecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Notes    string `json:"notes" binding:"max=1000"`
}

// ListLedgersParams defines query parameters for listing ledgers.
type ListLedgersParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ObligationResponse is one installment of a ledger snapshot.
type ObligationResponse struct {
	Ordinal     int                     `json:"ordinal"`
	Amount      decimal.Decimal         `json:"amount"`
	Percentage  int                     `json:"percentage"`
	DueDate     time.Time               `json:"dueDate"`
	Status      domain.ObligationStatus `json:"status"`
	Overdue     bool                    `json:"overdue"`
	SubmittedAt *time.Time              `json:"submittedAt,omitempty"`
	SubmittedBy string                  `json:"submittedBy,omitempty"`
	ApprovedAt  *time.Time              `json:"approvedAt,omitempty"`
	ApprovedBy  string                  `json:"approvedBy,omitempty"`
	PaidDate    *time.Time              `json:"paidDate,omitempty"`
	RejectedAt  *time.Time              `json:"rejectedAt,omitempty"`
	RejectedBy  string                  `json:"rejectedBy,omitempty"`
	ExternalRef string                  `json:"externalRef,omitempty"`
	Notes       string                  `json:"notes,omitempty"`
}

// LedgerResponse is the ledger snapshot returned by every ledger operation.
type LedgerResponse struct {
	LedgerID        string               `json:"ledgerID"`
	AccountID       string               `json:"accountID"`
	PurchaseID      string               `json:"purchaseID"`
	TotalPrice      decimal.Decimal      `json:"totalPrice"`
	PaymentMode     domain.PaymentMode   `json:"paymentMode"`
	Obligations     []ObligationResponse `json:"obligations"`
	AmountPaid      decimal.Decimal      `json:"amountPaid"`
	AmountDue       decimal.Decimal      `json:"amountDue"`
	PaymentStatus   domain.PaymentStatus `json:"paymentStatus"`
	StartDate       *time.Time           `json:"startDate,omitempty"`
	EndDate         *time.Time           `json:"endDate,omitempty"`
	ServiceStatus   domain.ServiceStatus `json:"serviceStatus"`
	Completed       bool                 `json:"completed"`
	Suspicious      bool                 `json:"suspicious"`
	Overdue         bool                 `json:"overdue"`
	OverdueOrdinals []int                `json:"overdueObligations"`
	ExternalRef     string               `json:"externalRef"`
	Notes           string               `json:"notes,omitempty"`
	Version         int64                `json:"version"`
	CreatedAt       time.Time            `json:"createdAt"`
	CreatedBy       string               `json:"createdBy"`
	LastUpdatedAt   time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy   string               `json:"lastUpdatedBy"`
}

// ListLedgersResponse is a page of ledgers.
type ListLedgersResponse struct {
	Ledgers   []LedgerResponse `json:"ledgers"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// ToLedgerResponse converts a domain.Ledger to its snapshot DTO. now decides
// the derived overdue flags.
func ToLedgerResponse(l *domain.Ledger, now time.Time) LedgerResponse {
	obligations := make([]ObligationResponse, 0, len(l.Obligations))
	for _, o := range l.Obligations {
		obligations = append(obligations, ObligationResponse{
			Ordinal:     o.Ordinal,
			Amount:      o.Amount,
			Percentage:  o.Percentage,
			DueDate:     o.DueDate,
			Status:      o.Status,
			Overdue:     o.IsOverdue(now),
			SubmittedAt: o.SubmittedAt,
			SubmittedBy: o.SubmittedBy,
			ApprovedAt:  o.ApprovedAt,
			ApprovedBy:  o.ApprovedBy,
			PaidDate:    o.PaidDate,
			RejectedAt:  o.RejectedAt,
			RejectedBy:  o.RejectedBy,
			ExternalRef: o.ExternalRef,
			Notes:       o.Notes,
		})
	}
	overdue := l.OverdueOrdinals(now)
	if overdue == nil {
		overdue = []int{}
	}
	return LedgerResponse{
		LedgerID:        l.LedgerID,
		AccountID:       l.AccountID,
		PurchaseID:      l.PurchaseID,
		TotalPrice:      l.TotalPrice,
		PaymentMode:     l.PaymentMode,
		Obligations:     obligations,
		AmountPaid:      l.AmountPaid,
		AmountDue:       l.AmountDue,
		PaymentStatus:   l.PaymentStatus,
		StartDate:       l.StartDate,
		EndDate:         l.EndDate,
		ServiceStatus:   l.ServiceStatus,
		Completed:       l.Completed,
		Suspicious:      l.Suspicious,
		Overdue:         len(overdue) > 0,
		OverdueOrdinals: overdue,
		ExternalRef:     l.ExternalRef,
		Notes:           l.Notes,
		Version:         l.Version,
		CreatedAt:       l.CreatedAt,
		CreatedBy:       l.CreatedBy,
		LastUpdatedAt:   l.LastUpdatedAt,
		LastUpdatedBy:   l.LastUpdatedBy,
	}
}

// ToListLedgersResponse converts a page of ledgers.
func ToListLedgersResponse(ledgers []domain.Ledger, nextToken *string, now time.Time) ListLedgersResponse {
	out := make([]LedgerResponse, 0, len(ledgers))
	for i := range ledgers {
		out = append(out, ToLedgerResponse(&ledgers[i], now))
	}
	return ListLedgersResponse{Ledgers: out, NextToken: nextToken}
}
