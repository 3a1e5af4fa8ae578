package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ObligationStatus is the lifecycle state of a single installment.
type ObligationStatus string

const (
	ObligationPending   ObligationStatus = "pending"
	ObligationSubmitted ObligationStatus = "submitted"
	ObligationPaid      ObligationStatus = "paid"
	ObligationRejected  ObligationStatus = "rejected"
	// ObligationOverdue is accepted when loading stored ledgers but is never
	// assigned by this service; overdue-ness is derived from the due date.
	ObligationOverdue   ObligationStatus = "overdue"
	ObligationCancelled ObligationStatus = "cancelled"
)

// Obligation is one scheduled installment owned by a Ledger.
type Obligation struct {
	Ordinal     int              `json:"ordinal"` // 1-based, unique within the ledger
	Amount      decimal.Decimal  `json:"amount"`
	Percentage  int              `json:"percentage"`
	DueDate     time.Time        `json:"dueDate"`
	Status      ObligationStatus `json:"status"`
	SubmittedAt *time.Time       `json:"submittedAt,omitempty"`
	SubmittedBy string           `json:"submittedBy,omitempty"`
	ApprovedAt  *time.Time       `json:"approvedAt,omitempty"`
	ApprovedBy  string           `json:"approvedBy,omitempty"`
	PaidDate    *time.Time       `json:"paidDate,omitempty"`
	RejectedAt  *time.Time       `json:"rejectedAt,omitempty"`
	RejectedBy  string           `json:"rejectedBy,omitempty"`
	ExternalRef string           `json:"externalRef,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// IsOverdue reports whether the obligation is still awaiting money or a
// decision after its due date.
func (o Obligation) IsOverdue(now time.Time) bool {
	switch o.Status {
	case ObligationPending, ObligationSubmitted, ObligationOverdue:
		return o.DueDate.Before(now)
	default:
		return false
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
