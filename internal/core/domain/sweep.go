package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarkSuspicious is the command the overdue sweep applies for one ledger:
// flag the owning account (forcing installments off) and then the ledger.
type MarkSuspicious struct {
	AccountID       string
	LedgerID        string
	Reason          string
	OverdueOrdinals []int
}

// SweepFailure records a ledger the sweep could not process. The ledger stays
// unflagged, so the next sweep picks it up again.
type SweepFailure struct {
	AccountID string `json:"accountID"`
	LedgerID  string `json:"ledgerID"`
	Error     string `json:"error"`
}

// SweepResult summarises one overdue sweep.
type SweepResult struct {
	FlaggedAccounts []string       `json:"flaggedAccounts"` // accounts newly marked suspicious
	LedgersScanned  int            `json:"ledgersScanned"`
	LedgersFlagged  int            `json:"ledgersFlagged"`
	Failures        []SweepFailure `json:"failures,omitempty"`
	StartedAt       time.Time      `json:"startedAt"`
	FinishedAt      time.Time      `json:"finishedAt"`
}

// PaymentApprovedEvent is handed to notifiers when a ledger becomes fully paid.
type PaymentApprovedEvent struct {
	LedgerID    string
	AccountID   string
	Email       string
	DisplayName string
	PurchaseID  string
	PaymentMode PaymentMode
	AmountPaid  decimal.Decimal
	ApprovedBy  string
	ApprovedAt  time.Time
	StartDate   *time.Time
	EndDate     *time.Time
}
