package dto

import (
	"time"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
)

// SweepResponse reports the accounts newly marked suspicious by a sweep.
type SweepResponse struct {
	FlaggedAccounts []string              `json:"flaggedAccounts"`
	LedgersScanned  int                   `json:"ledgersScanned"`
	LedgersFlagged  int                   `json:"ledgersFlagged"`
	Failures        []domain.SweepFailure `json:"failures"`
	StartedAt       time.Time             `json:"startedAt"`
	FinishedAt      time.Time             `json:"finishedAt"`
}

func ToSweepResponse(r *domain.SweepResult) SweepResponse {
	flagged := r.FlaggedAccounts
	if flagged == nil {
		flagged = []string{}
	}
	failures := r.Failures
	if failures == nil {
		failures = []domain.SweepFailure{}
	}
	return SweepResponse{
		FlaggedAccounts: flagged,
		LedgersScanned:  r.LedgersScanned,
		LedgersFlagged:  r.LedgersFlagged,
		Failures:        failures,
		StartedAt:       r.StartedAt,
		FinishedAt:      r.FinishedAt,
	}
}
