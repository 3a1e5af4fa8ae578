package services

import (
	"context"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	"github.com/SscSPs/installment_ledger_app/internal/dto"
)

// LedgerReaderSvc defines read operations for ledgers
type LedgerReaderSvc interface {
	// GetLedgerByID returns a ledger owned by the actor (or any ledger for administrators).
	GetLedgerByID(ctx context.Context, ledgerID string, actor domain.Actor) (*domain.Ledger, error)

	// ListLedgersByAccount returns a page of an account's ledgers.
	ListLedgersByAccount(ctx context.Context, accountID string, actor domain.Actor, params dto.ListLedgersParams) (*dto.ListLedgersResponse, error)
}

// LedgerWriterSvc defines ledger lifecycle operations
type LedgerWriterSvc interface {
	// CreateLedger runs the eligibility gate and plan builder and persists the ledger.
	CreateLedger(ctx context.Context, req dto.CreateLedgerRequest, actor domain.Actor) (*domain.Ledger, error)

	// MarkCompleted sets the completion flag on a ledger.
	MarkCompleted(ctx context.Context, ledgerID string, actor domain.Actor) (*domain.Ledger, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}

// ApprovalSvc mediates payer submissions and administrator decisions.
type ApprovalSvc interface {
	SubmitObligation(ctx context.Context, ledgerID string, ordinal int, externalRef string, actor domain.Actor) (*domain.Ledger, error)
	DecideObligation(ctx context.Context, ledgerID string, ordinal int, decision domain.Decision, notes string, actor domain.Actor) (*domain.Ledger, error)
	DecidePayment(ctx context.Context, ledgerID string, decision domain.Decision, notes string, actor domain.Actor) (*domain.Ledger, error)
}

// SweepSvc runs the overdue and trust scan.
type SweepSvc interface {
	RunOverdueSweep(ctx context.Context) (*domain.SweepResult, error)
}

// Notifier delivers payment notifications. Implementations must honour ctx
// cancellation; callers treat every error as non-fatal.
type Notifier interface {
	NotifyPaymentApproved(ctx context.Context, event domain.PaymentApprovedEvent) error
}
