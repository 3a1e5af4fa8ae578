package services

import (
	"context"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	"github.com/SscSPs/installment_ledger_app/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account visible to the actor.
	GetAccountByID(ctx context.Context, accountID string, actor domain.Actor) (*domain.Account, error)

	// CanCreateInstallmentPlan evaluates the eligibility gate for an account.
	CanCreateInstallmentPlan(ctx context.Context, accountID string) (bool, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount registers an account. Administrator only.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor domain.Actor) (*domain.Account, error)

	// DeleteAccount removes an account and cascades to its ledgers. Administrator only.
	DeleteAccount(ctx context.Context, accountID string, actor domain.Actor) error
}

// AccountEligibilitySvc defines the administrator-only eligibility mutators
type AccountEligibilitySvc interface {
	SetInstallmentsEnabled(ctx context.Context, accountID string, enabled bool, actor domain.Actor) (*domain.Account, error)
	SetSplitTemplate(ctx context.Context, accountID string, template domain.SplitTemplate, actor domain.Actor) (*domain.Account, error)
	SetSuspicious(ctx context.Context, accountID string, suspicious bool, reason string, actor domain.Actor) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountEligibilitySvc
}
