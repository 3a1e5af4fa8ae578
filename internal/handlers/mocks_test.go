package handlers_test

import (
	"context"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/installment_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/installment_ledger_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string, actor domain.Actor) (*domain.Account, error) {
	args := m.Called(ctx, accountID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) CanCreateInstallmentPlan(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor domain.Actor) (*domain.Account, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID string, actor domain.Actor) error {
	return m.Called(ctx, accountID, actor).Error(0)
}

func (m *MockAccountService) SetInstallmentsEnabled(ctx context.Context, accountID string, enabled bool, actor domain.Actor) (*domain.Account, error) {
	args := m.Called(ctx, accountID, enabled, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) SetSplitTemplate(ctx context.Context, accountID string, template domain.SplitTemplate, actor domain.Actor) (*domain.Account, error) {
	args := m.Called(ctx, accountID, template, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) SetSuspicious(ctx context.Context, accountID string, suspicious bool, reason string, actor domain.Actor) (*domain.Account, error) {
	args := m.Called(ctx, accountID, suspicious, reason, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetLedgerByID(ctx context.Context, ledgerID string, actor domain.Actor) (*domain.Ledger, error) {
	args := m.Called(ctx, ledgerID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockLedgerService) ListLedgersByAccount(ctx context.Context, accountID string, actor domain.Actor, params dto.ListLedgersParams) (*dto.ListLedgersResponse, error) {
	args := m.Called(ctx, accountID, actor, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListLedgersResponse), args.Error(1)
}

func (m *MockLedgerService) CreateLedger(ctx context.Context, req dto.CreateLedgerRequest, actor domain.Actor) (*domain.Ledger, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockLedgerService) MarkCompleted(ctx context.Context, ledgerID string, actor domain.Actor) (*domain.Ledger, error) {
	args := m.Called(ctx, ledgerID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock ApprovalService ---
type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) SubmitObligation(ctx context.Context, ledgerID string, ordinal int, externalRef string, actor domain.Actor) (*domain.Ledger, error) {
	args := m.Called(ctx, ledgerID, ordinal, externalRef, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockApprovalService) DecideObligation(ctx context.Context, ledgerID string, ordinal int, decision domain.Decision, notes string, actor domain.Actor) (*domain.Ledger, error) {
	args := m.Called(ctx, ledgerID, ordinal, decision, notes, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockApprovalService) DecidePayment(ctx context.Context, ledgerID string, decision domain.Decision, notes string, actor domain.Actor) (*domain.Ledger, error) {
	args := m.Called(ctx, ledgerID, decision, notes, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

var _ portssvc.ApprovalSvc = (*MockApprovalService)(nil)

// --- Mock PurchaseService ---
type MockPurchaseService struct {
	mock.Mock
}

func (m *MockPurchaseService) CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest, actor domain.Actor) (*domain.Purchase, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}

func (m *MockPurchaseService) GetPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	args := m.Called(ctx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}

var _ portssvc.PurchaseSvcFacade = (*MockPurchaseService)(nil)

// --- Mock SweepService ---
type MockSweepService struct {
	mock.Mock
}

func (m *MockSweepService) RunOverdueSweep(ctx context.Context) (*domain.SweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SweepResult), args.Error(1)
}

var _ portssvc.SweepSvc = (*MockSweepService)(nil)
