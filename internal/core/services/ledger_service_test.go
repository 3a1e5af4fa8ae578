package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/installment_ledger_app/internal/apperrors"
	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/installment_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/installment_ledger_app/internal/core/services"
	"github.com/SscSPs/installment_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	ledgerRepo   *MockLedgerRepository
	accountRepo  *MockAccountRepository
	purchaseRepo *MockPurchaseRepository
	service      portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.ledgerRepo = new(MockLedgerRepository)
	suite.accountRepo = new(MockAccountRepository)
	suite.purchaseRepo = new(MockPurchaseRepository)
	suite.service = services.NewLedgerService(suite.ledgerRepo, suite.accountRepo, suite.purchaseRepo, services.WithClock(fixedClock))
}

func (suite *LedgerServiceTestSuite) TearDownTest() {
	suite.ledgerRepo.AssertExpectations(suite.T())
	suite.accountRepo.AssertExpectations(suite.T())
	suite.purchaseRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) purchase() *domain.Purchase {
	return &domain.Purchase{PurchaseID: "pur-1", Price: decimal.NewFromInt(1000), Duration: "1 month", IsActive: true}
}

func (suite *LedgerServiceTestSuite) TestCreateLedger_Installment() {
	suite.accountRepo.On("FindAccountByID", suite.ctx, "acc-1").
		Return(&domain.Account{AccountID: "acc-1", InstallmentsEnabled: true}, nil).Once()
	suite.purchaseRepo.On("FindPurchaseByID", suite.ctx, "pur-1").Return(suite.purchase(), nil).Once()
	suite.ledgerRepo.On("FindLedgerIDByReference", suite.ctx, "tx-1").Return("", apperrors.ErrNotFound).Once()
	suite.ledgerRepo.On("SaveLedger", suite.ctx, mock.MatchedBy(func(l domain.Ledger) bool {
		return l.AccountID == "acc-1" && l.Version == 1 && len(l.Obligations) == 2
	})).Return(nil).Once()

	req := dto.CreateLedgerRequest{PurchaseID: "pur-1", Mode: "installment", ExternalRef: " tx-1 "}
	ledger, err := suite.service.CreateLedger(suite.ctx, req, payerUser)

	suite.Require().NoError(err)
	suite.Equal("tx-1", ledger.ExternalRef)
	suite.True(ledger.Obligations[0].Amount.Equal(decimal.NewFromInt(300)))
	suite.True(ledger.Obligations[1].Amount.Equal(decimal.NewFromInt(700)))
	suite.Equal(domain.ObligationSubmitted, ledger.Obligations[0].Status)
	suite.Equal(domain.PaymentPending, ledger.PaymentStatus)
}

// An ineligible account fails before anything is written.
func (suite *LedgerServiceTestSuite) TestCreateLedger_IneligibleAccountPersistsNothing() {
	suite.accountRepo.On("FindAccountByID", suite.ctx, "acc-1").
		Return(&domain.Account{AccountID: "acc-1", InstallmentsEnabled: false}, nil).Once()
	suite.purchaseRepo.On("FindPurchaseByID", suite.ctx, "pur-1").Return(suite.purchase(), nil).Once()
	suite.ledgerRepo.On("FindLedgerIDByReference", suite.ctx, "tx-1").Return("", apperrors.ErrNotFound).Once()

	req := dto.CreateLedgerRequest{PurchaseID: "pur-1", Mode: "installment", ExternalRef: "tx-1"}
	_, err := suite.service.CreateLedger(suite.ctx, req, payerUser)

	suite.ErrorIs(err, apperrors.ErrAccountIneligible)
	suite.ledgerRepo.AssertNotCalled(suite.T(), "SaveLedger", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateLedger_DuplicateReference() {
	suite.accountRepo.On("FindAccountByID", suite.ctx, "acc-1").
		Return(&domain.Account{AccountID: "acc-1", InstallmentsEnabled: true}, nil).Once()
	suite.purchaseRepo.On("FindPurchaseByID", suite.ctx, "pur-1").Return(suite.purchase(), nil).Once()
	suite.ledgerRepo.On("FindLedgerIDByReference", suite.ctx, "tx-1").Return("other", nil).Once()

	req := dto.CreateLedgerRequest{PurchaseID: "pur-1", Mode: "full", ExternalRef: "tx-1"}
	_, err := suite.service.CreateLedger(suite.ctx, req, payerUser)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *LedgerServiceTestSuite) TestCreateLedger_PayerCannotOpenForOthers() {
	suite.accountRepo.On("FindAccountByID", suite.ctx, "acc-1").
		Return(&domain.Account{AccountID: "acc-1"}, nil).Once()
	suite.purchaseRepo.On("FindPurchaseByID", suite.ctx, "pur-1").Return(suite.purchase(), nil).Once()
	suite.ledgerRepo.On("FindLedgerIDByReference", suite.ctx, "tx-1").Return("", apperrors.ErrNotFound).Once()
	suite.ledgerRepo.On("SaveLedger", suite.ctx, mock.MatchedBy(func(l domain.Ledger) bool {
		return l.AccountID == "acc-1"
	})).Return(nil).Once()

	// AccountID in the body is ignored for payers
	req := dto.CreateLedgerRequest{AccountID: "acc-2", PurchaseID: "pur-1", Mode: "full", ExternalRef: "tx-1"}
	ledger, err := suite.service.CreateLedger(suite.ctx, req, payerUser)

	suite.Require().NoError(err)
	suite.Equal("acc-1", ledger.AccountID)
}

func (suite *LedgerServiceTestSuite) TestCreateLedger_InactivePurchase() {
	inactive := suite.purchase()
	inactive.IsActive = false
	suite.accountRepo.On("FindAccountByID", suite.ctx, "acc-1").
		Return(&domain.Account{AccountID: "acc-1", InstallmentsEnabled: true}, nil).Once()
	suite.purchaseRepo.On("FindPurchaseByID", suite.ctx, "pur-1").Return(inactive, nil).Once()
	suite.ledgerRepo.On("FindLedgerIDByReference", suite.ctx, "tx-1").Return("", apperrors.ErrNotFound).Once()

	req := dto.CreateLedgerRequest{PurchaseID: "pur-1", Mode: "full", ExternalRef: "tx-1"}
	_, err := suite.service.CreateLedger(suite.ctx, req, payerUser)

	suite.ErrorIs(err, apperrors.ErrPurchaseInactive)
}

func (suite *LedgerServiceTestSuite) TestGetLedger_HidesOtherAccounts() {
	suite.ledgerRepo.On("FindLedgerByID", suite.ctx, "led-1").
		Return(&domain.Ledger{LedgerID: "led-1", AccountID: "acc-2"}, nil).Twice()

	_, err := suite.service.GetLedgerByID(suite.ctx, "led-1", payerUser)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	ledger, err := suite.service.GetLedgerByID(suite.ctx, "led-1", adminUser)
	suite.Require().NoError(err)
	suite.Equal("acc-2", ledger.AccountID)
}

func (suite *LedgerServiceTestSuite) TestListLedgers_ClampsLimit() {
	next := "token"
	suite.ledgerRepo.On("ListLedgersByAccount", suite.ctx, "acc-1", 20, (*string)(nil)).
		Return([]domain.Ledger{{LedgerID: "led-1", AccountID: "acc-1"}}, &next, nil).Once()
	suite.ledgerRepo.On("ListLedgersByAccount", suite.ctx, "acc-1", 100, (*string)(nil)).
		Return([]domain.Ledger{}, nil, nil).Once()

	resp, err := suite.service.ListLedgersByAccount(suite.ctx, "acc-1", payerUser, dto.ListLedgersParams{})
	suite.Require().NoError(err)
	suite.Len(resp.Ledgers, 1)
	suite.Equal(&next, resp.NextToken)

	_, err = suite.service.ListLedgersByAccount(suite.ctx, "acc-1", adminUser, dto.ListLedgersParams{Limit: 500})
	suite.Require().NoError(err)

	_, err = suite.service.ListLedgersByAccount(suite.ctx, "acc-2", payerUser, dto.ListLedgersParams{})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestMarkCompleted() {
	ledger := &domain.Ledger{LedgerID: "led-1", AccountID: "acc-1", PaymentMode: domain.PaymentModeFull, PaymentStatus: domain.PaymentApproved}
	suite.ledgerRepo.On("FindLedgerByID", suite.ctx, "led-1").Return(ledger, nil).Once()
	suite.ledgerRepo.On("UpdateLedger", suite.ctx, ledger).Return(nil).Once()

	updated, err := suite.service.MarkCompleted(suite.ctx, "led-1", payerUser)

	suite.Require().NoError(err)
	suite.True(updated.Completed)
	suite.Equal(domain.ServiceCompleted, updated.ServiceStatus)
}

func (suite *LedgerServiceTestSuite) TestMarkCompleted_PendingPaymentConflicts() {
	ledger := &domain.Ledger{LedgerID: "led-1", AccountID: "acc-1", PaymentStatus: domain.PaymentPending}
	suite.ledgerRepo.On("FindLedgerByID", suite.ctx, "led-1").Return(ledger, nil).Once()

	_, err := suite.service.MarkCompleted(suite.ctx, "led-1", payerUser)

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
