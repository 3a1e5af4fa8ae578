package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/installment_ledger_app/internal/apperrors"
	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/installment_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/installment_ledger_app/internal/core/services"
	"github.com/SscSPs/installment_ledger_app/internal/dto"
	"github.com/SscSPs/installment_ledger_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// WorkflowTestSuite drives the ledger, approval and sweep services against the
// in-memory store with a controllable clock.
type WorkflowTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	notifier *MockNotifier
	now      time.Time
	ledgers  portssvc.LedgerSvcFacade
	approval portssvc.ApprovalSvc
	sweep    portssvc.SweepSvc
}

func (suite *WorkflowTestSuite) clock() time.Time { return suite.now }

func (suite *WorkflowTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.now = fixedNow
	suite.store = memory.NewStore()
	suite.notifier = new(MockNotifier)

	opts := services.WithClock(suite.clock)
	suite.ledgers = services.NewLedgerService(suite.store, suite.store, suite.store, opts)
	suite.approval = services.NewApprovalService(suite.store, suite.store, suite.notifier, time.Second, opts)
	suite.sweep = services.NewSweepService(suite.store, suite.store, 2, opts)

	suite.Require().NoError(suite.store.SaveAccount(suite.ctx, domain.Account{
		AccountID:           "acc-1",
		Email:               "payer@example.com",
		DisplayName:         "Payer One",
		InstallmentsEnabled: true,
	}))
	suite.Require().NoError(suite.store.SavePurchase(suite.ctx, domain.Purchase{
		PurchaseID: "pur-1",
		Price:      decimal.NewFromInt(1000),
		Duration:   "3 months",
		IsActive:   true,
	}))
}

func (suite *WorkflowTestSuite) TearDownTest() {
	suite.notifier.AssertExpectations(suite.T())
}

func (suite *WorkflowTestSuite) createLedger(accountID, mode, ref string) *domain.Ledger {
	ledger, err := suite.ledgers.CreateLedger(suite.ctx, dto.CreateLedgerRequest{
		AccountID:   accountID,
		PurchaseID:  "pur-1",
		Mode:        mode,
		ExternalRef: ref,
	}, adminUser)
	suite.Require().NoError(err)
	return ledger
}

func (suite *WorkflowTestSuite) account(id string) *domain.Account {
	a, err := suite.store.FindAccountByID(suite.ctx, id)
	suite.Require().NoError(err)
	return a
}

func (suite *WorkflowTestSuite) TestInstallmentLifecycle() {
	ledger := suite.createLedger("acc-1", "installment", "tx-1")
	suite.Require().Len(ledger.Obligations, 2)
	suite.True(ledger.Obligations[0].Amount.Equal(decimal.NewFromInt(300)))
	suite.True(ledger.Obligations[1].Amount.Equal(decimal.NewFromInt(700)))

	ledger, err := suite.approval.DecideObligation(suite.ctx, ledger.LedgerID, 1, domain.DecisionApprove, "", adminUser)
	suite.Require().NoError(err)
	suite.True(ledger.AmountPaid.Equal(decimal.NewFromInt(300)))
	suite.Equal(domain.PaymentPartial, ledger.PaymentStatus)
	suite.Equal(domain.ServiceActive, ledger.ServiceStatus)

	suite.now = suite.now.Add(24 * time.Hour)
	ledger, err = suite.approval.SubmitObligation(suite.ctx, ledger.LedgerID, 2, "tx-2", payerUser)
	suite.Require().NoError(err)
	suite.Equal(domain.ObligationSubmitted, ledger.Obligations[1].Status)

	suite.notifier.On("NotifyPaymentApproved", mock.Anything, mock.MatchedBy(func(e domain.PaymentApprovedEvent) bool {
		return e.LedgerID == ledger.LedgerID &&
			e.Email == "payer@example.com" &&
			e.AmountPaid.Equal(decimal.NewFromInt(1000))
	})).Return(nil).Once()

	ledger, err = suite.approval.DecideObligation(suite.ctx, ledger.LedgerID, 2, domain.DecisionApprove, "ok", adminUser)
	suite.Require().NoError(err)
	suite.True(ledger.AmountPaid.Equal(decimal.NewFromInt(1000)))
	suite.True(ledger.AmountDue.IsZero())
	suite.Equal(domain.PaymentApproved, ledger.PaymentStatus)
	suite.Equal(domain.ServiceActive, ledger.ServiceStatus)

	stored, err := suite.store.FindLedgerByID(suite.ctx, ledger.LedgerID)
	suite.Require().NoError(err)
	suite.Equal(ledger.Version, stored.Version)
}

func (suite *WorkflowTestSuite) TestNotificationFailureDoesNotRollBack() {
	ledger := suite.createLedger("acc-1", "full", "tx-full")
	suite.notifier.On("NotifyPaymentApproved", mock.Anything, mock.Anything).
		Return(errors.New("smtp unavailable")).Once()

	ledger, err := suite.approval.DecidePayment(suite.ctx, ledger.LedgerID, domain.DecisionApprove, "", adminUser)

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentApproved, ledger.PaymentStatus)
	stored, err := suite.store.FindLedgerByID(suite.ctx, ledger.LedgerID)
	suite.Require().NoError(err)
	suite.Equal(domain.PaymentApproved, stored.PaymentStatus)
	suite.NotNil(stored.StartDate)
}

func (suite *WorkflowTestSuite) TestFullModeReject() {
	ledger := suite.createLedger("acc-1", "full", "tx-full")

	ledger, err := suite.approval.DecidePayment(suite.ctx, ledger.LedgerID, domain.DecisionReject, "bounced", adminUser)

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentRejected, ledger.PaymentStatus)
	suite.Equal(domain.ServiceExpired, ledger.ServiceStatus)
	suite.Nil(ledger.StartDate)
	suite.notifier.AssertNotCalled(suite.T(), "NotifyPaymentApproved", mock.Anything, mock.Anything)
}

func (suite *WorkflowTestSuite) TestDecideNotSubmittedLeavesLedgerUnchanged() {
	ledger := suite.createLedger("acc-1", "installment", "tx-1")

	_, err := suite.approval.DecideObligation(suite.ctx, ledger.LedgerID, 2, domain.DecisionApprove, "", adminUser)
	suite.ErrorIs(err, apperrors.ErrNotSubmitted)

	stored, err := suite.store.FindLedgerByID(suite.ctx, ledger.LedgerID)
	suite.Require().NoError(err)
	suite.Equal(ledger.Version, stored.Version)
	suite.Equal(domain.ObligationPending, stored.Obligations[1].Status)
}

func (suite *WorkflowTestSuite) TestSubmitRejectsReferenceOfAnotherLedger() {
	suite.createLedger("acc-1", "full", "tx-other")
	ledger := suite.createLedger("acc-1", "installment", "tx-1")

	_, err := suite.approval.SubmitObligation(suite.ctx, ledger.LedgerID, 2, "tx-other", payerUser)
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	_, err = suite.approval.SubmitObligation(suite.ctx, ledger.LedgerID, 2, "tx-2", domain.Actor{UserID: "acc-2", Role: domain.RolePayer})
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *WorkflowTestSuite) TestRejectedReferenceCanBeReused() {
	ledger := suite.createLedger("acc-1", "installment", "tx-1")
	_, err := suite.approval.SubmitObligation(suite.ctx, ledger.LedgerID, 2, "tx-2", payerUser)
	suite.Require().NoError(err)

	ledger, err = suite.approval.DecideObligation(suite.ctx, ledger.LedgerID, 2, domain.DecisionReject, "wrong amount", adminUser)
	suite.Require().NoError(err)
	suite.Equal(domain.ObligationRejected, ledger.Obligations[1].Status)

	ledger, err = suite.approval.SubmitObligation(suite.ctx, ledger.LedgerID, 2, "tx-2", payerUser)
	suite.Require().NoError(err)
	suite.Equal(domain.ObligationSubmitted, ledger.Obligations[1].Status)
}

func (suite *WorkflowTestSuite) TestIneligibleAccountPersistsNothing() {
	suite.Require().NoError(suite.store.SaveAccount(suite.ctx, domain.Account{AccountID: "acc-2"}))

	_, err := suite.ledgers.CreateLedger(suite.ctx, dto.CreateLedgerRequest{
		AccountID: "acc-2", PurchaseID: "pur-1", Mode: "installment", ExternalRef: "tx-9",
	}, adminUser)
	suite.ErrorIs(err, apperrors.ErrAccountIneligible)

	page, _, err := suite.store.ListLedgersByAccount(suite.ctx, "acc-2", 10, nil)
	suite.Require().NoError(err)
	suite.Empty(page)
	_, err = suite.store.FindLedgerIDByReference(suite.ctx, "tx-9")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *WorkflowTestSuite) TestOverdueSweepIsIdempotent() {
	ledger := suite.createLedger("acc-1", "installment", "tx-1")
	suite.Require().NoError(suite.store.SaveAccount(suite.ctx, domain.Account{AccountID: "acc-2", InstallmentsEnabled: true}))
	suite.createLedger("acc-2", "installment", "tx-2")

	// Nothing is overdue on the creation day
	result, err := suite.sweep.RunOverdueSweep(suite.ctx)
	suite.Require().NoError(err)
	suite.Empty(result.FlaggedAccounts)

	suite.now = suite.now.Add(24 * time.Hour)
	result, err = suite.sweep.RunOverdueSweep(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal([]string{"acc-1", "acc-2"}, result.FlaggedAccounts)
	suite.Equal(2, result.LedgersFlagged)
	suite.Empty(result.Failures)

	acc := suite.account("acc-1")
	suite.True(acc.Suspicious)
	suite.False(acc.InstallmentsEnabled)
	suite.False(acc.CanCreateInstallmentPlan())

	stored, err := suite.store.FindLedgerByID(suite.ctx, ledger.LedgerID)
	suite.Require().NoError(err)
	suite.True(stored.Suspicious)
	suite.Equal(domain.ObligationSubmitted, stored.Obligations[0].Status, "obligation statuses are not rewritten")
	version := stored.Version

	result, err = suite.sweep.RunOverdueSweep(suite.ctx)
	suite.Require().NoError(err)
	suite.Empty(result.FlaggedAccounts)
	suite.Zero(result.LedgersScanned)

	stored, err = suite.store.FindLedgerByID(suite.ctx, ledger.LedgerID)
	suite.Require().NoError(err)
	suite.Equal(version, stored.Version)
}

func (suite *WorkflowTestSuite) TestSweepSkipsPaidLedgers() {
	ledger := suite.createLedger("acc-1", "installment", "tx-1")
	_, err := suite.approval.DecideObligation(suite.ctx, ledger.LedgerID, 1, domain.DecisionApprove, "", adminUser)
	suite.Require().NoError(err)

	suite.now = suite.now.Add(10 * 24 * time.Hour)
	result, err := suite.sweep.RunOverdueSweep(suite.ctx)

	suite.Require().NoError(err)
	suite.Empty(result.FlaggedAccounts)
	suite.Equal(1, result.LedgersScanned)
	suite.True(suite.account("acc-1").InstallmentsEnabled)
}

// racingAccountRepo lets an administrator edit the account between the
// sweep's read and its first write.
type racingAccountRepo struct {
	*memory.Store
	once sync.Once
}

func (r *racingAccountRepo) UpdateAccount(ctx context.Context, account *domain.Account) error {
	var adminErr error
	r.once.Do(func() {
		fresh, err := r.Store.FindAccountByID(ctx, account.AccountID)
		if err != nil {
			adminErr = err
			return
		}
		fresh.DisplayName = "Renamed By Admin"
		adminErr = r.Store.UpdateAccount(ctx, fresh)
	})
	if adminErr != nil {
		return adminErr
	}
	return r.Store.UpdateAccount(ctx, account)
}

func (suite *WorkflowTestSuite) TestSweepLosingAccountRaceIsRetriedNextRun() {
	ledger := suite.createLedger("acc-1", "installment", "tx-1")
	sweep := services.NewSweepService(suite.store, &racingAccountRepo{Store: suite.store}, 2, services.WithClock(suite.clock))

	suite.now = suite.now.Add(24 * time.Hour)
	result, err := sweep.RunOverdueSweep(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(result.Failures, 1)
	suite.Equal(ledger.LedgerID, result.Failures[0].LedgerID)
	suite.Contains(result.Failures[0].Error, apperrors.ErrConcurrentModification.Error())
	suite.Empty(result.FlaggedAccounts)
	suite.Zero(result.LedgersFlagged)

	stored, err := suite.store.FindLedgerByID(suite.ctx, ledger.LedgerID)
	suite.Require().NoError(err)
	suite.False(stored.Suspicious, "the ledger stays unflagged when the account write loses")
	suite.False(suite.account("acc-1").Suspicious)

	result, err = sweep.RunOverdueSweep(suite.ctx)
	suite.Require().NoError(err)
	suite.Empty(result.Failures)
	suite.Equal([]string{"acc-1"}, result.FlaggedAccounts)

	stored, err = suite.store.FindLedgerByID(suite.ctx, ledger.LedgerID)
	suite.Require().NoError(err)
	suite.True(stored.Suspicious)
	acc := suite.account("acc-1")
	suite.True(acc.Suspicious)
	suite.False(acc.InstallmentsEnabled)
	suite.Equal("Renamed By Admin", acc.DisplayName, "the administrator's write is kept")
}

// barrierLedgerRepo holds every reader until both concurrent callers have
// loaded the same ledger version.
type barrierLedgerRepo struct {
	*memory.Store
	wg *sync.WaitGroup
}

func (r barrierLedgerRepo) FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	l, err := r.Store.FindLedgerByID(ctx, ledgerID)
	r.wg.Done()
	r.wg.Wait()
	return l, err
}

func (suite *WorkflowTestSuite) TestConcurrentDecisionsOneWins() {
	ledger := suite.createLedger("acc-1", "installment", "tx-1")

	var barrier sync.WaitGroup
	barrier.Add(2)
	racing := services.NewApprovalService(barrierLedgerRepo{Store: suite.store, wg: &barrier}, suite.store, suite.notifier, time.Second, services.WithClock(suite.clock))

	errs := make([]error, 2)
	var done sync.WaitGroup
	for i := range errs {
		done.Add(1)
		go func() {
			defer done.Done()
			_, errs[i] = racing.DecideObligation(suite.ctx, ledger.LedgerID, 1, domain.DecisionApprove, "", adminUser)
		}()
	}
	done.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		suite.ErrorIs(err, apperrors.ErrConcurrentModification)
	}
	suite.Equal(1, succeeded)

	stored, err := suite.store.FindLedgerByID(suite.ctx, ledger.LedgerID)
	suite.Require().NoError(err)
	suite.True(stored.AmountPaid.Equal(decimal.NewFromInt(300)))
	suite.Equal(int64(2), stored.Version)
}

func TestWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowTestSuite))
}
