package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/installment_ledger_app/internal/apperrors"
	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/installment_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/installment_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/installment_ledger_app/internal/platform/metrics"
)

const defaultNotifyTimeout = 5 * time.Second

type approvalService struct {
	BaseService
	ledgerRepo    portsrepo.LedgerRepositoryFacade
	accountRepo   portsrepo.AccountReader
	notifier      portssvc.Notifier
	notifyTimeout time.Duration
}

// NewApprovalService creates the workflow for payer submissions and
// administrator decisions. A nil notifier disables notifications.
func NewApprovalService(
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	notifier portssvc.Notifier,
	notifyTimeout time.Duration,
	options ...ServiceOption,
) portssvc.ApprovalSvc {
	if notifyTimeout <= 0 {
		notifyTimeout = defaultNotifyTimeout
	}
	svc := &approvalService{
		ledgerRepo:    ledgerRepo,
		accountRepo:   accountRepo,
		notifier:      notifier,
		notifyTimeout: notifyTimeout,
	}
	svc.applyOptions(options)
	return svc
}

var _ portssvc.ApprovalSvc = (*approvalService)(nil)

func (s *approvalService) SubmitObligation(ctx context.Context, ledgerID string, ordinal int, externalRef string, actor domain.Actor) (*domain.Ledger, error) {
	ref := strings.TrimSpace(externalRef)
	ledger, err := s.load(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(ledger.AccountID) {
		return nil, fmt.Errorf("%w: ledger %s belongs to another account", apperrors.ErrForbidden, ledgerID)
	}

	// A reference already on this ledger is checked by the domain, which knows
	// whether it belongs to the obligation being resubmitted.
	if owner, err := s.ledgerRepo.FindLedgerIDByReference(ctx, ref); err == nil && owner != ledgerID && ref != "" {
		return nil, fmt.Errorf("%w: reference %q is already used by ledger %s", apperrors.ErrDuplicate, ref, owner)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.logRepoError(ctx, err, "Failed to look up reference", slog.String("ledger_id", ledgerID))
		return nil, err
	}

	if err := ledger.SubmitObligation(ordinal, ref, actor, s.Now()); err != nil {
		s.LogWarn(ctx, "Submission rejected", slog.String("ledger_id", ledgerID), slog.Int("ordinal", ordinal), slog.String("error", err.Error()))
		return nil, err
	}
	if err := s.save(ctx, ledger); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Obligation submitted", slog.String("ledger_id", ledgerID), slog.Int("ordinal", ordinal))
	return ledger, nil
}

func (s *approvalService) DecideObligation(ctx context.Context, ledgerID string, ordinal int, decision domain.Decision, notes string, actor domain.Actor) (*domain.Ledger, error) {
	ledger, err := s.load(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	outcome, err := ledger.DecideObligation(ordinal, decision, actor, strings.TrimSpace(notes), s.Now())
	if err != nil {
		s.LogWarn(ctx, "Decision rejected", slog.String("ledger_id", ledgerID), slog.Int("ordinal", ordinal), slog.String("error", err.Error()))
		return nil, err
	}
	if err := s.save(ctx, ledger); err != nil {
		return nil, err
	}

	metrics.PaymentDecisions.WithLabelValues("obligation", string(decision)).Inc()
	s.LogInfo(ctx, "Obligation decided",
		slog.String("ledger_id", ledgerID),
		slog.Int("ordinal", ordinal),
		slog.String("decision", string(decision)),
		slog.String("payment_status", string(ledger.PaymentStatus)))
	if outcome.BecameApproved {
		s.notifyApproved(ctx, ledger, actor)
	}
	return ledger, nil
}

func (s *approvalService) DecidePayment(ctx context.Context, ledgerID string, decision domain.Decision, notes string, actor domain.Actor) (*domain.Ledger, error) {
	ledger, err := s.load(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	outcome, err := ledger.DecidePayment(decision, actor, strings.TrimSpace(notes), s.Now())
	if err != nil {
		s.LogWarn(ctx, "Decision rejected", slog.String("ledger_id", ledgerID), slog.String("error", err.Error()))
		return nil, err
	}
	if err := s.save(ctx, ledger); err != nil {
		return nil, err
	}

	metrics.PaymentDecisions.WithLabelValues("payment", string(decision)).Inc()
	s.LogInfo(ctx, "Payment decided", slog.String("ledger_id", ledgerID), slog.String("decision", string(decision)))
	if outcome.BecameApproved {
		s.notifyApproved(ctx, ledger, actor)
	}
	return ledger, nil
}

// load reads a ledger for mutation. Ownership is enforced by the domain
// transition, which reports ErrForbidden.
func (s *approvalService) load(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	ledger, err := s.ledgerRepo.FindLedgerByID(ctx, ledgerID)
	if err != nil {
		s.logRepoError(ctx, err, "Failed to find ledger", slog.String("ledger_id", ledgerID))
		return nil, err
	}
	return ledger, nil
}

func (s *approvalService) save(ctx context.Context, ledger *domain.Ledger) error {
	if err := s.ledgerRepo.UpdateLedger(ctx, ledger); err != nil {
		countConflict(err, "ledger")
		s.logRepoError(ctx, err, "Failed to update ledger", slog.String("ledger_id", ledger.LedgerID))
		return err
	}
	return nil
}

// notifyApproved runs after the state is committed. Its failures are logged
// and counted, never returned.
func (s *approvalService) notifyApproved(ctx context.Context, ledger *domain.Ledger, actor domain.Actor) {
	if s.notifier == nil {
		return
	}
	logger := s.GetLogger(ctx).With(slog.String("ledger_id", ledger.LedgerID))

	event := domain.PaymentApprovedEvent{
		LedgerID:    ledger.LedgerID,
		AccountID:   ledger.AccountID,
		PurchaseID:  ledger.PurchaseID,
		PaymentMode: ledger.PaymentMode,
		AmountPaid:  ledger.AmountPaid,
		ApprovedBy:  actor.UserID,
		ApprovedAt:  ledger.LastUpdatedAt,
		StartDate:   ledger.StartDate,
		EndDate:     ledger.EndDate,
	}
	if account, err := s.accountRepo.FindAccountByID(ctx, ledger.AccountID); err == nil {
		event.Email = account.Email
		event.DisplayName = account.DisplayName
	} else {
		logger.Warn("Notification sent without account contact details", slog.String("error", err.Error()))
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()
	if err := s.notifier.NotifyPaymentApproved(notifyCtx, event); err != nil {
		metrics.NotificationFailures.Inc()
		logger.Warn("Payment approval notification failed", slog.String("error", err.Error()))
		return
	}
	logger.Debug("Payment approval notification sent")
}
