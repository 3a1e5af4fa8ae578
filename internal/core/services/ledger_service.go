package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/installment_ledger_app/internal/apperrors"
	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/installment_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/installment_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/installment_ledger_app/internal/dto"
	"github.com/SscSPs/installment_ledger_app/internal/platform/metrics"
	"github.com/google/uuid"
)

const (
	defaultLedgerPageSize = 20
	maxLedgerPageSize     = 100
)

type ledgerService struct {
	BaseService
	ledgerRepo   portsrepo.LedgerRepositoryFacade
	accountRepo  portsrepo.AccountReader
	purchaseRepo portsrepo.PurchaseReader
}

// NewLedgerService creates the service that opens, reads and completes ledgers.
func NewLedgerService(
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	purchaseRepo portsrepo.PurchaseReader,
	options ...ServiceOption,
) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		ledgerRepo:   ledgerRepo,
		accountRepo:  accountRepo,
		purchaseRepo: purchaseRepo,
	}
	svc.applyOptions(options)
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateLedger opens a ledger for a purchase. Payers always create ledgers for
// their own account; administrators may name any account.
func (s *ledgerService) CreateLedger(ctx context.Context, req dto.CreateLedgerRequest, actor domain.Actor) (*domain.Ledger, error) {
	accountID := actor.UserID
	if actor.IsAdmin() && strings.TrimSpace(req.AccountID) != "" {
		accountID = strings.TrimSpace(req.AccountID)
	}
	if !actor.CanActFor(accountID) {
		return nil, fmt.Errorf("%w: cannot open a ledger for account %s", apperrors.ErrForbidden, accountID)
	}
	logger := s.GetLogger(ctx).With(slog.String("account_id", accountID), slog.String("purchase_id", req.PurchaseID))

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		s.logRepoError(ctx, err, "Failed to find account for new ledger", slog.String("account_id", accountID))
		return nil, err
	}
	purchase, err := s.purchaseRepo.FindPurchaseByID(ctx, req.PurchaseID)
	if err != nil {
		s.logRepoError(ctx, err, "Failed to find purchase for new ledger", slog.String("purchase_id", req.PurchaseID))
		return nil, err
	}

	ref := strings.TrimSpace(req.ExternalRef)
	if err := ensureReferenceUnused(ctx, s.ledgerRepo, ref); err != nil {
		return nil, err
	}

	ledger, err := domain.NewLedger(uuid.NewString(), *account, *purchase, domain.PaymentMode(req.Mode), ref, actor.UserID, s.Now())
	if err != nil {
		logger.Warn("Ledger creation rejected", slog.String("error", err.Error()))
		return nil, err
	}
	ledger.Version = 1

	if err := s.ledgerRepo.SaveLedger(ctx, *ledger); err != nil {
		s.logRepoError(ctx, err, "Failed to save ledger", slog.String("ledger_id", ledger.LedgerID))
		return nil, err
	}

	metrics.LedgersCreated.WithLabelValues(string(ledger.PaymentMode)).Inc()
	logger.Info("Ledger created",
		slog.String("ledger_id", ledger.LedgerID),
		slog.String("mode", string(ledger.PaymentMode)),
		slog.Int("obligations", len(ledger.Obligations)))
	return ledger, nil
}

func (s *ledgerService) GetLedgerByID(ctx context.Context, ledgerID string, actor domain.Actor) (*domain.Ledger, error) {
	ledger, err := s.ledgerRepo.FindLedgerByID(ctx, ledgerID)
	if err != nil {
		s.logRepoError(ctx, err, "Failed to find ledger", slog.String("ledger_id", ledgerID))
		return nil, err
	}
	if !actor.CanActFor(ledger.AccountID) {
		return nil, fmt.Errorf("%w: ledger %s", apperrors.ErrNotFound, ledgerID)
	}
	return ledger, nil
}

func (s *ledgerService) ListLedgersByAccount(ctx context.Context, accountID string, actor domain.Actor, params dto.ListLedgersParams) (*dto.ListLedgersResponse, error) {
	if !actor.CanActFor(accountID) {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultLedgerPageSize
	}
	if limit > maxLedgerPageSize {
		limit = maxLedgerPageSize
	}

	ledgers, nextToken, err := s.ledgerRepo.ListLedgersByAccount(ctx, accountID, limit, params.NextToken)
	if err != nil {
		s.logRepoError(ctx, err, "Failed to list ledgers", slog.String("account_id", accountID))
		return nil, err
	}
	resp := dto.ToListLedgersResponse(ledgers, nextToken, s.Now())
	return &resp, nil
}

func (s *ledgerService) MarkCompleted(ctx context.Context, ledgerID string, actor domain.Actor) (*domain.Ledger, error) {
	ledger, err := s.ledgerRepo.FindLedgerByID(ctx, ledgerID)
	if err != nil {
		s.logRepoError(ctx, err, "Failed to find ledger", slog.String("ledger_id", ledgerID))
		return nil, err
	}
	if ledger.Completed {
		return ledger, nil
	}
	if err := ledger.MarkCompleted(actor, s.Now()); err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.UpdateLedger(ctx, ledger); err != nil {
		countConflict(err, "ledger")
		s.logRepoError(ctx, err, "Failed to update ledger", slog.String("ledger_id", ledgerID))
		return nil, err
	}
	s.LogInfo(ctx, "Ledger completed", slog.String("ledger_id", ledgerID))
	return ledger, nil
}

// ensureReferenceUnused rejects references already attached to any ledger or
// obligation. The store's unique index still guards the insert race.
func ensureReferenceUnused(ctx context.Context, repo portsrepo.LedgerReader, ref string) error {
	if ref == "" {
		return nil
	}
	ledgerID, err := repo.FindLedgerIDByReference(ctx, ref)
	switch {
	case err == nil:
		return fmt.Errorf("%w: reference %q is already used by ledger %s", apperrors.ErrDuplicate, ref, ledgerID)
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	default:
		return err
	}
}
