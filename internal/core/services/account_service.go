package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/installment_ledger_app/internal/apperrors"
	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/installment_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/installment_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/installment_ledger_app/internal/dto"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...ServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{accountRepo: repo}
	svc.applyOptions(options)
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func requireAdmin(actor domain.Actor, action string) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: %s requires an administrator", apperrors.ErrForbidden, action)
	}
	return nil
}

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor domain.Actor) (*domain.Account, error) {
	if err := requireAdmin(actor, "creating accounts"); err != nil {
		return nil, err
	}

	accountID := strings.TrimSpace(req.AccountID)
	if accountID == "" {
		accountID = uuid.NewString()
	}
	now := s.Now()
	account := domain.Account{
		AccountID:           accountID,
		Email:               req.Email,
		DisplayName:         req.DisplayName,
		InstallmentsEnabled: req.InstallmentsEnabled,
		Version:             1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if template := dto.ToSplitTemplate(req.SplitTemplate); template != nil {
		if err := account.SetSplitTemplate(template, actor.UserID, now); err != nil {
			return nil, err
		}
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.logRepoError(ctx, err, "Failed to save account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", accountID), slog.Bool("installments_enabled", account.InstallmentsEnabled))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string, actor domain.Actor) (*domain.Account, error) {
	if !actor.CanActFor(accountID) {
		// Obscure existence of other payers' accounts
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		s.logRepoError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *accountService) CanCreateInstallmentPlan(ctx context.Context, accountID string) (bool, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		s.logRepoError(ctx, err, "Failed to find account for eligibility check", slog.String("account_id", accountID))
		return false, err
	}
	return account.CanCreateInstallmentPlan(), nil
}

func (s *accountService) SetInstallmentsEnabled(ctx context.Context, accountID string, enabled bool, actor domain.Actor) (*domain.Account, error) {
	return s.mutate(ctx, accountID, actor, "setting installment eligibility", func(account *domain.Account) (bool, error) {
		if enabled && account.Suspicious {
			return false, fmt.Errorf("%w: account %s is suspicious, clear the flag before enabling installments", apperrors.ErrConflict, accountID)
		}
		return account.SetInstallmentsEnabled(enabled, actor.UserID, s.Now()), nil
	})
}

func (s *accountService) SetSplitTemplate(ctx context.Context, accountID string, template domain.SplitTemplate, actor domain.Actor) (*domain.Account, error) {
	return s.mutate(ctx, accountID, actor, "setting the split template", func(account *domain.Account) (bool, error) {
		if err := account.SetSplitTemplate(template, actor.UserID, s.Now()); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (s *accountService) SetSuspicious(ctx context.Context, accountID string, suspicious bool, reason string, actor domain.Actor) (*domain.Account, error) {
	return s.mutate(ctx, accountID, actor, "setting the trust flag", func(account *domain.Account) (bool, error) {
		return account.SetSuspicious(suspicious, strings.TrimSpace(reason), actor.UserID, s.Now()), nil
	})
}

// mutate applies an administrator change as one versioned read-modify-write.
// Unchanged accounts are returned without a write.
func (s *accountService) mutate(ctx context.Context, accountID string, actor domain.Actor, action string, apply func(*domain.Account) (bool, error)) (*domain.Account, error) {
	if err := requireAdmin(actor, action); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		s.logRepoError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		return nil, err
	}

	changed, err := apply(account)
	if err != nil {
		s.LogWarn(ctx, "Account change rejected", slog.String("account_id", accountID), slog.String("action", action), slog.String("error", err.Error()))
		return nil, err
	}
	if !changed {
		return account, nil
	}

	if err := s.accountRepo.UpdateAccount(ctx, account); err != nil {
		countConflict(err, "account")
		s.logRepoError(ctx, err, "Failed to update account", slog.String("account_id", accountID), slog.String("action", action))
		return nil, err
	}
	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID), slog.String("action", action), slog.Int64("version", account.Version))
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, accountID string, actor domain.Actor) error {
	if err := requireAdmin(actor, "deleting accounts"); err != nil {
		return err
	}
	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		s.logRepoError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deleted with its ledgers", slog.String("account_id", accountID))
	return nil
}
