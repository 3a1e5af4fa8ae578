package services

import (
	portsrepo "github.com/SscSPs/installment_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/installment_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/installment_ledger_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.Notifier, options ...ServiceOption) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account:  NewAccountService(repos.AccountRepo, options...),
		Purchase: NewPurchaseService(repos.PurchaseRepo, options...),
		Ledger:   NewLedgerService(repos.LedgerRepo, repos.AccountRepo, repos.PurchaseRepo, options...),
		Approval: NewApprovalService(repos.LedgerRepo, repos.AccountRepo, notifier, cfg.NotificationTimeout, options...),
		Sweep:    NewSweepService(repos.LedgerRepo, repos.AccountRepo, cfg.SweepConcurrency, options...),
	}
}
