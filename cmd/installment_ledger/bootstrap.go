package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/installment_ledger_app/internal/adapters/notification"
	portsrepo "github.com/SscSPs/installment_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/installment_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/installment_ledger_app/internal/platform/config"
	"github.com/SscSPs/installment_ledger_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/installment_ledger_app/internal/repositories/memory"
	"github.com/SscSPs/installment_ledger_app/internal/utils"
	"github.com/SscSPs/installment_ledger_app/pkg/database"
	"github.com/spf13/cobra"
)

// openRepositories returns the repository provider selected by --memory and a
// close function. Migrations run first when migrate is set.
func openRepositories(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, migrate bool) (portsrepo.RepositoryProvider, func(), error) {
	useMemory, _ := cmd.Flags().GetBool("memory")
	if useMemory {
		logger.Warn("Using in-memory store; data will not survive a restart")
		return memory.NewStore().Provider(), func() {}, nil
	}
	if cfg.DatabaseURL == "" {
		return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("PGSQL_URL is required unless --memory is set")
	}

	if migrate {
		logger.Info("Running database migrations...")
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewRepositoryProvider(dbPool), dbPool.Close, nil
}

// buildNotifier fans approvals out to every configured sink. It returns nil
// when nothing is configured.
func buildNotifier(cfg *config.Config, posthogClient *utils.PosthogClientWrapper, logger *slog.Logger) portssvc.Notifier {
	var sinks []notification.Named
	if cfg.SMTP.Enabled() {
		sinks = append(sinks, notification.Named{Name: "email", Notifier: notification.NewSMTPNotifier(cfg.SMTP)})
	}
	if posthogClient.IsInitialized() {
		sinks = append(sinks, notification.Named{Name: "posthog", Notifier: notification.NewPosthogNotifier(posthogClient)})
	}
	fanout := notification.NewFanout(sinks...)
	if fanout.Len() == 0 {
		logger.Warn("No payment notification sink configured")
		return nil
	}
	logger.Info("Payment notifications enabled", slog.Int("sinks", fanout.Len()))
	return fanout
}
