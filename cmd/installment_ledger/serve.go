package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	portssvc "github.com/SscSPs/installment_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/installment_ledger_app/internal/core/services"
	"github.com/SscSPs/installment_ledger_app/internal/handlers"
	"github.com/SscSPs/installment_ledger_app/internal/middleware"
	"github.com/SscSPs/installment_ledger_app/internal/platform/config"
	"github.com/SscSPs/installment_ledger_app/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the background overdue sweeper",
	Long: `Run the HTTP API. Pending migrations are applied at start-up.
When SWEEP_INTERVAL is positive the overdue sweep also runs on that interval.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := newLogger()
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := openRepositories(ctx, cmd, cfg, logger, true)
	if err != nil {
		return err
	}
	defer closeRepos()

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	svcs := services.NewServiceContainer(cfg, repos, buildNotifier(cfg, posthogClient, logger))

	router, err := newRouter(cfg, svcs, posthogClient, logger)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.SweepInterval > 0 {
		g.Go(func() error {
			runSweeper(gctx, svcs.Sweep, cfg.SweepInterval, logger)
			return nil
		})
	} else {
		logger.Info("Background overdue sweeper disabled")
	}

	return g.Wait()
}

func newRouter(cfg *config.Config, svcs *portssvc.ServiceContainer, posthogClient *utils.PosthogClientWrapper, logger *slog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	limiterInstance, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return nil, err
	}

	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if corsCfg, ok := corsConfig(cfg); ok {
		r.Use(cors.New(corsCfg))
	} else {
		logger.Info("CORS disabled: no allowed origins configured")
	}
	r.Use(middleware.RateLimit(limiterInstance), middleware.PosthogMiddleware(posthogClient))

	handlers.RegisterRoutes(r, cfg, svcs)
	return r, nil
}

// corsConfig allows the configured origins, or any origin outside production.
// It reports false when CORS should stay off.
func corsConfig(cfg *config.Config) (cors.Config, bool) {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", "X-Request-ID")
	c.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
	switch {
	case len(cfg.CORSAllowedOrigins) > 0:
		c.AllowOrigins = cfg.CORSAllowedOrigins
	case !cfg.IsProduction:
		c.AllowAllOrigins = true
	default:
		return cors.Config{}, false
	}
	return c, true
}

// runSweeper runs the overdue sweep every interval until ctx is done. A failed
// run is logged and retried on the next tick.
func runSweeper(ctx context.Context, sweep portssvc.SweepSvc, interval time.Duration, logger *slog.Logger) {
	logger = logger.With(slog.String("component", "overdue_sweeper"), slog.Duration("interval", interval))
	logger.Info("Background overdue sweeper started")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Background overdue sweeper stopped")
			return
		case <-ticker.C:
			result, err := sweep.RunOverdueSweep(ctx)
			if err != nil {
				logger.Error("Overdue sweep failed", slog.String("error", err.Error()))
				continue
			}
			logger.Info("Overdue sweep finished",
				slog.Int("ledgers_scanned", result.LedgersScanned),
				slog.Any("flagged_accounts", result.FlaggedAccounts),
				slog.Int("failures", len(result.Failures)),
			)
		}
	}
}
