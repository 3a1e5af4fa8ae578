package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/SscSPs/installment_ledger_app/internal/core/services"
	"github.com/SscSPs/installment_ledger_app/internal/dto"
	"github.com/SscSPs/installment_ledger_app/internal/platform/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sweepCmd)
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the overdue and trust sweep once",
	Long: `Scan installment ledgers for overdue obligations, flag the ledgers and
mark their accounts suspicious. The result is printed as JSON. Exits non-zero
when any ledger could not be processed.`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, _ []string) error {
	logger := newLogger()
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	repos, closeRepos, err := openRepositories(cmd.Context(), cmd, cfg, logger, false)
	if err != nil {
		return err
	}
	defer closeRepos()

	svcs := services.NewServiceContainer(cfg, repos, nil)
	result, err := svcs.Sweep.RunOverdueSweep(cmd.Context())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dto.ToSweepResponse(result)); err != nil {
		return err
	}
	if len(result.Failures) > 0 {
		return fmt.Errorf("%d ledger(s) could not be processed", len(result.Failures))
	}
	return nil
}
