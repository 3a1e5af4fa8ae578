package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// @title Installment Ledger API
// @version 1.0
// @description Purchases paid in full or in installments, with administrator approval and overdue tracking.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "installment-ledger",
	Short: "Purchase, installment and approval ledger service",
	Long: `installment-ledger tracks purchases paid in full or in installments.
Payers submit transaction references, administrators approve or reject them,
and a periodic sweep flags accounts holding overdue installments.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Bool("memory", false, "Use the in-process store instead of PostgreSQL (data is lost on exit)")
}

// newLogger returns the JSON logger shared by every command and sets it as the default.
func newLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	return logger
}
