package main

import (
	"fmt"
	"time"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	"github.com/SscSPs/installment_ledger_app/internal/middleware"
	"github.com/SscSPs/installment_ledger_app/internal/platform/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().String("role", string(domain.RolePayer), "Role claim: admin or payer")
	tokenCmd.Flags().Duration("ttl", time.Hour, "Token lifetime")
}

var tokenCmd = &cobra.Command{
	Use:   "token SUBJECT",
	Short: "Print a bearer token for local testing",
	Long: `Sign a bearer token with JWT_SECRET and JWT_ISSUER. SUBJECT is the
account ID for payers. Tokens in production are issued by the identity provider.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		role, _ := cmd.Flags().GetString("role")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		if r := domain.Role(role); r != domain.RoleAdmin && r != domain.RolePayer {
			return fmt.Errorf("unknown role %q", role)
		}

		token, err := middleware.IssueToken(domain.Actor{UserID: args[0], Role: domain.Role(role)}, cfg.JWTSecret, cfg.JWTIssuer, ttl, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
