package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vfg2006/rental-analytics/internal/domain"
	"github.com/vfg2006/rental-analytics/internal/usecases/authenticating"
)

func newTokenCmd() *cobra.Command {
	var (
		name string
		role string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite um token de acesso para a API (requer AUTH_SECRET)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return failedAt("configuration", err)
			}

			token, err := authenticating.NewService(cfg.Auth).GenerateToken(name, role, ttl)
			if err != nil {
				return fmt.Errorf("erro ao emitir token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "cli", "nome gravado nas claims")
	cmd.Flags().StringVar(&role, "role", domain.RoleAnalyst, "papel do token (admin ou analyst)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "validade do token")

	return cmd
}
