package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vfg2006/rental-analytics/infrastructure/database/postgres"
)

func newInitDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "initdb",
		Short: "Cria o banco configurado em DATABASE_URL, se necessário",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return failedAt("configuration", err)
			}

			created, err := postgres.EnsureDatabase(cmd.Context(), cfg.Database)
			if err != nil {
				return failedAt("provisioning", err)
			}

			if created {
				fmt.Fprintln(cmd.OutOrStdout(), "Database created")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Database already exists")
			}
			return nil
		},
	}
}
