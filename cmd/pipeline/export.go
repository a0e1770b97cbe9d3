package main

import (
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Exporta os datasets de BI a partir das tabelas derivadas",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, conn, err := bootstrap(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer conn.Close()

			result, err := services.Exporter.Export(cmd.Context())
			if err != nil {
				return failedAt("export", err)
			}
			printFiles(cmd, result.Files)
			return nil
		},
	}
}
