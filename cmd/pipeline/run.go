package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vfg2006/rental-analytics/internal/config"
	"github.com/vfg2006/rental-analytics/internal/domain"
)

func newRunCmd() *cobra.Command {
	var (
		export   bool
		parallel bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconstrói as tabelas derivadas",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, conn, err := bootstrap(cmd.Context(), func(cfg *config.Config) {
				if parallel {
					cfg.Pipeline.Parallel = true
				}
			})
			if err != nil {
				return err
			}
			defer conn.Close()

			run, err := services.Pipeline.Run(cmd.Context(), domain.RunTriggerCLI)
			if err != nil {
				return failedAt("transformation", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s %s\n", run.ID, run.Status)
			for _, stage := range run.Stages {
				fmt.Fprintf(out, "  %-14s %-22s %-9s %s\n", stage.Stage, stage.Table, stage.Status, stage.Duration)
			}
			for _, violation := range run.Violations {
				fmt.Fprintf(out, "  audit: %s\n", violation)
			}

			if !export {
				return nil
			}

			result, err := services.Exporter.Export(cmd.Context())
			if err != nil {
				return failedAt("export", err)
			}
			printFiles(cmd, result.Files)
			return nil
		},
	}

	cmd.Flags().BoolVar(&export, "export", false, "exporta os datasets de BI após a transformação")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "executa etapas independentes em paralelo")

	return cmd
}

func printFiles(cmd *cobra.Command, files []string) {
	for _, file := range files {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", file)
	}
}
