package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/vfg2006/rental-analytics/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newAnalyzeCmd() *cobra.Command {
	var (
		top    int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Ajusta o modelo linear de preço e lista os coeficientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, conn, err := bootstrap(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer conn.Close()

			report, err := services.Analyzer.PriceDrivers(cmd.Context(), top)
			if err != nil {
				return failedAt("analysis", err)
			}

			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(report)
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().IntVar(&top, "top", 0, "limita a quantidade de coeficientes exibidos (0 = todos)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "imprime o relatório em JSON")

	return cmd
}

func printReport(out io.Writer, report *domain.PriceModelReport) error {
	fmt.Fprintf(out, "Samples: %d\nR²: %.3f\nIntercept: %.2f\n\n", report.Samples, report.RSquared, report.Intercept)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FEATURE\tIMPACT ($)")
	for _, driver := range report.Drivers {
		fmt.Fprintf(w, "%s\t%.2f\n", driver.Feature, driver.Impact)
	}
	return w.Flush()
}
