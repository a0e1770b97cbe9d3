// Package app monta os serviços compartilhados pela API e pela CLI
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/rental-analytics/infrastructure/database/postgres"
	"github.com/vfg2006/rental-analytics/infrastructure/repository"
	"github.com/vfg2006/rental-analytics/internal/config"
	"github.com/vfg2006/rental-analytics/internal/transform"
	"github.com/vfg2006/rental-analytics/internal/usecases/analysis"
	"github.com/vfg2006/rental-analytics/internal/usecases/exporting"
	"github.com/vfg2006/rental-analytics/internal/usecases/reporting"
)

type Services struct {
	Pipeline *transform.Pipeline
	Reporter reporting.Reporter
	Analyzer analysis.Analyzer
	Exporter exporting.Exporter
}

// NewServices cria os repositórios sobre a conexão e garante a tabela pipeline_runs
func NewServices(ctx context.Context, cfg *config.Config, conn *postgres.Connection) (*Services, error) {
	sourceRepo := repository.NewSourceRepository(conn)
	listingRepo := repository.NewListingRepository(conn)
	yieldRepo := repository.NewYieldRepository(conn)
	seasonalityRepo := repository.NewSeasonalityRepository(conn)
	neighbourhoodRepo := repository.NewNeighbourhoodStatsRepository(conn)
	runRepo := repository.NewPipelineRunRepository(conn)

	if err := runRepo.EnsureTable(ctx); err != nil {
		return nil, err
	}

	var opts []transform.Option
	if cfg.Pipeline.AuditEnabled {
		opts = append(opts, transform.WithVerifier(transform.NewAuditor(listingRepo, yieldRepo, neighbourhoodRepo)))
	}

	pipeline, err := transform.New(conn, sourceRepo, runRepo, cfg.Pipeline, opts...)
	if err != nil {
		return nil, fmt.Errorf("configuração do pipeline inválida: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"cities":   cfg.Pipeline.Cities,
		"parallel": cfg.Pipeline.Parallel,
		"audit":    cfg.Pipeline.AuditEnabled,
	}).Debug("Pipeline configurado")

	return &Services{
		Pipeline: pipeline,
		Reporter: reporting.NewService(neighbourhoodRepo, seasonalityRepo, yieldRepo, runRepo),
		Analyzer: analysis.NewService(listingRepo),
		Exporter: exporting.NewService(yieldRepo, seasonalityRepo, neighbourhoodRepo, cfg.Export),
	}, nil
}
