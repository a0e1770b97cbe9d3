// Package reporting expõe as tabelas derivadas do pipeline para consulta
package reporting

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/rental-analytics/infrastructure/repository"
	"github.com/vfg2006/rental-analytics/internal/domain"
	"github.com/vfg2006/rental-analytics/internal/transform"
	"github.com/vfg2006/rental-analytics/pkg/apiErrors"
)

const (
	DefaultRunsLimit = 20
	MaxRunsLimit     = 100
)

type Reporter interface {
	NeighbourhoodStats(ctx context.Context, city string) ([]*domain.NeighbourhoodStats, error)
	Seasonality(ctx context.Context) ([]*domain.SeasonalityRecord, error)
	ListingYield(ctx context.Context, city string, id int64) (*domain.YieldRecord, error)
	Runs(ctx context.Context, limit int) ([]*domain.PipelineRun, error)
	LatestRun(ctx context.Context) (*domain.PipelineRun, error)
}

type Service struct {
	neighbourhoodRepository repository.NeighbourhoodStatsRepository
	seasonalityRepository   repository.SeasonalityRepository
	yieldRepository         repository.YieldRepository
	runRepository           repository.PipelineRunRepository
}

func NewService(
	neighbourhoodRepository repository.NeighbourhoodStatsRepository,
	seasonalityRepository repository.SeasonalityRepository,
	yieldRepository repository.YieldRepository,
	runRepository repository.PipelineRunRepository,
) Reporter {
	return &Service{
		neighbourhoodRepository: neighbourhoodRepository,
		seasonalityRepository:   seasonalityRepository,
		yieldRepository:         yieldRepository,
		runRepository:           runRepository,
	}
}

// NeighbourhoodStats lista as estatísticas por bairro; city vazio retorna todas as cidades
func (s *Service) NeighbourhoodStats(ctx context.Context, city string) ([]*domain.NeighbourhoodStats, error) {
	label := ""
	if city != "" {
		parsed, err := parseCity(city)
		if err != nil {
			return nil, err
		}
		label = parsed.Label()
	}

	stats, err := s.neighbourhoodRepository.List(ctx, label)
	if err != nil {
		logrus.WithError(err).WithField("city", label).Error("Erro ao listar estatísticas por bairro")
		return nil, fromRepository(err)
	}
	return stats, nil
}

func (s *Service) Seasonality(ctx context.Context) ([]*domain.SeasonalityRecord, error) {
	records, err := s.seasonalityRepository.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar sazonalidade")
		return nil, fromRepository(err)
	}
	return records, nil
}

// ListingYield busca as métricas de receita de um anúncio
func (s *Service) ListingYield(ctx context.Context, city string, id int64) (*domain.YieldRecord, error) {
	parsed, err := parseCity(city)
	if err != nil {
		return nil, err
	}

	record, err := s.yieldRepository.GetByListing(ctx, parsed.Label(), id)
	if err != nil {
		logrus.WithError(err).WithField("listing_id", id).Error("Erro ao buscar yield do anúncio")
		return nil, fromRepository(err)
	}
	if record == nil {
		return nil, NewReportError(ErrListingNotFound, apiErrors.ErrResourceNotFound, "")
	}
	return record, nil
}

// Runs lista as execuções mais recentes; limit 0 usa o padrão
func (s *Service) Runs(ctx context.Context, limit int) ([]*domain.PipelineRun, error) {
	if limit < 0 || limit > MaxRunsLimit {
		return nil, NewReportError(ErrInvalidLimit, apiErrors.ErrInvalidRequest, "limit deve estar entre 1 e 100")
	}
	if limit == 0 {
		limit = DefaultRunsLimit
	}

	runs, err := s.runRepository.List(ctx, uint64(limit))
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar execuções do pipeline")
		return nil, fromRepository(err)
	}
	return runs, nil
}

func (s *Service) LatestRun(ctx context.Context) (*domain.PipelineRun, error) {
	run, err := s.runRepository.GetLatest(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar última execução do pipeline")
		return nil, fromRepository(err)
	}
	if run == nil {
		return nil, NewReportError(ErrRunNotFound, apiErrors.ErrResourceNotFound, "")
	}
	return run, nil
}

func parseCity(code string) (transform.City, error) {
	cities, err := transform.ParseCities([]string{strings.ToLower(strings.TrimSpace(code))})
	if err != nil {
		return transform.City{}, NewReportError(ErrInvalidCity, apiErrors.ErrInvalidFormat, err.Error())
	}
	return cities[0], nil
}
