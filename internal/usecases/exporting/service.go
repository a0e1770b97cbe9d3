// Package exporting gera os arquivos consumidos pelas ferramentas de BI
package exporting

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/rental-analytics/infrastructure/exporter"
	"github.com/vfg2006/rental-analytics/infrastructure/repository"
	"github.com/vfg2006/rental-analytics/internal/config"
	"github.com/vfg2006/rental-analytics/internal/domain"
)

const (
	ValuationDataset     = "valuation_model_input"
	ComprehensiveDataset = "comprehensive_data"
	SeasonalDataset      = "seasonal_trends"
	NeighbourhoodDataset = "neighbourhood_stats"

	WorkbookFile = "analytics.xlsx"
)

type Exporter interface {
	Export(ctx context.Context) (*Result, error)
}

// Result lista os arquivos gravados e as linhas de cada dataset
type Result struct {
	Files              []string       `json:"files"`
	Rows               map[string]int `json:"rows"`
	SeasonalitySkipped bool           `json:"seasonality_skipped"`
}

type Service struct {
	yieldRepository         repository.YieldRepository
	seasonalityRepository   repository.SeasonalityRepository
	neighbourhoodRepository repository.NeighbourhoodStatsRepository
	cfg                     config.Export
}

func NewService(
	yieldRepository repository.YieldRepository,
	seasonalityRepository repository.SeasonalityRepository,
	neighbourhoodRepository repository.NeighbourhoodStatsRepository,
	cfg config.Export,
) Exporter {
	return &Service{
		yieldRepository:         yieldRepository,
		seasonalityRepository:   seasonalityRepository,
		neighbourhoodRepository: neighbourhoodRepository,
		cfg:                     cfg,
	}
}

func (s *Service) Export(ctx context.Context) (*Result, error) {
	result := &Result{Rows: make(map[string]int)}

	datasets, err := s.collect(ctx, result)
	if err != nil {
		return nil, err
	}

	for _, ds := range datasets {
		path, err := exporter.WriteCSV(s.cfg.Dir, ds)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, path)
		result.Rows[ds.Name] = ds.Len()

		logrus.WithFields(logrus.Fields{
			"file": path,
			"rows": ds.Len(),
		}).Info("Dataset exportado")
	}

	if s.cfg.XLSXEnabled {
		path := filepath.Join(s.cfg.Dir, WorkbookFile)
		if err := exporter.WriteXLSX(path, datasets...); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, path)
		logrus.WithField("file", path).Info("Workbook exportado")
	}

	return result, nil
}

func (s *Service) collect(ctx context.Context, result *Result) ([]exporter.Dataset, error) {
	yields, err := s.yieldRepository.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar yield_analysis: %w", err)
	}

	valuation, err := s.yieldRepository.ListValuationRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar dados combinados: %w", err)
	}

	stats, err := s.neighbourhoodRepository.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar neighbourhood_stats: %w", err)
	}

	datasets := []exporter.Dataset{
		valuationDataset(yields),
		comprehensiveDataset(valuation),
	}

	seasonality, err := s.seasonalityRepository.List(ctx)
	switch {
	case errors.Is(err, repository.ErrTableNotFound):
		logrus.Warn("seasonality_stats não materializada, seasonal_trends não será exportado")
		result.SeasonalitySkipped = true
	case err != nil:
		return nil, fmt.Errorf("erro ao carregar seasonality_stats: %w", err)
	default:
		datasets = append(datasets, seasonalDataset(seasonality))
	}

	return append(datasets, neighbourhoodDataset(stats)), nil
}

func valuationDataset(records []*domain.YieldRecord) exporter.Dataset {
	ds := exporter.Dataset{
		Name: ValuationDataset,
		Header: []string{
			"id", "city", "neighbourhood", "nightly_rate",
			"annual_revenue_conservative", "annual_revenue_realistic", "annual_revenue_optimistic",
		},
		Rows: make([][]any, 0, len(records)),
	}
	for _, r := range records {
		ds.Rows = append(ds.Rows, []any{
			r.ID, r.City, r.Neighbourhood, r.PriceClean,
			r.RevenueBear, r.RevenueBase, r.RevenueBull,
		})
	}
	return ds
}

func comprehensiveDataset(rows []*domain.ValuationRow) exporter.Dataset {
	ds := exporter.Dataset{
		Name: ComprehensiveDataset,
		Header: []string{
			"id", "city", "neighbourhood", "latitude", "longitude",
			"room_type", "property_type", "accommodates", "rating", "reviews",
			"occupancy_rate", "revpar", "nightly_rate",
			"annual_revenue_conservative", "annual_revenue", "annual_revenue_optimistic",
		},
		Rows: make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		ds.Rows = append(ds.Rows, []any{
			r.ID, r.City, r.Neighbourhood, r.Latitude, r.Longitude,
			r.RoomType, r.PropertyType, r.Accommodates, r.Rating, r.Reviews,
			r.OccupancyRate, r.RevPAR, r.NightlyRate,
			r.RevenueBear, r.RevenueBase, r.RevenueBull,
		})
	}
	return ds
}

func seasonalDataset(records []*domain.SeasonalityRecord) exporter.Dataset {
	ds := exporter.Dataset{
		Name:   SeasonalDataset,
		Header: []string{"month_year", "avg_price"},
		Rows:   make([][]any, 0, len(records)),
	}
	for _, r := range records {
		ds.Rows = append(ds.Rows, []any{r.MonthYear, r.AvgPrice})
	}
	return ds
}

func neighbourhoodDataset(stats []*domain.NeighbourhoodStats) exporter.Dataset {
	ds := exporter.Dataset{
		Name: NeighbourhoodDataset,
		Header: []string{
			"city", "neighbourhood", "total_listings",
			"avg_price", "avg_annual_revenue", "avg_rating",
		},
		Rows: make([][]any, 0, len(stats)),
	}
	for _, s := range stats {
		ds.Rows = append(ds.Rows, []any{
			s.City, s.Neighbourhood, s.TotalListings,
			s.AvgPrice, s.AvgAnnualRevenue, s.AvgRating,
		})
	}
	return ds
}
