package analysis

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/rental-analytics/infrastructure/repository"
	"github.com/vfg2006/rental-analytics/internal/domain"
)

type Analyzer interface {
	PriceDrivers(ctx context.Context, top int) (*domain.PriceModelReport, error)
}

type Service struct {
	listingRepository repository.ListingRepository
}

func NewService(listingRepository repository.ListingRepository) Analyzer {
	return &Service{
		listingRepository: listingRepository,
	}
}

// PriceDrivers ajusta o modelo sobre os anúncios elegíveis; top > 0 limita os coeficientes retornados
func (s *Service) PriceDrivers(ctx context.Context, top int) (*domain.PriceModelReport, error) {
	inputs, err := s.listingRepository.ListModelInputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar anúncios para o modelo: %w", err)
	}

	logrus.WithField("samples", len(inputs)).Debug("Ajustando modelo de preço")

	report, err := FitPriceModel(inputs)
	if err != nil {
		return nil, err
	}

	if top > 0 && top < len(report.Drivers) {
		report.Drivers = report.Drivers[:top]
	}

	logrus.WithFields(logrus.Fields{
		"samples":   report.Samples,
		"r_squared": report.RSquared,
	}).Info("Modelo de preço ajustado")

	return report, nil
}
