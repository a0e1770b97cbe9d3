// Package analysis estima quanto cada característica do anúncio explica o preço
package analysis

import (
	"errors"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/vfg2006/rental-analytics/internal/domain"
)

var (
	ErrNoModelData   = errors.New("no eligible listings for the price model")
	ErrSingularModel = errors.New("price model design matrix is singular")
)

const roomTypePrefix = "room_type_"

// Nomes de exibição dos coeficientes; os demais mantêm o nome da coluna
var featureNames = map[string]string{
	"room_type_Private room": "Private Room",
	"room_type_Shared room":  "Shared Room",
	"room_type_Hotel room":   "Hotel Status",
	"accommodates":           "Capacity (Guests)",
	"reviews":                "Review Volume",
	"rating":                 "Guest Rating",
}

// FitPriceModel ajusta uma regressão linear por mínimos quadrados do preço sobre
// capacidade, número de avaliações, nota e tipo de quarto. O tipo de quarto vira
// variáveis indicadoras com a primeira categoria (em ordem alfabética) como base.
func FitPriceModel(inputs []*domain.ModelInput) (*domain.PriceModelReport, error) {
	if len(inputs) == 0 {
		return nil, ErrNoModelData
	}

	categories := roomCategories(inputs)
	columns := append([]string{"accommodates", "reviews", "rating"}, dummyColumns(categories)...)

	// intercepto + variáveis explicativas
	width := len(columns) + 1
	if len(inputs) <= width {
		return nil, ErrNoModelData
	}

	design := mat.NewDense(len(inputs), width, nil)
	prices := make([]float64, len(inputs))
	for i, input := range inputs {
		design.Set(i, 0, 1)
		design.Set(i, 1, float64(input.Accommodates))
		design.Set(i, 2, float64(input.Reviews))
		design.Set(i, 3, input.Rating)
		for j, category := range categories[1:] {
			if input.RoomType == category {
				design.Set(i, 4+j, 1)
			}
		}
		prices[i] = input.Price
	}

	var coefficients mat.VecDense
	if err := coefficients.SolveVec(design, mat.NewVecDense(len(prices), prices)); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, err
		}
		if math.IsInf(float64(cond), 1) {
			return nil, ErrSingularModel
		}
		logrus.WithField("condition", float64(cond)).Warn("Matriz do modelo de preço mal condicionada")
	}

	for i := 0; i < coefficients.Len(); i++ {
		if v := coefficients.AtVec(i); math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrSingularModel
		}
	}

	var fitted mat.VecDense
	fitted.MulVec(design, &coefficients)

	rSquared := stat.RSquaredFrom(fitted.RawVector().Data, prices, nil)
	if math.IsNaN(rSquared) {
		// preço constante: não há variância a explicar
		rSquared = 0
	}

	drivers := make([]domain.PriceDriver, len(columns))
	for i, column := range columns {
		drivers[i] = domain.PriceDriver{
			Feature: displayName(column),
			Impact:  coefficients.AtVec(i + 1),
		}
	}
	sort.SliceStable(drivers, func(i, j int) bool {
		return drivers[i].Impact > drivers[j].Impact
	})

	return &domain.PriceModelReport{
		Samples:   len(inputs),
		RSquared:  rSquared,
		Intercept: coefficients.AtVec(0),
		Drivers:   drivers,
	}, nil
}

func roomCategories(inputs []*domain.ModelInput) []string {
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, input := range inputs {
		if _, ok := seen[input.RoomType]; ok {
			continue
		}
		seen[input.RoomType] = struct{}{}
		categories = append(categories, input.RoomType)
	}
	sort.Strings(categories)
	return categories
}

func dummyColumns(categories []string) []string {
	if len(categories) < 2 {
		return nil
	}
	columns := make([]string, 0, len(categories)-1)
	for _, category := range categories[1:] {
		columns = append(columns, roomTypePrefix+category)
	}
	return columns
}

func displayName(column string) string {
	if name, ok := featureNames[column]; ok {
		return name
	}
	return column
}
