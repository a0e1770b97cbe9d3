package transform

import (
	"math"
	"sort"
)

const (
	// OccupancyCap limita a ocupação estimada a 70%
	OccupancyCap = 0.70
	// reviewRate: cada review corresponde a ~2 estadias concluídas
	reviewRate    = 0.5
	daysPerMonth  = 30.0
	nightsPerYear = 365

	fenceMultiplier = 1.5
)

// Scenario é um cenário fixo de ocupação anual usado na projeção de receita
type Scenario struct {
	Name       string
	Column     string
	Multiplier float64
}

var (
	ScenarioBear = Scenario{Name: "bear", Column: "revenue_bear", Multiplier: 0.40}
	ScenarioBase = Scenario{Name: "base", Column: "revenue_base", Multiplier: 0.60}
	ScenarioBull = Scenario{Name: "bull", Column: "revenue_bull", Multiplier: 0.80}

	Scenarios = []Scenario{ScenarioBear, ScenarioBase, ScenarioBull}
)

// OccupancyRate estima a taxa de ocupação pela velocidade de reviews.
// O resultado fica sempre em [0, OccupancyCap].
func OccupancyRate(reviewsPerMonth float64, minimumNights int) float64 {
	raw := (reviewsPerMonth / reviewRate) * float64(minimumNights) / daysPerMonth
	return math.Max(math.Min(raw, OccupancyCap), 0)
}

// RevPAR é a receita por noite disponível
func RevPAR(price, occupancyRate float64) float64 {
	return price * occupancyRate
}

// ScenarioRevenue projeta a receita anual de um cenário; não depende da ocupação estimada
func ScenarioRevenue(price float64, scenario Scenario) float64 {
	return price * nightsPerYear * scenario.Multiplier
}

// PercentileCont calcula o percentil com interpolação linear entre as linhas
// vizinhas, como percentile_cont do PostgreSQL. sorted precisa estar ordenado.
func PercentileCont(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}

	pos := p * float64(len(sorted)-1)
	lo := math.Floor(pos)
	hi := math.Ceil(pos)

	first := sorted[int(lo)]
	if lo == hi {
		return first
	}

	second := sorted[int(hi)]
	return first + (pos-lo)*(second-first)
}

// Fence é a cerca de Tukey de uma cidade
type Fence struct {
	P25   float64
	P75   float64
	Lower float64
	Upper float64
}

// TukeyFence calcula a cerca a partir dos preços válidos (> 0) de uma cidade
func TukeyFence(prices []float64) (Fence, bool) {
	valid := make([]float64, 0, len(prices))
	for _, price := range prices {
		if price > 0 {
			valid = append(valid, price)
		}
	}
	if len(valid) == 0 {
		return Fence{}, false
	}
	sort.Float64s(valid)

	p25 := PercentileCont(valid, 0.25)
	p75 := PercentileCont(valid, 0.75)

	return Fence{
		P25:   p25,
		P75:   p75,
		Lower: p25 - fenceMultiplier*(p75-p25),
		Upper: p75 + fenceMultiplier*(p75-p25),
	}, true
}

// IsOutlier indica se o preço está fora da cerca
func (f Fence) IsOutlier(price float64) bool {
	return price < f.Lower || price > f.Upper
}
