package transform

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  float64
		valid bool
	}{
		{name: "moeda com separador de milhar", raw: "$1,234.50", want: 1234.50, valid: true},
		{name: "inteiro simples", raw: "150", want: 150, valid: true},
		{name: "símbolo de iene", raw: "¥12,000", want: 12000, valid: true},
		{name: "sinal negativo é descartado", raw: "-$80.00", want: 80, valid: true},
		{name: "fração sem parte inteira", raw: ".5", want: 0.5, valid: true},
		{name: "vazio vira nulo", raw: "", valid: false},
		{name: "sem dígitos vira nulo", raw: "N/A", valid: false},
		{name: "apenas ponto vira nulo", raw: "$.", valid: false},
		{name: "vários pontos vira nulo", raw: "1.2.3", valid: false},
		{name: "número fora do alcance do float vira nulo", raw: "$" + strings.Repeat("9", 400), valid: false},
		{name: "limite de tamanho ainda converte", raw: strings.Repeat("0", maxPriceLength-3) + "125", want: 125, valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.raw)

			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.InDelta(t, tt.want, got, 1e-9)
				assert.GreaterOrEqual(t, got, 0.0)
			}
		})
	}
}

func TestPercentileCont(t *testing.T) {
	prices := []float64{50, 60, 70, 80, 5000}

	assert.Equal(t, 60.0, PercentileCont(prices, 0.25))
	assert.Equal(t, 80.0, PercentileCont(prices, 0.75))
	assert.Equal(t, 50.0, PercentileCont(prices, 0))
	assert.Equal(t, 5000.0, PercentileCont(prices, 1))

	// interpolação entre vizinhos: posição 0.25 * 3 = 0.75
	assert.InDelta(t, 17.5, PercentileCont([]float64{10, 20, 30, 40}, 0.25), 1e-9)

	assert.Equal(t, 42.0, PercentileCont([]float64{42}, 0.75))
	assert.True(t, math.IsNaN(PercentileCont(nil, 0.5)))
}

func TestTukeyFence(t *testing.T) {
	t.Run("cerca de NYC sinaliza 5000", func(t *testing.T) {
		fence, ok := TukeyFence([]float64{5000, 70, 50, 80, 60})
		require.True(t, ok)

		assert.Equal(t, 60.0, fence.P25)
		assert.Equal(t, 80.0, fence.P75)
		assert.Equal(t, 30.0, fence.Lower)
		assert.Equal(t, 110.0, fence.Upper)

		assert.True(t, fence.IsOutlier(5000))
		assert.False(t, fence.IsOutlier(50))
		assert.False(t, fence.IsOutlier(110))
		assert.True(t, fence.IsOutlier(29.99))
	})

	t.Run("preços não positivos ficam fora do cálculo", func(t *testing.T) {
		fence, ok := TukeyFence([]float64{0, -10, 50, 60, 70, 80, 5000})
		require.True(t, ok)

		assert.Equal(t, 60.0, fence.P25)
		assert.Equal(t, 80.0, fence.P75)
	})

	t.Run("sem preços válidos não há cerca", func(t *testing.T) {
		_, ok := TukeyFence([]float64{0, 0})
		assert.False(t, ok)
	})
}

func TestOccupancyAndRevenue(t *testing.T) {
	t.Run("exemplo de referência", func(t *testing.T) {
		occupancy := OccupancyRate(1.0, 3)

		assert.InDelta(t, 0.20, occupancy, 1e-12)
		assert.InDelta(t, 20.0, RevPAR(100, occupancy), 1e-9)
		assert.InDelta(t, 14600.0, ScenarioRevenue(100, ScenarioBear), 1e-6)
		assert.InDelta(t, 21900.0, ScenarioRevenue(100, ScenarioBase), 1e-6)
		assert.InDelta(t, 29200.0, ScenarioRevenue(100, ScenarioBull), 1e-6)
	})

	t.Run("ocupação limitada a 70%", func(t *testing.T) {
		assert.Equal(t, OccupancyCap, OccupancyRate(10, 30))
	})

	t.Run("ocupação nunca negativa", func(t *testing.T) {
		assert.Equal(t, 0.0, OccupancyRate(-2, 3))
		assert.Equal(t, 0.0, OccupancyRate(0, 1))
	})

	t.Run("cenários ordenados para qualquer preço positivo", func(t *testing.T) {
		for _, price := range []float64{0.01, 1, 99.5, 1234.5, 1e6} {
			bear := ScenarioRevenue(price, ScenarioBear)
			base := ScenarioRevenue(price, ScenarioBase)
			bull := ScenarioRevenue(price, ScenarioBull)

			assert.Less(t, bear, base)
			assert.Less(t, base, bull)
		}
	})
}
