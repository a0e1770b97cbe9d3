package transform

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/rental-analytics/infrastructure/repository/mocks"
)

func TestParseCities(t *testing.T) {
	cities, err := ParseCities([]string{"nyc", "tokyo"})
	require.NoError(t, err)
	require.Len(t, cities, 2)

	assert.Equal(t, "NYC", cities[0].Label())
	assert.Equal(t, "raw_listings_nyc", cities[0].ListingsTable())
	assert.Equal(t, "raw_calendar_tokyo", cities[1].CalendarTable())

	_, err = ParseCities(nil)
	assert.ErrorIs(t, err, ErrNoCities)

	for _, code := range []string{"NYC", "nyc; DROP TABLE x", "1city", ""} {
		_, err = ParseCities([]string{code})
		assert.ErrorIs(t, err, ErrInvalidCity, code)
	}
}

func TestCleansingStage_Plan(t *testing.T) {
	ctx := context.Background()
	cities := []City{{Code: "nyc"}, {Code: "tokyo"}}

	t.Run("une as cidades com rótulo em maiúsculas", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		catalog := mocks.NewMockSourceRepository(ctrl)
		catalog.EXPECT().TableExists(gomock.Any(), "raw_listings_nyc").Return(true, nil)
		catalog.EXPECT().TableExists(gomock.Any(), "raw_listings_tokyo").Return(true, nil)

		statements, err := cleansingStage(cities).Plan(ctx, catalog)
		require.NoError(t, err)
		require.Len(t, statements, 2)

		assert.Equal(t, "DROP TABLE IF EXISTS clean_listings", statements[0])

		create := statements[1]
		assert.True(t, strings.HasPrefix(create, "CREATE TABLE clean_listings AS SELECT 'NYC' AS city"))
		assert.Contains(t, create, `FROM "raw_listings_nyc" UNION ALL SELECT 'TOKYO' AS city`)
		assert.Contains(t, create, `FROM "raw_listings_tokyo"`)
		assert.Contains(t, create, "neighbourhood_cleansed AS neighbourhood")
		assert.Contains(t, create, "regexp_replace(price::TEXT, '[^0-9.]', '', 'g')")
		assert.Contains(t, create, "AND length(regexp_replace(price::TEXT, '[^0-9.]', '', 'g')) <= 300 THEN CAST(")
		assert.Contains(t, create, "COALESCE(minimum_nights, 1) AS minimum_nights")
		assert.Contains(t, create, "COALESCE(number_of_reviews, 0) AS reviews")
		assert.Contains(t, create, "COALESCE(review_scores_rating, 0) AS rating")
		assert.Contains(t, create, "COALESCE(reviews_per_month, 0) AS reviews_per_month")
	})

	t.Run("tabela bruta ausente falha com o nome da tabela", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		catalog := mocks.NewMockSourceRepository(ctrl)
		catalog.EXPECT().TableExists(gomock.Any(), "raw_listings_nyc").Return(true, nil)
		catalog.EXPECT().TableExists(gomock.Any(), "raw_listings_tokyo").Return(false, nil)

		_, err := cleansingStage(cities).Plan(ctx, catalog)

		assert.ErrorIs(t, err, ErrSourceMissing)
		assert.Contains(t, err.Error(), "raw_listings_tokyo")
	})

	t.Run("erro do catálogo é propagado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		catalog := mocks.NewMockSourceRepository(ctrl)
		boom := errors.New("connection reset")
		catalog.EXPECT().TableExists(gomock.Any(), "raw_listings_nyc").Return(false, boom)

		_, err := cleansingStage(cities).Plan(ctx, catalog)
		assert.ErrorIs(t, err, boom)
	})
}

func TestOutlierStage_Plan(t *testing.T) {
	statements, err := outlierStage().Plan(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, statements, 3)

	assert.Equal(t, "ALTER TABLE clean_listings ADD COLUMN IF NOT EXISTS is_outlier BOOLEAN DEFAULT FALSE", statements[0])
	assert.Equal(t, "UPDATE clean_listings SET is_outlier = FALSE", statements[1])

	update := statements[2]
	assert.Contains(t, update, "percentile_cont(0.25) WITHIN GROUP (ORDER BY price_clean) AS p25")
	assert.Contains(t, update, "percentile_cont(0.75) WITHIN GROUP (ORDER BY price_clean) AS p75")
	assert.Contains(t, update, "WHERE price_clean > 0 GROUP BY city")
	assert.Contains(t, update, "WHERE cl.city = cs.city")
	assert.Contains(t, update, "AND cl.price_clean > 0")
	assert.Contains(t, update, "cl.price_clean < cs.p25 - 1.5 * (cs.p75 - cs.p25)")
	assert.Contains(t, update, "cl.price_clean > cs.p75 + 1.5 * (cs.p75 - cs.p25)")
}

func TestYieldStage_Plan(t *testing.T) {
	statements, err := yieldStage().Plan(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, statements, 2)

	create := statements[1]
	occupancy := "GREATEST(LEAST((reviews_per_month / 0.5) * minimum_nights / 30.0, 0.70), 0)"

	assert.Equal(t, "DROP TABLE IF EXISTS yield_analysis", statements[0])
	assert.Contains(t, create, occupancy+" AS occupancy_rate")
	assert.Contains(t, create, "price_clean * "+occupancy+" AS revpar")
	assert.Contains(t, create, "price_clean * 365 * 0.40 AS revenue_bear")
	assert.Contains(t, create, "price_clean * 365 * 0.60 AS revenue_base")
	assert.Contains(t, create, "price_clean * 365 * 0.80 AS revenue_bull")
	assert.Contains(t, create, "FROM clean_listings WHERE price_clean > 0 AND is_outlier = FALSE")
}

func TestSeasonalityStage_Plan(t *testing.T) {
	ctx := context.Background()
	cities := []City{{Code: "nyc"}, {Code: "tokyo"}}

	t.Run("usa apenas calendários existentes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		catalog := mocks.NewMockSourceRepository(ctrl)
		catalog.EXPECT().TableExists(gomock.Any(), "raw_calendar_nyc").Return(true, nil)
		catalog.EXPECT().TableExists(gomock.Any(), "raw_calendar_tokyo").Return(false, nil)

		statements, err := seasonalityStage(cities).Plan(ctx, catalog)
		require.NoError(t, err)
		require.Len(t, statements, 2)

		create := statements[1]
		assert.Contains(t, create, "TO_CHAR(date::DATE, 'YYYY-MM') AS month_year")
		assert.Contains(t, create, "AVG(price) AS avg_price")
		assert.Contains(t, create, `FROM "raw_calendar_nyc" WHERE available::TEXT IN ('t', 'true')`)
		assert.NotContains(t, create, "raw_calendar_tokyo")
		assert.NotContains(t, create, "UNION ALL")
		assert.True(t, strings.HasSuffix(create, "GROUP BY 1 ORDER BY 1"))
	})

	t.Run("sem calendários a etapa é ignorada", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		catalog := mocks.NewMockSourceRepository(ctrl)
		catalog.EXPECT().TableExists(gomock.Any(), gomock.Any()).Return(false, nil).Times(2)

		_, err := seasonalityStage(cities).Plan(ctx, catalog)
		assert.ErrorIs(t, err, ErrSourceMissing)
	})
}

func TestNeighbourhoodStage_Plan(t *testing.T) {
	statements, err := neighbourhoodStage().Plan(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, statements, 2)

	create := statements[1]
	assert.Equal(t, "DROP TABLE IF EXISTS neighbourhood_stats", statements[0])
	assert.Contains(t, create, "COUNT(*) AS total_listings")
	assert.Contains(t, create, "AVG(revenue_base) AS avg_annual_revenue")
	assert.Contains(t, create, "FROM yield_analysis JOIN clean_listings USING (id, city, neighbourhood, price_clean)")
	assert.Contains(t, create, "GROUP BY city, neighbourhood")
}
