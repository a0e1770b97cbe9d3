package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	StageCleansing     = "cleansing"
	StageOutliers      = "outliers"
	StageYield         = "yield"
	StageSeasonality   = "seasonality"
	StageNeighbourhood = "neighbourhood"

	TableCleanListings      = "clean_listings"
	TableYieldAnalysis      = "yield_analysis"
	TableSeasonalityStats   = "seasonality_stats"
	TableNeighbourhoodStats = "neighbourhood_stats"
)

const outlierUpdate = `WITH city_stats AS (%s)
UPDATE clean_listings AS cl
SET is_outlier = TRUE
FROM city_stats AS cs
WHERE cl.city = cs.city
  AND cl.price_clean > 0
  AND (cl.price_clean < cs.p25 - %[2]g * (cs.p75 - cs.p25)
    OR cl.price_clean > cs.p75 + %[2]g * (cs.p75 - cs.p25))`

// DefaultStages devolve as etapas na ordem canônica de execução
func DefaultStages(cities []City) []*Stage {
	return []*Stage{
		cleansingStage(cities),
		outlierStage(),
		yieldStage(),
		seasonalityStage(cities),
		neighbourhoodStage(),
	}
}

func cleansingStage(cities []City) *Stage {
	return &Stage{
		Name:     StageCleansing,
		Table:    TableCleanListings,
		Critical: true,
		Plan: func(ctx context.Context, catalog Catalog) ([]string, error) {
			selects := make([]string, 0, len(cities))

			for _, city := range cities {
				table := city.ListingsTable()

				exists, err := catalog.TableExists(ctx, table)
				if err != nil {
					return nil, err
				}
				if !exists {
					return nil, errors.Wrapf(ErrSourceMissing, "raw listings table %s", table)
				}

				query, _, err := squirrel.Select(
					quoteLabel(city.Label())+" AS city",
					"id",
					"name",
					"neighbourhood_cleansed AS neighbourhood",
					"latitude",
					"longitude",
					"property_type",
					"room_type",
					"accommodates",
					priceExpr("price")+" AS price_clean",
					"COALESCE(minimum_nights, 1) AS minimum_nights",
					"COALESCE(number_of_reviews, 0) AS reviews",
					"COALESCE(review_scores_rating, 0) AS rating",
					"COALESCE(reviews_per_month, 0) AS reviews_per_month",
				).From(quoteTable(table)).ToSql()
				if err != nil {
					return nil, fmt.Errorf("erro ao construir a query: %w", err)
				}

				selects = append(selects, query)
			}

			return rebuild(TableCleanListings, strings.Join(selects, " UNION ALL ")), nil
		},
	}
}

func outlierStage() *Stage {
	return &Stage{
		Name:      StageOutliers,
		Table:     TableCleanListings,
		DependsOn: []string{StageCleansing},
		Critical:  true,
		Plan: func(context.Context, Catalog) ([]string, error) {
			cityStats, _, err := squirrel.Select(
				"city",
				"percentile_cont(0.25) WITHIN GROUP (ORDER BY price_clean) AS p25",
				"percentile_cont(0.75) WITHIN GROUP (ORDER BY price_clean) AS p75",
			).
				From(TableCleanListings).
				Where("price_clean > 0").
				GroupBy("city").
				ToSql()
			if err != nil {
				return nil, fmt.Errorf("erro ao construir a query: %w", err)
			}

			return []string{
				"ALTER TABLE clean_listings ADD COLUMN IF NOT EXISTS is_outlier BOOLEAN DEFAULT FALSE",
				// sem flags de execuções anteriores
				"UPDATE clean_listings SET is_outlier = FALSE",
				fmt.Sprintf(outlierUpdate, cityStats, fenceMultiplier),
			}, nil
		},
	}
}

// occupancyExpr é a versão SQL de OccupancyRate
func occupancyExpr() string {
	return fmt.Sprintf(
		"GREATEST(LEAST((reviews_per_month / %g) * minimum_nights / %.1f, %.2f), 0)",
		reviewRate, daysPerMonth, OccupancyCap,
	)
}

func yieldStage() *Stage {
	return &Stage{
		Name:      StageYield,
		Table:     TableYieldAnalysis,
		DependsOn: []string{StageOutliers},
		Critical:  true,
		Plan: func(context.Context, Catalog) ([]string, error) {
			columns := []string{
				"city",
				"neighbourhood",
				"id",
				"price_clean",
				occupancyExpr() + " AS occupancy_rate",
				"price_clean * " + occupancyExpr() + " AS revpar",
			}
			for _, scenario := range Scenarios {
				columns = append(columns, fmt.Sprintf(
					"price_clean * %d * %.2f AS %s", nightsPerYear, scenario.Multiplier, scenario.Column,
				))
			}

			query, _, err := squirrel.Select(columns...).
				From(TableCleanListings).
				Where("price_clean > 0 AND is_outlier = FALSE").
				ToSql()
			if err != nil {
				return nil, fmt.Errorf("erro ao construir a query: %w", err)
			}

			return rebuild(TableYieldAnalysis, query), nil
		},
	}
}

func seasonalityStage(cities []City) *Stage {
	return &Stage{
		Name:  StageSeasonality,
		Table: TableSeasonalityStats,
		Plan: func(ctx context.Context, catalog Catalog) ([]string, error) {
			selects := make([]string, 0, len(cities))

			for _, city := range cities {
				table := city.CalendarTable()

				exists, err := catalog.TableExists(ctx, table)
				if err != nil {
					return nil, err
				}
				if !exists {
					logrus.WithField("table", table).Warn("Tabela de calendário não encontrada, cidade ignorada na sazonalidade")
					continue
				}

				query, _, err := squirrel.Select("date", priceExpr("price")+" AS price").
					From(quoteTable(table)).
					Where("available::TEXT IN ('t', 'true')").
					ToSql()
				if err != nil {
					return nil, fmt.Errorf("erro ao construir a query: %w", err)
				}

				selects = append(selects, query)
			}

			if len(selects) == 0 {
				return nil, errors.Wrap(ErrSourceMissing, "no raw calendar table found")
			}

			query, _, err := squirrel.Select(
				"TO_CHAR(date::DATE, 'YYYY-MM') AS month_year",
				"AVG(price) AS avg_price",
			).
				From("(" + strings.Join(selects, " UNION ALL ") + ") AS calendar").
				GroupBy("1").
				OrderBy("1").
				ToSql()
			if err != nil {
				return nil, fmt.Errorf("erro ao construir a query: %w", err)
			}

			return rebuild(TableSeasonalityStats, query), nil
		},
	}
}

func neighbourhoodStage() *Stage {
	return &Stage{
		Name:      StageNeighbourhood,
		Table:     TableNeighbourhoodStats,
		DependsOn: []string{StageYield},
		Critical:  true,
		Plan: func(context.Context, Catalog) ([]string, error) {
			query, _, err := squirrel.Select(
				"city",
				"neighbourhood",
				"COUNT(*) AS total_listings",
				"AVG(price_clean) AS avg_price",
				"AVG(revenue_base) AS avg_annual_revenue",
				"AVG(rating) AS avg_rating",
			).
				From(TableYieldAnalysis).
				Join("clean_listings USING (id, city, neighbourhood, price_clean)").
				GroupBy("city", "neighbourhood").
				ToSql()
			if err != nil {
				return nil, fmt.Errorf("erro ao construir a query: %w", err)
			}

			return rebuild(TableNeighbourhoodStats, query), nil
		},
	}
}

func rebuild(table, query string) []string {
	return []string{
		"DROP TABLE IF EXISTS " + table,
		"CREATE TABLE " + table + " AS " + query,
	}
}
