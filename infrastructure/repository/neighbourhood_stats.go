package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/vfg2006/rental-analytics/infrastructure/database/postgres"
	"github.com/vfg2006/rental-analytics/internal/domain"
)

const neighbourhoodStatsTable = "neighbourhood_stats"

type NeighbourhoodStatsRepository interface {
	// List filtra por cidade quando city não é vazio
	List(ctx context.Context, city string) ([]*domain.NeighbourhoodStats, error)
}

type neighbourhoodStatsRepository struct {
	conn postgres.Queryer
}

func NewNeighbourhoodStatsRepository(conn postgres.Queryer) NeighbourhoodStatsRepository {
	return &neighbourhoodStatsRepository{
		conn: conn,
	}
}

func (r *neighbourhoodStatsRepository) List(ctx context.Context, city string) ([]*domain.NeighbourhoodStats, error) {
	queryBuilder := squirrel.
		Select(
			"city",
			"neighbourhood",
			"total_listings",
			"avg_price",
			"avg_annual_revenue",
			"avg_rating",
		).
		From(neighbourhoodStatsTable).
		OrderBy("city ASC", "avg_annual_revenue DESC").
		PlaceholderFormat(squirrel.Dollar)

	if city != "" {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"city": city})
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, queryError(neighbourhoodStatsTable, err)
	}
	defer rows.Close()

	stats := make([]*domain.NeighbourhoodStats, 0)
	for rows.Next() {
		item := &domain.NeighbourhoodStats{}
		err := rows.Scan(
			&item.City,
			&item.Neighbourhood,
			&item.TotalListings,
			&item.AvgPrice,
			&item.AvgAnnualRevenue,
			&item.AvgRating,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear estatística de bairro: %w", err)
		}
		stats = append(stats, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return stats, nil
}
