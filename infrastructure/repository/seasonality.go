package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/vfg2006/rental-analytics/infrastructure/database/postgres"
	"github.com/vfg2006/rental-analytics/internal/domain"
)

const seasonalityStatsTable = "seasonality_stats"

type SeasonalityRepository interface {
	List(ctx context.Context) ([]*domain.SeasonalityRecord, error)
}

type seasonalityRepository struct {
	conn postgres.Queryer
}

func NewSeasonalityRepository(conn postgres.Queryer) SeasonalityRepository {
	return &seasonalityRepository{
		conn: conn,
	}
}

// List retorna ErrTableNotFound quando a etapa de sazonalidade nunca materializou a tabela
func (r *seasonalityRepository) List(ctx context.Context) ([]*domain.SeasonalityRecord, error) {
	query, args, err := squirrel.
		Select("month_year", "avg_price").
		From(seasonalityStatsTable).
		OrderBy("month_year ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, queryError(seasonalityStatsTable, err)
	}
	defer rows.Close()

	records := make([]*domain.SeasonalityRecord, 0)
	for rows.Next() {
		var (
			record   domain.SeasonalityRecord
			avgPrice sql.NullFloat64
		)
		if err := rows.Scan(&record.MonthYear, &avgPrice); err != nil {
			return nil, fmt.Errorf("erro ao escanear sazonalidade: %w", err)
		}
		if avgPrice.Valid {
			record.AvgPrice = &avgPrice.Float64
		}
		records = append(records, &record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}
