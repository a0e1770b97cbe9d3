package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/vfg2006/rental-analytics/infrastructure/database/postgres"
	"github.com/vfg2006/rental-analytics/internal/domain"
)

const yieldAnalysisTable = "yield_analysis"

var yieldColumns = []string{
	"city",
	"neighbourhood",
	"id",
	"price_clean",
	"occupancy_rate",
	"revpar",
	"revenue_bear",
	"revenue_base",
	"revenue_bull",
}

type YieldRepository interface {
	ListAll(ctx context.Context) ([]*domain.YieldRecord, error)
	GetByListing(ctx context.Context, city string, id int64) (*domain.YieldRecord, error)
	ListValuationRows(ctx context.Context) ([]*domain.ValuationRow, error)
}

type yieldRepository struct {
	conn postgres.Queryer
}

func NewYieldRepository(conn postgres.Queryer) YieldRepository {
	return &yieldRepository{
		conn: conn,
	}
}

func (r *yieldRepository) ListAll(ctx context.Context) ([]*domain.YieldRecord, error) {
	query, args, err := squirrel.
		Select(yieldColumns...).
		From(yieldAnalysisTable).
		OrderBy("city", "id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, queryError(yieldAnalysisTable, err)
	}
	defer rows.Close()

	records := make([]*domain.YieldRecord, 0)
	for rows.Next() {
		record, err := scanYieldRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear yield: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}

// GetByListing retorna nil quando o anúncio não tem linha de yield (outlier ou sem preço)
func (r *yieldRepository) GetByListing(ctx context.Context, city string, id int64) (*domain.YieldRecord, error) {
	query, args, err := squirrel.
		Select(yieldColumns...).
		From(yieldAnalysisTable).
		Where(squirrel.Eq{"city": city, "id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	record, err := scanYieldRecord(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, queryError(yieldAnalysisTable, err)
	}

	return record, nil
}

// ListValuationRows junta o perfil do anúncio (clean_listings) com as métricas financeiras
func (r *yieldRepository) ListValuationRows(ctx context.Context) ([]*domain.ValuationRow, error) {
	query, args, err := squirrel.
		Select(
			"cl.id",
			"cl.city",
			"cl.neighbourhood",
			"cl.latitude",
			"cl.longitude",
			"cl.room_type",
			"cl.property_type",
			"cl.accommodates",
			"cl.rating",
			"cl.reviews",
			"ya.occupancy_rate",
			"ya.revpar",
			"ya.price_clean",
			"ya.revenue_bear",
			"ya.revenue_base",
			"ya.revenue_bull",
		).
		From("clean_listings cl").
		Join("yield_analysis ya ON cl.city = ya.city AND cl.id = ya.id").
		OrderBy("cl.city", "cl.id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, queryError(yieldAnalysisTable, err)
	}
	defer rows.Close()

	valuations := make([]*domain.ValuationRow, 0)
	for rows.Next() {
		var (
			row           domain.ValuationRow
			neighbourhood sql.NullString
			latitude      sql.NullFloat64
			longitude     sql.NullFloat64
			roomType      sql.NullString
			propertyType  sql.NullString
			accommodates  sql.NullInt64
		)

		err := rows.Scan(
			&row.ID,
			&row.City,
			&neighbourhood,
			&latitude,
			&longitude,
			&roomType,
			&propertyType,
			&accommodates,
			&row.Rating,
			&row.Reviews,
			&row.OccupancyRate,
			&row.RevPAR,
			&row.NightlyRate,
			&row.RevenueBear,
			&row.RevenueBase,
			&row.RevenueBull,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear linha de valuation: %w", err)
		}

		row.Neighbourhood = neighbourhood.String
		row.Latitude = latitude.Float64
		row.Longitude = longitude.Float64
		row.RoomType = roomType.String
		row.PropertyType = propertyType.String
		row.Accommodates = int(accommodates.Int64)

		valuations = append(valuations, &row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return valuations, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanYieldRecord(row rowScanner) (*domain.YieldRecord, error) {
	var (
		record        domain.YieldRecord
		neighbourhood sql.NullString
	)

	err := row.Scan(
		&record.City,
		&neighbourhood,
		&record.ID,
		&record.PriceClean,
		&record.OccupancyRate,
		&record.RevPAR,
		&record.RevenueBear,
		&record.RevenueBase,
		&record.RevenueBull,
	)
	if err != nil {
		return nil, err
	}

	record.Neighbourhood = neighbourhood.String
	return &record, nil
}
