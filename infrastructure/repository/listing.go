package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/vfg2006/rental-analytics/infrastructure/database/postgres"
	"github.com/vfg2006/rental-analytics/internal/domain"
)

const cleanListingsTable = "clean_listings"

type ListingRepository interface {
	ListAll(ctx context.Context) ([]*domain.CleanListing, error)
	ListModelInputs(ctx context.Context) ([]*domain.ModelInput, error)
}

type listingRepository struct {
	conn postgres.Queryer
}

func NewListingRepository(conn postgres.Queryer) ListingRepository {
	return &listingRepository{
		conn: conn,
	}
}

func (r *listingRepository) ListAll(ctx context.Context) ([]*domain.CleanListing, error) {
	query, args, err := squirrel.
		Select(
			"city",
			"id",
			"name",
			"neighbourhood",
			"latitude",
			"longitude",
			"property_type",
			"room_type",
			"accommodates",
			"price_clean",
			"minimum_nights",
			"reviews",
			"rating",
			"reviews_per_month",
			"is_outlier",
		).
		From(cleanListingsTable).
		OrderBy("city", "id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, queryError(cleanListingsTable, err)
	}
	defer rows.Close()

	listings := make([]*domain.CleanListing, 0)
	for rows.Next() {
		listing, err := r.scanCleanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear anúncio: %w", err)
		}
		listings = append(listings, listing)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return listings, nil
}

// ListModelInputs carrega apenas anúncios estatisticamente válidos para o modelo de preço
func (r *listingRepository) ListModelInputs(ctx context.Context) ([]*domain.ModelInput, error) {
	query, args, err := squirrel.
		Select("price_clean", "room_type", "accommodates", "reviews", "rating").
		From(cleanListingsTable).
		Where(squirrel.Eq{"is_outlier": false}).
		Where(squirrel.Gt{"price_clean": 0}).
		Where(squirrel.NotEq{"room_type": nil}).
		Where(squirrel.NotEq{"accommodates": nil}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, queryError(cleanListingsTable, err)
	}
	defer rows.Close()

	inputs := make([]*domain.ModelInput, 0)
	for rows.Next() {
		input := &domain.ModelInput{}
		if err := rows.Scan(&input.Price, &input.RoomType, &input.Accommodates, &input.Reviews, &input.Rating); err != nil {
			return nil, fmt.Errorf("erro ao escanear anúncio: %w", err)
		}
		inputs = append(inputs, input)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return inputs, nil
}

func (r *listingRepository) scanCleanListing(rows *sql.Rows) (*domain.CleanListing, error) {
	var (
		listing       domain.CleanListing
		name          sql.NullString
		neighbourhood sql.NullString
		latitude      sql.NullFloat64
		longitude     sql.NullFloat64
		propertyType  sql.NullString
		roomType      sql.NullString
		accommodates  sql.NullInt64
		price         sql.NullFloat64
		isOutlier     sql.NullBool
	)

	err := rows.Scan(
		&listing.City,
		&listing.ID,
		&name,
		&neighbourhood,
		&latitude,
		&longitude,
		&propertyType,
		&roomType,
		&accommodates,
		&price,
		&listing.MinimumNights,
		&listing.Reviews,
		&listing.Rating,
		&listing.ReviewsPerMonth,
		&isOutlier,
	)
	if err != nil {
		return nil, err
	}

	listing.Name = name.String
	listing.Neighbourhood = neighbourhood.String
	listing.Latitude = latitude.Float64
	listing.Longitude = longitude.Float64
	listing.PropertyType = propertyType.String
	listing.RoomType = roomType.String
	listing.Accommodates = int(accommodates.Int64)
	listing.IsOutlier = isOutlier.Bool
	if price.Valid {
		listing.PriceClean = &price.Float64
	}

	return &listing, nil
}
