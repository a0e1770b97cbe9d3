package transform

import (
	"context"
	"fmt"
	"math"

	"github.com/vfg2006/rental-analytics/internal/domain"
)

const (
	auditTolerance     = 1e-9
	maxAuditViolations = 50
)

type ListingSource interface {
	ListAll(ctx context.Context) ([]*domain.CleanListing, error)
}

type YieldSource interface {
	ListAll(ctx context.Context) ([]*domain.YieldRecord, error)
}

// NeighbourhoodSource lista neighbourhood_stats; cidade vazia lista todas
type NeighbourhoodSource interface {
	List(ctx context.Context, city string) ([]*domain.NeighbourhoodStats, error)
}

// AuditReport resume a conferência das tabelas derivadas
type AuditReport struct {
	Listings       int
	Yields         int
	Neighbourhoods int
	Violations     []string
	// Truncated indica que havia mais violações do que as listadas
	Truncated bool
}

func (r *AuditReport) add(format string, args ...any) {
	if len(r.Violations) >= maxAuditViolations {
		r.Truncated = true
		return
	}
	r.Violations = append(r.Violations, fmt.Sprintf(format, args...))
}

// Auditor relê clean_listings, yield_analysis e neighbourhood_stats e
// recalcula cercas, métricas e agregados com as mesmas fórmulas das etapas SQL
type Auditor struct {
	listings       ListingSource
	yields         YieldSource
	neighbourhoods NeighbourhoodSource
}

func NewAuditor(listings ListingSource, yields YieldSource, neighbourhoods NeighbourhoodSource) *Auditor {
	return &Auditor{
		listings:       listings,
		yields:         yields,
		neighbourhoods: neighbourhoods,
	}
}

type listingKey struct {
	city string
	id   int64
}

type neighbourhoodKey struct {
	city          string
	neighbourhood string
}

// neighbourhoodTotals acumula o agregado esperado de um bairro
type neighbourhoodTotals struct {
	count   int
	price   float64
	revenue float64
	rating  float64
}

func (a *Auditor) Audit(ctx context.Context) (*AuditReport, error) {
	listings, err := a.listings.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler clean_listings: %w", err)
	}

	yields, err := a.yields.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler yield_analysis: %w", err)
	}

	report := &AuditReport{
		Listings: len(listings),
		Yields:   len(yields),
	}

	pricesByCity := make(map[string][]float64)
	for _, listing := range listings {
		if listing.PriceClean != nil && *listing.PriceClean < 0 {
			report.add("listing %s/%d has negative price_clean %v", listing.City, listing.ID, *listing.PriceClean)
		}
		if listing.HasValidPrice() {
			pricesByCity[listing.City] = append(pricesByCity[listing.City], *listing.PriceClean)
		}
	}

	fences := make(map[string]Fence, len(pricesByCity))
	for city, prices := range pricesByCity {
		if fence, ok := TukeyFence(prices); ok {
			fences[city] = fence
		}
	}

	eligible := make(map[listingKey]*domain.CleanListing)
	for _, listing := range listings {
		if !listing.HasValidPrice() {
			if listing.IsOutlier {
				report.add("listing %s/%d without valid price is flagged as outlier", listing.City, listing.ID)
			}
			continue
		}

		expected := fences[listing.City].IsOutlier(*listing.PriceClean)
		if expected != listing.IsOutlier {
			report.add("listing %s/%d price %v: is_outlier=%t, fence [%v, %v] expects %t",
				listing.City, listing.ID, *listing.PriceClean, listing.IsOutlier,
				fences[listing.City].Lower, fences[listing.City].Upper, expected)
		}

		if !listing.IsOutlier {
			eligible[listingKey{city: listing.City, id: listing.ID}] = listing
		}
	}

	seen := make(map[listingKey]struct{}, len(yields))
	expectedStats := make(map[neighbourhoodKey]*neighbourhoodTotals)
	for _, record := range yields {
		key := listingKey{city: record.City, id: record.ID}
		seen[key] = struct{}{}

		listing, ok := eligible[key]
		if !ok {
			report.add("yield row %s/%d has no eligible clean listing", record.City, record.ID)
			continue
		}

		a.auditYield(report, listing, record)

		// bairro nulo não entra no JOIN USING da etapa
		if record.Neighbourhood == "" || record.Neighbourhood != listing.Neighbourhood {
			continue
		}
		group := neighbourhoodKey{city: record.City, neighbourhood: record.Neighbourhood}
		totals, ok := expectedStats[group]
		if !ok {
			totals = &neighbourhoodTotals{}
			expectedStats[group] = totals
		}
		totals.count++
		totals.price += record.PriceClean
		totals.revenue += record.RevenueBase
		totals.rating += listing.Rating
	}

	for key := range eligible {
		if _, ok := seen[key]; !ok {
			report.add("listing %s/%d is eligible but has no yield row", key.city, key.id)
		}
	}

	if err := a.auditNeighbourhoods(ctx, report, expectedStats); err != nil {
		return nil, err
	}

	return report, nil
}

// auditNeighbourhoods confere neighbourhood_stats contra o agrupamento dos
// yields por (cidade, bairro). Bairro só de outliers não pode ter linha.
func (a *Auditor) auditNeighbourhoods(ctx context.Context, report *AuditReport, expected map[neighbourhoodKey]*neighbourhoodTotals) error {
	stats, err := a.neighbourhoods.List(ctx, "")
	if err != nil {
		return fmt.Errorf("erro ao ler neighbourhood_stats: %w", err)
	}
	report.Neighbourhoods = len(stats)

	seen := make(map[neighbourhoodKey]struct{}, len(stats))
	for _, row := range stats {
		if row.Neighbourhood == "" {
			continue
		}
		key := neighbourhoodKey{city: row.City, neighbourhood: row.Neighbourhood}
		seen[key] = struct{}{}

		totals, ok := expected[key]
		if !ok {
			report.add("neighbourhood %s/%s has stats but no yield rows", row.City, row.Neighbourhood)
			continue
		}

		if row.TotalListings != totals.count {
			report.add("neighbourhood %s/%s total_listings %d, expected %d", row.City, row.Neighbourhood, row.TotalListings, totals.count)
		}
		n := float64(totals.count)
		if !almostEqual(row.AvgPrice, totals.price/n) {
			report.add("neighbourhood %s/%s avg_price %v, expected %v", row.City, row.Neighbourhood, row.AvgPrice, totals.price/n)
		}
		if !almostEqual(row.AvgAnnualRevenue, totals.revenue/n) {
			report.add("neighbourhood %s/%s avg_annual_revenue %v, expected %v", row.City, row.Neighbourhood, row.AvgAnnualRevenue, totals.revenue/n)
		}
		if !almostEqual(row.AvgRating, totals.rating/n) {
			report.add("neighbourhood %s/%s avg_rating %v, expected %v", row.City, row.Neighbourhood, row.AvgRating, totals.rating/n)
		}
	}

	for key := range expected {
		if _, ok := seen[key]; !ok {
			report.add("neighbourhood %s/%s has yield rows but no stats", key.city, key.neighbourhood)
		}
	}

	return nil
}

func (a *Auditor) auditYield(report *AuditReport, listing *domain.CleanListing, record *domain.YieldRecord) {
	if record.OccupancyRate < 0 || record.OccupancyRate > OccupancyCap {
		report.add("yield row %s/%d occupancy_rate %v out of [0, %v]", record.City, record.ID, record.OccupancyRate, OccupancyCap)
	}

	expected := OccupancyRate(listing.ReviewsPerMonth, listing.MinimumNights)
	if !almostEqual(expected, record.OccupancyRate) {
		report.add("yield row %s/%d occupancy_rate %v, expected %v", record.City, record.ID, record.OccupancyRate, expected)
	}

	if !almostEqual(RevPAR(record.PriceClean, record.OccupancyRate), record.RevPAR) {
		report.add("yield row %s/%d revpar %v inconsistent with price and occupancy", record.City, record.ID, record.RevPAR)
	}

	if !(record.RevenueBear < record.RevenueBase && record.RevenueBase < record.RevenueBull) {
		report.add("yield row %s/%d scenarios out of order: bear %v, base %v, bull %v",
			record.City, record.ID, record.RevenueBear, record.RevenueBase, record.RevenueBull)
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= auditTolerance*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
