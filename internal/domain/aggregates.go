package domain

// SeasonalityRecord representa uma linha de seasonality_stats
type SeasonalityRecord struct {
	MonthYear string   `json:"month_year"` // Formato YYYY-MM
	AvgPrice  *float64 `json:"avg_price"`  // nulo quando o mês não tem preço válido
}

// NeighbourhoodStats representa uma linha de neighbourhood_stats
type NeighbourhoodStats struct {
	City             string  `json:"city"`
	Neighbourhood    string  `json:"neighbourhood"`
	TotalListings    int     `json:"total_listings"`
	AvgPrice         float64 `json:"avg_price"`
	AvgAnnualRevenue float64 `json:"avg_annual_revenue"` // Cenário base
	AvgRating        float64 `json:"avg_rating"`
}
