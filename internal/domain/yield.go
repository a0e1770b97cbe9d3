package domain

// YieldRecord representa uma linha de yield_analysis
type YieldRecord struct {
	City          string  `json:"city"`
	Neighbourhood string  `json:"neighbourhood"`
	ID            int64   `json:"id"`
	PriceClean    float64 `json:"price_clean"`
	OccupancyRate float64 `json:"occupancy_rate"`
	RevPAR        float64 `json:"revpar"`
	RevenueBear   float64 `json:"revenue_bear"`
	RevenueBase   float64 `json:"revenue_base"`
	RevenueBull   float64 `json:"revenue_bull"`
}

// ValuationRow é a linha exportada para ferramentas de relatório (clean_listings + yield_analysis)
type ValuationRow struct {
	ID            int64   `json:"id"`
	City          string  `json:"city"`
	Neighbourhood string  `json:"neighbourhood"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	RoomType      string  `json:"room_type"`
	PropertyType  string  `json:"property_type"`
	Accommodates  int     `json:"accommodates"`
	Rating        float64 `json:"rating"`
	Reviews       int     `json:"reviews"`
	OccupancyRate float64 `json:"occupancy_rate"`
	RevPAR        float64 `json:"revpar"`
	NightlyRate   float64 `json:"nightly_rate"`
	RevenueBear   float64 `json:"annual_revenue_conservative"`
	RevenueBase   float64 `json:"annual_revenue"`
	RevenueBull   float64 `json:"annual_revenue_optimistic"`
}
