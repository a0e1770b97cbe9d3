// Package domain contém as estruturas de dados do domínio da aplicação
package domain

// CleanListing representa uma linha de clean_listings
type CleanListing struct {
	City            string   `json:"city"`
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Neighbourhood   string   `json:"neighbourhood"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	PropertyType    string   `json:"property_type"`
	RoomType        string   `json:"room_type"`
	Accommodates    int      `json:"accommodates"`
	PriceClean      *float64 `json:"price_clean"` // nulo quando o preço bruto não pôde ser interpretado
	MinimumNights   int      `json:"minimum_nights"`
	Reviews         int      `json:"reviews"`
	Rating          float64  `json:"rating"`
	ReviewsPerMonth float64  `json:"reviews_per_month"`
	IsOutlier       bool     `json:"is_outlier"`
}

// HasValidPrice indica se o anúncio participa da classificação de outliers e do yield
func (l CleanListing) HasValidPrice() bool {
	return l.PriceClean != nil && *l.PriceClean > 0
}

// ModelInput é a linha usada pelo modelo explicativo de preço
type ModelInput struct {
	Price        float64 `json:"price"`
	RoomType     string  `json:"room_type"`
	Accommodates int     `json:"accommodates"`
	Reviews      int     `json:"reviews"`
	Rating       float64 `json:"rating"`
}
