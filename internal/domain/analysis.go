package domain

// PriceDriver é o coeficiente estimado de uma variável explicativa do preço
type PriceDriver struct {
	Feature string  `json:"feature"`
	Impact  float64 `json:"impact"`
}

// PriceModelReport é o resultado da regressão linear de preço
type PriceModelReport struct {
	Samples   int           `json:"samples"`
	RSquared  float64       `json:"r_squared"`
	Intercept float64       `json:"intercept"`
	Drivers   []PriceDriver `json:"drivers"`
}
