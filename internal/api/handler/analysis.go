package handler

import (
	"net/http"
	"strconv"

	"github.com/vfg2006/rental-analytics/internal/usecases/analysis"
	"github.com/vfg2006/rental-analytics/pkg/apiErrors"
)

// GetPriceDrivers ajusta o modelo de preço; ?top= limita os coeficientes
func GetPriceDrivers(service analysis.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		top := 0
		if raw := r.URL.Query().Get("top"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "top deve ser um inteiro não negativo", nil)
				return
			}
			top = parsed
		}

		report, err := service.PriceDrivers(r.Context(), top)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao ajustar o modelo de preço")
			return
		}
		writeJSON(w, r, http.StatusOK, report)
	})
}
