package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/vfg2006/rental-analytics/internal/usecases/reporting"
	"github.com/vfg2006/rental-analytics/pkg/apiErrors"
)

// ListNeighbourhoods retorna neighbourhood_stats, opcionalmente filtrado por ?city=
func ListNeighbourhoods(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stats, err := service.NeighbourhoodStats(r.Context(), r.URL.Query().Get("city"))
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar estatísticas por bairro")
			return
		}
		writeJSON(w, r, http.StatusOK, stats)
	})
}

func ListSeasonality(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		records, err := service.Seasonality(r.Context())
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar sazonalidade")
			return
		}
		writeJSON(w, r, http.StatusOK, records)
	})
}

func GetListingYield(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := httprouter.ParamsFromContext(r.Context())

		id, err := strconv.ParseInt(params.ByName("id"), 10, 64)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do anúncio deve ser numérico", nil)
			return
		}

		record, err := service.ListingYield(r.Context(), params.ByName("city"), id)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar yield do anúncio")
			return
		}
		writeJSON(w, r, http.StatusOK, record)
	})
}

func ListPipelineRuns(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "limit deve ser numérico", nil)
				return
			}
			limit = parsed
		}

		runs, err := service.Runs(r.Context(), limit)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar execuções do pipeline")
			return
		}
		writeJSON(w, r, http.StatusOK, runs)
	})
}
