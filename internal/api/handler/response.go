package handler

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/vfg2006/rental-analytics/infrastructure/repository"
	"github.com/vfg2006/rental-analytics/internal/usecases/analysis"
	"github.com/vfg2006/rental-analytics/internal/usecases/reporting"
	"github.com/vfg2006/rental-analytics/pkg/apiErrors"
	"github.com/vfg2006/rental-analytics/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.L.WithContext(r.Context()).WithError(err).Error("Erro ao codificar resposta")
	}
}

// writeServiceError converte os erros dos casos de uso no código da API
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, message string) {
	log.L.WithContext(r.Context()).WithError(err).Error(message)

	var reportErr *reporting.ReportError
	switch {
	case errors.As(err, &reportErr):
		apiErrors.WriteError(w, reportErr.Code, reportErr.Error(), nil)
	case errors.Is(err, analysis.ErrNoModelData):
		apiErrors.WriteError(w, apiErrors.ErrNoModelData, "Nenhum anúncio elegível para o modelo de preço", nil)
	case errors.Is(err, repository.ErrTableNotFound):
		apiErrors.WriteError(w, apiErrors.ErrNotMaterialized, "Execute o pipeline antes de consultar este recurso", nil)
	default:
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, message, nil)
	}
}
