package handler

import (
	"errors"
	"net/http"

	"github.com/vfg2006/rental-analytics/internal/domain"
	"github.com/vfg2006/rental-analytics/internal/scheduler"
	"github.com/vfg2006/rental-analytics/internal/usecases/reporting"
	"github.com/vfg2006/rental-analytics/pkg/apiErrors"
	"github.com/vfg2006/rental-analytics/pkg/log"
	"github.com/vfg2006/rental-analytics/pkg/middleware"
)

// PipelineTrigger dispara e acompanha as execuções feitas por este processo
type PipelineTrigger interface {
	TriggerManualSync() error
	GetStatus() scheduler.PipelineSyncStatus
}

type pipelineStatusResponse struct {
	Scheduler scheduler.PipelineSyncStatus `json:"scheduler"`
	LatestRun *domain.PipelineRun          `json:"latest_run"`
}

// RunPipeline inicia uma execução manual em segundo plano
func RunPipeline(trigger PipelineTrigger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := trigger.TriggerManualSync(); err != nil {
			if errors.Is(err, scheduler.ErrSyncRunning) {
				apiErrors.WriteError(w, apiErrors.ErrPipelineRunning, "Pipeline já está em execução", nil)
				return
			}
			writeServiceError(w, r, err, "Erro ao iniciar o pipeline")
			return
		}

		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			log.L.WithContext(r.Context()).WithField("requested_by", claims.Name).Info("Execução manual do pipeline solicitada")
		}

		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Execução do pipeline iniciada",
			"trigger": domain.RunTriggerManual,
		})
	})
}

// GetPipelineStatus combina o estado do agendador com a última execução registrada
func GetPipelineStatus(trigger PipelineTrigger, service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := pipelineStatusResponse{Scheduler: trigger.GetStatus()}

		run, err := service.LatestRun(r.Context())
		switch {
		case errors.Is(err, reporting.ErrRunNotFound):
		case err != nil:
			writeServiceError(w, r, err, "Erro ao buscar última execução do pipeline")
			return
		default:
			response.LatestRun = run
		}

		writeJSON(w, r, http.StatusOK, response)
	})
}
