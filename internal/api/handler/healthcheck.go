package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/vfg2006/rental-analytics/pkg/apiErrors"
	"github.com/vfg2006/rental-analytics/pkg/log"
)

// Pinger verifica a conectividade com o banco
type Pinger interface {
	PingContext(ctx context.Context) error
}

func HealthcheckHandler(db Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			log.L.WithContext(r.Context()).WithError(err).Warn("Banco de dados indisponível no healthcheck")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Banco de dados indisponível", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
}
