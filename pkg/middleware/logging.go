package middleware

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/vfg2006/rental-analytics/pkg/apiErrors"
	"github.com/vfg2006/rental-analytics/pkg/log"
)

const slowRequestThreshold = 500 * time.Millisecond

// LoggingMiddleware registra cada requisição com um ID de correlação
func LoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, correlationID := log.WithCorrelationID(r.Context())
			r = r.WithContext(ctx)

			lrw := newLoggingResponseWriter(w)
			startTime := time.Now()

			log.L.WithFields(log.Fields{
				"correlation_id": correlationID,
				"remote_addr":    r.RemoteAddr,
				"method":         r.Method,
				"path":           r.URL.Path,
				"query":          r.URL.RawQuery,
				"user_agent":     r.UserAgent(),
			}).Debug("Requisição iniciada")

			next.ServeHTTP(lrw, r)

			responseTime := time.Since(startTime)
			logger := log.L.WithFields(log.Fields{
				"correlation_id": correlationID,
				"method":         r.Method,
				"path":           r.URL.Path,
				"duration_ms":    responseTime.Milliseconds(),
				"status_code":    lrw.statusCode,
			})

			msg := fmt.Sprintf("Requisição finalizada em %s", formatDuration(responseTime))
			switch {
			case lrw.statusCode >= 500:
				logger.Error(msg)
			case lrw.statusCode >= 400:
				logger.Warn(msg)
			default:
				logger.Info(msg)
			}

			if responseTime > slowRequestThreshold {
				logger.Warnf("Requisição lenta: %s %s", r.Method, r.URL.Path)
			}
		})
	}
}

// formatDuration formata a duração de forma humana
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%d µs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%d ms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2f s", d.Seconds())
	}
}

// loggingResponseWriter captura o status code da resposta
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newLoggingResponseWriter(w http.ResponseWriter) *loggingResponseWriter {
	return &loggingResponseWriter{w, http.StatusOK}
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// LogPanicMiddleware converte panics em 500 e registra o stack trace
func LogPanicMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					stack := make([]byte, 4096)
					stackSize := runtime.Stack(stack, false)

					log.L.WithContext(r.Context()).WithFields(log.Fields{
						"error":       err,
						"method":      r.Method,
						"path":        r.URL.Path,
						"stack_trace": string(stack[:stackSize]),
					}).Error("Erro não tratado na aplicação")

					apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno no servidor", nil)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
