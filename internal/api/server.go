package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/rental-analytics/internal/api/handler"
	"github.com/vfg2006/rental-analytics/internal/api/handler/router"
	"github.com/vfg2006/rental-analytics/internal/config"
	"github.com/vfg2006/rental-analytics/internal/usecases/analysis"
	"github.com/vfg2006/rental-analytics/internal/usecases/authenticating"
	"github.com/vfg2006/rental-analytics/internal/usecases/reporting"
	"github.com/vfg2006/rental-analytics/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
}

func New(
	config *config.Config,
	db handler.Pinger,
	reportService reporting.Reporter,
	analysisService analysis.Analyzer,
	authenticator authenticating.Authenticator,
	pipelineTrigger handler.PipelineTrigger,
) (*Server, error) {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck(db)...),
		router.WithRoutes(handler.Reports(reportService)...),
		router.WithRoutes(handler.Analysis(analysisService)...),
		router.WithRoutes(handler.Pipeline(pipelineTrigger, reportService)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.AllowedOrigins),
		middleware.AuthMiddleware(authenticator),
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

// Handler expõe a cadeia completa de middlewares e rotas
func (s Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	// Aguardar pelo sinal ou pelo cancelamento do contexto
	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	// Define timeout para desligamento
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": shutdownTimeout.String(),
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
