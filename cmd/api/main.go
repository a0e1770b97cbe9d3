package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/rental-analytics/infrastructure/database/postgres"
	"github.com/vfg2006/rental-analytics/internal/api"
	"github.com/vfg2006/rental-analytics/internal/app"
	"github.com/vfg2006/rental-analytics/internal/config"
	"github.com/vfg2006/rental-analytics/internal/scheduler"
	"github.com/vfg2006/rental-analytics/internal/usecases/authenticating"
	"github.com/vfg2006/rental-analytics/pkg/log"
)

func main() {
	log.Configure("info")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Configure(cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	services, err := app.NewServices(ctx, cfg, pgConn)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao inicializar os serviços")
	}

	authenticator := authenticating.NewService(cfg.Auth)
	if cfg.Auth.Secret == "" {
		logrus.Warn("AUTH_SECRET vazio: rotas autenticadas responderão 401")
	}

	var exporter scheduler.Exporter
	if cfg.Export.AfterSync {
		exporter = services.Exporter
	}

	pipelineSyncService := scheduler.NewPipelineSyncService(services.Pipeline, exporter, cfg.PipelineSync)
	if err := pipelineSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador do pipeline")
	} else {
		logrus.Info("Agendador do pipeline iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		pgConn.DB,
		services.Reporter,
		services.Analyzer,
		authenticator,
		pipelineSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
