package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vfg2006/rental-analytics/infrastructure/database/postgres"
	"github.com/vfg2006/rental-analytics/internal/app"
	"github.com/vfg2006/rental-analytics/internal/config"
	"github.com/vfg2006/rental-analytics/pkg/log"
)

// phaseError identifica a fase do pipeline que falhou
type phaseError struct {
	phase string
	err   error
}

func (e *phaseError) Error() string {
	return fmt.Sprintf("Pipeline failed at %s: %v", e.phase, e.err)
}

func (e *phaseError) Unwrap() error {
	return e.err
}

func failedAt(phase string, err error) error {
	return &phaseError{phase: phase, err: err}
}

// loadConfig é substituída nos testes
var loadConfig = config.NewConfig

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pipeline",
		Short:         "Pipeline de analytics de aluguel de temporada",
		Long:          "Transforma os anúncios brutos em tabelas analíticas no PostgreSQL, exporta os datasets de BI e ajusta o modelo de preço.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRunCmd(),
		newExportCmd(),
		newAnalyzeCmd(),
		newTokenCmd(),
		newInitDBCmd(),
	)

	return root
}

func main() {
	log.Configure("info")

	// interrupção cancela a etapa corrente, cuja transação é revertida
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap carrega a configuração e conecta ao banco; o chamador fecha a conexão
func bootstrap(ctx context.Context, configure func(*config.Config)) (*app.Services, *postgres.Connection, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, failedAt("configuration", err)
	}
	log.Configure(cfg.App.LogLevel)

	if configure != nil {
		configure(cfg)
		// flags podem ligar o modo paralelo depois da leitura da configuração
		if err := cfg.ValidatePool(); err != nil {
			return nil, nil, failedAt("configuration", err)
		}
	}

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		return nil, nil, failedAt("connection", err)
	}
	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")

	services, err := app.NewServices(ctx, cfg, conn)
	if err != nil {
		conn.Close()
		return nil, nil, failedAt("initialization", err)
	}

	return services, conn, nil
}
