package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/rental-analytics/internal/config"
	"github.com/vfg2006/rental-analytics/internal/domain"
	"github.com/vfg2006/rental-analytics/internal/usecases/exporting"
)

// ErrSyncRunning indica que já existe uma execução disparada por este processo
var ErrSyncRunning = errors.New("pipeline sync already running")

// Runner executa o pipeline de transformação
type Runner interface {
	Run(ctx context.Context, trigger domain.RunTrigger) (*domain.PipelineRun, error)
}

// Exporter regenera os arquivos de BI após uma execução bem-sucedida
type Exporter interface {
	Export(ctx context.Context) (*exporting.Result, error)
}

// PipelineSyncStatus é o estado exposto pela rota de status
type PipelineSyncStatus struct {
	Running         bool             `json:"sync_running"`
	Enabled         bool             `json:"sync_enabled"`
	Cron            string           `json:"sync_cron"`
	LastStartedAt   time.Time        `json:"last_sync_started_at"`
	LastCompletedAt time.Time        `json:"last_sync_completed_at"`
	LastRunID       string           `json:"last_run_id,omitempty"`
	LastRunStatus   domain.RunStatus `json:"last_run_status,omitempty"`
	LastError       string           `json:"last_error,omitempty"`
}

// PipelineSyncService agenda e dispara as execuções do pipeline
type PipelineSyncService struct {
	scheduler           *gocron.Scheduler
	config              config.PipelineSync
	runner              Runner
	exporter            Exporter
	baseCtx             context.Context
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastRun             *domain.PipelineRun
	lastError           string
}

// NewPipelineSyncService cria o serviço; exporter pode ser nil
func NewPipelineSyncService(runner Runner, exporter Exporter, cfg config.PipelineSync) *PipelineSyncService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule": cfg.CronSchedule,
		"sync_enabled":  cfg.Enabled,
	}).Info("Configuração do agendador do pipeline carregada")

	return &PipelineSyncService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    cfg,
		runner:    runner,
		exporter:  exporter,
		baseCtx:   context.Background(),
	}
}

// Start inicia o agendador; o contexto também limita as execuções manuais
func (s *PipelineSyncService) Start(ctx context.Context) error {
	s.syncMutex.Lock()
	s.baseCtx = ctx
	s.syncMutex.Unlock()

	if !s.config.Enabled {
		logrus.Info("Execução agendada do pipeline desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador do pipeline")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if !s.acquire() {
			logrus.Info("Pipeline já em andamento, ignorando execução agendada")
			return
		}
		s.sync(domain.RunTriggerCron)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar execução do pipeline: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador do pipeline")
		s.scheduler.Stop()
	}()

	return nil
}

// TriggerManualSync dispara uma execução em segundo plano
func (s *PipelineSyncService) TriggerManualSync() error {
	if !s.acquire() {
		logrus.Info("Pipeline já em andamento, ignorando solicitação manual")
		return ErrSyncRunning
	}

	logrus.Info("Iniciando execução manual do pipeline")
	go s.sync(domain.RunTriggerManual)
	return nil
}

func (s *PipelineSyncService) acquire() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	return true
}

// sync executa o pipeline; o chamador já deve ter obtido a vez com acquire
func (s *PipelineSyncService) sync(trigger domain.RunTrigger) {
	s.syncMutex.Lock()
	ctx := s.baseCtx
	s.syncMutex.Unlock()

	var (
		run *domain.PipelineRun
		err error
	)
	defer func() {
		s.syncMutex.Lock()
		defer s.syncMutex.Unlock()

		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.lastError = ""
		if run != nil {
			s.lastRun = run
		}
		if err != nil {
			s.lastError = err.Error()
		}
	}()

	startTime := time.Now()
	run, err = s.runner.Run(ctx, trigger)
	if err != nil {
		logrus.WithError(err).WithField("trigger", trigger).Error("Execução do pipeline falhou")
		return
	}

	if s.exporter != nil {
		if _, exportErr := s.exporter.Export(ctx); exportErr != nil {
			err = fmt.Errorf("erro na exportação: %w", exportErr)
			logrus.WithError(exportErr).Error("Erro ao exportar datasets após execução do pipeline")
			return
		}
	}

	logrus.WithFields(logrus.Fields{
		"run_id":   run.ID,
		"trigger":  trigger,
		"duration": time.Since(startTime).String(),
	}).Info("Execução do pipeline concluída")
}

// GetStatus retorna o status atual do agendador e da última execução
func (s *PipelineSyncService) GetStatus() PipelineSyncStatus {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := PipelineSyncStatus{
		Running:         s.syncRunning,
		Enabled:         s.config.Enabled,
		Cron:            s.config.CronSchedule,
		LastStartedAt:   s.lastSyncStartedAt,
		LastCompletedAt: s.lastSyncCompletedAt,
		LastError:       s.lastError,
	}
	if s.lastRun != nil {
		status.LastRunID = s.lastRun.ID
		status.LastRunStatus = s.lastRun.Status
	}
	return status
}
