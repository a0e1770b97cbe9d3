package transform

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vfg2006/rental-analytics/infrastructure/database/postgres"
	"github.com/vfg2006/rental-analytics/internal/config"
	"github.com/vfg2006/rental-analytics/internal/domain"
	"github.com/vfg2006/rental-analytics/pkg/utils"
)

// Store é o banco onde as tabelas derivadas são materializadas
type Store interface {
	Transactor
	WithAdvisoryLock(ctx context.Context, key int64, fn func(context.Context) error) error
}

// RunRecorder persiste o registro de cada execução
type RunRecorder interface {
	Create(ctx context.Context, run *domain.PipelineRun) error
	Update(ctx context.Context, run *domain.PipelineRun) error
}

// Verifier confere as tabelas derivadas ao final de uma execução bem-sucedida
type Verifier interface {
	Audit(ctx context.Context) (*AuditReport, error)
}

type Option func(*Pipeline)

// WithVerifier habilita a auditoria pós-execução
func WithVerifier(verifier Verifier) Option {
	return func(p *Pipeline) {
		p.verifier = verifier
	}
}

// WithStages substitui as etapas padrão
func WithStages(stages ...*Stage) Option {
	return func(p *Pipeline) {
		p.stages = stages
	}
}

type Pipeline struct {
	store    Store
	catalog  Catalog
	runs     RunRecorder
	verifier Verifier
	cfg      config.Pipeline
	cities   []City
	stages   []*Stage
	graph    *Graph
}

func New(store Store, catalog Catalog, runs RunRecorder, cfg config.Pipeline, opts ...Option) (*Pipeline, error) {
	cities, err := ParseCities(cfg.Cities)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:   store,
		catalog: catalog,
		runs:    runs,
		cfg:     cfg,
		cities:  cities,
		stages:  DefaultStages(cities),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.graph, err = NewGraph(p.stages...)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Run executa todas as etapas sob o advisory lock e registra o resultado em
// pipeline_runs. O registro é devolvido mesmo quando a execução falha.
func (p *Pipeline) Run(ctx context.Context, trigger domain.RunTrigger) (*domain.PipelineRun, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar id da execução: %w", err)
	}

	run := &domain.PipelineRun{
		ID:        id,
		Trigger:   trigger,
		Status:    domain.RunStatusRunning,
		Cities:    p.cfg.Cities,
		Stages:    []domain.StageResult{},
		StartedAt: time.Now(),
	}

	logger := logrus.WithFields(logrus.Fields{
		"run_id":  run.ID,
		"trigger": trigger,
	})
	logger.Info("Iniciando execução do pipeline")

	if err := p.runs.Create(ctx, run); err != nil {
		logger.WithError(err).Error("Erro ao registrar início da execução")
	}

	err = p.store.WithAdvisoryLock(ctx, p.cfg.LockKey, func(ctx context.Context) error {
		if err := p.execute(ctx, run, logger); err != nil {
			return err
		}
		if p.verifier != nil {
			p.audit(ctx, run, logger)
		}
		return nil
	})
	if errors.Is(err, postgres.ErrLockNotAcquired) {
		err = ErrPipelineLocked
	}

	p.finish(ctx, run, err, logger)

	return run, err
}

func (p *Pipeline) execute(ctx context.Context, run *domain.PipelineRun, logger *logrus.Entry) error {
	state := &runState{
		run:      run,
		statuses: make(map[string]domain.StageStatus, len(p.stages)),
	}

	if p.cfg.Parallel {
		return p.runParallel(ctx, state, logger)
	}
	return p.runSequential(ctx, state, logger)
}

func (p *Pipeline) runSequential(ctx context.Context, state *runState, logger *logrus.Entry) error {
	for _, stage := range p.graph.Order() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.runStage(ctx, state, stage, logger); err != nil {
			return err
		}
	}
	return nil
}

// runParallel dispara uma goroutine por etapa; cada uma espera as próprias
// dependências. A primeira falha crítica cancela as demais.
func (p *Pipeline) runParallel(ctx context.Context, state *runState, logger *logrus.Entry) error {
	group, groupCtx := errgroup.WithContext(ctx)

	done := make(map[string]chan struct{}, len(p.stages))
	for _, stage := range p.stages {
		done[stage.Name] = make(chan struct{})
	}

	for _, stage := range p.graph.Order() {
		stage := stage
		group.Go(func() error {
			for _, dep := range stage.DependsOn {
				select {
				case <-done[dep]:
				case <-groupCtx.Done():
					return groupCtx.Err()
				}
			}

			if err := p.runStage(groupCtx, state, stage, logger); err != nil {
				// dependentes saem pelo cancelamento do grupo
				return err
			}
			close(done[stage.Name])
			return nil
		})
	}

	return group.Wait()
}

func (p *Pipeline) runStage(ctx context.Context, state *runState, stage *Stage, logger *logrus.Entry) error {
	stageLogger := logger.WithFields(logrus.Fields{
		"stage": stage.Name,
		"table": stage.Table,
	})

	if dep, blocked := state.blockedBy(stage); blocked {
		err := fmt.Errorf("dependency %q not available", dep)
		result := domain.StageResult{
			Stage:    stage.Name,
			Table:    stage.Table,
			Status:   domain.StageStatusSkipped,
			Critical: stage.Critical,
			Error:    err.Error(),
		}

		if stage.Critical {
			result.Status = domain.StageStatusFailed
			state.record(result)
			stageLogger.WithError(err).Error("Etapa crítica sem dependência concluída")
			return &StageError{Stage: stage.Name, Table: stage.Table, Err: err}
		}

		state.record(result)
		stageLogger.WithField("dependency", dep).Warn("Etapa ignorada: dependência não concluída")
		return nil
	}

	if p.cfg.StageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.StageTimeout)
		defer cancel()
	}

	stageLogger.Info("Iniciando etapa")

	result, err := materialize(ctx, p.store, p.catalog, stage)
	state.record(result)

	switch {
	case err == nil:
		stageLogger.WithField("duration", result.Duration).Info("Etapa concluída")
		return nil
	case !stage.Critical:
		stageLogger.WithError(err).Warn("Etapa não crítica não concluída, pipeline continua")
		return nil
	default:
		stageLogger.WithError(err).Error("Etapa crítica falhou, pipeline interrompido")
		return errors.WithStack(err)
	}
}

func (p *Pipeline) audit(ctx context.Context, run *domain.PipelineRun, logger *logrus.Entry) {
	report, err := p.verifier.Audit(ctx)
	if err != nil {
		logger.WithError(err).Warn("Erro ao auditar tabelas derivadas")
		return
	}

	run.Violations = report.Violations
	if len(report.Violations) == 0 {
		logger.WithFields(logrus.Fields{
			"listings": report.Listings,
			"yields":   report.Yields,
		}).Info("Auditoria concluída sem violações")
		return
	}

	for _, violation := range report.Violations {
		logger.Warn("Violação encontrada na auditoria: ", violation)
	}
}

func (p *Pipeline) finish(ctx context.Context, run *domain.PipelineRun, err error, logger *logrus.Entry) {
	finishedAt := time.Now()
	run.FinishedAt = &finishedAt
	run.Status = domain.RunStatusSucceeded

	if err != nil {
		run.Status = domain.RunStatusFailed
		run.Error = err.Error()

		var stageErr *StageError
		if errors.As(err, &stageErr) {
			run.FailedStage = stageErr.Stage
		}
	}

	// o registro precisa ser gravado mesmo se a execução foi cancelada
	if saveErr := p.runs.Update(context.WithoutCancel(ctx), run); saveErr != nil {
		logger.WithError(saveErr).Error("Erro ao registrar fim da execução")
	}

	logger.WithFields(logrus.Fields{
		"status":   run.Status,
		"duration": finishedAt.Sub(run.StartedAt),
	}).Info("Execução do pipeline finalizada")
}

// runState guarda os resultados das etapas; é compartilhado entre goroutines no modo paralelo
type runState struct {
	mu       sync.Mutex
	run      *domain.PipelineRun
	statuses map[string]domain.StageStatus
}

func (s *runState) record(result domain.StageResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.run.Stages = append(s.run.Stages, result)
	s.statuses[result.Stage] = result.Status
}

func (s *runState) blockedBy(stage *Stage) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, dep := range stage.DependsOn {
		if s.statuses[dep] != domain.StageStatusSucceeded {
			return dep, true
		}
	}
	return "", false
}
